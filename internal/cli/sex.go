package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// sexResult is the JSON form of the sex command.
type sexResult struct {
	Input string    `json:"input"`
	Sex   types.Sex `json:"sex"`
}

func newSexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sex <value>",
		Short: "Classify a gender string",
		Long:  "Classify a gender string as male (\"male\", \"m\") or female (\"female\", \"f\"), ignoring case and surrounding space.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sex, err := types.ParseSex(args[0])
			if err != nil {
				return userError("%w", err)
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), sexResult{Input: args[0], Sex: sex})
			}
			fmt.Fprintln(cmd.OutOrStdout(), sex)
			return nil
		},
	}
}
