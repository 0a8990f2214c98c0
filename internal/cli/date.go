package cli

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// dateResult is the JSON form of the date command.
type dateResult struct {
	Input string     `json:"input"`
	Date  civil.Date `json:"date"`
	Day   string     `json:"weekday"`
}

func newDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date <yyyy-mm-dd>",
		Short: "Validate a calendar date",
		Long:  "Validate a date in the strict " + types.DateLayout + " layout. Impossible dates such as 2021-02-30 are rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := types.ParseDate(args[0])
			if err != nil {
				return userError("%w", err)
			}
			day := d.In(time.UTC).Weekday().String()
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), dateResult{Input: args[0], Date: d, Day: day})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", d, day)
			return nil
		},
	}
}
