package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lineage/pkg/lineage"
)

const modulePath = "github.com/mesh-intelligence/lineage"

// versionInfo is the JSON form of the version command.
type versionInfo struct {
	Version string `json:"version"`
	Module  string `json:"module"`
	Go      string `json:"go"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lineage version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{Version: lineage.Version, Module: modulePath, Go: runtime.Version()}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lineage v%s (%s)\nmodule: %s\n", info.Version, info.Go, info.Module)
			return nil
		},
	}
}
