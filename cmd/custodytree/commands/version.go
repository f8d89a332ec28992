package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/version"
)

// NewVersionCommand builds `custodytree version`.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "custodytree %s (api %d, commit: %s)\n",
				version.Semantic, version.Binary, version.BinaryGitHash)
		},
	}
}
