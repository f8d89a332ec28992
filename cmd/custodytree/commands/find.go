package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFindCommand builds `custodytree find VALUE`.
func NewFindCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find VALUE",
		Short: "Report the range covering a value, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseUint32(args[0])
			if err != nil {
				return err
			}

			tr, err := app.loadTree(0)
			if err != nil {
				return err
			}

			r, ok := tr.Find(v)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%d not present\n", v)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d is in [%d, %d]\n", v, r.Value, r.End())

			return nil
		},
	}
}
