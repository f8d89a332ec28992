package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/custodytree"
)

// NewCreateCommand builds `custodytree create`.
func NewCreateCommand(app *App) *cobra.Command {
	var maxSize uint64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fresh, empty tree in the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if maxSize == 0 {
				maxSize = app.Config.DefaultMaxSize
			}

			tr, err := custodytree.Create(maxSize)
			if err != nil {
				return fmt.Errorf("create tree: %w", err)
			}

			app.Logger.Debug("create", "session", app.SessionName, "max_size", maxSize)

			if err := app.saveTree(tr); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created session %q with capacity %d\n", app.SessionName, maxSize)

			return nil
		},
	}

	cmd.Flags().Uint64Var(&maxSize, "max-size", 0, "arena capacity (defaults to the configured default_max_size)")

	return cmd
}
