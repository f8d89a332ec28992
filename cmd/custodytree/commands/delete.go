package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/metrics"
	"github.com/bplib-go/custodytree/pkg/safeconv"
)

// NewDeleteCommand builds `custodytree delete VALUE`.
func NewDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete VALUE",
		Short: "Delete a value from the session's tree",
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

			before := tr.Len()
			deleteErr := tr.Delete(v)

			if app.Metrics != nil {
				app.Metrics.Deletes.WithLabelValues(metrics.OutcomeLabel(deleteErr)).Inc()

				if deleteErr == nil && tr.Len() > before {
					app.Metrics.Splits.Inc()
				}

				app.Metrics.ObserveOccupancy(safeconv.MustIntToUint32(tr.Len()), tr.Capacity())
			}

			app.Logger.Debug("delete", "session", app.SessionName, "value", v, "err", deleteErr)

			if errors.Is(deleteErr, custodytree.ErrTreeFull) {
				app.Logger.Warn("arena exhausted", "session", app.SessionName, "op", "delete", "value", v)
			}

			if deleteErr != nil {
				return deleteErr
			}

			if saveErr := app.saveTree(tr); saveErr != nil {
				return saveErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", v)

			return nil
		},
	}
}
