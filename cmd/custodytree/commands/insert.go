package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/metrics"
	"github.com/bplib-go/custodytree/pkg/safeconv"
)

// NewInsertCommand builds `custodytree insert VALUE`.
func NewInsertCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insert VALUE",
		Short: "Insert a value into the session's tree",
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
			insertErr := tr.Insert(v)

			if app.Metrics != nil {
				app.Metrics.Inserts.WithLabelValues(metrics.OutcomeLabel(insertErr)).Inc()

				if insertErr == nil && tr.Len() <= before {
					app.Metrics.Merges.Inc()
				}

				app.Metrics.ObserveOccupancy(safeconv.MustIntToUint32(tr.Len()), tr.Capacity())
			}

			app.Logger.Debug("insert", "session", app.SessionName, "value", v, "err", insertErr)

			if errors.Is(insertErr, custodytree.ErrTreeFull) {
				app.Logger.Warn("arena exhausted", "session", app.SessionName, "op", "insert", "value", v)
			}

			if insertErr != nil && !errors.Is(insertErr, custodytree.ErrInsertDuplicate) {
				return insertErr
			}

			if saveErr := app.saveTree(tr); saveErr != nil {
				return saveErr
			}

			if errors.Is(insertErr, custodytree.ErrInsertDuplicate) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d already present\n", v)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d\n", v)

			return nil
		},
	}
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse value %q: %w", s, err)
	}

	return uint32(n), nil
}
