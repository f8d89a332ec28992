package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/rangecodec"
)

const opDrain = "drain"

// NewDrainCommand builds `custodytree drain`.
func NewDrainCommand(app *App) *cobra.Command {
	var rebalance bool

	var format string

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Pop every range out of the session's tree in ascending order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()

			var doneInflight func()
			if app.RED != nil {
				doneInflight = app.RED.TrackInflight(ctx, opDrain)
			}

			start := time.Now()

			drained, err := runDrain(app, cmd, rebalance, format)

			if doneInflight != nil {
				doneInflight()
			}

			if app.RED != nil {
				status := "ok"
				if err != nil {
					status = "error"
				}

				app.RED.RecordRequest(ctx, opDrain, status, time.Since(start))
			}

			app.Logger.Debug("drain", "session", app.SessionName, "count", len(drained), "rebalance", rebalance)

			return err
		},
	}

	cmd.Flags().BoolVar(&rebalance, "rebalance", true,
		"keep red-black invariants intact during the drain (disable only for a one-shot full drain)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or bytes")

	return cmd
}

func runDrain(app *App, cmd *cobra.Command, rebalance bool, format string) ([]custodytree.Range, error) {
	tr, err := app.loadTree(0)
	if err != nil {
		return nil, err
	}

	drained, err := drainAll(tr, rebalance)
	if err != nil {
		return nil, err
	}

	if app.Metrics != nil {
		app.Metrics.Drains.Add(float64(len(drained)))
		app.Metrics.ObserveOccupancy(0, tr.Capacity())
	}

	if err := app.saveTree(tr); err != nil {
		return drained, err
	}

	return drained, writeDrained(cmd, drained, format)
}

func drainAll(tr *custodytree.Tree, rebalance bool) ([]custodytree.Range, error) {
	it, err := custodytree.First(tr)
	if err != nil {
		return nil, fmt.Errorf("start drain: %w", err)
	}

	var drained []custodytree.Range

	for !it.Done() {
		r, nextErr := it.Next(true, rebalance)
		if nextErr != nil {
			if errors.Is(nextErr, custodytree.ErrNullNode) {
				break
			}

			return nil, fmt.Errorf("drain step: %w", nextErr)
		}

		drained = append(drained, r)
	}

	return drained, nil
}

func writeDrained(cmd *cobra.Command, drained []custodytree.Range, format string) error {
	switch format {
	case "bytes":
		_, err := cmd.OutOrStdout().Write(rangecodec.Encode(drained))
		if err != nil {
			return fmt.Errorf("write encoded drain: %w", err)
		}

		return nil
	default:
		for _, r := range drained {
			fmt.Fprintf(cmd.OutOrStdout(), "%d,%d\n", r.Value, r.End())
		}

		return nil
	}
}
