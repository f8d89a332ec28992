package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/safeconv"
)

// NewStatsCommand builds `custodytree stats`.
func NewStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Report arena occupancy for the session's tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := app.loadTree(0)
			if err != nil {
				return err
			}

			size, capacity := tr.Len(), tr.Capacity()

			if app.Metrics != nil {
				app.Metrics.ObserveOccupancy(safeconv.MustIntToUint32(size), capacity)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ranges: %s / %s (%.1f%% full)\n",
				humanize.Comma(int64(size)), humanize.Comma(int64(capacity)),
				100*float64(size)/float64(capacity))

			return nil
		},
	}
}
