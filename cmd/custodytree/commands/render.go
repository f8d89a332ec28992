package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/pkg/custodytree"
)

// NewRenderCommand builds `custodytree render`.
func NewRenderCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the session's ranges as a table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := app.loadTree(0)
			if err != nil {
				return err
			}

			nodes := custodytree.Nodes(tr)

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.Style().Options.SeparateColumns = false
			tbl.Style().Options.DrawBorder = false
			tbl.Style().Options.SeparateHeader = false

			tbl.AppendHeader(table.Row{"value", "end", "size", "color"})

			for _, n := range nodes {
				size := uint64(n.Range.Offset) + 1
				colorLabel := color.RedString("red")

				if n.Black {
					colorLabel = "black"
				}

				tbl.AppendRow(table.Row{n.Range.Value, n.Range.End(), humanize.Comma(int64(size)), colorLabel})
			}

			tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d ranges", len(nodes)), ""})
			tbl.Render()

			return nil
		},
	}
}
