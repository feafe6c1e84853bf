package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var labels bool

	cmd := &cobra.Command{
		Use:   "inspect <dir> [levels]",
		Short: "Print the layout of a hierarchy without merging data",
		Long: `Print the layout of a hierarchy without merging data.

Shows one row per leaf-set with its x offset, width and test cases, then
the aggregate counts and the canvas size a collection run would use.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.collectionOptions(args[0])
			levels, err := levelsArg(args, 1)
			if err != nil {
				return err
			}
			opts.Levels = levels

			root, err := pipeline.Build(opts)
			if err != nil {
				return err
			}
			l, sc, err := pipeline.ComputeLayout(root, opts)
			if err != nil {
				return err
			}
			writeInspect(cmd.OutOrStdout(), l, sc, labels)
			return nil
		},
	}

	cmd.Flags().BoolVar(&labels, "labels", false, "also list the group labels")

	return cmd
}

// writeInspect prints the slot table, optionally the label table, and the
// counts of l.
func writeInspect(w io.Writer, l *layout.Layout, sc layout.Scale, labels bool) {
	fmt.Fprintln(w, StyleTitle.Render(l.Title))
	if l.Subtitle != "" {
		fmt.Fprintln(w, StyleDim.Render(l.Subtitle))
	}
	fmt.Fprintln(w)

	slots := newTable()
	slots.AppendHeader(table.Row{"#", "Leaf-set", "X", "Width", "Test cases"})
	for _, s := range l.Slots {
		title := s.Title
		if s.First {
			title += " *"
		}
		slots.AppendRow(table.Row{s.Index, title, s.X, s.Width, strings.Join(s.TestCases, "\n")})
	}
	slots.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d leaf-sets", len(l.Slots))})
	fmt.Fprintln(w, slots.Render())

	if labels && len(l.Labels) > 0 {
		fmt.Fprintln(w)
		lt := newTable()
		lt.AppendHeader(table.Row{"Depth", "Label", "X", "Width"})
		for _, lb := range l.Labels {
			lt.AppendRow(table.Row{lb.Depth, lb.Title, lb.X, lb.Width})
		}
		fmt.Fprintln(w, lt.Render())
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d leaf-sets, %d test cases, depth %d, %d nodes\n",
		styleKey.Render("Counts"), l.Counts.LeafSets, l.Counts.TestCases, l.Counts.MaxDepth, l.Counts.TotalNodes)
	fmt.Fprintf(w, "%s x %d..%d of %d units, xrange [%g:%g]\n",
		styleKey.Render("Axis"), 0, l.Span, l.End, sc.XMin, sc.XMax)
	fmt.Fprintf(w, "%s %.2fcm x %.2fcm\n",
		styleKey.Render("Canvas"), sc.WidthCM, sc.HeightCM)
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}
