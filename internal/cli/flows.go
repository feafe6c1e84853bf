package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/testplot/pkg/pipeline"
)

// flowsCommand creates the flows command.
func (c *CLI) flowsCommand() *cobra.Command {
	var (
		noRender bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "flows <dir>",
		Short: "Plot the individual flows of every leaf-set",
		Long: `Plot the individual flows of every leaf-set.

Writes analysis_merged.gpi next to the first test case of each leaf-set,
with one page per test case showing per-flow rates and queueing delay.
Pivots do not apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ctx := cmd.Context()
			prog := newProgress(c.Logger)
			spinner := newSpinner(ctx, "Writing flow plots...")
			spinner.Start()

			outputs, err := runner.Flows(ctx, pipeline.FlowsOptions{
				Dir:    args[0],
				Font:   c.config().Render.Font,
				Render: !noRender,
			})
			if err != nil {
				spinner.StopWithError("Flow plots failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Wrote %d flow plots", len(outputs)))

			printSuccess("Flow plots complete")
			for _, o := range outputs {
				printFile(o.Script)
				if o.PDF != "" {
					printFile(o.PDF)
				}
				printDetail("%s: %d pages", o.LeafSet, o.Pages)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRender, "no-render", false, "only write the scripts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always run gnuplot, ignoring cached PDFs")

	return cmd
}
