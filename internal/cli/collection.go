package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/testplot/pkg/pipeline"
)

// renderFlags are shared by collection and compare.
type renderFlags struct {
	output  string
	formats string
	title   string
	xlabel  string
	noCache bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "base path of the outputs, without extension")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): gpi, pdf, html, svg, json (default gpi,pdf)")
	cmd.Flags().StringVar(&f.title, "title", "", "override the plot title")
	cmd.Flags().StringVar(&f.xlabel, "xlabel", "", "override the x-axis label")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "always run gnuplot, ignoring cached PDFs")
}

// apply copies the flags into opts.
func (f *renderFlags) apply(opts *pipeline.Options) error {
	formats, err := pipeline.ParseFormats(f.formats)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Output = f.output
	opts.Title = f.title
	opts.XLabel = f.xlabel
	return nil
}

// collectionCommand creates the collection command.
func (c *CLI) collectionCommand() *cobra.Command {
	var (
		flags    renderFlags
		specFile string
	)

	cmd := &cobra.Command{
		Use:   "collection <dir> [levels]",
		Short: "Plot a comparison of all test cases below a directory",
		Long: `Plot a comparison of all test cases below a directory.

The hierarchy is read from the "details" descriptor files of <dir> and its
subfolders.
Levels is a comma-separated list of tree levels to pivot, in order; level 0
swaps the groups directly below the top directory with the groups below
them.

With --spec the hierarchy comes from a YAML or TOML file instead and <dir>
is only where the outputs are written.

Rendered PDFs are cached by script content.`,
		Example: `  testplot collection results/
  testplot collection results/ 0,1 -f gpi,pdf,html
  testplot collection out/ --spec groups.yaml --title "AQM comparison"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.collectionOptions(args[0])
			opts.SpecFile = specFile

			levels, err := levelsArg(args, 1)
			if err != nil {
				return err
			}
			opts.Levels = levels

			if err := flags.apply(&opts); err != nil {
				return err
			}
			return c.runCollection(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&specFile, "spec", "", "build the hierarchy from a YAML/TOML spec file")

	return cmd
}

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "compare <outdir> <testcase>...",
		Short: "Plot a comparison of explicitly listed test cases",
		Long: `Plot a comparison of explicitly listed test cases.

All test cases form a single leaf-set titled after <outdir> (or --title).
Outputs are written to <outdir>/analysis_compare.* unless -o is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.collectionOptions(args[0])
			opts.TestCases = args[1:]
			if err := flags.apply(&opts); err != nil {
				return err
			}
			return c.runCollection(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)

	return cmd
}

// runCollection executes a collection run and reports the written files.
func (c *CLI) runCollection(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Building comparison...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Comparison failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Plotted %d test cases", result.Stats.TestCases))

	printSuccess("Comparison complete")
	for _, f := range result.Files {
		printFile(f)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)

	if opts.Wants(pipeline.FormatGPI) && !opts.Wants(pipeline.FormatPDF) {
		printNewline()
		printNextStep("Render", "gnuplot "+opts.OutputPath(pipeline.FormatGPI))
	}
	return nil
}
