package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/pipeline"
	"github.com/matzehuels/testplot/pkg/render/nodelink"
)

// treeFileName is the default output name of the tree command.
const treeFileName = "hierarchy"

// treeCommand creates the tree command for hierarchy diagrams.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		specFile string
		detailed bool
		dotOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "tree <dir> [levels]",
		Short: "Draw the test hierarchy as a node-link diagram",
		Long: `Draw the test hierarchy as a node-link diagram.

The diagram shows the tree after the given pivots, so a regrouping can be
checked before rendering a comparison. Leaf-sets are annotated with their
test case count and x offset.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.collectionOptions(args[0])
			opts.SpecFile = specFile
			levels, err := levelsArg(args, 1)
			if err != nil {
				return err
			}
			opts.Levels = levels

			root, err := pipeline.Build(opts)
			if err != nil {
				return err
			}
			l, err := layout.Compute(root)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(root, nodelink.Options{Detailed: detailed, Layout: l})
			data := []byte(dot)
			ext := ".svg"
			if dotOnly {
				ext = ".dot"
			} else {
				data, err = nodelink.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return fmt.Errorf("render diagram: %w", err)
				}
			}

			path := output
			if path == "" {
				path = filepath.Join(args[0], treeFileName+ext)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Hierarchy diagram complete")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dir>/hierarchy.svg)")
	cmd.Flags().StringVar(&specFile, "spec", "", "build the hierarchy from a YAML/TOML spec file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "draw every test case")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write Graphviz DOT instead of SVG")

	return cmd
}
