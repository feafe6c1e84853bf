// Package render turns computed layouts into output files.
//
// # Overview
//
// The script emitters in the subpackages are pure text generators. This
// package holds the boundary to the external charting engine:
//
//   - [Engine] runs a finished script file; [Gnuplot] is the implementation
//     that shells out to the gnuplot executable.
//
// The engine is an interface so the pipeline can be exercised without
// gnuplot installed.
//
//	eng, err := render.NewGnuplot("gnuplot", "-d")
//	err = eng.Run(ctx, "results/comparison.gpi")
//
// # Subpackages
//
//   - [gnuplot]: comparison and flows scripts
//   - [nodelink]: hierarchy diagrams rendered with Graphviz
//   - [preview]: SVG preview of the layout (columns and group labels)
//   - [chartpage]: HTML report page of the merged statistics
//
// [gnuplot]: github.com/matzehuels/testplot/pkg/render/gnuplot
// [nodelink]: github.com/matzehuels/testplot/pkg/render/nodelink
// [preview]: github.com/matzehuels/testplot/pkg/render/preview
// [chartpage]: github.com/matzehuels/testplot/pkg/render/chartpage
package render
