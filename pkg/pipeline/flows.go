package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/testplot/pkg/dataset"
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// FlowsOptions configures a flows run.
type FlowsOptions struct {
	Dir    string
	Font   string
	Render bool // run the engine on every script
}

// FlowsOutput is the flows script of one leaf-set.
type FlowsOutput struct {
	LeafSet string
	Script  string // path of the written script
	PDF     string // path of the rendered PDF, empty without rendering
	Pages   int
}

// Flows writes one multi-page flows script per leaf-set of the hierarchy in
// opts.Dir. Each script lands next to the first test case of its leaf-set.
// Pivots and layout are not involved.
func (r *Runner) Flows(ctx context.Context, opts FlowsOptions) ([]FlowsOutput, error) {
	if opts.Dir == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "directory is required")
	}
	if opts.Font == "" {
		opts.Font = gnuplot.DefaultFont
	}

	root, err := hierarchy.FromDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	type pending struct {
		out    FlowsOutput
		script string
	}
	var todo []pending
	for _, ls := range root.LeafSets() {
		paths := ls.TestCases()
		folder := filepath.Dir(paths[0])
		pages := make([]gnuplot.FlowPage, 0, len(paths))
		for _, tc := range paths {
			flows, err := dataset.ReadFlows(tc)
			if err != nil {
				return nil, err
			}
			pages = append(pages, gnuplot.FlowPage{Dir: scriptRelative(folder, tc), Title: tc, Flows: flows})
		}
		todo = append(todo, pending{
			out: FlowsOutput{
				LeafSet: ls.Title,
				Script:  filepath.Join(folder, FlowsOutputName+"."+FormatGPI),
				Pages:   len(pages),
			},
			script: gnuplot.FlowsScript(pages, opts.Font, FlowsOutputName+"."+FormatPDF),
		})
	}
	if len(todo) == 0 {
		return nil, perrors.Structure(opts.Dir, "hierarchy has no test cases")
	}

	outputs := make([]FlowsOutput, 0, len(todo))
	for _, p := range todo {
		if err := os.WriteFile(p.out.Script, []byte(p.script), 0o644); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeRender, err, "write %s", p.out.Script)
		}
		r.Logger.Info("wrote flows script", "leaf_set", p.out.LeafSet, "pages", p.out.Pages, "path", p.out.Script)
		outputs = append(outputs, p.out)
	}

	if !opts.Render {
		return outputs, nil
	}
	for i, p := range todo {
		pdf := filepath.Join(filepath.Dir(p.out.Script), FlowsOutputName+"."+FormatPDF)
		// Flows scripts read their data files at render time, so the
		// script text does not identify the PDF.
		if _, err := r.runEngine(ctx, p.out.Script, pdf); err != nil {
			return outputs, err
		}
		outputs[i].PDF = pdf
	}
	return outputs, nil
}

// scriptRelative returns path relative to the script folder, where the
// engine runs, or as an absolute path when no relative form exists.
func scriptRelative(folder, path string) string {
	if rel, err := filepath.Rel(folder, path); err == nil {
		return rel
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
