package pipeline

import (
	"context"
	"path/filepath"
	"time"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/hierarchy/transform"
	"github.com/matzehuels/testplot/pkg/observability"
)

// Build reads the hierarchy selected by opts and applies its pivots. The
// result is validated and has at least one test case.
func Build(opts Options) (*hierarchy.Node, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	root, err := source(opts)
	if err != nil {
		return nil, err
	}
	if opts.Title != "" {
		root.Title = opts.Title
	}
	if opts.XLabel != "" {
		root.XLabel = opts.XLabel
	}

	if len(opts.Levels) > 0 {
		root, err = transform.SwapLevels(root, opts.Levels)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("pivoted hierarchy", "levels", opts.Levels)
	}

	if err := root.Validate(); err != nil {
		return nil, err
	}
	if len(root.TestCasePaths()) == 0 {
		return nil, perrors.Structure(opts.Dir, "hierarchy has no test cases")
	}
	return root, nil
}

func source(opts Options) (*hierarchy.Node, error) {
	switch {
	case len(opts.TestCases) > 0:
		title := opts.Title
		if title == "" {
			title = filepath.Base(opts.Dir)
		}
		return hierarchy.Compare(title, opts.TestCases), nil
	case opts.SpecFile != "":
		spec, err := hierarchy.LoadSpecFile(opts.SpecFile)
		if err != nil {
			return nil, err
		}
		return hierarchy.FromSpec(spec)
	default:
		return hierarchy.FromDir(opts.Dir)
	}
}

// buildObserved runs Build and reports it to the pipeline hooks.
func buildObserved(ctx context.Context, opts Options) (*hierarchy.Node, time.Duration, error) {
	src := opts.Dir
	if opts.SpecFile != "" {
		src = opts.SpecFile
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, src)
	start := time.Now()
	root, err := Build(opts)
	d := time.Since(start)
	leafSets := 0
	if root != nil {
		leafSets = len(root.LeafSets())
	}
	hooks.OnBuildComplete(ctx, src, leafSets, d, err)
	return root, d, err
}
