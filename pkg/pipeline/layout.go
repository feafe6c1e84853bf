package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/testplot/pkg/dataset"
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/observability"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// ComputeLayout lays out root and derives its scale. The layout is computed
// once and shared by every statistic so all panels use the same offsets.
func ComputeLayout(root *hierarchy.Node, opts Options) (*layout.Layout, layout.Scale, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, layout.Scale{}, err
	}
	l, err := layout.Compute(root)
	if err != nil {
		return nil, layout.Scale{}, err
	}
	if len(l.Slots) == 0 {
		return nil, layout.Scale{}, perrors.New(perrors.ErrCodeInvalidInput, "hierarchy %q has no leaf-sets", root.Title)
	}
	return l, l.Scale(opts.Scale), nil
}

// MergeSlots merges every statistic used by panels for every slot of l.
// It returns the blocks and their total size.
func MergeSlots(ctx context.Context, m *dataset.Merger, l *layout.Layout, panels []gnuplot.Panel) (gnuplot.Data, int, error) {
	hooks := observability.Pipeline()
	hooks.OnMergeStart(ctx, l.Counts.TestCases)
	start := time.Now()

	data, size, err := mergeSlots(ctx, m, l, gnuplot.Stats(panels))
	hooks.OnMergeComplete(ctx, l.Counts.TestCases, size, time.Since(start), err)
	return data, size, err
}

func mergeSlots(ctx context.Context, m *dataset.Merger, l *layout.Layout, stats []string) (gnuplot.Data, int, error) {
	data := make(gnuplot.Data, len(l.Slots))
	size := 0
	for _, s := range l.Slots {
		blocks, err := m.MergeAll(ctx, s.TestCases, stats)
		if err != nil {
			return nil, size, err
		}
		for stat, parts := range blocks {
			data.Set(s.Index, stat, parts...)
			for _, p := range parts {
				size += len(p)
			}
		}
	}
	return data, size, nil
}
