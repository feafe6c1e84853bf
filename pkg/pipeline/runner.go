package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/testplot/pkg/cache"
	"github.com/matzehuels/testplot/pkg/dataset"
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/observability"
	"github.com/matzehuels/testplot/pkg/render"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// TTLArtifact keeps rendered PDFs for a month.
const TTLArtifact = 30 * 24 * time.Hour

// Runner executes pipeline runs with a render cache.
//
// The Runner holds no run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine render.Engine
	Merger *dataset.Merger
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil engine runs gnuplot from PATH.
func NewRunner(c cache.Cache, keyer cache.Keyer, engine render.Engine, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if engine == nil {
		engine = &render.Gnuplot{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: engine,
		Merger: dataset.NewMerger(dataset.DefaultWorkers, logger),
		Logger: logger,
	}
}

// Execute runs build, layout, merge and render for a collection.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	root, buildTime, err := buildObserved(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Stats.BuildTime = buildTime

	l, sc, err := ComputeLayout(root, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Scale = sc
	result.Stats.LeafSets = l.Counts.LeafSets
	result.Stats.TestCases = l.Counts.TestCases

	logger.Info("built hierarchy",
		"leaf_sets", l.Counts.LeafSets,
		"testcases", l.Counts.TestCases,
		"depth", l.Counts.MaxDepth,
		"duration", buildTime)

	mergeStart := time.Now()
	data, size, err := MergeSlots(ctx, r.Merger, l, opts.Panels)
	if err != nil {
		return nil, err
	}
	result.Stats.MergedBytes = size
	result.Stats.MergeTime = time.Since(mergeStart)

	renderStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	err = r.render(ctx, result, data, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) render(ctx context.Context, result *Result, data gnuplot.Data, opts Options) error {
	script, err := Script(result.Layout, result.Scale, data, opts)
	if err != nil {
		return err
	}
	result.Script = script

	artifacts, err := RenderArtifacts(result.RunID, script, result.Layout, result.Scale, data, opts)
	if err != nil {
		return err
	}
	result.Artifacts = artifacts

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o755); err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "create output folder")
	}
	for _, format := range opts.Formats {
		out, ok := artifacts[format]
		if !ok {
			continue
		}
		path := opts.OutputPath(format)
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return perrors.Wrap(perrors.ErrCodeRender, err, "write %s", path)
		}
		result.Files = append(result.Files, path)
	}

	if !opts.Wants(FormatPDF) {
		return nil
	}
	pdf, hit, err := r.renderPDF(ctx, opts.OutputPath(FormatGPI), script, opts.OutputPath(FormatPDF))
	if err != nil {
		return err
	}
	result.Artifacts[FormatPDF] = pdf
	result.CacheInfo.RenderHit = hit
	result.Files = append(result.Files, opts.OutputPath(FormatPDF))
	return nil
}

// renderPDF produces pdfPath from the script at scriptPath, reusing a cached
// PDF of an identical script. Only scripts with inline data may be cached.
func (r *Runner) renderPDF(ctx context.Context, scriptPath, script, pdfPath string) ([]byte, bool, error) {
	hooks := observability.Cache()
	key := r.Keyer.ArtifactKey(cache.Hash([]byte(script)), cache.ArtifactKeyOpts{
		Format: FormatPDF,
		Engine: r.engineID(scriptPath),
	})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, FormatPDF)
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			return nil, false, perrors.Wrap(perrors.ErrCodeRender, err, "write %s", pdfPath)
		}
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, FormatPDF)

	data, err := r.runEngine(ctx, scriptPath, pdfPath)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
		hooks.OnCacheSet(ctx, FormatPDF, len(data))
	}
	return data, false, nil
}

// runEngine runs the engine on scriptPath and reads the PDF it wrote.
func (r *Runner) runEngine(ctx context.Context, scriptPath, pdfPath string) ([]byte, error) {
	if err := r.Engine.Run(ctx, scriptPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "engine produced no %s", filepath.Base(pdfPath))
	}
	return data, nil
}

// engineID identifies the engine invocation for cache keys.
func (r *Runner) engineID(scriptPath string) string {
	if c, ok := r.Engine.(interface{ Command(string) string }); ok {
		return c.Command(filepath.Base(scriptPath))
	}
	return ""
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
