// Package pipeline runs the complete comparison workflow.
//
// # Architecture
//
// A collection run has four stages:
//
//  1. Build: read the hierarchy from descriptors, an explicit spec file or a
//     flat list of test cases, then apply the requested pivots
//  2. Layout: assign x offsets to every leaf-set and derive the canvas scale
//  3. Merge: combine the statistic files of every leaf-set into tagged blocks
//  4. Render: emit the gnuplot script and the other requested formats, and
//     run the engine for PDF output
//
// Nothing is written until every stage succeeded: a run either produces all
// of its outputs or none of the script files.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, engine, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dir:     "results/aqm",
//	    Levels:  []int{0},
//	    Formats: []string{"gpi", "pdf"},
//	})
//
// Stages can also be run on their own:
//
//	root, err := pipeline.Build(opts)
//	l, scale, err := pipeline.ComputeLayout(root, opts)
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

const (
	// DefaultOutputName is the base name of collection outputs inside the
	// top directory.
	DefaultOutputName = "comparison"

	// CompareOutputName is the base name used when comparing a flat list of
	// test cases.
	CompareOutputName = "analysis_compare"

	// FlowsOutputName is the base name of flows outputs, written next to
	// the test cases of each leaf-set.
	FlowsOutputName = "analysis_merged"
)

// Format constants for output formats.
const (
	FormatGPI  = "gpi"
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultFormats are written when no format is requested.
var DefaultFormats = []string{FormatGPI, FormatPDF}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatGPI:  true,
	FormatPDF:  true,
	FormatHTML: true,
	FormatSVG:  true,
	FormatJSON: true,
}

// Options configures a collection run.
type Options struct {
	// Dir is the top directory of the hierarchy. With SpecFile or TestCases
	// it is only the folder outputs are written to.
	Dir       string   `json:"dir"`
	SpecFile  string   `json:"spec_file,omitempty"`
	TestCases []string `json:"testcases,omitempty"`

	// Levels are pivoted in order.
	Levels []int `json:"levels,omitempty"`

	Title  string `json:"title,omitempty"`  // overrides the root title
	XLabel string `json:"xlabel,omitempty"` // overrides the x-axis label

	// Output is the base path of all outputs, without extension.
	Output  string              `json:"output,omitempty"`
	Formats []string            `json:"formats,omitempty"`
	Font    string              `json:"font,omitempty"`
	Scale   layout.ScaleOptions `json:"scale"`

	Panels []gnuplot.Panel `json:"-"`
	Logger *log.Logger     `json:"-"`

	validated bool
}

// Result contains the outputs of a collection run.
type Result struct {
	RunID  string
	Root   *hierarchy.Node
	Layout *layout.Layout
	Scale  layout.Scale
	Script string

	// Artifacts contains every produced output keyed by format.
	Artifacts map[string][]byte
	// Files lists the written paths in format order.
	Files []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	LeafSets    int
	TestCases   int
	MergedBytes int
	BuildTime   time.Duration
	MergeTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache use of a run.
type CacheInfo struct {
	RenderHit bool // PDF came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: gpi, pdf, html, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ParseLevels parses a comma-separated list of pivot levels. Every entry
// must be a non-negative integer; an empty string yields no levels.
func ParseLevels(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var levels []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid level %q: levels are comma-separated non-negative integers", part)
		}
		levels = append(levels, n)
	}
	return levels, nil
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dir == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "directory is required")
	}
	if o.SpecFile != "" && len(o.TestCases) > 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "spec file and test case list are exclusive")
	}
	for _, l := range o.Levels {
		if l < 0 {
			return perrors.New(perrors.ErrCodeInvalidInput, "negative pivot level %d", l)
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	// PDF is rendered from the written script.
	if slices.Contains(o.Formats, FormatPDF) && !slices.Contains(o.Formats, FormatGPI) {
		o.Formats = append([]string{FormatGPI}, o.Formats...)
	}

	if o.Output == "" {
		name := DefaultOutputName
		if len(o.TestCases) > 0 {
			name = CompareOutputName
		}
		o.Output = filepath.Join(o.Dir, name)
	}
	if o.Font == "" {
		o.Font = gnuplot.DefaultFont
	}
	o.Scale.SetDefaults()
	if o.Panels == nil {
		o.Panels = gnuplot.DefaultPanels()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// OutputPath returns the output path for format.
func (o *Options) OutputPath(format string) string {
	return fmt.Sprintf("%s.%s", o.Output, format)
}
