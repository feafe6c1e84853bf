// Package cli implements the testplot command-line interface.
//
// The commands wrap [pipeline.Runner]: collection and compare build a
// comparison plot, flows writes per-leaf-set flow plots, tree and inspect
// show the hierarchy and its layout without merging data. The CLI is built
// with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - collection: comparison plot of a result tree, with optional pivots
//   - compare: comparison plot of explicitly listed test cases
//   - flows: merged flow plots per leaf-set
//   - tree: hierarchy diagram after pivots
//   - inspect: slot table and counts of the layout
//   - traffic: prepare and start load generators on the testbed
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports pipeline stage timings and cache activity.
//
// [pipeline.Runner]: github.com/matzehuels/testplot/pkg/pipeline.Runner
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Merged 12 test cases (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
