// Package dataset merges per test case statistic files into labeled data
// blocks.
//
// The analysis stage writes one file per statistic category into every test
// case directory (util_stats, qs_ecn_stats, ...). Each line that is neither
// blank nor a comment is a row of whitespace separated columns. A merged
// block prefixes every row with the quoted tag of its test case, taken from
// the `xticlabel` entry of the test case descriptor:
//
//	"10 Mb/s" 1 95.1 94.2 96.0
//	"20 Mb/s" 2 97.3 96.1 98.2
//
// Rows keep their test case order regardless of how the files are read.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/metadata"
)

// NotAvailable is the tag of a test case without an xticlabel.
const NotAvailable = "n/a"

// DefaultWorkers bounds concurrent file reads of one merge.
const DefaultWorkers = 8

const commentMarker = "#"

// XticLabel returns the tag of the test case in dir: the first non-empty
// `xticlabel` value of its descriptor, or [NotAvailable].
func XticLabel(dir string) (string, error) {
	rec, err := metadata.ReadDir(dir)
	if err != nil {
		return "", perrors.Data(metadata.Path(dir), err, "read test case descriptor")
	}
	for _, v := range rec.All(metadata.KeyXticLabel) {
		if v != "" {
			return v, nil
		}
	}
	return NotAvailable, nil
}

// Merger merges statistic files of test cases.
type Merger struct {
	// Workers bounds concurrent reads. Zero means DefaultWorkers.
	Workers int
	// Logger receives one debug line per merged block. May be nil.
	Logger *log.Logger
}

// NewMerger returns a Merger reading with the given concurrency.
func NewMerger(workers int, logger *log.Logger) *Merger {
	return &Merger{Workers: workers, Logger: logger}
}

// Merge returns the merged block of statistic stat for testcases, in order.
// A missing or unreadable file fails the whole merge with DATA_ERROR; when
// several files fail, the error of the earliest test case is returned.
func (m *Merger) Merge(ctx context.Context, testcases []string, stat string) (string, error) {
	parts, err := m.MergeCases(ctx, testcases, stat)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}

// MergeCases is Merge with the block split by test case: part i holds the
// tagged rows of testcases[i] and is empty when its file has no data rows.
func (m *Merger) MergeCases(ctx context.Context, testcases []string, stat string) ([]string, error) {
	if err := perrors.ValidateStatName(stat); err != nil {
		return nil, err
	}

	parts := make([]string, len(testcases))
	errs := make([]error, len(testcases))

	// Errors are kept per index; goroutines never fail the group.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())
	for i, dir := range testcases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			parts[i], errs[i] = readCase(dir, stat)
			return nil
		})
	}
	_ = g.Wait()

	size := 0
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		size += len(parts[i])
	}

	if m.Logger != nil {
		m.Logger.Debug("merged block", "stat", stat, "testcases", len(testcases), "size", humanize.Bytes(uint64(size)))
	}
	return parts, nil
}

// MergeAll merges every statistic in stats for testcases. The result maps
// statistic name to the block split by test case, as returned by MergeCases.
func (m *Merger) MergeAll(ctx context.Context, testcases []string, stats []string) (map[string][]string, error) {
	out := make(map[string][]string, len(stats))
	for _, stat := range stats {
		if _, done := out[stat]; done {
			continue
		}
		parts, err := m.MergeCases(ctx, testcases, stat)
		if err != nil {
			return nil, err
		}
		out[stat] = parts
	}
	return out, nil
}

func (m *Merger) workers() int {
	if m == nil || m.Workers <= 0 {
		return DefaultWorkers
	}
	return m.Workers
}

// readCase returns the tagged rows of one test case.
func readCase(dir, stat string) (string, error) {
	tag, err := XticLabel(dir)
	if err != nil {
		return "", err
	}
	tag = strings.ReplaceAll(tag, `"`, `'`)

	path := filepath.Join(dir, stat)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", perrors.Data(path, nil, "missing statistic file")
		}
		return "", perrors.Data(path, err, "open statistic file")
	}
	defer f.Close()

	var b strings.Builder
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, commentMarker) || strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteByte('"')
		b.WriteString(tag)
		b.WriteString(`" `)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", perrors.Data(path, err, "read statistic file")
	}
	return b.String(), nil
}
