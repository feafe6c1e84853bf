package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// LogHooks writes pipeline and cache events as debug log lines.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or the default logger when
// nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Millisecond))
	if err != nil {
		h.logger.Debug(msg+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnBuildStart(_ context.Context, source string) {
	h.logger.Debug("building hierarchy", "source", source)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, source string, leafSets int, d time.Duration, err error) {
	h.done("built hierarchy", d, err, "source", source, "leaf_sets", leafSets)
}

func (h *LogHooks) OnMergeStart(_ context.Context, testCases int) {
	h.logger.Debug("merging statistics", "testcases", testCases)
}

func (h *LogHooks) OnMergeComplete(_ context.Context, testCases, bytes int, d time.Duration, err error) {
	h.done("merged statistics", d, err, "testcases", testCases, "size", humanize.Bytes(uint64(bytes)))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", strings.Join(formats, ","))
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("rendered", d, err, "formats", strings.Join(formats, ","))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", humanize.Bytes(uint64(size)))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
