// Package chartpage renders merged statistics as an interactive HTML page.
//
// Each comparison panel becomes one line chart. The x axis lists every test
// case in layout order, and each panel series plots its value column from
// the first row the test case contributed to the merged statistic block.
package chartpage

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// ErrBadRow is returned for block lines without a quoted tag.
var ErrBadRow = errors.New("block row has no quoted tag")

const (
	chartWidth  = "100%"
	chartHeight = "420px"
	missing     = "-"
)

// Row is one line of a merged statistic block.
type Row struct {
	Tag    string
	Fields []string // columns 2 and up
}

// Column returns the 1-based gnuplot column n. Column 1 is the tag.
func (r Row) Column(n int) (string, bool) {
	if n == 1 {
		return r.Tag, true
	}
	if n < 2 || n-2 >= len(r.Fields) {
		return "", false
	}
	return r.Fields[n-2], true
}

// ParseRow splits a block line into its quoted tag and value fields.
func ParseRow(line string) (Row, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, `"`) {
		return Row{}, ErrBadRow
	}
	end := strings.IndexByte(line[1:], '"')
	if end < 0 {
		return Row{}, ErrBadRow
	}
	return Row{
		Tag:    line[1 : end+1],
		Fields: strings.Fields(line[end+2:]),
	}, nil
}

// ParseBlock parses every non-empty line of a merged block.
func ParseBlock(block string) ([]Row, error) {
	var rows []Row
	for i, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// Page is the HTML report of one comparison.
type Page struct {
	Layout *layout.Layout
	Data   gnuplot.Data
	Panels []gnuplot.Panel // gnuplot.DefaultPanels when nil
}

// Render writes the page as a standalone HTML document.
func (p *Page) Render(w io.Writer) error {
	if p.Layout == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "chart page needs a layout")
	}
	panels := p.Panels
	if panels == nil {
		panels = gnuplot.DefaultPanels()
	}

	stats := gnuplot.Stats(panels)
	blocks, err := p.parse(stats)
	if err != nil {
		return err
	}
	categories := p.categories(stats, blocks)

	page := components.NewPage()
	page.PageTitle = p.Layout.Title
	for _, panel := range panels {
		page.AddCharts(p.chart(panel, categories, blocks))
	}
	if err := page.Render(w); err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "render chart page")
	}
	return nil
}

type blockKey struct {
	slot int
	stat string
}

// caseRows holds the parsed rows of one block, indexed by test case.
type caseRows [][]Row

// first returns the first row of test case i.
func (c caseRows) first(i int) (Row, bool) {
	if i >= len(c) || len(c[i]) == 0 {
		return Row{}, false
	}
	return c[i][0], true
}

func (p *Page) parse(stats []string) (map[blockKey]caseRows, error) {
	out := make(map[blockKey]caseRows)
	for _, s := range p.Layout.Slots {
		for _, stat := range stats {
			parts, ok := p.Data.Parts(s.Index, stat)
			if !ok {
				continue
			}
			if len(parts) != len(s.TestCases) {
				return nil, perrors.New(perrors.ErrCodeData, "block %s of %q has %d parts for %d test cases", stat, s.Title, len(parts), len(s.TestCases))
			}
			rows := make(caseRows, len(parts))
			for i, part := range parts {
				r, err := ParseBlock(part)
				if err != nil {
					return nil, perrors.Wrap(perrors.ErrCodeData, err, "block %s of %q", stat, s.TestCases[i])
				}
				rows[i] = r
			}
			out[blockKey{s.Index, stat}] = rows
		}
	}
	return out, nil
}

// categories labels each test case with its tag from the first statistic
// that has a row for it, or the test case directory name.
func (p *Page) categories(stats []string, blocks map[blockKey]caseRows) []string {
	var cats []string
	for _, s := range p.Layout.Slots {
		for i, tc := range s.TestCases {
			label := filepath.Base(tc)
			for _, stat := range stats {
				if r, ok := blocks[blockKey{s.Index, stat}].first(i); ok && r.Tag != "" {
					label = r.Tag
					break
				}
			}
			cats = append(cats, s.Title+" / "+label)
		}
	}
	return cats
}

func (p *Page) chart(panel gnuplot.Panel, categories []string, blocks map[blockKey]caseRows) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: panel.Name}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: p.Layout.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: firstLine(panel.YLabel)}),
	)
	line.SetXAxis(categories)
	for _, s := range panel.Series {
		line.AddSeries(s.Title, p.values(s, blocks))
	}
	return line
}

// values plots the first row of every test case. Test cases without a row
// are missing.
func (p *Page) values(s gnuplot.Series, blocks map[blockKey]caseRows) []opts.LineData {
	col, err := strconv.Atoi(s.YColumn())
	var out []opts.LineData
	for _, slot := range p.Layout.Slots {
		rows := blocks[blockKey{slot.Index, s.Stat}]
		for i := range slot.TestCases {
			v := any(missing)
			if r, ok := rows.first(i); ok && err == nil {
				v = cell(r, col)
			}
			out = append(out, opts.LineData{Value: v})
		}
	}
	return out
}

func cell(r Row, col int) any {
	v, ok := r.Column(col)
	if !ok {
		return missing
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return missing
	}
	return f
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}
