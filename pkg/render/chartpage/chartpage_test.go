package chartpage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

func TestParseRow(t *testing.T) {
	t.Parallel()

	r, err := ParseRow(`"50 ms RTT" 1 2.5 3`)
	require.NoError(t, err)
	assert.Equal(t, "50 ms RTT", r.Tag)
	assert.Equal(t, []string{"1", "2.5", "3"}, r.Fields)

	v, ok := r.Column(3)
	assert.True(t, ok)
	assert.Equal(t, "2.5", v)

	v, ok = r.Column(1)
	assert.True(t, ok)
	assert.Equal(t, "50 ms RTT", v)

	_, ok = r.Column(5)
	assert.False(t, ok)
	_, ok = r.Column(0)
	assert.False(t, ok)
}

func TestParseRowErrors(t *testing.T) {
	t.Parallel()

	for _, line := range []string{`plain 1 2`, `"unterminated 1 2`} {
		_, err := ParseRow(line)
		assert.ErrorIs(t, err, ErrBadRow, line)
	}
}

func TestParseBlock(t *testing.T) {
	t.Parallel()

	rows, err := ParseBlock("\"a\" 1 2\n\n\"b\" 3 4\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].Tag)

	_, err = ParseBlock("\"a\" 1\nbroken\n")
	require.ErrorIs(t, err, ErrBadRow)
	assert.Contains(t, err.Error(), "line 2")
}

func testPage(t *testing.T) *Page {
	t.Helper()

	root := hierarchy.NewCollection("AQM", "",
		hierarchy.NewLeafSet("pie", "", "r/test-a", "r/test-b"),
		hierarchy.NewLeafSet("red", "", "r/test-c"),
	)
	l, err := layout.Compute(root)
	require.NoError(t, err)

	panels := []gnuplot.Panel{{
		Name:   "utilization",
		YLabel: "Percent\nsub",
		Series: []gnuplot.Series{{Stat: gnuplot.StatUtil, Using: "3:5:4", Title: "Total"}},
	}}
	data := gnuplot.Data{}
	data.Set(0, gnuplot.StatUtil, "\"10ms\" 0 91.5 0 80 99\n", "\"20ms\" 0 88 0 70 95\n")
	data.Set(1, gnuplot.StatUtil, "\"10ms\" 0 n/a\n")

	return &Page{Layout: l, Data: data, Panels: panels}
}

func TestPageValues(t *testing.T) {
	t.Parallel()

	p := testPage(t)
	stats := gnuplot.Stats(p.Panels)
	blocks, err := p.parse(stats)
	require.NoError(t, err)

	assert.Equal(t, []string{"pie / 10ms", "pie / 20ms", "red / 10ms"}, p.categories(stats, blocks))

	vals := p.values(p.Panels[0].Series[0], blocks)
	require.Len(t, vals, 3)
	assert.Equal(t, 91.5, vals[0].Value)
	assert.Equal(t, 88.0, vals[1].Value)
	assert.Equal(t, missing, vals[2].Value)
}

func TestPageValuesFollowTestCases(t *testing.T) {
	t.Parallel()

	p := testPage(t)
	// test-a has no data rows, test-b has two.
	p.Data.Set(0, gnuplot.StatUtil, "", "\"B\" x 42 0 1 2\n\"B\" x 43 0 1 2\n")
	stats := gnuplot.Stats(p.Panels)
	blocks, err := p.parse(stats)
	require.NoError(t, err)

	assert.Equal(t, []string{"pie / test-a", "pie / B", "red / 10ms"}, p.categories(stats, blocks))

	vals := p.values(p.Panels[0].Series[0], blocks)
	require.Len(t, vals, 3)
	assert.Equal(t, missing, vals[0].Value)
	assert.Equal(t, 42.0, vals[1].Value)
	assert.Equal(t, missing, vals[2].Value)
}

func TestPageRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, testPage(t).Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "utilization")
	assert.Contains(t, html, "Total")
}

func TestPageRenderErrors(t *testing.T) {
	t.Parallel()

	err := (&Page{}).Render(&bytes.Buffer{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))

	p := testPage(t)
	p.Data.Set(0, gnuplot.StatUtil, "garbage\n", "")
	err = p.Render(&bytes.Buffer{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeData))

	p = testPage(t)
	p.Data.Set(0, gnuplot.StatUtil, "\"10ms\" 0 91.5\n\"20ms\" 0 88\n")
	err = p.Render(&bytes.Buffer{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeData), "one part for two test cases")
}
