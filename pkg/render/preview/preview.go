// Package preview draws a quick SVG sketch of a comparison layout.
//
// The sketch shows what the gnuplot comparison will look like on the x axis
// without running gnuplot: one column per test case, the group labels
// stacked above by depth, and the test case names as rotated tick labels.
package preview

import (
	"bytes"
	"fmt"
	"path/filepath"

	svg "github.com/ajstarks/svgo"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// Default geometry in pixels.
const (
	DefaultUnit   = 24
	DefaultRow    = 22
	DefaultHeight = 140
)

const (
	header     = 48
	margin     = 16
	tickSpace  = 110
	colorText  = "#222222"
	colorSub   = "#666666"
	colorGuide = "#BBBBBB"
)

// Options sizes the sketch. Zero values select the defaults.
type Options struct {
	Unit   int // width of one x unit
	Row    int // height of one label row
	Height int // height of the plot area
}

func (o *Options) setDefaults() {
	if o.Unit <= 0 {
		o.Unit = DefaultUnit
	}
	if o.Row <= 0 {
		o.Row = DefaultRow
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// Render draws l as a standalone SVG document.
func Render(l *layout.Layout, opts Options) ([]byte, error) {
	if l == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "nil layout")
	}
	opts.setDefaults()

	p := painter{l: l, opts: opts}
	var buf bytes.Buffer
	p.draw(svg.New(&buf))
	return buf.Bytes(), nil
}

type painter struct {
	l    *layout.Layout
	opts Options
}

// xpx maps an x unit to pixels. The axis starts two units before the first
// column, like the gnuplot x range.
func (p painter) xpx(x float64) int {
	return margin + int((x+2)*float64(p.opts.Unit))
}

func (p painter) plotTop() int {
	return header + p.l.Counts.MaxDepth*p.opts.Row + 8
}

func (p painter) size() (int, int) {
	w := p.xpx(float64(p.l.Span)+1) + margin
	h := p.plotTop() + p.opts.Height + tickSpace
	return w, h
}

func (p painter) draw(canvas *svg.SVG) {
	w, h := p.size()
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:white")

	canvas.Text(w/2, 24, p.l.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:serif;text-anchor:middle;font-weight:bold", colorText))
	if p.l.Subtitle != "" {
		canvas.Text(w/2, 40, p.l.Subtitle, fmt.Sprintf("fill:%s;font-size:12px;font-family:serif;text-anchor:middle", colorSub))
	}

	for _, lb := range p.l.Labels {
		p.label(canvas, lb)
	}

	top := p.plotTop()
	canvas.Rect(p.xpx(-2), top, p.xpx(float64(p.l.Span)+1)-p.xpx(-2), p.opts.Height,
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", colorText))
	for _, s := range p.l.Slots {
		p.slot(canvas, s)
	}
	if p.l.XLabel != "" {
		canvas.Text(w/2, h-8, p.l.XLabel, fmt.Sprintf("fill:%s;font-size:12px;font-family:serif;text-anchor:middle", colorText))
	}
	canvas.End()
}

// label draws a group title centered over its extent with a bracket below.
func (p painter) label(canvas *svg.SVG, lb layout.Label) {
	y := header + lb.Depth*p.opts.Row
	x1 := p.xpx(float64(lb.X) - 0.4)
	x2 := p.xpx(float64(lb.X+lb.Width-1) + 0.4)
	if lb.Width <= 0 {
		x2 = x1
	}
	canvas.Text((x1+x2)/2, y+12, lb.Title, fmt.Sprintf("fill:%s;font-size:11px;font-family:serif;text-anchor:middle", colorText))
	canvas.Line(x1, y+16, x2, y+16, fmt.Sprintf("stroke:%s;stroke-width:1", colorGuide))
}

func (p painter) slot(canvas *svg.SVG, s layout.Slot) {
	top := p.plotTop()
	color := gnuplot.Dark2[s.Index%len(gnuplot.Dark2)]
	for i, tc := range s.TestCases {
		x := p.xpx(float64(s.X + i))
		canvas.Line(x, top, x, top+p.opts.Height, fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:2,3", colorGuide))
		canvas.Circle(x, top+p.opts.Height/2, p.opts.Unit/5+1, fmt.Sprintf("fill:%s", color))

		ty := top + p.opts.Height + 12
		canvas.Gtransform(fmt.Sprintf("rotate(-45 %d %d)", x, ty))
		canvas.Text(x, ty, filepath.Base(tc), fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace;text-anchor:end", colorSub))
		canvas.Gend()
	}
}
