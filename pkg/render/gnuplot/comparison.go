package gnuplot

import (
	"fmt"
	"strings"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/layout"
)

// Data holds merged statistic blocks by slot index and statistic. A block
// is stored as one part per test case of the slot, in test case order.
type Data map[int]map[string][]string

// Set stores the parts of statistic stat for slot. Callers that know the
// test case boundaries pass one part per test case.
func (d Data) Set(slot int, stat string, parts ...string) {
	m, ok := d[slot]
	if !ok {
		m = make(map[string][]string)
		d[slot] = m
	}
	m[stat] = parts
}

// Get returns the block of statistic stat for slot.
func (d Data) Get(slot int, stat string) (string, bool) {
	parts, ok := d[slot][stat]
	return strings.Join(parts, ""), ok
}

// Parts returns the block of statistic stat for slot split by test case.
func (d Data) Parts(slot int, stat string) ([]string, bool) {
	parts, ok := d[slot][stat]
	return parts, ok
}

// Comparison describes a multi-panel comparison of all leaf-sets of a
// hierarchy on one shared x axis.
type Comparison struct {
	Layout *layout.Layout
	Scale  layout.Scale
	Data   Data
	Panels []Panel // DefaultPanels when nil
	Font   string  // DefaultFont when empty
}

// Script returns the complete script writing the PDF output.
func (c *Comparison) Script(output string) (string, error) {
	body, err := c.Body()
	if err != nil {
		return "", err
	}
	return Finalize(Terminal{
		Font:   c.Font,
		Size:   Size(c.Scale.WidthCM, c.Scale.HeightCM),
		Output: output,
	}, body), nil
}

// Body returns the script without terminal setup. Every slot must have a
// block for every statistic the panels use.
func (c *Comparison) Body() (string, error) {
	if c.Layout == nil {
		return "", perrors.New(perrors.ErrCodeInvalidInput, "comparison needs a layout")
	}
	if len(c.Layout.Slots) == 0 {
		return "", perrors.New(perrors.ErrCodeInvalidInput, "hierarchy %q has no test cases to plot", c.Layout.Title)
	}
	panels := c.Panels
	if panels == nil {
		panels = DefaultPanels()
	}
	font := c.Font
	if font == "" {
		font = DefaultFont
	}

	l, sc := c.Layout, c.Scale
	var s script
	s.raw(Preamble())

	title := l.Title
	if l.Subtitle != "" {
		title += "\n" + l.Subtitle
	}
	s.line("set multiplot layout %d,1 title %s", len(panels), dquote(title))
	s.blank()
	s.line("unset bars")
	s.line("set xtic rotate by -65 font ',%s'", num(sc.XticFont))
	s.line("set key above")
	s.line("set key spacing 5")
	s.line("set xrange [%s:%s]", num(sc.XMin), num(sc.XMax))
	s.line("set yrange [0:]")
	s.line("set boxwidth 0.2")
	s.line("set tmargin %s", num(sc.TopMargin))
	s.line("set lmargin %s", num(sc.LeftMargin))
	s.blank()

	for _, lb := range l.Labels {
		s.line("set label %s at first %d, graph %s font %s tc rgb 'black' left",
			quote(lb.Title), lb.X, num(sc.LabelY(lb.Depth)),
			quote(fmt.Sprintf("%s,%spt", font, num(sc.LabelFont(lb.Depth)))))
	}

	for _, p := range panels {
		s.blank()
		if p.XticOffset != "" {
			s.line("set xtic offset %s", p.XticOffset)
		}
		s.line("set ylabel %s", dquote(p.YLabel))
		if p.XLabel && l.XLabel != "" {
			s.line("set xlabel %s", quote(l.XLabel))
		}

		var elems []string
		for _, slot := range l.Slots {
			written := make(map[string]bool)
			for _, ser := range p.Series {
				if written[ser.Stat] {
					continue
				}
				block, ok := c.Data.Get(slot.Index, ser.Stat)
				if !ok {
					return "", perrors.New(perrors.ErrCodeInternal, "no %s data for leaf-set %q", ser.Stat, slot.Title)
				}
				s.datablock(blockName(ser.Stat, slot.X), block)
				written[ser.Stat] = true
			}
			for _, ser := range p.Series {
				elems = append(elems, seriesElems(ser, slot)...)
			}
		}
		s.plot(elems)
	}

	s.blank()
	s.line("unset multiplot")
	return s.String(), nil
}

// seriesElems returns the error bar and connecting line plot elements of
// one series for one slot.
func seriesElems(ser Series, slot layout.Slot) []string {
	x := fmt.Sprintf("($0+%d+%s)", slot.X, num(ser.Offset))
	using := ser.Using
	if ser.Xtic {
		using += ":xtic(1)"
	}
	title := ""
	if slot.First {
		title = ser.Title
	}
	return []string{
		fmt.Sprintf("%s using %s:%s with yerrorbars %s pointtype 7 pointsize 0.5 lw 1.5 title %s",
			blockName(ser.Stat, slot.X), x, using, ser.Style, quote(title)),
		fmt.Sprintf("'' using %s:%s with lines lc rgb 'gray' title ''", x, ser.YColumn()),
	}
}
