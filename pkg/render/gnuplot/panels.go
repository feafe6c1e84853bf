package gnuplot

import "strings"

// Statistic categories written by the analysis stage.
const (
	StatUtil        = "util_stats"
	StatQueueECN    = "qs_ecn_stats"
	StatQueueNonECN = "qs_nonecn_stats"
	StatDropsNonECN = "d_percent_nonecn_stats"
	StatDropsECN    = "d_percent_ecn_stats"
	StatMarksECN    = "m_percent_ecn_stats"
)

// percentileAnnotated is the y label suffix of percentile error bars.
const percentileAnnotated = `{/Times:Italic=10 (p_1, mean, p_{99})}`

// Series is one plotted quantity of a panel: error bars drawn from columns
// of a merged statistic block, joined by a gray line.
type Series struct {
	Stat   string  // statistic category (block)
	Offset float64 // x shift within a test case column
	Using  string  // y:ylow:yhigh columns; column 1 is the tag
	Xtic   bool    // label the x axis with the tags of this series
	Style  string  // line style, e.g. "ls 1" or "lc rgb 'red'"
	Title  string  // key entry, shown for the first leaf-set only
}

// YColumn returns the column holding the plotted value.
func (s Series) YColumn() string {
	col, _, _ := strings.Cut(s.Using, ":")
	return col
}

// Panel is one plot of the comparison multiplot.
type Panel struct {
	Name       string
	YLabel     string
	XticOffset string // argument of `set xtic offset`, empty to keep
	XLabel     bool   // show the render's x-axis label on this panel
	Series     []Series
}

// DefaultPanels returns the three comparison panels: utilization, queueing
// delay, drops and marks.
func DefaultPanels() []Panel {
	return []Panel{
		{
			Name:   "utilization",
			YLabel: "Percent\n" + percentileAnnotated,
			Series: []Series{
				{Stat: StatUtil, Offset: 0.0, Using: "3:5:4", Style: "ls 1", Title: "Total utilization"},
				{Stat: StatUtil, Offset: 0.1, Using: "6:8:7", Xtic: true, Style: "ls 2", Title: "ECN utilization"},
				{Stat: StatUtil, Offset: 0.2, Using: "9:10:11", Style: "ls 3", Title: "Non-ECN utilization"},
			},
		},
		{
			Name:       "queueing delay",
			YLabel:     "Queueing delay [ms]\n" + percentileAnnotated,
			XticOffset: "first .05",
			Series: []Series{
				{Stat: StatQueueECN, Offset: 0.05, Using: "3:5:4", Xtic: true, Style: "ls 3", Title: "ECN queue"},
				{Stat: StatQueueNonECN, Offset: 0.15, Using: "3:5:4", Style: "ls 5", Title: "Non-ECN queue"},
			},
		},
		{
			Name:       "drops and marks",
			YLabel:     "Percent\n" + percentileAnnotated,
			XticOffset: "first 0",
			XLabel:     true,
			Series: []Series{
				{Stat: StatDropsNonECN, Offset: 0.0, Using: "3:5:4", Style: "ls 3", Title: "Drops (Non-ECN)"},
				{Stat: StatDropsECN, Offset: 0.10, Using: "3:5:4", Xtic: true, Style: "lc rgb 'red'", Title: "Drops (ECN)"},
				{Stat: StatMarksECN, Offset: 0.20, Using: "3:5:4", Style: "ls 8", Title: "Marks (ECN)"},
			},
		},
	}
}

// Stats returns the distinct statistic categories used by panels, in first
// use order.
func Stats(panels []Panel) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range panels {
		for _, s := range p.Series {
			if !seen[s.Stat] {
				seen[s.Stat] = true
				out = append(out, s.Stat)
			}
		}
	}
	return out
}
