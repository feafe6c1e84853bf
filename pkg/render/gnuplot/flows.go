package gnuplot

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/testplot/pkg/dataset"
)

// Per test case time series written by the analysis stage.
const (
	fileUtil           = "util"
	fileRatePrefix     = "r_pf_"
	fileDropsNonECN    = "d_tot_nonecn"
	fileDropsECN       = "d_tot_ecn"
	fileMarksECN       = "m_tot_ecn"
	fileQueueECN       = "qs_samples_ecn"
	fileQueueNonECN    = "qs_samples_nonecn"
	flowLinePointStyle = "pointtype 7 ps 0.2 lw 1.5"
)

// FlowPage is one page of a flows script: the time series of a single test
// case.
type FlowPage struct {
	Dir   string // test case directory, relative to the script or absolute
	Title string // Dir when empty
	Flows dataset.Flows
}

// FlowsScript returns a script with one page per test case, written to the
// PDF output.
func FlowsScript(pages []FlowPage, font, output string) string {
	return Finalize(Terminal{Font: font, Size: FlowPageSize, Output: output}, FlowsBody(pages))
}

// FlowsBody returns the pages of a flows script without terminal setup.
func FlowsBody(pages []FlowPage) string {
	var s script
	for _, p := range pages {
		flowPage(&s, p)
	}
	return s.String()
}

func flowPage(s *script, p FlowPage) {
	file := func(name string) string { return quote(filepath.Join(p.Dir, name)) }

	s.raw(Preamble())
	title := p.Title
	if title == "" {
		title = p.Dir
	}
	s.line("set multiplot layout 4,1 columnsfirst title %s", quote(title))
	s.line("set lmargin 13")
	s.line("set yrange [0:]")
	s.line("set xrange [1:]")
	s.raw(`set format y "%g"`)
	s.raw("set ylabel 'Utilization in %'")
	s.line("set style fill transparent solid 0.5 noborder")
	s.line("set key above")
	s.plot([]string{
		file(fileUtil) + " using ($0+1):2 with lines lw 1.5 title 'Total utilization'",
		"'' using ($0+1):3 with lines lw 1.5 lc rgb 'red' title 'ECN utilization'",
		"'' using ($0+1):4 with lines lw 1.5 title 'Non-ECN utilization'",
	})

	s.blank()
	s.raw(`set format y "%.0f"`)
	s.line("set ylabel 'Rate [b/s]'")
	s.line("set key right center inside")
	var rates []string
	for _, group := range []struct {
		kind  string
		flows []string
		ls    int
		pt    int
	}{
		{"ecn", p.Flows.ECN, 3, 2},
		{"nonecn", p.Flows.NonECN, 5, 6},
	} {
		for j, flow := range group.flows {
			rates = append(rates, fmt.Sprintf("%s using ($0+1):%d:xtic($2/1000) with linespoints ls %d pointtype %d ps 0.2 lw 1.5 title %s",
				file(fileRatePrefix+group.kind), 3+j, group.ls, group.pt, quote(group.kind+" - "+flow)))
		}
	}
	if len(rates) == 0 {
		rates = append(rates, "0 title ''")
	}
	s.plot(rates)

	s.blank()
	s.raw(`set format y "%g"`)
	s.line("set offset graph 0, graph 0, graph 0.02, graph 0.02")
	s.line("set ylabel 'Packets per sample'")
	s.line("set key above")
	s.plot([]string{
		file(fileDropsNonECN) + " using ($0+1):3 with linespoints " + flowLinePointStyle + " title 'Drops (nonecn)'",
		file(fileDropsECN) + " using ($0+1):3 with linespoints " + flowLinePointStyle + " lc rgb 'red' title 'Drops (ecn)'",
		file(fileMarksECN) + " using ($0+1):3 with linespoints " + flowLinePointStyle + " title 'Marks (ecn)'",
	})

	s.blank()
	s.line("set ylabel 'Queueing delay [ms]'")
	s.line("set xlabel 'Sample'")
	var queue []string
	for _, q := range []struct{ file, label string }{
		{fileQueueECN, "ECN"},
		{fileQueueNonECN, "Non-ECN"},
	} {
		queue = append(queue,
			file(q.file)+" using ($0+1):2 with linespoints "+flowLinePointStyle+" title 'Max ("+q.label+")'",
			"'' using ($0+1):5 with linespoints "+flowLinePointStyle+" title '99th percentile ("+q.label+")'",
			"'' using ($0+1):3 with linespoints "+flowLinePointStyle+" title 'Average ("+q.label+")'",
		)
	}
	s.plot(queue)

	s.blank()
	s.line("unset multiplot")
	s.line("unset xlabel")
	s.line("unset offset")
}
