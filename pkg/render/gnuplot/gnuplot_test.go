package gnuplot

import (
	"strings"
	"testing"

	"github.com/matzehuels/testplot/pkg/dataset"
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
)

func TestQuoting(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{quote, "plain", "'plain'"},
		{quote, "it's", "'it''s'"},
		{dquote, "a\nb", `"a\nb"`},
		{dquote, `say "hi" \o/`, `"say \"hi\" \\o/"`},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		4.8:                "4.8",
		1.05 + 0.06:        "1.11",
		-2:                 "-2",
		14.555555555555555: "14.556",
		0:                  "0",
	}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBlockName(t *testing.T) {
	if got := blockName("util_stats", 5); got != "$data_util_stats5" {
		t.Errorf("blockName() = %q", got)
	}
	if got := blockName("rate.v2-x", 0); got != "$data_rate_v2_x0" {
		t.Errorf("blockName() = %q", got)
	}
}

func TestFinalize(t *testing.T) {
	got := Finalize(Terminal{Size: "21cm,22cm", Output: "out/it's.pdf"}, "  set key above\n\t\"a\" 1 2\n")
	want := "reset\n" +
		"set terminal pdfcairo font 'Times-Roman,12' size 21cm,22cm\n" +
		"set output 'out/it''s.pdf'\n" +
		"set key above\n" +
		"\"a\" 1 2\n"
	if got != want {
		t.Errorf("Finalize() =\n%s\nwant\n%s", got, want)
	}

	custom := Finalize(Terminal{Font: "Helvetica", Size: "1cm,1cm", Output: "x.pdf"}, "")
	if !strings.Contains(custom, "font 'Helvetica,12'") {
		t.Errorf("Finalize() ignored font:\n%s", custom)
	}
}

func TestPreamble(t *testing.T) {
	p := Preamble()
	for _, want := range []string{
		"set style line 1 lc rgb '#1B9E77'",
		"set style line 8 lc rgb '#666666'",
		"set palette maxcolors 8",
		"set palette defined (0 '#1B9E77', 1 '#D95F02'",
		"set grid xtics ytics ztics lw 0.2 lc rgb 'gray'",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("Preamble() missing %q", want)
		}
	}
}

func TestStats(t *testing.T) {
	got := Stats(DefaultPanels())
	want := []string{StatUtil, StatQueueECN, StatQueueNonECN, StatDropsNonECN, StatDropsECN, StatMarksECN}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Stats() = %v, want %v", got, want)
	}
	if col := (Series{Using: "6:8:7"}).YColumn(); col != "6" {
		t.Errorf("YColumn() = %q, want 6", col)
	}
}

func comparisonFixture(t *testing.T) *Comparison {
	t.Helper()
	root := hierarchy.NewCollection("Testing cubic", "vs reno",
		hierarchy.NewCollection("1 flow", "", hierarchy.NewLeafSet("cubic", "", "a/1", "a/2")),
		hierarchy.NewCollection("2 flows", "", hierarchy.NewLeafSet("cubic", "", "b/1")),
	)
	root.XLabel = "RTT"
	l, err := layout.Compute(root)
	if err != nil {
		t.Fatal(err)
	}
	data := Data{}
	for _, slot := range l.Slots {
		for _, stat := range Stats(DefaultPanels()) {
			data.Set(slot.Index, stat, "\"10\" 1 2 3 4 5 6 7 8 9 10 11\n")
		}
	}
	return &Comparison{Layout: l, Scale: l.Scale(layout.ScaleOptions{}), Data: data}
}

func TestComparisonScript(t *testing.T) {
	c := comparisonFixture(t)
	got, err := c.Script("/tmp/comparison.pdf")
	if err != nil {
		t.Fatalf("Script() error: %v", err)
	}

	for _, want := range []string{
		"set terminal pdfcairo font 'Times-Roman,12' size 21cm,22cm",
		"set output '/tmp/comparison.pdf'",
		`set multiplot layout 3,1 title "Testing cubic\nvs reno"`,
		"set xrange [-2:6]",
		"set tmargin 4.8",
		"set lmargin 13",
		"set label '1 flow' at first 0, graph 1.11 font 'Times-Roman,9pt' tc rgb 'black' left",
		"set label 'cubic' at first 4, graph 1.05 font 'Times-Roman,9pt' tc rgb 'black' left",
		"$data_util_stats0 << EOD",
		"$data_qs_nonecn_stats4 << EOD",
		"$data_m_percent_ecn_stats4 << EOD",
		"$data_util_stats0 using ($0+0+0.1):6:8:7:xtic(1) with yerrorbars ls 2 pointtype 7 pointsize 0.5 lw 1.5 title 'ECN utilization'",
		"$data_util_stats4 using ($0+4+0.1):6:8:7:xtic(1) with yerrorbars ls 2 pointtype 7 pointsize 0.5 lw 1.5 title ''",
		"'' using ($0+4+0.2):9 with lines lc rgb 'gray' title ''",
		"$data_d_percent_ecn_stats0 using ($0+0+0.1):3:5:4:xtic(1) with yerrorbars lc rgb 'red'",
		"set xtic offset first .05",
		"set xlabel 'RTT'",
		"unset multiplot",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("script missing %q", want)
		}
	}

	if n := strings.Count(got, "$data_util_stats0 << EOD"); n != 1 {
		t.Errorf("util block for slot 0 written %d times, want once", n)
	}
	if n := strings.Count(got, "\nplot "); n != 3 {
		t.Errorf("plot commands = %d, want 3", n)
	}
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			t.Fatalf("line with leading whitespace: %q", line)
		}
	}
}

func TestComparisonIsDeterministic(t *testing.T) {
	a, err := comparisonFixture(t).Script("x.pdf")
	if err != nil {
		t.Fatal(err)
	}
	b, err := comparisonFixture(t).Script("x.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same input produced different scripts")
	}
}

func TestComparisonErrors(t *testing.T) {
	c := comparisonFixture(t)
	delete(c.Data[1], StatQueueECN)
	if _, err := c.Body(); !perrors.Is(err, perrors.ErrCodeInternal) {
		t.Errorf("missing block error = %v, want INTERNAL_ERROR", err)
	}

	if _, err := (&Comparison{}).Body(); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("nil layout error = %v, want INVALID_INPUT", err)
	}

	empty, err := layout.Compute(hierarchy.NewCollection("empty", ""))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (&Comparison{Layout: empty}).Body(); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("empty layout error = %v, want INVALID_INPUT", err)
	}
}

func TestFlowsScript(t *testing.T) {
	pages := []FlowPage{
		{Dir: "set/test-001", Flows: dataset.Flows{ECN: []string{"f1", "f2"}, NonECN: []string{"g1"}}},
		{Dir: "set/test-002", Title: "results/set/test-002"},
	}
	got := FlowsScript(pages, "", "set/analysis_merged.pdf")

	for _, want := range []string{
		"size 21cm,30cm",
		"set output 'set/analysis_merged.pdf'",
		"set multiplot layout 4,1 columnsfirst title 'set/test-001'",
		"'set/test-001/util' using ($0+1):2 with lines lw 1.5 title 'Total utilization'",
		"'set/test-001/r_pf_ecn' using ($0+1):4:xtic($2/1000) with linespoints ls 3 pointtype 2 ps 0.2 lw 1.5 title 'ecn - f2'",
		"'set/test-001/r_pf_nonecn' using ($0+1):3:xtic($2/1000) with linespoints ls 5 pointtype 6 ps 0.2 lw 1.5 title 'nonecn - g1'",
		"plot 0 title ''",
		"set multiplot layout 4,1 columnsfirst title 'results/set/test-002'",
		"'set/test-002/qs_samples_nonecn' using ($0+1):2",
		"set ylabel 'Utilization in %'",
		`set format y "%.0f"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("flows script missing %q", want)
		}
	}
	if n := strings.Count(got, "unset multiplot"); n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
}

func TestDataParts(t *testing.T) {
	data := Data{}
	data.Set(0, StatUtil, "", "\"b\" 1\n", "\"c\" 2\n\"c\" 3\n")

	block, ok := data.Get(0, StatUtil)
	if !ok || block != "\"b\" 1\n\"c\" 2\n\"c\" 3\n" {
		t.Errorf("Get() = %q, %v", block, ok)
	}
	parts, ok := data.Parts(0, StatUtil)
	if !ok || len(parts) != 3 || parts[0] != "" {
		t.Errorf("Parts() = %q, %v", parts, ok)
	}
	if _, ok := data.Get(1, StatUtil); ok {
		t.Error("Get() found a block for an unknown slot")
	}
}
