package gnuplot

// Dark2 is the ColorBrewer Dark2 qualitative palette used for line styles
// 1-8.
var Dark2 = []string{
	"#1B9E77", // dark teal
	"#D95F02", // dark orange
	"#7570B3", // dark lilac
	"#E7298A", // dark magenta
	"#66A61E", // dark lime green
	"#E6AB02", // dark banana
	"#A6761D", // dark tan
	"#666666", // dark gray
}

// Preamble returns the style header shared by all scripts: key spacing,
// grid, line styles and palette.
func Preamble() string {
	var s script
	s.line("set key spacing 1.3")
	s.line("set grid xtics ytics ztics lw 0.2 lc rgb 'gray'")
	s.blank()
	for i, c := range Dark2 {
		s.line("set style line %d lc rgb '%s'", i+1, c)
	}
	s.blank()
	s.line("set palette maxcolors %d", len(Dark2))
	s.b.WriteString("set palette defined (")
	for i, c := range Dark2 {
		if i > 0 {
			s.b.WriteString(", ")
		}
		s.b.WriteString(num(float64(i)))
		s.b.WriteString(" '")
		s.b.WriteString(c)
		s.b.WriteString("'")
	}
	s.line(")")
	s.blank()
	return s.String()
}
