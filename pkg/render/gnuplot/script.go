package gnuplot

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFont is the terminal font family.
const DefaultFont = "Times-Roman"

// Page sizes of the two script kinds.
const (
	FlowPageSize = "21cm,30cm"
	terminalPt   = 12
)

// script accumulates gnuplot commands line by line.
type script struct {
	b strings.Builder
}

func (s *script) line(format string, args ...any) {
	if len(args) == 0 {
		s.b.WriteString(format)
	} else {
		fmt.Fprintf(&s.b, format, args...)
	}
	s.b.WriteByte('\n')
}

func (s *script) raw(text string) {
	s.b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		s.b.WriteByte('\n')
	}
}

func (s *script) blank() {
	s.b.WriteByte('\n')
}

func (s *script) String() string {
	return s.b.String()
}

// datablock writes an inline data block named name holding data.
func (s *script) datablock(name, data string) {
	s.line("%s << EOD", name)
	s.raw(data)
	s.line("EOD")
}

// plot writes a plot command with one element per line.
func (s *script) plot(elems []string) {
	if len(elems) == 0 {
		s.line("plot NaN title ''")
		return
	}
	s.line("plot %s", strings.Join(elems, ", \\\n     "))
}

// Terminal describes the output device of a script.
type Terminal struct {
	Font   string // font family, DefaultFont when empty
	Size   string // gnuplot size spec, e.g. "21cm,22cm"
	Output string // PDF file written by the engine
}

// Size formats a canvas size in centimetres.
func Size(widthCM, heightCM float64) string {
	return num(widthCM) + "cm," + num(heightCM) + "cm"
}

var leadingSpace = regexp.MustCompile(`(?m)^[\t ]+`)

// Finalize prefixes body with the terminal setup and strips leading
// whitespace from every line.
func Finalize(t Terminal, body string) string {
	font := t.Font
	if font == "" {
		font = DefaultFont
	}
	var s script
	s.line("reset")
	s.line("set terminal pdfcairo font %s size %s", quote(fmt.Sprintf("%s,%d", font, terminalPt)), t.Size)
	s.line("set output %s", quote(t.Output))
	s.raw(body)
	return leadingSpace.ReplaceAllString(s.String(), "")
}

// quote returns s as a single-quoted gnuplot string.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// dquote returns s as a double-quoted gnuplot string. Newlines become the
// \n escape.
func dquote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// num formats v with at most three decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// blockName returns the datablock name of statistic stat at offset x.
func blockName(stat string, x int) string {
	return fmt.Sprintf("$data_%s%d", nonIdent.ReplaceAllString(stat, "_"), x)
}
