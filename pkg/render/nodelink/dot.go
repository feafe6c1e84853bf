package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
)

// Options configures hierarchy diagram generation.
type Options struct {
	// Detailed adds one node per test case below its leaf-set. When false,
	// leaf-sets show their test case count instead.
	Detailed bool
	// Layout, when set, annotates leaf-sets with their x offset and width.
	Layout *layout.Layout
}

// ToDOT converts a hierarchy to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Leaf-sets are drawn filled, empty collections dashed.
func ToDOT(root *hierarchy.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	w.node(root, "")

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *dotWriter) node(n *hierarchy.Node, parent string) {
	id := fmt.Sprintf("n%d", w.next)
	w.next++

	fmt.Fprintf(w.buf, "  %s [%s];\n", id, strings.Join(w.attrs(n), ", "))
	if parent != "" {
		fmt.Fprintf(w.buf, "  %s -> %s;\n", parent, id)
	}

	if n.IsLeafSet() && !w.opts.Detailed {
		return
	}
	for _, c := range n.Children {
		w.node(c, id)
	}
}

func (w *dotWriter) attrs(n *hierarchy.Node) []string {
	label := fmtLabel(n, w.opts)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsTestCase():
		attrs = append(attrs, "shape=note", "fontsize=10")
	case n.IsLeafSet():
		attrs = append(attrs, "fillcolor=\"#1B9E77\"", "fontcolor=white")
	case n.IsEmpty():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func fmtLabel(n *hierarchy.Node, opts Options) string {
	if n.IsTestCase() {
		return filepath.Base(n.Path)
	}

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	if n.Subtitle != "" {
		title += "\n" + n.Subtitle
	}
	if !n.IsLeafSet() {
		return title
	}

	parts := []string{title, fmt.Sprintf("%d test cases", len(n.Children))}
	if opts.Layout != nil {
		if s, ok := opts.Layout.SlotOf(n); ok {
			parts = append(parts, fmt.Sprintf("x: %d, width: %d", s.X, s.Width))
		}
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg element with one whose viewBox
// starts at the origin and whose size matches the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
