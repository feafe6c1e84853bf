// Package layout assigns shared x coordinates to the leaf-sets of a test
// hierarchy.
//
// A render draws the same tree once per panel (utilization, queueing delay,
// drops). [Compute] walks the tree once and the resulting [Layout] is reused
// for every panel, so columns line up across panels by construction.
//
// Offsets follow the rule of package walk: a leaf-set occupies one x unit per
// test case and every node adds a one unit gap when it closes. Group labels
// come from the reverse set walk, which knows each group's width once its
// subtree has been laid out.
package layout

import (
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/hierarchy/walk"
)

// Slot is the placement of one leaf-set.
type Slot struct {
	Index     int             `json:"index"`
	Title     string          `json:"title"`
	X         int             `json:"x"`
	Width     int             `json:"width"`
	First     bool            `json:"first"`
	TestCases []string        `json:"testcases"`
	Node      *hierarchy.Node `json:"-"`
}

// End returns the first x unit after the slot's test cases.
func (s Slot) End() int {
	return s.X + s.Width
}

// Label is the placement of a group title above the panels. Depth 0 is a
// child of the root.
type Label struct {
	Title string `json:"title"`
	X     int    `json:"x"`
	Depth int    `json:"depth"`
	Width int    `json:"width"`
}

// Counts are the aggregate sizes of a hierarchy.
type Counts struct {
	LeafSets  int `json:"leaf_sets"`
	TestCases int `json:"testcases"`
	MaxDepth  int `json:"max_depth"`
	// TotalNodes is the number of traversed nodes plus test cases, minus
	// MaxDepth. It only drives font scaling.
	TotalNodes int `json:"total_nodes"`
}

// Layout is the shared coordinate assignment of one render.
type Layout struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	XLabel   string  `json:"xlabel,omitempty"`
	Slots    []Slot  `json:"slots"`
	Labels   []Label `json:"labels"`
	Counts   Counts  `json:"counts"`
	// End is the number of x units consumed by the whole tree.
	End int `json:"end"`
	// Span is the end of the last leaf-set (0 without leaf-sets).
	Span int `json:"span"`

	byNode map[*hierarchy.Node]int
}

// Compute lays out root. The tree is only read. Every leaf-set node must
// appear once; a node reachable twice fails with STRUCTURE_ERROR since its
// slot would be ambiguous.
func Compute(root *hierarchy.Node) (*Layout, error) {
	l := &Layout{
		Title:    root.Title,
		Subtitle: root.Subtitle,
		XLabel:   root.XLabel,
		Counts:   CountNodes(root),
		byNode:   make(map[*hierarchy.Node]int),
	}

	end, err := walk.LeafSets(root, func(n *hierarchy.Node, first bool, x int) error {
		if _, dup := l.byNode[n]; dup {
			return perrors.New(perrors.ErrCodeStructure, "leaf-set %q appears more than once in the tree", n.Title)
		}
		s := Slot{
			Index:     len(l.Slots),
			Title:     n.Title,
			X:         x,
			Width:     len(n.Children),
			First:     first,
			TestCases: n.TestCases(),
			Node:      n,
		}
		l.byNode[n] = s.Index
		l.Slots = append(l.Slots, s)
		if s.End() > l.Span {
			l.Span = s.End()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.End = end

	_, err = walk.SetsReverse(root, func(n *hierarchy.Node, x, depth, width int) error {
		l.Labels = append(l.Labels, Label{Title: n.Title, X: x, Depth: depth, Width: width})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// SlotOf returns the slot of leaf-set n.
func (l *Layout) SlotOf(n *hierarchy.Node) (Slot, bool) {
	i, ok := l.byNode[n]
	if !ok {
		return Slot{}, false
	}
	return l.Slots[i], true
}

// CountNodes computes the aggregate counts of root in one traversal.
// MaxDepth is the deepest level at which a leaf-set is found, with the root
// at depth 0.
func CountNodes(root *hierarchy.Node) Counts {
	var c Counts
	nodes := 0
	var traverse func(n *hierarchy.Node, depth int)
	traverse = func(n *hierarchy.Node, depth int) {
		if n.IsEmpty() || n.IsTestCase() {
			return
		}
		if n.IsLeafSet() {
			if depth > c.MaxDepth {
				c.MaxDepth = depth
			}
			c.LeafSets++
			c.TestCases += len(n.Children)
			nodes += len(n.Children)
			return
		}
		for _, child := range n.Children {
			nodes++
			traverse(child, depth+1)
		}
	}
	traverse(root, 0)
	c.TotalNodes = nodes - c.MaxDepth
	return c
}
