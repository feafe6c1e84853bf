// Package transform rewrites test hierarchies.
//
// The only transform is the pivot (transpose) that makes a chosen nesting
// level the outer grouping. Given
//
//	root
//	├── cubic
//	│   ├── 10 ms  [tests...]
//	│   └── 50 ms  [tests...]
//	└── reno
//	    ├── 10 ms  [tests...]
//	    └── 50 ms  [tests...]
//
// a level 0 pivot regroups the tree by the titles found one level down:
//
//	root
//	├── 10 ms
//	│   ├── cubic  [tests of cubic/10 ms]
//	│   └── reno   [tests of reno/10 ms]
//	└── 50 ms
//	    ├── cubic  [tests of cubic/50 ms]
//	    └── reno   [tests of reno/50 ms]
//
// Column order is the order in which titles are first seen, scanning rows
// left to right. Every test case of the input appears exactly once in the
// output and leaf-sets are never split. Rows that have no columns (leaf-sets
// directly below the root) are kept unchanged: those found before the first
// column go ahead of the pivoted columns, the others after them.
//
// Transforms never modify their input. The returned tree shares no nodes or
// children slices with it.
package transform

import (
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/hierarchy/walk"
)

// SwapLevel returns a copy of root in which the groups nested at level
// (0 = grandchildren of the root become the outer grouping) are pivoted.
//
// For level > 0 every node at depth level-1 below the root is pivoted in
// place of itself; shallower structure is kept. A tree without groups at the
// pivot depth is returned unchanged (as a copy).
func SwapLevel(root *hierarchy.Node, level int) (*hierarchy.Node, error) {
	if root == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "cannot pivot a nil tree")
	}
	if level < 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "pivot level must not be negative, got %d", level)
	}
	if level == 0 {
		return transpose(root)
	}
	out := root.Clone()
	if err := swapBelow(out, 0, level); err != nil {
		return nil, err
	}
	return out, nil
}

// SwapLevels applies SwapLevel once per level, in order.
func SwapLevels(root *hierarchy.Node, levels []int) (*hierarchy.Node, error) {
	out := root
	for _, level := range levels {
		next, err := SwapLevel(out, level)
		if err != nil {
			return nil, err
		}
		out = next
	}
	if out == root && root != nil {
		out = root.Clone()
	}
	return out, nil
}

func swapBelow(n *hierarchy.Node, depth, level int) error {
	if n.IsEmpty() || n.IsLeafSet() || n.IsTestCase() {
		return nil
	}
	for i, c := range n.Children {
		if depth+1 == level {
			t, err := transpose(c)
			if err != nil {
				return err
			}
			n.Children[i] = t
			continue
		}
		if err := swapBelow(c, depth+1, level); err != nil {
			return err
		}
	}
	return nil
}

// transpose pivots root at level 0.
func transpose(root *hierarchy.Node) (*hierarchy.Node, error) {
	tr := &transposer{index: make(map[string]*hierarchy.Node)}
	if _, err := walk.Sets(root, tr.visit); err != nil {
		return nil, err
	}
	tr.flushRow()

	if len(tr.columns) == 0 {
		return root.Clone(), nil
	}

	out := root.WithChildren(nil)
	out.Children = append(out.Children, tr.leading...)
	out.Children = append(out.Children, tr.columns...)
	out.Children = append(out.Children, tr.carried...)
	return out, nil
}

// transposer accumulates pivoted columns during a set walk. Rows are the
// root's children (depth 0), columns their children (depth 1).
type transposer struct {
	columns []*hierarchy.Node          // in first-seen title order
	index   map[string]*hierarchy.Node // title -> column in columns
	leading []*hierarchy.Node          // rows without columns before the first column
	carried []*hierarchy.Node          // rows without columns after it

	row     *hierarchy.Node
	rowUsed bool
}

func (tr *transposer) visit(n *hierarchy.Node, _ int, depth int) error {
	switch depth {
	case 0:
		tr.flushRow()
		tr.row = n
		tr.rowUsed = false
	case 1:
		tr.rowUsed = true
		cell := tr.row.WithChildren(n.Children)
		col, ok := tr.index[n.Title]
		if !ok {
			col = n.WithChildren(nil)
			tr.index[n.Title] = col
			tr.columns = append(tr.columns, col)
		}
		col.Children = append(col.Children, cell)
	}
	return nil
}

// flushRow keeps the current row when none of its children became a column
// (a leaf-set directly below the root), so its test cases are not lost.
func (tr *transposer) flushRow() {
	if tr.row != nil && !tr.rowUsed {
		if len(tr.columns) == 0 {
			tr.leading = append(tr.leading, tr.row.Clone())
		} else {
			tr.carried = append(tr.carried, tr.row.Clone())
		}
	}
	tr.row = nil
}
