// Package walk implements the depth-first traversals that layout, labeling
// and pivoting are built from.
//
// All walks run left to right over children and share one offset rule: a
// leaf-set consumes one x unit per test case, and every non-empty node
// charges one more unit (a separator gap) when the walk leaves it. Empty
// collections are skipped entirely: they fire no callback and consume no
// unit.
//
// Each walk threads its running offset through an explicit walker value, so
// walks are independent of each other and repeatable: walking the same tree
// twice yields identical offsets.
//
// Callback errors abort the walk and are returned unchanged.
package walk

import "github.com/matzehuels/testplot/pkg/hierarchy"

// LeafSetFunc is called once per leaf-set with whether it is the first
// leaf-set of the walk and its x offset.
type LeafSetFunc func(n *hierarchy.Node, first bool, x int) error

// SetFunc is called for every non-root collection with its x offset and
// depth. Children of the root have depth 0.
type SetFunc func(n *hierarchy.Node, x, depth int) error

// SpanFunc is called for every non-root collection after its subtree has
// been walked, with its x offset, depth and the number of x units the
// subtree consumed (including its own trailing gap).
type SpanFunc func(n *hierarchy.Node, x, depth, width int) error

// LeafSets visits every leaf-set below root (root included) in document
// order. It returns the final offset, i.e. the number of x units consumed by
// the whole tree.
func LeafSets(root *hierarchy.Node, fn LeafSetFunc) (int, error) {
	w := &leafSetWalker{fn: fn, first: true}
	err := w.walk(root)
	return w.x, err
}

type leafSetWalker struct {
	fn    LeafSetFunc
	x     int
	first bool
}

func (w *leafSetWalker) walk(n *hierarchy.Node) error {
	if n.IsEmpty() || n.IsTestCase() {
		return nil
	}
	if n.IsLeafSet() {
		if err := w.fn(n, w.first, w.x); err != nil {
			return err
		}
		w.first = false
		w.x += len(n.Children)
	} else {
		for _, c := range n.Children {
			if err := w.walk(c); err != nil {
				return err
			}
		}
	}
	w.x++
	return nil
}

// Sets visits every collection below root in pre-order, calling fn before
// descending into the node. Leaf-sets are visited but their test cases are
// not. It returns the final offset.
func Sets(root *hierarchy.Node, fn SetFunc) (int, error) {
	w := &setWalker{pre: fn}
	err := w.walk(root, 0)
	return w.x, err
}

// SetsReverse visits every collection below root in post-order, calling fn
// after the node's subtree has been walked so that its width is known. It
// returns the final offset.
func SetsReverse(root *hierarchy.Node, fn SpanFunc) (int, error) {
	w := &setWalker{post: fn}
	err := w.walk(root, 0)
	return w.x, err
}

type setWalker struct {
	pre  SetFunc
	post SpanFunc
	x    int
}

func (w *setWalker) walk(n *hierarchy.Node, depth int) error {
	if n.IsEmpty() || n.IsTestCase() {
		return nil
	}
	if n.IsLeafSet() {
		w.x += len(n.Children)
	} else {
		for _, c := range n.Children {
			if c.IsEmpty() {
				continue
			}
			start := w.x
			if w.pre != nil {
				if err := w.pre(c, start, depth); err != nil {
					return err
				}
			}
			if err := w.walk(c, depth+1); err != nil {
				return err
			}
			if w.post != nil {
				if err := w.post(c, start, depth, w.x-start); err != nil {
					return err
				}
			}
		}
	}
	w.x++
	return nil
}
