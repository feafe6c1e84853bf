package hierarchy

import (
	"errors"
	"fmt"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

var (
	// ErrMixedChildren is returned by [Node.Validate] when a collection holds
	// both test cases and sub-collections.
	ErrMixedChildren = errors.New("collection mixes test cases and sub-collections")

	// ErrTestCaseChildren is returned by [Node.Validate] when a test case has
	// children. Test cases reference a result directory and are never subtrees.
	ErrTestCaseChildren = errors.New("test case must not have children")

	// ErrEmptyTestCasePath is returned by [Node.Validate] when a test case
	// does not reference a result directory.
	ErrEmptyTestCasePath = errors.New("test case path must not be empty")

	// ErrNilNode is returned by [Node.Validate] for nil children.
	ErrNilNode = errors.New("nil node")
)

// Kind distinguishes the two node variants of a test hierarchy.
type Kind int

const (
	// KindCollection is a named group of nodes (descriptor type `collection`
	// or `set`).
	KindCollection Kind = iota
	// KindTestCase references a single result directory (descriptor type
	// `test`).
	KindTestCase
)

// String returns the descriptor spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindTestCase:
		return "test"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a vertex of a test hierarchy.
//
// Collections carry Title, Subtitle and Children. Test cases carry only Path.
// XLabel is meaningful on the root, where the builders store the x-axis label
// of the render. Path on a collection records the directory it was read from,
// if any, and is used for error reporting.
type Node struct {
	Kind     Kind
	Title    string
	Subtitle string
	XLabel   string
	Path     string
	Children []*Node
}

// NewCollection returns a collection node with the given children.
func NewCollection(title, subtitle string, children ...*Node) *Node {
	return &Node{
		Kind:     KindCollection,
		Title:    title,
		Subtitle: subtitle,
		Children: children,
	}
}

// NewTestCase returns a test case node referencing the result directory path.
func NewTestCase(path string) *Node {
	return &Node{Kind: KindTestCase, Path: path}
}

// NewLeafSet returns a collection whose children are test cases for paths.
func NewLeafSet(title, subtitle string, paths ...string) *Node {
	n := NewCollection(title, subtitle)
	n.Children = make([]*Node, len(paths))
	for i, p := range paths {
		n.Children[i] = NewTestCase(p)
	}
	return n
}

// IsTestCase reports whether the node is a test case.
func (n *Node) IsTestCase() bool {
	return n != nil && n.Kind == KindTestCase
}

// IsEmpty reports whether the node is a collection without children.
// Empty collections are inert: walks neither visit them nor charge them an
// offset unit.
func (n *Node) IsEmpty() bool {
	return n == nil || (n.Kind == KindCollection && len(n.Children) == 0)
}

// IsLeafSet reports whether the node is a collection whose children are test
// cases.
func (n *Node) IsLeafSet() bool {
	return n != nil && n.Kind == KindCollection && len(n.Children) > 0 && n.Children[0].IsTestCase()
}

// Label returns the title, or the path for test cases and untitled nodes.
func (n *Node) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Path
}

// Validate checks the shape invariants of the subtree rooted at n: siblings
// are all test cases or all collections, test cases are childless and carry
// a path. Violations are reported as STRUCTURE_ERROR with the offending
// node's path (or title) and wrap one of the sentinel errors of this
// package.
func (n *Node) Validate() error {
	if n == nil {
		return structureErr("", ErrNilNode)
	}
	if n.Kind == KindTestCase {
		if len(n.Children) > 0 {
			return structureErr(n.Path, ErrTestCaseChildren)
		}
		if n.Path == "" {
			return structureErr(n.Title, ErrEmptyTestCasePath)
		}
		return nil
	}

	tests := 0
	for _, c := range n.Children {
		if c == nil {
			return structureErr(n.Label(), ErrNilNode)
		}
		if c.Kind == KindTestCase {
			tests++
		}
	}
	if tests != 0 && tests != len(n.Children) {
		return structureErr(n.Label(), ErrMixedChildren)
	}
	for _, c := range n.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func structureErr(path string, sentinel error) error {
	return &perrors.Error{
		Code:    perrors.ErrCodeStructure,
		Message: sentinel.Error(),
		Path:    path,
		Cause:   sentinel,
	}
}

// Clone returns a deep copy of the subtree rooted at n. The copy shares no
// children slices with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := n.shallow()
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// WithChildren returns a copy of n's own fields with a freshly allocated
// children slice holding deep copies of children.
func (n *Node) WithChildren(children []*Node) *Node {
	c := n.shallow()
	c.Children = make([]*Node, len(children))
	for i, child := range children {
		c.Children[i] = child.Clone()
	}
	return c
}

func (n *Node) shallow() *Node {
	return &Node{
		Kind:     n.Kind,
		Title:    n.Title,
		Subtitle: n.Subtitle,
		XLabel:   n.XLabel,
		Path:     n.Path,
	}
}

// TestCases returns the result directories of a leaf-set in order, or nil if
// n is not a leaf-set.
func (n *Node) TestCases() []string {
	if !n.IsLeafSet() {
		return nil
	}
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Path
	}
	return out
}

// TestCasePaths returns the result directory of every test case below n in
// document order.
func (n *Node) TestCasePaths() []string {
	var out []string
	var visit func(*Node)
	visit = func(x *Node) {
		if x == nil {
			return
		}
		if x.Kind == KindTestCase {
			out = append(out, x.Path)
			return
		}
		for _, c := range x.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// LeafSets returns every leaf-set below n (including n itself) in document
// order.
func (n *Node) LeafSets() []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		if x.IsEmpty() || x.IsTestCase() {
			return
		}
		if x.IsLeafSet() {
			out = append(out, x)
			return
		}
		for _, c := range x.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}
