package hierarchy

import (
	"errors"
	"reflect"
	"testing"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

func TestNodeKinds(t *testing.T) {
	leaf := NewLeafSet("L", "", "t1", "t2")
	empty := NewCollection("E", "")
	outer := NewCollection("root", "", leaf, empty)

	tests := []struct {
		name      string
		node      *Node
		leafSet   bool
		empty     bool
		testCase  bool
		wantCases []string
	}{
		{"leaf-set", leaf, true, false, false, []string{"t1", "t2"}},
		{"empty collection", empty, false, true, false, nil},
		{"outer", outer, false, false, false, nil},
		{"test case", leaf.Children[0], false, false, true, nil},
		{"nil", nil, false, true, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsLeafSet(); got != tt.leafSet {
				t.Errorf("IsLeafSet() = %v, want %v", got, tt.leafSet)
			}
			if got := tt.node.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.node.IsTestCase(); got != tt.testCase {
				t.Errorf("IsTestCase() = %v, want %v", got, tt.testCase)
			}
			if got := tt.node.TestCases(); !reflect.DeepEqual(got, tt.wantCases) {
				t.Errorf("TestCases() = %v, want %v", got, tt.wantCases)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want error
	}{
		{
			name: "valid",
			node: NewCollection("root", "", NewLeafSet("a", "", "t1"), NewLeafSet("b", "", "t2")),
		},
		{
			name: "empty collections are valid",
			node: NewCollection("root", "", NewCollection("a", "")),
		},
		{
			name: "mixed children",
			node: NewCollection("root", "", NewTestCase("t1"), NewLeafSet("b", "", "t2")),
			want: ErrMixedChildren,
		},
		{
			name: "mixed deeper",
			node: NewCollection("root", "", NewCollection("a", "", NewLeafSet("x", "", "t"), NewTestCase("u"))),
			want: ErrMixedChildren,
		},
		{
			name: "test case with children",
			node: &Node{Kind: KindTestCase, Path: "t", Children: []*Node{NewTestCase("u")}},
			want: ErrTestCaseChildren,
		},
		{
			name: "test case without path",
			node: NewLeafSet("a", "", ""),
			want: ErrEmptyTestCasePath,
		},
		{
			name: "nil child",
			node: NewCollection("root", "", nil),
			want: ErrNilNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
			if !perrors.Is(err, perrors.ErrCodeStructure) {
				t.Errorf("Validate() code = %v, want %v", perrors.GetCode(err), perrors.ErrCodeStructure)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewCollection("root", "sub", NewLeafSet("a", "", "t1", "t2"))
	orig.XLabel = "RTT"

	c := orig.Clone()
	if !reflect.DeepEqual(c, orig) {
		t.Fatalf("Clone() = %+v, want equal to original", c)
	}

	c.Children[0].Children[0].Path = "changed"
	c.Children = append(c.Children, NewCollection("extra", ""))
	if orig.Children[0].Children[0].Path != "t1" {
		t.Error("mutating clone's grandchild changed the original")
	}
	if len(orig.Children) != 1 {
		t.Error("appending to clone's children changed the original")
	}
}

func TestWithChildren(t *testing.T) {
	row := NewCollection("row", "s", NewLeafSet("col", "", "t1"))
	kids := []*Node{NewTestCase("x")}
	c := row.WithChildren(kids)

	if c.Title != "row" || c.Subtitle != "s" {
		t.Errorf("WithChildren() fields = %q/%q, want row/s", c.Title, c.Subtitle)
	}
	if len(c.Children) != 1 || c.Children[0] == kids[0] {
		t.Error("WithChildren() must copy children")
	}
	kids[0].Path = "y"
	if c.Children[0].Path != "x" {
		t.Error("WithChildren() aliased the given children")
	}
}

func TestTestCasePathsAndLeafSets(t *testing.T) {
	root := NewCollection("root", "",
		NewCollection("A", "", NewLeafSet("a1", "", "1", "2")),
		NewCollection("B", ""),
		NewCollection("C", "", NewLeafSet("c1", "", "3"), NewLeafSet("c2", "", "4", "5")),
	)

	if got, want := root.TestCasePaths(), []string{"1", "2", "3", "4", "5"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TestCasePaths() = %v, want %v", got, want)
	}

	var titles []string
	for _, ls := range root.LeafSets() {
		titles = append(titles, ls.Title)
	}
	if want := []string{"a1", "c1", "c2"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("LeafSets() titles = %v, want %v", titles, want)
	}
}

func TestKindString(t *testing.T) {
	if KindCollection.String() != "collection" || KindTestCase.String() != "test" {
		t.Errorf("unexpected kind names %q %q", KindCollection, KindTestCase)
	}
	if Kind(7).String() != "Kind(7)" {
		t.Errorf("Kind(7).String() = %q", Kind(7).String())
	}
}
