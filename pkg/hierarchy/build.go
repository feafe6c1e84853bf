package hierarchy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/metadata"
)

// Descriptor `type` values.
const (
	TypeCollection = "collection"
	TypeSet        = "set"
	TypeTest       = "test"
)

// FromDir builds the hierarchy rooted at directory dir from the descriptor
// files found in it and in every directory referenced by `sub` entries.
//
// The root must be a collection. The first `xaxislabel` found on a test case
// (in document order) is stored on the root as XLabel.
func FromDir(dir string) (*Node, error) {
	b := &dirBuilder{onPath: make(map[string]bool)}
	root, err := b.build(filepath.Clean(dir))
	if err != nil {
		return nil, err
	}
	if root.Kind != KindCollection {
		return nil, perrors.Structure(dir, "top directory must be a collection, found type %q", TypeTest)
	}
	root.XLabel = b.xlabel
	return root, nil
}

type dirBuilder struct {
	xlabel    string
	xlabelSet bool
	onPath    map[string]bool // directories on the current recursion stack
}

func (b *dirBuilder) build(dir string) (*Node, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Structure(dir, "directory does not exist")
		}
		return nil, perrors.Wrap(perrors.ErrCodeStructure, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, perrors.Structure(dir, "not a directory")
	}

	rec, err := metadata.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perrors.Structure(dir, "missing %s descriptor", metadata.DescriptorName)
		}
		return nil, perrors.Wrap(perrors.ErrCodeStructure, err, "read descriptor of %s", dir)
	}

	typ, ok := rec.Get(metadata.KeyType)
	if !ok {
		return nil, perrors.Structure(dir, "missing type in metadata")
	}

	switch typ {
	case TypeTest:
		if label, ok := rec.Get(metadata.KeyXAxisLabel); ok && !b.xlabelSet {
			b.xlabel = label
			b.xlabelSet = true
		}
		return NewTestCase(dir), nil

	case TypeCollection, TypeSet:
		return b.buildCollection(dir, rec)

	default:
		return nil, perrors.Structure(dir, "unknown type %q in metadata", typ)
	}
}

func (b *dirBuilder) buildCollection(dir string, rec *metadata.Record) (*Node, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	if b.onPath[abs] {
		return nil, perrors.Structure(dir, "sub references form a cycle")
	}
	b.onPath[abs] = true
	defer delete(b.onPath, abs)

	n := NewCollection(rec.Value(metadata.KeyTitle), rec.Value(metadata.KeySubtitle))
	n.Path = dir

	for _, sub := range rec.All(metadata.KeySub) {
		if err := perrors.ValidateSubPath(dir, sub); err != nil {
			return nil, err
		}
		child, err := b.build(filepath.Join(dir, sub))
		if err != nil {
			return nil, err
		}
		if len(n.Children) > 0 && n.Children[0].IsTestCase() != child.IsTestCase() {
			return nil, structureErr(dir, ErrMixedChildren)
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Compare returns a leaf-set root titled title whose children are the given
// test case directories, in order.
func Compare(title string, testcases []string) *Node {
	return NewLeafSet(title, "", testcases...)
}
