package hierarchy

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/metadata"
)

// AnalyzedMarker is the descriptor line that marks a test case whose
// statistics have been produced by the analysis stage.
const AnalyzedMarker = "data_analyzed"

// testCasePrefix is the directory name prefix of test case folders.
const testCasePrefix = "test-"

// Spec is an explicit nested description of a hierarchy. Each group either
// names a Folder, whose analyzed test cases form a leaf-set, or nests further
// Groups.
//
// In TOML, groups are arrays of tables:
//
//	title = "Testing cubic vs different flows"
//	xlabel = "RTT"
//
//	[[group]]
//	title = "cubic"
//
//	  [[group.group]]
//	  title = "10 ms"
//	  folder = "results/cubic-10"
//
// In YAML, groups are an ordered mapping from title to folder or to a nested
// mapping:
//
//	title: Testing cubic vs different flows
//	xlabel: RTT
//	groups:
//	  cubic:
//	    10 ms: results/cubic-10
//	    50 ms: results/cubic-50
type Spec struct {
	Title  string `toml:"title" yaml:"title"`
	XLabel string `toml:"xlabel" yaml:"xlabel"`
	Groups Groups `toml:"group" yaml:"groups"`

	// Base resolves relative folders. LoadSpecFile sets it to the directory
	// of the spec file.
	Base string `toml:"-" yaml:"-"`
}

// Group is one entry of a [Spec].
type Group struct {
	Title  string `toml:"title"`
	Folder string `toml:"folder"`
	Groups Groups `toml:"group"`
}

// Groups is an ordered list of groups.
type Groups []Group

// UnmarshalYAML decodes an ordered mapping of title to folder (scalar) or to
// a nested mapping.
func (g *Groups) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: groups must be a mapping", n.Line)
	}
	out := make(Groups, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		grp := Group{Title: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			grp.Folder = val.Value
		case yaml.MappingNode:
			if err := val.Decode(&grp.Groups); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: group %q must be a folder or a mapping", val.Line, key.Value)
		}
		out = append(out, grp)
	}
	*g = out
	return nil
}

// LoadSpecFile reads a TOML (.toml) or YAML (.yaml, .yml) spec file.
func LoadSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeStructure, err, "read spec %s", path)
	}
	spec, err := ParseSpec(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	spec.Base = filepath.Dir(path)
	return spec, nil
}

// ParseSpec decodes a spec in the given format ("toml", "yaml" or "yml").
func ParseSpec(data []byte, format string) (*Spec, error) {
	var spec Spec
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&spec)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeStructure, err, "parse toml spec")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, perrors.New(perrors.ErrCodeStructure, "unknown key %q in spec", undecoded[0].String())
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeStructure, err, "parse yaml spec")
		}
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "unsupported spec format %q", format)
	}
	return &spec, nil
}

// FromSpec builds the hierarchy described by spec. Folders are resolved
// against spec.Base and their test cases are found with [Discover].
func FromSpec(spec *Spec) (*Node, error) {
	if spec == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "nil spec")
	}
	root := NewCollection(spec.Title, "")
	root.XLabel = spec.XLabel
	children, err := buildGroups(spec.Groups, spec.Base, spec.Title)
	if err != nil {
		return nil, err
	}
	root.Children = children
	return root, nil
}

func buildGroups(groups Groups, base, parent string) ([]*Node, error) {
	out := make([]*Node, 0, len(groups))
	for _, g := range groups {
		where := parent + "/" + g.Title
		switch {
		case g.Folder != "" && len(g.Groups) > 0:
			return nil, perrors.Structure(where, "group has both a folder and nested groups")
		case g.Folder != "":
			folder := g.Folder
			if !filepath.IsAbs(folder) && base != "" {
				folder = filepath.Join(base, folder)
			}
			paths, err := Discover(folder)
			if err != nil {
				return nil, err
			}
			leaf := NewLeafSet(g.Title, "", paths...)
			leaf.Path = folder
			out = append(out, leaf)
		case len(g.Groups) > 0:
			children, err := buildGroups(g.Groups, base, where)
			if err != nil {
				return nil, err
			}
			out = append(out, NewCollection(g.Title, "", children...))
		default:
			return nil, perrors.Structure(where, "group needs a folder or nested groups")
		}
	}
	return out, nil
}

// Discover returns the analyzed test case directories inside folder, sorted
// by path. A test case directory is named "test-*" and its descriptor holds
// an [AnalyzedMarker] line.
func Discover(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, perrors.Structure(folder, "cannot list test cases: %v", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), testCasePrefix) {
			continue
		}
		dir := filepath.Join(folder, e.Name())
		ok, err := analyzed(dir)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out, nil
}

func analyzed(dir string) (bool, error) {
	data, err := os.ReadFile(metadata.Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, perrors.Wrap(perrors.ErrCodeStructure, err, "read descriptor of %s", dir)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == AnalyzedMarker {
			return true, nil
		}
	}
	return false, nil
}
