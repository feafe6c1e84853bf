package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/metadata"
)

// makeCase creates a test case directory with a descriptor and stat files.
func makeCase(t *testing.T, dir string, descriptor string, stats map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metadata.Path(dir), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, content := range stats {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestXticLabel(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		want       string
	}{
		{"present", "type test\nxticlabel 10 Mb/s \n", "10 Mb/s"},
		{"absent", "type test\n", NotAvailable},
		{"first non-empty wins", "xticlabel\nxticlabel a\nxticlabel b\n", "a"},
		{"prefix is not the key", "xticlabels nope\n", NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			makeCase(t, dir, tt.descriptor, nil)
			got, err := XticLabel(dir)
			if err != nil {
				t.Fatalf("XticLabel() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("XticLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestXticLabelMissingDescriptor(t *testing.T) {
	_, err := XticLabel(t.TempDir())
	if !perrors.Is(err, perrors.ErrCodeData) {
		t.Errorf("XticLabel() error = %v, want DATA_ERROR", err)
	}
}

func TestMerge(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "test-001")
	b := filepath.Join(root, "test-002")
	c := filepath.Join(root, "test-003")
	makeCase(t, a, "xticlabel 10\n", map[string]string{"util_stats": "# header\n1 95 90 99\n2 96 91 99\n"})
	makeCase(t, b, "type test\n", map[string]string{"util_stats": "1 80 70 85"})
	makeCase(t, c, "xticlabel say \"hi\"\n", map[string]string{"util_stats": "\n#only comment\n3 1 2 3\r\n"})

	m := NewMerger(2, nil)
	got, err := m.Merge(context.Background(), []string{a, b, c}, "util_stats")
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	want := `"10" 1 95 90 99
"10" 2 96 91 99
"n/a" 1 80 70 85
"say 'hi'" 3 1 2 3
`
	if got != want {
		t.Errorf("Merge() =\n%s\nwant\n%s", got, want)
	}
}

func TestMergeCasesKeepsBoundaries(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "test-a")
	b := filepath.Join(root, "test-b")
	c := filepath.Join(root, "test-c")
	makeCase(t, a, "xticlabel A\n", map[string]string{"util_stats": "# no samples\n"})
	makeCase(t, b, "xticlabel B\n", map[string]string{"util_stats": "x 42 1 2\n"})
	makeCase(t, c, "xticlabel C\n", map[string]string{"util_stats": "1 2\n3 4\n"})

	parts, err := NewMerger(2, nil).MergeCases(context.Background(), []string{a, b, c}, "util_stats")
	if err != nil {
		t.Fatalf("MergeCases() error: %v", err)
	}
	want := []string{"", "\"B\" x 42 1 2\n", "\"C\" 1 2\n\"C\" 3 4\n"}
	if !reflect.DeepEqual(parts, want) {
		t.Errorf("MergeCases() = %q, want %q", parts, want)
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	root := t.TempDir()
	var cases []string
	for i := 0; i < 30; i++ {
		dir := filepath.Join(root, fmt.Sprintf("test-%03d", i))
		rows := strings.Repeat(fmt.Sprintf("%d 1 2 3\n", i), i%4+1)
		makeCase(t, dir, fmt.Sprintf("xticlabel %d\n", i), map[string]string{"qs_ecn_stats": rows})
		cases = append(cases, dir)
	}

	m := NewMerger(4, nil)
	first, err := m.Merge(context.Background(), cases, "qs_ecn_stats")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := m.Merge(context.Background(), cases, "qs_ecn_stats")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatal("merging the same leaf-set twice produced different output")
		}
	}
	if !strings.HasPrefix(first, `"0" 0 1 2 3`) || !strings.HasSuffix(first, "\"29\" 29 1 2 3\n") {
		t.Errorf("rows out of test case order:\n%s", first)
	}
}

func TestMergeErrors(t *testing.T) {
	root := t.TempDir()
	ok := filepath.Join(root, "test-ok")
	missingStat := filepath.Join(root, "test-nostat")
	missingDesc := filepath.Join(root, "test-nodesc")
	makeCase(t, ok, "xticlabel 1\n", map[string]string{"util_stats": "1\n"})
	makeCase(t, missingStat, "xticlabel 2\n", nil)
	if err := os.MkdirAll(missingDesc, 0o755); err != nil {
		t.Fatal(err)
	}

	m := NewMerger(0, nil)
	tests := []struct {
		name     string
		cases    []string
		stat     string
		code     perrors.Code
		wantPath string
	}{
		{"missing stat", []string{ok, missingStat}, "util_stats", perrors.ErrCodeData, filepath.Join(missingStat, "util_stats")},
		{"missing descriptor", []string{missingDesc, missingStat}, "util_stats", perrors.ErrCodeData, metadata.Path(missingDesc)},
		{"bad stat name", []string{ok}, "../etc/passwd", perrors.ErrCodeInvalidInput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Merge(context.Background(), tt.cases, tt.stat)
			if !perrors.Is(err, tt.code) {
				t.Fatalf("Merge() error = %v, want %v", err, tt.code)
			}
			if got := perrors.GetPath(err); got != tt.wantPath {
				t.Errorf("error path = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestMergeCancelled(t *testing.T) {
	dir := t.TempDir()
	makeCase(t, dir, "xticlabel 1\n", map[string]string{"util_stats": "1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMerger(1, nil).Merge(ctx, []string{dir}, "util_stats")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Merge() error = %v, want context.Canceled", err)
	}
}

func TestMergeAll(t *testing.T) {
	dir := t.TempDir()
	makeCase(t, dir, "xticlabel x\n", map[string]string{
		"qs_ecn_stats":    "1 2\n",
		"qs_nonecn_stats": "3 4\n",
	})

	blocks, err := NewMerger(0, nil).MergeAll(context.Background(), []string{dir}, []string{"qs_ecn_stats", "qs_nonecn_stats", "qs_ecn_stats"})
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if got := blocks["qs_nonecn_stats"]; len(got) != 1 || got[0] != "\"x\" 3 4\n" {
		t.Errorf("qs_nonecn_stats block = %q", got)
	}
}

func TestReadFlows(t *testing.T) {
	dir := t.TempDir()
	makeCase(t, dir, "type test\n", map[string]string{
		FlowsECNFile:    "10.0.0.1:5000 10.0.1.1:6000\n\n",
		FlowsNonECNFile: "",
	})
	f, err := ReadFlows(dir)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 || f.ECN[0] != "10.0.0.1:5000 10.0.1.1:6000" || len(f.NonECN) != 0 {
		t.Errorf("ReadFlows() = %+v", f)
	}

	if _, err := ReadFlows(t.TempDir()); !perrors.Is(err, perrors.ErrCodeData) {
		t.Errorf("ReadFlows(missing) error = %v, want DATA_ERROR", err)
	}
}
