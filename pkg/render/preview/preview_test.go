package preview

import (
	"strings"
	"testing"

	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/layout"
)

func TestRender(t *testing.T) {
	root := hierarchy.NewCollection("Overview", "10 Mbit/s",
		hierarchy.NewCollection("pie", "",
			hierarchy.NewLeafSet("cubic", "", "r/test-a", "r/test-b"),
		),
		hierarchy.NewCollection("fq_codel", "",
			hierarchy.NewLeafSet("reno", "", "r/test-c"),
		),
	)
	root.XLabel = "RTT"
	l, err := layout.Compute(root)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	out, err := Render(l, Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got := string(out)
	for _, want := range []string{"<svg", "Overview", "10 Mbit/s", "RTT", "pie", "fq_codel", "cubic", "reno", "test-a", "test-c", "rotate(-45"} {
		if !strings.Contains(got, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(got, "<circle"); n != 3 {
		t.Errorf("drew %d test case markers, want 3", n)
	}
	if !strings.HasSuffix(strings.TrimSpace(got), "</svg>") {
		t.Error("SVG not closed")
	}
}

func TestRenderNil(t *testing.T) {
	if _, err := Render(nil, Options{}); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Render(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.setDefaults()
	if o.Unit != DefaultUnit || o.Row != DefaultRow || o.Height != DefaultHeight {
		t.Errorf("setDefaults() = %+v", o)
	}
	o = Options{Unit: 10}
	o.setDefaults()
	if o.Unit != 10 {
		t.Errorf("setDefaults() overrode Unit: %d", o.Unit)
	}
}
