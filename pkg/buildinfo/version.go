// Package buildinfo records which testplot build produced an artifact.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/testplot/pkg/buildinfo.Version=v0.4.0 \
//	    -X github.com/matzehuels/testplot/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/testplot/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import (
	"fmt"
	"runtime"
)

// Stamped at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata embedded in JSON layout exports.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

// Get returns the metadata of the running binary. Unstamped commit and date
// are left empty.
func Get() Info {
	info := Info{Version: Version, Go: runtime.Version()}
	if Commit != "none" {
		info.Commit = Commit
	}
	if Date != "unknown" {
		info.Date = Date
	}
	return info
}

// String formats i on one line, e.g. "v0.4.0 (3f2a1c9, 2026-01-02, go1.24.0)".
func (i Info) String() string {
	s := i.Version + " ("
	if i.Commit != "" {
		s += i.Commit + ", "
	}
	if i.Date != "" {
		s += i.Date + ", "
	}
	return s + i.Go + ")"
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\n", Get())
}
