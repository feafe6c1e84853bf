package dataset

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

// Flow list files written by the analysis stage, one flow name per line.
const (
	FlowsECNFile    = "flows_ecn"
	FlowsNonECNFile = "flows_nonecn"
)

// Flows lists the flows of one test case by ECN capability.
type Flows struct {
	ECN    []string
	NonECN []string
}

// Len returns the total number of flows.
func (f Flows) Len() int {
	return len(f.ECN) + len(f.NonECN)
}

// ReadFlows reads the flow lists of the test case in dir.
func ReadFlows(dir string) (Flows, error) {
	var f Flows
	var err error
	if f.ECN, err = readLines(filepath.Join(dir, FlowsECNFile)); err != nil {
		return Flows{}, err
	}
	if f.NonECN, err = readLines(filepath.Join(dir, FlowsNonECNFile)); err != nil {
		return Flows{}, err
	}
	return f, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, perrors.Data(path, err, "read flow list")
	}
	defer file.Close()

	var out []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, perrors.Data(path, err, "read flow list")
	}
	return out, nil
}
