// Package metadata reads the per-directory descriptor files that describe a
// test hierarchy.
//
// A descriptor is a plain text file (named "details") with one
// whitespace-delimited "key value..." entry per line. The first field is the
// key and the remainder of the line, trimmed, is the value:
//
//	type collection
//	title Testing cubic vs different flows
//	sub flows-1
//	sub flows-2
//
// Keys may repeat. Repetition is meaningful (a collection lists one `sub`
// entry per child directory) so a [Record] keeps every entry in file order.
// [Record.Get] answers with the first occurrence of a key and [Record.All]
// with every occurrence, in order.
//
// Unrecognized keys are preserved in the record; interpreting them is left
// to the caller.
package metadata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DescriptorName is the descriptor file name inside every directory of a
// test hierarchy.
const DescriptorName = "details"

// Well-known descriptor keys.
const (
	KeyType       = "type"
	KeyTitle      = "title"
	KeySubtitle   = "subtitle"
	KeySub        = "sub"
	KeyXAxisLabel = "xaxislabel"
	KeyXticLabel  = "xticlabel"
)

// maxLineSize bounds a single descriptor line.
const maxLineSize = 1 << 20

// Pair is a single descriptor entry.
type Pair struct {
	Key   string
	Value string
}

// Record is the parsed content of one descriptor file.
// The zero value is an empty record ready for use.
type Record struct {
	pairs []Pair
	first map[string]int // key -> index of first occurrence in pairs
}

// Parse reads descriptor entries from r. Blank lines are skipped.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		key, value, ok := splitLine(sc.Text())
		if !ok {
			continue
		}
		rec.Add(key, value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReadFile parses the descriptor at path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rec, nil
}

// ReadDir parses the descriptor of directory dir.
func ReadDir(dir string) (*Record, error) {
	return ReadFile(Path(dir))
}

// Path returns the descriptor path of directory dir.
func Path(dir string) string {
	return filepath.Join(dir, DescriptorName)
}

// splitLine splits a descriptor line into key and trimmed value.
// It reports false for lines without a key.
func splitLine(line string) (string, string, bool) {
	line = strings.TrimLeft(line, " \t\r\n\v\f")
	if line == "" {
		return "", "", false
	}
	i := strings.IndexAny(line, " \t\r\n\v\f")
	if i < 0 {
		return line, "", true
	}
	return line[:i], strings.TrimSpace(line[i:]), true
}

// Add appends an entry to the record.
func (r *Record) Add(key, value string) {
	if r.first == nil {
		r.first = make(map[string]int)
	}
	if _, seen := r.first[key]; !seen {
		r.first[key] = len(r.pairs)
	}
	r.pairs = append(r.pairs, Pair{Key: key, Value: value})
}

// Get returns the value of the first entry with the given key.
func (r *Record) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	i, ok := r.first[key]
	if !ok {
		return "", false
	}
	return r.pairs[i].Value, true
}

// Value returns the value of the first entry with the given key, or the
// empty string if the key is absent.
func (r *Record) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Has reports whether the record contains the key at least once.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// All returns the values of every entry with the given key, in file order.
func (r *Record) All(key string) []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, p := range r.pairs {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

// Pairs returns a copy of all entries in file order.
func (r *Record) Pairs() []Pair {
	if r == nil {
		return nil
	}
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Map returns the deduplicated key -> first value mapping.
func (r *Record) Map() map[string]string {
	if r == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(r.first))
	for k, i := range r.first {
		m[k] = r.pairs[i].Value
	}
	return m
}

// Len returns the number of entries, counting repeated keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.pairs)
}
