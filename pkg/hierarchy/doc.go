// Package hierarchy models a tree of network-test results and builds it from
// disk.
//
// # Overview
//
// A test hierarchy is an ordered tree of two node kinds:
//
//   - Collections are named groups (title, optional subtitle) of child nodes.
//   - Test cases reference a single result directory produced by one test run.
//
// Siblings are homogeneous: a collection holds either only test cases or
// only sub-collections. A collection holding test cases is a leaf-set; it is
// the unit that gets plotted as one cluster of columns. [Node.Validate]
// enforces the invariant and [Node.IsLeafSet] is decided from the node's own
// kind, never from the caller's context.
//
// # Building
//
// [FromDir] walks a directory tree in which every directory contains a
// descriptor file (see package metadata):
//
//	type collection
//	title Testing cubic vs different flows
//	sub flows-1
//	sub flows-2
//
// Collections (type `collection` or `set`) list their children with `sub`
// entries, in order. Test case directories have type `test` and may carry an
// `xaxislabel`; the first one found becomes the root's XLabel.
//
// [FromSpec] builds the same tree from an explicit nested [Spec] (loaded with
// [LoadSpecFile] from TOML or YAML) whose leaves name folders; the test cases
// of each folder are found by [Discover]. [Compare] wraps a flat list of test
// cases into a single leaf-set.
//
// All builders report malformed input as STRUCTURE_ERROR (see package
// errors) carrying the offending path.
package hierarchy
