// Package nodelink renders test hierarchies as node-link diagrams.
//
// # Overview
//
// The diagram shows the tree a comparison is drawn from, after any pivots:
// collections as boxes, leaf-sets highlighted, empty collections dashed.
// It is the quickest way to check that a pivot regrouped the tree as
// intended before rendering the full comparison.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Layout: l})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With [Options].Detailed every test case becomes its own node; otherwise
// leaf-sets list their test case count and, given a layout, their x offset
// and width.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
