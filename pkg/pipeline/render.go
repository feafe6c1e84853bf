package pipeline

import (
	"bytes"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/matzehuels/testplot/pkg/buildinfo"
	perrors "github.com/matzehuels/testplot/pkg/errors"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render/chartpage"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
	"github.com/matzehuels/testplot/pkg/render/preview"
)

// Export is the JSON form of a computed layout.
type Export struct {
	RunID     string         `json:"run_id"`
	Generator buildinfo.Info `json:"generator"`
	Layout    *layout.Layout `json:"layout"`
	Scale     layout.Scale   `json:"scale"`
}

// Script returns the comparison script for l. The PDF output is named
// relative to the script, which the engine runs in its own directory.
func Script(l *layout.Layout, sc layout.Scale, data gnuplot.Data, opts Options) (string, error) {
	c := &gnuplot.Comparison{
		Layout: l,
		Scale:  sc,
		Data:   data,
		Panels: opts.Panels,
		Font:   opts.Font,
	}
	return c.Script(filepath.Base(opts.OutputPath(FormatPDF)))
}

// RenderArtifacts produces every requested format except PDF, which needs
// the engine.
func RenderArtifacts(runID, script string, l *layout.Layout, sc layout.Scale, data gnuplot.Data, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			out []byte
			err error
		)
		switch format {
		case FormatGPI:
			out = []byte(script)
		case FormatHTML:
			var buf bytes.Buffer
			page := &chartpage.Page{Layout: l, Data: data, Panels: opts.Panels}
			err = page.Render(&buf)
			out = buf.Bytes()
		case FormatSVG:
			out, err = preview.Render(l, preview.Options{})
		case FormatJSON:
			out, err = json.MarshalIndent(Export{RunID: runID, Generator: buildinfo.Get(), Layout: l, Scale: sc}, "", "  ")
			if err != nil {
				err = perrors.Wrap(perrors.ErrCodeInternal, err, "encode layout")
			}
		case FormatPDF:
			continue
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = out
	}
	return artifacts, nil
}
