package layout

import "math"

// Defaults for [ScaleOptions].
const (
	DefaultHeightCM   = 22.0
	DefaultMinWidthCM = 21.0
	DefaultCMPerUnit  = 0.35
)

// Presentation constants.
const (
	baseLabelFont   = 9.0
	baseXticFont    = 10.0
	minFont         = 4.0
	labelRowOffset  = 1.05 // graph y of the innermost label row
	labelRowStep    = 0.06 // graph y between label rows
	subtitleMargin  = 0.8
	leftMargin      = 13.0
	xPadBefore      = 2.0
	xPadAfter       = 1.0
	fontShrinkStart = 15.0
	fontShrinkRate  = 18.0
)

// ScaleOptions configure canvas sizing.
type ScaleOptions struct {
	HeightCM   float64
	MinWidthCM float64
	CMPerUnit  float64
}

// SetDefaults fills zero fields with the package defaults.
func (o *ScaleOptions) SetDefaults() {
	if o.HeightCM <= 0 {
		o.HeightCM = DefaultHeightCM
	}
	if o.MinWidthCM <= 0 {
		o.MinWidthCM = DefaultMinWidthCM
	}
	if o.CMPerUnit <= 0 {
		o.CMPerUnit = DefaultCMPerUnit
	}
}

// Scale holds the presentation parameters derived from a layout.
type Scale struct {
	XMin       float64 `json:"xmin"`
	XMax       float64 `json:"xmax"`
	WidthCM    float64 `json:"width_cm"`
	HeightCM   float64 `json:"height_cm"`
	XticFont   float64 `json:"xtic_font"`
	TopMargin  float64 `json:"top_margin"`
	LeftMargin float64 `json:"left_margin"`

	maxDepth   int
	totalNodes int
}

// Scale derives canvas size, axis range, margins and font sizes. The canvas
// grows with the consumed x units; fonts shrink as the node count grows.
func (l *Layout) Scale(opts ScaleOptions) Scale {
	opts.SetDefaults()
	s := Scale{
		XMin:       -xPadBefore,
		XMax:       float64(l.Span) + xPadAfter,
		WidthCM:    math.Max(opts.MinWidthCM, opts.CMPerUnit*float64(l.End)),
		HeightCM:   opts.HeightCM,
		XticFont:   clampFont(math.Min(baseXticFont, shrink(l.Counts.TotalNodes))),
		TopMargin:  float64(l.Counts.MaxDepth) + 2,
		LeftMargin: leftMargin,
		maxDepth:   l.Counts.MaxDepth,
		totalNodes: l.Counts.TotalNodes,
	}
	if l.Subtitle != "" {
		s.TopMargin += subtitleMargin
	}
	return s
}

// LabelFont returns the font size of a group label at depth.
func (s Scale) LabelFont(depth int) float64 {
	if depth > 1 {
		return clampFont(math.Min(baseLabelFont, shrink(s.totalNodes)))
	}
	return baseLabelFont
}

// LabelY returns the graph y coordinate of the label row at depth. Outer
// groups sit above inner ones.
func (s Scale) LabelY(depth int) float64 {
	return labelRowOffset + labelRowStep*float64(s.maxDepth-depth-1)
}

func shrink(nodes int) float64 {
	return fontShrinkStart - float64(nodes)/fontShrinkRate
}

func clampFont(v float64) float64 {
	return math.Max(minFont, v)
}
