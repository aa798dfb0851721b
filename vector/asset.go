package vector

import (
	"fmt"

	"github.com/gogpu/sprite"
)

// SegmentDef is the declarative form of one drawable segment, as an
// asset author writes it: raw path data and attribute strings.
type SegmentDef struct {
	// Geometry is SVG path data ("M 0 0 L 10 10 Z").
	Geometry string

	// Fill and Stroke are hex colors ("#rrggbb", "#rrggbbaa", "#rgb"),
	// "none", or empty. An empty Fill with an empty Stroke makes the
	// segment invisible but still valid.
	Fill   string
	Stroke string

	// StrokeWidth in asset units; 0 means 1. Ignored when Stroke is
	// unset.
	StrokeWidth float64

	// Opacity in [0,1] applies to this segment only; 0 means 1.
	Opacity float64

	// Transform, if non-nil, maps the segment's geometry within the
	// asset's coordinate space before rasterization.
	Transform *Affine
}

// AssetDef is the declarative form of a complete asset.
type AssetDef struct {
	// Width, Height define the asset's intrinsic coordinate space.
	Width, Height float64

	// Segments paint in declaration order, first at the bottom.
	Segments []SegmentDef
}

// Segment is a compiled segment: parsed geometry and resolved paints.
type Segment struct {
	Path *Path

	Fill      sprite.Color
	HasFill   bool
	Stroke    sprite.Color
	HasStroke bool

	StrokeWidth float64
	Opacity     float64
	Transform   Affine
}

// Asset is a compiled, resolution-independent drawable. Compile once,
// rasterize at any scale.
type Asset struct {
	Width, Height float64
	Segments      []Segment
}

// Compile parses and validates an asset definition. A segment whose
// geometry does not parse is dropped with a warning and the rest of
// the asset still renders; attribute errors (paints, stroke width,
// opacity) abort compilation and identify the failing segment by
// index.
func Compile(def AssetDef) (*Asset, error) {
	if def.Width <= 0 || def.Height <= 0 {
		return nil, fmt.Errorf("asset: intrinsic size %gx%g must be positive", def.Width, def.Height)
	}
	a := &Asset{
		Width:    def.Width,
		Height:   def.Height,
		Segments: make([]Segment, 0, len(def.Segments)),
	}
	for i, sd := range def.Segments {
		path, err := ParsePath(sd.Geometry)
		if err != nil {
			sprite.Logger().Warn("skipping segment with malformed geometry",
				"segment", i, "error", err)
			continue
		}
		seg, err := compileSegment(sd, path)
		if err != nil {
			return nil, fmt.Errorf("asset: segment %d: %w", i, err)
		}
		a.Segments = append(a.Segments, seg)
	}
	return a, nil
}

func compileSegment(sd SegmentDef, path *Path) (Segment, error) {
	fill, hasFill, err := ParsePaint(sd.Fill)
	if err != nil {
		return Segment{}, fmt.Errorf("fill: %w", err)
	}
	stroke, hasStroke, err := ParsePaint(sd.Stroke)
	if err != nil {
		return Segment{}, fmt.Errorf("stroke: %w", err)
	}
	width := sd.StrokeWidth
	if hasStroke && width == 0 {
		width = 1
	}
	if hasStroke && width < 0 {
		return Segment{}, fmt.Errorf("stroke width %g must be positive", width)
	}
	opacity := sd.Opacity
	if opacity == 0 {
		opacity = 1
	}
	if opacity < 0 || opacity > 1 {
		return Segment{}, fmt.Errorf("opacity %g out of range [0,1]", opacity)
	}
	tr := Identity()
	if sd.Transform != nil {
		tr = *sd.Transform
	}
	return Segment{
		Path:        path,
		Fill:        fill,
		HasFill:     hasFill,
		Stroke:      stroke,
		HasStroke:   hasStroke,
		StrokeWidth: width,
		Opacity:     opacity,
		Transform:   tr,
	}, nil
}
