package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xvector "golang.org/x/image/vector"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/vector"
)

// Result carries a rasterized bitmap together with the scale that was
// actually applied after clamping.
type Result struct {
	Bitmap *Bitmap

	// Scale is the effective asset-units-to-pixels factor. It equals
	// the requested scale unless the size cap forced a reduction.
	Scale float64

	// Clamped reports whether the requested scale was reduced to honor
	// the dimension cap.
	Clamped bool
}

// Rasterize renders a compiled asset at the given scale into a
// premultiplied bitmap. Segments paint in declaration order. When the
// scaled size would exceed maxDim in either dimension the scale is
// reduced, preserving aspect ratio, so the larger dimension lands
// exactly on the cap.
//
// Rasterize is pure: identical inputs produce identical pixels, which
// is what lets the texture cache deduplicate by (asset id, scale).
func Rasterize(a *vector.Asset, scale float64, maxDim int) (Result, error) {
	if scale <= 0 {
		return Result{}, fmt.Errorf("raster: scale %g must be positive", scale)
	}
	if maxDim <= 0 {
		return Result{}, fmt.Errorf("raster: max dimension %d must be positive", maxDim)
	}

	eff := scale
	clamped := false
	if m := math.Max(a.Width, a.Height) * scale; m > float64(maxDim) {
		eff = scale * float64(maxDim) / m
		clamped = true
	}

	w := int(math.Ceil(a.Width * eff))
	h := int(math.Ceil(a.Height * eff))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	bm := NewBitmap(w, h)
	dst := &image.RGBA{Pix: bm.data, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	for i := range a.Segments {
		seg := &a.Segments[i]
		device := vector.Scale(eff, eff).Mul(seg.Transform)
		path := seg.Path.Transform(device)

		if seg.HasFill {
			r := xvector.NewRasterizer(w, h)
			fillPath(r, path)
			drawCoverage(r, dst, seg.Fill, seg.Opacity)
		}
		if seg.HasStroke {
			width := seg.StrokeWidth * eff * seg.Transform.MaxScale()
			r := xvector.NewRasterizer(w, h)
			strokePolylines(r, flattenPath(path), width)
			drawCoverage(r, dst, seg.Stroke, seg.Opacity)
		}
	}
	return Result{Bitmap: bm, Scale: eff, Clamped: clamped}, nil
}

// fillPath feeds path commands straight into the coverage rasterizer,
// which handles Bezier curves natively. An unclosed subpath fills as
// if closed, matching SVG fill semantics.
func fillPath(r *xvector.Rasterizer, p *vector.Path) {
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case vector.MoveTo:
			r.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case vector.LineTo:
			r.LineTo(float32(e.Point.X), float32(e.Point.Y))
		case vector.QuadTo:
			r.QuadTo(
				float32(e.Control.X), float32(e.Control.Y),
				float32(e.Point.X), float32(e.Point.Y),
			)
		case vector.CubicTo:
			r.CubeTo(
				float32(e.Control1.X), float32(e.Control1.Y),
				float32(e.Control2.X), float32(e.Control2.Y),
				float32(e.Point.X), float32(e.Point.Y),
			)
		case vector.Close:
			r.ClosePath()
		}
	}
}

// drawCoverage composites the rasterizer's accumulated coverage over
// dst using a uniform premultiplied source.
func drawCoverage(r *xvector.Rasterizer, dst *image.RGBA, c sprite.Color, opacity float64) {
	a := clamp01(float64(c.A) * opacity)
	src := image.NewUniform(color.RGBA{
		R: uint8(clamp01(float64(c.R))*a*255 + 0.5),
		G: uint8(clamp01(float64(c.G))*a*255 + 0.5),
		B: uint8(clamp01(float64(c.B))*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	})
	r.Draw(dst, dst.Bounds(), src, image.Point{})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
