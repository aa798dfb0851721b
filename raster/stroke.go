package raster

import (
	"math"

	xvector "golang.org/x/image/vector"

	"github.com/gogpu/sprite/vector"
)

// diskSides is the polygon approximation used for round caps and
// joins. 16 sides keeps the radial error under a third of a pixel for
// strokes up to ~40px wide.
const diskSides = 16

// strokePolylines feeds the outline of a stroked path into the
// coverage rasterizer as filled geometry: one quad per segment plus a
// disk at every vertex, all with consistent winding so overlaps
// accumulate instead of cancelling. The result is round caps and round
// joins without any joint-classification logic.
func strokePolylines(r *xvector.Rasterizer, lines []polyline, width float64) {
	hw := width / 2
	if hw <= 0 {
		return
	}
	for _, pl := range lines {
		pts := pl.points
		if pl.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		if len(pts) < 2 {
			// Isolated point: a dot with round caps is a disk.
			if len(pts) == 1 {
				emitDisk(r, pts[0], hw)
			}
			continue
		}
		for i := 0; i+1 < len(pts); i++ {
			emitSegmentQuad(r, pts[i], pts[i+1], hw)
		}
		for _, p := range pts {
			emitDisk(r, p, hw)
		}
	}
}

func emitSegmentQuad(r *xvector.Rasterizer, p0, p1 vector.Point, hw float64) {
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	// Unit normal; the quad corner order keeps winding orientation
	// independent of segment direction.
	nx, ny := dy/l*hw, -dx/l*hw
	r.MoveTo(float32(p0.X+nx), float32(p0.Y+ny))
	r.LineTo(float32(p1.X+nx), float32(p1.Y+ny))
	r.LineTo(float32(p1.X-nx), float32(p1.Y-ny))
	r.LineTo(float32(p0.X-nx), float32(p0.Y-ny))
	r.ClosePath()
}

func emitDisk(r *xvector.Rasterizer, c vector.Point, radius float64) {
	for i := 0; i <= diskSides; i++ {
		a := 2 * math.Pi * float64(i) / diskSides
		x := float32(c.X + radius*math.Cos(a))
		y := float32(c.Y + radius*math.Sin(a))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}
