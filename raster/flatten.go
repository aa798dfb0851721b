package raster

import (
	"math"

	"github.com/gogpu/sprite/vector"
)

// polyline is a flattened subpath in device space.
type polyline struct {
	points []vector.Point
	closed bool
}

// flattenPath converts a device-space path into polylines, subdividing
// curves by control-polygon length so flatness stays uniform at any
// raster scale.
func flattenPath(p *vector.Path) []polyline {
	var out []polyline
	var cur polyline
	var start vector.Point
	var pos vector.Point

	flush := func() {
		if len(cur.points) > 1 {
			out = append(out, cur)
		}
		cur = polyline{}
	}

	for _, el := range p.Elements() {
		switch e := el.(type) {
		case vector.MoveTo:
			flush()
			start = e.Point
			pos = e.Point
			cur.points = append(cur.points, pos)
		case vector.LineTo:
			cur.points = append(cur.points, e.Point)
			pos = e.Point
		case vector.QuadTo:
			n := curveSteps(dist(pos, e.Control) + dist(e.Control, e.Point))
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				cur.points = append(cur.points, quadPoint(pos, e.Control, e.Point, t))
			}
			pos = e.Point
		case vector.CubicTo:
			n := curveSteps(dist(pos, e.Control1) + dist(e.Control1, e.Control2) + dist(e.Control2, e.Point))
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				cur.points = append(cur.points, cubicPoint(pos, e.Control1, e.Control2, e.Point, t))
			}
			pos = e.Point
		case vector.Close:
			if len(cur.points) > 0 {
				cur.closed = true
				flush()
				pos = start
				cur.points = append(cur.points, pos)
			}
		}
	}
	flush()
	return out
}

// curveSteps picks a subdivision count from the control polygon length
// in device pixels.
func curveSteps(length float64) int {
	n := int(math.Ceil(length / 3))
	if n < 4 {
		return 4
	}
	if n > 64 {
		return 64
	}
	return n
}

func quadPoint(p0, c, p1 vector.Point, t float64) vector.Point {
	u := 1 - t
	return vector.Pt(
		u*u*p0.X+2*u*t*c.X+t*t*p1.X,
		u*u*p0.Y+2*u*t*c.Y+t*t*p1.Y,
	)
}

func cubicPoint(p0, c1, c2, p1 vector.Point, t float64) vector.Point {
	u := 1 - t
	return vector.Pt(
		u*u*u*p0.X+3*u*u*t*c1.X+3*u*t*t*c2.X+t*t*t*p1.X,
		u*u*u*p0.Y+3*u*u*t*c1.Y+3*u*t*t*c2.Y+t*t*t*p1.Y,
	)
}

func dist(a, b vector.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
