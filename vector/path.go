package vector

// Point is a 2D point in asset space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// PathElement is one drawing command within a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a straight line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath back to its starting point.
type Close struct{}

func (Close) isPathElement() {}

// Path is an ordered sequence of drawing commands. Paths are built by
// the parser or programmatically via the builder methods.
type Path struct {
	elements []PathElement
	start    Point
	current  Point
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{elements: make([]PathElement, 0, 16)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier with control (cx, cy) ending at
// (x, y).
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier with controls (c1x, c1y), (c2x, c2y)
// ending at (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	p.current = Pt(x, y)
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the path's commands in order. The slice is owned by
// the path; callers must not modify it.
func (p *Path) Elements() []PathElement { return p.elements }

// Empty reports whether the path has no commands.
func (p *Path) Empty() bool { return len(p.elements) == 0 }

// Transform returns a copy of the path with every coordinate mapped
// through t. The original is unchanged.
func (p *Path) Transform(t Affine) *Path {
	if t.IsIdentity() {
		return p
	}
	out := &Path{elements: make([]PathElement, 0, len(p.elements))}
	tp := func(pt Point) Point {
		x, y := t.Apply(pt.X, pt.Y)
		return Pt(x, y)
	}
	for _, el := range p.elements {
		switch e := el.(type) {
		case MoveTo:
			out.elements = append(out.elements, MoveTo{Point: tp(e.Point)})
		case LineTo:
			out.elements = append(out.elements, LineTo{Point: tp(e.Point)})
		case QuadTo:
			out.elements = append(out.elements, QuadTo{Control: tp(e.Control), Point: tp(e.Point)})
		case CubicTo:
			out.elements = append(out.elements, CubicTo{
				Control1: tp(e.Control1),
				Control2: tp(e.Control2),
				Point:    tp(e.Point),
			})
		case Close:
			out.elements = append(out.elements, Close{})
		}
	}
	return out
}
