package sprite

import "github.com/chewxy/math32"

// Mat4 is a 4x4 transformation matrix in column-major order, the layout
// expected by WebGPU uniform buffers. Element (row r, column c) is at
// index c*4+r.
//
// Sprites only ever need 2D affine transforms, but the full 4x4 form is
// kept so a single matrix type flows unchanged from the CPU through the
// shader.
type Mat4 [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TranslateMat4 returns a translation matrix.
func TranslateMat4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// ScaleMat4 returns a scaling matrix.
func ScaleMat4(x, y, z float32) Mat4 {
	m := Identity4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotateZMat4 returns a rotation matrix about the Z axis.
// The angle is in radians; positive angles rotate clockwise in the
// engine's y-down screen space.
func RotateZMat4(angle float32) Mat4 {
	sin, cos := math32.Sincos(angle)
	m := Identity4()
	m[0] = cos
	m[1] = sin
	m[4] = -sin
	m[5] = cos
	return m
}

// Mul returns the matrix product m * other. Applied to a point, the
// result first applies other, then m.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * other[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies the transform to a 2D point (z=0, w=1).
func (m Mat4) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[4]*p.Y + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[13],
	}
}

// Ortho returns an orthographic projection mapping the axis-aligned box
// [left,right]×[bottom,top]×[near,far] to WebGPU clip space. For the
// engine's y-down 2D coordinates, pass top=0, bottom=height.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rml := right - left
	tmb := top - bottom
	fmn := far - near
	var m Mat4
	m[0] = 2 / rml
	m[5] = 2 / tmb
	m[10] = -1 / fmn
	m[12] = -(right + left) / rml
	m[13] = -(top + bottom) / tmb
	m[14] = -near / fmn
	m[15] = 1
	return m
}

// Invert2D returns the inverse of the 2D affine part of the matrix
// (the upper-left 2x2 block plus the x/y translation), ignoring any z
// component. Returns identity if the transform is degenerate.
//
// The software backend uses this to map framebuffer pixels back into a
// sprite's unit-quad texture space.
func (m Mat4) Invert2D() Mat4 {
	a, b := m[0], m[4]
	c, d := m[1], m[5]
	tx, ty := m[12], m[13]

	det := a*d - b*c
	if math32.Abs(det) < 1e-8 {
		return Identity4()
	}
	inv := 1 / det

	out := Identity4()
	out[0] = d * inv
	out[4] = -b * inv
	out[1] = -c * inv
	out[5] = a * inv
	out[12] = (b*ty - d*tx) * inv
	out[13] = (c*tx - a*ty) * inv
	return out
}
