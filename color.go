package sprite

import "image/color"

// Color represents a non-premultiplied color with components in [0, 1].
// Components are float32 so colors can be written into GPU uniforms
// without conversion.
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Transparent is fully transparent black.
var Transparent = Color{}

// NRGBA converts the color to 8-bit non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float32) Color {
	c.A *= a
	return c
}

// FromColor converts a standard color.Color.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
		A: float32(a) / 65535,
	}
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Tint modulates a sprite's texture colors. Strength 0 leaves the
// texture unchanged; strength 1 fully multiplies texture RGB by the
// tint RGB. The compositing rule on both backends is:
//
//	out_rgb = mix(tex_rgb, tint_rgb * tex_rgb, strength)
type Tint struct {
	R, G, B  float32
	Strength float32
}

// NoTint is the zero-strength tint.
var NoTint = Tint{R: 1, G: 1, B: 1, Strength: 0}
