package vector

import (
	"fmt"
	"strconv"

	"github.com/gogpu/sprite"
)

// ParsePaint resolves a fill or stroke attribute. It accepts hex colors
// in #RGB, #RRGGBB and #RRGGBBAA form, plus "none" and "" for no paint.
// painted is false when the attribute disables the paint entirely.
func ParsePaint(s string) (c sprite.Color, painted bool, err error) {
	if s == "" || s == "none" {
		return sprite.Transparent, false, nil
	}
	if s[0] != '#' {
		return sprite.Transparent, false, fmt.Errorf("paint: unsupported value %q", s)
	}
	hex := s[1:]
	var r, g, b, a uint8
	a = 0xff
	switch len(hex) {
	case 3:
		var v uint64
		v, err = strconv.ParseUint(hex, 16, 16)
		if err == nil {
			r = uint8((v >> 8 & 0xf) * 0x11)
			g = uint8((v >> 4 & 0xf) * 0x11)
			b = uint8((v & 0xf) * 0x11)
		}
	case 6:
		var v uint64
		v, err = strconv.ParseUint(hex, 16, 32)
		if err == nil {
			r = uint8(v >> 16)
			g = uint8(v >> 8)
			b = uint8(v)
		}
	case 8:
		var v uint64
		v, err = strconv.ParseUint(hex, 16, 64)
		if err == nil {
			r = uint8(v >> 24)
			g = uint8(v >> 16)
			b = uint8(v >> 8)
			a = uint8(v)
		}
	default:
		err = fmt.Errorf("paint: bad hex length in %q", s)
	}
	if err != nil {
		return sprite.Transparent, false, fmt.Errorf("paint: cannot parse %q: %w", s, err)
	}
	return sprite.RGBA(
		float32(r)/255,
		float32(g)/255,
		float32(b)/255,
		float32(a)/255,
	), true, nil
}
