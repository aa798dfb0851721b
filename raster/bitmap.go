// Package raster converts compiled vector assets into fixed-size
// premultiplied RGBA bitmaps: fills through a scanline coverage
// rasterizer, strokes by flattening and outlining the path geometry.
package raster

import "image"

// Bitmap is a rectangular pixel buffer holding premultiplied RGBA,
// 4 bytes per pixel, rows top to bottom. Premultiplication is the
// contract with both backends: samples composite with a plain
// source-over without a divide.
type Bitmap struct {
	width  int
	height int
	data   []uint8
}

// NewBitmap returns a zeroed (fully transparent) bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Data returns the raw premultiplied RGBA bytes, row-major.
func (b *Bitmap) Data() []uint8 { return b.data }

// Pixel returns the premultiplied RGBA bytes at (x, y), or zeros when
// out of bounds.
func (b *Bitmap) Pixel(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	i := (y*b.width + x) * 4
	return b.data[i], b.data[i+1], b.data[i+2], b.data[i+3]
}

// ToImage copies the bitmap into an *image.RGBA. The pixel bytes stay
// premultiplied, matching what the upload paths consume. The copy is
// independent: mutating the image does not touch the bitmap.
func (b *Bitmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}
