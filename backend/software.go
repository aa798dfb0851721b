package backend

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/raster"
)

func init() {
	Register(BackendSoftware, func() Backend { return NewSoftware() })
}

// Software is the CPU reference backend. It exists so every host can
// render, and so tests have a deterministic target; its compositing
// rules (premultiplied source-over, bilinear sampling, tint mix,
// opacity multiply) define the behavior the GPU backend must match.
type Software struct {
	width  int
	height int

	// scale maps logical points to framebuffer pixels, matching the
	// GPU backend's projection-over-points plus pixel-sized target.
	scale float32
	fb    *image.RGBA

	initialized bool
	inFrame     bool

	// resources mirrors the GPU backend's per-sprite uniform state so
	// resource accounting behaves identically across backends.
	resources map[sprite.ID]*softwareSpriteState
}

type softwareSpriteState struct {
	model   sprite.Mat4
	inverse sprite.Mat4
	tint    sprite.Tint
	opacity float32
}

type softwareTexture struct {
	width    int
	height   int
	pix      []uint8
	released bool
}

func (t *softwareTexture) Width() int  { return t.width }
func (t *softwareTexture) Height() int { return t.height }

// NewSoftware returns an uninitialized software backend.
func NewSoftware() *Software {
	return &Software{resources: make(map[sprite.ID]*softwareSpriteState)}
}

func (s *Software) Name() string { return BackendSoftware }

// Capable is always true: the CPU path runs anywhere.
func (s *Software) Capable() bool { return true }

func (s *Software) Init(cfg sprite.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w, h := cfg.PhysicalSize()
	s.width, s.height = w, h
	s.scale = cfg.EffectiveScale()
	s.fb = image.NewRGBA(image.Rect(0, 0, w, h))
	s.initialized = true
	sprite.Logger().Debug("software backend initialized", "width", w, "height", h)
	return nil
}

func (s *Software) Resize(width, height int) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("backend: resize to %dx%d: size must be positive", width, height)
	}
	s.width = int(float32(width) * s.scale)
	s.height = int(float32(height) * s.scale)
	s.fb = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	return nil
}

func (s *Software) BeginFrame(_ float64, clear sprite.Color) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if s.inFrame {
		return ErrFrameInProgress
	}
	s.inFrame = true

	// Clear with the premultiplied form so a translucent clear color
	// composites the same way sprites do.
	a := clamp01f(clear.A)
	cr := uint8(clamp01f(clear.R)*a*255 + 0.5)
	cg := uint8(clamp01f(clear.G)*a*255 + 0.5)
	cb := uint8(clamp01f(clear.B)*a*255 + 0.5)
	ca := uint8(a*255 + 0.5)
	pix := s.fb.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = cr, cg, cb, ca
	}
	return nil
}

func (s *Software) Draw(cmd DrawCommand) error {
	if !s.inFrame {
		return ErrFrameNotStarted
	}
	tex, ok := cmd.Texture.(*softwareTexture)
	if !ok || tex == nil {
		return fmt.Errorf("backend: draw sprite %d: nil or foreign texture", cmd.SpriteID)
	}
	if tex.released {
		return fmt.Errorf("backend: draw sprite %d: %w", cmd.SpriteID, ErrTextureReleased)
	}

	st := s.resources[cmd.SpriteID]
	if st == nil {
		st = &softwareSpriteState{}
		s.resources[cmd.SpriteID] = st
	}
	device := sprite.ScaleMat4(s.scale, s.scale, 1).Mul(cmd.Model)
	st.model = device
	st.inverse = device.Invert2D()
	st.tint = cmd.Tint
	st.opacity = cmd.Opacity

	s.compositeQuad(st, tex)
	return nil
}

// compositeQuad walks the quad's bounding box and, for each covered
// pixel center, samples the texture through the inverse model
// transform. This is the exact pixel rule the GPU fragment shader
// implements.
func (s *Software) compositeQuad(st *softwareSpriteState, tex *softwareTexture) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4]sprite.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}} {
		p := st.model.TransformPoint(c)
		minX = math.Min(minX, float64(p.X))
		minY = math.Min(minY, float64(p.Y))
		maxX = math.Max(maxX, float64(p.X))
		maxY = math.Max(maxY, float64(p.Y))
	}
	x0 := maxInt(int(math.Floor(minX)), 0)
	y0 := maxInt(int(math.Floor(minY)), 0)
	x1 := minInt(int(math.Ceil(maxX)), s.width)
	y1 := minInt(int(math.Ceil(maxY)), s.height)

	opacity := clamp01f(st.opacity)
	strength := clamp01f(st.tint.Strength)

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			uv := st.inverse.TransformPoint(sprite.V2(float32(px)+0.5, float32(py)+0.5))
			if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
				continue
			}
			r, g, b, a := sampleBilinear(tex, uv.X, uv.Y)
			if strength > 0 {
				r = mix(r, r*st.tint.R, strength)
				g = mix(g, g*st.tint.G, strength)
				b = mix(b, b*st.tint.B, strength)
			}
			r *= opacity
			g *= opacity
			b *= opacity
			a *= opacity
			i := s.fb.PixOffset(px, py)
			blendPixel(s.fb.Pix[i:i+4:i+4], r, g, b, a)
		}
	}
}

// sampleBilinear reads the texture at normalized (u, v) with bilinear
// filtering and clamp-to-edge addressing, returning premultiplied
// channels in [0,1].
func sampleBilinear(tex *softwareTexture, u, v float32) (r, g, b, a float32) {
	fx := float64(u)*float64(tex.width) - 0.5
	fy := float64(v)*float64(tex.height) - 0.5
	ix := int(math.Floor(fx))
	iy := int(math.Floor(fy))
	tx := float32(fx - float64(ix))
	ty := float32(fy - float64(iy))

	r00, g00, b00, a00 := texelAt(tex, ix, iy)
	r10, g10, b10, a10 := texelAt(tex, ix+1, iy)
	r01, g01, b01, a01 := texelAt(tex, ix, iy+1)
	r11, g11, b11, a11 := texelAt(tex, ix+1, iy+1)

	r = mix(mix(r00, r10, tx), mix(r01, r11, tx), ty)
	g = mix(mix(g00, g10, tx), mix(g01, g11, tx), ty)
	b = mix(mix(b00, b10, tx), mix(b01, b11, tx), ty)
	a = mix(mix(a00, a10, tx), mix(a01, a11, tx), ty)
	return r, g, b, a
}

func texelAt(tex *softwareTexture, x, y int) (r, g, b, a float32) {
	if x < 0 {
		x = 0
	} else if x >= tex.width {
		x = tex.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= tex.height {
		y = tex.height - 1
	}
	i := (y*tex.width + x) * 4
	return float32(tex.pix[i]) / 255,
		float32(tex.pix[i+1]) / 255,
		float32(tex.pix[i+2]) / 255,
		float32(tex.pix[i+3]) / 255
}

// blendPixel composites a premultiplied source over one framebuffer
// pixel.
func blendPixel(dst []uint8, r, g, b, a float32) {
	inv := 1 - a
	dst[0] = satByte(r*255 + float32(dst[0])*inv)
	dst[1] = satByte(g*255 + float32(dst[1])*inv)
	dst[2] = satByte(b*255 + float32(dst[2])*inv)
	dst[3] = satByte(a*255 + float32(dst[3])*inv)
}

func (s *Software) EndFrame() error {
	if !s.inFrame {
		return ErrFrameNotStarted
	}
	s.inFrame = false
	return nil
}

func (s *Software) UploadTexture(bm *raster.Bitmap) (TextureHandle, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	// ToImage copies, so the texture keeps its own pixels even if the
	// caller mutates the bitmap afterwards.
	img := bm.ToImage()
	return &softwareTexture{width: bm.Width(), height: bm.Height(), pix: img.Pix}, nil
}

func (s *Software) ReleaseTexture(h TextureHandle) {
	if tex, ok := h.(*softwareTexture); ok {
		tex.released = true
		tex.pix = nil
	}
}

func (s *Software) ReleaseSpriteResources(id sprite.ID) {
	delete(s.resources, id)
}

func (s *Software) SpriteResourceCount() int { return len(s.resources) }

func (s *Software) ReadPixels() (*image.RGBA, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := image.NewRGBA(s.fb.Rect)
	copy(out.Pix, s.fb.Pix)
	return out, nil
}

func (s *Software) Destroy() {
	s.fb = nil
	s.resources = map[sprite.ID]*softwareSpriteState{}
	s.initialized = false
	s.inFrame = false
}

func mix(a, b, t float32) float32 { return a + (b-a)*t }

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func satByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
