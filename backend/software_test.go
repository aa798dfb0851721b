package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/raster"
)

func testConfig() sprite.Config {
	cfg := sprite.DefaultConfig()
	cfg.Width = 64
	cfg.Height = 64
	cfg.Backend = BackendSoftware
	return cfg
}

func initSoftware(t *testing.T) *Software {
	t.Helper()
	s := NewSoftware()
	if err := s.Init(testConfig()); err != nil {
		t.Fatal(err)
	}
	return s
}

// solidBitmap returns a 4x4 premultiplied bitmap of one color.
func solidBitmap(r, g, b, a uint8) *raster.Bitmap {
	bm := raster.NewBitmap(4, 4)
	data := bm.Data()
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = r, g, b, a
	}
	return bm
}

// quadAt maps the unit quad onto a w x h rectangle at (x, y).
func quadAt(x, y, w, h float32) sprite.Mat4 {
	return sprite.TranslateMat4(x, y, 0).Mul(sprite.ScaleMat4(w, h, 1))
}

func TestSoftwareFrameLifecycle(t *testing.T) {
	s := NewSoftware()
	if err := s.BeginFrame(0, sprite.Transparent); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("BeginFrame before Init = %v, want ErrNotInitialized", err)
	}

	if err := s.Init(testConfig()); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(DrawCommand{}); !errors.Is(err, ErrFrameNotStarted) {
		t.Errorf("Draw outside frame = %v, want ErrFrameNotStarted", err)
	}
	if err := s.EndFrame(); !errors.Is(err, ErrFrameNotStarted) {
		t.Errorf("EndFrame outside frame = %v, want ErrFrameNotStarted", err)
	}

	if err := s.BeginFrame(0, sprite.Transparent); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginFrame(0, sprite.Transparent); !errors.Is(err, ErrFrameInProgress) {
		t.Errorf("nested BeginFrame = %v, want ErrFrameInProgress", err)
	}
	if err := s.EndFrame(); err != nil {
		t.Fatal(err)
	}
}

func TestSoftwareClear(t *testing.T) {
	s := initSoftware(t)
	if err := s.BeginFrame(0, sprite.RGB(1, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.EndFrame(); err != nil {
		t.Fatal(err)
	}
	img, err := s.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	px := img.Pix[:4]
	if px[0] != 255 || px[1] != 0 || px[2] != 0 || px[3] != 255 {
		t.Errorf("cleared pixel = %v, want opaque red", px)
	}
}

func TestSoftwareDrawComposite(t *testing.T) {
	s := initSoftware(t)
	tex, err := s.UploadTexture(solidBitmap(0, 0, 255, 255))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.BeginFrame(0, sprite.RGB(0, 0, 0)); err != nil {
		t.Fatal(err)
	}
	err = s.Draw(DrawCommand{
		SpriteID: 1,
		Texture:  tex,
		Model:    quadAt(16, 16, 32, 32),
		Opacity:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EndFrame(); err != nil {
		t.Fatal(err)
	}

	img, _ := s.ReadPixels()
	// Inside the quad: blue over black.
	i := img.PixOffset(32, 32)
	if img.Pix[i+2] != 255 {
		t.Errorf("inside pixel blue = %d, want 255", img.Pix[i+2])
	}
	// Outside the quad: untouched clear color.
	i = img.PixOffset(2, 2)
	if img.Pix[i+2] != 0 {
		t.Errorf("outside pixel blue = %d, want 0", img.Pix[i+2])
	}
}

func TestSoftwareOpacity(t *testing.T) {
	s := initSoftware(t)
	tex, _ := s.UploadTexture(solidBitmap(255, 255, 255, 255))

	s.BeginFrame(0, sprite.RGB(0, 0, 0))
	s.Draw(DrawCommand{SpriteID: 1, Texture: tex, Model: quadAt(0, 0, 64, 64), Opacity: 0.5})
	s.EndFrame()

	img, _ := s.ReadPixels()
	i := img.PixOffset(32, 32)
	// 0.5*white over opaque black stays ~128 in color, alpha saturates.
	if img.Pix[i] < 120 || img.Pix[i] > 135 {
		t.Errorf("half-opacity pixel = %d, want ~128", img.Pix[i])
	}
	if img.Pix[i+3] != 255 {
		t.Errorf("alpha = %d, want 255 over opaque background", img.Pix[i+3])
	}
}

func TestSoftwareTint(t *testing.T) {
	s := initSoftware(t)
	tex, _ := s.UploadTexture(solidBitmap(255, 255, 255, 255))

	tests := []struct {
		name     string
		tint     sprite.Tint
		wantR    uint8
		wantG    uint8
		tolerant uint8
	}{
		{"no tint", sprite.NoTint, 255, 255, 1},
		{"full red tint", sprite.Tint{R: 1, G: 0, B: 0, Strength: 1}, 255, 0, 1},
		{"half strength", sprite.Tint{R: 1, G: 0, B: 0, Strength: 0.5}, 255, 128, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.BeginFrame(0, sprite.Transparent)
			s.Draw(DrawCommand{SpriteID: 1, Texture: tex, Model: quadAt(0, 0, 64, 64), Opacity: 1, Tint: tt.tint})
			s.EndFrame()

			img, _ := s.ReadPixels()
			i := img.PixOffset(32, 32)
			if diff(img.Pix[i], tt.wantR) > tt.tolerant {
				t.Errorf("red = %d, want ~%d", img.Pix[i], tt.wantR)
			}
			if diff(img.Pix[i+1], tt.wantG) > tt.tolerant {
				t.Errorf("green = %d, want ~%d", img.Pix[i+1], tt.wantG)
			}
		})
	}
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSoftwareSpriteResources(t *testing.T) {
	s := initSoftware(t)
	tex, _ := s.UploadTexture(solidBitmap(255, 0, 0, 255))

	if got := s.SpriteResourceCount(); got != 0 {
		t.Fatalf("initial resource count = %d, want 0", got)
	}

	s.BeginFrame(0, sprite.Transparent)
	for id := sprite.ID(1); id <= 3; id++ {
		s.Draw(DrawCommand{SpriteID: id, Texture: tex, Model: quadAt(0, 0, 8, 8), Opacity: 1})
	}
	s.EndFrame()

	if got := s.SpriteResourceCount(); got != 3 {
		t.Errorf("resource count after 3 sprites = %d, want 3", got)
	}

	// Redrawing the same sprites must not grow the count.
	s.BeginFrame(0, sprite.Transparent)
	for id := sprite.ID(1); id <= 3; id++ {
		s.Draw(DrawCommand{SpriteID: id, Texture: tex, Model: quadAt(0, 0, 8, 8), Opacity: 1})
	}
	s.EndFrame()
	if got := s.SpriteResourceCount(); got != 3 {
		t.Errorf("resource count after redraw = %d, want 3", got)
	}

	s.ReleaseSpriteResources(2)
	if got := s.SpriteResourceCount(); got != 2 {
		t.Errorf("resource count after release = %d, want 2", got)
	}
	// Releasing an unknown id is a no-op.
	s.ReleaseSpriteResources(99)
	if got := s.SpriteResourceCount(); got != 2 {
		t.Errorf("resource count after bogus release = %d, want 2", got)
	}
}

func TestSoftwareReleasedTexture(t *testing.T) {
	s := initSoftware(t)
	tex, _ := s.UploadTexture(solidBitmap(255, 0, 0, 255))
	s.ReleaseTexture(tex)

	s.BeginFrame(0, sprite.Transparent)
	err := s.Draw(DrawCommand{SpriteID: 1, Texture: tex, Model: quadAt(0, 0, 8, 8), Opacity: 1})
	if !errors.Is(err, ErrTextureReleased) {
		t.Errorf("draw with released texture = %v, want ErrTextureReleased", err)
	}
	s.EndFrame()
}

func TestSoftwareResize(t *testing.T) {
	s := initSoftware(t)
	if err := s.Resize(128, 32); err != nil {
		t.Fatal(err)
	}
	s.BeginFrame(0, sprite.RGB(0, 1, 0))
	s.EndFrame()
	img, err := s.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 32 {
		t.Errorf("resized target = %dx%d, want 128x32", b.Dx(), b.Dy())
	}
	if err := s.Resize(0, 10); err == nil {
		t.Error("resize to zero width should error")
	}
}

func TestSoftwareResizeIsLogical(t *testing.T) {
	cfg := testConfig()
	cfg.DeviceScale = 2
	s := NewSoftware()
	if err := s.Init(cfg); err != nil {
		t.Fatal(err)
	}
	// Resize takes points; at 2x scale a 32-point target is 64 pixels.
	if err := s.Resize(32, 32); err != nil {
		t.Fatal(err)
	}
	tex, _ := s.UploadTexture(solidBitmap(255, 255, 255, 255))
	s.BeginFrame(0, sprite.Transparent)
	s.Draw(DrawCommand{SpriteID: 1, Texture: tex, Model: quadAt(0, 0, 16, 16), Opacity: 1})
	s.EndFrame()

	img, err := s.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("resized target = %dx%d, want 64x64", b.Dx(), b.Dy())
	}
	if i := img.PixOffset(30, 30); img.Pix[i+3] == 0 {
		t.Error("pixel (30,30) should be covered at 2x scale")
	}
	if i := img.PixOffset(40, 40); img.Pix[i+3] != 0 {
		t.Error("pixel (40,40) should be outside the scaled quad")
	}
}

func TestSoftwareDeviceScale(t *testing.T) {
	cfg := testConfig()
	cfg.DeviceScale = 2
	s := NewSoftware()
	if err := s.Init(cfg); err != nil {
		t.Fatal(err)
	}
	tex, _ := s.UploadTexture(solidBitmap(255, 255, 255, 255))

	// A 32-point quad at the origin covers 64 physical pixels.
	s.BeginFrame(0, sprite.Transparent)
	s.Draw(DrawCommand{SpriteID: 1, Texture: tex, Model: quadAt(0, 0, 32, 32), Opacity: 1})
	s.EndFrame()

	img, _ := s.ReadPixels()
	if b := img.Bounds(); b.Dx() != 128 {
		t.Fatalf("physical width = %d, want 128", b.Dx())
	}
	if i := img.PixOffset(60, 60); img.Pix[i+3] == 0 {
		t.Error("pixel (60,60) should be covered at 2x scale")
	}
	if i := img.PixOffset(70, 70); img.Pix[i+3] != 0 {
		t.Error("pixel (70,70) should be outside the scaled quad")
	}
}
