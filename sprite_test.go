package sprite

import (
	"math"
	"testing"
)

func TestNewSpriteDefaults(t *testing.T) {
	s := New(1, Params{TextureID: "tex", Width: 10, Height: 20})
	if got := s.Opacity(); got != 1 {
		t.Errorf("default opacity = %g, want 1", got)
	}
	if !s.Visible() {
		t.Error("new sprite should be visible")
	}
	if got := s.Tint(); got.Strength != 0 {
		t.Errorf("default tint strength = %g, want 0", got.Strength)
	}
}

func TestModelMatrixComposition(t *testing.T) {
	// A centered anchor with a quarter turn: the unit quad's center
	// must land exactly on the sprite position, corners rotated.
	s := New(1, Params{
		X: 100, Y: 50,
		Width: 40, Height: 20,
		Rotation: float32(math.Pi / 2),
		AnchorX:  0.5, AnchorY: 0.5,
	})
	m := s.ModelMatrix()

	center := m.TransformPoint(V2(0.5, 0.5))
	if !approxEq(center.X, 100) || !approxEq(center.Y, 50) {
		t.Errorf("center maps to %v, want (100, 50)", center)
	}
	// Top-left of the quad (-20, -10 from center) rotates 90° to
	// (10, -20) relative to position.
	tl := m.TransformPoint(V2(0, 0))
	if !approxEq(tl.X, 110) || !approxEq(tl.Y, 30) {
		t.Errorf("top-left maps to %v, want (110, 30)", tl)
	}
}

func TestModelMatrixMemoized(t *testing.T) {
	s := New(1, Params{X: 5, Y: 5, Width: 10, Height: 10})
	m1 := s.ModelMatrix()
	m2 := s.ModelMatrix()
	if m1 != m2 {
		t.Error("repeated ModelMatrix calls should return identical matrices")
	}

	s.SetPosition(6, 5)
	m3 := s.ModelMatrix()
	if m3 == m1 {
		t.Error("ModelMatrix should change after SetPosition")
	}

	// Identical transform state must always produce identical output.
	s.SetPosition(5, 5)
	if got := s.ModelMatrix(); got != m1 {
		t.Errorf("matrix after position round trip = %v, want %v", got, m1)
	}
}

func TestModelMatrixInvalidation(t *testing.T) {
	base := New(1, Params{X: 1, Y: 2, Width: 3, Height: 4})
	ref := base.ModelMatrix()

	tests := []struct {
		name   string
		mutate func(*Sprite)
	}{
		{"position", func(s *Sprite) { s.SetPosition(9, 9) }},
		{"size", func(s *Sprite) { s.SetSize(9, 9) }},
		{"rotation", func(s *Sprite) { s.SetRotation(1) }},
		{"anchor", func(s *Sprite) { s.SetAnchor(0.5, 0.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(1, Params{X: 1, Y: 2, Width: 3, Height: 4})
			s.ModelMatrix()
			tt.mutate(s)
			if got := s.ModelMatrix(); got == ref {
				t.Error("matrix unchanged after transform mutation")
			}
		})
	}
}

func TestSpriteClone(t *testing.T) {
	s := New(1, Params{TextureID: "tex", X: 10, Y: 10, Width: 5, Height: 5, Label: "orig"})
	s.SetAttachmentPoint("tip", V2(5, 0))

	c := s.Clone(2)
	if c.ID() != 2 {
		t.Errorf("clone id = %d, want 2", c.ID())
	}
	if c.TextureID() != "tex" || c.Label() != "orig" {
		t.Error("clone should copy texture id and label")
	}

	// No shared mutable state: mutating either side must not leak.
	c.SetPosition(99, 99)
	if p := s.Position(); p.X != 10 {
		t.Error("mutating clone moved the original")
	}
	c.SetAttachmentPoint("tip", V2(0, 0))
	if p, _ := s.AttachmentPoint("tip"); p.X != 5 {
		t.Error("clone shares attachment point map with original")
	}
}

func TestAttachmentPoints(t *testing.T) {
	s := New(1, Params{Width: 10, Height: 10})
	if _, ok := s.AttachmentPoint("missing"); ok {
		t.Error("lookup of unset point should report not found")
	}
	s.SetAttachmentPoint("east", V2(10, 5))
	p, ok := s.AttachmentPoint("east")
	if !ok || p != V2(10, 5) {
		t.Errorf("AttachmentPoint = %v, %v; want (10,5), true", p, ok)
	}
}

func TestIDAllocatorStrictlyIncreasing(t *testing.T) {
	alloc := NewIDAllocator()
	prev := NoID
	for i := 0; i < 100; i++ {
		id := alloc.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}
