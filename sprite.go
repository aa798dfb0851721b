package sprite

// Params describes a sprite at construction time. Zero values are
// replaced with sensible defaults: Opacity 1, Visible true, no tint.
type Params struct {
	// TextureID names the texture this sprite samples. It is a weak,
	// non-owning reference into the texture cache; a sprite whose id has
	// no cache entry yet is drawable-but-skipped, never an error.
	TextureID string

	X, Y          float32
	Width, Height float32

	// Rotation in radians about the anchor point.
	Rotation float32

	// ZIndex is the draw-order key. Sprites render back-to-front by
	// non-decreasing ZIndex.
	ZIndex int

	// Opacity in [0,1]. 0 in Params means "default" and becomes 1;
	// use Sprite.SetOpacity for a genuinely invisible sprite.
	Opacity float32

	Tint Tint

	// AnchorX, AnchorY position the transform origin within the quad as
	// fractions of its size: (0,0) top-left, (0.5,0.5) center.
	AnchorX, AnchorY float32

	// Label is an optional caller-defined tag for Scene.FindByLabel.
	Label string
}

// Sprite is a transformable, textured quad. It is pure transform data
// plus a memoized model matrix; all pixels come from the texture the
// TextureID resolves to at draw time.
//
// A Sprite belongs to at most one Scene. Mutating it from a goroutine
// other than the render loop's is a data race.
type Sprite struct {
	id        ID
	textureID string

	x, y          float32
	width, height float32
	rotation      float32
	zIndex        int
	opacity       float32
	tint          Tint
	anchorX       float32
	anchorY       float32
	visible       bool
	label         string

	// attachPoints are named offsets (in the sprite's own coordinate
	// space) that other sprites can be attached to via Scene.Attach.
	attachPoints map[string]Vec2

	model       Mat4
	matrixDirty bool

	// scene is the owning Scene, nil while detached. Set by Scene.Add so
	// zIndex mutations can invalidate the scene's sort cache.
	scene *Scene

	// seq is the insertion-order key within the owning scene, used as
	// the stable tie-break for equal zIndex values.
	seq uint64
}

// New constructs a sprite with the given id and parameters.
// The id must come from an IDAllocator (or otherwise be unique within
// the process).
func New(id ID, p Params) *Sprite {
	if p.Opacity == 0 {
		p.Opacity = 1
	}
	return &Sprite{
		id:          id,
		textureID:   p.TextureID,
		x:           p.X,
		y:           p.Y,
		width:       p.Width,
		height:      p.Height,
		rotation:    p.Rotation,
		zIndex:      p.ZIndex,
		opacity:     p.Opacity,
		tint:        p.Tint,
		anchorX:     p.AnchorX,
		anchorY:     p.AnchorY,
		visible:     true,
		label:       p.Label,
		matrixDirty: true,
	}
}

// ID returns the sprite's unique id.
func (s *Sprite) ID() ID { return s.id }

// TextureID returns the weak texture reference.
func (s *Sprite) TextureID() string { return s.textureID }

// SetTextureID repoints the sprite at a different texture.
func (s *Sprite) SetTextureID(id string) {
	s.textureID = id
	s.markSceneDirty()
}

// Position returns the sprite's anchor position.
func (s *Sprite) Position() Vec2 { return Vec2{X: s.x, Y: s.y} }

// SetPosition moves the sprite. Invalidates the model matrix but not
// the owning scene's sort cache; draw order depends only on zIndex.
func (s *Sprite) SetPosition(x, y float32) {
	s.x, s.y = x, y
	s.matrixDirty = true
	s.markSceneDirty()
}

// Size returns the quad dimensions.
func (s *Sprite) Size() (w, h float32) { return s.width, s.height }

// SetSize resizes the quad. Invalidates the model matrix.
func (s *Sprite) SetSize(w, h float32) {
	s.width, s.height = w, h
	s.matrixDirty = true
	s.markSceneDirty()
}

// Rotation returns the rotation in radians.
func (s *Sprite) Rotation() float32 { return s.rotation }

// SetRotation rotates the sprite about its anchor. Invalidates the
// model matrix.
func (s *Sprite) SetRotation(r float32) {
	s.rotation = r
	s.matrixDirty = true
	s.markSceneDirty()
}

// ZIndex returns the draw-order key.
func (s *Sprite) ZIndex() int { return s.zIndex }

// SetZIndex changes the draw-order key. This is the one transform-free
// mutation that invalidates the owning scene's sort cache.
func (s *Sprite) SetZIndex(z int) {
	if s.zIndex == z {
		return
	}
	s.zIndex = z
	if s.scene != nil {
		s.scene.markSortDirty()
		s.scene.MarkDirty()
	}
}

// Opacity returns the sprite-level opacity in [0,1].
func (s *Sprite) Opacity() float32 { return s.opacity }

// SetOpacity sets the sprite-level opacity. It multiplies texture alpha
// at composite time and is independent of any per-segment opacity baked
// into the texture.
func (s *Sprite) SetOpacity(o float32) {
	s.opacity = o
	s.markSceneDirty()
}

// Tint returns the color modulation settings.
func (s *Sprite) Tint() Tint { return s.tint }

// SetTint sets the color modulation settings.
func (s *Sprite) SetTint(t Tint) {
	s.tint = t
	s.markSceneDirty()
}

// Anchor returns the anchor fractions.
func (s *Sprite) Anchor() (ax, ay float32) { return s.anchorX, s.anchorY }

// SetAnchor sets the transform origin as fractions of the quad size.
// Invalidates the model matrix.
func (s *Sprite) SetAnchor(ax, ay float32) {
	s.anchorX, s.anchorY = ax, ay
	s.matrixDirty = true
	s.markSceneDirty()
}

// Visible reports whether the sprite participates in rendering.
func (s *Sprite) Visible() bool { return s.visible }

// SetVisible shows or hides the sprite. Hidden sprites are excluded
// from Scene.SortedSprites but keep their place in the sort cache.
func (s *Sprite) SetVisible(v bool) {
	if s.visible == v {
		return
	}
	s.visible = v
	s.markSceneDirty()
}

// Label returns the caller-defined tag.
func (s *Sprite) Label() string { return s.label }

// SetAttachmentPoint registers a named offset, in the sprite's own
// (pre-transform) coordinate space, that children can attach to.
func (s *Sprite) SetAttachmentPoint(name string, offset Vec2) {
	if s.attachPoints == nil {
		s.attachPoints = make(map[string]Vec2)
	}
	s.attachPoints[name] = offset
}

// AttachmentPoint looks up a named attachment offset.
func (s *Sprite) AttachmentPoint(name string) (Vec2, bool) {
	p, ok := s.attachPoints[name]
	return p, ok
}

// ModelMatrix returns the sprite's model transform, recomputing it only
// if a transform mutator ran since the last call. The composition is
//
//	Translate(position) · RotateZ(rotation) · Translate(-anchor·size) · Scale(size)
//
// which maps the unit quad [0,1]² onto the placed, rotated rectangle.
func (s *Sprite) ModelMatrix() Mat4 {
	if s.matrixDirty {
		t := TranslateMat4(s.x, s.y, 0)
		r := RotateZMat4(s.rotation)
		a := TranslateMat4(-s.anchorX*s.width, -s.anchorY*s.height, 0)
		sc := ScaleMat4(s.width, s.height, 1)
		s.model = t.Mul(r).Mul(a).Mul(sc)
		s.matrixDirty = false
	}
	return s.model
}

// Clone returns an independent copy of the sprite under a new id.
// The clone is detached from any scene and shares no mutable state
// with the original.
func (s *Sprite) Clone(newID ID) *Sprite {
	c := *s
	c.id = newID
	c.scene = nil
	c.seq = 0
	c.matrixDirty = true
	if s.attachPoints != nil {
		c.attachPoints = make(map[string]Vec2, len(s.attachPoints))
		for k, v := range s.attachPoints {
			c.attachPoints[k] = v
		}
	}
	return &c
}

// markSceneDirty flags the owning scene for redraw, if attached.
func (s *Sprite) markSceneDirty() {
	if s.scene != nil {
		s.scene.MarkDirty()
	}
}
