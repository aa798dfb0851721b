package sprite

import "sort"

// Scene owns a flat set of sprites and hands the renderer a stable,
// z-ordered view of the visible ones.
//
// The sorted view is cached: it is rebuilt only when membership changes
// or a sprite's zIndex changes. Position, rotation, opacity and tint
// mutations never trigger a re-sort.
//
// Scene is not safe for concurrent use; drive it from the render
// goroutine.
type Scene struct {
	sprites map[ID]*Sprite

	// nextSeq hands out insertion-order keys. Strictly increasing for
	// the life of the scene, so equal-zIndex sprites always draw in the
	// order they were added, even across removals.
	nextSeq uint64

	sorted    []*Sprite
	sortDirty bool

	// renderDirty is the frame-skip signal: set on any visible change,
	// consumed once per rendered frame.
	renderDirty bool
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		sprites:     make(map[ID]*Sprite),
		sortDirty:   true,
		renderDirty: true,
	}
}

// Add inserts a sprite into the scene. Adding a sprite whose id is
// already present replaces the previous sprite. A sprite may belong to
// at most one scene at a time.
func (sc *Scene) Add(s *Sprite) {
	if prev, ok := sc.sprites[s.id]; ok && prev != s {
		prev.scene = nil
	}
	s.scene = sc
	sc.nextSeq++
	s.seq = sc.nextSeq
	sc.sprites[s.id] = s
	sc.markSortDirty()
	sc.MarkDirty()
}

// Remove detaches the sprite with the given id. It reports whether a
// sprite was present. Removal is permanent: the sprite appears in no
// subsequent sorted view unless re-added.
func (sc *Scene) Remove(id ID) bool {
	s, ok := sc.sprites[id]
	if !ok {
		return false
	}
	s.scene = nil
	delete(sc.sprites, id)
	sc.markSortDirty()
	sc.MarkDirty()
	return true
}

// Get returns the sprite with the given id, or nil.
func (sc *Scene) Get(id ID) *Sprite { return sc.sprites[id] }

// Has reports whether a sprite with the given id is in the scene.
func (sc *Scene) Has(id ID) bool {
	_, ok := sc.sprites[id]
	return ok
}

// Len returns the number of sprites in the scene, visible or not.
func (sc *Scene) Len() int { return len(sc.sprites) }

// SortedSprites returns the visible sprites in draw order: ascending
// zIndex, insertion order within equal zIndex. The returned slice is
// owned by the scene and valid until the next mutation; callers must
// not modify or retain it across frames.
func (sc *Scene) SortedSprites() []*Sprite {
	sc.sortIfDirty()

	allVisible := true
	for _, s := range sc.sorted {
		if !s.visible {
			allVisible = false
			break
		}
	}
	if allVisible {
		return sc.sorted
	}
	visible := make([]*Sprite, 0, len(sc.sorted))
	for _, s := range sc.sorted {
		if s.visible {
			visible = append(visible, s)
		}
	}
	return visible
}

func (sc *Scene) sortIfDirty() {
	if !sc.sortDirty {
		return
	}
	sc.sorted = sc.sorted[:0]
	for _, s := range sc.sprites {
		sc.sorted = append(sc.sorted, s)
	}
	sort.Slice(sc.sorted, func(i, j int) bool {
		a, b := sc.sorted[i], sc.sorted[j]
		if a.zIndex != b.zIndex {
			return a.zIndex < b.zIndex
		}
		return a.seq < b.seq
	})
	sc.sortDirty = false
}

// FindByLabel returns the first sprite in draw order whose label
// matches, or nil. Hidden sprites are searched too; visibility only
// affects drawing.
func (sc *Scene) FindByLabel(label string) *Sprite {
	sc.sortIfDirty()
	for _, s := range sc.sorted {
		if s.label == label {
			return s
		}
	}
	return nil
}

// FindAll returns every sprite, visible or not, whose label matches.
func (sc *Scene) FindAll(label string) []*Sprite {
	var out []*Sprite
	for _, s := range sc.sprites {
		if s.label == label {
			out = append(out, s)
		}
	}
	return out
}

// Attach positions child at one of parent's named attachment points,
// transformed through the parent's current model matrix. A missing
// point is logged and skipped; the attachment is a one-shot placement,
// not a live constraint.
func (sc *Scene) Attach(parentID, childID ID, point string) {
	parent := sc.sprites[parentID]
	child := sc.sprites[childID]
	if parent == nil || child == nil {
		Logger().Warn("attach: sprite not in scene",
			"parent", uint64(parentID), "child", uint64(childID))
		return
	}
	offset, ok := parent.AttachmentPoint(point)
	if !ok {
		Logger().Warn("attach: unknown attachment point",
			"parent", uint64(parentID), "point", point)
		return
	}
	// Attachment offsets are in the parent's own pixel space; normalize
	// to the unit quad the model matrix maps from.
	u, v := offset.X, offset.Y
	if parent.width != 0 {
		u /= parent.width
	}
	if parent.height != 0 {
		v /= parent.height
	}
	p := parent.ModelMatrix().TransformPoint(V2(u, v))
	child.SetPosition(p.X, p.Y)
}

// MarkDirty flags the scene as needing a redraw.
func (sc *Scene) MarkDirty() { sc.renderDirty = true }

// ConsumeDirty reports whether a redraw is pending and clears the flag.
func (sc *Scene) ConsumeDirty() bool {
	d := sc.renderDirty
	sc.renderDirty = false
	return d
}

func (sc *Scene) markSortDirty() { sc.sortDirty = true }
