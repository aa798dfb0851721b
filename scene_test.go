package sprite

import "testing"

func ids(sprites []*Sprite) []ID {
	out := make([]ID, len(sprites))
	for i, s := range sprites {
		out[i] = s.ID()
	}
	return out
}

func idsEqual(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortedSpritesOrder(t *testing.T) {
	sc := NewScene()
	alloc := NewIDAllocator()

	add := func(z int) ID {
		s := New(alloc.Next(), Params{ZIndex: z, Width: 1, Height: 1})
		sc.Add(s)
		return s.ID()
	}
	a := add(5)
	b := add(1)
	c := add(5) // same z as a, added later
	d := add(-2)

	got := ids(sc.SortedSprites())
	want := []ID{d, b, a, c}
	if !idsEqual(got, want) {
		t.Errorf("sorted order = %v, want %v", got, want)
	}

	// Equal-z insertion order must survive an unrelated removal.
	sc.Remove(b)
	got = ids(sc.SortedSprites())
	want = []ID{d, a, c}
	if !idsEqual(got, want) {
		t.Errorf("after removal, order = %v, want %v", got, want)
	}
}

func TestRemovalIsPermanent(t *testing.T) {
	sc := NewScene()
	s := New(1, Params{Width: 1, Height: 1})
	sc.Add(s)

	if !sc.Remove(1) {
		t.Fatal("Remove reported sprite absent")
	}
	if sc.Remove(1) {
		t.Error("second Remove should report absent")
	}
	for i := 0; i < 3; i++ {
		if len(sc.SortedSprites()) != 0 {
			t.Fatalf("removed sprite reappeared on draw %d", i)
		}
	}
	if sc.Has(1) || sc.Get(1) != nil {
		t.Error("scene still resolves removed id")
	}
}

func TestSetZIndexReorders(t *testing.T) {
	sc := NewScene()
	a := New(1, Params{ZIndex: 0, Width: 1, Height: 1})
	b := New(2, Params{ZIndex: 1, Width: 1, Height: 1})
	sc.Add(a)
	sc.Add(b)

	if got := ids(sc.SortedSprites()); !idsEqual(got, []ID{1, 2}) {
		t.Fatalf("initial order = %v", got)
	}
	a.SetZIndex(5)
	if got := ids(sc.SortedSprites()); !idsEqual(got, []ID{2, 1}) {
		t.Errorf("order after SetZIndex = %v, want [2 1]", got)
	}
}

func TestSortedSpritesVisibility(t *testing.T) {
	sc := NewScene()
	a := New(1, Params{ZIndex: 0, Width: 1, Height: 1})
	b := New(2, Params{ZIndex: 1, Width: 1, Height: 1})
	sc.Add(a)
	sc.Add(b)

	a.SetVisible(false)
	if got := ids(sc.SortedSprites()); !idsEqual(got, []ID{2}) {
		t.Errorf("hidden sprite still drawn: %v", got)
	}
	a.SetVisible(true)
	if got := ids(sc.SortedSprites()); !idsEqual(got, []ID{1, 2}) {
		t.Errorf("re-shown sprite lost its place: %v", got)
	}
}

func TestSceneDirtyConsumption(t *testing.T) {
	sc := NewScene()
	if !sc.ConsumeDirty() {
		t.Error("new scene should start dirty")
	}
	if sc.ConsumeDirty() {
		t.Error("dirty flag should clear after consumption")
	}

	s := New(1, Params{Width: 1, Height: 1})
	sc.Add(s)
	if !sc.ConsumeDirty() {
		t.Error("Add should mark dirty")
	}

	s.SetPosition(5, 5)
	if !sc.ConsumeDirty() {
		t.Error("SetPosition should mark dirty")
	}
	if sc.ConsumeDirty() {
		t.Error("no change since last consumption")
	}
}

func TestFindByLabel(t *testing.T) {
	sc := NewScene()
	sc.Add(New(1, Params{Label: "enemy", ZIndex: 2, Width: 1, Height: 1}))
	sc.Add(New(2, Params{Label: "enemy", ZIndex: 1, Width: 1, Height: 1}))
	sc.Add(New(3, Params{Label: "player", Width: 1, Height: 1}))

	// First in draw order, not insertion order.
	if got := sc.FindByLabel("enemy"); got == nil || got.ID() != 2 {
		t.Errorf("FindByLabel(enemy) = %v, want sprite 2", got)
	}
	if got := sc.FindByLabel("absent"); got != nil {
		t.Errorf("FindByLabel(absent) = %v, want nil", got)
	}
	if got := sc.FindAll("enemy"); len(got) != 2 {
		t.Errorf("FindAll(enemy) returned %d sprites, want 2", len(got))
	}

	// Hiding a sprite removes it from drawing, not from lookup.
	sc.Get(2).SetVisible(false)
	if got := sc.FindByLabel("enemy"); got == nil || got.ID() != 2 {
		t.Errorf("FindByLabel(enemy) after hide = %v, want sprite 2", got)
	}
}

func TestAttachPlacesChild(t *testing.T) {
	sc := NewScene()
	parent := New(1, Params{X: 100, Y: 100, Width: 40, Height: 20})
	parent.SetAttachmentPoint("east", V2(40, 10))
	child := New(2, Params{Width: 5, Height: 5})
	sc.Add(parent)
	sc.Add(child)

	sc.Attach(1, 2, "east")
	p := child.Position()
	if !approxEq(p.X, 140) || !approxEq(p.Y, 110) {
		t.Errorf("child placed at %v, want (140, 110)", p)
	}

	// Unknown point: logged and skipped, child unmoved.
	sc.Attach(1, 2, "west")
	if q := child.Position(); q != p {
		t.Errorf("child moved by unknown attachment point: %v", q)
	}
}
