// Package render ties the pieces together: it walks the scene in draw
// order, resolves sprite textures through the cache, and drives the
// selected backend frame by frame.
package render

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/backend"
	"github.com/gogpu/sprite/cache"
)

// ErrDestroyed reports use of a renderer after Destroy.
var ErrDestroyed = errors.New("render: renderer destroyed")

// FrameHook runs once per loop iteration before the frame renders,
// with the delta time in seconds. Animations mutate sprites here.
// While a hook is installed the loop draws every iteration; without
// one it draws only when the scene is dirty.
type FrameHook func(dt float64)

// Renderer owns a scene, a texture cache and a backend. Frames render
// either on demand through Render or continuously through Start/Stop.
//
// All methods other than Stop are confined to the goroutine running
// the loop (or, before Start, the constructing goroutine).
type Renderer struct {
	cfg   sprite.Config
	back  backend.Backend
	cache *cache.TextureCache
	scene *sprite.Scene
	ids   *sprite.IDAllocator

	hook FrameHook

	// redraw collects wake-ups from texture loads completing on other
	// goroutines; the scene's own dirty flag stays loop-confined.
	redraw atomic.Bool

	running  atomic.Bool
	stopCh   chan struct{}
	loopDone sync.WaitGroup

	destroyed bool
}

// New selects and initializes a backend for cfg and returns a renderer
// with an empty scene. GPU selection failures fall back to the
// software backend before New reports an error.
func New(cfg sprite.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := backend.Select(cfg)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:   cfg,
		back:  b,
		cache: cache.New(b, cfg.MaxTextureDim),
		scene: sprite.NewScene(),
		ids:   sprite.NewIDAllocator(),
	}, nil
}

// NewWithBackend wraps an already-initialized backend instead of
// running selection, for callers that configured the backend
// themselves (a window surface, a test double).
func NewWithBackend(cfg sprite.Config, b backend.Backend) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:   cfg,
		back:  b,
		cache: cache.New(b, cfg.MaxTextureDim),
		scene: sprite.NewScene(),
		ids:   sprite.NewIDAllocator(),
	}, nil
}

// Scene returns the active scene.
func (r *Renderer) Scene() *sprite.Scene { return r.scene }

// SetScene swaps the active scene. The next frame draws the new scene
// in full.
func (r *Renderer) SetScene(s *sprite.Scene) {
	r.scene = s
	s.MarkDirty()
}

// Cache returns the texture cache.
func (r *Renderer) Cache() *cache.TextureCache { return r.cache }

// Backend returns the active backend.
func (r *Renderer) Backend() backend.Backend { return r.back }

// Config returns the renderer's configuration.
func (r *Renderer) Config() sprite.Config { return r.cfg }

// SetFrameHook installs the per-frame callback. Call before Start.
func (r *Renderer) SetFrameHook(h FrameHook) { r.hook = h }

// Spawn creates a sprite with a fresh id and adds it to the scene.
func (r *Renderer) Spawn(p sprite.Params) *sprite.Sprite {
	s := sprite.New(r.ids.Next(), p)
	r.scene.Add(s)
	return s
}

// Despawn removes a sprite from the scene and releases its per-sprite
// device resources in one step. The sprite's texture stays cached;
// textures are shared across sprites and released through the cache.
func (r *Renderer) Despawn(id sprite.ID) bool {
	removed := r.scene.Remove(id)
	r.back.ReleaseSpriteResources(id)
	return removed
}

// ReleaseSpriteResources frees a sprite's device resources without
// touching the scene, for callers that manage scene membership
// themselves.
func (r *Renderer) ReleaseSpriteResources(id sprite.ID) {
	r.back.ReleaseSpriteResources(id)
}

// Render draws one frame at the given timestamp (seconds). A frame
// with no visible changes since the last one is skipped entirely; the
// method returns nil without touching the backend.
//
// Sprites whose texture is not cached yet are skipped for this frame
// and a background load is kicked off; its completion schedules a
// redraw.
func (r *Renderer) Render(timestamp float64) error {
	if r.destroyed {
		return ErrDestroyed
	}
	dirty := r.scene.ConsumeDirty()
	if r.redraw.Swap(false) {
		dirty = true
	}
	if !dirty {
		return nil
	}

	scale := float64(r.cfg.EffectiveScale())
	sorted := r.scene.SortedSprites()

	cmds := make([]backend.DrawCommand, 0, len(sorted))
	for _, s := range sorted {
		id := s.TextureID()
		if id == "" {
			continue
		}
		tex, ok := r.cache.Texture(id, scale)
		if !ok {
			r.requestTexture(id, scale)
			continue
		}
		cmds = append(cmds, backend.DrawCommand{
			SpriteID: s.ID(),
			Texture:  tex,
			Model:    s.ModelMatrix(),
			Tint:     s.Tint(),
			Opacity:  s.Opacity(),
		})
	}

	if err := r.back.BeginFrame(timestamp, r.cfg.ClearColor); err != nil {
		return fmt.Errorf("render: begin frame: %w", err)
	}
	for _, cmd := range cmds {
		if err := r.back.Draw(cmd); err != nil {
			// Abandon the frame but close it out so the backend is
			// usable next frame.
			endErr := r.back.EndFrame()
			return errors.Join(fmt.Errorf("render: draw sprite %d: %w", cmd.SpriteID, err), endErr)
		}
	}
	if err := r.back.EndFrame(); err != nil {
		return fmt.Errorf("render: end frame: %w", err)
	}
	return nil
}

// requestTexture starts a background load and schedules a redraw when
// it lands. Failures are logged, not fatal: the sprite simply keeps
// getting skipped.
func (r *Renderer) requestTexture(assetID string, scale float64) {
	f := r.cache.Load(assetID, scale)
	go func() {
		<-f.Done()
		if _, err, _ := f.Ready(); err != nil {
			sprite.Logger().Warn("texture load failed", "asset", assetID, "error", err)
			return
		}
		r.redraw.Store(true)
	}()
}

// Start launches the render loop at the configured frame rate.
// Starting a running renderer is a no-op. The loop goroutine takes
// over backend ownership until Stop.
func (r *Renderer) Start() {
	if r.destroyed || !r.running.CompareAndSwap(false, true) {
		return
	}
	r.stopCh = make(chan struct{})
	r.loopDone.Add(1)
	go r.loop(r.stopCh)
}

// Stop halts the render loop and waits for the in-flight frame to
// finish. Stopping a stopped renderer is a no-op. Safe to call from
// any goroutine.
func (r *Renderer) Stop() {
	if !r.running.CompareAndSwap(true, false) {
		return
	}
	close(r.stopCh)
	r.loopDone.Wait()
}

func (r *Renderer) loop(stop <-chan struct{}) {
	defer r.loopDone.Done()

	interval := time.Second / time.Duration(r.cfg.TargetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	clk := newClock()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			elapsed, dt := clk.update()
			if r.hook != nil {
				r.hook(dt)
				// An installed hook means animation: the frame time
				// feeds time-based effects, so every iteration draws
				// even if the hook touched nothing.
				r.scene.MarkDirty()
			}
			if err := r.Render(elapsed); err != nil {
				sprite.Logger().Error("frame failed, stopping loop", "error", err)
				r.running.Store(false)
				return
			}
		}
	}
}

// Destroy stops the loop, releases every cached texture and tears the
// backend down. The renderer is unusable afterwards.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.Stop()
	r.cache.ReleaseAll()
	r.back.Destroy()
	r.destroyed = true
}
