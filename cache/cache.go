// Package cache provides the texture cache: rasterized, device-resident
// textures keyed by asset and scale, with request coalescing so a
// texture needed by many sprites at once is rasterized exactly once.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/backend"
	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/vector"
)

// Key identifies one cached texture: an asset rendered at a scale.
type Key struct {
	AssetID string
	Scale   float64
}

func (k Key) String() string { return fmt.Sprintf("%s@%g", k.AssetID, k.Scale) }

// Future is the result of an asynchronous texture load. It completes
// exactly once; all accessors are safe from any goroutine.
type Future struct {
	done chan struct{}
	tex  backend.TextureHandle
	bm   *raster.Bitmap
	err  error
}

func newFuture() *Future { return &Future{done: make(chan struct{})} }

func completedFuture(tex backend.TextureHandle, bm *raster.Bitmap) *Future {
	f := newFuture()
	f.tex = tex
	f.bm = bm
	close(f.done)
	return f
}

func (f *Future) complete(tex backend.TextureHandle, bm *raster.Bitmap, err error) {
	f.tex = tex
	f.bm = bm
	f.err = err
	close(f.done)
}

// Done is closed when the load finishes, successfully or not.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the load completes or ctx is canceled.
func (f *Future) Await(ctx context.Context) (backend.TextureHandle, error) {
	select {
	case <-f.done:
		return f.tex, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports the result without blocking. ok is false while the
// load is still in flight.
func (f *Future) Ready() (tex backend.TextureHandle, err error, ok bool) {
	select {
	case <-f.done:
		return f.tex, f.err, true
	default:
		return nil, nil, false
	}
}

type entry struct {
	tex backend.TextureHandle
	bm  *raster.Bitmap
}

// TextureCache owns the rasterize-upload pipeline. Sprites hold weak
// string references to assets; the cache resolves them to device
// textures on demand. Safe for concurrent use.
type TextureCache struct {
	mu      sync.RWMutex
	assets  map[string]*vector.Asset
	entries map[Key]*entry

	group   singleflight.Group
	backend backend.Backend
	maxDim  int

	// rasterize is swappable so tests can count invocations.
	rasterize func(a *vector.Asset, scale float64, maxDim int) (raster.Result, error)
}

// New returns a cache that uploads through b, capping rasterized
// textures at maxDim pixels per side.
func New(b backend.Backend, maxDim int) *TextureCache {
	return &TextureCache{
		assets:    make(map[string]*vector.Asset),
		entries:   make(map[Key]*entry),
		backend:   b,
		maxDim:    maxDim,
		rasterize: raster.Rasterize,
	}
}

// RegisterAsset makes a compiled asset loadable under id. Registering
// an id again replaces the asset but leaves already-cached textures
// untouched; release them explicitly to pick up the new art.
func (c *TextureCache) RegisterAsset(id string, a *vector.Asset) {
	c.mu.Lock()
	c.assets[id] = a
	c.mu.Unlock()
}

// Asset returns the registered asset for id, or nil.
func (c *TextureCache) Asset(id string) *vector.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assets[id]
}

// LoadAsset registers a compiled asset under id and loads it at scale
// in one call, for collaborators that own their asset definitions. A
// texture already cached for the key is reused; the new definition
// only takes effect after an explicit Release.
func (c *TextureCache) LoadAsset(id string, a *vector.Asset, scale float64) *Future {
	c.RegisterAsset(id, a)
	return c.Load(id, scale)
}

// Load returns a future for the texture of assetID at scale. A cached
// texture completes the future immediately. Concurrent loads for the
// same key coalesce onto a single rasterization; every caller gets the
// same texture.
func (c *TextureCache) Load(assetID string, scale float64) *Future {
	key := Key{AssetID: assetID, Scale: scale}

	c.mu.RLock()
	e := c.entries[key]
	asset := c.assets[assetID]
	c.mu.RUnlock()
	if e != nil {
		return completedFuture(e.tex, e.bm)
	}

	f := newFuture()
	if asset == nil {
		f.complete(nil, nil, fmt.Errorf("cache: asset %q not registered", assetID))
		return f
	}

	go func() {
		v, err, _ := c.group.Do(key.String(), func() (any, error) {
			// A racing load may have populated the entry while this
			// call was queued behind an earlier flight.
			c.mu.RLock()
			cached := c.entries[key]
			c.mu.RUnlock()
			if cached != nil {
				return cached, nil
			}

			res, err := c.rasterize(asset, scale, c.maxDim)
			if err != nil {
				return nil, fmt.Errorf("cache: rasterize %s: %w", key, err)
			}
			if res.Clamped {
				sprite.Logger().Debug("texture scale clamped",
					"asset", assetID, "requested", scale, "effective", res.Scale)
			}
			tex, err := c.backend.UploadTexture(res.Bitmap)
			if err != nil {
				return nil, fmt.Errorf("cache: upload %s: %w", key, err)
			}
			e := &entry{tex: tex, bm: res.Bitmap}
			c.mu.Lock()
			c.entries[key] = e
			c.mu.Unlock()
			return e, nil
		})
		if err != nil {
			f.complete(nil, nil, err)
			return
		}
		e := v.(*entry)
		f.complete(e.tex, e.bm, nil)
	}()
	return f
}

// Has reports whether a completed texture exists for the key.
func (c *TextureCache) Has(assetID string, scale float64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[Key{AssetID: assetID, Scale: scale}] != nil
}

// Texture returns the cached texture without blocking. ok is false
// when the texture is absent or still loading.
func (c *TextureCache) Texture(assetID string, scale float64) (backend.TextureHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.entries[Key{AssetID: assetID, Scale: scale}]
	if e == nil {
		return nil, false
	}
	return e.tex, true
}

// Bitmap returns the CPU-side pixels backing a cached texture, for
// inspection and tests. ok is false when absent or still loading.
func (c *TextureCache) Bitmap(assetID string, scale float64) (*raster.Bitmap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.entries[Key{AssetID: assetID, Scale: scale}]
	if e == nil {
		return nil, false
	}
	return e.bm, true
}

// Len returns the number of completed entries.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Release drops one cached texture and frees its device memory. A
// later Load for the same key rasterizes again. In-flight loads are
// unaffected and complete normally.
func (c *TextureCache) Release(assetID string, scale float64) {
	key := Key{AssetID: assetID, Scale: scale}
	c.mu.Lock()
	e := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if e != nil {
		c.backend.ReleaseTexture(e.tex)
	}
}

// ReleaseAll drops every cached texture.
func (c *TextureCache) ReleaseAll() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[Key]*entry)
	c.mu.Unlock()
	for _, e := range entries {
		c.backend.ReleaseTexture(e.tex)
	}
}
