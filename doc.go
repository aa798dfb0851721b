// Package sprite provides a 2D sprite-compositing engine for Go.
//
// # Overview
//
// sprite draws layered, textured quads — a dressed character, a HUD, any
// z-ordered stack of 2D images — using a GPU pipeline when one is available
// and a software rasterizer when it is not. Both backends implement the
// same compositing contract, so output is identical regardless of which
// one is selected.
//
// The engine is built from a few small pieces:
//   - Math primitives: Vec2, Mat4, easing functions (this package)
//   - Sprite and Scene: transformable quads in a z-sorted graph (this package)
//   - vector: declarative path-based image descriptions
//   - raster: vector-to-bitmap rasterization
//   - backend: the shared rendering contract plus the software backend
//   - backend/gpu: the WebGPU backend (blank import to enable)
//   - cache: asynchronous texture loading with request de-duplication
//   - render: the per-frame draw loop and resource lifecycle
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/sprite"
//	    _ "github.com/gogpu/sprite/backend/gpu" // enable GPU rendering
//	    "github.com/gogpu/sprite/render"
//	)
//
//	cfg := sprite.DefaultConfig()
//	r, _ := render.New(cfg)
//	scene := sprite.NewScene()
//
//	ids := sprite.NewIDAllocator()
//	s := sprite.New(ids.Next(), sprite.Params{TextureID: "dress", Width: 96, Height: 128})
//	scene.Add(s)
//	scene.MarkDirty()
//
//	r.SetScene(scene)
//	r.Start()
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down.
// Angles in radians, rotation is clockwise in screen space.
//
// # Concurrency
//
// Scene, Sprite, and Renderer state belong to the render loop goroutine;
// they need no locks and must not be mutated concurrently. The only
// asynchronous operation is texture loading, which never blocks a frame:
// a sprite whose texture has not resolved yet is skipped and appears on a
// later frame.
package sprite
