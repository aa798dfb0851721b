// Package gpu implements the WebGPU rendering backend. Importing it
// registers the "gpu" backend; hosts without a usable adapter fall
// back to the software backend at selection time.
//
// By default the backend renders into an offscreen texture that
// ReadPixels can copy back. Presentation to a window goes through an
// optional surface provider, see SetSurfaceProvider.
package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/backend"
)

func init() {
	backend.Register(backend.BackendGPU, func() backend.Backend { return New() })
}

// SurfaceProvider creates a window surface from the backend's
// instance. The demo wires one up from a glfw window.
type SurfaceProvider func(inst *wgpu.Instance) (*wgpu.Surface, error)

// textureFormat maps the backend-agnostic configured format onto the
// wgpu enum. Anything unrecognized falls back to RGBA8.
func textureFormat(f gputypes.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// GPU is the WebGPU backend.
type GPU struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Logical size in points and physical size in pixels. The
	// projection maps points; the target has pixel resolution.
	logicalW, logicalH   int
	physicalW, physicalH int
	format               wgpu.TextureFormat

	pipe         *pipelineState
	frameUniform *wgpu.Buffer
	frameBinding *wgpu.BindGroup

	target *offscreenTarget

	surfaceProvider SurfaceProvider
	surface         *wgpu.Surface

	resources map[sprite.ID]*spriteResources

	initialized bool
	inFrame     bool
	encoder     *wgpu.CommandEncoder
	pass        *wgpu.RenderPassEncoder

	// Surface-mode per-frame state.
	surfaceTexture *wgpu.Texture
	surfaceView    *wgpu.TextureView
}

// New returns an uninitialized GPU backend.
func New() *GPU {
	return &GPU{resources: make(map[sprite.ID]*spriteResources)}
}

// SetSurfaceProvider routes frames to a window surface instead of the
// offscreen target. Must be called before Init. With a surface
// configured, ReadPixels is unsupported.
func (g *GPU) SetSurfaceProvider(p SurfaceProvider) {
	g.surfaceProvider = p
}

func (g *GPU) Name() string { return backend.BackendGPU }

// Capable probes for a usable adapter without keeping anything: a
// throwaway instance and adapter are acquired and released.
func (g *GPU) Capable() bool {
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return false
	}
	defer inst.Release()
	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		return false
	}
	adapter.Release()
	return true
}

func (g *GPU) Init(cfg sprite.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.logicalW, g.logicalH = cfg.Width, cfg.Height
	g.physicalW, g.physicalH = cfg.PhysicalSize()
	g.format = textureFormat(cfg.Format())

	g.instance = wgpu.CreateInstance(nil)
	if g.instance == nil {
		return fmt.Errorf("gpu: create instance: %w", backend.ErrBackendUnavailable)
	}

	ok := false
	defer func() {
		if !ok {
			g.Destroy()
		}
	}()

	if g.surfaceProvider != nil {
		surf, err := g.surfaceProvider(g.instance)
		if err != nil {
			return fmt.Errorf("gpu: create surface: %w", err)
		}
		g.surface = surf
	}

	adapter, err := g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: g.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("gpu: request adapter: %w", err)
	}
	g.adapter = adapter

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("gpu: request device: %w", err)
	}
	g.device = device
	g.queue = device.GetQueue()

	if g.surface != nil {
		g.configureSurface()
	} else {
		g.target, err = newOffscreenTarget(g.device, g.physicalW, g.physicalH, g.format)
		if err != nil {
			return err
		}
	}

	g.pipe, err = buildPipeline(g.device, g.format)
	if err != nil {
		return err
	}

	g.frameUniform, err = g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "frame_uniform",
		Size:  frameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: frame uniform buffer: %w", err)
	}

	g.frameBinding, err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "frame_bind_group",
		Layout: g.pipe.frameLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  g.frameUniform,
			Size:    frameUniformSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("gpu: frame bind group: %w", err)
	}

	g.initialized = true
	ok = true
	sprite.Logger().Info("gpu backend initialized",
		"logical", fmt.Sprintf("%dx%d", g.logicalW, g.logicalH),
		"physical", fmt.Sprintf("%dx%d", g.physicalW, g.physicalH),
		"surface", g.surface != nil)
	return nil
}

func (g *GPU) configureSurface() {
	caps := g.surface.GetCapabilities(g.adapter)
	format := g.format
	if len(caps.Formats) > 0 {
		format = caps.Formats[0]
	}
	alpha := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}
	g.format = format
	g.surface.Configure(g.adapter, g.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(g.physicalW),
		Height:      uint32(g.physicalH),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alpha,
	})
}

func (g *GPU) Resize(width, height int) error {
	if !g.initialized {
		return backend.ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gpu: resize to %dx%d: size must be positive", width, height)
	}
	scale := float64(g.physicalW) / float64(g.logicalW)
	g.logicalW, g.logicalH = width, height
	g.physicalW = int(float64(width) * scale)
	g.physicalH = int(float64(height) * scale)

	if g.surface != nil {
		g.configureSurface()
		return nil
	}
	g.target.release()
	var err error
	g.target, err = newOffscreenTarget(g.device, g.physicalW, g.physicalH, g.format)
	return err
}

func (g *GPU) BeginFrame(time float64, clear sprite.Color) error {
	if !g.initialized {
		return backend.ErrNotInitialized
	}
	if g.inFrame {
		return backend.ErrFrameInProgress
	}

	var view *wgpu.TextureView
	if g.surface != nil {
		tex, err := g.surface.GetCurrentTexture()
		if err != nil {
			return fmt.Errorf("gpu: acquire surface texture: %w", backend.ErrDeviceLost)
		}
		g.surfaceTexture = tex
		view, err = tex.CreateView(nil)
		if err != nil {
			return fmt.Errorf("gpu: surface texture view: %w", err)
		}
		g.surfaceView = view
	} else {
		view = g.target.view
	}

	// Projection over logical points, y-down. Model matrices stay in
	// points; the physical resolution comes from the target size.
	proj := sprite.Ortho(0, float32(g.logicalW), float32(g.logicalH), 0, -1, 1)
	var frame [20]float32
	copy(frame[:16], proj[:])
	frame[16] = float32(time)
	if err := g.queue.WriteBuffer(g.frameUniform, 0, wgpu.ToBytes(frame[:])); err != nil {
		return fmt.Errorf("gpu: write frame uniform: %w", err)
	}

	encoder, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: command encoder: %w", err)
	}
	g.encoder = encoder

	a := float64(clear.A)
	g.pass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "sprite_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear.R) * a,
				G: float64(clear.G) * a,
				B: float64(clear.B) * a,
				A: a,
			},
		}},
	})
	g.pass.SetPipeline(g.pipe.pipeline)
	g.pass.SetVertexBuffer(0, g.pipe.vertexBuf, 0, wgpu.WholeSize)
	g.pass.SetIndexBuffer(g.pipe.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	g.pass.SetBindGroup(0, g.frameBinding, nil)

	g.inFrame = true
	return nil
}

func (g *GPU) Draw(cmd backend.DrawCommand) error {
	if !g.inFrame {
		return backend.ErrFrameNotStarted
	}
	tex, ok := cmd.Texture.(*gpuTexture)
	if !ok || tex == nil {
		return fmt.Errorf("gpu: draw sprite %d: nil or foreign texture", cmd.SpriteID)
	}
	if tex.released {
		return fmt.Errorf("gpu: draw sprite %d: %w", cmd.SpriteID, backend.ErrTextureReleased)
	}

	res, err := g.ensureSpriteResources(cmd.SpriteID, tex)
	if err != nil {
		return err
	}

	var u [24]float32
	copy(u[:16], cmd.Model[:])
	u[16] = cmd.Tint.R
	u[17] = cmd.Tint.G
	u[18] = cmd.Tint.B
	u[19] = cmd.Tint.Strength
	u[20] = cmd.Opacity
	if err := g.queue.WriteBuffer(res.uniform, 0, wgpu.ToBytes(u[:])); err != nil {
		return fmt.Errorf("gpu: write sprite uniform: %w", err)
	}

	g.pass.SetBindGroup(1, res.binding, nil)
	g.pass.DrawIndexed(uint32(len(quadIndices)), 1, 0, 0, 0)
	return nil
}

func (g *GPU) EndFrame() error {
	if !g.inFrame {
		return backend.ErrFrameNotStarted
	}
	g.inFrame = false

	g.pass.End()
	g.pass.Release()
	g.pass = nil

	cmdBuf, err := g.encoder.Finish(nil)
	g.encoder.Release()
	g.encoder = nil
	if err != nil {
		g.releaseSurfaceFrame()
		return fmt.Errorf("gpu: finish encoder: %w", err)
	}
	g.queue.Submit(cmdBuf)
	cmdBuf.Release()

	if g.surface != nil {
		g.surface.Present()
		g.releaseSurfaceFrame()
	}
	return nil
}

func (g *GPU) releaseSurfaceFrame() {
	if g.surfaceView != nil {
		g.surfaceView.Release()
		g.surfaceView = nil
	}
	if g.surfaceTexture != nil {
		g.surfaceTexture.Release()
		g.surfaceTexture = nil
	}
}

func (g *GPU) ReadPixels() (*image.RGBA, error) {
	if !g.initialized {
		return nil, backend.ErrNotInitialized
	}
	if g.surface != nil {
		return nil, fmt.Errorf("gpu: read pixels: unsupported with a window surface")
	}
	return g.target.readPixels(g.device, g.queue)
}

func (g *GPU) Destroy() {
	for id := range g.resources {
		g.ReleaseSpriteResources(id)
	}
	if g.frameBinding != nil {
		g.frameBinding.Release()
		g.frameBinding = nil
	}
	if g.frameUniform != nil {
		g.frameUniform.Release()
		g.frameUniform = nil
	}
	if g.pipe != nil {
		g.pipe.release()
		g.pipe = nil
	}
	if g.target != nil {
		g.target.release()
		g.target = nil
	}
	if g.surface != nil {
		g.surface.Release()
		g.surface = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
	if g.adapter != nil {
		g.adapter.Release()
		g.adapter = nil
	}
	if g.instance != nil {
		g.instance.Release()
		g.instance = nil
	}
	g.queue = nil
	g.initialized = false
	g.inFrame = false
}
