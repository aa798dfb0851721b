// Package backend defines the rendering backend contract and the
// registry that selects between implementations. A backend owns all
// device-side state: textures, per-sprite uniform resources and the
// frame lifecycle. Everything above the Backend interface is backend
// agnostic; the GPU and software implementations must be pixel-rule
// identical so callers cannot observe which one is active.
package backend

import (
	"errors"
	"image"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/raster"
)

// Backend names used with Register and Config.Backend.
const (
	BackendGPU      = "gpu"
	BackendSoftware = "software"
)

var (
	// ErrBackendUnavailable reports that no registered backend could be
	// initialized.
	ErrBackendUnavailable = errors.New("backend: no backend available")

	// ErrNotInitialized reports use of a backend before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrFrameNotStarted reports Draw or EndFrame outside a
	// BeginFrame/EndFrame pair.
	ErrFrameNotStarted = errors.New("backend: no frame in progress")

	// ErrFrameInProgress reports BeginFrame while a frame is open.
	ErrFrameInProgress = errors.New("backend: frame already in progress")

	// ErrDeviceLost reports that the GPU device became unusable. The
	// renderer logs it and stops; there is no automatic reconnect.
	ErrDeviceLost = errors.New("backend: device lost")

	// ErrTextureReleased reports a draw referencing a released texture.
	ErrTextureReleased = errors.New("backend: texture released")
)

// TextureHandle is an opaque reference to a device-resident texture.
// Handles are created by UploadTexture and invalidated by
// ReleaseTexture; using a released handle is a caller bug surfaced as
// ErrTextureReleased.
type TextureHandle interface {
	// Width and Height are the texture's pixel dimensions.
	Width() int
	Height() int
}

// DrawCommand is one sprite's draw request for the current frame.
type DrawCommand struct {
	// SpriteID keys the per-sprite device resources (uniform buffer,
	// bind group). Resources persist across frames until
	// ReleaseSpriteResources.
	SpriteID sprite.ID

	Texture TextureHandle
	Model   sprite.Mat4
	Tint    sprite.Tint
	Opacity float32
}

// Backend is the device abstraction both implementations satisfy.
//
// Lifecycle: Init once, then any number of
// BeginFrame/Draw.../EndFrame cycles, then Destroy. Draw order within
// a frame is the composite order; the backend never re-sorts.
//
// Init, the frame methods and Destroy are confined to the goroutine
// that initialized the backend. UploadTexture and ReleaseTexture are
// safe for concurrent use after Init so the texture cache can upload
// from loader goroutines.
type Backend interface {
	// Name returns the registry name ("gpu", "software").
	Name() string

	// Capable reports whether the backend can run on this host. It is
	// an independent probe: it acquires nothing lasting and may be
	// called before or instead of Init.
	Capable() bool

	// Init acquires device resources for the configured target size.
	Init(cfg sprite.Config) error

	// Resize recreates the render target for a new logical size in
	// points; the physical size is re-derived from the device scale.
	// Uploaded textures and sprite resources survive a resize.
	Resize(width, height int) error

	// BeginFrame opens a frame, clearing the target to clear. The time
	// parameter is the frame timestamp in seconds, available to
	// time-driven shader effects.
	BeginFrame(time float64, clear sprite.Color) error

	// Draw composites one sprite over the frame built so far.
	Draw(cmd DrawCommand) error

	// EndFrame submits the frame. After EndFrame the target holds the
	// finished image.
	EndFrame() error

	// UploadTexture moves a premultiplied bitmap onto the device and
	// returns a handle for Draw commands.
	UploadTexture(bm *raster.Bitmap) (TextureHandle, error)

	// ReleaseTexture frees a texture's device memory. The handle is
	// invalid afterwards.
	ReleaseTexture(h TextureHandle)

	// ReleaseSpriteResources frees the per-sprite device resources
	// keyed by id. A no-op when the sprite never drew.
	ReleaseSpriteResources(id sprite.ID)

	// SpriteResourceCount reports how many sprites currently hold
	// device resources.
	SpriteResourceCount() int

	// ReadPixels copies the most recently completed frame into CPU
	// memory as premultiplied RGBA.
	ReadPixels() (*image.RGBA, error)

	// Destroy releases every device resource. The backend is unusable
	// afterwards.
	Destroy()
}
