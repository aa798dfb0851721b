package sprite

import (
	"bytes"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gputypes"
)

// Config carries engine settings. All fields have working defaults;
// load overrides from TOML with LoadConfig or fill the struct directly.
type Config struct {
	// Width, Height are the logical render target size in points.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// DeviceScale is the points-to-pixels factor (e.g. 2 on HiDPI).
	// Clamped to DeviceScaleCap when computing physical sizes.
	DeviceScale float32 `toml:"device_scale"`

	// DeviceScaleCap bounds the effective device scale, so texture
	// memory does not explode on extreme HiDPI configurations.
	DeviceScaleCap float32 `toml:"device_scale_cap"`

	// MaxTextureDim caps either dimension of a rasterized texture, in
	// physical pixels. Rasterization scales down, preserving aspect
	// ratio, rather than exceed it.
	MaxTextureDim int `toml:"max_texture_dim"`

	// TargetFPS paces the render loop when the platform offers no
	// vsync signal.
	TargetFPS int `toml:"target_fps"`

	// Backend names the preferred backend ("gpu", "software") or is
	// empty for priority-ordered selection with automatic fallback.
	Backend string `toml:"backend"`

	// ClearColor fills the target before each frame draws.
	ClearColor Color `toml:"clear_color"`
}

// DefaultConfig returns the settings used when nothing is overridden:
// a 800x600 target at scale 1, capped at 2x scale and 2048px textures,
// paced at 60 frames per second.
func DefaultConfig() Config {
	return Config{
		Width:          800,
		Height:         600,
		DeviceScale:    1,
		DeviceScaleCap: 2,
		MaxTextureDim:  2048,
		TargetFPS:      60,
		ClearColor:     Transparent,
	}
}

// LoadConfig reads TOML from path, layered over DefaultConfig.
// Unknown keys are an error; absent keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sprite: read config: %w", err)
	}
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("sprite: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no backend can honor.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("sprite: config: size %dx%d must be positive", c.Width, c.Height)
	}
	if c.DeviceScale <= 0 {
		return fmt.Errorf("sprite: config: device_scale %g must be positive", c.DeviceScale)
	}
	if c.DeviceScaleCap <= 0 {
		return fmt.Errorf("sprite: config: device_scale_cap %g must be positive", c.DeviceScaleCap)
	}
	if c.MaxTextureDim <= 0 {
		return fmt.Errorf("sprite: config: max_texture_dim %d must be positive", c.MaxTextureDim)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("sprite: config: target_fps %d must be positive", c.TargetFPS)
	}
	switch c.Backend {
	case "", "gpu", "software":
	default:
		return fmt.Errorf("sprite: config: unknown backend %q", c.Backend)
	}
	return nil
}

// EffectiveScale returns the device scale after applying the cap.
func (c Config) EffectiveScale() float32 {
	if c.DeviceScale > c.DeviceScaleCap {
		return c.DeviceScaleCap
	}
	return c.DeviceScale
}

// PhysicalSize returns the render target size in pixels.
func (c Config) PhysicalSize() (w, h int) {
	s := c.EffectiveScale()
	return int(float32(c.Width) * s), int(float32(c.Height) * s)
}

// Format returns the pixel format all backends render in.
func (c Config) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}
