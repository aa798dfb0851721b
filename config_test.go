package sprite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprite.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.MaxTextureDim != 2048 {
		t.Errorf("MaxTextureDim = %d, want 2048", cfg.MaxTextureDim)
	}
	if cfg.DeviceScaleCap != 2 {
		t.Errorf("DeviceScaleCap = %g, want 2", cfg.DeviceScaleCap)
	}
	if cfg.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want 60", cfg.TargetFPS)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
width = 1280
height = 720
device_scale = 1.5
backend = "software"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.DeviceScale != 1.5 {
		t.Errorf("DeviceScale = %g, want 1.5", cfg.DeviceScale)
	}
	// Absent keys keep defaults.
	if cfg.MaxTextureDim != 2048 || cfg.TargetFPS != 60 {
		t.Error("absent keys should keep defaults")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"unknown key", "width = 800\nbogus = 1\n", "bogus"},
		{"bad backend", `backend = "metal"`, "unknown backend"},
		{"zero size", "width = 0\n", "must be positive"},
		{"negative fps", "target_fps = -1\n", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPhysicalSizeAppliesScaleCap(t *testing.T) {
	tests := []struct {
		name         string
		scale, cap   float32
		wantW, wantH int
	}{
		{"under cap", 1.5, 2, 1200, 900},
		{"at cap", 2, 2, 1600, 1200},
		{"over cap clamps", 3, 2, 1600, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DeviceScale = tt.scale
			cfg.DeviceScaleCap = tt.cap
			w, h := cfg.PhysicalSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PhysicalSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
