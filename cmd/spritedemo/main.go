// Command spritedemo opens a window and renders an animated scene:
// a few vector shapes rasterized to textures, composited with
// rotation, easing-driven motion, tint and opacity.
//
// With -backend=software (or no usable GPU) it renders headlessly and
// writes the final frame to a PNG instead.
package main

import (
	"flag"
	"image/png"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/backend"
	"github.com/gogpu/sprite/backend/gpu"
	"github.com/gogpu/sprite/render"
	"github.com/gogpu/sprite/vector"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	backendName := flag.String("backend", "", "backend to use (gpu, software)")
	out := flag.String("out", "spritedemo.png", "output file for headless rendering")
	flag.Parse()

	sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := sprite.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = sprite.LoadConfig(*configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	if *backendName != "" {
		cfg.Backend = *backendName
	}
	cfg.ClearColor = sprite.RGB(0.08, 0.08, 0.12)

	if cfg.Backend == backend.BackendSoftware {
		runHeadless(cfg, *out)
		return
	}
	runWindowed(cfg, *out)
}

func runWindowed(cfg sprite.Config, out string) {
	if err := glfw.Init(); err != nil {
		slog.Error("glfw init", "error", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, "spritedemo", nil, nil)
	if err != nil {
		slog.Error("create window", "error", err)
		os.Exit(1)
	}
	defer window.Destroy()

	b := gpu.New()
	b.SetSurfaceProvider(func(inst *wgpu.Instance) (*wgpu.Surface, error) {
		return inst.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window)), nil
	})
	if err := b.Init(cfg); err != nil {
		slog.Warn("gpu backend unavailable, rendering headlessly", "error", err)
		runHeadless(cfg, out)
		return
	}

	r, err := render.NewWithBackend(cfg, b)
	if err != nil {
		slog.Error("create renderer", "error", err)
		os.Exit(1)
	}
	defer r.Destroy()
	buildScene(r)

	window.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		if err := b.Resize(w, h); err != nil {
			slog.Warn("resize", "error", err)
		}
		r.Scene().MarkDirty()
	})

	start := time.Now()
	last := start
	interval := time.Second / time.Duration(cfg.TargetFPS)
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := time.Now()
		animate(r, now.Sub(start).Seconds(), now.Sub(last).Seconds())
		last = now
		if err := r.Render(now.Sub(start).Seconds()); err != nil {
			slog.Error("render", "error", err)
			return
		}
		if d := interval - time.Since(now); d > 0 {
			time.Sleep(d)
		}
	}
}

func runHeadless(cfg sprite.Config, out string) {
	cfg.Backend = ""
	r, err := render.New(cfg)
	if err != nil {
		slog.Error("create renderer", "error", err)
		os.Exit(1)
	}
	defer r.Destroy()
	buildScene(r)

	// Render a few frames so async texture loads land, then grab the
	// last one.
	for frame := 0; frame < 60; frame++ {
		t := float64(frame) / float64(cfg.TargetFPS)
		animate(r, t, 1/float64(cfg.TargetFPS))
		if err := r.Render(t); err != nil {
			slog.Error("render", "error", err)
			os.Exit(1)
		}
		time.Sleep(10 * time.Millisecond)
	}

	img, err := r.Backend().ReadPixels()
	if err != nil {
		slog.Error("read pixels", "error", err)
		os.Exit(1)
	}
	f, err := os.Create(out)
	if err != nil {
		slog.Error("create output", "error", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		slog.Error("encode png", "error", err)
		os.Exit(1)
	}
	slog.Info("wrote frame", "file", out)
}

func buildScene(r *render.Renderer) {
	disc, err := vector.Compile(vector.AssetDef{
		Width: 100, Height: 100,
		Segments: []vector.SegmentDef{
			{Geometry: "M 50 5 C 75 5 95 25 95 50 C 95 75 75 95 50 95 C 25 95 5 75 5 50 C 5 25 25 5 50 5 Z",
				Fill: "#4faaff", Stroke: "#ffffff", StrokeWidth: 3},
		},
	})
	if err != nil {
		slog.Error("compile disc", "error", err)
		os.Exit(1)
	}
	badge, err := vector.Compile(vector.AssetDef{
		Width: 80, Height: 80,
		Segments: []vector.SegmentDef{
			{Geometry: "M 10 10 L 70 10 L 70 70 L 10 70 Z", Fill: "#ffb347"},
			{Geometry: "M 20 40 L 40 20 L 60 40 L 40 60 Z", Fill: "#9933cc", Opacity: 0.85},
		},
	})
	if err != nil {
		slog.Error("compile badge", "error", err)
		os.Exit(1)
	}
	r.Cache().RegisterAsset("disc", disc)
	r.Cache().RegisterAsset("badge", badge)

	cfg := r.Config()
	cx := float32(cfg.Width) / 2
	cy := float32(cfg.Height) / 2

	hub := r.Spawn(sprite.Params{
		TextureID: "disc",
		X:         cx, Y: cy,
		Width: 160, Height: 160,
		AnchorX: 0.5, AnchorY: 0.5,
		ZIndex: 0,
		Label:  "hub",
	})
	hub.SetAttachmentPoint("east", sprite.V2(160, 80))

	for i := 0; i < 4; i++ {
		s := r.Spawn(sprite.Params{
			TextureID: "badge",
			X:         cx, Y: cy,
			Width: 64, Height: 64,
			AnchorX: 0.5, AnchorY: 0.5,
			ZIndex: 1 + i,
			Label:  "orbiter",
		})
		s.SetTint(sprite.Tint{R: 1, G: 0.6, B: 0.6, Strength: float32(i) * 0.25})
	}

	// Rides the hub's east attachment point; placed every frame so it
	// follows the hub's rotation and pulse.
	r.Spawn(sprite.Params{
		TextureID: "disc",
		Width:     32, Height: 32,
		AnchorX: 0.5, AnchorY: 0.5,
		ZIndex: 10,
		Label:  "satellite",
	})
}

func animate(r *render.Renderer, t, _ float64) {
	cfg := r.Config()
	cx := float32(cfg.Width) / 2
	cy := float32(cfg.Height) / 2

	if hub := r.Scene().FindByLabel("hub"); hub != nil {
		hub.SetRotation(float32(t) * 0.5)
		// Pulse size with eased oscillation.
		phase := float32(t - float64(int(t)))
		pulse := 140 + 40*sprite.EaseInOutSine(phase)
		hub.SetSize(pulse, pulse)

		if sat := r.Scene().FindByLabel("satellite"); sat != nil {
			r.Scene().Attach(hub.ID(), sat.ID(), "east")
		}
	}

	orbiters := r.Scene().FindAll("orbiter")
	for i, s := range orbiters {
		a := float32(t)*0.9 + float32(i)*1.57
		radius := float32(200)
		s.SetPosition(cx+radius*math32.Cos(a), cy+radius*math32.Sin(a))
		s.SetRotation(-a)
		s.SetOpacity(0.5 + 0.5*sprite.EaseOutQuad(0.5+0.5*math32.Sin(a*2)))
	}
}
