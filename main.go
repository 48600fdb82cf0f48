// Command gator is an interactive alligator noise preview with sliders for
// the fractal parameters, mouse pan and zoom, and config hot reload.
//
// Usage: go run . -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gator/camera"
	"github.com/pthm-cable/gator/config"
	"github.com/pthm-cable/gator/field"
	"github.com/pthm-cable/gator/imaging"
	"github.com/pthm-cable/gator/noise"
	"github.com/pthm-cable/gator/telemetry"
)

const (
	panelWidth = 300
	// Domain units visible across the narrower side of the view at startup.
	homeSpan = 8.0
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	watch := flag.Bool("watch", true, "Reload the config file when it changes")
	logStats := flag.Bool("log-stats", false, "Log sampling perf stats via slog")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	var updates <-chan config.Update
	if *watch && *configPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch, err := config.Watch(ctx, *configPath)
		if err != nil {
			slog.Warn("config hot reload disabled", "error", err)
		} else {
			updates = ch
		}
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Preview.Width), int32(cfg.Preview.Height), "Alligator Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Preview.TargetFPS))

	p, err := newPreview(cfg)
	if err != nil {
		slog.Error("failed to start preview", "error", err)
		os.Exit(1)
	}
	defer p.Unload()

	for !rl.WindowShouldClose() {
		select {
		case u := <-updates:
			p.reload(u)
		default:
		}

		p.handleInput()
		if p.dirty {
			p.regenerate()
			if *logStats && p.runs%cfg.Telemetry.PerfWindow == 0 {
				p.perf.Stats().LogStats()
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		p.draw()
		rl.EndDrawing()
	}
}

// preview holds the interactive state: the noise parameters being edited,
// the camera over the noise plane and the sampled field behind the texture.
type preview struct {
	cfg   *config.Config
	noise config.NoiseConfig
	z     float64

	cam     *camera.Camera
	pool    *field.Pool
	field   *field.Field
	ramp    *imaging.Ramp
	sampler *noise.Sampler
	perf    *telemetry.PerfCollector

	pixels  []color.RGBA
	texture rl.Texture2D
	gridW   int
	gridH   int

	dirty  bool
	runs   int
	status string
}

func newPreview(cfg *config.Config) (*preview, error) {
	p := &preview{
		cfg:   cfg,
		noise: cfg.Noise,
		z:     cfg.Image.Origin.Z,
		pool:  field.NewPool(cfg.Derived.Workers),
		perf:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}
	if err := p.apply(cfg); err != nil {
		p.pool.Stop()
		return nil, err
	}
	return p, nil
}

// apply rebuilds everything derived from cfg.
func (p *preview) apply(cfg *config.Config) error {
	ramp, err := imaging.NewRamp(cfg.Image.Ramp)
	if err != nil {
		return err
	}
	sampler, err := noise.NewSampler(cfg.Noise)
	if err != nil {
		return err
	}

	p.cfg = cfg
	p.noise = cfg.Noise
	p.ramp = ramp
	p.sampler = sampler

	viewW, viewH := p.viewSize()
	p.cam = camera.New(viewW, viewH, cfg.Image.Origin.X, cfg.Image.Origin.Y, homeSpan)
	p.resizeGrid()
	p.dirty = true
	return nil
}

// viewSize returns the pixel size of the noise view left of the panel.
func (p *preview) viewSize() (float64, float64) {
	w := float64(rl.GetScreenWidth() - panelWidth)
	if w < 1 {
		w = 1
	}
	return w, float64(rl.GetScreenHeight())
}

// resizeGrid sizes the field to the view aspect and recreates the texture.
func (p *preview) resizeGrid() {
	viewW, viewH := p.viewSize()
	w := p.cfg.Preview.GridSize
	h := int(float64(w) * viewH / viewW)
	if h < 1 {
		h = 1
	}
	if w == p.gridW && h == p.gridH {
		return
	}

	if p.gridW > 0 {
		rl.UnloadTexture(p.texture)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	p.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	p.gridW, p.gridH = w, h
	p.field = field.New(w, h, 1)
	p.pixels = make([]color.RGBA, w*h)
	p.perf.SetSamplesPerRun(w * h)
}

func (p *preview) reload(u config.Update) {
	if u.Err != nil {
		slog.Warn("config reload failed", "error", u.Err)
		p.status = "reload failed: " + u.Err.Error()
		return
	}
	if err := p.apply(u.Config); err != nil {
		slog.Warn("config reload rejected", "error", err)
		p.status = "reload rejected: " + err.Error()
		return
	}
	slog.Info("config reloaded", "basis", u.Config.Noise.Basis, "octaves", u.Config.Noise.Octaves)
	p.status = "config reloaded"
}

// rebuildSampler applies slider edits. Slider ranges keep the parameters
// valid, so an error here means the basis itself is bad.
func (p *preview) rebuildSampler() {
	s, err := noise.NewSampler(p.noise)
	if err != nil {
		p.status = err.Error()
		return
	}
	p.sampler = s
	p.dirty = true
}

func (p *preview) handleInput() {
	if rl.IsWindowResized() {
		p.cam.Resize(p.viewSize())
		p.resizeGrid()
		p.dirty = true
	}

	mouse := rl.GetMousePosition()
	viewW, viewH := p.viewSize()
	inView := float64(mouse.X) < viewW && float64(mouse.Y) < viewH

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && inView {
		p.cam.ZoomAt(float64(mouse.X), float64(mouse.Y), math.Pow(1.1, float64(wheel)))
		p.dirty = true
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && inView {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			p.cam.Pan(-float64(d.X), -float64(d.Y))
			p.dirty = true
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		p.cam.Reset()
		p.dirty = true
	}
	if rl.IsKeyPressed(rl.KeyC) {
		text, err := p.noiseYAML()
		if err != nil {
			slog.Warn("copying noise settings failed", "error", err)
			p.status = err.Error()
		} else {
			rl.SetClipboardText(text)
			p.status = "noise settings copied"
		}
	}
}

// regenerate samples the visible region and uploads it to the texture.
func (p *preview) regenerate() {
	p.perf.Start()
	p.perf.StartPhase(telemetry.PhaseSample)
	region := p.cam.Region(p.gridW, p.gridH, p.z)
	p.pool.Fill(p.field, region, p.sampler)

	p.perf.StartPhase(telemetry.PhaseEncode)
	if p.cfg.Image.Normalize {
		p.field.Normalize()
	}
	for i, v := range p.field.Data {
		p.pixels[i] = p.ramp.At(v)
	}
	rl.UpdateTexture(p.texture, p.pixels)
	p.perf.End()

	p.runs++
	p.dirty = false
}

func (p *preview) draw() {
	viewW, viewH := p.viewSize()
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(p.gridW), Height: float32(p.gridH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(viewW), Height: float32(viewH)}
	rl.DrawTexturePro(p.texture, src, dst, rl.Vector2{}, 0, rl.White)

	p.drawPanel(float32(viewW) + 15)
}

// slider draws a labelled slider and returns the new value.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: panelWidth - 90, Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+panelWidth-80), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func (p *preview) drawPanel(panelX float32) {
	panelY := float32(15)

	rl.DrawText("Alligator Noise", int32(panelX), int32(panelY), 20, rl.DarkGray)
	panelY += 28
	rl.DrawText(fmt.Sprintf("basis: %s  seed: %d", p.noise.Basis, p.noise.Seed), int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 30

	changed := false

	freq := slider(panelX, &panelY, "Frequency", "%.2f", float32(p.noise.Frequency.X), 0.1, 8)
	if freq != float32(p.noise.Frequency.X) {
		p.noise.Frequency = config.Vec{X: float64(freq), Y: float64(freq), Z: float64(freq)}
		changed = true
	}

	oct := slider(panelX, &panelY, "Octaves", "%.0f", float32(p.noise.Octaves), 1, 8)
	if n := int(oct + 0.5); n != p.noise.Octaves {
		p.noise.Octaves = n
		changed = true
	}

	rough := slider(panelX, &panelY, "Roughness (amplitude per octave)", "%.2f", float32(p.noise.Roughness), 0, 1)
	if rough != float32(p.noise.Roughness) {
		p.noise.Roughness = float64(rough)
		changed = true
	}

	lac := slider(panelX, &panelY, "Lacunarity (frequency per octave)", "%.2f", float32(p.noise.Lacunarity), 1, 4)
	if lac != float32(p.noise.Lacunarity) {
		p.noise.Lacunarity = float64(lac)
		changed = true
	}

	att := slider(panelX, &panelY, "Attenuation (exponent)", "%.2f", float32(p.noise.Attenuation), 0.1, 4)
	if att != float32(p.noise.Attenuation) {
		p.noise.Attenuation = float64(att)
		changed = true
	}

	seedMax := float32(9999)
	if s := float32(p.noise.Seed); s > seedMax {
		seedMax = s
	}
	seed := slider(panelX, &panelY, "Seed", "%.0f", float32(p.noise.Seed), 0, seedMax)
	if s := int64(seed); s != p.noise.Seed {
		p.noise.Seed = s
		changed = true
	}

	z := slider(panelX, &panelY, "Z (slice depth)", "%.2f", float32(p.z), -4, 4)
	if z != float32(p.z) {
		p.z = float64(z)
		p.dirty = true
	}

	if changed {
		p.rebuildSampler()
	}

	panelY += 10
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset View") {
		p.cam.Reset()
		p.dirty = true
	}
	if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Defaults") {
		p.noise = p.cfg.Noise
		p.z = p.cfg.Image.Origin.Z
		p.rebuildSampler()
	}
	panelY += 45

	minX, minY, maxX, maxY := p.cam.VisibleWorldBounds()
	rl.DrawText(fmt.Sprintf("view: [%.2f, %.2f] x [%.2f, %.2f]", minX, maxX, minY, maxY), int32(panelX), int32(panelY), 12, rl.Gray)
	panelY += 16
	rl.DrawText(fmt.Sprintf("grid: %dx%d  fps: %d", p.gridW, p.gridH, rl.GetFPS()), int32(panelX), int32(panelY), 12, rl.Gray)
	panelY += 16
	if p.status != "" {
		rl.DrawText(p.status, int32(panelX), int32(panelY), 12, rl.Maroon)
	}

	h := int32(rl.GetScreenHeight())
	rl.DrawText("Drag to pan, wheel to zoom, R reset", int32(panelX), h-46, 12, rl.LightGray)
	rl.DrawText("C copies noise settings as YAML", int32(panelX), h-30, 12, rl.LightGray)
}

// noiseYAML formats the edited noise section for pasting into a config file.
func (p *preview) noiseYAML() (string, error) {
	data, err := config.NoiseYAML(p.noise)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unload releases GPU resources and stops the worker pool.
func (p *preview) Unload() {
	rl.UnloadTexture(p.texture)
	p.pool.Stop()
}
