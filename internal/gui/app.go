// Package gui is the windowed variant: it steps the scene once per frame and
// draws it with raylib until the window is closed.
package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/dropsim/internal/scene"
	"github.com/san-kum/dropsim/internal/sim"
)

// Theme Colors (Monochrome)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGround  = rl.NewColor(30, 30, 30, 255)
)

type Options struct {
	Width  int
	Height int
	FPS    int
	Title  string
	Logger *zap.Logger
}

type App struct {
	driver *sim.Driver
	opts   Options
	log    *zap.Logger

	Camera       rl.Camera3D
	CursorLocked bool
	Telemetry    []float64
	MaxTelemetry int
	last         sim.Sample
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
}

// NewApp wraps a driver. The window must already be open.
func NewApp(d *sim.Driver, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		driver:       d,
		opts:         opts,
		log:          log,
		Camera:       toCamera(scene.DefaultCamera()),
		MaxTelemetry: 300,
		Telemetry:    make([]float64, 0, 300),
		last:         d.Sample(),
	}
}

// Run opens a window, drives cfg until the window is closed or ctx is done,
// then shuts the scene and the window down.
func Run(ctx context.Context, cfg sim.Config, opts Options) error {
	d, err := sim.New(cfg, sim.WithLogger(opts.Logger))
	if err != nil {
		return err
	}
	defer d.Close()

	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(d, opts)
	app.log.Info("window opened", zap.Int("width", opts.Width), zap.Int("height", opts.Height))
	return app.RunLoop(ctx)
}

// RunLoop polls the close request once per iteration, steps the scene and
// draws the resulting frame.
func (a *App) RunLoop(ctx context.Context) error {
	return a.driver.RunUntil(ctx, rl.WindowShouldClose, func(s sim.Sample) {
		a.last = s
		a.Update()
		a.Draw()
	})
}

func (a *App) Update() {
	rl.UpdateCamera(&a.Camera, rl.CameraFree)

	if rl.IsKeyPressed(rl.KeyC) {
		a.CursorLocked = !a.CursorLocked
		if a.CursorLocked {
			rl.DisableCursor()
		} else {
			rl.EnableCursor()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.driver.Reset()
		a.Telemetry = a.Telemetry[:0]
		a.last = a.driver.Sample()
	}
	if rl.IsKeyPressed(rl.KeyZ) {
		a.Camera = toCamera(scene.DefaultCamera())
	}

	a.Telemetry = append(a.Telemetry, a.last.Height())
	if len(a.Telemetry) > a.MaxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	drawFrame(scene.Layout(a.last.Position, a.driver.Config().Radius))
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("dropsim", 30, 30, 24, ColSelect)

	y := int32(70)
	for _, line := range scene.HUD(a.last, a.CursorLocked) {
		rl.DrawText(line, 30, y, 16, ColText)
		y += 22
	}

	a.DrawTelemetry()

	h := int32(a.opts.Height)
	rl.DrawText("[C] CURSOR  [R] RESET  [Z] CAMERA  [ESC] QUIT", 30, h-30, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(a.opts.Width)-90, 30, 14, ColTextDim)
}

// DrawTelemetry plots recent heights as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, a.opts.Height-110
	width, height := 300, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(a.MaxTelemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
}
