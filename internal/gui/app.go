package gui

import (
	"fmt"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/hexbounce/internal/config"
	"github.com/san-kum/hexbounce/internal/physics"
)

var (
	ColBg      = rl.NewColor(15, 16, 20, 255)
	ColHex     = rl.NewColor(80, 160, 220, 255)
	ColHexFill = rl.NewColor(25, 30, 40, 255)
	ColText    = rl.NewColor(180, 200, 220, 255)
	ColTextDim = rl.NewColor(90, 100, 110, 255)
)

const (
	targetFPS = 120
	// maxFrameDt bounds a single tick after a stalled frame (window drag, breakpoint).
	maxFrameDt = 1.0 / 30
	hint       = "SPACE: shake | ESC: quit"
)

type App struct {
	cfg     *config.Config
	world   *physics.World
	seeded  physics.SeedResult
	logger  *log.Logger
	Running bool
	ShowHUD bool
}

// NewApp builds the world described by cfg. The window is not opened.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger, Running: true}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) reset() error {
	w, res, err := a.cfg.World(a.cfg.Rand())
	if err != nil {
		return err
	}
	if res.Placed < res.Requested && a.logger != nil {
		a.logger.Warn("partial seeding", "placed", res.Placed, "requested", res.Requested, "attempts", res.Attempts)
	}
	a.world, a.seeded = w, res
	return nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, logger *log.Logger) error {
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}

	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "hexbounce")
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update handles input and advances the world by the last frame's duration.
// ESC is raylib's default exit key.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.world.Shake(a.cfg.Shake.Magnitude)
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil && a.logger != nil {
			a.logger.Error("reset failed", "err", err)
		}
	}

	if !a.Running {
		return
	}
	dt := min(float64(rl.GetFrameTime()), maxFrameDt)
	a.world.Step(dt)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawContainer()
	a.drawBodies()

	rl.DrawText(hint, 12, 12, 16, ColText)
	if a.ShowHUD {
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	y := int32(a.cfg.Height) - 90
	lines := []string{
		fmt.Sprintf("t %.2fs  bodies %d/%d", a.world.Time, a.seeded.Placed, a.seeded.Requested),
		fmt.Sprintf("KE %.0f  contacts %d", a.world.KineticEnergy(), a.world.LastStats().Contacts()),
		fmt.Sprintf("%d FPS", rl.GetFPS()),
	}
	for _, l := range lines {
		rl.DrawText(l, 12, y, 14, ColTextDim)
		y += 20
	}
	if !a.Running {
		rl.DrawText("PAUSED", int32(a.cfg.Width)-90, 12, 16, ColText)
	}
}
