package leaffall

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ClearColor fills the screen before the engine draws. The zero value
	// leaves the screen untouched.
	ClearColor Color
	// Debug enables Engine.SetDebugMode.
	Debug bool
	// UpdateFunc, when set, runs every tick before the engine updates.
	// Returning an error stops the game loop.
	UpdateFunc func() error
	// DrawFunc, when set, runs every frame after the engine draws.
	DrawFunc func(screen *ebiten.Image)
}

// game adapts an Engine to ebiten.Game.
type game struct {
	engine        *Engine
	cfg           RunConfig
	width, height int
}

func (g *game) Update() error {
	if g.cfg.UpdateFunc != nil {
		if err := g.cfg.UpdateFunc(); err != nil {
			return err
		}
	}
	g.engine.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	}
	g.engine.Draw(screen)
	if g.cfg.DrawFunc != nil {
		g.cfg.DrawFunc(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.engine.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and drives engine until the window closes
// or UpdateFunc returns an error. The engine is closed on return.
func Run(engine *Engine, cfg RunConfig) error {
	defer engine.Close()
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	engine.SetDebugMode(cfg.Debug)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{engine: engine, cfg: cfg})
}
