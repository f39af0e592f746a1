package ui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gabor/game"
	"github.com/pthm-cable/gabor/telemetry"
	"github.com/pthm-cable/gabor/ui/layout"
)

// hudHeight is the strip above the board holding score, timer and buttons.
const hudHeight = 72

// App draws the game and routes input to it, one frame per Frame call.
type App struct {
	game     *game.Game
	r        *Renderer
	textures *PatchTextures
	overlays *OverlayRegistry

	message string // Last configuration error, shown on the start screen

	lastSelection time.Time
	lastDelta     int
}

// NewApp creates the display surface for g. Call after the window is open.
func NewApp(g *game.Game) *App {
	return &App{
		game:     g,
		r:        NewRenderer(),
		textures: NewPatchTextures(),
		overlays: NewOverlayRegistry(),
	}
}

// Frame runs input, timers and drawing for one frame of length dt.
func (a *App) Frame(dt time.Duration) {
	perf := a.game.Perf()
	perf.StartFrame()

	perf.StartPhase(telemetry.PhaseInput)
	a.handleInput()

	perf.StartPhase(telemetry.PhaseTimers)
	a.game.Advance(dt)

	perf.StartPhase(telemetry.PhaseTextures)
	a.prepareTextures()

	perf.StartPhase(telemetry.PhaseDraw)
	rl.BeginDrawing()
	rl.ClearBackground(a.r.Theme.Background)
	switch a.game.Screen() {
	case game.ScreenStart:
		a.drawStart()
	case game.ScreenPlaying:
		a.drawBoard()
	case game.ScreenEnd:
		a.drawEnd()
	}
	rl.EndDrawing()

	perf.EndFrame()
}

// Unload frees GPU resources.
func (a *App) Unload() {
	a.textures.Unload()
}

func (a *App) handleInput() {
	a.overlays.HandleKeys()
	if a.game.Screen() != game.ScreenPlaying || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	pos := rl.GetMousePosition()
	i, ok := a.boardLayout().CellAt(pos.X, pos.Y)
	if !ok {
		return
	}
	sel, err := a.game.Select(i)
	if err != nil {
		slog.Error("select failed", "cell", i, "error", err)
		return
	}
	if sel.ScoreDelta != 0 {
		a.lastDelta = sel.ScoreDelta
		a.lastSelection = a.game.Now()
	}
}

// prepareTextures uploads any newly dealt patches before drawing starts.
func (a *App) prepareTextures() {
	if a.game.Screen() != game.ScreenPlaying {
		return
	}
	state := a.game.Engine().State()
	for _, c := range state.Cells {
		if _, err := a.textures.Get(c.Patch, state.Config.Palette); err != nil {
			slog.Error("texture upload failed", "cell", c.Index, "error", err)
			return
		}
	}
}

// boardLayout fits the selected grid below the HUD.
func (a *App) boardLayout() layout.Grid {
	cfg := a.game.Config()
	choice := a.game.Choice()
	pad := float32(a.r.Theme.Padding)
	area := layout.Rect{
		X:      pad,
		Y:      hudHeight + pad,
		Width:  float32(rl.GetScreenWidth()) - 2*pad,
		Height: float32(rl.GetScreenHeight()) - hudHeight - 2*pad,
	}
	return layout.NewGrid(choice.Rows, choice.Cols, float32(cfg.Screen.CellSize), float32(cfg.Screen.CellGap), area)
}

// formatElapsed renders a duration as m:ss.t.
func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", m, s)
}
