package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
)

const (
	toggleWidth  = 130
	toggleHeight = 36
	toggleGap    = 4
)

// drawStart draws the palette, grid and difficulty choices and the Start button.
func (a *App) drawStart() {
	g := a.game
	cfg := g.Config()
	choice := g.Choice()
	cx := int32(rl.GetScreenWidth() / 2)

	y := a.r.DrawTitle(cx, 60, "Gabor Match")
	y += a.r.Theme.Padding

	if i, changed := a.choose(cx, &y, "Palette", cfg.Palettes, choice.Palette, false); changed {
		a.report(g.SetPalette(cfg.Palettes[i]))
	}
	if i, changed := a.choose(cx, &y, "Grid", cfg.Grids, g.GridLabel(), g.GridLocked()); changed {
		a.report(g.SetGrid(cfg.Grids[i]))
	}
	tiers := cfg.TierNames()
	if i, changed := a.choose(cx, &y, "Difficulty", tiers, choice.Tier, false); changed {
		a.report(g.SetTier(tiers[i]))
	}

	y += a.r.Theme.Padding
	if a.r.Button(float32(cx)-a.r.Theme.ButtonWidth/2, float32(y), "Start") {
		a.report(g.Start())
	}
	y += int32(a.r.Theme.ButtonHeight) + a.r.Theme.Padding

	if a.message != "" {
		w := rl.MeasureText(a.message, a.r.Theme.FontSize)
		rl.DrawText(a.message, cx-w/2, y, a.r.Theme.FontSize, a.r.Theme.ScoreDown)
	}
}

// choose draws a labeled toggle group centered on cx and advances y past it.
// It returns the clicked index and whether it differs from current.
func (a *App) choose(cx int32, y *int32, label string, options []string, current string, locked bool) (int, bool) {
	*y = a.r.DrawHeader(cx-a.groupWidth(len(options))/2, *y, label)

	active := int32(0)
	for i, o := range options {
		if o == current {
			active = int32(i)
		}
	}

	bounds := rl.Rectangle{
		X:      float32(cx - a.groupWidth(len(options))/2),
		Y:      float32(*y),
		Width:  toggleWidth,
		Height: toggleHeight,
	}
	if locked {
		gui.SetState(gui.STATE_DISABLED)
	}
	next := gui.ToggleGroup(bounds, strings.Join(options, ";"), active)
	if locked {
		gui.SetState(gui.STATE_NORMAL)
	}

	*y += toggleHeight + a.r.Theme.Padding*2
	if locked || next == active || int(next) >= len(options) || next < 0 {
		return 0, false
	}
	return int(next), true
}

func (a *App) groupWidth(n int) int32 {
	if n == 0 {
		return 0
	}
	return int32(n)*toggleWidth + int32(n-1)*toggleGap
}

// report shows err on the start screen, or clears the message.
func (a *App) report(err error) {
	if err != nil {
		a.message = err.Error()
		return
	}
	a.message = ""
}
