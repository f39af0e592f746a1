package ui

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// flashFor is how long the last score change stays highlighted.
const flashFor = 0.8 // seconds

// drawBoard draws the HUD and the grid for a round in progress.
func (a *App) drawBoard() {
	a.drawHUD()

	state := a.game.Engine().State()
	grid := a.boardLayout()
	pending := -1
	if len(state.Pending) == 1 {
		pending = state.Pending[0]
	}

	for _, c := range state.Cells {
		dst := rect(grid.CellRect(c.Index))

		if !c.Revealed && !c.Matched {
			rl.DrawRectangleRec(dst, a.r.Theme.CellBack)
			rl.DrawRectangleLinesEx(dst, 2, a.r.Theme.CellBorder)
			continue
		}

		tex, err := a.textures.Get(c.Patch, state.Config.Palette)
		if err != nil {
			continue
		}
		src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
		rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)

		switch {
		case c.Matched:
			rl.DrawRectangleRec(dst, a.r.Theme.MatchedTint)
		case c.Index == pending:
			rl.DrawRectangleLinesEx(dst, 4, a.r.Theme.PendingBorder)
		default:
			rl.DrawRectangleLinesEx(dst, 4, a.r.Theme.ScoreDown)
		}
	}

	a.drawCellOverlays(state)
	a.drawFrameTimes()
	legend := a.overlays.Legend()
	lw := rl.MeasureText(legend, a.r.Theme.FontSize*3/4)
	rl.DrawText(legend, int32(rl.GetScreenWidth())-lw-a.r.Theme.Padding, int32(rl.GetScreenHeight())-a.r.Theme.FontSize, a.r.Theme.FontSize*3/4, a.r.Theme.LabelColor)
}

func (a *App) drawHUD() {
	t := a.r.Theme
	width := int32(rl.GetScreenWidth())
	a.r.DrawPanel(0, 0, width, hudHeight)

	eng := a.game.Engine()
	y := (hudHeight - t.HeaderSize) / 2

	scoreColor := t.ValueColor
	if a.lastDelta != 0 && a.game.Now().Sub(a.lastSelection).Seconds() < flashFor {
		scoreColor = t.ScoreUp
		if a.lastDelta < 0 {
			scoreColor = t.ScoreDown
		}
	}
	rl.DrawText("Score: "+strconv.Itoa(eng.Score()), t.Padding, y, t.HeaderSize, scoreColor)
	rl.DrawText("Time: "+formatElapsed(eng.Elapsed()), t.Padding+220, y, t.HeaderSize, t.ValueColor)

	choice := a.game.Choice()
	info := fmt.Sprintf("%s  %s  %s", choice.Tier, a.game.GridLabel(), choice.Palette)
	rl.DrawText(info, t.Padding+440, y+4, t.FontSize, t.LabelColor)

	bx := float32(width-t.Padding) - t.ButtonWidth
	by := (float32(hudHeight) - t.ButtonHeight) / 2
	if a.r.Button(bx, by, "End Game") {
		a.game.EndRound()
	}
}
