package ui

import (
	"fmt"
	"strconv"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawEnd shows the final score and time of the last round.
func (a *App) drawEnd() {
	t := a.r.Theme
	stats := a.game.LastStats()
	cx := int32(rl.GetScreenWidth() / 2)

	title := "Round Ended"
	if stats.Complete {
		title = "All Pairs Found"
	}
	y := a.r.DrawTitle(cx, 80, title)

	panelW := int32(360)
	x := cx - panelW/2
	rows := []struct {
		label, value string
	}{
		{"Score", strconv.Itoa(stats.Score)},
		{"Time", formatElapsed(time.Duration(stats.ElapsedSec * float64(time.Second)))},
		{"Pairs", fmt.Sprintf("%d / %d", stats.Matches, stats.Pairs)},
		{"Misses", strconv.Itoa(stats.Mismatches)},
		{"Accuracy", fmt.Sprintf("%.0f%%", stats.Accuracy*100)},
	}
	a.r.DrawPanel(x, y, panelW, int32(len(rows))*t.LineHeight+2*t.Padding)
	ry := y + t.Padding
	for _, row := range rows {
		ry = a.r.DrawLabelValue(x+t.Padding, ry, row.label, row.value, t.ValueColor)
	}
	y = ry + 2*t.Padding

	for _, bm := range a.game.LastBookmarks() {
		w := rl.MeasureText(bm.Description, t.FontSize)
		rl.DrawText(bm.Description, cx-w/2, y, t.FontSize, t.ScoreUp)
		y += t.LineHeight
	}
	y += t.Padding

	if a.r.Button(float32(cx)-t.ButtonWidth/2, float32(y), "Play Again") {
		a.textures.Unload()
		a.game.PlayAgain()
	}
}
