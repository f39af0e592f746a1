// Package ui is the raylib display surface of the game: it draws the
// start, playing and end screens, turns clicks into game actions and keeps
// the patch textures on the GPU.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gabor/ui/layout"
)

// Theme holds UI styling constants.
type Theme struct {
	Background    rl.Color
	PanelBg       rl.Color
	PanelBorder   rl.Color
	TitleColor    rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	CellBack      rl.Color // Face-down cell
	CellBorder    rl.Color
	PendingBorder rl.Color // First cell of a pair
	MatchedTint   rl.Color // Drawn over matched patches
	ScoreUp       rl.Color
	ScoreDown     rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FontSize      int32
	HeaderSize    int32
	TitleSize     int32
	ButtonWidth   float32
	ButtonHeight  float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    rl.Color{R: 24, G: 28, B: 34, A: 255},
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		TitleColor:    rl.RayWhite,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		CellBack:      rl.Color{R: 70, G: 82, B: 98, A: 255},
		CellBorder:    rl.Color{R: 110, G: 125, B: 140, A: 255},
		PendingBorder: rl.Yellow,
		MatchedTint:   rl.Color{R: 255, G: 255, B: 255, A: 90},
		ScoreUp:       rl.Color{R: 100, G: 200, B: 100, A: 255},
		ScoreDown:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		Padding:       16,
		LineHeight:    28,
		LabelWidth:    90,
		FontSize:      20,
		HeaderSize:    24,
		TitleSize:     40,
		ButtonWidth:   180,
		ButtonHeight:  40,
	}
}

// rect converts a layout rectangle to raylib's.
func rect(r layout.Rect) rl.Rectangle {
	return rl.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
