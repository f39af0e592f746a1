package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawTitle draws text horizontally centered on cx and returns the next Y.
func (r *Renderer) DrawTitle(cx, y int32, text string) int32 {
	w := rl.MeasureText(text, r.Theme.TitleSize)
	rl.DrawText(text, cx-w/2, y, r.Theme.TitleSize, r.Theme.TitleColor)
	return y + r.Theme.TitleSize + r.Theme.Padding
}

// DrawHeader draws a section header and returns the next Y.
func (r *Renderer) DrawHeader(x, y int32, text string) int32 {
	rl.DrawText(text, x, y, r.Theme.HeaderSize, r.Theme.LabelColor)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// Button draws a raygui button at (x, y) with the theme's size.
func (r *Renderer) Button(x, y float32, text string) bool {
	return gui.Button(rl.Rectangle{X: x, Y: y, Width: r.Theme.ButtonWidth, Height: r.Theme.ButtonHeight}, text)
}
