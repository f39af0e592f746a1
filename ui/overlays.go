package ui

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gabor/session"
	"github.com/pthm-cable/gabor/telemetry"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Debug overlays drawn over the board.
const (
	OverlayIdentities OverlayID = "identities"
	OverlayIndices    OverlayID = "indices"
	OverlayFrameTimes OverlayID = "frame_times"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the debug overlays, all off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	r.Register(OverlayDescriptor{ID: OverlayIdentities, Name: "Parameters", Key: rl.KeyI, KeyLabel: "I"})
	r.Register(OverlayDescriptor{ID: OverlayIndices, Name: "Indices", Key: rl.KeyN, KeyLabel: "N"})
	r.Register(OverlayDescriptor{ID: OverlayFrameTimes, Name: "Frame times", Key: rl.KeyF, KeyLabel: "F"})
	return r
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns the key hints, e.g. "[I] Parameters  [N] Indices".
func (r *OverlayRegistry) Legend() string {
	parts := make([]string, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		mark := " "
		if r.enabled[desc.ID] {
			mark = "*"
		}
		parts = append(parts, fmt.Sprintf("[%s]%s%s", desc.KeyLabel, mark, desc.Name))
	}
	return strings.Join(parts, "  ")
}

// drawCellOverlays labels each cell with its debug text.
func (a *App) drawCellOverlays(state session.State) {
	ids := a.overlays.IsEnabled(OverlayIdentities)
	idx := a.overlays.IsEnabled(OverlayIndices)
	if !ids && !idx {
		return
	}

	grid := a.boardLayout()
	size := a.r.Theme.FontSize * 3 / 4
	for _, c := range state.Cells {
		r := grid.CellRect(c.Index)
		x, y := int32(r.X)+4, int32(r.Y)+4
		if idx {
			rl.DrawText(fmt.Sprintf("#%d", c.Index), x, y, size, rl.Yellow)
			y += size + 2
		}
		if ids {
			id := c.Identity
			rl.DrawText(fmt.Sprintf("o%.0f w%.0f", id.Orientation*180/math.Pi, id.Wavelength), x, y, size, rl.Yellow)
			y += size + 2
			rl.DrawText(fmt.Sprintf("p%.0f c%.1f", id.Phase*180/math.Pi, c.Contrast), x, y, size, rl.Yellow)
		}
	}
}

// drawFrameTimes shows the rolling frame statistics in the bottom-left corner.
func (a *App) drawFrameTimes() {
	if !a.overlays.IsEnabled(OverlayFrameTimes) {
		return
	}
	stats := a.game.Perf().Stats()
	t := a.r.Theme
	lines := []string{
		fmt.Sprintf("frame %dus (min %d, max %d)", stats.AvgFrame.Microseconds(), stats.MinFrame.Microseconds(), stats.MaxFrame.Microseconds()),
	}
	for _, phase := range []string{telemetry.PhaseInput, telemetry.PhaseTimers, telemetry.PhaseTextures, telemetry.PhaseDraw} {
		lines = append(lines, fmt.Sprintf("%-9s %5.1f%%", phase, stats.PhasePct[phase]))
	}
	lines = append(lines, fmt.Sprintf("textures  %d", a.textures.Len()))

	h := int32(len(lines))*t.FontSize + 2*t.Padding
	y := int32(rl.GetScreenHeight()) - h - t.Padding
	a.r.DrawPanel(t.Padding, y, 300, h)
	for i, line := range lines {
		rl.DrawText(line, 2*t.Padding, y+t.Padding+int32(i)*t.FontSize, t.FontSize*4/5, t.LabelColor)
	}
}
