package game

import (
	"fmt"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/session"
)

// Screen is the page the display shows.
type Screen int

const (
	ScreenStart   Screen = iota // Palette, grid and tier selection
	ScreenPlaying               // Grid, score, timer
	ScreenEnd                   // Final score and time
)

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenPlaying:
		return "playing"
	case ScreenEnd:
		return "end"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// Screen returns the current screen.
func (g *Game) Screen() Screen {
	return g.screen
}

// Choice returns the round configuration selected on the start screen.
func (g *Game) Choice() session.RoundConfig {
	return g.choice
}

// SetPalette selects a palette for the next round.
func (g *Game) SetPalette(name string) error {
	prev := g.choice
	g.choice.Palette = name
	return g.commit(prev)
}

// SetGrid selects a "RxC" grid for the next round. It is ignored while
// the selected tier locks the grid.
func (g *Game) SetGrid(label string) error {
	if g.GridLocked() {
		return nil
	}
	rows, cols, err := config.ParseGrid(label)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrInvalidConfiguration, err)
	}
	prev := g.choice
	g.choice.Rows, g.choice.Cols = rows, cols
	return g.commit(prev)
}

// SetTier selects a tier for the next round, applying its locked grid.
func (g *Game) SetTier(name string) error {
	prev := g.choice
	g.choice.Tier = name
	g.applyLockedGrid()
	return g.commit(prev)
}

// GridLocked reports whether the selected tier forces the grid size.
func (g *Game) GridLocked() bool {
	t, ok := g.cfg.Tier(g.choice.Tier)
	return ok && t.LockedGrid != ""
}

// GridLabel returns the selected grid as "RxC".
func (g *Game) GridLabel() string {
	return config.FormatGrid(g.choice.Rows, g.choice.Cols)
}

func (g *Game) applyLockedGrid() {
	t, ok := g.cfg.Tier(g.choice.Tier)
	if !ok || t.LockedGrid == "" {
		return
	}
	// LockedGrid is validated when the config loads.
	rows, cols, _ := config.ParseGrid(t.LockedGrid)
	g.choice.Rows, g.choice.Cols = rows, cols
}

// commit validates the new choice with the engine, restoring prev on error.
func (g *Game) commit(prev session.RoundConfig) error {
	if g.screen == ScreenPlaying {
		g.choice = prev
		return fmt.Errorf("%w: cannot change settings during a round", session.ErrInvalidConfiguration)
	}
	if err := g.configure(); err != nil {
		g.choice = prev
		return err
	}
	return nil
}

func (g *Game) configure() error {
	if err := g.engine.Configure(g.choice); err != nil {
		return err
	}
	g.screen = ScreenStart
	return nil
}

// PlayAgain returns to the start screen keeping the previous choices.
func (g *Game) PlayAgain() {
	if g.screen != ScreenEnd {
		return
	}
	if err := g.configure(); err != nil {
		g.logger.Error("reconfiguring after round", "error", err)
	}
}
