// Package game ties the session engine to the screens, timers and telemetry
// of a play session. It is independent of the renderer; the ui package and
// headless runs both drive it.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/session"
	"github.com/pthm-cable/gabor/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed      int64  // RNG seed
	OutputDir string // CSV and config output, empty disables
	LogStats  bool   // Log round and frame stats via slog
	Headless  bool   // Drive the engine from a simulated clock

	// Now overrides the engine clock when not headless.
	Now func() time.Time
}

// Game is one play session: a sequence of rounds on a single engine.
type Game struct {
	cfg      *config.Config
	settings session.Settings
	rng      *rand.Rand
	logger   *slog.Logger

	engine    *session.Engine
	scheduler *Scheduler
	sim       *SimClock
	now       func() time.Time

	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	screen Screen
	choice session.RoundConfig

	lastStats     telemetry.RoundStats
	lastBookmarks []telemetry.Bookmark
	rounds        int
}

// NewGame creates a session on the start screen with the configured defaults selected.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:       cfg,
		settings:  session.SettingsFromConfig(cfg),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		logger:    slog.Default(),
		scheduler: NewScheduler(),
		collector: telemetry.NewCollector(),
		bookmarks: telemetry.NewBookmarkDetector(10),
		logStats:  opts.LogStats,
		now:       time.Now,
	}

	switch {
	case opts.Headless:
		g.sim = NewSimClock(time.Unix(0, 0).UTC())
		g.now = g.sim.Now
	case opts.Now != nil:
		g.now = opts.Now
	}
	g.perf = telemetry.NewPerfCollectorWithClock(cfg.Screen.TargetFPS, g.now)

	g.engine = session.New(g.settings,
		session.WithRand(rand.New(rand.NewSource(g.rng.Int63()))),
		session.WithClock(g.now),
		session.WithLogger(g.logger),
	)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := g.selectDefaults(); err != nil {
		g.output.Close()
		return nil, err
	}
	return g, nil
}

// selectDefaults loads the configured start screen choices.
func (g *Game) selectDefaults() error {
	d := g.cfg.Defaults
	rows, cols, err := config.ParseGrid(d.Grid)
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	g.choice = session.RoundConfig{Palette: d.Palette, Rows: rows, Cols: cols, Tier: d.Tier}
	g.applyLockedGrid()
	return g.configure()
}

// Config returns the loaded configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Settings returns the engine settings derived from the config.
func (g *Game) Settings() session.Settings {
	return g.settings
}

// Engine returns the session engine for read access by the renderer.
// Mutations must go through Game so timers and telemetry stay in step.
func (g *Game) Engine() *session.Engine {
	return g.engine
}

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// Scheduler returns the frame-time scheduler.
func (g *Game) Scheduler() *Scheduler {
	return g.scheduler
}

// Now returns the game clock.
func (g *Game) Now() time.Time {
	return g.now()
}

// Rounds returns the number of rounds finished this session.
func (g *Game) Rounds() int {
	return g.rounds
}

// LastStats returns the statistics of the most recently finished round.
func (g *Game) LastStats() telemetry.RoundStats {
	return g.lastStats
}

// LastBookmarks returns the bookmarks raised by the most recently finished round.
func (g *Game) LastBookmarks() []telemetry.Bookmark {
	return g.lastBookmarks
}

// Advance moves frame time forward, running any mismatch timers that come due.
func (g *Game) Advance(dt time.Duration) {
	if g.sim != nil {
		g.sim.Advance(dt)
	}
	g.scheduler.Advance(dt)
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
