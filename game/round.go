package game

import (
	"errors"
	"time"

	"github.com/pthm-cable/gabor/session"
	"github.com/pthm-cable/gabor/telemetry"
)

// ErrRoundStalled is returned by PlayRound when the bot stops making progress.
var ErrRoundStalled = errors.New("game: round stalled")

// Start deals a round with the current choice and shows the playing screen.
func (g *Game) Start() error {
	state, err := g.engine.StartRound(g.choice)
	if err != nil {
		return err
	}
	g.scheduler.Clear()
	g.collector.Begin(state)
	g.screen = ScreenPlaying
	return nil
}

// Select forwards a click on cell i to the engine, records it and
// schedules the hide timer of a mismatch.
func (g *Game) Select(i int) (session.Selection, error) {
	sel, err := g.engine.SelectCell(i)
	if err != nil {
		return sel, err
	}
	g.collector.RecordSelection(sel, g.now())

	if g.cfg.Telemetry.LogSelections {
		g.logger.Debug("selection",
			"cell", i,
			"outcome", sel.Outcome.String(),
			"score", sel.Score,
		)
	}

	switch {
	case sel.Outcome == session.OutcomeMismatch:
		pair := sel.Pair
		g.scheduler.After(sel.HideAfter, func() { g.resolve(pair) })
	case sel.RoundEnded:
		g.finishRound()
	}
	return sel, nil
}

func (g *Game) resolve(p session.Pair) {
	hidden, err := g.engine.ResolveMismatch(p.A, p.B)
	if err != nil {
		g.logger.Error("resolving mismatch", "a", p.A, "b", p.B, "error", err)
		return
	}
	if hidden {
		g.collector.RecordResolve()
	}
}

// EndRound abandons the round in progress and shows the end screen.
func (g *Game) EndRound() {
	if g.engine.EndRound() {
		g.finishRound()
	}
}

// finishRound flushes telemetry for the ended round.
func (g *Game) finishRound() {
	g.scheduler.Clear()
	g.screen = ScreenEnd
	g.rounds++

	state := g.engine.State()
	stats := g.collector.Flush(state, g.engine.Elapsed())
	perf := g.perf.Stats()
	g.lastStats = stats
	g.lastBookmarks = g.bookmarks.Check(stats)

	if g.logStats {
		stats.LogStats()
		if g.perf.Samples() > 0 {
			perf.LogStats()
		}
		for _, bm := range g.lastBookmarks {
			bm.LogBookmark()
		}
	}

	if err := g.output.WriteRound(stats); err != nil {
		g.logger.Error("failed to write round", "error", err)
	}
	if g.perf.Samples() > 0 {
		if err := g.output.WritePerf(perf, stats.Round); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
	for _, bm := range g.lastBookmarks {
		if err := g.output.WriteBookmark(bm); err != nil {
			g.logger.Error("failed to write bookmark", "error", err)
		}
	}
}

// PlayRound plays one full round with bot, spending think frame time
// before each selection. It returns the round's statistics.
func (g *Game) PlayRound(bot *AutoPlayer, think time.Duration) (telemetry.RoundStats, error) {
	if err := g.Start(); err != nil {
		return telemetry.RoundStats{}, err
	}

	// Each step either selects a cell or waits out a hide delay.
	cells := g.choice.Cells()
	maxSteps := 4*cells*cells + 16
	wait := g.settings.MismatchDelay
	if wait <= 0 {
		wait = time.Millisecond
	}

	for step := 0; g.screen == ScreenPlaying; step++ {
		if step >= maxSteps {
			g.EndRound()
			return g.lastStats, ErrRoundStalled
		}

		state := g.engine.State()
		bot.Observe(state)
		i := bot.Next(state)
		if i < 0 {
			g.Advance(wait)
			continue
		}

		g.Advance(think)
		if _, err := g.Select(i); err != nil {
			g.EndRound()
			return g.lastStats, err
		}
	}
	return g.lastStats, nil
}
