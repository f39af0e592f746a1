package telemetry

import (
	"time"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/session"
)

// Collector accumulates selection events for the current round and
// produces RoundStats when the round is flushed.
type Collector struct {
	round   int
	tier    string
	grid    string
	palette string
	pairs   int

	lastTurn time.Time
	turns    []float64

	matches    int
	mismatches int
	ignored    int
	resolved   int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Begin resets the counters for a freshly started round.
func (c *Collector) Begin(state session.State) {
	*c = Collector{
		round:    state.Round,
		tier:     state.Config.Tier,
		grid:     config.FormatGrid(state.Config.Rows, state.Config.Cols),
		palette:  state.Config.Palette,
		pairs:    len(state.Cells) / 2,
		lastTurn: state.StartedAt,
	}
}

// RecordSelection records the outcome of a selection made at time at.
func (c *Collector) RecordSelection(sel session.Selection, at time.Time) {
	switch sel.Outcome {
	case session.OutcomeIgnored:
		c.ignored++
		return
	case session.OutcomeAwaitingSecond:
		return
	case session.OutcomeMatch:
		c.matches++
	case session.OutcomeMismatch:
		c.mismatches++
	}

	c.turns = append(c.turns, at.Sub(c.lastTurn).Seconds())
	c.lastTurn = at
}

// RecordResolve records a mismatch that was hidden again.
func (c *Collector) RecordResolve() {
	c.resolved++
}

// Attempts returns the number of scored pairs so far.
func (c *Collector) Attempts() int {
	return c.matches + c.mismatches
}

// Flush produces the RoundStats for the round described by state.
func (c *Collector) Flush(state session.State, elapsed time.Duration) RoundStats {
	var accuracy float64
	if attempts := c.Attempts(); attempts > 0 {
		accuracy = float64(c.matches) / float64(attempts)
	}

	mean, std, p10, p50, p90 := ComputeTurnStats(c.turns)

	return RoundStats{
		Round:      c.round,
		Tier:       c.tier,
		Grid:       c.grid,
		Palette:    c.palette,
		Complete:   state.Complete(),
		Score:      state.Score,
		ElapsedSec: elapsed.Seconds(),
		Pairs:      c.pairs,
		Matches:    c.matches,
		Mismatches: c.mismatches,
		Ignored:    c.ignored,
		Resolved:   c.resolved,
		Accuracy:   accuracy,
		TurnMean:   mean,
		TurnStd:    std,
		TurnP10:    p10,
		TurnP50:    p50,
		TurnP90:    p90,
	}
}
