package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/gabor/session"
)

func TestCollectorFlush(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	state := session.State{
		Phase:     session.PhasePlaying,
		Round:     3,
		Config:    session.RoundConfig{Palette: "Blues", Rows: 5, Cols: 4, Tier: "Easy"},
		Cells:     make([]session.Cell, 20),
		StartedAt: start,
	}

	c := NewCollector()
	c.Begin(state)

	events := []struct {
		outcome session.Outcome
		after   time.Duration
	}{
		{session.OutcomeAwaitingSecond, 1 * time.Second},
		{session.OutcomeMismatch, 2 * time.Second},
		{session.OutcomeIgnored, 3 * time.Second},
		{session.OutcomeAwaitingSecond, 4 * time.Second},
		{session.OutcomeMatch, 6 * time.Second},
		{session.OutcomeAwaitingSecond, 7 * time.Second},
		{session.OutcomeMatch, 12 * time.Second},
	}
	for _, ev := range events {
		c.RecordSelection(session.Selection{Outcome: ev.outcome}, start.Add(ev.after))
	}
	c.RecordResolve()

	if c.Attempts() != 3 {
		t.Errorf("expected 3 attempts, got %d", c.Attempts())
	}

	state.Score = 5
	stats := c.Flush(state, 12*time.Second)

	if stats.Round != 3 || stats.Tier != "Easy" || stats.Grid != "5x4" || stats.Palette != "Blues" {
		t.Errorf("unexpected round identity: %+v", stats)
	}
	if stats.Pairs != 10 {
		t.Errorf("expected 10 pairs, got %d", stats.Pairs)
	}
	if stats.Matches != 2 || stats.Mismatches != 1 || stats.Ignored != 1 || stats.Resolved != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if math.Abs(stats.Accuracy-2.0/3.0) > 1e-9 {
		t.Errorf("accuracy = %v, want 2/3", stats.Accuracy)
	}
	if stats.Complete {
		t.Error("round with no matched cells should not be complete")
	}
	if stats.ElapsedSec != 12 || stats.Score != 5 {
		t.Errorf("unexpected score/elapsed: %d %v", stats.Score, stats.ElapsedSec)
	}

	// Turns: 2s, 4s, 6s
	if math.Abs(stats.TurnMean-4) > 1e-9 || math.Abs(stats.TurnP50-4) > 1e-9 {
		t.Errorf("turn stats = mean %v p50 %v, want 4", stats.TurnMean, stats.TurnP50)
	}
}

func TestCollectorBeginResets(t *testing.T) {
	c := NewCollector()
	c.Begin(session.State{Round: 1, Cells: make([]session.Cell, 4)})
	c.RecordSelection(session.Selection{Outcome: session.OutcomeMatch}, time.Now())

	c.Begin(session.State{Round: 2, Cells: make([]session.Cell, 4)})
	stats := c.Flush(session.State{}, 0)
	if stats.Round != 2 || stats.Matches != 0 || stats.TurnMean != 0 {
		t.Errorf("Begin did not reset counters: %+v", stats)
	}
}
