// Package session runs the matching game: it deals a shuffled grid of
// duplicated Gabor patches for a round and applies the selection, scoring
// and timing rules.
//
// The engine is single-threaded and never blocks. The delay before a
// mismatched pair is hidden again is owned by the caller, which schedules
// ResolveMismatch after Selection.HideAfter.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/pthm-cable/gabor/kernel"
)

// Engine owns the round lifecycle and scoring.
type Engine struct {
	settings Settings
	rng      *rand.Rand
	now      func() time.Time
	logger   *slog.Logger

	state      State
	mismatches map[Pair]struct{}
	matched    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffling and contrast sampling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock sets the time source used for round timing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an idle engine.
func New(settings Settings, opts ...Option) *Engine {
	e := &Engine{
		settings:   settings,
		now:        time.Now,
		logger:     slog.Default(),
		mismatches: make(map[Pair]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.now().UnixNano()))
	}
	return e
}

// Settings returns the engine's fixed settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Phase returns the current lifecycle stage.
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.state.Score
}

// Elapsed returns the time since the round started, frozen once it ends.
func (e *Engine) Elapsed() time.Duration {
	return e.state.Elapsed(e.now())
}

// Cell returns the cell at index i.
func (e *Engine) Cell(i int) (Cell, error) {
	if err := e.checkIndex(i); err != nil {
		return Cell{}, err
	}
	return e.state.Cells[i], nil
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	s := e.state
	s.Cells = append([]Cell(nil), e.state.Cells...)
	s.Pending = append([]int(nil), e.state.Pending...)

	s.Matched = make([]int, 0, e.matched)
	for _, c := range e.state.Cells {
		if c.Matched {
			s.Matched = append(s.Matched, c.Index)
		}
	}

	s.Mismatches = make([]Pair, 0, len(e.mismatches))
	for p := range e.mismatches {
		s.Mismatches = append(s.Mismatches, p)
	}
	sort.Slice(s.Mismatches, func(i, j int) bool {
		if s.Mismatches[i].A != s.Mismatches[j].A {
			return s.Mismatches[i].A < s.Mismatches[j].A
		}
		return s.Mismatches[i].B < s.Mismatches[j].B
	})
	return s
}

// Configure validates cfg and discards any round in progress.
// On error the previous state is kept.
func (e *Engine) Configure(cfg RoundConfig) error {
	if _, err := e.validate(cfg); err != nil {
		return err
	}
	e.state = State{Phase: PhaseConfiguring, Round: e.state.Round, Config: cfg}
	e.mismatches = make(map[Pair]struct{})
	e.matched = 0
	return nil
}

func (e *Engine) validate(cfg RoundConfig) (Tier, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return Tier{}, fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalidConfiguration, cfg.Rows, cfg.Cols)
	}
	if cfg.Cells()%2 != 0 {
		return Tier{}, fmt.Errorf("%w: grid %dx%d has an odd cell count", ErrInvalidConfiguration, cfg.Rows, cfg.Cols)
	}
	tier, ok := e.settings.Tier(cfg.Tier)
	if !ok {
		return Tier{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidConfiguration, cfg.Tier)
	}
	if !e.settings.hasPalette(cfg.Palette) {
		return Tier{}, fmt.Errorf("%w: unknown palette %q", ErrInvalidConfiguration, cfg.Palette)
	}
	if len(tier.Identities()) == 0 || len(tier.Contrasts) == 0 {
		return Tier{}, fmt.Errorf("%w: tier %q has an empty parameter space", ErrInvalidConfiguration, cfg.Tier)
	}
	return tier, nil
}

// dealt is one generated patch before it is placed on the grid.
type dealt struct {
	identity Identity
	contrast float64
	patch    *kernel.Patch
}

// StartRound deals a new grid and enters PhasePlaying.
// On error the previous state is kept.
func (e *Engine) StartRound(cfg RoundConfig) (State, error) {
	tier, err := e.validate(cfg)
	if err != nil {
		return e.State(), err
	}

	ids := tier.Identities()
	e.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	// Small parameter spaces wrap around, so several pairs may share an identity.
	needed := cfg.Cells() / 2
	pool := ids
	for len(pool) < needed {
		pool = append(pool, ids...)
	}
	chosen := pool[:needed]

	// Contrast is drawn per pair; identical parameter sets share one patch.
	dealtParams := make([]kernel.Params, needed)
	index := make(map[kernel.Params]int, needed)
	var unique []kernel.Params
	for i, id := range chosen {
		params := e.settings.Kernel
		params.Orientation = id.Orientation
		params.Wavelength = id.Wavelength
		params.Phase = id.Phase
		params.Contrast = tier.Contrasts[e.rng.Intn(len(tier.Contrasts))]
		dealtParams[i] = params
		if _, ok := index[params]; !ok {
			index[params] = len(unique)
			unique = append(unique, params)
		}
	}

	patches, err := kernel.GenerateAll(unique)
	if err != nil {
		return e.State(), fmt.Errorf("%w: tier %q: %w", ErrInvalidConfiguration, tier.Name, err)
	}

	deck := make([]dealt, 0, 2*needed)
	for i, id := range chosen {
		params := dealtParams[i]
		deck = append(deck, dealt{identity: id, contrast: params.Contrast, patch: patches[index[params]]})
	}

	deck = append(deck, deck...)
	e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	cells := make([]Cell, len(deck))
	for i, d := range deck {
		cells[i] = Cell{Index: i, Identity: d.identity, Contrast: d.contrast, Patch: d.patch}
	}

	e.state = State{
		Phase:     PhasePlaying,
		Round:     e.state.Round + 1,
		Config:    cfg,
		Cells:     cells,
		StartedAt: e.now(),
	}
	e.mismatches = make(map[Pair]struct{})
	e.matched = 0

	e.logger.Info("round_started",
		"round", e.state.Round,
		"tier", cfg.Tier,
		"grid", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Cols),
		"palette", cfg.Palette,
		"identities", len(ids),
		"pairs", needed,
		"cycled", len(ids) < needed,
		"patches", len(unique),
	)

	return e.State(), nil
}

// SelectCell reveals cell i and, if it is the second of a pair, scores it.
func (e *Engine) SelectCell(i int) (Selection, error) {
	if err := e.checkIndex(i); err != nil {
		return Selection{}, err
	}

	sel := Selection{Outcome: OutcomeIgnored, Index: i, Score: e.state.Score}
	if e.state.Phase != PhasePlaying {
		return sel, nil
	}

	cell := &e.state.Cells[i]
	if cell.Matched || cell.Revealed {
		return sel, nil
	}

	if len(e.state.Pending) == 0 {
		cell.Revealed = true
		e.state.Pending = []int{i}
		sel.Outcome = OutcomeAwaitingSecond
		return sel, nil
	}

	first := &e.state.Cells[e.state.Pending[0]]
	cell.Revealed = true
	e.state.Pending = nil
	sel.Pair = NewPair(first.Index, i)

	if first.Patch.ApproxEqualTol(cell.Patch, e.settings.Tolerance) {
		first.Matched = true
		cell.Matched = true
		e.matched += 2
		sel.Outcome = OutcomeMatch
		sel.ScoreDelta = e.settings.MatchReward
	} else {
		e.mismatches[sel.Pair] = struct{}{}
		sel.Outcome = OutcomeMismatch
		sel.ScoreDelta = -e.settings.MismatchPenalty
		sel.HideAfter = e.settings.MismatchDelay
	}

	e.state.Score += sel.ScoreDelta
	sel.Score = e.state.Score

	if e.matched == len(e.state.Cells) {
		e.finish(true)
		sel.RoundEnded = true
	}
	return sel, nil
}

// ResolveMismatch hides a mismatched pair again. It reports whether the
// pair was still outstanding; stale or repeated calls, and calls after the
// round has ended, are no-ops.
func (e *Engine) ResolveMismatch(i, j int) (bool, error) {
	if err := e.checkIndex(i); err != nil {
		return false, err
	}
	if err := e.checkIndex(j); err != nil {
		return false, err
	}
	if e.state.Phase != PhasePlaying {
		return false, nil
	}

	p := NewPair(i, j)
	if _, ok := e.mismatches[p]; !ok {
		return false, nil
	}
	delete(e.mismatches, p)

	for _, idx := range []int{p.A, p.B} {
		if c := &e.state.Cells[idx]; !c.Matched {
			c.Revealed = false
		}
	}
	return true, nil
}

// EndRound ends the round immediately. It reports whether the phase changed.
func (e *Engine) EndRound() bool {
	if e.state.Phase != PhasePlaying {
		return false
	}
	e.finish(false)
	return true
}

func (e *Engine) finish(complete bool) {
	e.state.Phase = PhaseEnded
	e.state.EndedAt = e.now()
	e.state.Pending = nil

	e.logger.Info("round_ended",
		"round", e.state.Round,
		"tier", e.state.Config.Tier,
		"score", e.state.Score,
		"elapsed", e.state.EndedAt.Sub(e.state.StartedAt).Round(time.Millisecond).String(),
		"complete", complete,
		"matched", e.matched,
		"cells", len(e.state.Cells),
	)
}

func (e *Engine) checkIndex(i int) error {
	if i < 0 || i >= len(e.state.Cells) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, i, len(e.state.Cells))
	}
	return nil
}
