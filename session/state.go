package session

import (
	"fmt"
	"time"

	"github.com/pthm-cable/gabor/kernel"
)

// Phase is the engine's lifecycle stage.
type Phase int

const (
	PhaseIdle        Phase = iota // No configuration yet
	PhaseConfiguring              // Configuration accepted, no patches
	PhasePlaying                  // Round in progress
	PhaseEnded                    // All pairs matched or round ended explicitly
)

var phaseNames = [...]string{"idle", "configuring", "playing", "ended"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("session: unknown phase %q", text)
}

// RoundConfig is what the start screen collects.
type RoundConfig struct {
	Palette string `yaml:"palette" json:"palette"`
	Rows    int    `yaml:"rows" json:"rows"`
	Cols    int    `yaml:"cols" json:"cols"`
	Tier    string `yaml:"tier" json:"tier"`
}

// Cells returns the number of grid slots.
func (c RoundConfig) Cells() int {
	return c.Rows * c.Cols
}

// Cell is one slot in the grid. Patch is shared by both cells of a pair.
type Cell struct {
	Index    int           `yaml:"index" json:"index"`
	Identity Identity      `yaml:"identity" json:"identity"`
	Contrast float64       `yaml:"contrast" json:"contrast"`
	Revealed bool          `yaml:"revealed" json:"revealed"`
	Matched  bool          `yaml:"matched" json:"matched"`
	Patch    *kernel.Patch `yaml:"-" json:"-"`
}

// Pair is an unordered pair of cell indices, stored with A < B.
type Pair struct {
	A int `yaml:"a" json:"a"`
	B int `yaml:"b" json:"b"`
}

// NewPair orders i and j.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

// State is a snapshot of a session. Slices are owned by the caller.
type State struct {
	Phase      Phase       `yaml:"phase" json:"phase"`
	Round      int         `yaml:"round" json:"round"`
	Config     RoundConfig `yaml:"config" json:"config"`
	Cells      []Cell      `yaml:"cells" json:"cells"`
	Score      int         `yaml:"score" json:"score"`
	StartedAt  time.Time   `yaml:"started_at" json:"started_at"`
	EndedAt    time.Time   `yaml:"ended_at,omitempty" json:"ended_at,omitempty"`
	Pending    []int       `yaml:"pending" json:"pending"`
	Matched    []int       `yaml:"matched" json:"matched"`
	Mismatches []Pair      `yaml:"mismatches" json:"mismatches"` // Revealed pairs awaiting ResolveMismatch
}

// Complete reports whether every cell is matched.
func (s State) Complete() bool {
	return len(s.Cells) > 0 && len(s.Matched) == len(s.Cells)
}

// Elapsed returns the round duration as of now. An ended round is frozen
// at its end time.
func (s State) Elapsed(now time.Time) time.Duration {
	switch s.Phase {
	case PhasePlaying:
		return now.Sub(s.StartedAt)
	case PhaseEnded:
		return s.EndedAt.Sub(s.StartedAt)
	}
	return 0
}

// Outcome classifies what a selection did.
type Outcome int

const (
	OutcomeIgnored        Outcome = iota // Duplicate, matched, revealed or not playing
	OutcomeAwaitingSecond                // First cell of a pair
	OutcomeMatch
	OutcomeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAwaitingSecond:
		return "awaiting_second"
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Selection is the result of SelectCell.
type Selection struct {
	Outcome    Outcome
	Index      int
	Pair       Pair          // Set for match and mismatch
	ScoreDelta int           // Signed change applied to the score
	Score      int           // Score after the selection
	RoundEnded bool          // This selection completed the grid
	HideAfter  time.Duration // Mismatch only: when the caller should ResolveMismatch
}
