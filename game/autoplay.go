package game

import (
	"math/rand"

	"github.com/pthm-cable/gabor/kernel"
	"github.com/pthm-cable/gabor/session"
)

// AutoPlayer picks cells the way a player with a good memory would: it
// remembers every patch it has seen face up, completes a known pair when it
// can and otherwise turns over a cell it has not seen yet.
//
// Recall is the probability that a remembered patch is actually used when
// looking for a partner; 1 gives a perfect memory.
type AutoPlayer struct {
	rng    *rand.Rand
	recall float64
	tol    kernel.Tolerance

	round  int
	memory []*kernel.Patch // by cell index, nil until seen
}

// NewAutoPlayer creates a bot. recall is clamped to [0, 1].
func NewAutoPlayer(rng *rand.Rand, recall float64, tol kernel.Tolerance) *AutoPlayer {
	if recall < 0 {
		recall = 0
	}
	if recall > 1 {
		recall = 1
	}
	return &AutoPlayer{rng: rng, recall: recall, tol: tol}
}

// Observe records every face-up cell of the current round. It must be
// called after each selection so mismatched cells are seen before they
// are hidden again.
func (a *AutoPlayer) Observe(state session.State) {
	if state.Round != a.round || len(a.memory) != len(state.Cells) {
		a.round = state.Round
		a.memory = make([]*kernel.Patch, len(state.Cells))
	}
	for i, c := range state.Cells {
		if c.Revealed || c.Matched {
			a.memory[i] = c.Patch
		}
	}
}

// Seen returns how many cells of the current round have been observed.
func (a *AutoPlayer) Seen() int {
	n := 0
	for _, p := range a.memory {
		if p != nil {
			n++
		}
	}
	return n
}

// Next returns the cell to select, or -1 when the bot should wait for a
// mismatch to be hidden again: either no cell is hidden, or the pending
// cell's partner is still face up.
func (a *AutoPlayer) Next(state session.State) int {
	if len(a.memory) != len(state.Cells) {
		a.Observe(state)
	}
	hidden := func(i int) bool {
		c := state.Cells[i]
		return !c.Revealed && !c.Matched
	}
	// Face up from a mismatch that has not been hidden yet.
	showing := func(i int) bool {
		c := state.Cells[i]
		return c.Revealed && !c.Matched
	}

	if len(state.Pending) == 1 {
		self := state.Pending[0]
		first := a.memory[self]
		if j := a.recallPartner(first, self, hidden); j >= 0 {
			return j
		}
		if j := a.recallPartner(first, self, showing); j >= 0 {
			return -1
		}
		return a.explore(state, hidden)
	}

	// Start a pair we already know both halves of.
	for i, p := range a.memory {
		if p == nil || !hidden(i) {
			continue
		}
		if j := a.recallPartner(p, i, hidden); j >= 0 {
			return i
		}
	}
	return a.explore(state, hidden)
}

func (a *AutoPlayer) recallPartner(p *kernel.Patch, self int, eligible func(int) bool) int {
	if p == nil {
		return -1
	}
	for j, q := range a.memory {
		if j == self || q == nil || !eligible(j) {
			continue
		}
		if !p.ApproxEqualTol(q, a.tol) {
			continue
		}
		if a.recall >= 1 || a.rng.Float64() < a.recall {
			return j
		}
	}
	return -1
}

// explore picks a random hidden cell, preferring ones never seen.
func (a *AutoPlayer) explore(state session.State, hidden func(int) bool) int {
	var unseen, known []int
	for i := range state.Cells {
		if !hidden(i) {
			continue
		}
		if a.memory[i] == nil {
			unseen = append(unseen, i)
		} else {
			known = append(known, i)
		}
	}
	switch {
	case len(unseen) > 0:
		return unseen[a.rng.Intn(len(unseen))]
	case len(known) > 0:
		return known[a.rng.Intn(len(known))]
	}
	return -1
}
