package game

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/session"
	"github.com/pthm-cable/gabor/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg.Kernel.Size = 7
	cfg.Kernel.Resolution = 1
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGame(testConfig(t), opts)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func perfectBot(g *Game, seed int64) *AutoPlayer {
	return NewAutoPlayer(rand.New(rand.NewSource(seed)), 1, g.settings.Tolerance)
}

// strangers returns two hidden cells with different patches.
func strangers(t *testing.T, s session.State) (int, int) {
	t.Helper()
	for j := 1; j < len(s.Cells); j++ {
		if !s.Cells[0].Patch.ApproxEqual(s.Cells[j].Patch) {
			return 0, j
		}
	}
	t.Fatal("every cell matches cell 0")
	return -1, -1
}

func TestNewGameSelectsDefaults(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})

	if g.Screen() != ScreenStart {
		t.Errorf("screen = %v, want start", g.Screen())
	}
	want := session.RoundConfig{Palette: "Grays", Rows: 5, Cols: 4, Tier: "Assorted"}
	if g.Choice() != want {
		t.Errorf("choice = %+v, want %+v", g.Choice(), want)
	}
	if g.Engine().Phase() != session.PhaseConfiguring {
		t.Errorf("engine phase = %v, want configuring", g.Engine().Phase())
	}
}

func TestTierLocksGrid(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})

	if err := g.SetGrid("5x8"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetTier("Easy"); err != nil {
		t.Fatal(err)
	}
	if !g.GridLocked() || g.GridLabel() != "5x4" {
		t.Fatalf("Easy should lock the grid to 5x4, got locked=%v grid=%s", g.GridLocked(), g.GridLabel())
	}
	if err := g.SetGrid("5x6"); err != nil {
		t.Fatal(err)
	}
	if g.GridLabel() != "5x4" {
		t.Errorf("locked grid changed to %s", g.GridLabel())
	}

	if err := g.SetTier("Hard"); err != nil {
		t.Fatal(err)
	}
	if g.GridLocked() {
		t.Error("Hard should not lock the grid")
	}
	if err := g.SetGrid("5x6"); err != nil || g.GridLabel() != "5x6" {
		t.Errorf("SetGrid after unlock: grid=%s err=%v", g.GridLabel(), err)
	}
}

func TestInvalidChoiceKeepsPrevious(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	before := g.Choice()

	tests := []struct {
		name string
		set  func() error
	}{
		{"unknown palette", func() error { return g.SetPalette("Viridis") }},
		{"unknown tier", func() error { return g.SetTier("Nightmare") }},
		{"odd grid", func() error { return g.SetGrid("5x5") }},
		{"malformed grid", func() error { return g.SetGrid("five") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			if !errors.Is(err, session.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
			if g.Choice() != before {
				t.Errorf("choice changed to %+v", g.Choice())
			}
		})
	}
}

func TestSettingsLockedDuringRound(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.SetPalette("Reds"); err == nil {
		t.Error("expected error changing palette mid-round")
	}
	if g.Choice().Palette != "Grays" || g.Screen() != ScreenPlaying {
		t.Errorf("round disturbed: choice=%+v screen=%v", g.Choice(), g.Screen())
	}
}

func TestMismatchHiddenAfterDelay(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	if err := g.SetTier("Easy"); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	a, b := strangers(t, g.Engine().State())
	if _, err := g.Select(a); err != nil {
		t.Fatal(err)
	}
	sel, err := g.Select(b)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Outcome != session.OutcomeMismatch || sel.Score != -5 {
		t.Fatalf("expected mismatch at -5, got %v at %d", sel.Outcome, sel.Score)
	}

	g.Advance(499 * time.Millisecond)
	if c, _ := g.Engine().Cell(a); !c.Revealed {
		t.Fatal("cell hidden before the delay elapsed")
	}
	g.Advance(time.Millisecond)
	for _, i := range []int{a, b} {
		if c, _ := g.Engine().Cell(i); c.Revealed {
			t.Errorf("cell %d still revealed after the delay", i)
		}
	}

	g.EndRound()
	if g.Screen() != ScreenEnd {
		t.Fatalf("screen = %v, want end", g.Screen())
	}
	stats := g.LastStats()
	if stats.Mismatches != 1 || stats.Resolved != 1 || stats.Score != -5 || stats.Complete {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ElapsedSec != 0.5 {
		t.Errorf("elapsed = %v, want 0.5", stats.ElapsedSec)
	}
}

func TestEndRoundDropsTimers(t *testing.T) {
	g := newTestGame(t, Options{Seed: 4})
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	a, b := strangers(t, g.Engine().State())
	g.Select(a)
	g.Select(b)
	if g.Scheduler().Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", g.Scheduler().Pending())
	}

	g.EndRound()
	if g.Scheduler().Pending() != 0 {
		t.Error("EndRound left timers pending")
	}
	// A second EndRound does not flush another round.
	g.EndRound()
	if g.Rounds() != 1 {
		t.Errorf("rounds = %d, want 1", g.Rounds())
	}
}

func TestPlayRoundPerfectRecall(t *testing.T) {
	tests := []struct {
		tier string
		grid string
	}{
		{"Easy", "5x4"},
		{"Intermediate", "5x6"},
		{"Hard", "5x8"},
		{"Assorted", "5x8"},
	}
	for _, tt := range tests {
		t.Run(tt.tier+"/"+tt.grid, func(t *testing.T) {
			g := newTestGame(t, Options{Seed: 11})
			if err := g.SetTier(tt.tier); err != nil {
				t.Fatal(err)
			}
			if err := g.SetGrid(tt.grid); err != nil {
				t.Fatal(err)
			}

			stats, err := g.PlayRound(perfectBot(g, 5), 200*time.Millisecond)
			if err != nil {
				t.Fatalf("PlayRound failed: %v", err)
			}
			cells := g.Choice().Cells()
			if !stats.Complete || stats.Matches != cells/2 {
				t.Errorf("round not cleared: %+v", stats)
			}
			if stats.Score != 5*(stats.Matches-stats.Mismatches) {
				t.Errorf("score %d inconsistent with %d matches and %d mismatches", stats.Score, stats.Matches, stats.Mismatches)
			}
			// Every mismatch turns over at least one unseen cell.
			if stats.Mismatches > cells {
				t.Errorf("%d mismatches exceeds %d cells", stats.Mismatches, cells)
			}
			if g.Screen() != ScreenEnd || g.Engine().Phase() != session.PhaseEnded {
				t.Errorf("screen=%v phase=%v after clear", g.Screen(), g.Engine().Phase())
			}

			g.PlayAgain()
			if g.Screen() != ScreenStart || g.Engine().Phase() != session.PhaseConfiguring {
				t.Errorf("PlayAgain: screen=%v phase=%v", g.Screen(), g.Engine().Phase())
			}
		})
	}
}

func TestPlayRoundForgetfulBotStillFinishes(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	bot := NewAutoPlayer(rand.New(rand.NewSource(9)), 0.3, g.settings.Tolerance)

	stats, err := g.PlayRound(bot, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("PlayRound failed: %v", err)
	}
	if !stats.Complete {
		t.Errorf("round not cleared: %+v", stats)
	}
}

func TestHeadlessRunIsReproducible(t *testing.T) {
	run := func() []telemetry.RoundStats {
		g := newTestGame(t, Options{Seed: 21})
		bot := perfectBot(g, 8)
		var out []telemetry.RoundStats
		for i := 0; i < 3; i++ {
			stats, err := g.PlayRound(bot, 150*time.Millisecond)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, stats)
			g.PlayAgain()
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("round %d differs:\n%+v\n%+v", i+1, a[i], b[i])
		}
	}
	if a[2].Round != 3 {
		t.Errorf("third round numbered %d", a[2].Round)
	}
}

func TestPlayRoundWritesOutput(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{Seed: 6, OutputDir: dir})
	bot := perfectBot(g, 1)

	for i := 0; i < 2; i++ {
		if _, err := g.PlayRound(bot, 100*time.Millisecond); err != nil {
			t.Fatal(err)
		}
		g.PlayAgain()
	}
	g.Unload()

	f, err := os.Open(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rounds []*telemetry.RoundStats
	if err := gocsv.UnmarshalFile(f, &rounds); err != nil {
		t.Fatalf("reading rounds.csv: %v", err)
	}
	if len(rounds) != 2 || rounds[0].Round != 1 || rounds[1].Round != 2 {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
