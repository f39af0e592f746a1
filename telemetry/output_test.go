package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/kernel"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteRound(RoundStats{}); err != nil {
		t.Errorf("WriteRound on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
	if om.Dir() != "" {
		t.Error("nil manager should have no dir")
	}
}

func TestOutputManagerWritesRounds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteRound(RoundStats{Round: i, Tier: "Hard", Grid: "5x8", Score: -5 * i}); err != nil {
			t.Fatalf("WriteRound %d failed: %v", i, err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rounds []*RoundStats
	if err := gocsv.UnmarshalFile(f, &rounds); err != nil {
		t.Fatalf("reading rounds.csv: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[1].Round != 2 || rounds[1].Score != -10 || rounds[1].Grid != "5x8" {
		t.Errorf("unexpected second round: %+v", rounds[1])
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not reload: %v", err)
	}
}

func TestWritePatchCSV(t *testing.T) {
	patch := kernel.MustGenerate(kernel.Params{
		Size: 3, Sigma: 2, Wavelength: 4, AspectRatio: 1, Resolution: 1, Contrast: 5,
	})

	var buf bytes.Buffer
	if err := WritePatchCSV(&buf, patch); err != nil {
		t.Fatalf("WritePatchCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected header + 9 samples, got %d lines", len(lines))
	}
	if lines[0] != "row,col,value" {
		t.Errorf("unexpected header %q", lines[0])
	}
	// Center sample of a zero-phase patch is exactly 1.
	fields := strings.Split(lines[5], ",")
	if len(fields) != 3 || fields[0] != "1" || fields[1] != "1" {
		t.Fatalf("expected center sample at row 1, col 1, got %q", lines[5])
	}
	if v, err := strconv.ParseFloat(fields[2], 64); err != nil || v != 1 {
		t.Errorf("expected center value 1, got %q", fields[2])
	}
}

func TestOutputManagerWritesBookmarksAndPerf(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	bm := Bookmark{Type: BookmarkPerfectRound, Round: 4, Tier: "Easy", Grid: "5x4", Description: "Cleared 10 pairs without a mismatch"}
	if err := om.WriteBookmark(bm); err != nil {
		t.Fatalf("WriteBookmark failed: %v", err)
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseDraw: 80}}, 4); err != nil {
		t.Fatalf("WritePerf failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []*Bookmark
	if err := gocsv.UnmarshalFile(f, &got); err != nil {
		t.Fatalf("reading bookmarks.csv: %v", err)
	}
	if len(got) != 1 || *got[0] != bm {
		t.Errorf("bookmarks = %+v, want %+v", got, bm)
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(perf), "round,avg_frame_us") {
		t.Errorf("unexpected perf.csv header: %q", perf)
	}
}
