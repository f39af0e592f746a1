package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Kernel.Size != 31 || cfg.Kernel.Sigma != 10 || cfg.Kernel.Resolution != 10 {
		t.Errorf("unexpected kernel defaults: %+v", cfg.Kernel)
	}
	if cfg.Derived.MismatchDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms mismatch delay, got %v", cfg.Derived.MismatchDelay)
	}
	if cfg.Scoring.MatchReward != 5 || cfg.Scoring.MismatchPenalty != 5 {
		t.Errorf("unexpected scoring defaults: %+v", cfg.Scoring)
	}

	want := []string{"Assorted", "Easy", "Intermediate", "Hard"}
	got := cfg.TierNames()
	if len(got) != len(want) {
		t.Fatalf("expected tiers %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tier %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if !slices.Contains(cfg.Palettes, "Grays") || slices.Contains(cfg.Palettes, "Viridis") {
		t.Errorf("unexpected palettes: %v", cfg.Palettes)
	}
}

func TestTierAxes(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		tier                              string
		orientations, wavelengths, phases int
		contrasts                         int
	}{
		{"Assorted", 8, 4, 4, 5},
		{"Easy", 2, 3, 2, 2},
		{"Intermediate", 4, 3, 2, 2},
		{"Hard", 8, 3, 4, 1},
	}

	for _, tc := range tests {
		r := cfg.Derived.Radians[cfg.Derived.TierIndex[tc.tier]]
		if len(r.Orientations) != tc.orientations || len(r.Wavelengths) != tc.wavelengths ||
			len(r.Phases) != tc.phases || len(r.Contrasts) != tc.contrasts {
			t.Errorf("%s: got %d/%d/%d/%d axis lengths", tc.tier,
				len(r.Orientations), len(r.Wavelengths), len(r.Phases), len(r.Contrasts))
		}
	}

	assorted := cfg.Derived.Radians[cfg.Derived.TierIndex["Assorted"]]
	if math.Abs(assorted.Orientations[0]+math.Pi) > 1e-12 {
		t.Errorf("expected first orientation -pi, got %f", assorted.Orientations[0])
	}
	if math.Abs(assorted.Orientations[7]-3*math.Pi/4) > 1e-12 {
		t.Errorf("expected last orientation 3pi/4, got %f", assorted.Orientations[7])
	}
	if math.Abs(assorted.Phases[0]+math.Pi/2) > 1e-12 || math.Abs(assorted.Phases[3]-math.Pi) > 1e-12 {
		t.Errorf("unexpected phase span %v", assorted.Phases)
	}

	easy, ok := cfg.Tier("Easy")
	if !ok || easy.LockedGrid != "5x4" {
		t.Errorf("expected Easy locked to 5x4, got %+v", easy)
	}
	if _, ok := cfg.Tier("Nightmare"); ok {
		t.Error("unexpected tier Nightmare")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte(`
scoring:
  match_reward: 10
defaults:
  tier: Tiny
tiers:
  - name: Tiny
    orientation: {values: [0]}
    wavelength: {values: [8]}
    phase: {values: [0, 90]}
    contrast: {values: [3]}
`)
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scoring.MatchReward != 10 {
		t.Errorf("expected overridden reward 10, got %d", cfg.Scoring.MatchReward)
	}
	if cfg.Scoring.MismatchPenalty != 5 {
		t.Errorf("expected default penalty to survive overlay, got %d", cfg.Scoring.MismatchPenalty)
	}
	if names := cfg.TierNames(); len(names) != 1 || names[0] != "Tiny" {
		t.Errorf("expected tiers replaced by overlay, got %v", names)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"even kernel", "kernel: {size: 30}"},
		{"infinite resolution", "kernel: {resolution: .inf}"},
		{"NaN resolution", "kernel: {resolution: .nan}"},
		{"NaN sigma", "kernel: {sigma: .nan}"},
		{"NaN aspect ratio", "kernel: {aspect_ratio: .nan}"},
		{"too many samples", "kernel: {resolution: 100000}"},
		{"NaN wavelength", "tiers: [{name: Bad, orientation: {values: [0]}, wavelength: {values: [.nan]}, phase: {values: [0]}, contrast: {values: [1]}}]\ndefaults: {tier: Bad}"},
		{"infinite orientation", "tiers: [{name: Bad, orientation: {values: [-.inf]}, wavelength: {values: [8]}, phase: {values: [0]}, contrast: {values: [1]}}]\ndefaults: {tier: Bad}"},
		{"zero wavelength", "tiers: [{name: Bad, orientation: {values: [0]}, wavelength: {values: [0]}, phase: {values: [0]}, contrast: {values: [1]}}]"},
		{"empty axis", "tiers: [{name: Bad, orientation: {values: [0]}, wavelength: {values: [8]}, phase: {values: [0]}}]"},
		{"odd grid", "grids: [5x5]"},
		{"unknown palette", "palettes: [Grays, Viridis]"},
		{"no palettes", "palettes: []"},
		{"default palette not offered", "palettes: [Reds, Blues]"},
		{"malformed default grid", "defaults: {grid: big}"},
		{"undefined default tier", "defaults: {tier: Nightmare}"},
		{"duplicate tier", "tiers: [{name: A, orientation: {values: [0]}, wavelength: {values: [8]}, phase: {values: [0]}, contrast: {values: [1]}}, {name: A, orientation: {values: [0]}, wavelength: {values: [8]}, phase: {values: [0]}, contrast: {values: [1]}}]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot failed: %v", err)
	}
	if len(loaded.Tiers) != len(cfg.Tiers) {
		t.Errorf("expected %d tiers after roundtrip, got %d", len(cfg.Tiers), len(loaded.Tiers))
	}
}

func TestParseGrid(t *testing.T) {
	tests := []struct {
		in         string
		rows, cols int
		ok         bool
	}{
		{"5x4", 5, 4, true},
		{" 5X8 ", 5, 8, true},
		{"2x1", 2, 1, true},
		{"5", 0, 0, false},
		{"ax4", 0, 0, false},
		{"0x4", 0, 0, false},
		{"-2x4", 0, 0, false},
	}

	for _, tc := range tests {
		rows, cols, err := ParseGrid(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseGrid(%q): unexpected error state %v", tc.in, err)
			continue
		}
		if tc.ok && (rows != tc.rows || cols != tc.cols) {
			t.Errorf("ParseGrid(%q) = %dx%d, want %dx%d", tc.in, rows, cols, tc.rows, tc.cols)
		}
	}

	if FormatGrid(5, 6) != "5x6" {
		t.Errorf("FormatGrid(5, 6) = %q", FormatGrid(5, 6))
	}
}
