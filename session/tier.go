package session

import (
	"slices"
	"time"

	"github.com/pthm-cable/gabor/config"
	"github.com/pthm-cable/gabor/kernel"
)

// Identity is the (orientation, wavelength, phase) tuple that defines a
// patch's kind before contrast is sampled. Angles are in radians.
type Identity struct {
	Orientation float64 `yaml:"orientation" json:"orientation"`
	Wavelength  float64 `yaml:"wavelength" json:"wavelength"`
	Phase       float64 `yaml:"phase" json:"phase"`
}

// Tier is a named difficulty level: a bounded parameter space for
// identities plus the contrast levels sampled per patch.
type Tier struct {
	Name         string
	Orientations []float64
	Wavelengths  []float64
	Phases       []float64
	Contrasts    []float64
	LockedGrid   string // Grid the start screen forces for this tier, if any
}

// Identities returns the Cartesian product of the tier's axes,
// orientation-major.
func (t Tier) Identities() []Identity {
	out := make([]Identity, 0, len(t.Orientations)*len(t.Wavelengths)*len(t.Phases))
	for _, o := range t.Orientations {
		for _, w := range t.Wavelengths {
			for _, p := range t.Phases {
				out = append(out, Identity{Orientation: o, Wavelength: w, Phase: p})
			}
		}
	}
	return out
}

// Settings holds everything the engine needs that does not change between rounds.
type Settings struct {
	Kernel          kernel.Params // Size, Sigma, AspectRatio and Resolution are used
	MatchReward     int
	MismatchPenalty int
	MismatchDelay   time.Duration
	Tolerance       kernel.Tolerance
	Tiers           []Tier
	Palettes        []string
}

// SettingsFromConfig builds engine settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		Kernel: kernel.Params{
			Size:        cfg.Kernel.Size,
			Sigma:       cfg.Kernel.Sigma,
			AspectRatio: cfg.Kernel.AspectRatio,
			Resolution:  cfg.Kernel.Resolution,
		},
		MatchReward:     cfg.Scoring.MatchReward,
		MismatchPenalty: cfg.Scoring.MismatchPenalty,
		MismatchDelay:   cfg.Derived.MismatchDelay,
		Tolerance: kernel.Tolerance{
			Abs: cfg.Scoring.AbsTolerance,
			Rel: cfg.Scoring.RelTolerance,
		},
		Palettes: append([]string(nil), cfg.Palettes...),
	}

	for i, t := range cfg.Tiers {
		r := cfg.Derived.Radians[i]
		s.Tiers = append(s.Tiers, Tier{
			Name:         t.Name,
			Orientations: r.Orientations,
			Wavelengths:  r.Wavelengths,
			Phases:       r.Phases,
			Contrasts:    r.Contrasts,
			LockedGrid:   t.LockedGrid,
		})
	}
	return s
}

// Tier returns the tier named name.
func (s Settings) Tier(name string) (Tier, bool) {
	for _, t := range s.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

func (s Settings) hasPalette(name string) bool {
	return slices.Contains(s.Palettes, name)
}
