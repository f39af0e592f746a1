// Package kernel generates Gabor patches: sinusoidal gratings windowed by an
// elliptical Gaussian envelope, sampled on an oversampled square grid.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ContrastScale normalizes the raw contrast input before it widens the envelope.
const ContrastScale = 3.0 / 5.0

// MaxSamples bounds the samples along each axis of a patch.
const MaxSamples = 4096

// ErrInvalidParams is returned when a parameter tuple cannot produce a patch.
var ErrInvalidParams = errors.New("kernel: invalid parameters")

// Params is the full generating tuple for a patch.
type Params struct {
	Size        int     // Kernel extent in base units (odd)
	Sigma       float64 // Envelope scale
	Orientation float64 // Radians
	Wavelength  float64 // Grating wavelength in base units (non-zero)
	AspectRatio float64 // Envelope ellipticity (gamma)
	Phase       float64 // Radians
	Resolution  float64 // Samples per base unit (>= 1)
	Contrast    float64 // Raw contrast level, scaled by ContrastScale
}

// Validate reports whether the tuple can be rendered.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"sigma", p.Sigma},
		{"orientation", p.Orientation},
		{"wavelength", p.Wavelength},
		{"aspect ratio", p.AspectRatio},
		{"phase", p.Phase},
		{"resolution", p.Resolution},
		{"contrast", p.Contrast},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s %g must be finite", ErrInvalidParams, f.name, f.value)
		}
	}

	switch {
	case p.Size <= 0 || p.Size%2 == 0:
		return fmt.Errorf("%w: size %d must be odd and positive", ErrInvalidParams, p.Size)
	case p.Sigma <= 0:
		return fmt.Errorf("%w: sigma %g must be positive", ErrInvalidParams, p.Sigma)
	case p.Wavelength == 0:
		return fmt.Errorf("%w: wavelength must be non-zero", ErrInvalidParams)
	case p.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidParams, p.AspectRatio)
	case p.Resolution < 1:
		return fmt.Errorf("%w: resolution %g must be at least 1", ErrInvalidParams, p.Resolution)
	case p.Contrast == 0:
		return fmt.Errorf("%w: contrast must be non-zero", ErrInvalidParams)
	case float64(p.Size)*p.Resolution > MaxSamples:
		return fmt.Errorf("%w: size %d at resolution %g exceeds %d samples per axis", ErrInvalidParams, p.Size, p.Resolution, MaxSamples)
	}
	return nil
}

// Samples returns the number of grid samples along each axis. The product
// is truncated, not rounded, so size 7 at resolution 2.5 gives 17.
func (p Params) Samples() int {
	half := p.Size / 2
	return int(float64(2*half+1) * p.Resolution)
}

// Generate renders the patch described by p.
// Rows follow the x axis and columns the y axis; both span [-Size/2, Size/2].
func Generate(p Params) (*Patch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c := p.Contrast * ContrastScale
	sigmaX := p.Sigma * c
	sigmaY := (p.Sigma / p.AspectRatio) * c

	half := float64(p.Size / 2)
	axis := linspace(-half, half, p.Samples())
	n := len(axis)

	sinT, cosT := math.Sincos(p.Orientation)
	k := 2 * math.Pi / p.Wavelength

	data := make([]float64, n*n)
	for i, x := range axis {
		row := data[i*n : (i+1)*n]
		for j, y := range axis {
			xr := x*cosT + y*sinT
			yr := -x*sinT + y*cosT
			envelope := math.Exp(-0.5 * (xr*xr/(sigmaX*sigmaX) + yr*yr/(sigmaY*sigmaY)))
			row[j] = envelope * math.Cos(k*xr+p.Phase)
		}
	}

	return &Patch{params: p, data: mat.NewDense(n, n, data)}, nil
}

// MustGenerate is like Generate but panics on invalid parameters.
func MustGenerate(p Params) *Patch {
	patch, err := Generate(p)
	if err != nil {
		panic(err)
	}
	return patch
}

// linspace returns n evenly spaced samples over [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
