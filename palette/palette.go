// Package palette maps patch intensities onto named sequential color ramps.
package palette

import (
	"image/color"
	"sort"

	"github.com/pthm-cable/gabor/kernel"
)

// Palette is a piecewise-linear color ramp from low to high intensity.
type Palette struct {
	Name  string
	stops []color.RGBA
}

var registry = map[string]Palette{
	"Grays": {Name: "Grays", stops: []color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 150, G: 150, B: 150, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}},
	"Purples": {Name: "Purples", stops: []color.RGBA{
		{R: 252, G: 251, B: 253, A: 255},
		{R: 158, G: 154, B: 200, A: 255},
		{R: 63, G: 0, B: 125, A: 255},
	}},
	"Blues": {Name: "Blues", stops: []color.RGBA{
		{R: 247, G: 251, B: 255, A: 255},
		{R: 107, G: 174, B: 214, A: 255},
		{R: 8, G: 48, B: 107, A: 255},
	}},
	"Greens": {Name: "Greens", stops: []color.RGBA{
		{R: 247, G: 252, B: 245, A: 255},
		{R: 116, G: 196, B: 118, A: 255},
		{R: 0, G: 68, B: 27, A: 255},
	}},
	"Oranges": {Name: "Oranges", stops: []color.RGBA{
		{R: 255, G: 245, B: 235, A: 255},
		{R: 253, G: 141, B: 60, A: 255},
		{R: 127, G: 39, B: 4, A: 255},
	}},
	"Reds": {Name: "Reds", stops: []color.RGBA{
		{R: 255, G: 245, B: 240, A: 255},
		{R: 251, G: 106, B: 74, A: 255},
		{R: 103, G: 0, B: 13, A: 255},
	}},
}

// Lookup returns the palette registered under name.
func Lookup(name string) (Palette, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns all registered palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At returns the color for t in [0, 1]. Values outside are clamped.
func (p Palette) At(t float64) color.RGBA {
	if t <= 0 {
		return p.stops[0]
	}
	last := len(p.stops) - 1
	if t >= 1 {
		return p.stops[last]
	}

	pos := t * float64(last)
	i := int(pos)
	frac := pos - float64(i)
	a, b := p.stops[i], p.stops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

// Pixels colorizes a patch row-major, normalizing its own [min, max] range
// onto the ramp. A flat patch maps to the low end.
func (p Palette) Pixels(patch *kernel.Patch) []color.RGBA {
	lo, hi := patch.Range()
	span := hi - lo

	raw := patch.Raw()
	out := make([]color.RGBA, len(raw))
	for i, v := range raw {
		t := 0.0
		if span > 0 {
			t = (v - lo) / span
		}
		out[i] = p.At(t)
	}
	return out
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
