package kernel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Tolerance bounds element-wise closeness between two patches.
type Tolerance struct {
	Abs float64
	Rel float64
}

// DefaultTolerance matches the usual allclose defaults.
var DefaultTolerance = Tolerance{Abs: 1e-8, Rel: 1e-5}

// Patch is an immutable square grid of intensities.
// Values are unclamped and typically fall in [-1, 1].
type Patch struct {
	params Params
	data   *mat.Dense
}

// Params returns the tuple the patch was generated from.
func (p *Patch) Params() Params {
	return p.params
}

// Dims returns the number of rows and columns.
func (p *Patch) Dims() (rows, cols int) {
	return p.data.Dims()
}

// At returns the intensity at row r, column c.
func (p *Patch) At(r, c int) float64 {
	return p.data.At(r, c)
}

// Dense returns a copy of the grid as a gonum matrix.
func (p *Patch) Dense() *mat.Dense {
	return mat.DenseCopyOf(p.data)
}

// Raw returns a row-major copy of the grid values.
func (p *Patch) Raw() []float64 {
	rows, cols := p.data.Dims()
	out := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		out = append(out, p.data.RawRowView(r)...)
	}
	return out
}

// Range returns the minimum and maximum intensity.
func (p *Patch) Range() (lo, hi float64) {
	rows, _ := p.data.Dims()
	lo, hi = p.data.At(0, 0), p.data.At(0, 0)
	for r := 0; r < rows; r++ {
		row := p.data.RawRowView(r)
		lo = min(lo, floats.Min(row))
		hi = max(hi, floats.Max(row))
	}
	return lo, hi
}

// ApproxEqual reports whether two patches match within DefaultTolerance.
func (p *Patch) ApproxEqual(other *Patch) bool {
	return p.ApproxEqualTol(other, DefaultTolerance)
}

// ApproxEqualTol reports whether every pair of samples is within tol.
func (p *Patch) ApproxEqualTol(other *Patch, tol Tolerance) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p == other {
		return true
	}
	ar, ac := p.data.Dims()
	br, bc := other.data.Dims()
	if ar != br || ac != bc {
		return false
	}
	for r := 0; r < ar; r++ {
		a := p.data.RawRowView(r)
		b := other.data.RawRowView(r)
		for i := range a {
			if !scalar.EqualWithinAbsOrRel(a[i], b[i], tol.Abs, tol.Rel) {
				return false
			}
		}
	}
	return true
}
