// Package strain computes rotation-free strain magnitudes from per-element
// deformation gradients.
package strain

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat3 is a row-major 3x3 deformation gradient.
type Mat3 [9]float64

// Identity returns the undeformed, unrotated gradient.
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// RotationZ returns a rotation by theta radians about the z axis.
func RotationZ(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// RotationX returns a rotation by theta radians about the x axis.
func RotationX(theta float64) Mat3 {
	s, c := math.Sincos(theta)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// Stretch returns a pure stretch along the principal axes.
func Stretch(sx, sy, sz float64) Mat3 {
	return Mat3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, sz,
	}
}

// Compose returns a·b.
func Compose(a, b Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[r*3+k] * b[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// Gauge measures Green-Lagrange strain magnitudes.
// It owns its scratch matrices so repeated calls do not allocate.
// A Gauge is not safe for concurrent use.
type Gauge struct {
	f  *mat.Dense
	ft mat.Matrix
	c  *mat.Dense
	id *mat.Dense
}

// NewGauge creates a gauge with preallocated workspace.
func NewGauge() *Gauge {
	id := Identity()
	f := mat.NewDense(3, 3, nil)
	return &Gauge{
		f:  f,
		ft: f.T(),
		c:  mat.NewDense(3, 3, nil),
		id: mat.NewDense(3, 3, id[:]),
	}
}

// Magnitude returns the Frobenius norm of E = (FᵀF - I) / 2.
// The result is zero for any rigid rotation and never negative.
func (g *Gauge) Magnitude(f Mat3) float64 {
	copy(g.f.RawMatrix().Data, f[:])

	// Right Cauchy-Green tensor
	g.c.Mul(g.ft, g.f)

	// Green-Lagrange strain
	g.c.Sub(g.c, g.id)
	g.c.Scale(0.5, g.c)

	return mat.Norm(g.c, 2)
}

// Magnitude is a one-shot form of (*Gauge).Magnitude. It allocates a new
// Gauge, and with it four matrices, on every call; per-element hot paths
// should hold a Gauge and call (*Gauge).Magnitude instead.
func Magnitude(f Mat3) float64 {
	return NewGauge().Magnitude(f)
}
