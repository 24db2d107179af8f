// Package kernel implements the SPH smoothing kernels: poly6 for
// density estimation, the spiky gradient for pressure, and the
// viscosity Laplacian for velocity diffusion. All kernels have compact
// support and return exactly zero beyond the smoothing radius.
package kernel

import "math"

// Kernel bundles the three standard kernels for a fixed smoothing
// radius h. Normalization constants are precomputed once so the hot
// per-pair evaluations are branch-plus-multiply only.
type Kernel struct {
	H  float64
	H2 float64

	poly6Norm float64 // 315 / (64 pi h^9)
	spikyNorm float64 // -45 / (pi h^6)
	viscNorm  float64 // 45 / (pi h^6)
}

func New(h float64) Kernel {
	h2 := h * h
	h3 := h2 * h
	h6 := h3 * h3
	h9 := h6 * h3
	return Kernel{
		H:         h,
		H2:        h2,
		poly6Norm: 315.0 / (64.0 * math.Pi * h9),
		spikyNorm: -45.0 / (math.Pi * h6),
		viscNorm:  45.0 / (math.Pi * h6),
	}
}

// Poly6 evaluates the density kernel for a squared pair distance.
// Taking r^2 avoids a sqrt in the density pass.
func (k Kernel) Poly6(r2 float64) float64 {
	if r2 >= k.H2 {
		return 0
	}
	d := k.H2 - r2
	return k.poly6Norm * d * d * d
}

// SpikyGrad evaluates the magnitude of the spiky kernel gradient at
// distance r. The value is negative inside the support: the gradient
// points toward the particle center, so pressure forces derived from
// it push neighbors apart.
func (k Kernel) SpikyGrad(r float64) float64 {
	if r >= k.H {
		return 0
	}
	d := k.H - r
	return k.spikyNorm * d * d
}

// ViscosityLap evaluates the Laplacian of the viscosity kernel at
// distance r. Positive inside the support, zero at the boundary.
func (k Kernel) ViscosityLap(r float64) float64 {
	if r >= k.H {
		return 0
	}
	return k.viscNorm * (k.H - r)
}
