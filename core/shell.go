package core

import (
	"fmt"
	"math"
)

// DefaultStep is the radial discretisation step, in metres, used when
// integrating over shells.
const DefaultStep = 1.0

// maxShellSamples bounds the shells one integration may allocate.
const maxShellSamples = 10_000_000

// ShellVolume returns the volume (m³) between two concentric spheres.
// inner must be non-negative and not larger than outer.
func ShellVolume(inner, outer float64) (float64, error) {
	if math.IsNaN(inner) || math.IsNaN(outer) || inner < 0 || inner > outer {
		return 0, fmt.Errorf("%w: shell [%g, %g]", ErrInvalidGeometry, inner, outer)
	}
	if inner == outer {
		return 0, nil
	}
	return shellVolume(inner, outer), nil
}

// ShellVolumes returns the volumes of the shells between consecutive
// boundaries, so len(result) == len(boundaries)-1.
func ShellVolumes(boundaries []float64) ([]float64, error) {
	if len(boundaries) < 2 {
		return nil, nil
	}
	out := make([]float64, len(boundaries)-1)
	for i := 1; i < len(boundaries); i++ {
		v, err := ShellVolume(boundaries[i-1], boundaries[i])
		if err != nil {
			return nil, fmt.Errorf("shell %d: %w", i-1, err)
		}
		out[i-1] = v
	}
	return out, nil
}

// IntegrateShells splits [inner, outer] into round((outer-inner)/step)
// evenly spaced radii and returns the volume of a step-thick shell centred
// on each of them. The innermost half-shell is clamped at the centre.
//
// The shells overlap or leave slivers whenever the spacing of the radii
// differs from step, so the sum only approximates ShellVolume(inner, outer).
// The error is small when step is tiny compared with the radius (planetary
// scale with 1 m steps) and grows for thin ranges of a few steps.
func IntegrateShells(inner, outer, step float64) ([]float64, error) {
	if _, err := ShellVolume(inner, outer); err != nil {
		return nil, err
	}
	n, err := sampleCount(outer-inner, step, maxShellSamples)
	if err != nil {
		return nil, err
	}
	radii := linspace(inner, outer, n)
	half := step / 2
	out := make([]float64, len(radii))
	for i, r := range radii {
		out[i] = shellVolume(math.Max(r-half, 0), r+half)
	}
	return out, nil
}

func shellVolume(inner, outer float64) float64 {
	return 4.0 / 3.0 * math.Pi * (outer*outer*outer - inner*inner*inner)
}

// sampleCount returns round(span/step), failing for a non-finite or
// non-positive step and for counts above limit. The bound is checked on the
// float so huge ratios never reach the int conversion.
func sampleCount(span, step float64, limit int) (int, error) {
	if !(step > 0) || math.IsInf(step, 1) {
		return 0, fmt.Errorf("%w: step %g", ErrInvalidGeometry, step)
	}
	n := math.Round(span / step)
	if math.IsNaN(n) || n > float64(limit) {
		return 0, fmt.Errorf("%w: span %g m with step %g m exceeds %d samples", ErrInvalidGeometry, span, step, limit)
	}
	if n <= 0 {
		return 0, nil
	}
	return int(n), nil
}

// linspace mirrors numpy.linspace with the endpoint included.
func linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	delta := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*delta
	}
	out[n-1] = stop
	return out
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}
