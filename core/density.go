package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// DensityModel maps a depth below the surface (metres) to a density
// (kg/m³) and reports the volume-weighted mean over the range it covers.
type DensityModel interface {
	DensityForDepth(depth float64) (float64, error)
	MeanDensity() (float64, error)
}

// ConstantDensity is a model with the same density at every depth.
type ConstantDensity float64

// ConstantDensityWithKnownMass derives the density that gives mass (kg)
// over volume (m³).
func ConstantDensityWithKnownMass(volume, mass float64) (ConstantDensity, error) {
	if volume <= 0 {
		return 0, fmt.Errorf("%w: volume %g", ErrZeroVolume, volume)
	}
	return ConstantDensity(mass / volume), nil
}

func (c ConstantDensity) DensityForDepth(float64) (float64, error) { return float64(c), nil }
func (c ConstantDensity) MeanDensity() (float64, error)            { return float64(c), nil }

// TabulatedDensity interpolates a depth/density table over the depth range
// [UpperDepth, LowerDepth] of a planet with radius TotalRadius.
type TabulatedDensity struct {
	depths    []float64
	densities []float64

	UpperDepth  float64
	LowerDepth  float64
	TotalRadius float64
	// Step is the radial sampling interval used by MeanDensity.
	Step float64
}

// TabulatedOption customises a TabulatedDensity at construction.
type TabulatedOption func(*TabulatedDensity)

// WithStep overrides the DefaultStep sampling interval of MeanDensity.
func WithStep(step float64) TabulatedOption {
	return func(t *TabulatedDensity) { t.Step = step }
}

// NewTabulatedDensity validates and copies the table. Rows are ordered by
// depth so the caller may pass them in any order.
func NewTabulatedDensity(
	depths, densities []float64,
	upperDepth, lowerDepth, totalRadius float64,
	opts ...TabulatedOption,
) (*TabulatedDensity, error) {
	if len(depths) != len(densities) {
		return nil, fmt.Errorf("%w: %d depths, %d densities", ErrLengthMismatch, len(depths), len(densities))
	}
	if len(depths) == 0 {
		return nil, ErrEmptyTable
	}
	if upperDepth < 0 || lowerDepth > totalRadius {
		return nil, fmt.Errorf("%w: depth range [%g, %g] outside radius %g",
			ErrInvalidGeometry, upperDepth, lowerDepth, totalRadius)
	}
	if !(upperDepth < lowerDepth) {
		return nil, fmt.Errorf("%w: upper %g, lower %g", ErrDegenerateRange, upperDepth, lowerDepth)
	}

	t := &TabulatedDensity{
		UpperDepth:  upperDepth,
		LowerDepth:  lowerDepth,
		TotalRadius: totalRadius,
		Step:        DefaultStep,
	}
	for _, opt := range opts {
		opt(t)
	}
	if _, err := sampleCount(lowerDepth-upperDepth, t.Step, maxShellSamples); err != nil {
		return nil, err
	}

	idx := make([]int, len(depths))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return depths[idx[a]] < depths[idx[b]] })

	t.depths = make([]float64, len(depths))
	t.densities = make([]float64, len(densities))
	for i, j := range idx {
		if math.IsNaN(depths[j]) || math.IsNaN(densities[j]) {
			return nil, fmt.Errorf("%w: NaN in row %d", ErrInvalidGeometry, j)
		}
		t.depths[i] = depths[j]
		t.densities[i] = densities[j]
	}
	return t, nil
}

// Len returns the number of table rows.
func (t *TabulatedDensity) Len() int { return len(t.depths) }

// DensityForDepth linearly interpolates the table. Depths beyond either end
// of the table take the nearest endpoint's density.
func (t *TabulatedDensity) DensityForDepth(depth float64) (float64, error) {
	if len(t.depths) == 0 {
		return 0, ErrEmptyTable
	}
	if math.IsNaN(depth) {
		return 0, &DepthError{Depth: depth, Err: ErrInvalidGeometry}
	}
	return interp(depth, t.depths, t.densities), nil
}

// MeanDensity integrates the interpolated density over Step-thick shells
// spanning the model's depth range and returns the mass-weighted mean.
func (t *TabulatedDensity) MeanDensity() (float64, error) {
	inner := t.TotalRadius - t.LowerDepth
	outer := t.TotalRadius - t.UpperDepth

	volumes, err := IntegrateShells(inner, outer, t.Step)
	if err != nil {
		return 0, err
	}
	if len(volumes) == 0 {
		return 0, fmt.Errorf("%w: [%g, %g] with step %g", ErrDegenerateRange, t.UpperDepth, t.LowerDepth, t.Step)
	}

	// Deepest sample pairs with the innermost shell.
	depths := linspace(t.LowerDepth, t.UpperDepth, len(volumes))
	var mass, volume float64
	for i, d := range depths {
		mass += interp(d, t.depths, t.densities) * volumes[i]
		volume += volumes[i]
	}
	if volume == 0 {
		return 0, ErrZeroVolume
	}
	return mass / volume, nil
}

// Fingerprint identifies the table, range and step. Two models with equal
// fingerprints have equal mean densities.
func (t *TabulatedDensity) Fingerprint() string {
	h := sha256.New()
	buf := make([]byte, 8)
	write := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	write(t.UpperDepth)
	write(t.LowerDepth)
	write(t.TotalRadius)
	write(t.Step)
	for i := range t.depths {
		write(t.depths[i])
		write(t.densities[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// interp follows numpy.interp: xp ascending, clamped outside [xp0, xpN].
func interp(x float64, xp, fp []float64) float64 {
	// First index with xp[i] > x.
	i := sort.Search(len(xp), func(i int) bool { return xp[i] > x })
	switch {
	case i == 0:
		return fp[0]
	case i == len(xp):
		return fp[len(fp)-1]
	}
	lo := i - 1
	if xp[i] == xp[lo] {
		return fp[lo]
	}
	frac := (x - xp[lo]) / (xp[i] - xp[lo])
	return fp[lo] + frac*(fp[i]-fp[lo])
}
