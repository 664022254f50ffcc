package core

import (
	"fmt"
	"math"
	"sort"
)

// GravitationalConstant in m³ kg⁻¹ s⁻² (CODATA 2018).
const GravitationalConstant = 6.67430e-11

// boundaryTolerance absorbs floating point noise when checking that
// adjacent layers share a boundary (metres).
const boundaryTolerance = 1e-6

// Planet is an ordered stack of layers plus a declared total mass.
type Planet struct {
	Name string
	// TotalMass is the reference mass in kg. CalculatedMass is derived from
	// the layers and does not depend on it.
	TotalMass float64
	// Layers are ordered from the centre outwards.
	Layers []*Layer
}

// NewPlanet validates that the layers tile [0, radius] without overlaps or
// gaps and returns them sorted from the centre outwards.
func NewPlanet(totalMass float64, layers ...*Layer) (*Planet, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	sorted := make([]*Layer, 0, len(layers))
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("layer %d: %w: nil layer", i, ErrInvalidGeometry)
		}
		if l.Thickness() <= 0 {
			return nil, fmt.Errorf("layer %s: %w: zero thickness", l.Label(), ErrInvalidGeometry)
		}
		sorted = append(sorted, l)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Inner.Radius < sorted[j].Inner.Radius
	})

	if r := sorted[0].Inner.Radius; r > boundaryTolerance {
		return nil, fmt.Errorf("%w: innermost layer starts at %g m, not at the centre", ErrLayerGap, r)
	}
	for i := 1; i < len(sorted); i++ {
		below, above := sorted[i-1], sorted[i]
		switch {
		case above.Inner.Radius < below.Outer.Radius-boundaryTolerance:
			return nil, fmt.Errorf("%w: %s and %s", ErrLayerOverlap, below.Label(), above.Label())
		case above.Inner.Radius > below.Outer.Radius+boundaryTolerance:
			return nil, fmt.Errorf("%w: between %s and %s", ErrLayerGap, below.Label(), above.Label())
		}
	}
	return &Planet{TotalMass: totalMass, Layers: sorted}, nil
}

// Radius returns the largest outer radius of any layer, in metres.
func (p *Planet) Radius() float64 {
	var r float64
	for _, l := range p.Layers {
		r = math.Max(r, l.Outer.Radius)
	}
	return r
}

// Volume returns the summed layer volumes in m³.
func (p *Planet) Volume() float64 {
	vols := make([]float64, len(p.Layers))
	for i, l := range p.Layers {
		vols[i] = l.Volume()
	}
	return sum(vols)
}

// CalculatedMass sums the mass of every layer.
func (p *Planet) CalculatedMass() (float64, error) {
	var total float64
	for _, l := range p.Layers {
		m, err := l.Mass()
		if err != nil {
			return 0, fmt.Errorf("layer %s: %w", l.Label(), err)
		}
		total += m
	}
	return total, nil
}

// MeanDensity returns CalculatedMass / Volume.
func (p *Planet) MeanDensity() (float64, error) {
	vol := p.Volume()
	if vol == 0 {
		return 0, ErrZeroVolume
	}
	m, err := p.CalculatedMass()
	if err != nil {
		return 0, err
	}
	return m / vol, nil
}

// DeclaredMeanDensity returns TotalMass / Volume.
func (p *Planet) DeclaredMeanDensity() (float64, error) {
	vol := p.Volume()
	if vol == 0 {
		return 0, ErrZeroVolume
	}
	return p.TotalMass / vol, nil
}

// CorePressure estimates the central pressure from the declared mass.
func (p *Planet) CorePressure() float64 {
	return CorePressure(p.TotalMass, p.Radius())
}

// CorePressure estimates the pressure (Pa) at the centre of a uniform body of
// the given mass (kg) and radius (m), with the factor of 2 used for
// planetary bodies.
func CorePressure(mass, radius float64) float64 {
	return (2 * 3 * GravitationalConstant * mass * mass) / (8 * math.Pi * math.Pow(radius, 4))
}

// LayerForDepth returns the layer containing the point depth metres below
// the surface. A depth on the boundary between two layers resolves to the
// outer (shallower) one.
func (p *Planet) LayerForDepth(depth float64) (*Layer, error) {
	radius := p.Radius()
	if math.IsNaN(depth) || depth < 0 || depth > radius {
		return nil, &DepthError{Depth: depth, Err: ErrDepthOutOfRange}
	}
	r := radius - depth

	var matches []*Layer
	for _, l := range p.Layers {
		if l.ContainsRadius(r) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &DepthError{Depth: depth, Err: ErrDepthNotResolvable}
	case 1:
		return matches[0], nil
	case 2:
		if matches[0].Outer.Radius > matches[1].Outer.Radius {
			return matches[0], nil
		}
		return matches[1], nil
	default:
		return nil, &DepthError{
			Depth: depth,
			Err:   fmt.Errorf("%w: %d layers contain radius %g", ErrLayerOverlap, len(matches), r),
		}
	}
}

// Resolve returns the layer holding depth together with its density there.
func (p *Planet) Resolve(depth float64) (*Layer, float64, error) {
	l, err := p.LayerForDepth(depth)
	if err != nil {
		return nil, 0, err
	}
	d, err := l.DensityForDepth(depth)
	if err != nil {
		return nil, 0, fmt.Errorf("layer %s: %w", l.Label(), err)
	}
	return l, d, nil
}

// DensityForDepth resolves the layer at depth and returns its density there.
func (p *Planet) DensityForDepth(depth float64) (float64, error) {
	_, d, err := p.Resolve(depth)
	return d, err
}
