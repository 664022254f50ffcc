package core

import (
	"fmt"
	"math"
)

// Sphere is a sphere centred on the planet's centre. Radius is in metres.
type Sphere struct {
	Radius float64
}

// NewSphere returns a sphere of radius r metres.
func NewSphere(r float64) (Sphere, error) {
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return Sphere{}, fmt.Errorf("%w: radius %g", ErrInvalidGeometry, r)
	}
	return Sphere{Radius: r}, nil
}

// SphereOfKm returns a sphere whose radius is given in kilometres.
func SphereOfKm(km float64) (Sphere, error) {
	return NewSphere(km * 1000)
}

// Volume returns the volume in m³.
func (s Sphere) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

// Circumference returns the great-circle circumference in metres.
func (s Sphere) Circumference() float64 {
	return 2 * math.Pi * s.Radius
}

// DensitySource is where a layer takes its density from: either a fixed
// scalar or a DensityModel, never both.
type DensitySource struct {
	model  DensityModel
	scalar float64
	set    bool
}

// ScalarDensity is a source with one density for the whole layer.
func ScalarDensity(density float64) DensitySource {
	return DensitySource{scalar: density, set: true}
}

// ModelDensity is a source backed by a DensityModel.
func ModelDensity(m DensityModel) DensitySource {
	if m == nil {
		return DensitySource{}
	}
	return DensitySource{model: m, set: true}
}

// IsSet reports whether the source carries a density.
func (d DensitySource) IsSet() bool { return d.set }

// Model returns the backing model, or nil for a scalar source.
func (d DensitySource) Model() DensityModel { return d.model }

// Scalar returns the scalar density and true for a scalar source.
func (d DensitySource) Scalar() (float64, bool) {
	if !d.set || d.model != nil {
		return 0, false
	}
	return d.scalar, true
}

func (d DensitySource) densityForDepth(depth float64) (float64, error) {
	switch {
	case !d.set:
		return 0, ErrNoDensitySource
	case d.model != nil:
		return d.model.DensityForDepth(depth)
	default:
		return d.scalar, nil
	}
}

func (d DensitySource) meanDensity() (float64, error) {
	switch {
	case !d.set:
		return 0, ErrNoDensitySource
	case d.model != nil:
		return d.model.MeanDensity()
	default:
		return d.scalar, nil
	}
}

// Layer is the shell between two concentric spheres.
type Layer struct {
	Inner Sphere
	Outer Sphere

	// Presentation only.
	Name  string
	Color string

	Density DensitySource
}

// NewLayer builds the layer between inner and outer.
func NewLayer(inner, outer Sphere) (*Layer, error) {
	if inner.Radius < 0 || inner.Radius > outer.Radius {
		return nil, fmt.Errorf("%w: inner radius %g exceeds outer radius %g",
			ErrInvalidGeometry, inner.Radius, outer.Radius)
	}
	return &Layer{Inner: inner, Outer: outer}, nil
}

// LayerOfKm builds a layer from radii in kilometres.
func LayerOfKm(innerKm, outerKm float64) (*Layer, error) {
	inner, err := SphereOfKm(innerKm)
	if err != nil {
		return nil, err
	}
	outer, err := SphereOfKm(outerKm)
	if err != nil {
		return nil, err
	}
	return NewLayer(inner, outer)
}

// Volume returns the shell volume in m³.
func (l *Layer) Volume() float64 {
	return l.Outer.Volume() - l.Inner.Volume()
}

// Thickness returns the radial thickness in metres.
func (l *Layer) Thickness() float64 {
	return l.Outer.Radius - l.Inner.Radius
}

// Named returns a copy of the layer with presentation metadata set.
func (l *Layer) Named(name, color string) *Layer {
	cp := *l
	cp.Name = name
	cp.Color = color
	return &cp
}

// WithDensityModel returns a copy of the layer whose density comes from m.
func (l *Layer) WithDensityModel(m DensityModel) *Layer {
	cp := *l
	cp.Density = ModelDensity(m)
	return &cp
}

// WithDensity returns a copy of the layer with a fixed density.
func (l *Layer) WithDensity(density float64) *Layer {
	cp := *l
	cp.Density = ScalarDensity(density)
	return &cp
}

// WithMass returns a copy of the layer with the fixed density that gives it
// the requested mass (kg).
func (l *Layer) WithMass(mass float64) (*Layer, error) {
	d, err := ConstantDensityWithKnownMass(l.Volume(), mass)
	if err != nil {
		return nil, err
	}
	return l.WithDensity(float64(d)), nil
}

// DensityForDepth returns the density at depth metres below the planet's
// surface. The depth is not checked against the layer's extent.
func (l *Layer) DensityForDepth(depth float64) (float64, error) {
	return l.Density.densityForDepth(depth)
}

// MeanDensity returns the layer's volume-weighted mean density.
func (l *Layer) MeanDensity() (float64, error) {
	return l.Density.meanDensity()
}

// Mass returns MeanDensity × Volume.
func (l *Layer) Mass() (float64, error) {
	d, err := l.MeanDensity()
	if err != nil {
		return 0, err
	}
	return d * l.Volume(), nil
}

// ContainsRadius reports whether r lies within [Inner.Radius, Outer.Radius].
func (l *Layer) ContainsRadius(r float64) bool {
	return l.Inner.Radius <= r && r <= l.Outer.Radius
}

// Label returns Name, or the radial extent in km when the layer is unnamed.
func (l *Layer) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%g-%g km", l.Inner.Radius/1000, l.Outer.Radius/1000)
}
