package core

import (
	"errors"
	"math"
	"testing"
)

func twoLayerPlanet(t *testing.T) *Planet {
	t.Helper()
	inner, err := LayerOfKm(0, 50)
	if err != nil {
		t.Fatalf("LayerOfKm: %v", err)
	}
	outer, err := LayerOfKm(50, 100)
	if err != nil {
		t.Fatalf("LayerOfKm: %v", err)
	}
	p, err := NewPlanet(1e19,
		outer.Named("mantle", "").WithDensity(3000),
		inner.Named("core", "").WithDensity(8000),
	)
	if err != nil {
		t.Fatalf("NewPlanet: %v", err)
	}
	return p
}

func TestPlanetVolume(t *testing.T) {
	p := twoLayerPlanet(t)
	if !approxEqual(p.Volume(), 4.18879e15, 1e-5) {
		t.Fatalf("volume = %g, want 4.18879e15", p.Volume())
	}
	if p.Radius() != 100e3 {
		t.Fatalf("radius = %g, want 100000", p.Radius())
	}
	if p.Layers[0].Name != "core" {
		t.Fatalf("layers not sorted from the centre: first is %q", p.Layers[0].Name)
	}
}

func TestPlanetCalculatedMassAndDensity(t *testing.T) {
	p := twoLayerPlanet(t)
	m, err := p.CalculatedMass()
	if err != nil {
		t.Fatalf("CalculatedMass error: %v", err)
	}
	want := 8000*p.Layers[0].Volume() + 3000*p.Layers[1].Volume()
	if !approxEqual(m, want, 1e-12) {
		t.Fatalf("calculated mass = %g, want %g", m, want)
	}
	mean, err := p.MeanDensity()
	if err != nil {
		t.Fatalf("MeanDensity error: %v", err)
	}
	// 1/8 of the volume at 8000, 7/8 at 3000.
	if !approxEqual(mean, 3625, 1e-9) {
		t.Fatalf("mean density = %g, want 3625", mean)
	}
	declared, _ := p.DeclaredMeanDensity()
	if !approxEqual(declared, 1e19/p.Volume(), 1e-12) {
		t.Fatalf("declared mean = %g", declared)
	}
}

func TestPlanetCalculatedMassWithModel(t *testing.T) {
	l, _ := LayerOfKm(0, 100)
	td, err := NewTabulatedDensity([]float64{0, 100e3}, []float64{1000, 2000}, 0, 100e3, 100e3, WithStep(10))
	if err != nil {
		t.Fatalf("NewTabulatedDensity: %v", err)
	}
	p, err := NewPlanet(0, l.WithDensityModel(td))
	if err != nil {
		t.Fatalf("NewPlanet: %v", err)
	}
	mean, err := p.MeanDensity()
	if err != nil {
		t.Fatalf("MeanDensity: %v", err)
	}
	if !approxEqual(mean, 1250, 1e-3) {
		t.Fatalf("mean = %g, want ~1250", mean)
	}
}

func TestPlanetCalculatedMassMissingSource(t *testing.T) {
	l, _ := LayerOfKm(0, 10)
	p, err := NewPlanet(0, l)
	if err != nil {
		t.Fatalf("NewPlanet: %v", err)
	}
	if _, err := p.CalculatedMass(); !errors.Is(err, ErrNoDensitySource) {
		t.Fatalf("expected ErrNoDensitySource, got %v", err)
	}
}

func TestNewPlanetValidation(t *testing.T) {
	mk := func(in, out float64) *Layer {
		l, err := LayerOfKm(in, out)
		if err != nil {
			t.Fatalf("LayerOfKm: %v", err)
		}
		return l.WithDensity(1)
	}
	cases := []struct {
		name   string
		layers []*Layer
		want   error
	}{
		{"none", nil, ErrNoLayers},
		{"overlap", []*Layer{mk(0, 60), mk(50, 100)}, ErrLayerOverlap},
		{"gap", []*Layer{mk(0, 40), mk(50, 100)}, ErrLayerGap},
		{"hollow", []*Layer{mk(10, 100)}, ErrLayerGap},
		{"zero thickness", []*Layer{mk(0, 50), mk(50, 50), mk(50, 100)}, ErrInvalidGeometry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPlanet(0, tc.layers...); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPlanetDensityForDepthInterior(t *testing.T) {
	p := twoLayerPlanet(t)
	cases := []struct {
		depth float64
		layer string
		rho   float64
	}{
		{0, "mantle", 3000},
		{10e3, "mantle", 3000},
		{49_999, "mantle", 3000},
		{50_001, "core", 8000},
		{99e3, "core", 8000},
		{100e3, "core", 8000},
	}
	for _, tc := range cases {
		l, err := p.LayerForDepth(tc.depth)
		if err != nil {
			t.Fatalf("LayerForDepth(%g) error: %v", tc.depth, err)
		}
		if l.Name != tc.layer {
			t.Errorf("LayerForDepth(%g) = %s, want %s", tc.depth, l.Name, tc.layer)
		}
		rho, err := p.DensityForDepth(tc.depth)
		if err != nil {
			t.Fatalf("DensityForDepth(%g) error: %v", tc.depth, err)
		}
		if rho != tc.rho {
			t.Errorf("DensityForDepth(%g) = %g, want %g", tc.depth, rho, tc.rho)
		}
	}
}

func TestPlanetDensityForDepthBoundaryPrefersOuterLayer(t *testing.T) {
	p := twoLayerPlanet(t)
	l, err := p.LayerForDepth(50e3)
	if err != nil {
		t.Fatalf("LayerForDepth error: %v", err)
	}
	if l.Name != "mantle" {
		t.Fatalf("boundary resolved to %s, want mantle", l.Name)
	}
}

func TestPlanetDensityForDepthOutside(t *testing.T) {
	p := twoLayerPlanet(t)
	for _, d := range []float64{-1, 100e3 + 1, math.NaN(), math.Inf(1)} {
		_, err := p.DensityForDepth(d)
		if !errors.Is(err, ErrDepthNotResolvable) {
			t.Fatalf("DensityForDepth(%g) error = %v, want ErrDepthNotResolvable", d, err)
		}
		if !errors.Is(err, ErrDepthOutOfRange) {
			t.Fatalf("DensityForDepth(%g) error = %v, want ErrDepthOutOfRange", d, err)
		}
		var de *DepthError
		if !errors.As(err, &de) {
			t.Fatalf("expected *DepthError, got %T", err)
		}
	}
}

func TestPlanetDensityForDepthDelegatesToModel(t *testing.T) {
	const R = 100e3
	core, _ := LayerOfKm(0, 50)
	mantle, _ := LayerOfKm(50, 100)
	td, err := NewTabulatedDensity([]float64{0, 50e3}, []float64{3000, 4000}, 0, 50e3, R)
	if err != nil {
		t.Fatalf("NewTabulatedDensity: %v", err)
	}
	p, err := NewPlanet(0, core.WithDensity(8000), mantle.WithDensityModel(td))
	if err != nil {
		t.Fatalf("NewPlanet: %v", err)
	}
	rho, err := p.DensityForDepth(25e3)
	if err != nil {
		t.Fatalf("DensityForDepth: %v", err)
	}
	if !approxEqual(rho, 3500, 1e-12) {
		t.Fatalf("density = %g, want 3500", rho)
	}
}

func TestCorePressure(t *testing.T) {
	// Earth: M = 5.972e24 kg, R = 6371 km.
	got := CorePressure(5.972e24, 6371e3)
	want := 6 * GravitationalConstant * 5.972e24 * 5.972e24 / (8 * math.Pi * math.Pow(6371e3, 4))
	if !approxEqual(got, want, 1e-12) {
		t.Fatalf("CorePressure = %g, want %g", got, want)
	}
	if got < 1e11 || got > 1e12 {
		t.Fatalf("CorePressure = %g Pa, expected hundreds of GPa", got)
	}
	p := twoLayerPlanet(t)
	if p.CorePressure() != CorePressure(1e19, 100e3) {
		t.Fatalf("Planet.CorePressure mismatch")
	}
}

func TestPlanetResolveReturnsLayerAndDensity(t *testing.T) {
	p := twoLayerPlanet(t)
	cases := []struct {
		depth   float64
		layer   string
		density float64
	}{
		{0, "mantle", 3000},
		{50e3, "mantle", 3000},
		{75e3, "core", 8000},
	}
	for _, tc := range cases {
		l, rho, err := p.Resolve(tc.depth)
		if err != nil {
			t.Fatalf("Resolve(%g) error: %v", tc.depth, err)
		}
		if l.Label() != tc.layer || rho != tc.density {
			t.Fatalf("Resolve(%g) = %s/%g, want %s/%g", tc.depth, l.Label(), rho, tc.layer, tc.density)
		}
	}
	if _, _, err := p.Resolve(150e3); !errors.Is(err, ErrDepthOutOfRange) {
		t.Fatalf("expected ErrDepthOutOfRange, got %v", err)
	}
}
