package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/signalsfoundry/planetary-interior/model"
	"gopkg.in/yaml.v3"
)

// TableOpener opens the density table named by a layer definition.
type TableOpener func(name string) (io.ReadCloser, error)

// DirOpener resolves relative table names against dir.
func DirOpener(dir string) TableOpener {
	return func(name string) (io.ReadCloser, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.Open(name)
	}
}

type buildOptions struct {
	opener TableOpener
	cache  MeanDensityCache
	onErr  func(error)
	step   float64
}

// BuildOption customises BuildPlanet.
type BuildOption func(*buildOptions)

// WithTableOpener sets how tabulated layers locate their CSV files.
func WithTableOpener(o TableOpener) BuildOption {
	return func(b *buildOptions) { b.opener = o }
}

// WithDefaultStep sets the integration step for tabulated layers that do
// not declare step_m.
func WithDefaultStep(step float64) BuildOption {
	return func(b *buildOptions) { b.step = step }
}

// WithMeanDensityCache wraps tabulated models in a CachedModel. onErr may
// be nil.
func WithMeanDensityCache(c MeanDensityCache, onErr func(error)) BuildOption {
	return func(b *buildOptions) {
		b.cache = c
		b.onErr = onErr
	}
}

// LoadPlanetDefinition decodes a YAML (or JSON) planet definition.
func LoadPlanetDefinition(r io.Reader) (*model.PlanetDefinition, error) {
	var def model.PlanetDefinition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("LoadPlanetDefinition: decode failed: %w", err)
	}
	if len(def.Layers) == 0 {
		return nil, fmt.Errorf("LoadPlanetDefinition: %w", ErrNoLayers)
	}
	return &def, nil
}

// BuildPlanetFromFile loads a definition from path. Relative table paths are
// resolved against the definition's directory unless WithTableOpener says
// otherwise.
func BuildPlanetFromFile(path string, opts ...BuildOption) (*Planet, *model.PlanetDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open planet definition %q: %w", path, err)
	}
	defer f.Close()

	def, err := LoadPlanetDefinition(f)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]BuildOption{WithTableOpener(DirOpener(filepath.Dir(path)))}, opts...)
	p, err := BuildPlanet(def, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("build planet %q: %w", path, err)
	}
	return p, def, nil
}

// BuildPlanet turns a definition into a validated Planet. Tabulated layers
// cover depths [R-outer, R-inner] where R is the planet radius.
func BuildPlanet(def *model.PlanetDefinition, opts ...BuildOption) (*Planet, error) {
	if def == nil {
		return nil, fmt.Errorf("BuildPlanet: definition is nil")
	}
	bo := buildOptions{opener: DirOpener(".")}
	for _, opt := range opts {
		opt(&bo)
	}

	radius := def.RadiusKm * 1000
	for _, ld := range def.Layers {
		if def.RadiusKm == 0 && ld.OuterKm*1000 > radius {
			radius = ld.OuterKm * 1000
		}
	}

	layers := make([]*Layer, 0, len(def.Layers))
	for i, ld := range def.Layers {
		l, err := buildLayer(ld, radius, bo)
		if err != nil {
			name := ld.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("layer %s: %w", name, err)
		}
		layers = append(layers, l)
	}

	p, err := NewPlanet(def.TotalMassKg, layers...)
	if err != nil {
		return nil, err
	}
	if p.Radius() > radius+boundaryTolerance {
		return nil, fmt.Errorf("%w: layers extend to %g m beyond declared radius %g m",
			ErrInvalidGeometry, p.Radius(), radius)
	}
	if radius-p.Radius() > boundaryTolerance {
		return nil, fmt.Errorf("%w: layers end at %g m below declared radius %g m",
			ErrLayerGap, p.Radius(), radius)
	}
	p.Name = def.Name
	return p, nil
}

func buildLayer(ld model.LayerDefinition, radius float64, bo buildOptions) (*Layer, error) {
	l, err := LayerOfKm(ld.InnerKm, ld.OuterKm)
	if err != nil {
		return nil, err
	}
	l = l.Named(ld.Name, ld.Color)

	switch ld.Kind() {
	case model.DensityKindConstant:
		return l.WithDensity(*ld.Density), nil
	case model.DensityKindMass:
		return l.WithMass(*ld.MassKg)
	case model.DensityKindTabulated:
		var opts []TabulatedOption
		switch {
		case ld.StepM > 0:
			opts = append(opts, WithStep(ld.StepM))
		case bo.step > 0:
			opts = append(opts, WithStep(bo.step))
		}
		rc, err := bo.opener(ld.Table)
		if err != nil {
			return nil, fmt.Errorf("open table: %w", err)
		}
		defer rc.Close()
		td, err := LoadTabulatedDensity(rc, radius-l.Outer.Radius, radius-l.Inner.Radius, radius, opts...)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", ld.Table, err)
		}
		var m DensityModel = td
		if bo.cache != nil {
			m = NewCachedModel(td, bo.cache)
			if cm, ok := m.(*CachedModel); ok {
				cm.OnCacheError = bo.onErr
			}
		}
		return l.WithDensityModel(m), nil
	default:
		return nil, fmt.Errorf("%w: exactly one of density, mass_kg or table is required", ErrNoDensitySource)
	}
}
