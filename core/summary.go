package core

import "fmt"

// LayerSummary holds the derived quantities of one layer.
type LayerSummary struct {
	Name        string
	Color       string
	InnerRadius float64
	OuterRadius float64
	Volume      float64
	MeanDensity float64
	Mass        float64
	// Cached is set when the layer's mean density goes through a
	// MeanDensityCache; FromCache when it was served from it.
	Cached    bool
	FromCache bool
}

// Summary is the bulk description of a planet.
type Summary struct {
	Name                string
	Radius              float64
	Volume              float64
	TotalMass           float64
	CalculatedMass      float64
	MeanDensity         float64
	DeclaredMeanDensity float64
	CorePressure        float64
	Layers              []LayerSummary
}

// Summarize evaluates every layer once and derives the planet totals from
// those values.
func Summarize(p *Planet) (*Summary, error) {
	s := &Summary{
		Name:         p.Name,
		Radius:       p.Radius(),
		Volume:       p.Volume(),
		TotalMass:    p.TotalMass,
		CorePressure: p.CorePressure(),
		Layers:       make([]LayerSummary, 0, len(p.Layers)),
	}
	for _, l := range p.Layers {
		mean, err := l.MeanDensity()
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.Label(), err)
		}
		ls := LayerSummary{
			Name:        l.Label(),
			Color:       l.Color,
			InnerRadius: l.Inner.Radius,
			OuterRadius: l.Outer.Radius,
			Volume:      l.Volume(),
			MeanDensity: mean,
			Mass:        mean * l.Volume(),
		}
		if cm, ok := l.Density.Model().(*CachedModel); ok {
			ls.Cached, ls.FromCache = true, cm.FromCache()
		}
		s.CalculatedMass += ls.Mass
		s.Layers = append(s.Layers, ls)
	}
	if s.Volume <= 0 {
		return nil, ErrZeroVolume
	}
	s.MeanDensity = s.CalculatedMass / s.Volume
	s.DeclaredMeanDensity = s.TotalMass / s.Volume
	return s, nil
}
