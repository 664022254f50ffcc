package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/core"
)

// PlanetInfo is one ListPlanets entry.
type PlanetInfo struct {
	ID      string
	Name    string
	RadiusM float64
	Layers  int
}

// DensityResult is a DensityForDepth response.
type DensityResult struct {
	Density float64
	Layer   string
}

func encodePlanetList(infos []PlanetInfo) (*structpb.Struct, error) {
	planets := make([]interface{}, 0, len(infos))
	for _, p := range infos {
		planets = append(planets, map[string]interface{}{
			"id":       p.ID,
			"name":     p.Name,
			"radius_m": p.RadiusM,
			"layers":   p.Layers,
		})
	}
	return structpb.NewStruct(map[string]interface{}{"planets": planets})
}

func decodePlanetList(st *structpb.Struct) ([]PlanetInfo, error) {
	items, err := listField(st, "planets")
	if err != nil {
		return nil, err
	}
	out := make([]PlanetInfo, 0, len(items))
	for i, item := range items {
		s := item.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("planets[%d]: not an object", i)
		}
		out = append(out, PlanetInfo{
			ID:      stringValue(s, "id"),
			Name:    stringValue(s, "name"),
			RadiusM: numberValue(s, "radius_m"),
			Layers:  int(numberValue(s, "layers")),
		})
	}
	return out, nil
}

func encodeSummary(id string, s *core.Summary) (*structpb.Struct, error) {
	layers := make([]interface{}, 0, len(s.Layers))
	for _, l := range s.Layers {
		layers = append(layers, map[string]interface{}{
			"name":           l.Name,
			"color":          l.Color,
			"inner_radius_m": l.InnerRadius,
			"outer_radius_m": l.OuterRadius,
			"volume_m3":      l.Volume,
			"mean_density":   l.MeanDensity,
			"mass_kg":        l.Mass,
			"cached":         l.Cached,
			"from_cache":     l.FromCache,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"planet_id":             id,
		"name":                  s.Name,
		"radius_m":              s.Radius,
		"volume_m3":             s.Volume,
		"total_mass_kg":         s.TotalMass,
		"calculated_mass_kg":    s.CalculatedMass,
		"mean_density":          s.MeanDensity,
		"declared_mean_density": s.DeclaredMeanDensity,
		"core_pressure_pa":      s.CorePressure,
		"layers":                layers,
	})
}

// DecodeSummary converts a GetSummary response back into a core.Summary.
func DecodeSummary(st *structpb.Struct) (*core.Summary, error) {
	items, err := listField(st, "layers")
	if err != nil {
		return nil, err
	}
	s := &core.Summary{
		Name:                stringValue(st, "name"),
		Radius:              numberValue(st, "radius_m"),
		Volume:              numberValue(st, "volume_m3"),
		TotalMass:           numberValue(st, "total_mass_kg"),
		CalculatedMass:      numberValue(st, "calculated_mass_kg"),
		MeanDensity:         numberValue(st, "mean_density"),
		DeclaredMeanDensity: numberValue(st, "declared_mean_density"),
		CorePressure:        numberValue(st, "core_pressure_pa"),
		Layers:              make([]core.LayerSummary, 0, len(items)),
	}
	for i, item := range items {
		l := item.GetStructValue()
		if l == nil {
			return nil, fmt.Errorf("layers[%d]: not an object", i)
		}
		s.Layers = append(s.Layers, core.LayerSummary{
			Name:        stringValue(l, "name"),
			Color:       stringValue(l, "color"),
			InnerRadius: numberValue(l, "inner_radius_m"),
			OuterRadius: numberValue(l, "outer_radius_m"),
			Volume:      numberValue(l, "volume_m3"),
			MeanDensity: numberValue(l, "mean_density"),
			Mass:        numberValue(l, "mass_kg"),
			Cached:      l.GetFields()["cached"].GetBoolValue(),
			FromCache:   l.GetFields()["from_cache"].GetBoolValue(),
		})
	}
	return s, nil
}

func encodeProfile(samples []core.ProfileSample) (*structpb.Struct, error) {
	out := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		out = append(out, map[string]interface{}{
			"depth_m":  s.Depth,
			"radius_m": s.Radius,
			"density":  s.Density,
			"layer":    s.Layer,
		})
	}
	return structpb.NewStruct(map[string]interface{}{"samples": out})
}

func decodeProfile(st *structpb.Struct) ([]core.ProfileSample, error) {
	items, err := listField(st, "samples")
	if err != nil {
		return nil, err
	}
	out := make([]core.ProfileSample, 0, len(items))
	for i, item := range items {
		s := item.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("samples[%d]: not an object", i)
		}
		out = append(out, core.ProfileSample{
			Depth:   numberValue(s, "depth_m"),
			Radius:  numberValue(s, "radius_m"),
			Density: numberValue(s, "density"),
			Layer:   stringValue(s, "layer"),
		})
	}
	return out, nil
}

// requireString returns a non-empty string field or ErrInvalidArgument.
func requireString(st *structpb.Struct, key string) (string, error) {
	v, ok := st.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgument, key)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidArgument, key)
	}
	return s.StringValue, nil
}

// optionalNumber returns a number field, or def when the field is absent.
func optionalNumber(st *structpb.Struct, key string, def float64) (float64, error) {
	v, ok := st.GetFields()[key]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgument, key)
	}
	return n.NumberValue, nil
}

func requireNumber(st *structpb.Struct, key string) (float64, error) {
	if _, ok := st.GetFields()[key]; !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidArgument, key)
	}
	return optionalNumber(st, key, 0)
}

func listField(st *structpb.Struct, key string) ([]*structpb.Value, error) {
	v, ok := st.GetFields()[key]
	if !ok {
		return nil, nil
	}
	l := v.GetListValue()
	if l == nil {
		return nil, fmt.Errorf("%s: not a list", key)
	}
	return l.GetValues(), nil
}

func stringValue(st *structpb.Struct, key string) string {
	return st.GetFields()[key].GetStringValue()
}

func numberValue(st *structpb.Struct, key string) float64 {
	return st.GetFields()[key].GetNumberValue()
}
