package model

// DensityKind names where a layer definition takes its density from.
type DensityKind int

const (
	DensityKindUnknown   DensityKind = iota
	DensityKindConstant              // fixed density in kg/m³
	DensityKindMass                  // fixed mass, density derived from volume
	DensityKindTabulated             // depth/density table on disk
)

func (k DensityKind) String() string {
	switch k {
	case DensityKindConstant:
		return "constant"
	case DensityKindMass:
		return "mass"
	case DensityKindTabulated:
		return "tabulated"
	default:
		return "unknown"
	}
}

// PlanetDefinition describes a planet as read from a YAML or JSON document.
type PlanetDefinition struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	TotalMassKg float64           `yaml:"total_mass_kg" json:"total_mass_kg"`
	RadiusKm    float64           `yaml:"radius_km" json:"radius_km"` // optional; defaults to the outermost layer
	Layers      []LayerDefinition `yaml:"layers" json:"layers"`
}

// LayerDefinition describes one shell. Exactly one of Density, MassKg and
// Table must be set.
type LayerDefinition struct {
	Name    string  `yaml:"name" json:"name"`
	Color   string  `yaml:"color" json:"color"`
	InnerKm float64 `yaml:"inner_km" json:"inner_km"`
	OuterKm float64 `yaml:"outer_km" json:"outer_km"`

	Density *float64 `yaml:"density" json:"density,omitempty"`
	MassKg  *float64 `yaml:"mass_kg" json:"mass_kg,omitempty"`
	Table   string   `yaml:"table" json:"table,omitempty"` // CSV with depth_km,density columns

	// StepM overrides the 1 m sampling step of tabulated mean densities.
	StepM float64 `yaml:"step_m" json:"step_m,omitempty"`
}

// Kind reports which density source the definition selects, or
// DensityKindUnknown when none or several are set.
func (l LayerDefinition) Kind() DensityKind {
	kind := DensityKindUnknown
	n := 0
	if l.Density != nil {
		kind = DensityKindConstant
		n++
	}
	if l.MassKg != nil {
		kind = DensityKindMass
		n++
	}
	if l.Table != "" {
		kind = DensityKindTabulated
		n++
	}
	if n != 1 {
		return DensityKindUnknown
	}
	return kind
}
