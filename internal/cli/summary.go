package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
)

type layerJSON struct {
	Name         string  `json:"name"`
	Color        string  `json:"color,omitempty"`
	InnerRadiusM float64 `json:"inner_radius_m"`
	OuterRadiusM float64 `json:"outer_radius_m"`
	VolumeM3     float64 `json:"volume_m3"`
	MeanDensity  float64 `json:"mean_density"`
	MassKg       float64 `json:"mass_kg"`
	FromCache    bool    `json:"from_cache,omitempty"`
}

type summaryJSON struct {
	ID                  string      `json:"id,omitempty"`
	Name                string      `json:"name"`
	RadiusM             float64     `json:"radius_m"`
	VolumeM3            float64     `json:"volume_m3"`
	TotalMassKg         float64     `json:"total_mass_kg"`
	CalculatedMassKg    float64     `json:"calculated_mass_kg"`
	MeanDensity         float64     `json:"mean_density"`
	DeclaredMeanDensity float64     `json:"declared_mean_density"`
	CorePressurePa      float64     `json:"core_pressure_pa"`
	Layers              []layerJSON `json:"layers"`
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <planet.yaml>",
		Short: "Show volume, mass and mean density of a planet",
		Long: `Build the planet described by a YAML definition and report its radius,
volume, declared and calculated mass, mean densities, the estimated central
pressure, and the same quantities per layer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, def, err := a.buildPlanet(ctx, args[0])
			if err != nil {
				return err
			}
			s, err := core.Summarize(p)
			if err != nil {
				return err
			}
			a.log.Info(ctx, "summary computed",
				logging.String("planet", s.Name),
				logging.Float64("mean_density", s.MeanDensity),
			)
			return renderSummary(a.renderer(cmd), def.ID, s)
		},
	}
}

func renderSummary(r *renderer, id string, s *core.Summary) error {
	if r.json() {
		out := summaryJSON{
			ID:                  id,
			Name:                s.Name,
			RadiusM:             s.Radius,
			VolumeM3:            s.Volume,
			TotalMassKg:         s.TotalMass,
			CalculatedMassKg:    s.CalculatedMass,
			MeanDensity:         s.MeanDensity,
			DeclaredMeanDensity: s.DeclaredMeanDensity,
			CorePressurePa:      s.CorePressure,
			Layers:              make([]layerJSON, 0, len(s.Layers)),
		}
		for _, l := range s.Layers {
			out.Layers = append(out.Layers, layerJSON{
				Name:         l.Name,
				Color:        l.Color,
				InnerRadiusM: l.InnerRadius,
				OuterRadiusM: l.OuterRadius,
				VolumeM3:     l.Volume,
				MeanDensity:  l.MeanDensity,
				MassKg:       l.Mass,
				FromCache:    l.FromCache,
			})
		}
		return r.encode(out)
	}

	title := s.Name
	if title == "" {
		title = id
	}
	r.writeTable(title, table.Row{"Property", "Value"}, []table.Row{
		{"Radius (km)", km(s.Radius)},
		{"Volume (m³)", num(s.Volume)},
		{"Declared mass (kg)", num(s.TotalMass)},
		{"Calculated mass (kg)", num(s.CalculatedMass)},
		{"Mean density (kg/m³)", num(s.MeanDensity)},
		{"Declared mean density (kg/m³)", num(s.DeclaredMeanDensity)},
		{"Core pressure (Pa)", num(s.CorePressure)},
	}, nil)

	rows := make([]table.Row, 0, len(s.Layers))
	for _, l := range s.Layers {
		source := ""
		if l.FromCache {
			source = "cache"
		}
		rows = append(rows, table.Row{l.Name, km(l.InnerRadius), km(l.OuterRadius), num(l.MeanDensity), num(l.Mass), source})
	}
	r.writeTable("Layers", table.Row{"Layer", "Inner (km)", "Outer (km)", "Mean density", "Mass (kg)", ""}, rows, nil)
	return nil
}
