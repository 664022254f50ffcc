package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
)

type sampleJSON struct {
	DepthKm  float64 `json:"depth_km"`
	RadiusKm float64 `json:"radius_km"`
	Layer    string  `json:"layer"`
	Density  float64 `json:"density"`
}

func newProfileCommand(a *app) *cobra.Command {
	var stepKm float64

	cmd := &cobra.Command{
		Use:   "profile <planet.yaml>",
		Short: "Sample density from the surface to the centre",
		Long: `Evaluate density at evenly spaced depths from the surface down to the
centre, inclusive. Without --step-km the radius is split into 100 intervals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, _, err := a.buildPlanet(ctx, args[0])
			if err != nil {
				return err
			}
			samples, err := core.SampleProfile(ctx, p, core.ProfileOptions{
				Step:    stepKm * 1000,
				Workers: a.cfg.Workers,
			})
			if err != nil {
				return err
			}
			a.log.Debug(ctx, "profile sampled", logging.Int("samples", len(samples)))

			r := a.renderer(cmd)
			if r.json() {
				out := make([]sampleJSON, 0, len(samples))
				for _, s := range samples {
					out = append(out, sampleJSON{
						DepthKm:  s.Depth / 1000,
						RadiusKm: s.Radius / 1000,
						Layer:    s.Layer,
						Density:  s.Density,
					})
				}
				return r.encode(out)
			}
			rows := make([]table.Row, 0, len(samples))
			for _, s := range samples {
				rows = append(rows, table.Row{km(s.Depth), km(s.Radius), s.Layer, num(s.Density)})
			}
			r.writeTable(p.Name, table.Row{"Depth (km)", "Radius (km)", "Layer", "Density (kg/m³)"}, rows, nil)
			return nil
		},
	}
	cmd.Flags().Float64Var(&stepKm, "step-km", 0, "Spacing between samples in kilometres")
	return cmd
}
