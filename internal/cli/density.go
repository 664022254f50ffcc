package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/core"
)

type densityJSON struct {
	DepthKm float64 `json:"depth_km"`
	Layer   string  `json:"layer"`
	Density float64 `json:"density"`
}

func newDensityCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "density <planet.yaml> <depth_km>...",
		Short: "Look up density at one or more depths",
		Long: `Resolve each depth (kilometres below the surface) to the layer containing it
and print the density there. A depth on a layer boundary belongs to the outer
layer.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			depths := make([]float64, 0, len(args)-1)
			for _, raw := range args[1:] {
				d, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("depth %q: %w", raw, err)
				}
				depths = append(depths, d)
			}

			p, _, err := a.buildPlanet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			results, err := densitiesAt(p, depths)
			if err != nil {
				return err
			}

			r := a.renderer(cmd)
			if r.json() {
				return r.encode(results)
			}
			rows := make([]table.Row, 0, len(results))
			for _, res := range results {
				rows = append(rows, table.Row{num(res.DepthKm), res.Layer, num(res.Density)})
			}
			r.writeTable(p.Name, table.Row{"Depth (km)", "Layer", "Density (kg/m³)"}, rows, nil)
			return nil
		},
	}
}

func densitiesAt(p *core.Planet, depthsKm []float64) ([]densityJSON, error) {
	out := make([]densityJSON, 0, len(depthsKm))
	for _, dk := range depthsKm {
		depth := dk * 1000
		l, rho, err := p.Resolve(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, densityJSON{DepthKm: dk, Layer: l.Label(), Density: rho})
	}
	return out, nil
}
