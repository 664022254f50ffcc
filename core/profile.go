package core

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ProfileSample is the density at one depth of a sweep.
type ProfileSample struct {
	Depth   float64 // metres below the surface
	Radius  float64 // metres from the centre
	Density float64
	Layer   string
}

// ProfileOptions controls SampleProfile.
type ProfileOptions struct {
	// Step between samples in metres. Zero selects 100 samples.
	Step float64
	// Workers bounds concurrent evaluation. Zero uses GOMAXPROCS.
	Workers int
}

// maxProfileSamples caps a sweep so a tiny step cannot exhaust memory.
const maxProfileSamples = 1_000_000

// SampleProfile evaluates DensityForDepth from the surface to the centre,
// always including both ends. Depths are independent, so they are computed
// concurrently; the result is ordered by depth.
func SampleProfile(ctx context.Context, p *Planet, opts ProfileOptions) ([]ProfileSample, error) {
	radius := p.Radius()
	step := opts.Step
	if step == 0 {
		step = radius / 100
	}
	n, err := sampleCount(radius, step, maxProfileSamples-1)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	depths := linspace(0, radius, n+1)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]ProfileSample, len(depths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range depths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, rho, err := p.Resolve(d)
			if err != nil {
				return err
			}
			out[i] = ProfileSample{Depth: d, Radius: radius - d, Density: rho, Layer: l.Label()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
