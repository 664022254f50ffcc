// Package api exposes the planet registry over gRPC.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
	"github.com/signalsfoundry/planetary-interior/kb"
)

// PlanetService implements PlanetServiceServer on top of a KnowledgeBase.
type PlanetService struct {
	UnimplementedPlanetServiceServer

	registry *kb.KnowledgeBase
	log      logging.Logger
	metrics  *observability.InteriorCollector
	compute  *observability.ComputeCollector
	workers  int
}

// Option configures a PlanetService.
type Option func(*PlanetService)

// WithMetrics records density query outcomes on c.
func WithMetrics(c *observability.InteriorCollector) Option {
	return func(s *PlanetService) { s.metrics = c }
}

// WithComputeMetrics records summary and profile work on c.
func WithComputeMetrics(c *observability.ComputeCollector) Option {
	return func(s *PlanetService) { s.compute = c }
}

// WithWorkers bounds the concurrency of profile sweeps.
func WithWorkers(n int) Option {
	return func(s *PlanetService) { s.workers = n }
}

// NewPlanetService wires a PlanetService to the shared registry and optional
// logger.
func NewPlanetService(registry *kb.KnowledgeBase, log logging.Logger, opts ...Option) *PlanetService {
	if log == nil {
		log = logging.Noop()
	}
	s := &PlanetService{registry: registry, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *PlanetService) logger(ctx context.Context) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.log
}

func (s *PlanetService) entry(in *structpb.Struct) (*kb.Entry, error) {
	id, err := requireString(in, "planet_id")
	if err != nil {
		return nil, err
	}
	e := s.registry.GetPlanet(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", kb.ErrPlanetNotFound, id)
	}
	return e, nil
}

func (s *PlanetService) ListPlanets(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	entries := s.registry.ListPlanets()
	infos := make([]PlanetInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, PlanetInfo{
			ID:      e.ID,
			Name:    e.Planet.Name,
			RadiusM: e.Planet.Radius(),
			Layers:  len(e.Planet.Layers),
		})
	}
	out, err := encodePlanetList(infos)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

func (s *PlanetService) GetSummary(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	e, err := s.entry(in)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := startPlanetSpan(ctx, "interior.Summarize", e.ID)
	start := time.Now()
	sum, err := core.Summarize(e.Planet)
	s.compute.ObserveIntegration(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.End()
		s.logger(ctx).Warn(ctx, "summary failed", logging.String("planet", e.ID), logging.Err(err))
		return nil, ToStatusError(err)
	}
	span.SetAttributes(
		attribute.Float64("planet.mean_density", sum.MeanDensity),
		attribute.Int("planet.layers", len(sum.Layers)),
	)
	span.End()

	out, err := encodeSummary(e.ID, sum)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

func (s *PlanetService) DensityForDepth(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	e, err := s.entry(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	depth, err := requireNumber(in, "depth_m")
	if err != nil {
		return nil, ToStatusError(err)
	}

	layer, density, err := e.Planet.Resolve(depth)
	s.metrics.ObserveDensityQuery(densityOutcome(err))
	if err != nil {
		return nil, ToStatusError(err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"density": density,
		"layer":   layer.Label(),
	})
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

func (s *PlanetService) DensityProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	e, err := s.entry(in)
	if err != nil {
		return nil, ToStatusError(err)
	}
	step, err := optionalNumber(in, "step_m", 0)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := startPlanetSpan(ctx, "interior.SampleProfile", e.ID, attribute.Float64("profile.step_m", step))
	samples, err := core.SampleProfile(ctx, e.Planet, core.ProfileOptions{Step: step, Workers: s.workers})
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, ToStatusError(err)
	}
	span.SetAttributes(attribute.Int("profile.samples", len(samples)))
	span.End()
	s.compute.AddProfileSamples(len(samples))

	out, err := encodeProfile(samples)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

func densityOutcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, core.ErrDepthOutOfRange):
		return observability.OutcomeOutOfRange
	case errors.Is(err, core.ErrDepthNotResolvable):
		return observability.OutcomeUnresolvable
	default:
		return observability.OutcomeError
	}
}
