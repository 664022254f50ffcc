package api

import (
	"context"
	"math"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/observability"
	"github.com/signalsfoundry/planetary-interior/kb"
	"github.com/signalsfoundry/planetary-interior/model"
)

func floatPtr(v float64) *float64 { return &v }

func toyRegistry(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	def := model.PlanetDefinition{
		ID:          "toy",
		Name:        "Toy",
		TotalMassKg: 1e19,
		Layers: []model.LayerDefinition{
			{Name: "core", InnerKm: 0, OuterKm: 50, Density: floatPtr(8000)},
			{Name: "mantle", InnerKm: 50, OuterKm: 100, Density: floatPtr(3000)},
		},
	}
	p, err := core.BuildPlanet(&def)
	if err != nil {
		t.Fatalf("BuildPlanet error: %v", err)
	}
	registry := kb.NewKnowledgeBase()
	if err := registry.AddPlanet(def.ID, def, p); err != nil {
		t.Fatalf("AddPlanet error: %v", err)
	}
	return registry
}

type testEnv struct {
	client  *Client
	raw     PlanetServiceClient
	metrics *observability.InteriorCollector
	compute *observability.ComputeCollector
}

func startServer(t *testing.T, registry *kb.KnowledgeBase) testEnv {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewInteriorCollector(reg)
	if err != nil {
		t.Fatalf("collector: %v", err)
	}
	compute, err := observability.NewComputeCollector(reg)
	if err != nil {
		t.Fatalf("compute collector: %v", err)
	}

	log := logging.NewForTest(t)
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RequestIDUnaryServerInterceptor(log),
		TracingUnaryServerInterceptor(),
		metrics.UnaryServerInterceptor(),
	))
	RegisterPlanetServiceServer(srv, NewPlanetService(registry, log,
		WithMetrics(metrics),
		WithComputeMetrics(compute),
		WithWorkers(2),
	))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(RequestIDUnaryClientInterceptor()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return testEnv{
		client:  NewClient(conn),
		raw:     NewPlanetServiceClient(conn),
		metrics: metrics,
		compute: compute,
	}
}

func TestListPlanets(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	planets, err := env.client.ListPlanets(context.Background())
	if err != nil {
		t.Fatalf("ListPlanets error: %v", err)
	}
	if len(planets) != 1 {
		t.Fatalf("got %d planets, want 1", len(planets))
	}
	p := planets[0]
	if p.ID != "toy" || p.Name != "Toy" || p.RadiusM != 100e3 || p.Layers != 2 {
		t.Fatalf("unexpected planet %+v", p)
	}
}

func TestGetSummary(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	sum, err := env.client.Summary(context.Background(), "toy")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if math.Abs(sum.MeanDensity-3625) > 1e-6 {
		t.Fatalf("mean density = %g, want 3625", sum.MeanDensity)
	}
	if sum.TotalMass != 1e19 || sum.Radius != 100e3 {
		t.Fatalf("unexpected summary header %+v", sum)
	}
	if len(sum.Layers) != 2 || sum.Layers[0].Name != "core" || sum.Layers[1].MeanDensity != 3000 {
		t.Fatalf("unexpected layers %+v", sum.Layers)
	}
	if want := core.CorePressure(1e19, 100e3); math.Abs(sum.CorePressure-want) > 1e-6*want {
		t.Fatalf("core pressure = %g, want %g", sum.CorePressure, want)
	}
}

func TestDensityForDepth(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	ctx := context.Background()

	tests := []struct {
		depth   float64
		density float64
		layer   string
	}{
		{0, 3000, "mantle"},
		{50e3, 3000, "mantle"},
		{75e3, 8000, "core"},
		{100e3, 8000, "core"},
	}
	for _, tt := range tests {
		got, err := env.client.DensityForDepth(ctx, "toy", tt.depth)
		if err != nil {
			t.Fatalf("DensityForDepth(%g) error: %v", tt.depth, err)
		}
		if got.Density != tt.density || got.Layer != tt.layer {
			t.Fatalf("DensityForDepth(%g) = %+v, want %g in %s", tt.depth, got, tt.density, tt.layer)
		}
	}

	_, err := env.client.DensityForDepth(ctx, "toy", 150e3)
	if status.Code(err) != codes.OutOfRange {
		t.Fatalf("expected OutOfRange for depth beyond the centre, got %v", err)
	}
	if got := testutil.ToFloat64(env.metrics.DensityQueries.WithLabelValues(observability.OutcomeOK)); got != 4 {
		t.Fatalf("ok queries = %v, want 4", got)
	}
	if got := testutil.ToFloat64(env.metrics.DensityQueries.WithLabelValues(observability.OutcomeOutOfRange)); got != 1 {
		t.Fatalf("out of range queries = %v, want 1", got)
	}
}

func TestDensityProfile(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	samples, err := env.client.Profile(context.Background(), "toy", 10e3)
	if err != nil {
		t.Fatalf("Profile error: %v", err)
	}
	if len(samples) != 11 {
		t.Fatalf("got %d samples, want 11", len(samples))
	}
	if samples[0].Depth != 0 || samples[10].Density != 8000 {
		t.Fatalf("unexpected profile ends %+v .. %+v", samples[0], samples[10])
	}
	if got := testutil.ToFloat64(env.compute.ProfileSamples); got != 11 {
		t.Fatalf("profile sample counter = %v, want 11", got)
	}
}

func TestRequestErrors(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	ctx := context.Background()

	if _, err := env.client.Summary(ctx, "missing"); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := env.raw.GetSummary(ctx, &structpb.Struct{}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing planet_id, got %v", err)
	}
	bad, _ := structpb.NewStruct(map[string]interface{}{"planet_id": "toy", "depth_m": "deep"})
	if _, err := env.raw.DensityForDepth(ctx, bad); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for non-numeric depth, got %v", err)
	}
	noDepth, _ := structpb.NewStruct(map[string]interface{}{"planet_id": "toy"})
	if _, err := env.raw.DensityForDepth(ctx, noDepth); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing depth, got %v", err)
	}
	if _, err := env.client.Profile(ctx, "toy", -5); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for negative step, got %v", err)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	ctx := logging.ContextWithRequestID(context.Background(), "req-123")

	var header metadata.MD
	if _, err := env.raw.ListPlanets(ctx, &structpb.Struct{}, grpc.Header(&header)); err != nil {
		t.Fatalf("ListPlanets error: %v", err)
	}
	if got := header.Get(requestIDMetadataKey); len(got) != 1 || got[0] != "req-123" {
		t.Fatalf("response request id = %v, want [req-123]", got)
	}
}

func TestRPCMetricsRecorded(t *testing.T) {
	env := startServer(t, toyRegistry(t))
	if _, err := env.client.ListPlanets(context.Background()); err != nil {
		t.Fatalf("ListPlanets error: %v", err)
	}
	if got := testutil.ToFloat64(env.metrics.RPCRequests.WithLabelValues("PlanetService", "ListPlanets", "OK")); got != 1 {
		t.Fatalf("interior_requests_total = %v, want 1", got)
	}
}
