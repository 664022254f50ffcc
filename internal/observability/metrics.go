package observability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Density query outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeOutOfRange   = "out_of_range"
	OutcomeUnresolvable = "unresolvable"
	OutcomeError        = "error"
)

var rpcLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// InteriorCollector holds the planet service metrics: per-RPC counts and
// latency, the size of the planet registry, and depth lookup outcomes.
type InteriorCollector struct {
	gatherer prometheus.Gatherer

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec

	Planets        prometheus.Gauge
	DensityQueries *prometheus.CounterVec
}

// NewInteriorCollector registers service metrics on reg, or on the default
// registry when reg is nil.
func NewInteriorCollector(reg prometheus.Registerer) (*InteriorCollector, error) {
	reg, gatherer := registry(reg)
	c := &InteriorCollector{gatherer: gatherer}

	var err error
	if c.RPCRequests, err = register(reg, "interior_requests_total", prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interior_requests_total",
		Help: "Planet RPCs handled, by service, method and gRPC status code.",
	}, []string{"service", "method", "code"})); err != nil {
		return nil, err
	}
	if c.RPCDurations, err = register(reg, "interior_request_duration_seconds", prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "interior_request_duration_seconds",
		Help:    "Planet RPC latency in seconds.",
		Buckets: rpcLatencyBuckets,
	}, []string{"service", "method"})); err != nil {
		return nil, err
	}
	if c.Planets, err = register(reg, "interior_planets", prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "interior_planets",
		Help: "Planets currently held by the registry.",
	})); err != nil {
		return nil, err
	}
	if c.DensityQueries, err = register(reg, "interior_density_queries_total", prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interior_density_queries_total",
		Help: "Depth to density lookups, by outcome.",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	return c, nil
}

// UnaryServerInterceptor counts each unary RPC by status code and records
// its latency.
func (c *InteriorCollector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if c != nil {
			var full string
			if info != nil {
				full = info.FullMethod
			}
			c.observeRPC(full, status.Code(err).String(), time.Since(start))
		}
		return resp, err
	}
}

func (c *InteriorCollector) observeRPC(fullMethod, code string, elapsed time.Duration) {
	service, method := SplitMethod(fullMethod)
	if c.RPCRequests != nil {
		c.RPCRequests.WithLabelValues(service, method, code).Inc()
	}
	if c.RPCDurations != nil {
		c.RPCDurations.WithLabelValues(service, method).Observe(elapsed.Seconds())
	}
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *InteriorCollector) Handler() http.Handler {
	g := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		g = c.gatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SetPlanetCount drives the planets gauge from registry events.
func (c *InteriorCollector) SetPlanetCount(n int) {
	if c == nil || c.Planets == nil {
		return
	}
	c.Planets.Set(float64(n))
}

// ObserveDensityQuery counts one depth lookup under the given outcome.
func (c *InteriorCollector) ObserveDensityQuery(outcome string) {
	if c == nil || c.DensityQueries == nil {
		return
	}
	c.DensityQueries.WithLabelValues(outcome).Inc()
}

// SplitMethod turns "/pkg.Service/Method" into ("Service", "Method").
// Missing parts come back as "unknown".
func SplitMethod(fullMethod string) (service, method string) {
	service, method = "unknown", "unknown"
	slash := strings.LastIndexByte(fullMethod, '/')
	if slash <= 0 {
		return service, method
	}
	svc := strings.TrimPrefix(fullMethod[:slash], "/")
	if i := strings.LastIndexByte(svc, '/'); i >= 0 {
		svc = svc[i+1:]
	}
	if i := strings.LastIndexByte(svc, '.'); i >= 0 {
		svc = svc[i+1:]
	}
	if svc != "" {
		service = svc
	}
	if m := fullMethod[slash+1:]; m != "" {
		method = m
	}
	return service, method
}
