package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ComputeCollector exposes metrics for the numerical work behind planet
// summaries: shell integrations, the mean-density cache and profile sweeps.
type ComputeCollector struct {
	gatherer prometheus.Gatherer

	IntegrationDuration prometheus.Histogram
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	CacheHitRatio       prometheus.Gauge
	ProfileSamples      prometheus.Counter

	mu           sync.Mutex
	hits, misses float64
}

// NewComputeCollector registers compute metrics on reg, or on the default
// registry when reg is nil.
func NewComputeCollector(reg prometheus.Registerer) (*ComputeCollector, error) {
	reg, gatherer := registry(reg)
	c := &ComputeCollector{gatherer: gatherer}

	var err error
	if c.IntegrationDuration, err = register(reg, "interior_mean_density_duration_seconds", prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "interior_mean_density_duration_seconds",
		Help:    "Time spent resolving a planet's layer mean densities, including cache lookups.",
		Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})); err != nil {
		return nil, err
	}
	if c.CacheHits, err = register(reg, "interior_mean_density_cache_hits_total", prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interior_mean_density_cache_hits_total",
		Help: "Tabulated layers whose mean density was served from the persistent cache.",
	})); err != nil {
		return nil, err
	}
	if c.CacheMisses, err = register(reg, "interior_mean_density_cache_misses_total", prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interior_mean_density_cache_misses_total",
		Help: "Tabulated layers whose mean density had to be integrated.",
	})); err != nil {
		return nil, err
	}
	if c.CacheHitRatio, err = register(reg, "interior_mean_density_cache_hit_ratio", prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "interior_mean_density_cache_hit_ratio",
		Help: "Hit ratio for the mean-density cache since process start.",
	})); err != nil {
		return nil, err
	}
	if c.ProfileSamples, err = register(reg, "interior_profile_samples_total", prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interior_profile_samples_total",
		Help: "Depth samples produced by profile sweeps.",
	})); err != nil {
		return nil, err
	}
	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *ComputeCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveIntegration records how long a mean-density resolution took.
func (c *ComputeCollector) ObserveIntegration(d time.Duration) {
	if c == nil || c.IntegrationDuration == nil {
		return
	}
	c.IntegrationDuration.Observe(d.Seconds())
}

// ObserveCacheLookup counts one cache outcome and refreshes the hit ratio.
func (c *ComputeCollector) ObserveCacheLookup(hit bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
		if c.CacheHits != nil {
			c.CacheHits.Inc()
		}
	} else {
		c.misses++
		if c.CacheMisses != nil {
			c.CacheMisses.Inc()
		}
	}
	if c.CacheHitRatio != nil {
		c.CacheHitRatio.Set(c.hits / (c.hits + c.misses))
	}
}

// AddProfileSamples increments the profile sample counter.
func (c *ComputeCollector) AddProfileSamples(n int) {
	if c == nil || c.ProfileSamples == nil || n <= 0 {
		return
	}
	c.ProfileSamples.Add(float64(n))
}
