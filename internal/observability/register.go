package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// registry resolves the registerer/gatherer pair a collector publishes to.
// A nil registerer selects the process-wide default registry.
func registry(reg prometheus.Registerer) (prometheus.Registerer, prometheus.Gatherer) {
	if reg == nil {
		return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		return reg, g
	}
	return reg, prometheus.DefaultGatherer
}

// register adds c to reg. When an equivalent collector is already present,
// the existing one is returned so two collectors built on the same registry
// share series instead of failing.
func register[T prometheus.Collector](reg prometheus.Registerer, name string, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var zero T
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return zero, fmt.Errorf("register %s: existing collector is %T, want %T", name, are.ExistingCollector, c)
	}
	return existing, nil
}
