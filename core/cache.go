package core

import (
	"context"
	"sync"
)

// MeanDensityCache persists mean densities keyed by model fingerprint.
type MeanDensityCache interface {
	LookupMeanDensity(ctx context.Context, key string) (float64, bool, error)
	StoreMeanDensity(ctx context.Context, key string, density float64) error
}

// Fingerprinter is implemented by models whose mean density is fully
// determined by a stable key.
type Fingerprinter interface {
	Fingerprint() string
}

// CachedModel memoises MeanDensity of a fingerprinted model in memory and in
// a MeanDensityCache. Cache failures fall back to computing the value.
type CachedModel struct {
	DensityModel

	key   string
	cache MeanDensityCache
	// OnCacheError, if set, receives lookup and store failures.
	OnCacheError func(error)

	mu       sync.Mutex
	done     bool
	mean     float64
	cacheHit bool
}

// NewCachedModel wraps m when it can be fingerprinted; otherwise m is
// returned unchanged.
func NewCachedModel(m DensityModel, cache MeanDensityCache) DensityModel {
	fp, ok := m.(Fingerprinter)
	if !ok || cache == nil {
		return m
	}
	return &CachedModel{DensityModel: m, key: fp.Fingerprint(), cache: cache}
}

// Key returns the fingerprint the model is cached under.
func (c *CachedModel) Key() string { return c.key }

// FromCache reports whether the last MeanDensity call was served by the
// persistent cache.
func (c *CachedModel) FromCache() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheHit
}

func (c *CachedModel) MeanDensity() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.mean, nil
	}

	ctx := context.Background()
	if v, ok, err := c.cache.LookupMeanDensity(ctx, c.key); err != nil {
		c.report(err)
	} else if ok {
		c.mean, c.done, c.cacheHit = v, true, true
		return v, nil
	}

	v, err := c.DensityModel.MeanDensity()
	if err != nil {
		return 0, err
	}
	if err := c.cache.StoreMeanDensity(ctx, c.key, v); err != nil {
		c.report(err)
	}
	c.mean, c.done, c.cacheHit = v, true, false
	return v, nil
}

func (c *CachedModel) report(err error) {
	if c.OnCacheError != nil {
		c.OnCacheError(err)
	}
}
