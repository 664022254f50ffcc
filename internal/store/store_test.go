package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/planetary-interior/core"
)

var _ core.MeanDensityCache = (*SQLiteCache)(nil)

func openTemp(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpenAppliesMigrations(t *testing.T) {
	c := openTemp(t)
	v, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestLookupAndStore(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	_, ok, err := c.LookupMeanDensity(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.StoreMeanDensity(ctx, "abc", 3370.5))
	got, ok, err := c.LookupMeanDensity(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3370.5, got)

	require.NoError(t, c.StoreMeanDensity(ctx, "abc", 3400))
	got, _, err = c.LookupMeanDensity(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3400.0, got)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, ok, err = c.LookupMeanDensity(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, c.StoreMeanDensity(ctx, "k", 42))
	require.NoError(t, c.Close())

	c, err = Open(ctx, path)
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.LookupMeanDensity(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42.0, got)
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.StoreMeanDensity(ctx, "k", 1))
	_, ok, err := c.LookupMeanDensity(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedTabulatedModelUsesStore(t *testing.T) {
	ctx := context.Background()
	c := openTemp(t)

	td, err := core.NewTabulatedDensity([]float64{0, 50e3}, []float64{3000, 4000}, 0, 50e3, 100e3, core.WithStep(100))
	require.NoError(t, err)
	want, err := td.MeanDensity()
	require.NoError(t, err)

	first := core.NewCachedModel(td, c).(*core.CachedModel)
	got, err := first.MeanDensity()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, first.FromCache())

	second := core.NewCachedModel(td, c).(*core.CachedModel)
	got, err = second.MeanDensity()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, second.FromCache())

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
