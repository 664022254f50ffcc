package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryTable(t *testing.T) {
	out, err := run(t, "summary", "testdata/two_layer.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Radius (km)")
	assert.Contains(t, out, "Mean density")
	assert.Contains(t, out, "core")
	assert.Contains(t, out, "mantle")
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "summary", "testdata/two_layer.yaml", "-o", "json")
	require.NoError(t, err)

	var got summaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "toy", got.ID)
	assert.Equal(t, "Toy", got.Name)
	assert.InDelta(t, 100e3, got.RadiusM, 1e-6)
	require.Len(t, got.Layers, 2)
	assert.Equal(t, "core", got.Layers[0].Name)
	assert.InDelta(t, 8000, got.Layers[0].MeanDensity, 1e-9)

	mantle := got.Layers[1].MeanDensity
	assert.Greater(t, mantle, 3000.0)
	assert.Less(t, mantle, 3500.0)

	var mass float64
	for _, l := range got.Layers {
		mass += l.MassKg
	}
	assert.InEpsilon(t, mass, got.CalculatedMassKg, 1e-12)
	assert.InEpsilon(t, got.CalculatedMassKg/got.VolumeM3, got.MeanDensity, 1e-12)
}

func TestDensity(t *testing.T) {
	out, err := run(t, "density", "testdata/two_layer.yaml", "0", "25", "50", "75", "-o", "json")
	require.NoError(t, err)

	var got []densityJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 4)

	want := []struct {
		layer   string
		density float64
	}{
		{"mantle", 3000},
		{"mantle", 3500},
		{"mantle", 4000},
		{"core", 8000},
	}
	for i, w := range want {
		assert.Equal(t, w.layer, got[i].Layer, "depth %g", got[i].DepthKm)
		assert.InDelta(t, w.density, got[i].Density, 1e-9, "depth %g", got[i].DepthKm)
	}
}

func TestDensityErrors(t *testing.T) {
	_, err := run(t, "density", "testdata/two_layer.yaml", "150")
	assert.Error(t, err)

	_, err = run(t, "density", "testdata/two_layer.yaml", "deep")
	assert.ErrorContains(t, err, "deep")

	_, err = run(t, "density", "testdata/missing.yaml", "1")
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	out, err := run(t, "profile", "testdata/two_layer.yaml", "--step-km", "10", "-o", "json")
	require.NoError(t, err)

	var got []sampleJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 11)
	assert.InDelta(t, 0, got[0].DepthKm, 1e-9)
	assert.InDelta(t, 100, got[10].DepthKm, 1e-9)
	assert.Equal(t, "core", got[10].Layer)
	assert.InDelta(t, 8000, got[10].Density, 1e-9)
}

func TestComposition(t *testing.T) {
	out, err := run(t, "composition", "testdata/bsm.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "SiO2")
	assert.Contains(t, out, "98.6688")

	out, err = run(t, "composition", "testdata/bsm.csv", "-o", "json")
	require.NoError(t, err)
	var got compositionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Oxides, 11)

	var sum float64
	for _, f := range got.ElementFractions {
		sum += f
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMolarMass(t *testing.T) {
	out, err := run(t, "molar-mass", "SiO2", "MgO", "-o", "json")
	require.NoError(t, err)

	var got []molarMassJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.InEpsilon(t, 60.083, got[0].MolarMass, 1e-5)
	assert.Equal(t, map[string]int{"Mg": 1, "O": 1}, got[1].Atoms)

	_, err = run(t, "mm", "sio2")
	assert.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache", "interior.db")

	_, err := run(t, "summary", "testdata/two_layer.yaml", "--cache-path", cachePath)
	require.NoError(t, err)

	out, err := run(t, "summary", "testdata/two_layer.yaml", "--cache-path", cachePath, "-o", "json")
	require.NoError(t, err)
	var got summaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Layers[0].FromCache)
	assert.True(t, got.Layers[1].FromCache)

	out, err = run(t, "cache", "stats", "--cache-path", cachePath, "-o", "json")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.EqualValues(t, 1, stats["entries"])
	assert.EqualValues(t, 1, stats["hits"])
	assert.EqualValues(t, 2, stats["schema_version"])

	out, err = run(t, "cache", "purge", "--cache-path", cachePath)
	require.NoError(t, err)
	assert.Equal(t, "removed 1 entries\n", out)
}

func TestCacheRequiresPath(t *testing.T) {
	_, err := run(t, "cache", "stats")
	assert.ErrorIs(t, err, errNoCachePath)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "summary", "testdata/two_layer.yaml", "-o", "xml")
	assert.ErrorContains(t, err, "output")

	_, err = run(t, "summary", "testdata/two_layer.yaml", "--workers", "0")
	assert.ErrorContains(t, err, "workers")
}

func TestConfigFile(t *testing.T) {
	_, err := run(t, "summary", "testdata/two_layer.yaml", "--config", "testdata/nope.yaml")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "interior "+Version)
}
