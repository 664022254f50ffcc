package minerals

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolLookup(t *testing.T) {
	pt := DefaultPeriodicTable()
	assert.Equal(t, 92, pt.Len())

	fe, err := pt.Element("Fe")
	require.NoError(t, err)
	assert.Equal(t, 26, fe.AtomicNumber)
	assert.Equal(t, "Iron", fe.Name)

	o, err := pt.Element("O")
	require.NoError(t, err)
	assert.InDelta(t, 15.999, o.AtomicMass, 1e-9)

	_, err = pt.Element("Xx")
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestAtomicCounts(t *testing.T) {
	tests := []struct {
		formula string
		want    map[string]int
	}{
		{"MnO", map[string]int{"Mn": 1, "O": 1}},
		{"Cr2O3", map[string]int{"Cr": 2, "O": 3}},
		{"Fe2SiO4", map[string]int{"Fe": 2, "Si": 1, "O": 4}},
		{"FeOOH", map[string]int{"Fe": 1, "O": 2, "H": 1}},
		{" SiO2 ", map[string]int{"Si": 1, "O": 2}},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, err := AtomicCounts(tt.formula)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAtomicCountsInvalid(t *testing.T) {
	for _, f := range []string{"", "sio2", "Si(O)2", "SiO0", "2SiO"} {
		t.Run(f, func(t *testing.T) {
			_, err := AtomicCounts(f)
			assert.ErrorIs(t, err, ErrInvalidFormula)
		})
	}
}

func TestOxideMassCalculation(t *testing.T) {
	pt := DefaultPeriodicTable()
	tests := []struct {
		oxide string
		want  float64
	}{
		{"SiO2", 60.083},
		{"MgO", 40.304},
		{"Al2O3", 101.961},
	}
	for _, tt := range tests {
		t.Run(tt.oxide, func(t *testing.T) {
			got, err := pt.MolecularMass(tt.oxide)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, 1e-5)
		})
	}

	_, err := pt.MolecularMass("Qz2O")
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestBulkCompositionTotal(t *testing.T) {
	bc := NewBulkComposition(nil)
	require.NoError(t, bc.Add("SiO2", 45.5))
	require.NoError(t, bc.Add("MgO", 31.0))
	require.NoError(t, bc.Add("FeO", 14.7))
	assert.InDelta(t, 91.2, bc.Total(), 1e-9)
	assert.Equal(t, []string{"SiO2", "MgO", "FeO"}, bc.Oxides())

	require.NoError(t, bc.Add("MgO", 30.0))
	assert.InDelta(t, 90.2, bc.Total(), 1e-9)
	assert.Len(t, bc.Oxides(), 3)

	assert.Error(t, bc.Add("MgO", -1))
	assert.ErrorIs(t, bc.Add("mgo", 1), ErrInvalidFormula)
}

func TestElementFractions(t *testing.T) {
	tests := []struct {
		name   string
		oxides []string
		pct    []float64
	}{
		{"quartz", []string{"SiO2"}, []float64{100}},
		{"forsterite", []string{"MgO", "SiO2"}, []float64{57.294, 42.706}},
		{"olivine", []string{"MgO", "FeO", "SiO2"}, []float64{23.401, 41.714, 34.886}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := NewBulkComposition(nil)
			for i := range tt.oxides {
				require.NoError(t, bc.Add(tt.oxides[i], tt.pct[i]))
			}
			fractions, err := bc.ElementFractions()
			require.NoError(t, err)

			var sum float64
			for _, f := range fractions {
				sum += f
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestElementFractionsQuartz(t *testing.T) {
	bc := NewBulkComposition(nil)
	require.NoError(t, bc.Add("SiO2", 100))
	fractions, err := bc.ElementFractions()
	require.NoError(t, err)
	assert.InDelta(t, 28.085/60.083, fractions["Si"], 1e-9)
	assert.InDelta(t, 2*15.999/60.083, fractions["O"], 1e-9)
}

func TestElementFractionsEmpty(t *testing.T) {
	_, err := NewBulkComposition(nil).ElementFractions()
	assert.Error(t, err)
}

func TestElementFractionsUnknownElement(t *testing.T) {
	bc := NewBulkComposition(nil)
	require.NoError(t, bc.Add("SiO2", 50))
	require.NoError(t, bc.Add("Qz2O", 50))
	_, err := bc.ElementFractions()
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestLoadBulkComposition(t *testing.T) {
	f, err := os.Open("testdata/bsm.csv")
	require.NoError(t, err)
	defer f.Close()

	bc, err := LoadBulkComposition(f, nil)
	require.NoError(t, err)
	assert.InDelta(t, 98.6688, bc.Total(), 1e-9)
	assert.Len(t, bc.Oxides(), 11)

	fractions, err := bc.ElementFractions()
	require.NoError(t, err)
	assert.Greater(t, fractions["O"], fractions["Si"])
	assert.Greater(t, fractions["Mg"], fractions["Fe"])
}

func TestLoadBulkCompositionErrors(t *testing.T) {
	_, err := LoadBulkComposition(strings.NewReader("name,value\nSiO2,1\n"), nil)
	assert.Error(t, err)

	_, err = LoadBulkComposition(strings.NewReader("oxide,wt_pct\nSiO2,abc\n"), nil)
	assert.Error(t, err)
}
