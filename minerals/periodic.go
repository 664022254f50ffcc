// Package minerals converts oxide formulas and bulk compositions into
// elemental quantities using a periodic table reference.
package minerals

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/periodic.csv
var periodicCSV string

var (
	ErrUnknownElement = errors.New("unknown element")
	ErrInvalidFormula = errors.New("invalid formula")
)

var (
	// One element symbol with an optional count, e.g. "Al2".
	termPattern = regexp.MustCompile(`([A-Z][a-z]*)(\d*)`)
)

// Element is one row of the periodic table.
type Element struct {
	AtomicNumber int
	Symbol       string
	Name         string
	AtomicMass   float64 // g/mol
}

// PeriodicTable looks elements up by symbol.
type PeriodicTable struct {
	bySymbol map[string]Element
}

// DefaultPeriodicTable returns the embedded table of elements 1-92 with
// IUPAC abridged standard atomic weights.
func DefaultPeriodicTable() *PeriodicTable {
	pt, err := LoadPeriodicTable(strings.NewReader(periodicCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded periodic table: %v", err))
	}
	return pt
}

// LoadPeriodicTable reads a CSV with AtomicNumber, Symbol, Name and
// AtomicMass columns.
func LoadPeriodicTable(r io.Reader) (*PeriodicTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("LoadPeriodicTable: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, want := range []string{"AtomicNumber", "Symbol", "AtomicMass"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("LoadPeriodicTable: missing column %q", want)
		}
	}

	pt := &PeriodicTable{bySymbol: make(map[string]Element)}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("LoadPeriodicTable: %w", err)
	}
	for i, rec := range records {
		z, err := strconv.Atoi(rec[col["AtomicNumber"]])
		if err != nil {
			return nil, fmt.Errorf("LoadPeriodicTable: row %d: atomic number: %w", i+2, err)
		}
		mass, err := strconv.ParseFloat(rec[col["AtomicMass"]], 64)
		if err != nil {
			return nil, fmt.Errorf("LoadPeriodicTable: row %d: atomic mass: %w", i+2, err)
		}
		e := Element{AtomicNumber: z, Symbol: rec[col["Symbol"]], AtomicMass: mass}
		if idx, ok := col["Name"]; ok {
			e.Name = rec[idx]
		}
		pt.bySymbol[e.Symbol] = e
	}
	return pt, nil
}

// Element returns the element with the given symbol, e.g. "Fe".
func (pt *PeriodicTable) Element(symbol string) (Element, error) {
	e, ok := pt.bySymbol[symbol]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownElement, symbol)
	}
	return e, nil
}

// Len returns the number of elements in the table.
func (pt *PeriodicTable) Len() int { return len(pt.bySymbol) }

// MolecularMass returns the molar mass (g/mol) of a formula such as SiO2.
func (pt *PeriodicTable) MolecularMass(formula string) (float64, error) {
	counts, err := AtomicCounts(formula)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, sym := range sortedKeys(counts) {
		e, err := pt.Element(sym)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", formula, err)
		}
		total += e.AtomicMass * float64(counts[sym])
	}
	return total, nil
}

// AtomicCounts returns the number of atoms of each element in a flat
// formula. Repeated symbols accumulate, so FeOOH has two oxygens.
func AtomicCounts(formula string) (map[string]int, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFormula)
	}
	matches := termPattern.FindAllStringSubmatchIndex(formula, -1)
	counts := make(map[string]int, len(matches))
	next := 0
	for _, m := range matches {
		if m[0] != next {
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, formula[next:m[0]], formula)
		}
		next = m[1]
		n := 1
		if m[4] != m[5] {
			v, err := strconv.Atoi(formula[m[4]:m[5]])
			if err != nil || v == 0 {
				return nil, fmt.Errorf("%w: bad count in %q", ErrInvalidFormula, formula)
			}
			n = v
		}
		counts[formula[m[2]:m[3]]] += n
	}
	if next != len(formula) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, formula[next:], formula)
	}
	return counts, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
