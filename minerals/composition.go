package minerals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BulkComposition is a rock composition given as oxide weight percentages.
type BulkComposition struct {
	pt     *PeriodicTable
	order  []string
	oxides map[string]float64
}

// NewBulkComposition returns an empty composition. A nil table selects the
// embedded default.
func NewBulkComposition(pt *PeriodicTable) *BulkComposition {
	if pt == nil {
		pt = DefaultPeriodicTable()
	}
	return &BulkComposition{pt: pt, oxides: make(map[string]float64)}
}

// Add sets the weight percentage of an oxide, replacing any earlier value.
func (b *BulkComposition) Add(oxide string, wtPct float64) error {
	oxide = strings.TrimSpace(oxide)
	if _, err := AtomicCounts(oxide); err != nil {
		return err
	}
	if wtPct < 0 {
		return fmt.Errorf("%s: negative weight percent %g", oxide, wtPct)
	}
	if _, ok := b.oxides[oxide]; !ok {
		b.order = append(b.order, oxide)
	}
	b.oxides[oxide] = wtPct
	return nil
}

// Oxides returns oxide names in insertion order.
func (b *BulkComposition) Oxides() []string {
	return append([]string(nil), b.order...)
}

// WeightPercent returns the stored percentage of an oxide.
func (b *BulkComposition) WeightPercent(oxide string) (float64, bool) {
	v, ok := b.oxides[oxide]
	return v, ok
}

// Total returns the sum of the oxide weight percentages.
func (b *BulkComposition) Total() float64 {
	var total float64
	for _, ox := range b.order {
		total += b.oxides[ox]
	}
	return total
}

// ElementFractions converts the composition into elemental weight fractions
// normalised by Total, so the fractions sum to 1.
func (b *BulkComposition) ElementFractions() (map[string]float64, error) {
	total := b.Total()
	if total <= 0 {
		return nil, errors.New("bulk composition is empty")
	}
	elems := make(map[string]float64)
	for _, ox := range b.order {
		proportion := b.oxides[ox] / total
		oxideMass, err := b.pt.MolecularMass(ox)
		if err != nil {
			return nil, err
		}
		counts, err := AtomicCounts(ox)
		if err != nil {
			return nil, err
		}
		for sym, n := range counts {
			e, err := b.pt.Element(sym)
			if err != nil {
				return nil, err
			}
			elems[sym] += proportion * float64(n) * e.AtomicMass / oxideMass
		}
	}
	return elems, nil
}

// LoadBulkComposition reads a CSV with oxide and wt_pct columns.
func LoadBulkComposition(r io.Reader, pt *PeriodicTable) (*BulkComposition, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("LoadBulkComposition: read header: %w", err)
	}
	oxCol, wtCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "oxide":
			oxCol = i
		case "wt_pct":
			wtCol = i
		}
	}
	if oxCol < 0 || wtCol < 0 {
		return nil, fmt.Errorf("LoadBulkComposition: header %v lacks oxide or wt_pct", header)
	}

	bc := NewBulkComposition(pt)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("LoadBulkComposition: line %d: %w", line, err)
		}
		wt, err := strconv.ParseFloat(strings.TrimSpace(rec[wtCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("LoadBulkComposition: line %d: wt_pct: %w", line, err)
		}
		if err := bc.Add(rec[oxCol], wt); err != nil {
			return nil, fmt.Errorf("LoadBulkComposition: line %d: %w", line, err)
		}
	}
	return bc, nil
}
