package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names expected in a density table CSV.
const (
	DepthColumn   = "depth_km"
	DensityColumn = "density"
)

// LoadDensityTable reads a CSV with depth_km and density columns (any order,
// extra columns ignored) and returns depths converted to metres alongside
// the densities.
func LoadDensityTable(r io.Reader) (depths, densities []float64, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("LoadDensityTable: %w", ErrEmptyTable)
		}
		return nil, nil, fmt.Errorf("LoadDensityTable: read header: %w", err)
	}
	depthCol, densityCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case DepthColumn:
			depthCol = i
		case DensityColumn:
			densityCol = i
		}
	}
	if depthCol < 0 || densityCol < 0 {
		return nil, nil, fmt.Errorf("LoadDensityTable: header %v lacks %q or %q", header, DepthColumn, DensityColumn)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("LoadDensityTable: line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if depthCol >= len(rec) || densityCol >= len(rec) {
			return nil, nil, fmt.Errorf("LoadDensityTable: line %d: %d fields", line, len(rec))
		}
		km, err := strconv.ParseFloat(strings.TrimSpace(rec[depthCol]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("LoadDensityTable: line %d: depth: %w", line, err)
		}
		rho, err := strconv.ParseFloat(strings.TrimSpace(rec[densityCol]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("LoadDensityTable: line %d: density: %w", line, err)
		}
		depths = append(depths, km*1000)
		densities = append(densities, rho)
	}
	if len(depths) == 0 {
		return nil, nil, fmt.Errorf("LoadDensityTable: %w", ErrEmptyTable)
	}
	return depths, densities, nil
}

// LoadTabulatedDensity reads a density table CSV and builds a model for the
// depth range [upperDepth, lowerDepth] of a planet of radius totalRadius.
func LoadTabulatedDensity(r io.Reader, upperDepth, lowerDepth, totalRadius float64, opts ...TabulatedOption) (*TabulatedDensity, error) {
	depths, densities, err := LoadDensityTable(r)
	if err != nil {
		return nil, err
	}
	return NewTabulatedDensity(depths, densities, upperDepth, lowerDepth, totalRadius, opts...)
}
