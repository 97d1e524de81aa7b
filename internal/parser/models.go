package parser

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDataFormat is returned when input does not have the expected numeric shape.
var ErrDataFormat = errors.New("data format error")

// Grid is a rectangular array of values, height rows by width columns.
// Row r is plotted at Y = r and column c at X = c, so it satisfies
// plotter.GridXYZ without transposing.
type Grid struct {
	m *mat.Dense
}

// NewGrid copies rows into a Grid. Rows must be non-empty and of equal length.
func NewGrid(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: grid has no cells", ErrDataFormat)
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDataFormat, i+1, len(row), width)
		}
		data = append(data, row...)
	}
	return &Grid{m: mat.NewDense(len(rows), width, data)}, nil
}

// Height is the number of rows.
func (g *Grid) Height() int { r, _ := g.m.Dims(); return r }

// Width is the number of columns.
func (g *Grid) Width() int { _, c := g.m.Dims(); return c }

// At returns the value at the given row and column.
func (g *Grid) At(row, col int) float64 { return g.m.At(row, col) }

// Range returns the smallest and largest cell values.
func (g *Grid) Range() (min, max float64) { return mat.Min(g.m), mat.Max(g.m) }

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]float64 {
	out := make([][]float64, g.Height())
	for r := range out {
		out[r] = mat.Row(nil, r, g.m)
	}
	return out
}

// Dims, Z, X and Y implement plotter.GridXYZ.
func (g *Grid) Dims() (c, r int)   { r, c = g.m.Dims(); return c, r }
func (g *Grid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g *Grid) X(c int) float64    { return float64(c) }
func (g *Grid) Y(r int) float64    { return float64(r) }

// Series is one error metric indexed by epoch (the 0-based row index).
type Series struct {
	Name   string
	Values []float64
}

// NewSeries builds a Series, rejecting empty input.
func NewSeries(name string, values []float64) (*Series, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: series %q has no values", ErrDataFormat, name)
	}
	return &Series{Name: name, Values: append([]float64(nil), values...)}, nil
}

// Len is the number of epochs in the series.
func (s *Series) Len() int { return len(s.Values) }

// Range returns the smallest and largest value.
func (s *Series) Range() (min, max float64) { return floats.Min(s.Values), floats.Max(s.Values) }

// DataPoint is one motor sample: its histogram bins and whether it was labelled bad.
type DataPoint struct {
	Bad  bool
	Bins []float64
}

// MotorFile holds the samples of one .out file.
type MotorFile struct {
	Path     string
	Bins     int
	Points   []DataPoint
	Warnings []string // Non-fatal problems, e.g. skipped lines
}

// Normalize returns a copy with every sample scaled to unit length.
// All-zero samples are kept unchanged.
func (f *MotorFile) Normalize() *MotorFile {
	out := &MotorFile{Path: f.Path, Bins: f.Bins, Warnings: append([]string(nil), f.Warnings...)}
	out.Points = make([]DataPoint, len(f.Points))
	for i, p := range f.Points {
		bins := append([]float64(nil), p.Bins...)
		if n := floats.Norm(bins, 2); n > 0 {
			floats.Scale(1/n, bins)
		}
		out.Points[i] = DataPoint{Bad: p.Bad, Bins: bins}
	}
	return out
}

// MergeMotorFiles concatenates the samples of files that share a bin count.
func MergeMotorFiles(files []*MotorFile) (*MotorFile, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no motor data files to merge", ErrDataFormat)
	}
	merged := &MotorFile{Path: "merged", Bins: files[0].Bins}
	for _, f := range files {
		if f.Bins != merged.Bins {
			return nil, fmt.Errorf("%w: %s has %d bins, expected %d", ErrDataFormat, f.Path, f.Bins, merged.Bins)
		}
		merged.Points = append(merged.Points, f.Points...)
		merged.Warnings = append(merged.Warnings, f.Warnings...)
	}
	return merged, nil
}
