package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Row lengths are checked here for better messages
	return reader
}

// parseCell converts one CSV cell, rejecting anything that is not a finite number.
func parseCell(cell string, row, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d, column %d: %q is not a number", ErrDataFormat, row, col, cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: row %d, column %d: %q is not finite", ErrDataFormat, row, col, cell)
	}
	return v, nil
}

// ParseGrid reads a headerless CSV where each line is one grid row.
func ParseGrid(r io.Reader) (*Grid, error) {
	allRows, err := newCSVReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV data: %v", ErrDataFormat, err)
	}
	rows := make([][]float64, 0, len(allRows))
	for rowIdx, record := range allRows {
		if len(allRows[0]) != len(record) {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDataFormat, rowIdx+1, len(record), len(allRows[0]))
		}
		row := make([]float64, len(record))
		for colIdx, cell := range record {
			if row[colIdx], err = parseCell(cell, rowIdx+1, colIdx+1); err != nil {
				return nil, err
			}
		}
		rows = append(rows, row)
	}
	return NewGrid(rows)
}

// ReadGrid opens path and parses it with ParseGrid.
func ReadGrid(path string) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	g, err := ParseGrid(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// seriesColumn picks the value column from a header: a single column, or
// the second column of an "epoch,<name>" pair.
func seriesColumn(header []string) (int, error) {
	switch {
	case len(header) == 1:
		return 0, nil
	case len(header) == 2 && strings.EqualFold(strings.TrimSpace(header[0]), "epoch"):
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: expected one value column, header has %d columns", ErrDataFormat, len(header))
	}
}

// ParseSeries reads a CSV with a header row and one numeric column.
func ParseSeries(r io.Reader) (*Series, error) {
	allRows, err := newCSVReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV data: %v", ErrDataFormat, err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrDataFormat)
	}
	header := allRows[0]
	col, err := seriesColumn(header)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(allRows)-1)
	for i, record := range allRows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDataFormat, rowNum, len(record), len(header))
		}
		v, err := parseCell(record[col], rowNum, col+1)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return NewSeries(strings.TrimSpace(header[col]), values)
}

// ReadSeries opens path and parses it with ParseSeries.
func ReadSeries(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	s, err := ParseSeries(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteGrid writes g as a headerless CSV, one row per line.
func WriteGrid(w io.Writer, g *Grid) error {
	writer := csv.NewWriter(w)
	for _, row := range g.Rows() {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatFloat(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write grid row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSeries writes s as a single column CSV with its name as the header.
func WriteSeries(w io.Writer, s *Series) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{s.Name}); err != nil {
		return fmt.Errorf("failed to write series header: %w", err)
	}
	for _, v := range s.Values {
		if err := writer.Write([]string{formatFloat(v)}); err != nil {
			return fmt.Errorf("failed to write series value: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
