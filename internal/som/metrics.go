package som

import (
	"fmt"

	"github.com/user/somplot/internal/parser"
	"gonum.org/v1/gonum/floats"
)

// Series names used as CSV headers.
const (
	TopologicalSeriesName  = "topological_error"
	QuantizationSeriesName = "quantization_error"
)

// QuantizationError is the mean distance from each sample to its best matching unit.
func (m *Map) QuantizationError() float64 {
	total := 0.0
	for _, p := range m.points {
		_, _, d := m.bestTwo(p.Bins)
		total += d
	}
	return total / float64(len(m.points))
}

// TopologicalError is the fraction of samples whose best and second best
// matching units are not adjacent on the lattice.
func (m *Map) TopologicalError() float64 {
	bad := 0
	for _, p := range m.points {
		first, second, _ := m.bestTwo(p.Bins)
		if latticeDistance(&m.neurons[first], &m.neurons[second]) > neighbourRadius {
			bad++
		}
	}
	return float64(bad) / float64(len(m.points))
}

// History returns the per-epoch error series recorded so far.
func (m *Map) History() (topological, quantization *parser.Series, err error) {
	if m.epoch == 0 {
		return nil, nil, fmt.Errorf("%w: map has not been trained", ErrInvalidConfig)
	}
	if topological, err = parser.NewSeries(TopologicalSeriesName, m.topological); err != nil {
		return nil, nil, err
	}
	if quantization, err = parser.NewSeries(QuantizationSeriesName, m.quantization); err != nil {
		return nil, nil, err
	}
	return topological, quantization, nil
}

// Activations scores every unit against the given samples: good samples add
// their gaussian activation, bad samples subtract it. Scores are rescaled to
// [-1, 1] and returned as a Height x Width grid, row y holding units (x, y).
func (m *Map) Activations(points []parser.DataPoint) (*parser.Grid, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no samples to score", ErrInvalidConfig)
	}
	scores := make([]float64, len(m.neurons))
	for i := range m.neurons {
		scale := gaussianScale(m.nearestNeighbourDistance(i)*0.5, 0.5)
		for _, p := range points {
			a := gaussian(floats.Distance(m.neurons[i].Weights, p.Bins, 2), scale)
			if p.Bad {
				scores[i] -= a
			} else {
				scores[i] += a
			}
		}
	}

	min, max := floats.Min(scores), floats.Max(scores)
	rows := make([][]float64, m.cfg.Height)
	for y := range rows {
		rows[y] = make([]float64, m.cfg.Width)
		for x := range rows[y] {
			if max > min {
				rows[y][x] = 2*(scores[y*m.cfg.Width+x]-min)/(max-min) - 1
			}
		}
	}
	return parser.NewGrid(rows)
}
