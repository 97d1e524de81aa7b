// Package som trains a Kohonen self-organizing map on motor data and
// produces the activation grid and per-epoch error series that the plot
// commands render.
package som

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/user/somplot/internal/parser"
	"gonum.org/v1/gonum/floats"
)

// Neuron is one map unit: its lattice position and weight vector.
type Neuron struct {
	X, Y    float64
	Weights []float64
}

// EpochStats is reported after each training epoch.
type EpochStats struct {
	Epoch             int
	LearnRate         float64
	TopologicalError  float64
	QuantizationError float64
}

// Map is a rectangular SOM laid out on an offset lattice: odd rows are
// shifted right by half a unit. Neuron (x, y) is stored at y*Width + x.
type Map struct {
	cfg     Config
	neurons []Neuron
	points  []parser.DataPoint
	rng     *rand.Rand
	epoch   int

	topological  []float64
	quantization []float64
}

// New builds a map with random weights in [-1, 1] for the samples of file.
// The samples are copied; file is not modified by training.
func New(file *parser.MotorFile, cfg Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if file == nil || len(file.Points) == 0 {
		return nil, fmt.Errorf("%w: no samples to train on", ErrInvalidConfig)
	}

	m := &Map{
		cfg:    cfg,
		points: append([]parser.DataPoint(nil), file.Points...),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	m.neurons = make([]Neuron, 0, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			n := Neuron{X: float64(x), Y: float64(y), Weights: make([]float64, file.Bins)}
			if y%2 == 1 {
				n.X += 0.5
			}
			for i := range n.Weights {
				n.Weights[i] = m.rng.Float64()*2 - 1
			}
			m.neurons = append(m.neurons, n)
		}
	}
	return m, nil
}

// Config returns the configuration the map was built with.
func (m *Map) Config() Config { return m.cfg }

// Epoch is the number of completed training epochs.
func (m *Map) Epoch() int { return m.epoch }

// Neurons exposes the map units, row by row. Callers must not modify them.
func (m *Map) Neurons() []Neuron { return m.neurons }

// Done reports whether the configured number of epochs has been trained.
func (m *Map) Done() bool { return m.epoch >= m.cfg.Epochs }

// nearestNeighbourDistance is the lattice distance from unit i to its closest other unit.
func (m *Map) nearestNeighbourDistance(i int) float64 {
	best := math.MaxFloat64
	for j := range m.neurons {
		if j != i {
			best = math.Min(best, latticeDistance(&m.neurons[i], &m.neurons[j]))
		}
	}
	return best
}

// bestTwo returns the best and second best matching units for x and the
// distance to the best one.
func (m *Map) bestTwo(x []float64) (first, second int, dist float64) {
	first, second = -1, -1
	d1, d2 := math.MaxFloat64, math.MaxFloat64
	for i := range m.neurons {
		d := floats.Distance(m.neurons[i].Weights, x, 2)
		switch {
		case d < d1:
			second, d2 = first, d1
			first, d1 = i, d
		case d < d2:
			second, d2 = i, d
		}
	}
	return first, second, d1
}

// BMU returns the index of the unit whose weights are closest to x.
func (m *Map) BMU(x []float64) int {
	first, _, _ := m.bestTwo(x)
	return first
}

// TrainEpoch presents every sample once, in shuffled order, and records the
// resulting errors.
func (m *Map) TrainEpoch() EpochStats {
	m.rng.Shuffle(len(m.points), func(i, j int) {
		m.points[i], m.points[j] = m.points[j], m.points[i]
	})

	// The neighbourhood narrows over time; at the end a unit half way to
	// the winner's nearest neighbour is pulled at about half strength.
	timeRatio := float64(m.epoch) / float64(m.cfg.Epochs)
	narrowing := initialNarrowing + timeRatio
	eta := m.cfg.LearnRate * math.Exp(-2*timeRatio)

	for _, p := range m.points {
		v0 := m.BMU(p.Bins)
		scale := gaussianScale(m.nearestNeighbourDistance(v0)*0.5, 0.5)
		for i := range m.neurons {
			h := 1.0
			if i != v0 {
				h = gaussian(latticeDistance(&m.neurons[v0], &m.neurons[i]), narrowing*scale)
			}
			// w += eta*h*(x - w)
			w := m.neurons[i].Weights
			floats.Scale(1-eta*h, w)
			floats.AddScaled(w, eta*h, p.Bins)
		}
	}
	m.epoch++

	stats := EpochStats{
		Epoch:             m.epoch,
		LearnRate:         eta,
		TopologicalError:  m.TopologicalError(),
		QuantizationError: m.QuantizationError(),
	}
	m.topological = append(m.topological, stats.TopologicalError)
	m.quantization = append(m.quantization, stats.QuantizationError)
	return stats
}

// Train runs the remaining epochs, calling onEpoch after each one if set.
// It stops early with the context's error when ctx is cancelled.
func (m *Map) Train(ctx context.Context, onEpoch func(EpochStats)) error {
	for !m.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats := m.TrainEpoch()
		if onEpoch != nil {
			onEpoch(stats)
		}
	}
	return nil
}
