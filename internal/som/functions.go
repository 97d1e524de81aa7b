package som

import "math"

// neighbourRadius is the largest lattice distance still counted as adjacent.
// On the offset lattice this covers the six surrounding units.
const neighbourRadius = 1.5

// initialNarrowing is the neighbourhood narrowing factor at epoch 0.
const initialNarrowing = 0.1

// gaussian is the neighbourhood function exp(-r * dist^2).
func gaussian(dist, r float64) float64 {
	return math.Exp(-r * dist * dist)
}

// gaussianScale returns the r for which gaussian(halfDistance, r) == target.
func gaussianScale(halfDistance, target float64) float64 {
	return -math.Log(target) / (halfDistance * halfDistance)
}

// latticeDistance is the Euclidean distance between two unit positions.
func latticeDistance(a, b *Neuron) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
