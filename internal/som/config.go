package som

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid som config")

// Config controls map size and training schedule.
type Config struct {
	Width     int
	Height    int
	Epochs    int
	LearnRate float64
	Seed      uint64
}

// DefaultConfig is a 5x5 map trained for 100 epochs at rate 0.1.
func DefaultConfig() Config {
	return Config{Width: 5, Height: 5, Epochs: 100, LearnRate: 0.1, Seed: 1}
}

// Validate checks the map has room for neighbours and a usable schedule.
func (c Config) Validate() error {
	switch {
	case c.Width < 2 || c.Height < 2:
		return fmt.Errorf("%w: map must be at least 2x2, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Epochs < 1:
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	case !(c.LearnRate > 0):
		return fmt.Errorf("%w: learn rate must be positive, got %v", ErrInvalidConfig, c.LearnRate)
	}
	return nil
}
