// Package opt puts the GA, DE and external baseline optimizers behind one
// interface so they can be compared on the same objective.
package opt

import (
	"fmt"

	"github.com/cwbudde/evolopt/internal/objective"
)

// Result is the outcome of a single optimizer run.
type Result struct {
	Optimizer   string
	Best        []float64
	Cost        float64
	Evaluations int
}

// Optimizer minimizes an objective within box bounds.
type Optimizer interface {
	// Name identifies the optimizer in reports.
	Name() string
	// Run minimizes eval over [lower, upper]. Both slices have one entry per
	// dimension.
	Run(eval objective.Func, lower, upper []float64) (*Result, error)
}

// counter wraps an objective and counts its calls.
type counter struct {
	f     objective.Func
	calls int
}

func (c *counter) eval(x []float64) float64 {
	c.calls++
	return c.f(x)
}

func checkBounds(lower, upper []float64) error {
	if len(lower) == 0 || len(lower) != len(upper) {
		return fmt.Errorf("bounds must be non-empty and of equal length, got %d/%d", len(lower), len(upper))
	}
	for i := range lower {
		if !(lower[i] < upper[i]) {
			return fmt.Errorf("dimension %d: lower %g not below upper %g", i, lower[i], upper[i])
		}
	}
	return nil
}
