package opt

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external Mayfly library as an Optimizer.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a Mayfly optimizer adapter. The library needs a
// population of at least 20.
func NewMayfly(maxIters, popSize int, seed int64) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

func (m *MayflyAdapter) Name() string { return "mayfly" }

// Run executes the Mayfly optimization. The library takes scalar bounds, so
// the first dimension's interval is applied to all of them.
func (m *MayflyAdapter) Run(eval objective.Func, lower, upper []float64) (*Result, error) {
	if err := checkBounds(lower, upper); err != nil {
		return nil, err
	}
	c := &counter{f: eval}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = c.eval
	config.ProblemSize = len(lower)
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, fmt.Errorf("mayfly: %w", err)
	}

	return &Result{
		Optimizer:   m.Name(),
		Best:        result.GlobalBest.Position,
		Cost:        result.GlobalBest.Cost,
		Evaluations: c.calls,
	}, nil
}
