package opt

import (
	"fmt"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
	"gonum.org/v1/gonum/optimize"
)

// NelderMeadAdapter runs gonum's Nelder-Mead simplex from a random start.
// The method is unconstrained, so points are projected into the bounds
// before evaluation.
type NelderMeadAdapter struct {
	maxEvals int
	seed     int64
}

// NewNelderMead creates a Nelder-Mead adapter with an evaluation budget.
func NewNelderMead(maxEvals int, seed int64) *NelderMeadAdapter {
	return &NelderMeadAdapter{maxEvals: maxEvals, seed: seed}
}

func (n *NelderMeadAdapter) Name() string { return "nelder-mead" }

func (n *NelderMeadAdapter) Run(eval objective.Func, lower, upper []float64) (*Result, error) {
	if err := checkBounds(lower, upper); err != nil {
		return nil, err
	}
	r := rng.New(n.seed)
	x0 := make([]float64, len(lower))
	for i := range x0 {
		x0[i] = rng.Uniform(r, lower[i], upper[i])
	}

	project := func(x []float64) []float64 {
		p := make([]float64, len(x))
		for i, v := range x {
			p[i] = min(max(v, lower[i]), upper[i])
		}
		return p
	}

	c := &counter{f: eval}
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return c.eval(project(x)) },
	}
	settings := &optimize.Settings{FuncEvaluations: n.maxEvals}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("nelder-mead: %w", err)
	}

	return &Result{
		Optimizer:   n.Name(),
		Best:        project(result.X),
		Cost:        result.F,
		Evaluations: c.calls,
	}, nil
}
