package opt

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/ga"
	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

// GAAdapter runs the binary GA as an Optimizer. The GA decodes exactly two
// coordinates sharing one interval and maximizes base - eval.
type GAAdapter struct {
	cfg    ga.Config
	base   float64
	seed   int64
	logger *slog.Logger
}

// NewGenetic creates a GA adapter. base must exceed eval's maximum over the
// bounds passed to Run.
func NewGenetic(cfg ga.Config, base float64, seed int64, logger *slog.Logger) *GAAdapter {
	return &GAAdapter{cfg: cfg, base: base, seed: seed, logger: logger}
}

func (g *GAAdapter) Name() string { return "ga" }

func (g *GAAdapter) Run(eval objective.Func, lower, upper []float64) (*Result, error) {
	if err := checkBounds(lower, upper); err != nil {
		return nil, err
	}
	if len(lower) != 2 {
		return nil, fmt.Errorf("ga: only two dimensions are supported, got %d", len(lower))
	}
	if lower[0] != lower[1] || upper[0] != upper[1] {
		return nil, fmt.Errorf("ga: both coordinates must share one interval")
	}

	c := &counter{f: eval}
	cfg := g.cfg
	cfg.Bounds = ga.Bounds{Min: lower[0], Max: upper[0]}

	engine, err := ga.New(cfg, objective.Maximize(c.eval, g.base), rng.New(g.seed), g.logger)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}
	best := res.BestEver.Phenotype()
	return &Result{
		Optimizer:   g.Name(),
		Best:        best,
		Cost:        g.base - res.BestEver.Fitness(),
		Evaluations: c.calls,
	}, nil
}
