package opt

import (
	"log/slog"

	"github.com/cwbudde/evolopt/internal/de"
	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

// DEAdapter runs differential evolution as an Optimizer. Dimension and
// bounds come from Run; everything else from the configured template.
type DEAdapter struct {
	cfg    de.Config
	seed   int64
	logger *slog.Logger
}

// NewDifferentialEvolution creates a DE adapter.
func NewDifferentialEvolution(cfg de.Config, seed int64, logger *slog.Logger) *DEAdapter {
	return &DEAdapter{cfg: cfg, seed: seed, logger: logger}
}

func (d *DEAdapter) Name() string { return "de" }

func (d *DEAdapter) Run(eval objective.Func, lower, upper []float64) (*Result, error) {
	if err := checkBounds(lower, upper); err != nil {
		return nil, err
	}
	cfg := d.cfg
	cfg.Dimension = len(lower)
	cfg.Bounds = de.Bounds{
		Lower: append([]float64(nil), lower...),
		Upper: append([]float64(nil), upper...),
	}

	engine, err := de.New(cfg, eval, rng.New(d.seed), d.logger)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run()
	if err != nil {
		return nil, err
	}
	return &Result{
		Optimizer:   d.Name(),
		Best:        res.Best.Vector(),
		Cost:        res.Best.Fitness(),
		Evaluations: res.Evaluations,
	}, nil
}
