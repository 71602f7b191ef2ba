package de

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

// Result is the outcome of a run.
type Result struct {
	Best Individual
	// BestTrace holds the best fitness after each generation. It is
	// non-increasing.
	BestTrace []float64
	// EvaluationTrace holds the cumulative objective evaluations after each
	// generation, initial population included.
	EvaluationTrace []int
	Generations     int
	Evaluations     int
	StopReason      StopReason
}

// Engine runs differential evolution. Each generation builds every trial
// from the population as it was at the start of the generation, then swaps
// in the survivors.
type Engine struct {
	cfg       Config
	objective objective.Func
	rng       rng.Source
	logger    *slog.Logger

	population  []Individual
	best        int
	generation  int
	evaluations int
	trace       []float64
	evalTrace   []int
	stall       *stallTracker
	stopReason  StopReason
}

// New creates an engine with a population drawn uniformly from cfg.Bounds.
// A nil logger uses slog.Default().
func New(cfg Config, f objective.Func, r rng.Source, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Bounds.Validate(cfg.Dimension); err != nil {
		return nil, fmt.Errorf("initialization: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfig)
	}

	initial := make([][]float64, cfg.PopulationSize)
	for i := range initial {
		x := make([]float64, cfg.Dimension)
		for d := range x {
			x[d] = rng.Uniform(r, cfg.Bounds.Lower[d], cfg.Bounds.Upper[d])
		}
		initial[i] = x
	}
	return NewWithPopulation(cfg, f, initial, r, logger)
}

// NewWithPopulation creates an engine from explicit starting vectors. A zero
// PopulationSize or Dimension in cfg is taken from initial.
func NewWithPopulation(cfg Config, f objective.Func, initial [][]float64, r rng.Source, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if f == nil {
		return nil, fmt.Errorf("%w: objective function is required", ErrConfig)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfig)
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: initial population is empty", ErrConfig)
	}
	if cfg.PopulationSize == 0 {
		cfg.PopulationSize = len(initial)
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = len(initial[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(initial) != cfg.PopulationSize {
		return nil, fmt.Errorf("%w: %d initial vectors for population size %d", ErrConfig, len(initial), cfg.PopulationSize)
	}

	population := make([]Individual, len(initial))
	for i, x := range initial {
		if len(x) != cfg.Dimension {
			return nil, fmt.Errorf("%w: initial vector %d has %d dimensions, expected %d", ErrConfig, i, len(x), cfg.Dimension)
		}
		population[i] = Evaluate(x, f)
	}
	best := BestIndex(population)

	logger.Info("Starting differential evolution",
		"strategy", fmt.Sprintf("%s/%d/%s", cfg.Strategy, cfg.VectorCount, cfg.Scheme),
		"f", cfg.F,
		"cr", cfg.CR,
		"population_size", cfg.PopulationSize,
		"dimension", cfg.Dimension,
		"iterations", cfg.Iterations,
		"clamp", cfg.ClampMutants,
		"initial_best", population[best].fitness,
	)

	return &Engine{
		cfg:         cfg,
		objective:   f,
		rng:         r,
		logger:      logger,
		population:  population,
		best:        best,
		evaluations: len(population),
		trace:       make([]float64, 0, cfg.Iterations),
		stall:       newStallTracker(cfg.Patience, cfg.Threshold, population[best].fitness, logger),
	}, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// Done reports whether the run has stopped.
func (e *Engine) Done() bool { return e.stopReason != "" }

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Evaluations returns the number of objective calls so far.
func (e *Engine) Evaluations() int { return e.evaluations }

// Population returns a snapshot of the current population.
func (e *Engine) Population() []Individual {
	return append([]Individual(nil), e.population...)
}

// Best returns the best individual of the current population.
func (e *Engine) Best() Individual { return e.population[e.best] }

// Step runs one generation, or stops the run if the evaluation budget cannot
// cover a full generation. It returns ErrDone once the run has stopped.
func (e *Engine) Step() error {
	if e.Done() {
		return ErrDone
	}
	if e.cfg.MaxEvaluations > 0 && e.evaluations+len(e.population) > e.cfg.MaxEvaluations {
		e.finish(StopBudget)
		return nil
	}

	snapshot := e.population
	next := make([]Individual, len(snapshot))
	for i, parent := range snapshot {
		mutant := mutate(snapshot, i, e.best, e.cfg, e.rng)
		if e.cfg.ClampMutants {
			e.cfg.Bounds.Clamp(mutant)
		}
		trial := Evaluate(BinomialCrossover(parent.x, mutant, e.cfg.CR, e.rng), e.objective)
		e.evaluations++
		next[i] = Select(parent, trial)
	}

	e.population = next
	e.best = BestIndex(next)
	e.generation++
	best := next[e.best].fitness
	e.trace = append(e.trace, best)
	e.evalTrace = append(e.evalTrace, e.evaluations)

	e.logger.Debug("Generation complete",
		"generation", e.generation,
		"best_fitness", best,
		"evaluations", e.evaluations,
	)

	switch {
	case e.cfg.Epsilon > 0 && best < e.cfg.Epsilon:
		e.finish(StopEpsilon)
	case e.stall.Update(best):
		e.finish(StopStalled)
	case e.generation >= e.cfg.Iterations:
		e.finish(StopIterations)
	}
	return nil
}

func (e *Engine) finish(reason StopReason) {
	e.stopReason = reason
	e.logger.Info("Differential evolution complete",
		"reason", string(reason),
		"generations", e.generation,
		"evaluations", e.evaluations,
		"best_fitness", e.population[e.best].fitness,
	)
}

// Run steps until a stopping criterion is met.
func (e *Engine) Run() (*Result, error) {
	for !e.Done() {
		if err := e.Step(); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

// Result reports the run so far.
func (e *Engine) Result() *Result {
	return &Result{
		Best:        e.population[e.best],
		BestTrace:       append([]float64(nil), e.trace...),
		EvaluationTrace: append([]int(nil), e.evalTrace...),
		Generations:     e.generation,
		Evaluations:     e.evaluations,
		StopReason:      e.stopReason,
	}
}
