package ga

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// survivorPool is the number of candidates each pair competes in: two
// offspring and the two parents that produced them.
const survivorPool = 4

// Config holds the GA run parameters.
type Config struct {
	ChromosomeSize    int
	PopulationSize    int
	Generations       int
	Crossover         Crossover
	ParentSelection   Selection
	SurvivorSelection Selection
	Mutation          Mutation
	Bounds            Bounds
}

// DefaultConfig returns the default operator set: 3-point crossover, roulette
// wheel for both selections, and every offspring mutated at 10% per gene.
func DefaultConfig() Config {
	return Config{
		ChromosomeSize:    16,
		PopulationSize:    20,
		Generations:       50,
		Crossover:         Crossover{Kind: NPoint, Points: 3},
		ParentSelection:   Selection{Kind: RouletteWheel},
		SurvivorSelection: Selection{Kind: RouletteWheel},
		Mutation:          Mutation{SelectionProbability: 1.0, GeneProbability: 0.1},
		Bounds:            DefaultBounds,
	}
}

// Validate checks the configuration, rounding an odd chromosome size up.
func (c *Config) Validate(logger *slog.Logger) error {
	if c.ChromosomeSize < 2 {
		return fmt.Errorf("%w: chromosome size must be at least 2, got %d", ErrConfig, c.ChromosomeSize)
	}
	if c.ChromosomeSize%2 == 1 {
		logger.Warn("Chromosome size can't be odd, increasing by 1", "size", c.ChromosomeSize, "new_size", c.ChromosomeSize+1)
		c.ChromosomeSize++
	}
	if c.PopulationSize < 2 || c.PopulationSize%2 != 0 {
		return fmt.Errorf("%w: population size must be even and at least 2, got %d", ErrConfig, c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("%w: generation count must be at least 1, got %d", ErrConfig, c.Generations)
	}
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if err := c.Crossover.Validate(c.ChromosomeSize); err != nil {
		return err
	}
	if err := c.Mutation.Validate(); err != nil {
		return err
	}
	if c.ParentSelection.Kind == Elitism {
		return fmt.Errorf("%w: elitism is only available for survivor selection", ErrConfig)
	}
	if err := validateSelection(c.ParentSelection, c.PopulationSize, "parent"); err != nil {
		return err
	}
	return validateSelection(c.SurvivorSelection, survivorPool, "survivor")
}

func validateSelection(s Selection, pool int, role string) error {
	switch s.Kind {
	case RouletteWheel, StochasticUniversal, RankBased, Elitism:
		return nil
	case Tournament:
		if s.TournamentSize < 1 || s.TournamentSize > pool {
			return fmt.Errorf("%w: %s tournament size %d needs 1 <= size <= %d", ErrConfig, role, s.TournamentSize, pool)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown %s selection kind %d", ErrConfig, role, int(s.Kind))
}

// State is the engine's position in its run.
type State int

const (
	StateInitialized State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of a run.
type Result struct {
	// BestEver is the fittest chromosome seen in any generation.
	BestEver *Chromosome
	// BestLastGeneration is the fittest chromosome of the current population.
	BestLastGeneration *Chromosome
	// MaxFitness and AverageFitness hold one entry per completed generation,
	// measured on the population that generation started from.
	MaxFitness     []float64
	AverageFitness []float64
	Generations    int
}

// Engine runs the generational loop. It owns its population; a generation
// either completes and swaps in a new population or leaves the old one intact.
type Engine struct {
	cfg     Config
	fitness objective.Func
	rng     rng.Source
	logger  *slog.Logger

	state      State
	generation int
	population []*Chromosome
	bestEver   *Chromosome

	maxFitness []float64
	avgFitness []float64
}

// New validates cfg and creates a random initial population. fitness is
// maximized and must be positive when a proportional strategy is used; see
// objective.Maximize. A nil logger uses slog.Default().
func New(cfg Config, fitness objective.Func, r rng.Source, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if fitness == nil {
		return nil, fmt.Errorf("%w: fitness function is required", ErrConfig)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfig)
	}
	if err := cfg.Validate(logger); err != nil {
		return nil, err
	}

	population := make([]*Chromosome, cfg.PopulationSize)
	for i := range population {
		population[i] = RandomChromosome(cfg.ChromosomeSize, cfg.Bounds, fitness, r)
	}

	return &Engine{
		cfg:        cfg,
		fitness:    fitness,
		rng:        r,
		logger:     logger,
		state:      StateInitialized,
		population: population,
		bestEver:   fittest(population),
		maxFitness: make([]float64, 0, cfg.Generations),
		avgFitness: make([]float64, 0, cfg.Generations),
	}, nil
}

// Config returns the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// State returns the engine state.
func (e *Engine) State() State { return e.state }

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Population returns a snapshot of the current population.
func (e *Engine) Population() []*Chromosome {
	return append([]*Chromosome(nil), e.population...)
}

// Step runs one generation. It returns ErrDone once the configured number of
// generations has completed. On error the population is left unchanged.
func (e *Engine) Step() error {
	switch e.state {
	case StateDone:
		return ErrDone
	case StateInitialized:
		e.state = StateRunning
		e.logger.Info("Starting genetic algorithm",
			"chromosome_size", e.cfg.ChromosomeSize,
			"population_size", e.cfg.PopulationSize,
			"generations", e.cfg.Generations,
			"crossover", e.cfg.Crossover.String(),
			"parent_selection", e.cfg.ParentSelection.String(),
			"survivor_selection", e.cfg.SurvivorSelection.String(),
		)
	}

	fitness := make([]float64, len(e.population))
	for i, c := range e.population {
		fitness[i] = c.fitness
	}
	maxFitness := floats.Max(fitness)
	avgFitness := stat.Mean(fitness, nil)

	next, err := e.breed()
	if err != nil {
		return fmt.Errorf("generation %d: %w", e.generation+1, err)
	}

	e.maxFitness = append(e.maxFitness, maxFitness)
	e.avgFitness = append(e.avgFitness, avgFitness)
	e.population = next
	e.generation++

	if best := fittest(next); best.fitness > e.bestEver.fitness {
		e.bestEver = best
	}

	e.logger.Debug("Generation complete",
		"generation", e.generation,
		"max_fitness", maxFitness,
		"average_fitness", avgFitness,
		"best_ever", e.bestEver.fitness,
	)

	if e.generation >= e.cfg.Generations {
		e.state = StateDone
		e.logger.Info("Genetic algorithm complete",
			"generations", e.generation,
			"best_fitness", e.bestEver.fitness,
			"best_chromosome", e.bestEver.String(),
		)
	}
	return nil
}

// breed builds the next population from the current one without touching it.
func (e *Engine) breed() ([]*Chromosome, error) {
	parents, err := e.cfg.ParentSelection.Select(e.population, e.cfg.PopulationSize, e.rng)
	if err != nil {
		return nil, fmt.Errorf("parent selection: %w", err)
	}

	next := make([]*Chromosome, 0, e.cfg.PopulationSize)
	for i := 0; i+1 < len(parents); i += 2 {
		a, b := parents[i], parents[i+1]
		c1, c2, err := e.cfg.Crossover.Apply(a, b, e.rng)
		if err != nil {
			return nil, fmt.Errorf("crossover: %w", err)
		}
		c1 = e.cfg.Mutation.Apply(c1, e.rng)
		c2 = e.cfg.Mutation.Apply(c2, e.rng)

		survivors, err := e.cfg.SurvivorSelection.Select([]*Chromosome{c1, c2, a, b}, 2, e.rng)
		if err != nil {
			return nil, fmt.Errorf("survivor selection: %w", err)
		}
		next = append(next, survivors...)
	}
	return next, nil
}

// Run steps until every generation has completed and returns the result.
func (e *Engine) Run() (*Result, error) {
	for e.state != StateDone {
		if err := e.Step(); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

// Result reports the run so far.
func (e *Engine) Result() *Result {
	return &Result{
		BestEver:           e.bestEver,
		BestLastGeneration: fittest(e.population),
		MaxFitness:         append([]float64(nil), e.maxFitness...),
		AverageFitness:     append([]float64(nil), e.avgFitness...),
		Generations:        e.generation,
	}
}
