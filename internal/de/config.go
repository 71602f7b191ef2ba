// Package de implements differential evolution for real-valued minimization.
package de

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig marks an invalid DE configuration.
	ErrConfig = errors.New("de: invalid configuration")

	// ErrDone is returned by Step once the run has stopped.
	ErrDone = errors.New("de: run already finished")
)

// Strategy selects the base vector of a mutation.
type Strategy int

const (
	// StrategyRand uses a random population member as base.
	StrategyRand Strategy = iota
	// StrategyBest uses the current best individual as base.
	StrategyBest
)

// ParseStrategy resolves "rand" or "best".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "rand":
		return StrategyRand, nil
	case "best":
		return StrategyBest, nil
	}
	return 0, fmt.Errorf("%w: unknown mutation strategy %q", ErrConfig, s)
}

func (s Strategy) String() string {
	switch s {
	case StrategyRand:
		return "rand"
	case StrategyBest:
		return "best"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Scheme selects the crossover scheme. Only binomial crossover exists.
type Scheme int

const SchemeBinomial Scheme = iota

// ParseScheme resolves "bin".
func ParseScheme(s string) (Scheme, error) {
	if s == "bin" {
		return SchemeBinomial, nil
	}
	return 0, fmt.Errorf("%w: unknown crossover scheme %q", ErrConfig, s)
}

func (s Scheme) String() string {
	if s == SchemeBinomial {
		return "bin"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Bounds holds per-dimension lower and upper limits.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// UniformBounds applies the same interval to every dimension.
func UniformBounds(dim int, lower, upper float64) Bounds {
	b := Bounds{Lower: make([]float64, dim), Upper: make([]float64, dim)}
	for i := 0; i < dim; i++ {
		b.Lower[i] = lower
		b.Upper[i] = upper
	}
	return b
}

// IsZero reports whether no bounds are set.
func (b Bounds) IsZero() bool {
	return len(b.Lower) == 0 && len(b.Upper) == 0
}

// Validate checks the bounds cover dim dimensions with lower < upper.
func (b Bounds) Validate(dim int) error {
	if len(b.Lower) != dim || len(b.Upper) != dim {
		return fmt.Errorf("%w: bounds have %d/%d entries for %d dimensions", ErrConfig, len(b.Lower), len(b.Upper), dim)
	}
	for i := range b.Lower {
		if !(b.Lower[i] < b.Upper[i]) {
			return fmt.Errorf("%w: dimension %d has lower %g not below upper %g", ErrConfig, i, b.Lower[i], b.Upper[i])
		}
	}
	return nil
}

// Clamp clips x component-wise to the bounds in place.
func (b Bounds) Clamp(x []float64) {
	for i := range x {
		x[i] = math.Max(b.Lower[i], math.Min(b.Upper[i], x[i]))
	}
}

// Config holds the DE run parameters.
type Config struct {
	Strategy Strategy
	// VectorCount is the number of difference vectors k.
	VectorCount int
	Scheme      Scheme
	// F scales the difference vector.
	F float64
	// CR is the binomial crossover probability.
	CR float64

	PopulationSize int
	Iterations     int
	Dimension      int

	// Bounds is the initialization range and, with ClampMutants, the
	// clipping range for mutant vectors.
	Bounds       Bounds
	ClampMutants bool
	// ExcludeTarget keeps the target individual out of its own mutation.
	ExcludeTarget bool

	// Epsilon > 0 stops the run once the best fitness drops below it.
	Epsilon float64
	// MaxEvaluations > 0 caps raw objective calls, initial population
	// included.
	MaxEvaluations int
	// Patience > 0 stops the run after that many generations without a
	// relative improvement of more than Threshold.
	Patience  int
	Threshold float64
}

// DefaultEpsilon is the early-stopping threshold used for Ackley runs.
const DefaultEpsilon = 1e-5

// DefaultConfig returns DE/rand/1/bin with F=0.5 and CR=0.1 on two
// dimensions in [-10, 10].
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyRand,
		VectorCount:    1,
		Scheme:         SchemeBinomial,
		F:              0.5,
		CR:             0.1,
		PopulationSize: 20,
		Iterations:     1000,
		Dimension:      2,
		Bounds:         UniformBounds(2, -10, 10),
	}
}

// minPopulation is the smallest population that supplies the distinct
// indices one mutation draws.
func (c Config) minPopulation() int {
	n := 2*c.VectorCount + 1
	if c.ExcludeTarget {
		n++
	}
	return n
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyRand, StrategyBest:
	default:
		return fmt.Errorf("%w: unknown strategy %d", ErrConfig, int(c.Strategy))
	}
	if c.Scheme != SchemeBinomial {
		return fmt.Errorf("%w: unknown crossover scheme %d", ErrConfig, int(c.Scheme))
	}
	if c.VectorCount < 1 {
		return fmt.Errorf("%w: vector count must be at least 1, got %d", ErrConfig, c.VectorCount)
	}
	if math.IsNaN(c.F) || math.IsInf(c.F, 0) {
		return fmt.Errorf("%w: F must be finite, got %g", ErrConfig, c.F)
	}
	if c.CR < 0 || c.CR > 1 || math.IsNaN(c.CR) {
		return fmt.Errorf("%w: CR %g outside [0, 1]", ErrConfig, c.CR)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrConfig, c.Iterations)
	}
	if c.Dimension < 1 {
		return fmt.Errorf("%w: dimension must be at least 1, got %d", ErrConfig, c.Dimension)
	}
	if need := c.minPopulation(); c.PopulationSize < need {
		return fmt.Errorf("%w: %s/%d needs a population of at least %d, got %d", ErrConfig, c.Strategy, c.VectorCount, need, c.PopulationSize)
	}
	if c.ClampMutants {
		if err := c.Bounds.Validate(c.Dimension); err != nil {
			return fmt.Errorf("clamping: %w", err)
		}
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must not be negative, got %g", ErrConfig, c.Epsilon)
	}
	if c.MaxEvaluations < 0 || (c.MaxEvaluations > 0 && c.MaxEvaluations < c.PopulationSize) {
		return fmt.Errorf("%w: evaluation budget %d cannot cover the initial population of %d", ErrConfig, c.MaxEvaluations, c.PopulationSize)
	}
	if c.Patience < 0 || c.Threshold < 0 {
		return fmt.Errorf("%w: patience and threshold must not be negative", ErrConfig)
	}
	return nil
}
