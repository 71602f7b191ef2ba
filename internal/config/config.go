// Package config loads run configuration for the GA and DE commands.
package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/evolopt/internal/de"
	"github.com/cwbudde/evolopt/internal/ga"
	"github.com/cwbudde/evolopt/internal/objective"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all run configuration.
type Config struct {
	Seed      int64         `yaml:"seed"`
	Objective string        `yaml:"objective"`
	GA        GAConfig      `yaml:"ga"`
	DE        DEConfig      `yaml:"de"`
	Compare   CompareConfig `yaml:"compare"`
}

// GAConfig holds genetic algorithm parameters in token form. Crossover is
// uniform, single_point or <n>_point. Selections are rws, sus, rb or ts_<m>;
// survivors may also use elitism.
type GAConfig struct {
	ChromosomeSize    int              `yaml:"chromosome_size"`
	PopulationSize    int              `yaml:"population_size"`
	Generations       int              `yaml:"generations"`
	Crossover         string           `yaml:"crossover"`
	ParentSelection   string           `yaml:"parent_selection"`
	SurvivorSelection string           `yaml:"survivor_selection"`
	Mutation          MutationConfig   `yaml:"mutation"`
	Bounds            *objective.Range `yaml:"bounds,omitempty"`
	FitnessBase       float64          `yaml:"fitness_base,omitempty"`
}

// MutationConfig holds the two mutation probabilities.
type MutationConfig struct {
	SelectionProbability float64 `yaml:"selection_probability"`
	GeneProbability      float64 `yaml:"gene_probability"`
}

// DEConfig holds differential evolution parameters in token form.
type DEConfig struct {
	Strategy       string           `yaml:"strategy"` // rand, best
	Vectors        int              `yaml:"vectors"`
	Scheme         string           `yaml:"scheme"` // bin
	F              float64          `yaml:"f"`
	CR             float64          `yaml:"cr"`
	PopulationSize int              `yaml:"population_size"`
	Iterations     int              `yaml:"iterations"`
	Dimension      int              `yaml:"dimension"`
	Bounds         *objective.Range `yaml:"bounds,omitempty"`
	Clamp          *bool            `yaml:"clamp,omitempty"`
	ExcludeTarget  bool             `yaml:"exclude_target"`
	Epsilon        float64          `yaml:"epsilon"`
	MaxEvaluations int              `yaml:"max_evaluations"`
	Patience       int              `yaml:"patience"`
	Threshold      float64          `yaml:"threshold"`
}

// CompareConfig holds settings for the optimizer comparison.
type CompareConfig struct {
	Runs       int              `yaml:"runs"`
	Mayfly     MayflyConfig     `yaml:"mayfly"`
	NelderMead NelderMeadConfig `yaml:"nelder_mead"`
}

type MayflyConfig struct {
	Iterations     int `yaml:"iterations"`
	PopulationSize int `yaml:"population_size"`
}

type NelderMeadConfig struct {
	MaxEvaluations int `yaml:"max_evaluations"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Write encodes the configuration as YAML. Loading the output reproduces c.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return nil
}

// ObjectiveSpec resolves the configured objective.
func (c *Config) ObjectiveSpec() (objective.Spec, error) {
	return objective.Lookup(c.Objective)
}

// GAEngine converts the GA section into an engine configuration for spec.
// Unset bounds fall back to the objective's GA interval.
func (c *Config) GAEngine(spec objective.Spec) (ga.Config, error) {
	bounds := spec.GABounds
	if c.GA.Bounds != nil {
		bounds = *c.GA.Bounds
	}
	return ga.ParseConfig(ga.Options{
		ChromosomeSize:               c.GA.ChromosomeSize,
		PopulationSize:               c.GA.PopulationSize,
		Generations:                  c.GA.Generations,
		Crossover:                    c.GA.Crossover,
		ParentSelection:              c.GA.ParentSelection,
		SurvivorSelection:            c.GA.SurvivorSelection,
		MutationSelectionProbability: c.GA.Mutation.SelectionProbability,
		MutationGeneProbability:      c.GA.Mutation.GeneProbability,
		Min:                          bounds.Min,
		Max:                          bounds.Max,
	})
}

// GAFitnessBase is the constant the GA subtracts the objective from. Unless
// set explicitly it is derived from the objective and the GA bounds so that
// fitness stays positive.
func (c *Config) GAFitnessBase(spec objective.Spec) float64 {
	if c.GA.FitnessBase != 0 {
		return c.GA.FitnessBase
	}
	bounds := spec.GABounds
	if c.GA.Bounds != nil {
		bounds = *c.GA.Bounds
	}
	return spec.Base(bounds, 2)
}

// DEEngine converts the DE section into an engine configuration for spec.
// Unset bounds and clamping fall back to the objective's presets.
func (c *Config) DEEngine(spec objective.Spec) (de.Config, error) {
	strategy, err := de.ParseStrategy(c.DE.Strategy)
	if err != nil {
		return de.Config{}, err
	}
	scheme, err := de.ParseScheme(c.DE.Scheme)
	if err != nil {
		return de.Config{}, err
	}
	if c.DE.Dimension < 1 {
		return de.Config{}, fmt.Errorf("%w: dimension must be at least 1, got %d", de.ErrConfig, c.DE.Dimension)
	}
	bounds := spec.DEBounds
	if c.DE.Bounds != nil {
		bounds = *c.DE.Bounds
	}
	clamp := spec.ClampDE
	if c.DE.Clamp != nil {
		clamp = *c.DE.Clamp
	}
	return de.Config{
		Strategy:       strategy,
		VectorCount:    c.DE.Vectors,
		Scheme:         scheme,
		F:              c.DE.F,
		CR:             c.DE.CR,
		PopulationSize: c.DE.PopulationSize,
		Iterations:     c.DE.Iterations,
		Dimension:      c.DE.Dimension,
		Bounds:         de.UniformBounds(c.DE.Dimension, bounds.Min, bounds.Max),
		ClampMutants:   clamp,
		ExcludeTarget:  c.DE.ExcludeTarget,
		Epsilon:        c.DE.Epsilon,
		MaxEvaluations: c.DE.MaxEvaluations,
		Patience:       c.DE.Patience,
		Threshold:      c.DE.Threshold,
	}, nil
}
