package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/config"
	"github.com/cwbudde/evolopt/internal/de"
	"github.com/cwbudde/evolopt/internal/rng"
	"github.com/cwbudde/evolopt/internal/trace"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deFlags struct {
	strategy      string
	vectors       int
	f             float64
	cr            float64
	population    int
	iterations    int
	dimension     int
	min           float64
	max           float64
	clamp         bool
	excludeTarget bool
	epsilon       float64
	maxEvals      int
	patience      int
	threshold     float64
}

var deCmd = &cobra.Command{
	Use:   "de",
	Short: "Run differential evolution",
	Long: `Minimizes the objective with DE/<strategy>/<vectors>/bin. The run stops after
the configured iterations, or earlier on the epsilon, budget or patience criteria.`,
	RunE: runDECommand,
}

func init() {
	d := config.Default().DE
	f := deCmd.Flags()
	f.StringVar(&deFlags.strategy, "strategy", d.Strategy, "Base vector: rand, best")
	f.IntVar(&deFlags.vectors, "vectors", d.Vectors, "Number of difference vectors")
	f.Float64Var(&deFlags.f, "f", d.F, "Differential weight F")
	f.Float64Var(&deFlags.cr, "cr", d.CR, "Crossover rate CR")
	f.IntVar(&deFlags.population, "population", d.PopulationSize, "Population size")
	f.IntVar(&deFlags.iterations, "iterations", d.Iterations, "Maximum generations")
	f.IntVar(&deFlags.dimension, "dimension", d.Dimension, "Problem dimension")
	f.Float64Var(&deFlags.min, "min", 0, "Lower bound per dimension (default: objective preset)")
	f.Float64Var(&deFlags.max, "max", 0, "Upper bound per dimension (default: objective preset)")
	f.BoolVar(&deFlags.clamp, "clamp", false, "Clip mutants to the bounds (default: objective preset)")
	f.BoolVar(&deFlags.excludeTarget, "exclude-target", d.ExcludeTarget, "Keep the target out of its own mutation")
	f.Float64Var(&deFlags.epsilon, "epsilon", d.Epsilon, "Stop once the best fitness is below this value (0 disables)")
	f.IntVar(&deFlags.maxEvals, "max-evals", d.MaxEvaluations, "Objective evaluation budget (0 disables)")
	f.IntVar(&deFlags.patience, "patience", d.Patience, "Stop after this many generations without improvement (0 disables)")
	f.Float64Var(&deFlags.threshold, "threshold", d.Threshold, "Relative improvement that resets patience")
	rootCmd.AddCommand(deCmd)
}

func runDECommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyDEFlags(cmd, cfg); err != nil {
		return err
	}
	format, summary, err := outputs(cmd)
	if err != nil {
		return err
	}
	return runDE(cfg, uuid.NewString(), format, cmd.OutOrStdout(), summary, commandLogger())
}

// applyDEFlags copies the DE flags the user set into cfg.
func applyDEFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.DE.Strategy = deFlags.strategy
	}
	if flags.Changed("vectors") {
		cfg.DE.Vectors = deFlags.vectors
	}
	if flags.Changed("f") {
		cfg.DE.F = deFlags.f
	}
	if flags.Changed("cr") {
		cfg.DE.CR = deFlags.cr
	}
	if flags.Changed("population") {
		cfg.DE.PopulationSize = deFlags.population
	}
	if flags.Changed("iterations") {
		cfg.DE.Iterations = deFlags.iterations
	}
	if flags.Changed("dimension") {
		cfg.DE.Dimension = deFlags.dimension
	}
	if flags.Changed("clamp") {
		clamp := deFlags.clamp
		cfg.DE.Clamp = &clamp
	}
	if flags.Changed("exclude-target") {
		cfg.DE.ExcludeTarget = deFlags.excludeTarget
	}
	if flags.Changed("epsilon") {
		cfg.DE.Epsilon = deFlags.epsilon
	}
	if flags.Changed("max-evals") {
		cfg.DE.MaxEvaluations = deFlags.maxEvals
	}
	if flags.Changed("patience") {
		cfg.DE.Patience = deFlags.patience
	}
	if flags.Changed("threshold") {
		cfg.DE.Threshold = deFlags.threshold
	}
	if flags.Changed("min") || flags.Changed("max") {
		spec, err := cfg.ObjectiveSpec()
		if err != nil {
			return err
		}
		bounds := spec.DEBounds
		if cfg.DE.Bounds != nil {
			bounds = *cfg.DE.Bounds
		}
		if flags.Changed("min") {
			bounds.Min = deFlags.min
		}
		if flags.Changed("max") {
			bounds.Max = deFlags.max
		}
		cfg.DE.Bounds = &bounds
	}
	return nil
}

// runDE runs one DE, streams its trace to out and writes a summary line.
func runDE(cfg *config.Config, runID string, format trace.Format, out, summary io.Writer, logger *slog.Logger) error {
	logger = logger.With("run_id", runID, "algorithm", "de")

	spec, err := cfg.ObjectiveSpec()
	if err != nil {
		return err
	}
	deCfg, err := cfg.DEEngine(spec)
	if err != nil {
		return err
	}

	engine, err := de.New(deCfg, spec.Func, rng.New(cfg.Seed), logger)
	if err != nil {
		return err
	}
	res, err := engine.Run()
	if err != nil {
		return fmt.Errorf("de run %s: %w", runID, err)
	}

	records := trace.DERecords(runID, res.BestTrace, res.EvaluationTrace)
	if err := trace.WriteAll(trace.NewWriter[trace.DERecord](out, format), records); err != nil {
		return err
	}

	fmt.Fprintf(summary, "run %s: best %s f(%v) = %.6g after %d generations, %d evaluations (stop: %s)\n",
		runID, spec.Name, res.Best.Vector(), res.Best.Fitness(), res.Generations, res.Evaluations, res.StopReason)
	return nil
}
