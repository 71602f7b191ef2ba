package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/evolopt/internal/config"
	"github.com/cwbudde/evolopt/internal/ga"
	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
	"github.com/cwbudde/evolopt/internal/trace"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var gaFlags struct {
	chromosomeSize int
	population     int
	generations    int
	crossover      string
	parent         string
	survivor       string
	mutationSelect float64
	mutationGene   float64
	min            float64
	max            float64
}

var gaCmd = &cobra.Command{
	Use:   "ga",
	Short: "Run the binary genetic algorithm",
	Long: `Maximizes base - f(x, y) with a binary-encoded genetic algorithm. Each
chromosome holds two equally long halves decoded into the x and y coordinates.`,
	RunE: runGACommand,
}

func init() {
	d := config.Default().GA
	f := gaCmd.Flags()
	f.IntVar(&gaFlags.chromosomeSize, "chromosome-size", d.ChromosomeSize, "Bits per chromosome (rounded up to even)")
	f.IntVar(&gaFlags.population, "population", d.PopulationSize, "Population size (even)")
	f.IntVar(&gaFlags.generations, "generations", d.Generations, "Number of generations")
	f.StringVar(&gaFlags.crossover, "crossover", d.Crossover, "Crossover: uniform, single_point, <n>_point")
	f.StringVar(&gaFlags.parent, "parent-selection", d.ParentSelection, "Parent selection: rws, sus, rb, ts_<m>")
	f.StringVar(&gaFlags.survivor, "survivor-selection", d.SurvivorSelection, "Survivor selection: rws, sus, rb, ts_<m>, elitism")
	f.Float64Var(&gaFlags.mutationSelect, "mutation-selection-prob", d.Mutation.SelectionProbability, "Probability a child is mutated")
	f.Float64Var(&gaFlags.mutationGene, "mutation-gene-prob", d.Mutation.GeneProbability, "Probability each bit of a mutated child flips")
	f.Float64Var(&gaFlags.min, "min", 0, "Lower phenotype bound (default: objective preset)")
	f.Float64Var(&gaFlags.max, "max", 0, "Upper phenotype bound (default: objective preset)")
	rootCmd.AddCommand(gaCmd)
}

func runGACommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyGAFlags(cmd, cfg); err != nil {
		return err
	}
	format, summary, err := outputs(cmd)
	if err != nil {
		return err
	}
	return runGA(cfg, uuid.NewString(), format, cmd.OutOrStdout(), summary, commandLogger())
}

// applyGAFlags copies the GA flags the user set into cfg.
func applyGAFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("chromosome-size") {
		cfg.GA.ChromosomeSize = gaFlags.chromosomeSize
	}
	if flags.Changed("population") {
		cfg.GA.PopulationSize = gaFlags.population
	}
	if flags.Changed("generations") {
		cfg.GA.Generations = gaFlags.generations
	}
	if flags.Changed("crossover") {
		cfg.GA.Crossover = gaFlags.crossover
	}
	if flags.Changed("parent-selection") {
		cfg.GA.ParentSelection = gaFlags.parent
	}
	if flags.Changed("survivor-selection") {
		cfg.GA.SurvivorSelection = gaFlags.survivor
	}
	if flags.Changed("mutation-selection-prob") {
		cfg.GA.Mutation.SelectionProbability = gaFlags.mutationSelect
	}
	if flags.Changed("mutation-gene-prob") {
		cfg.GA.Mutation.GeneProbability = gaFlags.mutationGene
	}
	if flags.Changed("min") || flags.Changed("max") {
		spec, err := cfg.ObjectiveSpec()
		if err != nil {
			return err
		}
		bounds := spec.GABounds
		if cfg.GA.Bounds != nil {
			bounds = *cfg.GA.Bounds
		}
		if flags.Changed("min") {
			bounds.Min = gaFlags.min
		}
		if flags.Changed("max") {
			bounds.Max = gaFlags.max
		}
		cfg.GA.Bounds = &bounds
	}
	return nil
}

// runGA runs one GA, streams its trace to out and writes a summary line.
func runGA(cfg *config.Config, runID string, format trace.Format, out, summary io.Writer, logger *slog.Logger) error {
	logger = logger.With("run_id", runID, "algorithm", "ga")

	spec, err := cfg.ObjectiveSpec()
	if err != nil {
		return err
	}
	gaCfg, err := cfg.GAEngine(spec)
	if err != nil {
		return err
	}
	base := cfg.GAFitnessBase(spec)

	engine, err := ga.New(gaCfg, objective.Maximize(spec.Func, base), rng.New(cfg.Seed), logger)
	if err != nil {
		return err
	}
	res, err := engine.Run()
	if err != nil {
		return fmt.Errorf("ga run %s: %w", runID, err)
	}

	records := trace.GARecords(runID, res.MaxFitness, res.AverageFitness)
	if err := trace.WriteAll(trace.NewWriter[trace.GARecord](out, format), records); err != nil {
		return err
	}

	best := res.BestEver
	fmt.Fprintf(summary, "run %s: best %s f(%.6f, %.6f) = %.6g (fitness %.6g) after %d generations\n",
		runID, spec.Name, best.X(), best.Y(), spec.Func(best.Phenotype()), best.Fitness(), res.Generations)
	return nil
}
