package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/cwbudde/evolopt/internal/config"
	"github.com/cwbudde/evolopt/internal/opt"
	"github.com/cwbudde/evolopt/internal/trace"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var compareRuns int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare GA, DE, Mayfly and Nelder-Mead on one objective",
	Long: `Runs every optimizer on the selected objective over the GA's two-dimensional
box, repeating each with consecutive seeds, and prints final cost statistics.`,
	RunE: runCompareCommand,
}

func init() {
	compareCmd.Flags().IntVar(&compareRuns, "runs", config.Default().Compare.Runs, "Runs per optimizer")
	rootCmd.AddCommand(compareCmd)
}

func runCompareCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("runs") {
		cfg.Compare.Runs = compareRuns
	}
	return runCompare(cfg, uuid.NewString(), cmd.OutOrStdout(), commandLogger())
}

// comparison is the aggregate of one optimizer's repeated runs.
type comparison struct {
	name        string
	cost        trace.Summary
	evaluations trace.Summary
}

// optimizers builds the compared optimizers for one seed.
func optimizers(cfg *config.Config, seed int64, logger *slog.Logger) ([]opt.Optimizer, error) {
	spec, err := cfg.ObjectiveSpec()
	if err != nil {
		return nil, err
	}
	gaCfg, err := cfg.GAEngine(spec)
	if err != nil {
		return nil, err
	}
	deCfg, err := cfg.DEEngine(spec)
	if err != nil {
		return nil, err
	}
	return []opt.Optimizer{
		opt.NewGenetic(gaCfg, cfg.GAFitnessBase(spec), seed, logger),
		opt.NewDifferentialEvolution(deCfg, seed, logger),
		opt.NewMayfly(cfg.Compare.Mayfly.Iterations, cfg.Compare.Mayfly.PopulationSize, seed),
		opt.NewNelderMead(cfg.Compare.NelderMead.MaxEvaluations, seed),
	}, nil
}

func compare(cfg *config.Config, logger *slog.Logger) ([]comparison, error) {
	if cfg.Compare.Runs < 1 {
		return nil, fmt.Errorf("compare needs at least one run, got %d", cfg.Compare.Runs)
	}
	spec, err := cfg.ObjectiveSpec()
	if err != nil {
		return nil, err
	}
	box := spec.GABounds
	if cfg.GA.Bounds != nil {
		box = *cfg.GA.Bounds
	}
	lower := []float64{box.Min, box.Min}
	upper := []float64{box.Max, box.Max}

	var names []string
	costs := map[string][]float64{}
	evals := map[string][]float64{}
	for run := 0; run < cfg.Compare.Runs; run++ {
		runSeed := cfg.Seed + int64(run)
		opts, err := optimizers(cfg, runSeed, logger)
		if err != nil {
			return nil, err
		}
		for _, o := range opts {
			res, err := o.Run(spec.Func, lower, upper)
			if err != nil {
				return nil, fmt.Errorf("%s run %d: %w", o.Name(), run, err)
			}
			logger.Debug("Optimizer run complete",
				"optimizer", o.Name(), "seed", runSeed, "cost", res.Cost, "evaluations", res.Evaluations)
			if run == 0 {
				names = append(names, o.Name())
			}
			costs[o.Name()] = append(costs[o.Name()], res.Cost)
			evals[o.Name()] = append(evals[o.Name()], float64(res.Evaluations))
		}
	}

	out := make([]comparison, 0, len(names))
	for _, name := range names {
		out = append(out, comparison{
			name:        name,
			cost:        trace.Summarize(costs[name]),
			evaluations: trace.Summarize(evals[name]),
		})
	}
	return out, nil
}

func runCompare(cfg *config.Config, runID string, w io.Writer, logger *slog.Logger) error {
	logger = logger.With("run_id", runID, "algorithm", "compare")
	logger.Info("Starting comparison", "objective", cfg.Objective, "runs", cfg.Compare.Runs)

	results, err := compare(cfg, logger)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "OPTIMIZER\tRUNS\tBEST\tMEAN\tSTDDEV\tWORST\tEVALS\n")
	fmt.Fprintf(tw, "---------\t----\t----\t----\t------\t-----\t-----\n")
	for _, c := range results {
		fmt.Fprintf(tw, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.0f\n",
			c.name, c.cost.N, c.cost.Min, c.cost.Mean, c.cost.StdDev, c.cost.Max, c.evaluations.Mean)
	}
	return tw.Flush()
}
