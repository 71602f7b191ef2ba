package ga

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func ackleyFitness() objective.Func {
	return objective.Maximize(objective.Ackley, 21)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"chromosome too small", func(c *Config) { c.ChromosomeSize = 1 }},
		{"odd population", func(c *Config) { c.PopulationSize = 7 }},
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"no generations", func(c *Config) { c.Generations = 0 }},
		{"empty bounds", func(c *Config) { c.Bounds = Bounds{Min: 1, Max: 1} }},
		{"too many split points", func(c *Config) { c.Crossover = Crossover{Kind: NPoint, Points: 16} }},
		{"bad mutation probability", func(c *Config) { c.Mutation.GeneProbability = 2 }},
		{"elitism as parent selection", func(c *Config) { c.ParentSelection = Selection{Kind: Elitism} }},
		{"parent tournament too large", func(c *Config) { c.ParentSelection = Selection{Kind: Tournament, TournamentSize: 21} }},
		{"survivor tournament too large", func(c *Config) { c.SurvivorSelection = Selection{Kind: Tournament, TournamentSize: 5} }},
		{"non-positive tournament", func(c *Config) { c.SurvivorSelection = Selection{Kind: Tournament, TournamentSize: 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, ackleyFitness(), rng.New(1), quietLogger)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("Expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestNewRoundsUpOddChromosomeSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChromosomeSize = 9
	e, err := New(cfg, ackleyFitness(), rng.New(1), quietLogger)
	if err != nil {
		t.Fatalf("Odd size should be corrected, got %v", err)
	}
	if e.Config().ChromosomeSize != 10 {
		t.Errorf("Expected size 10, got %d", e.Config().ChromosomeSize)
	}
	for _, c := range e.Population() {
		if c.Len() != 10 {
			t.Fatalf("Expected chromosomes of length 10, got %d", c.Len())
		}
	}
}

func TestNewRequiresFitnessAndSource(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, rng.New(1), quietLogger); !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig for nil fitness, got %v", err)
	}
	if _, err := New(DefaultConfig(), ackleyFitness(), nil, quietLogger); !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig for nil source, got %v", err)
	}
}

func TestEngineStateMachine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generations = 3
	e, err := New(cfg, ackleyFitness(), rng.New(2), quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	if e.State() != StateInitialized {
		t.Fatalf("Expected initialized, got %s", e.State())
	}
	for i := 1; i <= 3; i++ {
		if err := e.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if e.Generation() != i {
			t.Errorf("Expected generation %d, got %d", i, e.Generation())
		}
		if i < 3 && e.State() != StateRunning {
			t.Errorf("Expected running after step %d, got %s", i, e.State())
		}
	}
	if e.State() != StateDone {
		t.Fatalf("Expected done, got %s", e.State())
	}
	if err := e.Step(); !errors.Is(err, ErrDone) {
		t.Errorf("Expected ErrDone, got %v", err)
	}
}

func TestRunTraceAndBest(t *testing.T) {
	selections := []string{"rws", "sus", "rb", "ts_3"}
	survivors := []string{"rws", "sus", "rb", "ts_2", "elitism"}
	crossovers := []string{"uniform", "single_point", "3_point"}

	for _, cx := range crossovers {
		for _, ps := range selections {
			for _, ss := range survivors {
				cfg, err := ParseConfig(Options{
					ChromosomeSize:               12,
					PopulationSize:               10,
					Generations:                  15,
					Crossover:                    cx,
					ParentSelection:              ps,
					SurvivorSelection:            ss,
					MutationSelectionProbability: 1,
					MutationGeneProbability:      0.1,
					Min:                          -5,
					Max:                          5,
				})
				if err != nil {
					t.Fatal(err)
				}
				e, err := New(cfg, ackleyFitness(), rng.New(17), quietLogger)
				if err != nil {
					t.Fatalf("%s/%s/%s: %v", cx, ps, ss, err)
				}
				initialBest := fittest(e.Population()).Fitness()

				res, err := e.Run()
				if err != nil {
					t.Fatalf("%s/%s/%s: %v", cx, ps, ss, err)
				}
				if len(res.MaxFitness) != 15 || len(res.AverageFitness) != 15 {
					t.Fatalf("Expected 15 trace entries, got %d/%d", len(res.MaxFitness), len(res.AverageFitness))
				}
				if res.MaxFitness[0] != initialBest {
					t.Errorf("First max entry %g should describe the initial population (%g)", res.MaxFitness[0], initialBest)
				}
				for g := range res.MaxFitness {
					if res.AverageFitness[g] > res.MaxFitness[g] {
						t.Errorf("generation %d: average %g above max %g", g, res.AverageFitness[g], res.MaxFitness[g])
					}
					if res.MaxFitness[g] > res.BestEver.Fitness() {
						t.Errorf("generation %d max %g exceeds best ever %g", g, res.MaxFitness[g], res.BestEver.Fitness())
					}
				}
				if res.BestLastGeneration.Fitness() > res.BestEver.Fitness() {
					t.Errorf("last generation best %g exceeds best ever %g", res.BestLastGeneration.Fitness(), res.BestEver.Fitness())
				}
				if len(e.Population()) != 10 {
					t.Errorf("Expected population size 10, got %d", len(e.Population()))
				}
			}
		}
	}
}

func TestBestEverMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generations = 40
	e, err := New(cfg, ackleyFitness(), rng.New(5), quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	prev := e.Result().BestEver.Fitness()
	for e.State() != StateDone {
		if err := e.Step(); err != nil {
			t.Fatal(err)
		}
		best := e.Result().BestEver.Fitness()
		if best < prev {
			t.Fatalf("best ever decreased from %g to %g", prev, best)
		}
		prev = best
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() *Result {
		e, err := New(DefaultConfig(), ackleyFitness(), rng.New(99), quietLogger)
		if err != nil {
			t.Fatal(err)
		}
		res, err := e.Run()
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	if a.BestEver.String() != b.BestEver.String() {
		t.Errorf("Non-deterministic best: %s vs %s", a.BestEver, b.BestEver)
	}
	for i := range a.AverageFitness {
		if a.AverageFitness[i] != b.AverageFitness[i] {
			t.Fatalf("Non-deterministic trace at generation %d", i)
		}
	}
}

func TestRunStopsOnNonPositiveFitness(t *testing.T) {
	cfg := DefaultConfig()
	// Raw Ackley without the offset is zero at best, so a negated version is
	// never positive.
	negative := func(x []float64) float64 { return -objective.Ackley(x) - 1 }
	e, err := New(cfg, negative, rng.New(1), quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	before := e.Population()
	if _, err := e.Run(); !errors.Is(err, ErrNonPositiveFitness) {
		t.Fatalf("Expected ErrNonPositiveFitness, got %v", err)
	}
	after := e.Population()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("Population changed after a failed generation")
		}
	}
	if e.Generation() != 0 {
		t.Errorf("Expected no completed generations, got %d", e.Generation())
	}
}

func TestElitistGAImprovesSumOfSquares(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SurvivorSelection = Selection{Kind: Elitism}
	cfg.ParentSelection = Selection{Kind: Tournament, TournamentSize: 3}
	cfg.Generations = 60
	e, err := New(cfg, objective.Maximize(objective.SumOfSquares, 51), rng.New(3), quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.AverageFitness[len(res.AverageFitness)-1] < res.AverageFitness[0] {
		t.Errorf("Average fitness did not improve: %g -> %g", res.AverageFitness[0], res.AverageFitness[len(res.AverageFitness)-1])
	}
	if obj := objective.SumOfSquares(res.BestEver.Phenotype()); obj > 1 {
		t.Errorf("Expected best sum of squares below 1, got %g at %v", obj, res.BestEver.Phenotype())
	}
}

func TestWideChromosomesKeepFiniteFitness(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChromosomeSize = 2100
	cfg.Generations = 2
	e, err := New(cfg, objective.Maximize(objective.SumOfSquares, 51), rng.New(4), quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if f := res.BestEver.Fitness(); math.IsNaN(f) || math.IsInf(f, 0) {
		t.Fatalf("Expected finite best fitness, got %g", f)
	}
	for g, v := range res.AverageFitness {
		if math.IsNaN(v) {
			t.Fatalf("Generation %d average fitness is NaN", g)
		}
	}
}

// warnings counts WARN records in JSON handler output.
func warnings(out string) int {
	return strings.Count(out, `"level":"WARN"`)
}

func TestOddChromosomeSizeWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := DefaultConfig()
	cfg.ChromosomeSize = 9
	if _, err := New(cfg, ackleyFitness(), rng.New(1), logger); err != nil {
		t.Fatal(err)
	}

	if got := warnings(buf.String()); got != 1 {
		t.Fatalf("Expected 1 warning, got %d:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), `"new_size":10`) {
		t.Errorf("Expected the corrected size in the warning, got %s", buf.String())
	}
}

func TestEvenChromosomeSizeDoesNotWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	if _, err := New(DefaultConfig(), ackleyFitness(), rng.New(1), logger); err != nil {
		t.Fatal(err)
	}
	if got := warnings(buf.String()); got != 0 {
		t.Errorf("Expected no warnings, got %d", got)
	}
}
