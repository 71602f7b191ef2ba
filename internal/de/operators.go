package de

import "github.com/cwbudde/evolopt/internal/rng"

// Mutate builds the mutant vector for target from pop. With StrategyRand the
// base is a random member; with StrategyBest it is the current best. In both
// cases k difference pairs are drawn as distinct members other than the base,
// and the target is left out as well when cfg.ExcludeTarget is set.
func Mutate(pop []Individual, target int, cfg Config, r rng.Source) []float64 {
	return mutate(pop, target, BestIndex(pop), cfg, r)
}

func mutate(pop []Individual, target, best int, cfg Config, r rng.Source) []float64 {
	k := cfg.VectorCount

	pool := make([]int, 0, len(pop))
	for i := range pop {
		if cfg.ExcludeTarget && i == target {
			continue
		}
		if cfg.Strategy == StrategyBest && i == best {
			continue
		}
		pool = append(pool, i)
	}

	draws := 2 * k
	if cfg.Strategy == StrategyRand {
		draws++
	}
	picked := rng.Sample(r, len(pool), draws)
	for i, p := range picked {
		picked[i] = pool[p]
	}

	base := best
	if cfg.Strategy == StrategyRand {
		base, picked = picked[0], picked[1:]
	}
	plus, minus := picked[:k], picked[k:]

	mutant := pop[base].Vector()
	for d := range mutant {
		var diff float64
		for _, p := range plus {
			diff += pop[p].x[d]
		}
		for _, m := range minus {
			diff -= pop[m].x[d]
		}
		mutant[d] += cfg.F * diff
	}
	return mutant
}

// BinomialCrossover mixes parent and mutant. One random dimension always
// comes from the mutant; every other dimension does with probability cr.
func BinomialCrossover(parent, mutant []float64, cr float64, r rng.Source) []float64 {
	trial := append([]float64(nil), parent...)
	forced := r.Intn(len(parent))
	for j := range trial {
		if j == forced || r.Float64() < cr {
			trial[j] = mutant[j]
		}
	}
	return trial
}

// Select keeps the trial only if it is strictly better than the parent.
func Select(parent, trial Individual) Individual {
	if trial.fitness < parent.fitness {
		return trial
	}
	return parent
}
