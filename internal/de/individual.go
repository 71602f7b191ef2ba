package de

import "github.com/cwbudde/evolopt/internal/objective"

// Individual pairs a vector with its objective value. It is immutable: the
// vector is private and Vector returns a copy.
type Individual struct {
	x       []float64
	fitness float64
}

// Evaluate builds an individual from a copy of x.
func Evaluate(x []float64, f objective.Func) Individual {
	v := append([]float64(nil), x...)
	return Individual{x: v, fitness: f(v)}
}

// Vector returns a copy of the position.
func (ind Individual) Vector() []float64 {
	return append([]float64(nil), ind.x...)
}

// Fitness returns the objective value, lower is better.
func (ind Individual) Fitness() float64 { return ind.fitness }

// Dim returns the number of dimensions.
func (ind Individual) Dim() int { return len(ind.x) }

// BestIndex returns the index of the lowest fitness, the first on ties.
func BestIndex(pop []Individual) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].fitness < pop[best].fitness {
			best = i
		}
	}
	return best
}
