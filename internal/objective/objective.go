// Package objective holds the scalar test functions the optimizers minimize
// and the adapter that turns them into positive fitness for the GA.
package objective

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Func is a deterministic objective to minimize.
type Func func(x []float64) float64

// Ackley constants.
const (
	ackleyA = 20.0
	ackleyB = 0.2
	ackleyC = 2 * math.Pi
)

// Ackley evaluates the Ackley function over any dimension. Its global
// minimum is 0 at the origin.
func Ackley(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sumSq, sumCos float64
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(ackleyC * v)
	}
	n := float64(len(x))
	term1 := -ackleyA * math.Exp(-ackleyB*math.Sqrt(sumSq/n))
	term2 := -math.Exp(sumCos / n)
	return term1 + term2 + ackleyA + math.E
}

// SumOfSquares evaluates sum(x_i^2), minimum 0 at the origin.
func SumOfSquares(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Maximize converts a minimization objective into a maximization fitness
// base - f(x). base must exceed the objective's maximum over the search
// domain for the result to stay positive.
func Maximize(f Func, base float64) Func {
	return func(x []float64) float64 {
		return base - f(x)
	}
}

// Range is a symmetric or asymmetric search interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Spec describes a bundled objective and the settings each optimizer uses
// with it by default.
type Spec struct {
	Name string
	Func Func

	// GABounds is the phenotype interval used by the binary GA.
	GABounds Range
	// DEBounds is the initialization interval used by DE.
	DEBounds Range
	// FitnessBase is the constant subtracted from for GA fitness.
	FitnessBase float64
	// ClampDE reports whether DE mutants are clipped to DEBounds.
	ClampDE bool
}

var registry = map[string]Spec{
	"ackley": {
		Name:        "ackley",
		Func:        Ackley,
		GABounds:    Range{Min: -5, Max: 5},
		DEBounds:    Range{Min: -33, Max: 33},
		FitnessBase: 21,
		ClampDE:     true,
	},
	"sumsq": {
		Name:        "sumsq",
		Func:        SumOfSquares,
		GABounds:    Range{Min: -5, Max: 5},
		DEBounds:    Range{Min: -10, Max: 10},
		FitnessBase: 51,
		ClampDE:     false,
	},
}

// Lookup returns the objective registered under name.
func Lookup(name string) (Spec, error) {
	spec, ok := registry[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("unknown objective %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return spec, nil
}

// Names lists the registered objectives in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AckleyBase exceeds the supremum of Ackley over any domain,
// a + e - 1/e, so base - Ackley(x) >= 1/e everywhere.
const AckleyBase = ackleyA + math.E

// Base returns a fitness base that keeps Maximize(s.Func, base) positive over
// r in d dimensions. The preset interval keeps the registered base.
func (s Spec) Base(r Range, d int) float64 {
	if r == s.GABounds && d == 2 {
		return s.FitnessBase
	}
	switch s.Name {
	case "sumsq":
		return SumOfSquaresBase(r, d)
	case "ackley":
		return AckleyBase
	}
	return s.FitnessBase
}

// SumOfSquaresBase returns a fitness base for SumOfSquares in d dimensions
// bounded by r: one above the largest value on the box.
func SumOfSquaresBase(r Range, d int) float64 {
	m := math.Max(math.Abs(r.Min), math.Abs(r.Max))
	return float64(d)*m*m + 1
}
