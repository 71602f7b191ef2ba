package de

import (
	"testing"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func population(f objective.Func, xs ...[]float64) []Individual {
	pop := make([]Individual, len(xs))
	for i, x := range xs {
		pop[i] = Evaluate(x, f)
	}
	return pop
}

// scripted replays fixed permutations so index draws are predictable.
type scripted struct {
	perms  [][]int
	floats []float64
	ints   []int
}

func (s *scripted) Perm(n int) []int {
	p := s.perms[0]
	s.perms = s.perms[1:]
	return p[:n:n]
}

func (s *scripted) Float64() float64 {
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scripted) Int63() int64 { panic("scripted: Int63 not scripted") }

func TestIndividualIsImmutable(t *testing.T) {
	x := []float64{1, 2}
	ind := Evaluate(x, objective.SumOfSquares)
	x[0] = 100
	v := ind.Vector()
	v[1] = 100
	assert.Equal(t, []float64{1, 2}, ind.Vector())
	assert.Equal(t, 5.0, ind.Fitness())
	assert.Equal(t, 2, ind.Dim())
}

func TestBestIndex(t *testing.T) {
	pop := population(objective.SumOfSquares, []float64{3}, []float64{1}, []float64{-1}, []float64{2})
	assert.Equal(t, 1, BestIndex(pop), "first of tied minima")
}

func TestMutateRand(t *testing.T) {
	pop := population(objective.SumOfSquares,
		[]float64{0, 0}, []float64{1, 1}, []float64{2, 4}, []float64{3, 9}, []float64{10, 10})
	cfg := DefaultConfig()
	cfg.F = 0.5
	// base 4, plus 3, minus 1
	r := &scripted{perms: [][]int{{4, 3, 1, 0, 2}}}
	got := Mutate(pop, 0, cfg, r)
	// [10,10] + 0.5*([3,9]-[1,1])
	assert.Equal(t, []float64{11, 14}, got)
}

func TestMutateRandTwoVectors(t *testing.T) {
	pop := population(objective.SumOfSquares,
		[]float64{0}, []float64{1}, []float64{2}, []float64{4}, []float64{8})
	cfg := DefaultConfig()
	cfg.VectorCount = 2
	cfg.F = 1
	// base 0, plus {4, 3}, minus {2, 1}
	r := &scripted{perms: [][]int{{0, 4, 3, 2, 1}}}
	got := Mutate(pop, 0, cfg, r)
	assert.Equal(t, []float64{0 + (8 + 4) - (2 + 1)}, got)
}

func TestMutateBestExcludesBestFromDraw(t *testing.T) {
	pop := population(objective.SumOfSquares,
		[]float64{5}, []float64{0.5}, []float64{2}, []float64{4})
	cfg := DefaultConfig()
	cfg.Strategy = StrategyBest
	cfg.F = 1
	// pool without best (index 1) is [0, 2, 3]; pick pool[2]=3 plus, pool[0]=0 minus
	r := &scripted{perms: [][]int{{2, 0, 1}}}
	got := Mutate(pop, 2, cfg, r)
	assert.Equal(t, []float64{0.5 + 4 - 5}, got)
}

func TestMutateExcludeTarget(t *testing.T) {
	r := rng.New(3)
	pop := population(objective.SumOfSquares,
		[]float64{0}, []float64{1}, []float64{2}, []float64{3})
	cfg := DefaultConfig()
	cfg.ExcludeTarget = true
	cfg.F = 0
	// With F=0 the mutant is the base, which must never be the target.
	for trial := 0; trial < 200; trial++ {
		target := trial % 4
		got := Mutate(pop, target, cfg, r)
		assert.NotEqual(t, float64(target), got[0])
	}
}

func TestMutateDrawsDistinctIndices(t *testing.T) {
	r := rng.New(12)
	xs := make([][]float64, 7)
	for i := range xs {
		xs[i] = []float64{float64(int(1) << (2 * i))}
	}
	pop := population(objective.SumOfSquares, xs...)
	cfg := DefaultConfig()
	cfg.VectorCount = 3
	cfg.F = 1
	// Values are distinct powers of four, so base + plus - minus with
	// distinct indices can never collapse to a single population value.
	for trial := 0; trial < 100; trial++ {
		got := Mutate(pop, 0, cfg, r)
		for _, ind := range pop {
			assert.NotEqual(t, ind.x[0], got[0])
		}
	}
}

func TestBinomialCrossoverForcedDimension(t *testing.T) {
	parent := []float64{0, 0, 0, 0}
	mutant := []float64{1, 1, 1, 1}
	r := &scripted{ints: []int{2}, floats: []float64{0.9, 0.9, 0.9}}
	got := BinomialCrossover(parent, mutant, 0.5, r)
	assert.Equal(t, []float64{0, 0, 1, 0}, got)
}

func TestBinomialCrossoverAlwaysDiffers(t *testing.T) {
	r := rng.New(4)
	parent := []float64{0, 0, 0}
	mutant := []float64{1, 1, 1}
	for trial := 0; trial < 200; trial++ {
		got := BinomialCrossover(parent, mutant, 0, r)
		taken := 0
		for _, v := range got {
			if v == 1 {
				taken++
			}
		}
		require.Equal(t, 1, taken, "CR=0 should take exactly the forced dimension")
	}
	got := BinomialCrossover(parent, mutant, 1, r)
	assert.Equal(t, mutant, got)
	assert.Equal(t, []float64{0, 0, 0}, parent)
}

func TestSelectStrictlyBetter(t *testing.T) {
	parent := Evaluate([]float64{1}, objective.SumOfSquares)
	better := Evaluate([]float64{0.5}, objective.SumOfSquares)
	equal := Evaluate([]float64{-1}, objective.SumOfSquares)
	worse := Evaluate([]float64{2}, objective.SumOfSquares)

	assert.Equal(t, better, Select(parent, better))
	assert.Equal(t, parent, Select(parent, equal), "ties keep the parent")
	assert.Equal(t, parent, Select(parent, worse))
}

func TestBoundsClamp(t *testing.T) {
	b := UniformBounds(3, -1, 1)
	x := []float64{-5, 0.5, 3}
	b.Clamp(x)
	assert.Equal(t, []float64{-1, 0.5, 1}, x)
}

func TestParseTokens(t *testing.T) {
	s, err := ParseStrategy("best")
	require.NoError(t, err)
	assert.Equal(t, StrategyBest, s)
	assert.Equal(t, "best", s.String())

	_, err = ParseStrategy("current-to-best")
	assert.ErrorIs(t, err, ErrConfig)

	sc, err := ParseScheme("bin")
	require.NoError(t, err)
	assert.Equal(t, "bin", sc.String())

	_, err = ParseScheme("exp")
	assert.ErrorIs(t, err, ErrConfig)
}
