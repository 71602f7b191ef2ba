package ga

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/evolopt/internal/rng"
)

// SelectionKind enumerates the parent and survivor selection strategies.
type SelectionKind int

const (
	RouletteWheel SelectionKind = iota
	StochasticUniversal
	Tournament
	RankBased
	Elitism
)

// Selection is a resolved selection strategy. TournamentSize is only used by
// Tournament.
type Selection struct {
	Kind           SelectionKind
	TournamentSize int
}

// ParseSelection resolves "rws", "sus", "ts_<m>", "rb" or "elitism".
func ParseSelection(token string) (Selection, error) {
	switch token {
	case "rws":
		return Selection{Kind: RouletteWheel}, nil
	case "sus":
		return Selection{Kind: StochasticUniversal}, nil
	case "rb":
		return Selection{Kind: RankBased}, nil
	case "elitism":
		return Selection{Kind: Elitism}, nil
	}
	if size, ok := strings.CutPrefix(token, "ts_"); ok {
		m, err := strconv.Atoi(size)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: tournament size in %q is not an integer", ErrConfig, token)
		}
		if m < 1 {
			return Selection{}, fmt.Errorf("%w: tournament size must be positive, got %d", ErrConfig, m)
		}
		return Selection{Kind: Tournament, TournamentSize: m}, nil
	}
	return Selection{}, fmt.Errorf("%w: unknown selection method %q", ErrConfig, token)
}

func (s Selection) String() string {
	switch s.Kind {
	case RouletteWheel:
		return "rws"
	case StochasticUniversal:
		return "sus"
	case Tournament:
		return "ts_" + strconv.Itoa(s.TournamentSize)
	case RankBased:
		return "rb"
	case Elitism:
		return "elitism"
	}
	return fmt.Sprintf("SelectionKind(%d)", int(s.Kind))
}

// Select returns exactly k candidates chosen by the strategy. The input slice
// is never reordered.
func (s Selection) Select(candidates []*Chromosome, k int, r rng.Source) ([]*Chromosome, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s: no candidates to select from", s)
	}
	if k < 0 {
		return nil, fmt.Errorf("%s: negative selection count %d", s, k)
	}
	switch s.Kind {
	case RouletteWheel:
		return RouletteWheelSelection(candidates, k, r)
	case StochasticUniversal:
		return StochasticUniversalSampling(candidates, k, r)
	case Tournament:
		return TournamentSelection(candidates, k, s.TournamentSize, r)
	case RankBased:
		return RankBasedSelection(candidates, k, r), nil
	case Elitism:
		return ElitismSelection(candidates, k)
	}
	return nil, fmt.Errorf("%w: unknown selection kind %d", ErrConfig, int(s.Kind))
}

func fitnessSum(candidates []*Chromosome) float64 {
	var sum float64
	for _, c := range candidates {
		sum += c.fitness
	}
	return sum
}

// checkTotal rejects fitness totals a wheel cannot be built from: zero,
// negative, NaN or infinite.
func checkTotal(total float64) error {
	if !(total > 0) || math.IsInf(total, 1) {
		return fmt.Errorf("%w (total %g)", ErrNonPositiveFitness, total)
	}
	return nil
}

// RouletteWheelSelection draws k candidates independently, each with
// probability proportional to its fitness.
func RouletteWheelSelection(candidates []*Chromosome, k int, r rng.Source) ([]*Chromosome, error) {
	total := fitnessSum(candidates)
	if err := checkTotal(total); err != nil {
		return nil, fmt.Errorf("roulette wheel: %w", err)
	}
	selected := make([]*Chromosome, k)
	for i := range selected {
		selected[i] = spin(candidates, r.Float64()*total)
	}
	return selected, nil
}

// spin walks the wheel until the draw is used up. Rounding can leave a tiny
// remainder past the end; the last candidate absorbs it.
func spin(candidates []*Chromosome, draw float64) *Chromosome {
	for _, c := range candidates {
		draw -= c.fitness
		if draw <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// StochasticUniversalSampling places k evenly spaced pointers after one
// random offset and collects, in a single pass, every candidate whose
// cumulative fitness interval a pointer falls into.
func StochasticUniversalSampling(candidates []*Chromosome, k int, r rng.Source) ([]*Chromosome, error) {
	total := fitnessSum(candidates)
	if err := checkTotal(total); err != nil {
		return nil, fmt.Errorf("stochastic universal sampling: %w", err)
	}
	selected := make([]*Chromosome, 0, k)
	if k == 0 {
		return selected, nil
	}
	spacing := total / float64(k)
	pointer := r.Float64() * spacing
	var cumulative float64
	for _, c := range candidates {
		cumulative += c.fitness
		for len(selected) < k && pointer < cumulative {
			selected = append(selected, c)
			pointer += spacing
		}
	}
	for len(selected) < k {
		selected = append(selected, candidates[len(candidates)-1])
	}
	return selected, nil
}

// TournamentSelection runs k independent tournaments of size distinct
// entrants each. The fittest entrant wins; the earliest drawn wins ties.
func TournamentSelection(candidates []*Chromosome, k, size int, r rng.Source) ([]*Chromosome, error) {
	if size < 1 || size > len(candidates) {
		return nil, fmt.Errorf("%w: tournament size %d needs 1 <= size <= %d candidates", ErrConfig, size, len(candidates))
	}
	selected := make([]*Chromosome, k)
	for i := range selected {
		entrants := rng.Sample(r, len(candidates), size)
		winner := candidates[entrants[0]]
		for _, idx := range entrants[1:] {
			if candidates[idx].fitness > winner.fitness {
				winner = candidates[idx]
			}
		}
		selected[i] = winner
	}
	return selected, nil
}

// RankBasedSelection draws k candidates independently with probability
// proportional to their ascending fitness rank (1 for the worst, n for the
// best), so only the ordering of fitness values matters.
func RankBasedSelection(candidates []*Chromosome, k int, r rng.Source) []*Chromosome {
	sorted := append([]*Chromosome(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].fitness < sorted[j].fitness
	})
	n := float64(len(sorted))
	rankSum := n * (n + 1) / 2

	selected := make([]*Chromosome, k)
	for i := range selected {
		selected[i] = sorted[len(sorted)-1]
		draw := r.Float64() * rankSum
		for rank, c := range sorted {
			draw -= float64(rank + 1)
			if draw <= 0 {
				selected[i] = c
				break
			}
		}
	}
	return selected
}

// ElitismSelection returns the k fittest candidates in descending order.
// Equal fitness keeps input order.
func ElitismSelection(candidates []*Chromosome, k int) ([]*Chromosome, error) {
	if k > len(candidates) {
		return nil, fmt.Errorf("elitism: cannot keep %d of %d candidates", k, len(candidates))
	}
	sorted := append([]*Chromosome(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].fitness > sorted[j].fitness
	})
	return sorted[:k:k], nil
}
