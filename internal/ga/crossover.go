package ga

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MaxHalford/eaopt"
	"github.com/cwbudde/evolopt/internal/rng"
)

// CrossoverKind enumerates the recombination operators.
type CrossoverKind int

const (
	Uniform CrossoverKind = iota
	SinglePoint
	NPoint
)

// Crossover is a resolved crossover operator. Points is only used by NPoint.
type Crossover struct {
	Kind   CrossoverKind
	Points int
}

// ParseCrossover resolves "uniform", "single_point" or "<n>_point".
func ParseCrossover(token string) (Crossover, error) {
	if token == "uniform" {
		return Crossover{Kind: Uniform}, nil
	}
	if token == "single_point" {
		return Crossover{Kind: SinglePoint}, nil
	}
	if prefix, ok := strings.CutSuffix(token, "_point"); ok {
		n, err := strconv.Atoi(prefix)
		if err == nil {
			if n < 1 {
				return Crossover{}, fmt.Errorf("%w: crossover %q needs at least one split point", ErrConfig, token)
			}
			return Crossover{Kind: NPoint, Points: n}, nil
		}
	}
	return Crossover{}, fmt.Errorf("%w: unknown crossover method %q", ErrConfig, token)
}

func (c Crossover) String() string {
	switch c.Kind {
	case Uniform:
		return "uniform"
	case SinglePoint:
		return "single_point"
	case NPoint:
		return strconv.Itoa(c.Points) + "_point"
	}
	return fmt.Sprintf("CrossoverKind(%d)", int(c.Kind))
}

// Validate checks the operator against the chromosome size it will run on.
func (c Crossover) Validate(size int) error {
	switch c.Kind {
	case Uniform, SinglePoint:
		return nil
	case NPoint:
		if c.Points < 1 || c.Points >= size {
			return fmt.Errorf("%w: %d split points need 1 <= n < chromosome size %d", ErrConfig, c.Points, size)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown crossover kind %d", ErrConfig, int(c.Kind))
}

// Apply recombines a and b into two children.
func (c Crossover) Apply(a, b *Chromosome, r rng.Source) (*Chromosome, *Chromosome, error) {
	if a.Len() != b.Len() {
		return nil, nil, fmt.Errorf("parent lengths differ: %d vs %d", a.Len(), b.Len())
	}
	switch c.Kind {
	case Uniform:
		c1, c2 := UniformCrossover(a, b, r)
		return c1, c2, nil
	case SinglePoint:
		c1, c2 := PointCrossover(a, b, 1, r)
		return c1, c2, nil
	case NPoint:
		if err := c.Validate(a.Len()); err != nil {
			return nil, nil, err
		}
		c1, c2 := PointCrossover(a, b, c.Points, r)
		return c1, c2, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown crossover kind %d", ErrConfig, int(c.Kind))
}

// PointCrossover cuts both parents at n distinct random positions in
// 1..len-1 and swaps every other segment. n must be below the parent length.
func PointCrossover(a, b *Chromosome, n int, r rng.Source) (*Chromosome, *Chromosome) {
	g1, g2 := bitSlice(a.Genes()), bitSlice(b.Genes())
	eaopt.CrossGNX(g1, g2, uint(n), rng.Rand(r))
	return a.withGenes(g1), a.withGenes(g2)
}

// Recombine performs general crossover at the given split points. Segments
// alternate between the parents, starting with a for child one; child two
// receives the complementary segments.
func Recombine(a, b *Chromosome, splits []int) (*Chromosome, *Chromosome, error) {
	if a.Len() != b.Len() {
		return nil, nil, fmt.Errorf("parent lengths differ: %d vs %d", a.Len(), b.Len())
	}
	prev := 0
	for _, s := range splits {
		if s <= prev || s >= a.Len() {
			return nil, nil, fmt.Errorf("split points %v must be strictly increasing within (0, %d)", splits, a.Len())
		}
		prev = s
	}
	g1, g2 := recombineBits(a.genes, b.genes, splits)
	return a.withGenes(g1), a.withGenes(g2), nil
}

func recombineBits(a, b []bool, splits []int) ([]bool, []bool) {
	g1 := make([]bool, len(a))
	g2 := make([]bool, len(a))
	start := 0
	for seg := 0; seg <= len(splits); seg++ {
		end := len(a)
		if seg < len(splits) {
			end = splits[seg]
		}
		if seg%2 == 0 {
			copy(g1[start:end], a[start:end])
			copy(g2[start:end], b[start:end])
		} else {
			copy(g1[start:end], b[start:end])
			copy(g2[start:end], a[start:end])
		}
		start = end
	}
	return g1, g2
}

// UniformCrossover resolves every position with its own coin flip.
func UniformCrossover(a, b *Chromosome, r rng.Source) (*Chromosome, *Chromosome) {
	g1 := make([]bool, a.Len())
	g2 := make([]bool, a.Len())
	for i := range g1 {
		if r.Intn(2) == 1 {
			g1[i], g2[i] = a.genes[i], b.genes[i]
		} else {
			g1[i], g2[i] = b.genes[i], a.genes[i]
		}
	}
	return a.withGenes(g1), a.withGenes(g2)
}
