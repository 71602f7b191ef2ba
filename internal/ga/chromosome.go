// Package ga implements a binary-encoded genetic algorithm over two-coordinate
// phenotypes.
package ga

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

// Bounds is the phenotype interval every coordinate decodes into.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds is the interval used when none is configured.
var DefaultBounds = Bounds{Min: -5, Max: 5}

// Validate checks that the interval is non-empty.
func (b Bounds) Validate() error {
	if !(b.Min < b.Max) {
		return fmt.Errorf("%w: bounds min %g must be below max %g", ErrConfig, b.Min, b.Max)
	}
	return nil
}

// Decode maps bits to a real value in b. Bit i contributes 2^i to the raw
// value, which is then rescaled linearly so that all zeros decode to b.Min
// and all ones to b.Max.
func Decode(bits []bool, b Bounds) float64 {
	n := len(bits)
	if n == 0 {
		return b.Min
	}
	if n < maxExactBits {
		var raw float64
		for i, bit := range bits {
			if bit {
				raw += math.Exp2(float64(i))
			}
		}
		return raw*((b.Max-b.Min)/(math.Exp2(float64(n))-1)) + b.Min
	}
	// 2^n overflows; accumulate raw/2^n directly. The scale 2^n/(2^n-1)
	// is 1 at this width.
	var frac float64
	for i, bit := range bits {
		if bit {
			frac += math.Exp2(float64(i - n))
		}
	}
	return frac*(b.Max-b.Min) + b.Min
}

// maxExactBits is the first width whose 2^n is not a finite float64.
const maxExactBits = 1024

// Chromosome is an immutable even-length bit string with its cached fitness.
// Operators never modify a chromosome in place; they return new ones.
type Chromosome struct {
	genes   []bool
	bounds  Bounds
	eval    objective.Func
	fitness float64
}

// NewChromosome builds a chromosome from genes and evaluates its fitness with
// eval. An odd-length gene slice is padded with a trailing zero bit and a
// warning on slog.Default().
func NewChromosome(genes []bool, bounds Bounds, eval objective.Func) *Chromosome {
	g := make([]bool, len(genes), len(genes)+1)
	copy(g, genes)
	if len(g)%2 == 1 {
		slog.Warn("Chromosome size can't be odd, increasing by 1", "size", len(g), "new_size", len(g)+1)
		g = append(g, false)
	}
	return newChromosome(g, bounds, eval)
}

// newChromosome takes ownership of genes, which must have even length.
func newChromosome(genes []bool, bounds Bounds, eval objective.Func) *Chromosome {
	c := &Chromosome{genes: genes, bounds: bounds, eval: eval}
	c.fitness = eval(c.Phenotype())
	return c
}

// RandomChromosome draws every bit from a fair coin. Odd sizes are increased
// by one without a warning; the engine validates sizes up front and warns
// through its own logger.
func RandomChromosome(size int, bounds Bounds, eval objective.Func, r rng.Source) *Chromosome {
	if size%2 == 1 {
		size++
	}
	genes := make([]bool, size)
	for i := range genes {
		genes[i] = r.Intn(2) == 1
	}
	return newChromosome(genes, bounds, eval)
}

// FromString parses a string of '0' and '1' characters.
func FromString(s string, bounds Bounds, eval objective.Func) (*Chromosome, error) {
	genes := make([]bool, len(s))
	for i, ch := range s {
		switch ch {
		case '0':
		case '1':
			genes[i] = true
		default:
			return nil, fmt.Errorf("invalid gene %q at position %d", ch, i)
		}
	}
	return NewChromosome(genes, bounds, eval), nil
}

// withGenes returns a chromosome sharing c's bounds and evaluator.
func (c *Chromosome) withGenes(genes []bool) *Chromosome {
	return newChromosome(genes, c.bounds, c.eval)
}

// Len returns the number of bits.
func (c *Chromosome) Len() int { return len(c.genes) }

// Gene reports bit i.
func (c *Chromosome) Gene(i int) bool { return c.genes[i] }

// Genes returns a copy of the bit string.
func (c *Chromosome) Genes() []bool {
	return append([]bool(nil), c.genes...)
}

// Bounds returns the phenotype interval.
func (c *Chromosome) Bounds() Bounds { return c.bounds }

// Fitness returns the cached fitness.
func (c *Chromosome) Fitness() float64 { return c.fitness }

// X decodes the first half of the bit string.
func (c *Chromosome) X() float64 {
	return Decode(c.genes[:len(c.genes)/2], c.bounds)
}

// Y decodes the second half of the bit string.
func (c *Chromosome) Y() float64 {
	return Decode(c.genes[len(c.genes)/2:], c.bounds)
}

// Phenotype returns the decoded coordinates (x, y).
func (c *Chromosome) Phenotype() []float64 {
	return []float64{c.X(), c.Y()}
}

func (c *Chromosome) String() string {
	var sb strings.Builder
	sb.Grow(len(c.genes))
	for _, g := range c.genes {
		if g {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// fittest returns the first chromosome with the highest fitness.
func fittest(cs []*Chromosome) *Chromosome {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.fitness > best.fitness {
			best = c
		}
	}
	return best
}
