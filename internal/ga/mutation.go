package ga

import (
	"fmt"

	"github.com/cwbudde/evolopt/internal/rng"
)

// Mutation is the two-stage bit-flip operator: a chromosome is picked with
// SelectionProbability, then each of its bits flips with GeneProbability.
type Mutation struct {
	SelectionProbability float64
	GeneProbability      float64
}

// Validate checks both probabilities lie in [0, 1].
func (m Mutation) Validate() error {
	if m.SelectionProbability < 0 || m.SelectionProbability > 1 {
		return fmt.Errorf("%w: mutation selection probability %g outside [0, 1]", ErrConfig, m.SelectionProbability)
	}
	if m.GeneProbability < 0 || m.GeneProbability > 1 {
		return fmt.Errorf("%w: mutation gene probability %g outside [0, 1]", ErrConfig, m.GeneProbability)
	}
	return nil
}

// Apply returns c when it is not picked, otherwise a new chromosome with
// freshly evaluated fitness, even if no bit flipped.
func (m Mutation) Apply(c *Chromosome, r rng.Source) *Chromosome {
	if r.Float64() >= m.SelectionProbability {
		return c
	}
	genes := c.Genes()
	for i := range genes {
		if r.Float64() < m.GeneProbability {
			genes[i] = !genes[i]
		}
	}
	return c.withGenes(genes)
}
