package ga

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/evolopt/internal/objective"
	"github.com/cwbudde/evolopt/internal/rng"
)

func bitsOf(raw, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = raw&(1<<i) != 0
	}
	return bits
}

func TestDecodeEndpoints(t *testing.T) {
	b := Bounds{Min: -5, Max: 5}
	for n := 1; n <= 24; n++ {
		if got := Decode(bitsOf(0, n), b); got != b.Min {
			t.Errorf("n=%d: all zeros decoded to %g, expected %g", n, got, b.Min)
		}
		ones := make([]bool, n)
		for i := range ones {
			ones[i] = true
		}
		if got := Decode(ones, b); math.Abs(got-b.Max) > 1e-9 {
			t.Errorf("n=%d: all ones decoded to %g, expected %g", n, got, b.Max)
		}
	}
}

func TestDecodeWideHalves(t *testing.T) {
	b := Bounds{Min: -5, Max: 5}
	for _, n := range []int{1023, 1024, 1050, 2000} {
		ones := make([]bool, n)
		for i := range ones {
			ones[i] = true
		}
		if got := Decode(ones, b); math.IsNaN(got) || math.Abs(got-b.Max) > 1e-9 {
			t.Errorf("n=%d: all ones decoded to %g, expected %g", n, got, b.Max)
		}
		if got := Decode(make([]bool, n), b); got != b.Min {
			t.Errorf("n=%d: all zeros decoded to %g, expected %g", n, got, b.Min)
		}
		// Only the most significant bit set lands in the middle.
		top := make([]bool, n)
		top[n-1] = true
		if got := Decode(top, b); math.Abs(got) > 1e-9 {
			t.Errorf("n=%d: top bit decoded to %g, expected 0", n, got)
		}
	}
}

func TestDecodeMonotonic(t *testing.T) {
	b := Bounds{Min: -33, Max: 33}
	for _, n := range []int{1, 3, 6, 10} {
		prev := math.Inf(-1)
		for raw := 0; raw < 1<<n; raw++ {
			v := Decode(bitsOf(raw, n), b)
			if v < prev {
				t.Fatalf("n=%d: decode(%d)=%g below decode(%d)=%g", n, raw, v, raw-1, prev)
			}
			prev = v
		}
	}
}

func TestDecodeLeastSignificantFirst(t *testing.T) {
	b := Bounds{Min: 0, Max: 7}
	// "100" is raw 1, "001" is raw 4.
	if got := Decode([]bool{true, false, false}, b); got != 1 {
		t.Errorf("Expected 1, got %g", got)
	}
	if got := Decode([]bool{false, false, true}, b); got != 4 {
		t.Errorf("Expected 4, got %g", got)
	}
}

func TestChromosomePhenotypeFixtures(t *testing.T) {
	tests := []struct {
		genes string
		x, y  float64
	}{
		{"0000", -5, -5},
		{"1111", 5, 5},
		{"0110", 5.0 / 3, -5.0 / 3},
		{"1000", 10.0/3 - 5, -5},
	}
	for _, tt := range tests {
		c, err := FromString(tt.genes, DefaultBounds, objective.Ackley)
		if err != nil {
			t.Fatalf("FromString(%q) failed: %v", tt.genes, err)
		}
		if math.Abs(c.X()-tt.x) > 1e-12 || math.Abs(c.Y()-tt.y) > 1e-12 {
			t.Errorf("%s decoded to (%g, %g), expected (%g, %g)", tt.genes, c.X(), c.Y(), tt.x, tt.y)
		}
		if c.String() != tt.genes {
			t.Errorf("String() = %q, expected %q", c.String(), tt.genes)
		}
	}
}

func TestChromosomeFitnessCached(t *testing.T) {
	calls := 0
	eval := func(x []float64) float64 {
		calls++
		return 21 - objective.Ackley(x)
	}
	c, err := FromString("01101001", DefaultBounds, eval)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("Expected 1 evaluation at construction, got %d", calls)
	}
	want := 21 - objective.Ackley(c.Phenotype())
	if c.Fitness() != want {
		t.Errorf("Expected fitness %g, got %g", want, c.Fitness())
	}
	_ = c.Fitness()
	if calls != 1 {
		t.Errorf("Fitness() should not re-evaluate, got %d calls", calls)
	}
}

func TestNewChromosomePadsOddLength(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	c := NewChromosome([]bool{true, false, true}, DefaultBounds, objective.SumOfSquares)
	if n := strings.Count(buf.String(), `"level":"WARN"`); n != 1 {
		t.Errorf("Expected 1 warning for odd length, got %d", n)
	}
	if c.Len() != 4 {
		t.Fatalf("Expected length 4, got %d", c.Len())
	}
	if c.String() != "1010" {
		t.Errorf("Expected 1010, got %s", c.String())
	}
}

func TestRandomChromosomeRoundsUpOddSize(t *testing.T) {
	c := RandomChromosome(7, DefaultBounds, objective.SumOfSquares, rng.New(1))
	if c.Len() != 8 {
		t.Errorf("Expected size 8, got %d", c.Len())
	}
}

func TestFromStringRejectsInvalidGenes(t *testing.T) {
	if _, err := FromString("01a1", DefaultBounds, objective.SumOfSquares); err == nil {
		t.Error("Expected error for non-binary gene")
	}
}

func TestGenesReturnsCopy(t *testing.T) {
	c, _ := FromString("0000", DefaultBounds, objective.SumOfSquares)
	g := c.Genes()
	g[0] = true
	if c.Gene(0) {
		t.Error("Mutating Genes() result changed the chromosome")
	}
}
