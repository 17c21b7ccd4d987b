package ga

import (
	"math/rand"
	"testing"
)

func TestRealDomainSampleValid(t *testing.T) {
	d := RealDomain{Lower: []float64{-5, 0}, Upper: []float64{5, 10}}
	rng := rand.New(rand.NewSource(1))
	ind := d.Sample(rng)
	if !d.Valid(ind) {
		t.Fatalf("sampled individual failed Valid: %v", ind)
	}
}

func TestRealDomainClip(t *testing.T) {
	d := RealDomain{Lower: []float64{0}, Upper: []float64{1}}
	clipped := d.Clip(Individual[float64]{-5})
	if clipped[0] != 0 {
		t.Fatalf("clipped[0] = %v, want 0", clipped[0])
	}
	clipped = d.Clip(Individual[float64]{5})
	if clipped[0] != 1 {
		t.Fatalf("clipped[0] = %v, want 1", clipped[0])
	}
}

func TestRealBlendCrossoverStaysInBounds(t *testing.T) {
	d := RealDomain{Lower: []float64{0, 0}, Upper: []float64{1, 1}}
	rng := rand.New(rand.NewSource(2))
	cx := realBlendCrossover(0.5)
	p1 := Individual[float64]{0.1, 0.9}
	p2 := Individual[float64]{0.8, 0.2}
	for i := 0; i < 50; i++ {
		c1, c2 := cx(rng, d, p1, p2)
		if !d.Valid(c1) || !d.Valid(c2) {
			t.Fatalf("children out of bounds: %v %v", c1, c2)
		}
	}
}

func TestRealGaussianMutationClips(t *testing.T) {
	d := RealDomain{Lower: []float64{0}, Upper: []float64{0.01}}
	rng := rand.New(rand.NewSource(3))
	mut := realGaussianMutation(10.0)
	for i := 0; i < 50; i++ {
		out := mut(rng, d, Individual[float64]{0.005})
		if !d.Valid(out) {
			t.Fatalf("mutated individual out of bounds: %v", out)
		}
	}
}

func TestRealInitRejectsShapeMismatch(t *testing.T) {
	d := RealDomain{Lower: []float64{0, 0}, Upper: []float64{1, 1}}
	rng := rand.New(rand.NewSource(4))
	bad := Individual[float64]{0.5}
	_, err := realInit(rng, d, 5, Population[float64]{bad})
	if _, ok := err.(*ShapeMismatch); !ok {
		t.Fatalf("expected *ShapeMismatch, got %v", err)
	}
}
