package ga

import "math/rand"

// RealDomain is the RealValued encoding: a vector of reals, each bounded by
// its own [Lower[i], Upper[i]] interval.
type RealDomain struct {
	Lower, Upper []float64
}

func (d RealDomain) Len() int { return len(d.Lower) }

func (d RealDomain) Valid(ind Individual[float64]) bool {
	if len(ind) != len(d.Lower) {
		return false
	}
	for i, x := range ind {
		if x < d.Lower[i] || x > d.Upper[i] {
			return false
		}
	}
	return true
}

func (d RealDomain) Sample(rng *rand.Rand) Individual[float64] {
	row := make(Individual[float64], len(d.Lower))
	for i := range row {
		row[i] = d.Lower[i] + rng.Float64()*(d.Upper[i]-d.Lower[i])
	}
	return row
}

// Clip projects ind back into the domain's box bounds, coordinate-wise. Used
// by the local-search adapter since gonum's optimize package has no native
// box-constrained method (see DESIGN.md).
func (d RealDomain) Clip(ind Individual[float64]) Individual[float64] {
	out := ind.Clone()
	for i := range out {
		if out[i] < d.Lower[i] {
			out[i] = d.Lower[i]
		}
		if out[i] > d.Upper[i] {
			out[i] = d.Upper[i]
		}
	}
	return out
}

func realInit(rng *rand.Rand, domain Domain[float64], popSize int, suggestions Population[float64]) (Population[float64], error) {
	nvars := domain.Len()
	for _, s := range suggestions {
		if len(s) != nvars {
			return nil, &ShapeMismatch{Want: nvars, Got: len(s), Context: "real-valued population init suggestions"}
		}
	}
	pop := make(Population[float64], popSize)
	k := len(suggestions)
	if k > popSize {
		k = popSize
	}
	for i := 0; i < k; i++ {
		pop[i] = suggestions[i].Clone()
	}
	for i := k; i < popSize; i++ {
		pop[i] = domain.Sample(rng)
	}
	return pop, nil
}

func clipToDomain(domain Domain[float64], ind Individual[float64]) Individual[float64] {
	if rd, ok := domain.(RealDomain); ok {
		return rd.Clip(ind)
	}
	return ind
}

// realBlendCrossover is BLX-alpha: each child gene is drawn uniformly from an
// interval extended by alpha beyond the two parents' span, then clipped back
// into the domain.
func realBlendCrossover(alpha float64) CrossoverFunc[float64] {
	return func(rng *rand.Rand, domain Domain[float64], p1, p2 Individual[float64]) (Individual[float64], Individual[float64]) {
		n := len(p1)
		c1 := make(Individual[float64], n)
		c2 := make(Individual[float64], n)
		for i := 0; i < n; i++ {
			lo, hi := p1[i], p2[i]
			if lo > hi {
				lo, hi = hi, lo
			}
			span := hi - lo
			lo -= alpha * span
			hi += alpha * span
			c1[i] = lo + rng.Float64()*(hi-lo)
			c2[i] = lo + rng.Float64()*(hi-lo)
		}
		return clipToDomain(domain, c1), clipToDomain(domain, c2)
	}
}

// realArithmeticCrossover blends parents with a random per-pair weight.
func realArithmeticCrossover(rng *rand.Rand, domain Domain[float64], p1, p2 Individual[float64]) (Individual[float64], Individual[float64]) {
	n := len(p1)
	w := rng.Float64()
	c1 := make(Individual[float64], n)
	c2 := make(Individual[float64], n)
	for i := 0; i < n; i++ {
		c1[i] = w*p1[i] + (1-w)*p2[i]
		c2[i] = (1-w)*p1[i] + w*p2[i]
	}
	return clipToDomain(domain, c1), clipToDomain(domain, c2)
}

// realUniformMutation replaces each gene, with probability 1/n, by a fresh
// uniform draw inside its bound.
func realUniformMutation(rng *rand.Rand, domain Domain[float64], ind Individual[float64]) Individual[float64] {
	rd, ok := domain.(RealDomain)
	out := ind.Clone()
	p := 1.0 / float64(len(out))
	for i := range out {
		if rng.Float64() < p && ok {
			out[i] = rd.Lower[i] + rng.Float64()*(rd.Upper[i]-rd.Lower[i])
		}
	}
	return out
}

// realGaussianMutation perturbs each gene, with probability 1/n, by additive
// Gaussian noise scaled to the bound's width, clipping back into range ("Gaussian-with-clipping"
// per spec.md §4.1).
func realGaussianMutation(sigmaFrac float64) MutationFunc[float64] {
	return func(rng *rand.Rand, domain Domain[float64], ind Individual[float64]) Individual[float64] {
		rd, ok := domain.(RealDomain)
		out := ind.Clone()
		p := 1.0 / float64(len(out))
		for i := range out {
			if rng.Float64() >= p {
				continue
			}
			sigma := sigmaFrac
			if ok {
				sigma *= rd.Upper[i] - rd.Lower[i]
			}
			out[i] += rng.NormFloat64() * sigma
		}
		return clipToDomain(domain, out)
	}
}

// RealRegistry returns a fresh operator registry for the RealValued encoding
// with its defaults: uniform init, tournament selection, BLX-0.5 blend
// crossover, Gaussian-with-clipping mutation.
func RealRegistry() *Registry[float64] {
	r := newRegistry[float64]()
	r.RegisterInit("uniform", realInit)
	r.RegisterSelection("tournament", TournamentSelection[float64](2))
	r.RegisterSelection("roulette", RouletteSelection[float64]())
	r.RegisterSelection("linear-rank", LinearRankSelection[float64](0.5))
	r.RegisterSelection("nonlinear-rank", NonlinearRankSelection[float64](0.5, 0.25))
	r.RegisterCrossover("blend", realBlendCrossover(0.5))
	r.RegisterCrossover("arithmetic", realArithmeticCrossover)
	r.RegisterMutation("gaussian", realGaussianMutation(0.1))
	r.RegisterMutation("uniform", realUniformMutation)
	r.defaultInit = "uniform"
	r.defaultSel = "tournament"
	r.defaultCx = "blend"
	r.defaultMut = "gaussian"
	return r
}
