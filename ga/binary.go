package ga

import "math/rand"

// BinaryDomain is the Binary encoding: a fixed-length bit string.
type BinaryDomain struct {
	NBits int
}

func (d BinaryDomain) Len() int { return d.NBits }

func (d BinaryDomain) Valid(ind Individual[bool]) bool {
	return len(ind) == d.NBits
}

func (d BinaryDomain) Sample(rng *rand.Rand) Individual[bool] {
	row := make(Individual[bool], d.NBits)
	for i := range row {
		row[i] = rng.Float64() < 0.5
	}
	return row
}

func binaryInit(rng *rand.Rand, domain Domain[bool], popSize int, suggestions Population[bool]) (Population[bool], error) {
	nbits := domain.Len()
	for _, s := range suggestions {
		if len(s) != nbits {
			return nil, &ShapeMismatch{Want: nbits, Got: len(s), Context: "binary population init suggestions"}
		}
	}
	pop := make(Population[bool], popSize)
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

// binaryOnePointCrossover is single-point crossover over the bit string.
func binaryOnePointCrossover(rng *rand.Rand, domain Domain[bool], p1, p2 Individual[bool]) (Individual[bool], Individual[bool]) {
	n := len(p1)
	if n < 2 {
		return p1.Clone(), p2.Clone()
	}
	point := 1 + rng.Intn(n-1)
	c1 := make(Individual[bool], n)
	c2 := make(Individual[bool], n)
	copy(c1[:point], p1[:point])
	copy(c1[point:], p2[point:])
	copy(c2[:point], p2[:point])
	copy(c2[point:], p1[point:])
	return c1, c2
}

// binaryUniformCrossover swaps each bit independently with probability 0.5.
func binaryUniformCrossover(rng *rand.Rand, domain Domain[bool], p1, p2 Individual[bool]) (Individual[bool], Individual[bool]) {
	n := len(p1)
	c1 := make(Individual[bool], n)
	c2 := make(Individual[bool], n)
	for i := 0; i < n; i++ {
		if rng.Float64() < 0.5 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	return c1, c2
}

// binaryBitFlipMutation flips each bit independently with probability
// 1/len(ind), the classical default rate for bit-flip mutation.
func binaryBitFlipMutation(rng *rand.Rand, domain Domain[bool], ind Individual[bool]) Individual[bool] {
	out := ind.Clone()
	p := 1.0 / float64(len(out))
	for i := range out {
		if rng.Float64() < p {
			out[i] = !out[i]
		}
	}
	return out
}

// BinaryRegistry returns a fresh operator registry for the Binary encoding
// with its defaults: uniform init, tournament selection, one-point
// crossover, bit-flip mutation.
func BinaryRegistry() *Registry[bool] {
	r := newRegistry[bool]()
	r.RegisterInit("uniform", binaryInit)
	r.RegisterSelection("tournament", TournamentSelection[bool](2))
	r.RegisterSelection("roulette", RouletteSelection[bool]())
	r.RegisterSelection("linear-rank", LinearRankSelection[bool](0.5))
	r.RegisterSelection("nonlinear-rank", NonlinearRankSelection[bool](0.5, 0.25))
	r.RegisterCrossover("onepoint", binaryOnePointCrossover)
	r.RegisterCrossover("uniform", binaryUniformCrossover)
	r.RegisterMutation("bitflip", binaryBitFlipMutation)
	r.defaultInit = "uniform"
	r.defaultSel = "tournament"
	r.defaultCx = "onepoint"
	r.defaultMut = "bitflip"
	return r
}
