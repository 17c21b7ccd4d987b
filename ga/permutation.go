package ga

import "math/rand"

// PermutationDomain is the Permutation encoding: an ordering of the integers
// [Lower, Upper). Each Individual[int] must be exactly that set, visited once
// each, in some order.
type PermutationDomain struct {
	Lower, Upper int
}

func (d PermutationDomain) Len() int { return d.Upper - d.Lower }

func (d PermutationDomain) Valid(ind Individual[int]) bool {
	n := d.Len()
	if len(ind) != n {
		return false
	}
	seen := make(map[int]bool, n)
	for _, v := range ind {
		if v < d.Lower || v >= d.Upper || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func (d PermutationDomain) Sample(rng *rand.Rand) Individual[int] {
	n := d.Len()
	row := make(Individual[int], n)
	for i := range row {
		row[i] = d.Lower + i
	}
	rng.Shuffle(n, func(i, j int) { row[i], row[j] = row[j], row[i] })
	return row
}

func permutationInit(rng *rand.Rand, domain Domain[int], popSize int, suggestions Population[int]) (Population[int], error) {
	n := domain.Len()
	for _, s := range suggestions {
		if !domain.Valid(s) {
			return nil, &ShapeMismatch{Want: n, Got: len(s), Context: "permutation population init suggestions"}
		}
	}
	pop := make(Population[int], popSize)
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

// permutationOrderCrossover is Order Crossover (OX1): a contiguous slice is
// copied verbatim from one parent, and the remaining positions are filled, in
// the order they appear, from the other parent, skipping values already
// placed. Grounded directly on the teacher's TSPChromosome.Crossover, which
// implements the same algorithm keyed on city name instead of integer value.
func permutationOrderCrossover(rng *rand.Rand, domain Domain[int], p1, p2 Individual[int]) (Individual[int], Individual[int]) {
	n := len(p1)
	if n < 2 {
		return p1.Clone(), p2.Clone()
	}
	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	c1 := orderCrossoverChild(p1, p2, a, b)
	c2 := orderCrossoverChild(p2, p1, a, b)
	return c1, c2
}

func orderCrossoverChild(primary, secondary Individual[int], a, b int) Individual[int] {
	n := len(primary)
	child := make(Individual[int], n)
	taken := make(map[int]bool, n)
	for i := a; i <= b; i++ {
		child[i] = primary[i]
		taken[primary[i]] = true
	}
	pos := (b + 1) % n
	for i := 0; i < n; i++ {
		v := secondary[(b+1+i)%n]
		if taken[v] {
			continue
		}
		child[pos] = v
		taken[v] = true
		pos = (pos + 1) % n
	}
	return child
}

// permutationPMXCrossover is Partially Mapped Crossover: a contiguous slice
// is swapped between parents, and positional conflicts outside the slice are
// resolved by following the mapping established inside it.
func permutationPMXCrossover(rng *rand.Rand, domain Domain[int], p1, p2 Individual[int]) (Individual[int], Individual[int]) {
	n := len(p1)
	if n < 2 {
		return p1.Clone(), p2.Clone()
	}
	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	return pmxChild(p1, p2, a, b), pmxChild(p2, p1, a, b)
}

func pmxChild(primary, secondary Individual[int], a, b int) Individual[int] {
	n := len(primary)
	child := make(Individual[int], n)
	for i := range child {
		child[i] = -1
	}
	mapping := make(map[int]int, b-a+1)
	for i := a; i <= b; i++ {
		child[i] = secondary[i]
		mapping[secondary[i]] = primary[i]
	}
	for i := 0; i < n; i++ {
		if i >= a && i <= b {
			continue
		}
		v := primary[i]
		for {
			next, conflict := mapping[v]
			if !conflict {
				break
			}
			v = next
		}
		child[i] = v
	}
	return child
}

// permutationCycleCrossover partitions positions into cycles between the two
// parents and alternates which parent supplies each cycle.
func permutationCycleCrossover(rng *rand.Rand, domain Domain[int], p1, p2 Individual[int]) (Individual[int], Individual[int]) {
	n := len(p1)
	posOf := make(map[int]int, n)
	for i, v := range p1 {
		posOf[v] = i
	}
	cycleID := make([]int, n)
	for i := range cycleID {
		cycleID[i] = -1
	}
	id := 0
	for start := 0; start < n; start++ {
		if cycleID[start] != -1 {
			continue
		}
		i := start
		for cycleID[i] == -1 {
			cycleID[i] = id
			i = posOf[p2[i]]
		}
		id++
	}
	c1 := make(Individual[int], n)
	c2 := make(Individual[int], n)
	for i := 0; i < n; i++ {
		if cycleID[i]%2 == 0 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	return c1, c2
}

// permutationSwapMutation swaps two random positions. Grounded directly on
// the teacher's TSPChromosome.Mutate.
func permutationSwapMutation(rng *rand.Rand, domain Domain[int], ind Individual[int]) Individual[int] {
	out := ind.Clone()
	n := len(out)
	if n < 2 {
		return out
	}
	i := rng.Intn(n)
	j := rng.Intn(n)
	out[i], out[j] = out[j], out[i]
	return out
}

// permutationInsertionMutation removes one element and reinserts it at a
// different random position, shifting the intervening elements.
func permutationInsertionMutation(rng *rand.Rand, domain Domain[int], ind Individual[int]) Individual[int] {
	n := len(ind)
	if n < 3 {
		return permutationSwapMutation(rng, domain, ind)
	}
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	out := make(Individual[int], 0, n)
	v := ind[i]
	rest := make(Individual[int], 0, n-1)
	for k, x := range ind {
		if k != i {
			rest = append(rest, x)
		}
	}
	pos := j
	if pos > i {
		pos--
	}
	out = append(out, rest[:pos]...)
	out = append(out, v)
	out = append(out, rest[pos:]...)
	return out
}

// permutationScrambleMutation shuffles a random contiguous slice in place.
func permutationScrambleMutation(rng *rand.Rand, domain Domain[int], ind Individual[int]) Individual[int] {
	out := ind.Clone()
	n := len(out)
	if n < 2 {
		return out
	}
	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	sub := out[a : b+1]
	rng.Shuffle(len(sub), func(i, j int) { sub[i], sub[j] = sub[j], sub[i] })
	return out
}

// PermutationRegistry returns a fresh operator registry for the Permutation
// encoding with its defaults: uniform (shuffled) init, tournament selection,
// order crossover, swap mutation.
func PermutationRegistry() *Registry[int] {
	r := newRegistry[int]()
	r.RegisterInit("uniform", permutationInit)
	r.RegisterSelection("tournament", TournamentSelection[int](2))
	r.RegisterSelection("roulette", RouletteSelection[int]())
	r.RegisterSelection("linear-rank", LinearRankSelection[int](0.5))
	r.RegisterSelection("nonlinear-rank", NonlinearRankSelection[int](0.5, 0.25))
	r.RegisterCrossover("order", permutationOrderCrossover)
	r.RegisterCrossover("pmx", permutationPMXCrossover)
	r.RegisterCrossover("cycle", permutationCycleCrossover)
	r.RegisterMutation("swap", permutationSwapMutation)
	r.RegisterMutation("insertion", permutationInsertionMutation)
	r.RegisterMutation("scramble", permutationScrambleMutation)
	r.defaultInit = "uniform"
	r.defaultSel = "tournament"
	r.defaultCx = "order"
	r.defaultMut = "swap"
	return r
}
