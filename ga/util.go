package ga

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sortIndicesByFitness orders idx by descending fitness, missing (NaN)
// entries last, ties broken by original index for determinism.
func sortIndicesByFitness(idx []int, fv FitnessVector) {
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := fv[idx[i]], fv[idx[j]]
		am, bm := isMissing(a), isMissing(b)
		if am != bm {
			return !am // non-missing sorts before missing
		}
		if am && bm {
			return false
		}
		return a > b
	})
}

// summarize computes the (max, mean, q1, median, q3, min) row over the
// finite entries of fv. Quantiles use gonum's sample-quantile estimator on
// the sorted finite values, matching the pack's preference for gonum over a
// hand-rolled percentile routine.
func summarize(fv FitnessVector) SummaryRow {
	vals := make([]float64, 0, len(fv))
	for _, f := range fv {
		if !isMissing(f) {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return SummaryRow{Max: missing(), Mean: missing(), Q1: missing(), Median: missing(), Q3: missing(), Min: missing()}
	}
	sort.Float64s(vals)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return SummaryRow{
		Max:    vals[len(vals)-1],
		Mean:   sum / float64(len(vals)),
		Q1:     stat.Quantile(0.25, stat.Empirical, vals, nil),
		Median: stat.Quantile(0.50, stat.Empirical, vals, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, vals, nil),
		Min:    vals[0],
	}
}
