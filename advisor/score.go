package advisor

import "sort"

// Recommendation is one ranked entry of the scoring output.
type Recommendation struct {
	Machine  Machine
	Score    float64
	InBudget bool
}

// Rank scores every machine against a preference weight and an optional
// budget ceiling (budget <= 0 means unlimited) and returns the full ranking,
// most preferred first.
//
// Machines within budget are normalized by min-max over the in-budget set,
// scored as 0.5*norm(PC1) + 0.5*preference*norm(PC2), and sorted by score
// descending with ties broken by ascending price and then input order.
// Machines outside the budget are still reported: scored against the same
// normalization bounds, flagged, and appended after the in-budget ranking.
// When nothing fits the budget the whole set is ranked with every entry
// flagged out of budget, so the user always sees a recommendation.
func Rank(ds *Dataset, proj *Projection, preference, budget float64) []Recommendation {
	if ds == nil || proj == nil || len(ds.Machines) == 0 {
		return nil
	}
	preference = clamp(preference, -1, 1)

	n := len(ds.Machines)
	inBudget := make([]bool, n)
	var pool []int
	for i, m := range ds.Machines {
		if budget <= 0 || m.Price <= budget {
			inBudget[i] = true
			pool = append(pool, i)
		}
	}
	// EmptyBudgetMatch fallback: rank the whole set, everything flagged.
	if len(pool) == 0 {
		for i := range inBudget {
			inBudget[i] = false
			pool = append(pool, i)
		}
	}

	pc1 := newMinMax(proj.PC1, pool)
	pc2 := newMinMax(proj.PC2, pool)

	recs := make([]Recommendation, n)
	order := make([]int, n)
	for i, m := range ds.Machines {
		score := 0.5*pc1.norm(proj.PC1[i]) + 0.5*preference*pc2.norm(proj.PC2[i])
		recs[i] = Recommendation{Machine: m, Score: score, InBudget: inBudget[i]}
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := recs[order[a]], recs[order[b]]
		if ra.InBudget != rb.InBudget {
			return ra.InBudget
		}
		if ra.Score != rb.Score {
			return ra.Score > rb.Score
		}
		return ra.Machine.Price < rb.Machine.Price
	})
	out := make([]Recommendation, n)
	for i, idx := range order {
		out[i] = recs[idx]
	}
	return out
}

// minMax normalizes values into [0,1] over the bounds of the scoring pool.
// A constant pool maps every value to 0.5 so the term cancels out of the
// ordering; values outside the pool bounds are clamped.
type minMax struct {
	lo, hi float64
	flat   bool
}

func newMinMax(values []float64, pool []int) minMax {
	lo, hi := values[pool[0]], values[pool[0]]
	for _, i := range pool[1:] {
		if values[i] < lo {
			lo = values[i]
		}
		if values[i] > hi {
			hi = values[i]
		}
	}
	return minMax{lo: lo, hi: hi, flat: hi == lo}
}

func (m minMax) norm(v float64) float64 {
	if m.flat {
		return 0.5
	}
	return clamp((v-m.lo)/(m.hi-m.lo), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
