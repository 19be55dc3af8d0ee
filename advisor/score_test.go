package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankFixture(prices []float64, pc1, pc2 []float64) (*Dataset, *Projection) {
	ds := &Dataset{Dimensions: DefaultDimensions()}
	for i, price := range prices {
		ds.Machines = append(ds.Machines, Machine{
			Name:  string(rune('A' + i)),
			Price: price,
			Specs: []float64{1, 1, 1, 1},
		})
	}
	proj := &Projection{
		Dimensions: ds.Dimensions,
		PC1:        pc1,
		PC2:        pc2,
		Overall:    make([]float64, len(prices)),
	}
	return ds, proj
}

func names(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Machine.Name
	}
	return out
}

func TestRankNeutralPreferenceFollowsPC1(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200},
		[]float64{0.5, -1.0, 1.5},
		[]float64{-2.0, 3.0, 0.0},
	)
	recs := Rank(ds, proj, 0, 0)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"C", "A", "B"}, names(recs))
	for _, r := range recs {
		assert.True(t, r.InBudget)
	}
}

func TestRankNeutralPreferenceIgnoresPC2(t *testing.T) {
	pc1 := []float64{0.5, -1.0, 1.5}
	ds, proj := rankFixture([]float64{1000, 800, 1200}, pc1, []float64{-2.0, 3.0, 0.0})
	base := Rank(ds, proj, 0, 0)

	// Permuting PC2 must not move anything when preference is zero.
	ds2, proj2 := rankFixture([]float64{1000, 800, 1200}, pc1, []float64{3.0, 0.0, -2.0})
	permuted := Rank(ds2, proj2, 0, 0)

	assert.Equal(t, names(base), names(permuted))
	for i := range base {
		assert.InDelta(t, base[i].Score, permuted[i].Score, 1e-12)
	}
}

func TestRankPreferencePullsPC2(t *testing.T) {
	// B trails C on PC1 but leads on PC2.
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200},
		[]float64{0.9, 1.0, 1.1},
		[]float64{0.0, 2.0, -1.0},
	)
	neutral := Rank(ds, proj, 0, 0)
	assert.Equal(t, "C", neutral[0].Machine.Name)

	positive := Rank(ds, proj, 1, 0)
	assert.Equal(t, "B", positive[0].Machine.Name)

	negative := Rank(ds, proj, -1, 0)
	assert.NotEqual(t, "B", negative[0].Machine.Name)
}

func TestRankPreferenceClamped(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200},
		[]float64{1.0, 0.9, 1.1},
		[]float64{-1.0, 2.0, -0.5},
	)
	extreme := Rank(ds, proj, 5, 0)
	capped := Rank(ds, proj, 1, 0)
	assert.Equal(t, names(capped), names(extreme))
	for i := range capped {
		assert.InDelta(t, capped[i].Score, extreme[i].Score, 1e-12)
	}
}

func TestRankBudgetFilterAppendsOutOfBudget(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200},
		[]float64{0.5, -1.0, 1.5},
		[]float64{0, 0, 0},
	)
	recs := Rank(ds, proj, 0, 900)
	require.Len(t, recs, 3)
	// Only B fits, so the normalization pool is a single machine: both
	// axes are flat and every score collapses to 0.25.
	assert.Equal(t, "B", recs[0].Machine.Name)
	assert.True(t, recs[0].InBudget)
	for _, r := range recs {
		assert.InDelta(t, 0.25, r.Score, 1e-12)
	}
	// The flagged tail ties on score, so ascending price orders it.
	assert.Equal(t, []string{"A", "C"}, names(recs[1:]))
	assert.False(t, recs[1].InBudget)
	assert.False(t, recs[2].InBudget)
}

func TestRankOutOfBudgetScoredAgainstPoolBounds(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200, 700},
		[]float64{0.5, -1.0, 1.5, 0.0},
		[]float64{0, 0, 0, 0},
	)
	recs := Rank(ds, proj, 0, 900)
	require.Len(t, recs, 4)
	// Pool is B and D; PC1 bounds are [-1, 0].
	assert.Equal(t, []string{"D", "B"}, names(recs[:2]))
	assert.True(t, recs[0].InBudget)
	assert.True(t, recs[1].InBudget)
	// A and C sit above the pool's upper bound, clamp to the same top
	// score and fall back to ascending price.
	assert.Equal(t, []string{"A", "C"}, names(recs[2:]))
	assert.False(t, recs[2].InBudget)
	assert.False(t, recs[3].InBudget)
	assert.InDelta(t, 0.5, recs[2].Score, 1e-12)
	assert.InDelta(t, 0.5, recs[3].Score, 1e-12)
}

func TestRankEmptyBudgetMatchFallsBackToFullSet(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1000, 800, 1200},
		[]float64{0.5, -1.0, 1.5},
		[]float64{0, 0, 0},
	)
	recs := Rank(ds, proj, 0, 100)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"C", "A", "B"}, names(recs))
	for _, r := range recs {
		assert.False(t, r.InBudget)
	}
}

func TestRankTiesByPriceThenInputOrder(t *testing.T) {
	ds, proj := rankFixture(
		[]float64{1200, 800, 800},
		[]float64{1, 1, 1},
		[]float64{0, 0, 0},
	)
	recs := Rank(ds, proj, 0, 0)
	// All scores tie (flat pool maps to 0.5): cheaper first, then load order.
	assert.Equal(t, []string{"B", "C", "A"}, names(recs))
	for _, r := range recs {
		assert.InDelta(t, 0.5, r.Score, 1e-12)
	}
}

func TestRankSingleInBudgetConstantPool(t *testing.T) {
	// A one-machine pool has degenerate bounds on both axes.
	ds, proj := rankFixture(
		[]float64{500, 2000},
		[]float64{-3, 4},
		[]float64{1, -1},
	)
	recs := Rank(ds, proj, 1, 1000)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Machine.Name)
	assert.True(t, recs[0].InBudget)
	assert.InDelta(t, 0.5, recs[0].Score, 1e-12)
	assert.False(t, recs[1].InBudget)
}

func TestRankNilInputs(t *testing.T) {
	assert.Nil(t, Rank(nil, nil, 0, 0))
	ds, proj := rankFixture(nil, nil, nil)
	assert.Nil(t, Rank(ds, proj, 0, 0))
}

func TestRankFullPipelineScenario(t *testing.T) {
	ds := testDataset(t,
		[]any{"A", 1000, 8, 8, 8, 8},
		[]any{"B", 800, 4, 9, 4, 4},
		[]any{"C", 1200, 9, 4, 9, 9},
	)
	sm, err := Standardize(ds)
	require.NoError(t, err)
	proj, err := Project(sm)
	require.NoError(t, err)

	// Neutral preference rewards overall strength: the balanced and the
	// high-spec machines beat the GPU-skewed one.
	neutral := Rank(ds, proj, 0, 0)
	require.Len(t, neutral, 3)
	assert.Equal(t, "B", neutral[2].Machine.Name)

	// A strong preference toward the contrast axis lifts the skewed
	// machine out of last place.
	skewed := Rank(ds, proj, -1, 0)
	assert.NotEqual(t, "B", skewed[2].Machine.Name)

	// A tight budget still produces an in-budget winner.
	budget := Rank(ds, proj, 0, 900)
	assert.Equal(t, "B", budget[0].Machine.Name)
	assert.True(t, budget[0].InBudget)
	assert.False(t, budget[1].InBudget)
	assert.False(t, budget[2].InBudget)
}
