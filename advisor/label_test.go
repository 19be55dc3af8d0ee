package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelComposite(t *testing.T) {
	dims := DefaultDimensions()
	got := DefaultLabeler().Label(dims, []float64{0.5, 0.5, 0.5, 0.5})
	assert.Equal(t, "総合性能", got)
}

func TestLabelDominant(t *testing.T) {
	dims := DefaultDimensions()
	got := DefaultLabeler().Label(dims, []float64{0.9, 0.1, 0.05, 0.05})
	assert.Equal(t, "CPU重視", got)

	got = DefaultLabeler().Label(dims, []float64{0.1, -0.95, 0.05, 0.05})
	assert.Equal(t, "GPU重視", got)
}

func TestLabelContrastNegativePoleLeft(t *testing.T) {
	dims := DefaultDimensions()
	got := DefaultLabeler().Label(dims, []float64{0.7, -0.7, 0, 0})
	assert.Equal(t, "GPU重視 ↔ CPU重視", got)

	got = DefaultLabeler().Label(dims, []float64{-0.7, 0.7, 0, 0})
	assert.Equal(t, "CPU重視 ↔ GPU重視", got)
}

func TestLabelZeroMass(t *testing.T) {
	dims := DefaultDimensions()
	got := DefaultLabeler().Label(dims, []float64{0, 0, 0, 0})
	assert.Equal(t, "なし", got)
}

func TestLabelNegativeCompositeStaysComposite(t *testing.T) {
	// Tiny loadings below epsilon are sign-neutral.
	dims := DefaultDimensions()
	got := DefaultLabeler().Label(dims, []float64{0.6, 0.55, 1e-12, 0.5})
	assert.Equal(t, "総合性能", got)
}

func TestLabelCustomRatio(t *testing.T) {
	dims := DefaultDimensions()
	loadings := []float64{0.6, 0.4, 0.1, 0.1}
	// 0.6/1.2 = 50% of the mass: dominant only under a lower cutoff.
	assert.Equal(t, "総合性能", HeuristicLabeler{DominanceRatio: 0.6}.Label(dims, loadings))
	assert.Equal(t, "CPU重視", HeuristicLabeler{DominanceRatio: 0.4}.Label(dims, loadings))
}

func TestLabelDeterministic(t *testing.T) {
	dims := DefaultDimensions()
	loadings := []float64{0.3, -0.4, 0.5, -0.2}
	first := DefaultLabeler().Label(dims, loadings)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DefaultLabeler().Label(dims, loadings))
	}
}
