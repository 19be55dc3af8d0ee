package advisor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Projection holds the two-axis principal decomposition of a standardized
// matrix: per machine a (PC1, PC2) coordinate, per axis the loading of every
// dimension and the fraction of total variance the axis explains, plus the
// mean standardized level of each machine for presentation.
type Projection struct {
	Dimensions        []Dimension
	PC1               []float64
	PC2               []float64
	Loadings          [2][]float64
	ExplainedVariance [2]float64
	Overall           []float64
}

// Project computes the top two principal axes of the standardized matrix via
// thin SVD. It requires at least two machines and two dimensions; anything
// less cannot support a two-axis decomposition and is reported as an error.
//
// Each axis is oriented so the dimension carrying the largest absolute
// loading has a positive loading; on an exact magnitude tie the lowest
// dimension index wins. Re-running on an unchanged matrix yields identical
// output.
func Project(sm *StandardizedMatrix) (*Projection, error) {
	if sm == nil || len(sm.Rows) < 2 {
		return nil, fmt.Errorf("%w: 分析には2台以上のデータが必要です", ErrInsufficientData)
	}
	d := len(sm.Dimensions)
	if d < 2 {
		return nil, fmt.Errorf("%w: 分析には2項目以上のスペックが必要です", ErrInsufficientData)
	}
	n := len(sm.Rows)

	flat := make([]float64, 0, n*d)
	for _, row := range sm.Rows {
		flat = append(flat, row...)
	}
	x := mat.NewDense(n, d, flat)

	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, fmt.Errorf("%w: 特異値分解に失敗しました", ErrInsufficientData)
	}
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	var total float64
	for _, s := range values {
		total += s * s
	}

	p := &Projection{
		Dimensions: append([]Dimension(nil), sm.Dimensions...),
		PC1:        make([]float64, n),
		PC2:        make([]float64, n),
		Overall:    make([]float64, n),
	}
	for axis := 0; axis < 2; axis++ {
		loading := make([]float64, d)
		if axis < len(values) {
			for j := 0; j < d; j++ {
				loading[j] = v.At(j, axis)
			}
			orientAxis(loading)
			if total > 0 {
				p.ExplainedVariance[axis] = values[axis] * values[axis] / total
			}
		}
		p.Loadings[axis] = loading
	}
	for i, row := range sm.Rows {
		p.PC1[i] = dot(row, p.Loadings[0])
		p.PC2[i] = dot(row, p.Loadings[1])
		var sum float64
		for _, val := range row {
			sum += val
		}
		p.Overall[i] = sum / float64(d)
	}
	return p, nil
}

// orientAxis flips the loading vector in place when the largest-magnitude
// loading is negative, fixing the otherwise arbitrary SVD sign.
func orientAxis(loading []float64) {
	best := 0
	for j := 1; j < len(loading); j++ {
		if abs(loading[j]) > abs(loading[best]) {
			best = j
		}
	}
	if loading[best] < 0 {
		for j := range loading {
			loading[j] = -loading[j]
		}
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
