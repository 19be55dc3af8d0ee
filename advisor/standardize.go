package advisor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardizedMatrix is the z-scored view of a dataset. Each column has mean
// zero and population standard deviation one across the current machines; a
// constant column is mapped to all zeros instead of dividing by zero.
type StandardizedMatrix struct {
	Dimensions []Dimension
	Rows       [][]float64
	Means      []float64
	Stddevs    []float64 // zero marks a constant column
}

// Standardize rescales every spec column of the dataset. It is a pure
// function of the current machine set.
func Standardize(ds *Dataset) (*StandardizedMatrix, error) {
	if ds == nil || len(ds.Machines) == 0 {
		return nil, fmt.Errorf("%w: 標準化するデータがありません", ErrEmptyDataset)
	}
	n := len(ds.Machines)
	d := len(ds.Dimensions)
	for i, m := range ds.Machines {
		if len(m.Specs) != d {
			return nil, fmt.Errorf("%w: 行%d: スペック数が%dではありません", ErrMalformedInput, i+1, d)
		}
	}

	sm := &StandardizedMatrix{
		Dimensions: append([]Dimension(nil), ds.Dimensions...),
		Rows:       make([][]float64, n),
		Means:      make([]float64, d),
		Stddevs:    make([]float64, d),
	}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i, m := range ds.Machines {
			col[i] = m.Specs[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		sm.Means[j] = mean
		if variance > 0 {
			sm.Stddevs[j] = math.Sqrt(variance)
		}
	}
	for i, m := range ds.Machines {
		row := make([]float64, d)
		for j := 0; j < d; j++ {
			if sm.Stddevs[j] > 0 {
				row[j] = (m.Specs[j] - sm.Means[j]) / sm.Stddevs[j]
			}
		}
		sm.Rows[i] = row
	}
	return sm, nil
}
