package segmentation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default thresholds for the vegetation class of an index.
const (
	DefaultIndexMin = 0.1
	DefaultIndexMax = 1.0
)

// Threshold splits an index matrix into a vegetation mask and a
// non-vegetation mask. Pixels with min <= value <= max get marker 1 in
// the vegetation mask, pixels outside that range get marker 1 in the
// non-vegetation mask, all other cells hold NaN. A NaN index value
// satisfies neither comparison, so no-data pixels stay NaN in both masks.
func Threshold(index *mat.Dense, min, max float64) (vegetation, nonVegetation *mat.Dense) {
	rows, cols := index.Dims()
	vegetation = mat.NewDense(rows, cols, nil)
	nonVegetation = mat.NewDense(rows, cols, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			value := index.At(y, x)
			switch {
			case value >= min && value <= max:
				vegetation.Set(y, x, 1)
				nonVegetation.Set(y, x, math.NaN())
			case value < min || value > max:
				vegetation.Set(y, x, math.NaN())
				nonVegetation.Set(y, x, 1)
			default:
				vegetation.Set(y, x, math.NaN())
				nonVegetation.Set(y, x, math.NaN())
			}
		}
	}
	return vegetation, nonVegetation
}
