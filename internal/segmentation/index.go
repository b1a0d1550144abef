package segmentation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// IndexKind selects the vegetation index formula applied to the bands.
type IndexKind string

const (
	// VARI is the visible atmospherically resistant index.
	VARI IndexKind = "VARI"
	// GLI is the green leaf index.
	GLI IndexKind = "GLI"
	// RGRI is the red-green ratio index.
	RGRI IndexKind = "RGRI"
)

// VegetationIndex computes a per-pixel vegetation index from the blue,
// green and red band matrices. Indeterminate pixels (a zero denominator)
// become NaN, the no-data sentinel, and are excluded from the vegetation
// class by the thresholding step.
//
// The normalize flag is accepted for compatibility with the historical
// surface and currently has no effect.
func VegetationIndex(blue, green, red *mat.Dense, kind IndexKind, normalize bool) (*mat.Dense, error) {
	rows, cols := blue.Dims()
	if gr, gc := green.Dims(); gr != rows || gc != cols {
		return nil, fmt.Errorf("%w: green band is %dx%d, blue band is %dx%d", ErrInvalidArgument, gr, gc, rows, cols)
	}
	if rr, rc := red.Dims(); rr != rows || rc != cols {
		return nil, fmt.Errorf("%w: red band is %dx%d, blue band is %dx%d", ErrInvalidArgument, rr, rc, rows, cols)
	}

	var pixel func(b, g, r float64) (num, den float64)
	switch kind {
	case VARI:
		pixel = func(b, g, r float64) (float64, float64) { return g - r, g + r - b }
	case GLI:
		pixel = func(b, g, r float64) (float64, float64) { return 2*g - r - b, 2*g + r + b }
	case RGRI:
		pixel = func(b, g, r float64) (float64, float64) { return r, g }
	default:
		return nil, fmt.Errorf("%w: unknown index type: %s", ErrInvalidArgument, kind)
	}

	index := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			num, den := pixel(blue.At(y, x), green.At(y, x), red.At(y, x))
			if den == 0 {
				index.Set(y, x, math.NaN())
				continue
			}
			index.Set(y, x, num/den)
		}
	}
	return index, nil
}
