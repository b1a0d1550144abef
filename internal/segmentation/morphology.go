package segmentation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MorphologicalOperations denoises a mask by applying an opening (erosion
// then dilation) followed by a closing (dilation then erosion), both with
// a square all-ones structuring element of side kernelSize. The opening
// removes vegetation specks smaller than the kernel footprint, the
// closing fills small gaps inside vegetation regions.
//
// No-data cells (NaN) are treated as background, so the result holds only
// 0 and 1 and is safe to feed into Smoothing. A kernelSize of 1
// degenerates both operations to a no-op apart from the NaN to 0 mapping.
func MorphologicalOperations(mask *mat.Dense, kernelSize int) (*mat.Dense, error) {
	if err := validateKernelSize(kernelSize); err != nil {
		return nil, err
	}

	opened := dilate(erode(mask, kernelSize), kernelSize)
	closed := erode(dilate(opened, kernelSize), kernelSize)
	return closed, nil
}

func validateKernelSize(kernelSize int) error {
	if kernelSize < 1 {
		return fmt.Errorf("%w: kernel size must be at least 1, got %d", ErrInvalidArgument, kernelSize)
	}
	if kernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size must be odd, got %d", ErrInvalidArgument, kernelSize)
	}
	return nil
}

func erode(m *mat.Dense, kernelSize int) *mat.Dense {
	return rankFilter(m, kernelSize, math.Min, math.Inf(1))
}

func dilate(m *mat.Dense, kernelSize int) *mat.Dense {
	return rankFilter(m, kernelSize, math.Max, math.Inf(-1))
}

// rankFilter applies a min or max filter with a square window. The window
// is clamped at the image borders, which for min and max filters is
// equivalent to replicating the border, and NaN cells count as
// background 0.
func rankFilter(m *mat.Dense, kernelSize int, pick func(a, b float64) float64, seed float64) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	radius := kernelSize / 2

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			result := seed
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= rows || nx < 0 || nx >= cols {
						continue
					}
					value := m.At(ny, nx)
					if math.IsNaN(value) {
						value = 0
					}
					result = pick(result, value)
				}
			}
			out.Set(y, x, result)
		}
	}
	return out
}
