package segmentation

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// maskFromGrid builds a mask where 1 stays 1 and 0 becomes the NaN
// sentinel, matching the output of Threshold.
func maskFromGrid(grid [][]float64) *mat.Dense {
	rows, cols := len(grid), len(grid[0])
	m := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if grid[y][x] == 1 {
				m.Set(y, x, 1)
			} else {
				m.Set(y, x, math.NaN())
			}
		}
	}
	return m
}

func TestMorphologicalOperationsRemovesSpeck(t *testing.T) {
	mask := maskFromGrid([][]float64{
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
	})

	cleaned, err := MorphologicalOperations(mask, 3)
	if err != nil {
		t.Fatalf("MorphologicalOperations returned error: %v", err)
	}

	rows, cols := cleaned.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if cleaned.At(y, x) != 0 {
				t.Errorf("speck survived opening at (%d,%d): %v", y, x, cleaned.At(y, x))
			}
		}
	}
}

func TestMorphologicalOperationsFillsGap(t *testing.T) {
	mask := maskFromGrid([][]float64{
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 0, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	})

	cleaned, err := MorphologicalOperations(mask, 3)
	if err != nil {
		t.Fatalf("MorphologicalOperations returned error: %v", err)
	}

	rows, cols := cleaned.Dims()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if cleaned.At(y, x) != 1 {
				t.Errorf("gap not filled at (%d,%d): %v", y, x, cleaned.At(y, x))
			}
		}
	}
}

func TestMorphologicalOperationsIdempotentOnCleanMask(t *testing.T) {
	mask := maskFromGrid([][]float64{
		{0, 0, 0, 0, 0, 0},
		{0, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 0},
		{0, 0, 0, 0, 0, 0},
	})

	once, err := MorphologicalOperations(mask, 3)
	if err != nil {
		t.Fatalf("MorphologicalOperations returned error: %v", err)
	}
	twice, err := MorphologicalOperations(once, 3)
	if err != nil {
		t.Fatalf("MorphologicalOperations returned error: %v", err)
	}

	if !matEqual(once, twice) {
		t.Errorf("open+close is not idempotent on an already-clean mask:\nonce:\n%v\ntwice:\n%v",
			mat.Formatted(once), mat.Formatted(twice))
	}
}

func TestMorphologicalOperationsKernelOne(t *testing.T) {
	mask := maskFromGrid([][]float64{
		{1, 0},
		{0, 1},
	})

	cleaned, err := MorphologicalOperations(mask, 1)
	if err != nil {
		t.Fatalf("MorphologicalOperations returned error: %v", err)
	}

	// A 1x1 element degenerates to a no-op apart from mapping no-data
	// to background.
	want := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	if !matEqual(cleaned, want) {
		t.Errorf("kernel size 1 altered the mask:\n%v", mat.Formatted(cleaned))
	}
}

func TestMorphologicalOperationsInvalidKernel(t *testing.T) {
	mask := mat.NewDense(2, 2, nil)

	for _, size := range []int{0, -3, 2, 4} {
		if _, err := MorphologicalOperations(mask, size); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("kernel size %d: error = %v, want ErrInvalidArgument", size, err)
		}
	}
}
