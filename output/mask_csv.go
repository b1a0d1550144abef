package output

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
)

// MaskPixel is one exported pixel of a processed image.
type MaskPixel struct {
	X     int     `csv:"x"`
	Y     int     `csv:"y"`
	Index float64 `csv:"index"`
	Mask  float64 `csv:"mask"`
}

// WriteMaskCSV exports the per-pixel index value and smoothed mask value.
// No-data index cells are exported as 0, matching how the pipeline
// excludes them from the vegetation class.
func WriteMaskCSV(index, mask *mat.Dense, outputPath string) error {
	rows, cols := mask.Dims()
	if ir, ic := index.Dims(); ir != rows || ic != cols {
		return fmt.Errorf("index is %dx%d, mask is %dx%d", ir, ic, rows, cols)
	}

	pixels := make([]MaskPixel, 0, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			indexValue := index.At(y, x)
			if math.IsNaN(indexValue) {
				indexValue = 0
			}
			pixels = append(pixels, MaskPixel{
				X:     x,
				Y:     y,
				Index: indexValue,
				Mask:  mask.At(y, x),
			})
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&pixels, file); err != nil {
		return fmt.Errorf("failed to write CSV file: %v", err)
	}
	return nil
}
