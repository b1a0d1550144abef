package segmentation

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type fakeBandReader struct {
	blue, green, red *mat.Dense
	err              error
	calls            int
}

func (f *fakeBandReader) Bands() (*mat.Dense, *mat.Dense, *mat.Dense, error) {
	f.calls++
	return f.blue, f.green, f.red, f.err
}

// syntheticImage builds a 10x10 three-band image with a 4x4 block of
// green-dominant pixels surrounded by red-dominant ones.
func syntheticImage() *fakeBandReader {
	size := 10
	blue := mat.NewDense(size, size, nil)
	green := mat.NewDense(size, size, nil)
	red := mat.NewDense(size, size, nil)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			inBlock := y >= 3 && y < 7 && x >= 3 && x < 7
			blue.Set(y, x, 50)
			if inBlock {
				green.Set(y, x, 200) // VARI = 150/200 = 0.75
				red.Set(y, x, 50)
			} else {
				green.Set(y, x, 50) // VARI = -150/200 = -0.75
				red.Set(y, x, 200)
			}
		}
	}
	return &fakeBandReader{blue: blue, green: green, red: red}
}

func TestProcessImageEndToEnd(t *testing.T) {
	reader := syntheticImage()

	// Zoom level 15 has a GSD of 4.78 m/px, so the 2 m object collapses
	// to a kernel of 1 and the block survives almost untouched.
	mask, err := ProcessImage(reader, 15)
	if err != nil {
		t.Fatalf("ProcessImage returned error: %v", err)
	}

	rows, cols := mask.Dims()
	if rows != 10 || cols != 10 {
		t.Fatalf("mask is %dx%d, want 10x10", rows, cols)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			value := mask.At(y, x)
			inBlock := y >= 3 && y < 7 && x >= 3 && x < 7
			if inBlock && value < 0.9 {
				t.Errorf("vegetation pixel (%d,%d) = %v, want near 1", y, x, value)
			}
			if !inBlock && value > 0.1 {
				t.Errorf("background pixel (%d,%d) = %v, want near 0", y, x, value)
			}
		}
	}
}

func TestProcessImageSmoothsWithLargerKernel(t *testing.T) {
	reader := syntheticImage()

	// Zoom level 18 (0.60 m/px) gives a kernel of 3, so the block edges
	// must be softened by the blur.
	mask, err := ProcessImage(reader, 18)
	if err != nil {
		t.Fatalf("ProcessImage returned error: %v", err)
	}

	center := mask.At(5, 5)
	if center < 0.9 {
		t.Errorf("block center = %v, want near 1", center)
	}
	corner := mask.At(0, 0)
	if corner > 0.1 {
		t.Errorf("far background = %v, want near 0", corner)
	}
	edge := mask.At(5, 7) // just outside the block
	if edge <= corner || edge >= center {
		t.Errorf("edge value %v not between background %v and block %v", edge, corner, center)
	}
}

func TestProcessImageOptions(t *testing.T) {
	reader := syntheticImage()

	// RGRI is red/green: ~4 outside the block, 0.25 inside, so widening
	// the range to [2, 5] inverts the segmentation.
	mask, err := ProcessImage(reader, 15,
		segWithRGRIRange()...,
	)
	if err != nil {
		t.Fatalf("ProcessImage returned error: %v", err)
	}

	if got := mask.At(5, 5); got != 0 {
		t.Errorf("block pixel = %v, want 0 under inverted range", got)
	}
	if got := mask.At(0, 0); got != 1 {
		t.Errorf("background pixel = %v, want 1 under inverted range", got)
	}
}

func segWithRGRIRange() []Option {
	return []Option{
		WithIndexKind(RGRI),
		WithIndexRange(2, 5),
	}
}

func TestProcessImageInvalidZoomAbortsBeforeRead(t *testing.T) {
	reader := syntheticImage()

	if _, err := ProcessImage(reader, 24); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if reader.calls != 0 {
		t.Errorf("bands were read %d times despite the invalid zoom level", reader.calls)
	}
}

func TestProcessImageUnknownIndexKind(t *testing.T) {
	reader := syntheticImage()

	if _, err := ProcessImage(reader, 15, WithIndexKind("NDWI")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestProcessImageReadFailure(t *testing.T) {
	reader := &fakeBandReader{err: errors.New("boom")}

	if _, err := ProcessImage(reader, 15); err == nil {
		t.Fatal("expected error from failing band reader")
	}
}
