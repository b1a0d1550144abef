package segmentation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// smoothingSigma is the fixed spread of the Gaussian smoothing kernel.
const smoothingSigma = 1.0

// Smoothing blurs a mask with a square Gaussian kernel of side kernelSize
// and sigma 1, turning the hard binary mask into a continuous-valued soft
// mask. Kernel weights falling outside the image are dropped and the
// remaining weights renormalized, so a uniform mask stays uniform up to
// its borders. No-data cells (NaN) contribute as background 0.
func Smoothing(mask *mat.Dense, kernelSize int) (*mat.Dense, error) {
	if err := validateKernelSize(kernelSize); err != nil {
		return nil, err
	}

	kernel := gaussianKernel(kernelSize, smoothingSigma)
	rows, cols := mask.Dims()
	out := mat.NewDense(rows, cols, nil)
	radius := kernelSize / 2

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var sum, weight float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= rows || nx < 0 || nx >= cols {
						continue
					}
					w := kernel[dy+radius][dx+radius]
					value := mask.At(ny, nx)
					if math.IsNaN(value) {
						value = 0
					}
					sum += w * value
					weight += w
				}
			}
			out.Set(y, x, sum/weight)
		}
	}
	return out, nil
}

// gaussianKernel builds a normalized square Gaussian kernel.
func gaussianKernel(size int, sigma float64) [][]float64 {
	kernel := make([][]float64, size)
	radius := size / 2
	var total float64

	for y := 0; y < size; y++ {
		kernel[y] = make([]float64, size)
		for x := 0; x < size; x++ {
			dy, dx := float64(y-radius), float64(x-radius)
			kernel[y][x] = math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			total += kernel[y][x]
		}
	}
	for y := range kernel {
		for x := range kernel[y] {
			kernel[y][x] /= total
		}
	}
	return kernel
}
