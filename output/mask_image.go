package output

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/forest-guardian/vegetation-mask/internal/properties"
	"gonum.org/v1/gonum/mat"
)

// overlayThreshold marks the smoothed mask value above which a pixel is
// rendered as vegetation in the class overlay.
const overlayThreshold = 0.5

// WriteMaskPNG renders the smoothed mask as a grayscale heatmap, white
// for full vegetation confidence and black for none.
func WriteMaskPNG(mask *mat.Dense, outputPath string) error {
	rows, cols := mask.Dims()

	dc := gg.NewContext(cols, rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			value := clamp01(mask.At(y, x))
			dc.SetRGB(value, value, value)
			dc.SetPixel(x, y)
		}
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save mask image: %v", err)
	}
	return nil
}

// WriteMaskOverlayJPEG renders a hard vegetation/background class image
// using the configured color map.
func WriteMaskOverlayJPEG(mask *mat.Dense, outputPath string) error {
	if !strings.HasSuffix(outputPath, ".jpeg") {
		outputPath += ".jpeg"
	}

	rows, cols := mask.Dims()
	newImage := image.NewRGBA(image.Rect(0, 0, cols, rows))

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			label := "background"
			if mask.At(y, x) >= overlayThreshold {
				label = "vegetation"
			}
			newImage.Set(x, y, color.RGBA{
				R: properties.ColorMap[label].R,
				G: properties.ColorMap[label].G,
				B: properties.ColorMap[label].B,
				A: 255,
			})
		}
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JPEG file: %v", err)
	}
	defer outputFile.Close()

	if err := jpeg.Encode(outputFile, newImage, &jpeg.Options{Quality: 100}); err != nil {
		return fmt.Errorf("failed to encode JPEG file: %v", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
