package segmentation

import (
	"fmt"
	"math"
)

// gsdByZoom holds the ground sample distance in meters per pixel at the
// equator for web mercator zoom levels 0 through 23. The value roughly
// halves at every level.
var gsdByZoom = [24]float64{
	156412.0, // Zoom level 0
	78206.0,  // Zoom level 1
	39103.0,  // Zoom level 2
	19551.5,  // Zoom level 3
	9775.8,   // Zoom level 4
	4887.8,   // Zoom level 5
	2443.9,   // Zoom level 6
	1221.9,   // Zoom level 7
	610.98,   // Zoom level 8
	305.49,   // Zoom level 9
	152.74,   // Zoom level 10
	76.37,    // Zoom level 11
	38.19,    // Zoom level 12
	19.09,    // Zoom level 13
	9.55,     // Zoom level 14
	4.78,     // Zoom level 15
	2.39,     // Zoom level 16
	1.19,     // Zoom level 17
	0.60,     // Zoom level 18
	0.30,     // Zoom level 19
	0.15,     // Zoom level 20
	0.07,     // Zoom level 21
	0.04,     // Zoom level 22
	0.02,     // Zoom level 23
}

// DefaultObjectDiameter is the real-world diameter, in meters, of the
// smallest object the morphological kernel should cover.
const DefaultObjectDiameter = 2.0

// GSDFromZoom returns the ground sample distance in meters per pixel for
// the given zoom level.
func GSDFromZoom(zoomLevel int) (float64, error) {
	if zoomLevel < 0 || zoomLevel >= len(gsdByZoom) {
		return 0, fmt.Errorf("%w: invalid zoom level %d, must be between 0 and 23", ErrInvalidArgument, zoomLevel)
	}
	return gsdByZoom[zoomLevel], nil
}

// KernelSize derives the side of the morphological kernel from the ground
// sample distance, using DefaultObjectDiameter as the object size.
func KernelSize(gsd float64) (int, error) {
	return KernelSizeFor(gsd, DefaultObjectDiameter)
}

// KernelSizeFor converts an object diameter in meters into a kernel side
// in pixels at the given ground sample distance. The result is always odd
// so convolution kernels keep a defined center pixel; a diameter smaller
// than one pixel yields the minimum size of 1.
func KernelSizeFor(gsd, objectDiameter float64) (int, error) {
	if math.IsNaN(gsd) || gsd <= 0 {
		return 0, fmt.Errorf("%w: gsd must be a positive number, got %v", ErrInvalidArgument, gsd)
	}
	if math.IsNaN(objectDiameter) || objectDiameter <= 0 {
		return 0, fmt.Errorf("%w: object diameter must be a positive number, got %v", ErrInvalidArgument, objectDiameter)
	}

	kernelSize := int(objectDiameter / gsd)
	if kernelSize%2 == 0 {
		kernelSize++
	}
	return kernelSize, nil
}
