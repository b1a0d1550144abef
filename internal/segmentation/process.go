package segmentation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BandReader yields the blue, green and red band matrices of a raster
// source. All three matrices must share dimensions.
type BandReader interface {
	Bands() (blue, green, red *mat.Dense, err error)
}

type options struct {
	indexMin       float64
	indexMax       float64
	kind           IndexKind
	objectDiameter float64
}

// Option overrides a default processing parameter.
type Option func(*options)

// WithIndexRange sets the vegetation class bounds of the index.
func WithIndexRange(min, max float64) Option {
	return func(o *options) {
		o.indexMin = min
		o.indexMax = max
	}
}

// WithIndexKind selects the vegetation index formula.
func WithIndexKind(kind IndexKind) Option {
	return func(o *options) { o.kind = kind }
}

// WithObjectDiameter sets the real-world object diameter, in meters, that
// the morphological kernel is derived from.
func WithObjectDiameter(diameter float64) Option {
	return func(o *options) { o.objectDiameter = diameter }
}

// ProcessImage runs the full segmentation pipeline: resolve the ground
// sample distance from the zoom level, derive the kernel size, read the
// bands, compute the vegetation index, threshold it and clean the mask
// with morphological operations and Gaussian smoothing. Only the final
// smoothed vegetation mask is returned.
//
// Defaults: index range [0.1, 1.0], VARI index, 2.0 m object diameter.
// Parameter validation happens before any band is read; on error no
// partial result is returned.
func ProcessImage(reader BandReader, zoomLevel int, opts ...Option) (*mat.Dense, error) {
	o := options{
		indexMin:       DefaultIndexMin,
		indexMax:       DefaultIndexMax,
		kind:           VARI,
		objectDiameter: DefaultObjectDiameter,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.kind == "" {
		o.kind = VARI
	}

	gsd, err := GSDFromZoom(zoomLevel)
	if err != nil {
		return nil, err
	}

	kernelSize, err := KernelSizeFor(gsd, o.objectDiameter)
	if err != nil {
		return nil, err
	}

	blue, green, red, err := reader.Bands()
	if err != nil {
		return nil, fmt.Errorf("failed to read bands: %w", err)
	}

	index, err := VegetationIndex(blue, green, red, o.kind, false)
	if err != nil {
		return nil, err
	}

	vegetation, _ := Threshold(index, o.indexMin, o.indexMax)

	filtered, err := MorphologicalOperations(vegetation, kernelSize)
	if err != nil {
		return nil, err
	}

	smoothed, err := Smoothing(filtered, kernelSize)
	if err != nil {
		return nil, err
	}

	return smoothed, nil
}
