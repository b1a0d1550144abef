package raster

import (
	"fmt"
	"os"
	"sync"

	"github.com/airbusgeo/godal"
	"gonum.org/v1/gonum/mat"
)

var registerDrivers sync.Once

// Image wraps an opened raster dataset and exposes its first three bands
// as blue, green and red matrices.
type Image struct {
	ds      *godal.Dataset
	tmpPath string
}

// Open opens a raster image from a file path. GDAL warnings are
// suppressed, only errors surface.
func Open(path string) (*Image, error) {
	registerDrivers.Do(godal.RegisterAll)

	ds, err := godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal error %d: %s", code, msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	return &Image{ds: ds}, nil
}

// OpenBytes opens a raster image from an in-memory byte buffer, e.g. the
// body of a fetched response. The buffer is spooled to a temporary file
// that lives until Close, since godal exposes no buffer-backed open.
func OpenBytes(buf []byte) (*Image, error) {
	tmp, err := os.CreateTemp("", "vegetation-mask-*.tif")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp raster file: %w", err)
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write temp raster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close temp raster file: %w", err)
	}

	img, err := Open(tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	img.tmpPath = tmp.Name()
	return img, nil
}

// Bands reads bands 1 through 3 as blue, green and red matrices.
func (img *Image) Bands() (blue, green, red *mat.Dense, err error) {
	bands := img.ds.Bands()
	if len(bands) < 3 {
		return nil, nil, nil, fmt.Errorf("raster has %d bands, need at least 3", len(bands))
	}

	names := []string{"blue", "green", "red"}
	read := make([]*mat.Dense, 3)
	for i := range read {
		read[i], err = readBand(bands[i])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read %s band: %w", names[i], err)
		}
	}
	return read[0], read[1], read[2], nil
}

// Size returns the raster dimensions in pixels.
func (img *Image) Size() (width, height int) {
	return img.ds.Structure().SizeX, img.ds.Structure().SizeY
}

// GeoTransform returns the affine transform mapping pixel coordinates to
// georeferenced coordinates.
func (img *Image) GeoTransform() ([6]float64, error) {
	return img.ds.GeoTransform()
}

// Close releases the dataset and any temporary backing file.
func (img *Image) Close() error {
	err := img.ds.Close()
	if img.tmpPath != "" {
		os.Remove(img.tmpPath)
	}
	return err
}

func readBand(band godal.Band) (*mat.Dense, error) {
	xSize := band.Structure().SizeX
	ySize := band.Structure().SizeY
	data := make([]float64, xSize*ySize)
	if err := band.Read(0, 0, data, xSize, ySize); err != nil {
		return nil, err
	}
	return mat.NewDense(ySize, xSize, data), nil
}
