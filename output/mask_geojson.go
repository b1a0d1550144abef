package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/mat"
)

// WriteMaskGeoJSON summarizes the smoothed mask as a FeatureCollection:
// one point feature at the centroid of the vegetation class with its
// pixel count and coverage fraction. Pixel centers are georeferenced
// through the raster's affine geotransform.
func WriteMaskGeoJSON(mask *mat.Dense, geoTransform [6]float64, outputPath string) error {
	rows, cols := mask.Dims()

	var sumX, sumY float64
	var vegetationPixels int
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.At(y, x) < overlayThreshold {
				continue
			}
			lon, lat := pixelToCoordinate(geoTransform, x, y)
			sumX += lon
			sumY += lat
			vegetationPixels++
		}
	}

	fc := geojson.NewFeatureCollection()
	if vegetationPixels > 0 {
		centroid := geojson.NewFeature(orb.Point{
			sumX / float64(vegetationPixels),
			sumY / float64(vegetationPixels),
		})
		centroid.Properties["vegetation_pixels"] = vegetationPixels
		centroid.Properties["coverage"] = float64(vegetationPixels) / float64(rows*cols)
		fc.Append(centroid)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create GeoJSON file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %v", err)
	}
	return nil
}

// pixelToCoordinate maps a pixel center to georeferenced coordinates.
func pixelToCoordinate(gt [6]float64, x, y int) (float64, float64) {
	px, py := float64(x)+0.5, float64(y)+0.5
	lon := gt[0] + gt[1]*px + gt[2]*py
	lat := gt[3] + gt[4]*px + gt[5]*py
	return lon, lat
}
