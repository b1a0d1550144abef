package delivery

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/forest-guardian/vegetation-mask/internal/cache"
	"github.com/forest-guardian/vegetation-mask/internal/properties"
	"github.com/forest-guardian/vegetation-mask/internal/raster"
	"github.com/forest-guardian/vegetation-mask/internal/segmentation"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/singleflight"
	"gonum.org/v1/gonum/mat"
)

const batchWorkers = 8

// Request describes one image to segment.
type Request struct {
	ImagePath string
	ZoomLevel int
	IndexMin  float64
	IndexMax  float64
	Index     segmentation.IndexKind
}

// Result pairs a request with its smoothed vegetation mask.
type Result struct {
	Request Request
	Mask    *mat.Dense
}

// maskRecord is the serializable form of a mask kept in the file cache.
type maskRecord struct {
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Values []float64 `json:"values"`
}

var (
	maskCache     *cache.FileCache[maskRecord]
	inFlight      singleflight.Group
	maskCacheOnce sync.Once
)

func resultCache() cache.Cache[maskRecord] {
	// RootPath may only be populated after godotenv runs, so the cache
	// directory is resolved on first use.
	maskCacheOnce.Do(func() {
		maskCache = cache.NewFileCache[maskRecord](filepath.Join(properties.RootPath(), "data", "masks"))
	})
	return maskCache
}

// ProcessImage opens the image at req.ImagePath and runs the
// segmentation pipeline on it.
func ProcessImage(req Request) (*mat.Dense, error) {
	img, err := raster.Open(req.ImagePath)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	return segmentation.ProcessImage(img, req.ZoomLevel,
		segmentation.WithIndexRange(req.IndexMin, req.IndexMax),
		segmentation.WithIndexKind(req.Index),
	)
}

// ProcessImageCached memoizes ProcessImage results on disk, keyed by the
// request parameters. Concurrent identical requests are collapsed into a
// single computation.
func ProcessImageCached(req Request) (*mat.Dense, error) {
	c := resultCache()
	key := c.GenerateKey(req.ImagePath, req.ZoomLevel, req.IndexMin, req.IndexMax, req.Index)

	if record, ok := c.Get(key); ok {
		return mat.NewDense(record.Rows, record.Cols, record.Values), nil
	}

	value, err, _ := inFlight.Do(key, func() (interface{}, error) {
		mask, err := ProcessImage(req)
		if err != nil {
			return nil, err
		}

		rows, cols := mask.Dims()
		record := maskRecord{Rows: rows, Cols: cols, Values: rawValues(mask)}
		if err := c.Set(key, record); err != nil {
			fmt.Printf("Failed to cache mask for %s: %v\n", req.ImagePath, err)
		}
		return mask, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*mat.Dense), nil
}

// ProcessBatch segments every requested image on a worker pool and
// reports progress. The first failure stops the batch result from being
// returned; already-submitted work still drains.
func ProcessBatch(requests []Request) ([]Result, error) {
	var (
		mu          sync.Mutex
		results     []Result
		progressBar = progressbar.Default(int64(len(requests)), "Segmenting images")
	)

	wp := workerpool.New(batchWorkers)
	errChan := make(chan error, 1)
	var firstError sync.Once

	for _, req := range requests {
		r := req
		wp.Submit(func() {
			mask, err := ProcessImageCached(r)
			if err != nil {
				firstError.Do(func() { errChan <- fmt.Errorf("failed to process %s: %w", r.ImagePath, err) })
				return
			}

			mu.Lock()
			results = append(results, Result{Request: r, Mask: mask})
			progressBar.Add(1)
			mu.Unlock()
		})
	}

	go func() {
		wp.StopWait()
		close(errChan)
	}()

	if err := <-errChan; err != nil {
		return nil, err
	}
	return results, nil
}

func rawValues(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	values := make([]float64, len(raw.Data))
	copy(values, raw.Data)
	return values
}
