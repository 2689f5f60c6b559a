package digitizer

import (
	"context"
	"image"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Engine digitizes plotted curves out of raster graph images. It is a pure
// transformation of its inputs: construct it once with a Config and call
// Extract from as many goroutines as needed.
type Engine struct {
	cfg Config
}

// New creates an engine with the given tuning tables.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefault creates an engine with the stock tuning tables.
func NewDefault() *Engine {
	return New(DefaultConfig())
}

// Config returns the engine's tuning tables.
func (e *Engine) Config() Config {
	return e.cfg
}

// Extract runs the full pipeline on a photographed or scanned graph image:
// rectify the plot boundary onto the canonical canvas, then digitize every
// configured color. labels optionally assigns a caller-supplied label per
// base color. The calibration is validated before any pixel work.
func (e *Engine) Extract(ctx context.Context, img image.Image, cal Calibration, labels map[string]string) (*Result, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	src := imageToMat(img)
	defer src.Close()

	canvas, grid, err := e.normalize(src)
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	return e.extractCanvas(ctx, canvas, grid, cal, labels)
}

// ExtractFromCanvas digitizes an already-rectified canvas, skipping boundary
// detection. Canvases of a different size are resampled to the configured
// canvas size first.
func (e *Engine) ExtractFromCanvas(ctx context.Context, canvas image.Image, cal Calibration, labels map[string]string) (*Result, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	m := imageToMat(canvas)
	defer m.Close()

	if m.Rows() != e.cfg.CanvasSize || m.Cols() != e.cfg.CanvasSize {
		resized := gocv.NewMat()
		gocv.Resize(m, &resized, image.Point{X: e.cfg.CanvasSize, Y: e.cfg.CanvasSize}, 0, 0, gocv.InterpolationLinear)
		m.Close()
		m = resized
	}

	return e.extractCanvas(ctx, m, estimateGridSize(m), cal, labels)
}

// extractCanvas runs stages segment -> filter -> map -> aggregate for every
// base color. Colors are independent after segmentation, so each runs on its
// own goroutine with its own mats; the shared HSV canvas is read-only.
func (e *Engine) extractCanvas(ctx context.Context, canvas gocv.Mat, grid int, cal Calibration, labels map[string]string) (*Result, error) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(canvas, &hsv, gocv.ColorBGRToHSV)

	bases := e.cfg.baseColors()
	perBase := make([]*CurveSeries, len(bases))

	g, ctx := errgroup.WithContext(ctx)
	for i, base := range bases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			merged := mergedMask(hsv, e.cfg.specsFor(base))
			defer merged.Close()

			cleaned := cleanMask(merged, e.cfg.minArea(base))
			defer cleaned.Close()

			// No surviving pixels: the graph has no curve in this color.
			if gocv.CountNonZero(cleaned) == 0 {
				return nil
			}

			points := aggregate(mapPixels(cleaned, cal), e.cfg, e.cfg.smoothingWindow(base))
			if len(points) == 0 {
				return nil
			}

			perBase[i] = &CurveSeries{
				BaseColor: base,
				Label:     labels[base],
				Points:    points,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Series:       make(map[string]CurveSeries),
		Calibration:  cal,
		GridEstimate: grid,
	}
	for _, s := range perBase {
		if s != nil {
			result.Series[s.BaseColor] = *s
		}
	}
	return result, nil
}
