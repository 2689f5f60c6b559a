package digitizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateRecoversKnownFunction(t *testing.T) {
	cfg := DefaultConfig()
	f := func(x float64) float64 { return 2*x + 1 }

	// Five samples per bin with bounded additive noise well inside the
	// MAD band and the stddev limit.
	var points []CurvePoint
	noise := []float64{-0.02, -0.01, 0, 0.01, 0.02}
	for i := 0; i < 50; i++ {
		x := float64(i) * cfg.BinWidth
		for _, n := range noise {
			points = append(points, CurvePoint{X: x, Y: f(x) + n})
		}
	}

	out := aggregate(points, cfg, cfg.SmoothingWindow)
	require.Len(t, out, 50)

	for _, p := range out {
		assert.InDelta(t, f(p.X), p.Y, 0.05, "bin at x=%g", p.X)
	}
}

func TestAggregateDropsDispersedBin(t *testing.T) {
	cfg := DefaultConfig()

	var points []CurvePoint
	// Tight bins at x=0.00 and x=0.02.
	for _, y := range []float64{1.0, 1.01, 1.02} {
		points = append(points, CurvePoint{X: 0, Y: y})
		points = append(points, CurvePoint{X: 0.02, Y: y})
	}
	// The x=0.01 bin spreads from 0 to 1: every value survives the MAD test
	// but the retained stddev exceeds the limit.
	for _, y := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		points = append(points, CurvePoint{X: 0.01, Y: y})
	}

	out := aggregate(points, cfg, cfg.SmoothingWindow)
	require.Len(t, out, 2)
	for _, p := range out {
		assert.NotEqual(t, 0.01, p.X, "dispersed bin must not emit a point")
	}
}

func TestAggregateRejectsOutliersWithinBin(t *testing.T) {
	cfg := DefaultConfig()

	// One bin: a cluster at 5.0 plus a single far outlier. The outlier is
	// outside 2*MAD and must not drag the mean.
	points := []CurvePoint{
		{X: 0.05, Y: 5.00},
		{X: 0.05, Y: 5.01},
		{X: 0.05, Y: 5.02},
		{X: 0.05, Y: 4.99},
		{X: 0.05, Y: 4.98},
		{X: 0.05, Y: 9.0},
	}

	out := aggregate(points, cfg, cfg.SmoothingWindow)
	require.Len(t, out, 1)
	assert.InDelta(t, 5.0, out[0].Y, 0.05)
}

func TestSmoothingPreservesLengthAndX(t *testing.T) {
	cfg := DefaultConfig()

	var points []CurvePoint
	for i := 0; i < 40; i++ {
		x := float64(i) * cfg.BinWidth
		jitter := 0.02 * math.Sin(float64(i)*2.1)
		points = append(points, CurvePoint{X: x, Y: 3*x + jitter})
	}

	out := aggregate(points, cfg, 11)
	require.Len(t, out, 40, "smoothing must not change the point count")

	for i, p := range out {
		assert.Equal(t, float64(i)*cfg.BinWidth, p.X, "smoothing must not move x-values")
		assert.InDelta(t, 3*p.X, p.Y, 0.05)
	}
}

func TestShortSeriesPassesThroughUnsmoothed(t *testing.T) {
	cfg := DefaultConfig()

	var points []CurvePoint
	ys := []float64{1, 4, 2, 8, 3, 9, 1}
	for i, y := range ys {
		points = append(points, CurvePoint{X: float64(i) * cfg.BinWidth, Y: y})
	}

	out := aggregate(points, cfg, 11)
	require.Len(t, out, len(ys))
	for i, p := range out {
		assert.Equal(t, ys[i], p.Y, "series shorter than the window must be untouched")
	}
}

func TestAggregateOutputSortedByX(t *testing.T) {
	cfg := DefaultConfig()

	// Points arrive in scrambled x order.
	var points []CurvePoint
	for _, i := range []int{9, 2, 7, 0, 5, 1, 8, 3, 6, 4} {
		points = append(points, CurvePoint{X: float64(i) * cfg.BinWidth, Y: float64(i)})
	}

	out := aggregate(points, cfg, cfg.SmoothingWindow)
	require.Len(t, out, 10)
	for i := 1; i < len(out); i++ {
		assert.Greater(t, out[i].X, out[i-1].X)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	cfg := DefaultConfig()

	var points []CurvePoint
	for i := 0; i < 100; i++ {
		x := float64(i%25) * cfg.BinWidth
		points = append(points, CurvePoint{X: x, Y: math.Sin(float64(i))})
	}

	first := aggregate(points, cfg, cfg.SmoothingWindow)
	second := aggregate(points, cfg, cfg.SmoothingWindow)
	assert.Equal(t, first, second, "identical inputs must give identical outputs")
}
