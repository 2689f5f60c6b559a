package digitizer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// madEpsilon keeps the deviation test defined for bins whose values are all
// identical.
const madEpsilon = 1e-6

// madFactor is the retained deviation band around the bin median.
const madFactor = 2.0

// aggregate turns the raw mapped point cloud of one base color into a clean,
// x-ordered series: points are grouped into fixed-width bins, each bin is
// cleaned with a median/MAD outlier test, bins whose retained values still
// disagree are dropped entirely, and the result is smoothed when long enough.
func aggregate(points []CurvePoint, cfg Config, window int) []CurvePoint {
	if len(points) == 0 {
		return nil
	}

	bins := make(map[int][]float64)
	for _, p := range points {
		idx := int(math.Round(p.X / cfg.BinWidth))
		bins[idx] = append(bins[idx], p.Y)
	}

	indices := make([]int, 0, len(bins))
	for idx := range bins {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]CurvePoint, 0, len(indices))
	for _, idx := range indices {
		ys := bins[idx]

		sorted := append([]float64(nil), ys...)
		sort.Float64s(sorted)
		median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

		deviations := make([]float64, len(ys))
		for i, y := range ys {
			deviations[i] = math.Abs(y - median)
		}
		sort.Float64s(deviations)
		mad := stat.Quantile(0.5, stat.Empirical, deviations, nil) + madEpsilon

		var retained []float64
		for _, y := range ys {
			if math.Abs(y-median) <= madFactor*mad {
				retained = append(retained, y)
			}
		}
		if len(retained) == 0 {
			continue
		}

		// A wide spread after outlier rejection marks an ambiguous region,
		// typically a curve crossing or legend overlap. The bin contributes
		// nothing rather than a bogus average.
		if len(retained) > 1 && stat.StdDev(retained, nil) > cfg.MaxBinStdDev {
			continue
		}

		out = append(out, CurvePoint{
			X: float64(idx) * cfg.BinWidth,
			Y: stat.Mean(retained, nil),
		})
	}

	// Bin indices were visited in order, but the series contract is explicit.
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })

	if len(out) > window {
		smoothCubic(out, window)
	}
	return out
}

// smoothCubic applies a Savitzky-Golay style local cubic fit over the given
// window to the y-values in place. X-values and point count are unchanged.
func smoothCubic(points []CurvePoint, window int) {
	n := len(points)
	smoothed := make([]float64, n)
	half := window / 2

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := lo + window
		if hi > n {
			hi = n
			lo = hi - window
		}

		smoothed[i] = fitCubicAt(points[lo:hi], points[i].X)
	}

	for i := range points {
		points[i].Y = smoothed[i]
	}
}

// fitCubicAt least-squares fits y = a0 + a1*t + a2*t^2 + a3*t^3 over the
// window, with t measured from the evaluation point, and returns the fitted
// value there (a0).
func fitCubicAt(window []CurvePoint, atX float64) float64 {
	n := len(window)

	A := mat.NewDense(n, 4, nil)
	B := mat.NewVecDense(n, nil)
	for i, p := range window {
		t := p.X - atX
		A.Set(i, 0, 1)
		A.Set(i, 1, t)
		A.Set(i, 2, t*t)
		A.Set(i, 3, t*t*t)
		B.SetVec(i, p.Y)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		// Degenerate window (collinear duplicate x); keep the raw value.
		for _, p := range window {
			if p.X == atX {
				return p.Y
			}
		}
		return window[n/2].Y
	}
	return params.AtVec(0)
}
