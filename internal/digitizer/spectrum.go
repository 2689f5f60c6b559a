package digitizer

import (
	"math"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

const (
	// spectrumCrop is the width of the central band of the magnitude
	// spectrum inspected for grid-line frequencies.
	spectrumCrop = 100
	// spectrumQuantile marks grid-line frequency candidates.
	spectrumQuantile = 0.995
	// minGridCandidates is the minimum candidate count before the median
	// radius is trusted.
	minGridCandidates = 4

	defaultGridEstimate = 10
	gridEstimateMin     = 5
	gridEstimateMax     = 50
)

// estimateGridSize estimates the plot's grid density from the canvas
// frequency spectrum. Regularly spaced grid lines concentrate spectral energy
// at a radius proportional to the line count, so the median radial distance
// of the strongest frequencies, inverted against the inspected band, gives a
// rough cell count. The value is diagnostic only.
func estimateGridSize(canvas gocv.Mat) int {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(canvas, &gray, gocv.ColorBGRToGray)

	f32 := gocv.NewMat()
	defer f32.Close()
	gray.ConvertTo(&f32, gocv.MatTypeCV32F)

	freq := gocv.NewMat()
	defer freq.Close()
	gocv.DFT(f32, &freq, gocv.DftComplexOutput)

	planes := gocv.Split(freq)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()
	if len(planes) != 2 {
		return defaultGridEstimate
	}

	mag := gocv.NewMat()
	defer mag.Close()
	gocv.Magnitude(planes[0], planes[1], &mag)

	rows, cols := mag.Rows(), mag.Cols()
	half := spectrumCrop / 2

	// The DFT leaves the zero frequency at the corners; fold coordinates so
	// the central crop is the low-frequency band around it.
	type freqSample struct {
		radius    float64
		magnitude float64
	}
	var samples []freqSample
	mags := make([]float64, 0, spectrumCrop*spectrumCrop)

	for y := 0; y < rows; y++ {
		fy := y
		if fy > rows/2 {
			fy -= rows
		}
		if fy < -half || fy > half {
			continue
		}
		for x := 0; x < cols; x++ {
			fx := x
			if fx > cols/2 {
				fx -= cols
			}
			if fx < -half || fx > half {
				continue
			}

			radius := math.Hypot(float64(fx), float64(fy))
			if radius < 2 {
				// DC and its immediate neighborhood dominate every image.
				continue
			}

			m := float64(mag.GetFloatAt(y, x))
			samples = append(samples, freqSample{radius: radius, magnitude: m})
			mags = append(mags, m)
		}
	}

	if len(mags) == 0 {
		return defaultGridEstimate
	}

	sort.Float64s(mags)
	threshold := stat.Quantile(spectrumQuantile, stat.Empirical, mags, nil)

	var radii []float64
	for _, s := range samples {
		if s.magnitude > threshold {
			radii = append(radii, s.radius)
		}
	}
	if len(radii) < minGridCandidates {
		return defaultGridEstimate
	}

	sort.Float64s(radii)
	median := stat.Quantile(0.5, stat.Empirical, radii, nil)
	if median <= 0 {
		return defaultGridEstimate
	}

	estimate := int(math.Round(spectrumCrop / median))
	if estimate < gridEstimateMin {
		return gridEstimateMin
	}
	if estimate > gridEstimateMax {
		return gridEstimateMax
	}
	return estimate
}
