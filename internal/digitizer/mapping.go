package digitizer

import (
	"math"

	"gocv.io/x/gocv"
)

// mapPixels converts every surviving mask pixel into logical graph
// coordinates. The canvas origin is top-left while the graph origin is
// bottom-left, so the y axis is inverted.
func mapPixels(mask gocv.Mat, cal Calibration) []CurvePoint {
	rows, cols := mask.Rows(), mask.Cols()
	w, h := float64(cols), float64(rows)

	var points []CurvePoint
	for py := 0; py < rows; py++ {
		for px := 0; px < cols; px++ {
			if mask.GetUCharAt(py, px) == 0 {
				continue
			}
			points = append(points, CurvePoint{
				X: mapAxis(float64(px), w, cal.XMin, cal.XMax, cal.Scale),
				Y: mapAxis(float64(rows-py), h, cal.YMin, cal.YMax, cal.Scale),
			})
		}
	}
	return points
}

// mapAxis maps a pixel offset on a W-pixel axis to logical units. Linear
// scale interpolates the bounds directly; log scale interpolates the decade
// exponents, so pixels equidistant on the canvas are equidistant in log10.
func mapAxis(pixel, span, lo, hi float64, scale ScaleType) float64 {
	t := pixel / span
	if scale == ScaleLog {
		return math.Pow(10, t*(math.Log10(hi)-math.Log10(lo))+math.Log10(lo))
	}
	return t*(hi-lo) + lo
}
