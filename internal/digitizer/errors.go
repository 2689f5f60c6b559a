package digitizer

import "fmt"

// GridDetectionError reports that the plot boundary could not be resolved to
// exactly four corners. It aborts the whole extraction for that image.
type GridDetectionError struct {
	Vertices int
}

func (e *GridDetectionError) Error() string {
	if e.Vertices == 0 {
		return "grid detection: no plot boundary contour found"
	}
	return fmt.Sprintf("grid detection: boundary approximates to %d vertices, want 4", e.Vertices)
}

// CalibrationError reports axis bounds that cannot describe a plot area.
type CalibrationError struct {
	Axis     string
	Min, Max float64
	Reason   string
}

func (e *CalibrationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("calibration: %s axis [%g, %g]: %s", e.Axis, e.Min, e.Max, e.Reason)
	}
	return fmt.Sprintf("calibration: %s axis max %g must exceed min %g", e.Axis, e.Max, e.Min)
}
