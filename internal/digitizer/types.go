// Package digitizer extracts per-curve numeric series from raster images of
// plotted graphs. The pipeline rectifies the photographed plot area onto a
// square canvas, isolates curves by HSV color range, rejects noise, maps
// surviving pixels into logical graph coordinates, and aggregates them into
// clean x-ordered series.
package digitizer

import "fmt"

// ScaleType selects the axis mapping used when converting canvas pixels to
// logical graph units.
type ScaleType string

const (
	ScaleLinear ScaleType = "linear"
	ScaleLog    ScaleType = "log"
)

// ParseScale maps a caller-supplied scale name to a ScaleType. The empty
// string selects linear; anything else but the two known names is rejected.
func ParseScale(s string) (ScaleType, error) {
	switch s {
	case "", string(ScaleLinear):
		return ScaleLinear, nil
	case string(ScaleLog):
		return ScaleLog, nil
	}
	return "", fmt.Errorf("unknown scale %q", s)
}

// Calibration describes the logical axis bounds of the plot area.
type Calibration struct {
	XMin  float64   `json:"x_min" yaml:"x_min"`
	XMax  float64   `json:"x_max" yaml:"x_max"`
	YMin  float64   `json:"y_min" yaml:"y_min"`
	YMax  float64   `json:"y_max" yaml:"y_max"`
	Scale ScaleType `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Validate rejects calibrations that cannot describe a plot area. It runs
// before any pixel processing.
func (c Calibration) Validate() error {
	if c.XMax <= c.XMin {
		return &CalibrationError{Axis: "x", Min: c.XMin, Max: c.XMax}
	}
	if c.YMax <= c.YMin {
		return &CalibrationError{Axis: "y", Min: c.YMin, Max: c.YMax}
	}
	if c.Scale == ScaleLog {
		if c.XMin <= 0 {
			return &CalibrationError{Axis: "x", Min: c.XMin, Max: c.XMax, Reason: "log scale requires positive bounds"}
		}
		if c.YMin <= 0 {
			return &CalibrationError{Axis: "y", Min: c.YMin, Max: c.YMax, Reason: "log scale requires positive bounds"}
		}
	}
	return nil
}

// HSVBound is one corner of an inclusive HSV range, in OpenCV convention
// (H 0-180, S 0-255, V 0-255).
type HSVBound struct {
	H float64 `json:"h" yaml:"h"`
	S float64 `json:"s" yaml:"s"`
	V float64 `json:"v" yaml:"v"`
}

// ColorSpec describes one HSV range to segment. Several specs may share a
// BaseColor (red needs two ranges because its hue wraps around); their masks
// are merged by union before filtering so no pixel is double-counted.
type ColorSpec struct {
	Name      string   `json:"name" yaml:"name"`
	BaseColor string   `json:"base" yaml:"base"`
	Lower     HSVBound `json:"lower" yaml:"lower"`
	Upper     HSVBound `json:"upper" yaml:"upper"`
}

// CurvePoint is a single digitized point in logical graph units.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CurveSeries is the digitized series for one base color, ordered by
// strictly non-decreasing X.
type CurveSeries struct {
	BaseColor string       `json:"base_color"`
	Label     string       `json:"label,omitempty"`
	Points    []CurvePoint `json:"points"`
}

// Result is the outcome of one extraction call. The engine keeps no state
// across calls; the result is owned by the caller.
type Result struct {
	Series      map[string]CurveSeries `json:"series"`
	Calibration Calibration            `json:"calibration"`
	// GridEstimate is a diagnostic estimate of the plot's grid density taken
	// from the canvas frequency spectrum. Nothing downstream consumes it.
	GridEstimate int `json:"grid_estimate"`
}
