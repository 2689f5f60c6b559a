package digitizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"graph-digitizer/pkg/colorutil"
)

// Config holds the immutable tuning tables for one engine instance. Build it
// with DefaultConfig and override fields before constructing the engine;
// the engine never mutates it.
type Config struct {
	// CanvasSize is the side length of the square canvas the plot area is
	// rectified onto.
	CanvasSize int `yaml:"canvas_size"`

	// BinWidth is the x-axis bin width, in logical units, used when
	// aggregating mapped points.
	BinWidth float64 `yaml:"bin_width"`

	// MaxBinStdDev drops a whole bin when the retained y-values still spread
	// wider than this, which marks curve crossings and legend overlap.
	MaxBinStdDev float64 `yaml:"max_bin_stddev"`

	// MinComponentArea is the default minimum connected-component pixel area;
	// smaller components are treated as speckle noise.
	MinComponentArea int `yaml:"min_component_area"`

	// MinAreaOverrides overrides MinComponentArea per base color.
	MinAreaOverrides map[string]int `yaml:"min_area_overrides,omitempty"`

	// SmoothingWindow is the default smoothing window length. A series is
	// smoothed only when it has more points than its window.
	SmoothingWindow int `yaml:"smoothing_window"`

	// WindowOverrides overrides SmoothingWindow per base color. Colors drawn
	// with thicker strokes tolerate longer windows.
	WindowOverrides map[string]int `yaml:"window_overrides,omitempty"`

	// ColorSpecs is the HSV segmentation table.
	ColorSpecs []ColorSpec `yaml:"colors"`
}

// DefaultConfig returns the stock tuning tables: a 1000x1000 canvas, the
// seven recognized curve colors (red split across the hue wrap-around), and
// the default aggregation thresholds.
func DefaultConfig() Config {
	return Config{
		CanvasSize:       1000,
		BinWidth:         0.01,
		MaxBinStdDev:     0.3,
		MinComponentArea: 1400,
		SmoothingWindow:  11,
		WindowOverrides: map[string]int{
			"red":  20,
			"blue": 17,
		},
		ColorSpecs: []ColorSpec{
			{Name: "red-low", BaseColor: "red", Lower: HSVBound{H: 0, S: 100, V: 100}, Upper: HSVBound{H: 10, S: 255, V: 255}},
			{Name: "red-high", BaseColor: "red", Lower: HSVBound{H: 170, S: 100, V: 100}, Upper: HSVBound{H: 180, S: 255, V: 255}},
			{Name: "orange", BaseColor: "orange", Lower: HSVBound{H: 11, S: 100, V: 100}, Upper: HSVBound{H: 22, S: 255, V: 255}},
			{Name: "yellow", BaseColor: "yellow", Lower: HSVBound{H: 23, S: 100, V: 100}, Upper: HSVBound{H: 35, S: 255, V: 255}},
			{Name: "green", BaseColor: "green", Lower: HSVBound{H: 40, S: 80, V: 80}, Upper: HSVBound{H: 80, S: 255, V: 255}},
			{Name: "cyan", BaseColor: "cyan", Lower: HSVBound{H: 85, S: 80, V: 80}, Upper: HSVBound{H: 100, S: 255, V: 255}},
			{Name: "blue", BaseColor: "blue", Lower: HSVBound{H: 101, S: 80, V: 80}, Upper: HSVBound{H: 130, S: 255, V: 255}},
			{Name: "magenta", BaseColor: "magenta", Lower: HSVBound{H: 135, S: 80, V: 80}, Upper: HSVBound{H: 169, S: 255, V: 255}},
		},
	}
}

// LoadConfig reads a YAML tuning file over the defaults, so a file only needs
// to name the fields it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// minSmoothingWindow is the smallest usable smoothing window: the local
// cubic fit needs more samples than its four coefficients.
const minSmoothingWindow = 5

func (c Config) validate() error {
	if c.CanvasSize < 16 {
		return fmt.Errorf("canvas_size %d too small", c.CanvasSize)
	}
	if c.BinWidth <= 0 {
		return fmt.Errorf("bin_width must be positive, got %g", c.BinWidth)
	}
	if c.MaxBinStdDev <= 0 {
		return fmt.Errorf("max_bin_stddev must be positive, got %g", c.MaxBinStdDev)
	}
	if c.SmoothingWindow < minSmoothingWindow {
		return fmt.Errorf("smoothing_window %d below minimum %d", c.SmoothingWindow, minSmoothingWindow)
	}
	for base, w := range c.WindowOverrides {
		if w < minSmoothingWindow {
			return fmt.Errorf("window override for %s: %d below minimum %d", base, w, minSmoothingWindow)
		}
	}
	if len(c.ColorSpecs) == 0 {
		return fmt.Errorf("no color specs configured")
	}
	for _, spec := range c.ColorSpecs {
		if spec.Name == "" || spec.BaseColor == "" {
			return fmt.Errorf("color spec %q needs both name and base", spec.Name)
		}
	}
	return nil
}

// minArea returns the minimum component area for a base color.
func (c Config) minArea(base string) int {
	if v, ok := c.MinAreaOverrides[base]; ok {
		return v
	}
	return c.MinComponentArea
}

// smoothingWindow returns the smoothing window length for a base color.
func (c Config) smoothingWindow(base string) int {
	if v, ok := c.WindowOverrides[base]; ok {
		return v
	}
	return c.SmoothingWindow
}

// baseColors returns the distinct base colors in first-appearance order, so
// processing order is deterministic.
func (c Config) baseColors() []string {
	seen := make(map[string]bool, len(c.ColorSpecs))
	var bases []string
	for _, spec := range c.ColorSpecs {
		if !seen[spec.BaseColor] {
			seen[spec.BaseColor] = true
			bases = append(bases, spec.BaseColor)
		}
	}
	return bases
}

// specsFor returns the specs belonging to one base color.
func (c Config) specsFor(base string) []ColorSpec {
	var specs []ColorSpec
	for _, spec := range c.ColorSpecs {
		if spec.BaseColor == base {
			specs = append(specs, spec)
		}
	}
	return specs
}

// SpecAround builds a ColorSpec centered on an RGB reference color with a
// symmetric HSV tolerance, clamped to the OpenCV value ranges. Hue gets a
// quarter of the tolerance since its range is much narrower.
func SpecAround(name, base string, r, g, b float64, tolerance float64) ColorSpec {
	h, s, v := colorutil.RGBToHSV(r, g, b)

	hTol := tolerance / 4
	clamp := func(val, lo, hi float64) float64 {
		if val < lo {
			return lo
		}
		if val > hi {
			return hi
		}
		return val
	}

	return ColorSpec{
		Name:      name,
		BaseColor: base,
		Lower: HSVBound{
			H: clamp(h-hTol, 0, 180),
			S: clamp(s-tolerance, 0, 255),
			V: clamp(v-tolerance, 0, 255),
		},
		Upper: HSVBound{
			H: clamp(h+hTol, 0, 180),
			S: clamp(s+tolerance, 0, 255),
			V: clamp(v+tolerance, 0, 255),
		},
	}
}
