package export

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"graph-digitizer/internal/digitizer"
	"graph-digitizer/pkg/colorutil"
)

// SavePlot renders the digitized series to an image file (format chosen by
// extension, e.g. .png or .svg). The config supplies the HSV table used to
// pick a render color per base color.
func SavePlot(res *digitizer.Result, cfg digitizer.Config, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if res.Calibration.Scale == digitizer.ScaleLog {
		p.X.Scale = plot.LogScale{}
		p.Y.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for _, base := range sortedBases(res) {
		s := res.Series[base]

		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X = pt.X
			xys[i].Y = pt.Y
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plot series %s: %w", base, err)
		}
		line.Color = renderColor(base, cfg)
		p.Add(line)

		name := base
		if s.Label != "" {
			name = fmt.Sprintf("%s (%s)", s.Label, base)
		}
		p.Legend.Add(name, line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// basePalette maps the stock base colors to their overlay colors.
var basePalette = map[string]color.RGBA{
	"red":     colorutil.Red,
	"green":   colorutil.Green,
	"blue":    colorutil.Blue,
	"yellow":  colorutil.Yellow,
	"cyan":    colorutil.Cyan,
	"magenta": colorutil.Magenta,
	"orange":  colorutil.Orange,
}

// renderColor picks a line color for a base color: the overlay palette for
// the stock colors, otherwise a color derived from the midpoint hue of the
// base's first segmentation range.
func renderColor(base string, cfg digitizer.Config) color.Color {
	if c, ok := basePalette[base]; ok {
		return c
	}
	for _, spec := range cfg.ColorSpecs {
		if spec.BaseColor != base {
			continue
		}
		// OpenCV hue is 0-180; colorful wants degrees.
		mid := (spec.Lower.H + spec.Upper.H) // i.e. midpoint*2
		return colorful.Hsv(mid, 0.85, 0.8)
	}
	return colorutil.Black
}
