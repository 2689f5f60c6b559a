package digitizer

import (
	"image"
	"image/color"

	"graph-digitizer/pkg/colorutil"
)

// newCanvasImage returns a white RGBA image of the given size.
func newCanvasImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, colorutil.White)
		}
	}
	return img
}

// drawRectOutline draws an axis-aligned rectangle outline of the given stroke
// thickness, like the plot boundary of a scanned graph.
func drawRectOutline(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.RGBA) {
	for t := 0; t < thickness; t++ {
		for x := x0 - t; x <= x1+t; x++ {
			img.Set(x, y0-t, c)
			img.Set(x, y1+t, c)
		}
		for y := y0 - t; y <= y1+t; y++ {
			img.Set(x0-t, y, c)
			img.Set(x1+t, y, c)
		}
	}
}

// fillPolygon fills a simple polygon using an even-odd parity test per pixel.
func fillPolygon(img *image.RGBA, poly []image.Point, c color.RGBA) {
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, p := range poly[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInPolygon(float64(x)+0.5, float64(y)+0.5, poly) {
				img.Set(x, y, c)
			}
		}
	}
}

func pointInPolygon(x, y float64, poly []image.Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := float64(poly[i].X), float64(poly[i].Y)
		xj, yj := float64(poly[j].X), float64(poly[j].Y)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// drawCurveColumns renders y = f(x) one pixel column at a time with the given
// half-thickness, the way a plotted curve stroke looks after rectification.
// f maps a pixel column to a pixel row.
func drawCurveColumns(img *image.RGBA, x0, x1 int, f func(px int) int, halfThickness int, c color.RGBA) {
	for px := x0; px < x1; px++ {
		py := f(px)
		for dy := -halfThickness; dy <= halfThickness; dy++ {
			img.Set(px, py+dy, c)
		}
	}
}
