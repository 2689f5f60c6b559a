package digitizer

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"graph-digitizer/pkg/geometry"
)

// maxWarpReprojection is the worst acceptable mean corner reprojection error,
// in pixels, for the estimated rectification transform.
const maxWarpReprojection = 2.0

// detectPlotQuad finds the plot boundary in a photographed or scanned graph.
// It takes the largest external contour and approximates it as a polygon; the
// boundary must resolve to exactly four vertices or the extraction aborts.
func detectPlotQuad(src gocv.Mat) ([]geometry.Point2D, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	// Blur to reduce noise
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, 50, 150)

	// Dilate to connect edge segments
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()
	gocv.Dilate(edges, &edges, kernel)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil, &GridDetectionError{}
	}

	largestIdx := 0
	var largestArea float64
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largestArea = area
			largestIdx = i
		}
	}

	largest := contours.At(largestIdx)
	epsilon := 0.02 * gocv.ArcLength(largest, true)
	approx := gocv.ApproxPolyDP(largest, epsilon, true)
	defer approx.Close()

	if approx.Size() != 4 {
		return nil, &GridDetectionError{Vertices: approx.Size()}
	}

	corners := make([]geometry.Point2D, 4)
	for i := 0; i < 4; i++ {
		pt := approx.At(i)
		corners[i] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return corners, nil
}

// orderCorners assigns the four boundary vertices to canvas corners:
// top-left minimizes x+y, bottom-right maximizes x+y, and the anti-diagonal
// pair is split on y-x (top-right minimizes it, bottom-left maximizes it,
// with image y growing downward). The assignment does not depend on the
// order the vertices arrive in.
func orderCorners(pts []geometry.Point2D) [4]geometry.Point2D {
	var ordered [4]geometry.Point2D
	if len(pts) != 4 {
		return ordered
	}

	tl, br, tr, bl := pts[0], pts[0], pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if p.X+p.Y > br.X+br.Y {
			br = p
		}
		if p.Y-p.X < tr.Y-tr.X {
			tr = p
		}
		if p.Y-p.X > bl.Y-bl.X {
			bl = p
		}
	}

	ordered[0] = tl
	ordered[1] = tr
	ordered[2] = br
	ordered[3] = bl
	return ordered
}

// canvasCorners returns the destination corners for a size x size canvas in
// TL, TR, BR, BL order.
func canvasCorners(size int) [4]geometry.Point2D {
	s := float64(size - 1)
	return [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: s, Y: 0},
		{X: s, Y: s},
		{X: 0, Y: s},
	}
}

// warpToCanvas resamples the quadrilateral plot area onto a square canvas via
// a projective transform.
func warpToCanvas(src gocv.Mat, corners [4]geometry.Point2D, size int) (gocv.Mat, error) {
	dst := canvasCorners(size)

	h, err := geometry.EstimateHomography(corners[:], dst[:])
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("plot rectification: %w", err)
	}
	if rpe := geometry.ReprojectionError(corners[:], dst[:], h); math.IsNaN(rpe) || rpe > maxWarpReprojection {
		return gocv.Mat{}, fmt.Errorf("plot rectification: corner reprojection error %.2f px", rpe)
	}

	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h.M[r][c])
		}
	}

	canvas := gocv.NewMat()
	gocv.WarpPerspective(src, &canvas, m, image.Point{X: size, Y: size})
	return canvas, nil
}

// normalize rectifies the graph image onto the canonical square canvas and
// reports the diagnostic grid estimate measured on that canvas.
func (e *Engine) normalize(src gocv.Mat) (gocv.Mat, int, error) {
	quad, err := detectPlotQuad(src)
	if err != nil {
		return gocv.Mat{}, 0, err
	}

	canvas, err := warpToCanvas(src, orderCorners(quad), e.cfg.CanvasSize)
	if err != nil {
		return gocv.Mat{}, 0, err
	}

	return canvas, estimateGridSize(canvas), nil
}
