package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Homography represents a 3x3 projective transformation matrix.
// [h00 h01 h02]
// [h10 h11 h12]
// [h20 h21 h22]
// with h22 fixed to 1 when estimated from point correspondences.
type Homography struct {
	M [3][3]float64
}

// IdentityHomography returns the identity projective transform.
func IdentityHomography() Homography {
	return Homography{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply applies the projective transform to a point.
func (h Homography) Apply(p Point2D) Point2D {
	w := h.M[2][0]*p.X + h.M[2][1]*p.Y + h.M[2][2]
	if math.Abs(w) < 1e-12 {
		return Point2D{}
	}
	return Point2D{
		X: (h.M[0][0]*p.X + h.M[0][1]*p.Y + h.M[0][2]) / w,
		Y: (h.M[1][0]*p.X + h.M[1][1]*p.Y + h.M[1][2]) / w,
	}
}

// Inverse returns the inverse transform, if it exists.
func (h Homography) Inverse() (Homography, bool) {
	a := mat.NewDense(3, 3, []float64{
		h.M[0][0], h.M[0][1], h.M[0][2],
		h.M[1][0], h.M[1][1], h.M[1][2],
		h.M[2][0], h.M[2][1], h.M[2][2],
	})

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Homography{}, false
	}

	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out.M[r][c] = inv.At(r, c)
		}
	}
	return out, true
}

// EstimateHomography computes the projective transform mapping src points onto
// dst points using least squares. At least 4 correspondences are required; with
// exactly 4 non-degenerate pairs the solution is exact.
func EstimateHomography(src, dst []Point2D) (Homography, error) {
	if len(src) != len(dst) {
		return Homography{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	if len(src) < 4 {
		return Homography{}, fmt.Errorf("need at least 4 points, got %d", len(src))
	}

	n := len(src)

	// Each correspondence contributes two rows of the 8-unknown system:
	//   x' = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
	//   y' = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
	A := mat.NewDense(n*2, 8, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		B.SetVec(i*2+1, yp)
	}

	// Solve using QR decomposition
	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return Homography{}, fmt.Errorf("homography solve: %w", err)
	}

	return Homography{M: [3][3]float64{
		{params.AtVec(0), params.AtVec(1), params.AtVec(2)},
		{params.AtVec(3), params.AtVec(4), params.AtVec(5)},
		{params.AtVec(6), params.AtVec(7), 1},
	}}, nil
}

// ReprojectionError returns the mean distance between transformed src points
// and their expected dst positions.
func ReprojectionError(src, dst []Point2D, h Homography) float64 {
	if len(src) != len(dst) || len(src) == 0 {
		return math.Inf(1)
	}

	var total float64
	for i := range src {
		total += h.Apply(src[i]).Distance(dst[i])
	}
	return total / float64(len(src))
}
