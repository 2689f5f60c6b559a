package digitizer

import (
	"gocv.io/x/gocv"
)

// maskForSpec produces a binary mask of the canvas pixels whose HSV values
// fall inside the spec's inclusive range. Pure per-spec operation.
func maskForSpec(hsv gocv.Mat, spec ColorSpec) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(spec.Lower.H, spec.Lower.S, spec.Lower.V, 0),
		gocv.NewScalar(spec.Upper.H, spec.Upper.S, spec.Upper.V, 0),
		&mask)
	return mask
}

// mergedMask unions the masks of all specs sharing a base color. A pixel
// matching more than one spec appears in the result exactly once.
func mergedMask(hsv gocv.Mat, specs []ColorSpec) gocv.Mat {
	merged := maskForSpec(hsv, specs[0])
	for _, spec := range specs[1:] {
		m := maskForSpec(hsv, spec)
		gocv.BitwiseOr(merged, m, &merged)
		m.Close()
	}
	return merged
}
