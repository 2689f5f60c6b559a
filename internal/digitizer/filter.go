package digitizer

import (
	"image"

	"gocv.io/x/gocv"
)

// connected-component stats column for pixel area (CC_STAT_AREA)
const ccStatArea = 4

// cleanMask removes speckle noise from a merged color mask: a small
// morphological opening kills isolated pixels, then connected components
// below the minimum area are dropped wholesale. An all-zero result means the
// graph simply does not contain that curve.
func cleanMask(mask gocv.Mat, minArea int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	opened := gocv.NewMat()
	gocv.MorphologyEx(mask, &opened, gocv.MorphOpen, kernel)

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(opened, &labels, &stats, &centroids)

	// Label 0 is the background.
	keep := make([]bool, n)
	for i := 1; i < n; i++ {
		if int(stats.GetIntAt(i, ccStatArea)) >= minArea {
			keep[i] = true
		}
	}

	rows, cols := opened.Rows(), opened.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			label := int(labels.GetIntAt(y, x))
			if label > 0 && !keep[label] {
				opened.SetUCharAt(y, x, 0)
			}
		}
	}

	return opened
}
