package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateHomographyMapsCorners(t *testing.T) {
	src := []Point2D{
		{X: 32, Y: 41},
		{X: 612, Y: 55},
		{X: 590, Y: 488},
		{X: 18, Y: 460},
	}
	dst := []Point2D{
		{X: 0, Y: 0},
		{X: 999, Y: 0},
		{X: 999, Y: 999},
		{X: 0, Y: 999},
	}

	h, err := EstimateHomography(src, dst)
	require.NoError(t, err)

	// Each source corner must land on its canvas corner within a pixel.
	for i := range src {
		got := h.Apply(src[i])
		require.InDelta(t, dst[i].X, got.X, 1.0, "corner %d x", i)
		require.InDelta(t, dst[i].Y, got.Y, 1.0, "corner %d y", i)
	}
}

func TestHomographyRoundTrip(t *testing.T) {
	src := []Point2D{
		{X: 10, Y: 10},
		{X: 200, Y: 20},
		{X: 210, Y: 180},
		{X: 5, Y: 190},
	}
	dst := []Point2D{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 100},
		{X: 0, Y: 100},
	}

	h, err := EstimateHomography(src, dst)
	require.NoError(t, err)

	inv, ok := h.Inverse()
	require.True(t, ok)

	probe := []Point2D{{X: 50, Y: 60}, {X: 120, Y: 90}, {X: 15, Y: 170}}
	for _, p := range probe {
		back := inv.Apply(h.Apply(p))
		if p.Distance(back) > 1e-6 {
			t.Errorf("round trip moved %v to %v", p, back)
		}
	}
}

func TestEstimateHomographyRejectsBadInput(t *testing.T) {
	pts := []Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	if _, err := EstimateHomography(pts, pts); err == nil {
		t.Error("expected error for fewer than 4 points")
	}
	if _, err := EstimateHomography(pts, pts[:2]); err == nil {
		t.Error("expected error for mismatched point counts")
	}
}

func TestReprojectionError(t *testing.T) {
	src := []Point2D{
		{X: 20, Y: 30},
		{X: 420, Y: 40},
		{X: 400, Y: 380},
		{X: 10, Y: 390},
	}
	dst := []Point2D{
		{X: 0, Y: 0},
		{X: 499, Y: 0},
		{X: 499, Y: 499},
		{X: 0, Y: 499},
	}

	h, err := EstimateHomography(src, dst)
	require.NoError(t, err)

	// An exact four-point fit reprojects its own corners almost perfectly.
	require.Less(t, ReprojectionError(src, dst, h), 1e-6)

	// Mismatched or empty correspondences are worst-case by definition.
	require.True(t, math.IsInf(ReprojectionError(src, dst[:2], h), 1))
	require.True(t, math.IsInf(ReprojectionError(nil, nil, h), 1))
}

func TestIdentityHomography(t *testing.T) {
	h := IdentityHomography()
	p := Point2D{X: 12.5, Y: -3}
	got := h.Apply(p)
	if math.Abs(got.X-p.X) > 1e-12 || math.Abs(got.Y-p.Y) > 1e-12 {
		t.Errorf("identity moved %v to %v", p, got)
	}
}
