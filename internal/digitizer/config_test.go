package digitizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1000, cfg.CanvasSize)
	assert.Equal(t, 0.01, cfg.BinWidth)
	assert.Equal(t, 0.3, cfg.MaxBinStdDev)
	assert.Equal(t, 1400, cfg.MinComponentArea)

	assert.Equal(t, 1400, cfg.minArea("green"))
	assert.Equal(t, 20, cfg.smoothingWindow("red"))
	assert.Equal(t, 17, cfg.smoothingWindow("blue"))
	assert.Equal(t, 11, cfg.smoothingWindow("green"))

	require.NoError(t, cfg.validate())
}

func TestBaseColorsDeduplicatedInOrder(t *testing.T) {
	cfg := DefaultConfig()
	bases := cfg.baseColors()

	assert.Equal(t, "red", bases[0], "red appears first despite two specs")
	seen := make(map[string]int)
	for _, b := range bases {
		seen[b]++
	}
	for b, n := range seen {
		assert.Equal(t, 1, n, "base %s duplicated", b)
	}
	assert.Len(t, cfg.specsFor("red"), 2)
	assert.Len(t, cfg.specsFor("green"), 1)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	doc := `
bin_width: 0.02
min_component_area: 900
min_area_overrides:
  green: 2000
window_overrides:
  red: 25
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.02, cfg.BinWidth)
	assert.Equal(t, 900, cfg.MinComponentArea)
	assert.Equal(t, 2000, cfg.minArea("green"))
	assert.Equal(t, 900, cfg.minArea("blue"))
	assert.Equal(t, 25, cfg.smoothingWindow("red"))
	// Untouched fields keep their defaults.
	assert.Equal(t, 1000, cfg.CanvasSize)
	assert.NotEmpty(t, cfg.ColorSpecs)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bin_width: -1\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsShortSmoothingWindows(t *testing.T) {
	// Windows shorter than the cubic fit's coefficient count would crash the
	// aggregation stage, so the config loader must refuse them up front.
	cases := []struct {
		name string
		doc  string
	}{
		{"zero default window", "smoothing_window: 0\n"},
		{"negative default window", "smoothing_window: -1\n"},
		{"short override", "window_overrides:\n  red: 3\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.doc), 0o644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSpecAround(t *testing.T) {
	spec := SpecAround("teal", "cyan", 0, 200, 200, 40)

	assert.Equal(t, "teal", spec.Name)
	assert.Equal(t, "cyan", spec.BaseColor)
	assert.LessOrEqual(t, spec.Lower.H, spec.Upper.H)
	assert.GreaterOrEqual(t, spec.Lower.S, 0.0)
	assert.LessOrEqual(t, spec.Upper.S, 255.0)
	assert.LessOrEqual(t, spec.Upper.V, 255.0)

	// Hue of pure teal is 90 in OpenCV range; the window straddles it.
	assert.InDelta(t, 90, (spec.Lower.H+spec.Upper.H)/2, 1.0)
}
