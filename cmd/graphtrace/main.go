// Command graphtrace digitizes plotted curves from a graph image and writes
// the extracted series as CSV and optionally a rendered plot.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/tiff"

	"graph-digitizer/internal/digitizer"
	"graph-digitizer/internal/export"
)

func main() {
	imagePath := flag.String("image", "", "Path to graph image (TIFF, PNG, or JPEG)")
	xMin := flag.Float64("xmin", 0, "Logical x value at the left plot edge")
	xMax := flag.Float64("xmax", 10, "Logical x value at the right plot edge")
	yMin := flag.Float64("ymin", 0, "Logical y value at the bottom plot edge")
	yMax := flag.Float64("ymax", 100, "Logical y value at the top plot edge")
	scale := flag.String("scale", "linear", "Axis scale: linear or log")
	labelSpec := flag.String("labels", "", "Per-color labels, e.g. red=Vgs:2.0,blue=Vgs:2.5")
	configPath := flag.String("config", "", "Optional YAML tuning file")
	csvPath := flag.String("csv", "", "CSV output path (default stdout)")
	plotPath := flag.String("plot", "", "Optional rendered plot output path (.png/.svg)")
	rectified := flag.Bool("rectified", false, "Input is already a rectified canvas; skip boundary detection")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: graphtrace -image <path> -xmin 0 -xmax 10 -ymin 0 -ymax 100 [-csv out.csv] [-plot out.png]")
		os.Exit(1)
	}

	cfg := digitizer.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = digitizer.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	scaleType, err := digitizer.ParseScale(*scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid scale: %v (want linear or log)\n", err)
		os.Exit(1)
	}

	cal := digitizer.Calibration{
		XMin: *xMin, XMax: *xMax,
		YMin: *yMin, YMax: *yMax,
		Scale: scaleType,
	}

	engine := digitizer.New(cfg)

	var result *digitizer.Result
	if *rectified {
		result, err = engine.ExtractFromCanvas(context.Background(), img, cal, parseLabels(*labelSpec))
	} else {
		result, err = engine.Extract(context.Background(), img, cal, parseLabels(*labelSpec))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Grid estimate: %dx%d\n", result.GridEstimate, result.GridEstimate)
	for base, s := range result.Series {
		fmt.Printf("  %-8s %4d points", base, len(s.Points))
		if s.Label != "" {
			fmt.Printf("  label=%s", s.Label)
		}
		fmt.Println()
	}

	out := os.Stdout
	if *csvPath != "" {
		out, err = os.Create(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create CSV file: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}
	if err := export.WriteCSV(out, result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write CSV: %v\n", err)
		os.Exit(1)
	}

	if *plotPath != "" {
		if err := export.SavePlot(result, cfg, *imagePath, *plotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render plot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Plot written to %s\n", *plotPath)
	}
}

// parseLabels parses "red=Vgs:2.0,blue=Vgs:2.5" into a base->label map.
func parseLabels(spec string) map[string]string {
	labels := make(map[string]string)
	for _, part := range strings.Split(spec, ",") {
		base, text, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok {
			labels[base] = text
		}
	}
	return labels
}
