// Package export serializes extraction results for external consumers:
// delimited text for tooling and rendered plots for eyeballing. The core
// engine never imports it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"graph-digitizer/internal/digitizer"
)

// WriteCSV writes every digitized series as base_color,label,x,y rows,
// base colors in lexical order so output is reproducible.
func WriteCSV(w io.Writer, res *digitizer.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"base_color", "label", "x", "y"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, base := range sortedBases(res) {
		s := res.Series[base]
		for _, p := range s.Points {
			row := []string{
				s.BaseColor,
				s.Label,
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func sortedBases(res *digitizer.Result) []string {
	bases := make([]string, 0, len(res.Series))
	for base := range res.Series {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}
