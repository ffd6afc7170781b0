// internal/writers/csv.go
package writers

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"treecrispr/internal/pipeline"
)

func init() {
	Register("csv", func(w io.Writer, res *pipeline.Result) error {
		return writeSeparated(w, res, ',')
	})
	Register("tsv", func(w io.Writer, res *pipeline.Result) error {
		return writeSeparated(w, res, '\t')
	})
}

// writeSeparated emits a header row plus one row per candidate. Failed
// scores (NaN) render as empty cells.
func writeSeparated(w io.Writer, res *pipeline.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if err := cw.Write(Header(res)); err != nil {
		return err
	}
	names := res.ModelNames()
	for i, c := range res.Candidates {
		row := []string{
			c.ID,
			strconv.Itoa(c.Start),
			strconv.Itoa(c.End),
			c.Strand,
			c.Sequence,
			c.ReverseComplement,
			c.PAM,
		}
		for _, name := range names {
			row = append(row, formatScore(res.Scores.Cell(i, name)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
