// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"
	"math"

	"treecrispr/internal/pipeline"
)

func init() {
	Register("json", writeJSON)
}

// row mirrors the CSV layout as an object; failed scores marshal as null.
type row struct {
	ID                string              `json:"id"`
	Start             int                 `json:"start"`
	End               int                 `json:"end"`
	Strand            string              `json:"strand"`
	Sequence          string              `json:"sequence"`
	ReverseComplement string              `json:"reverse_complement"`
	PAM               string              `json:"pam"`
	Scores            map[string]*float64 `json:"scores"`
}

func writeJSON(w io.Writer, res *pipeline.Result) error {
	names := res.ModelNames()
	rows := make([]row, 0, len(res.Candidates))
	for i, c := range res.Candidates {
		r := row{
			ID:                c.ID,
			Start:             c.Start,
			End:               c.End,
			Strand:            c.Strand,
			Sequence:          c.Sequence,
			ReverseComplement: c.ReverseComplement,
			PAM:               c.PAM,
			Scores:            make(map[string]*float64, len(names)),
		}
		for _, name := range names {
			v := res.Scores.Cell(i, name)
			if math.IsNaN(v) {
				r.Scores[name] = nil
			} else {
				v := v
				r.Scores[name] = &v
			}
		}
		rows = append(rows, r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
