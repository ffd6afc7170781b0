// internal/track/track.go

// Package track reads genomic signal tracks. A track file is a SQLite
// database holding one table of half-open intervals with a numeric value:
//
//	CREATE TABLE signal (chrom TEXT, start INTEGER, "end" INTEGER, value REAL);
//	CREATE INDEX signal_pos ON signal (chrom, start, "end");
//
// Files are opened read-only and may be queried concurrently.
package track

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Aggregations accepted by Query.
const (
	AggMean = "mean"
	AggMax  = "max"
	AggSum  = "sum"
)

// Stem strips every extension from a track file name; query result keys
// are scoped by this stem. "H2AZ.track" and "H2AZ.liver.db" both stem to
// their name up to the first dot.
func Stem(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// Query aggregates signal over [start0-ext, end0+ext) for every track
// path and extension. Result keys are "<stem>_<ext>". A chromosome with
// no rows contributes no key; an unreadable file fails the whole call.
func Query(paths []string, chrom string, start0, end0 int, extensions []int, agg string) (map[string]float64, error) {
	if start0 > end0 {
		return nil, errors.Errorf("track: inverted interval %d-%d", start0, end0)
	}
	expr, err := aggExpr(agg)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(paths)*len(extensions))
	for _, p := range paths {
		db, err := open(p)
		if err != nil {
			return nil, err
		}
		for _, ext := range extensions {
			lo, hi := start0-ext, end0+ext
			if lo < 0 {
				lo = 0
			}
			v, ok, err := queryOne(db, expr, chrom, lo, hi)
			if err != nil {
				_ = db.Close()
				return nil, errors.Wrapf(err, "track: query %s", p)
			}
			if ok {
				out[fmt.Sprintf("%s_%d", Stem(p), ext)] = v
			}
		}
		_ = db.Close()
	}
	return out, nil
}

func aggExpr(agg string) (string, error) {
	switch agg {
	case AggMean, "":
		return "AVG(value)", nil
	case AggMax:
		return "MAX(value)", nil
	case AggSum:
		return "SUM(value)", nil
	}
	return "", errors.Errorf("track: unknown aggregation %q", agg)
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "track: open %s", path)
	}
	return db, nil
}

// queryOne returns the aggregate over intervals overlapping [lo, hi) on
// chrom; ok is false when no interval overlaps.
func queryOne(db *sql.DB, expr, chrom string, lo, hi int) (float64, bool, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM signal WHERE chrom = ? AND start < ? AND "end" > ?`, expr)
	var v sql.NullFloat64
	if err := db.QueryRow(q, chrom, hi, lo).Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	if !v.Valid {
		return 0, false, nil
	}
	return v.Float64, true, nil
}
