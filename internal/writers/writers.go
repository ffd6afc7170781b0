// internal/writers/writers.go

// Package writers renders pipeline results. Formats register themselves
// in an init block (format → handler); Write dispatches by name.
package writers

import (
	"io"

	"treecrispr/internal/pipeline"

	"github.com/pkg/errors"
)

// Candidate metadata columns, in output order. Score columns follow,
// named by model display name.
var baseColumns = []string{"ID", "Start", "End", "Strand", "Sequence", "ReverseComplement", "PAM"}

var registry = map[string]func(io.Writer, *pipeline.Result) error{}

// Register installs a writer for a format name (last registration wins).
func Register(format string, fn func(io.Writer, *pipeline.Result) error) {
	registry[format] = fn
}

// Formats lists the registered format names.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	return out
}

// Write renders res to w in the given format.
func Write(format string, w io.Writer, res *pipeline.Result) error {
	fn, ok := registry[format]
	if !ok {
		return errors.Errorf("writers: unknown output format %q", format)
	}
	return fn(w, res)
}

// Header returns the full column list for a result.
func Header(res *pipeline.Result) []string {
	return append(append([]string(nil), baseColumns...), res.ModelNames()...)
}
