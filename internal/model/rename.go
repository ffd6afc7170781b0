// internal/model/rename.go
package model

import (
	"strconv"
	"strings"
)

// FlatNames converts the zero-indexed positional feature convention into
// the one-indexed flat convention some artifacts were trained against:
// pos0_A → A1, di11_GG → GG12. Names outside either pattern pass through
// unchanged.
func FlatNames(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = flatName(c)
	}
	return out
}

func flatName(col string) string {
	for _, prefix := range []string{"pos", "di"} {
		rest, ok := strings.CutPrefix(col, prefix)
		if !ok {
			continue
		}
		idx, part, found := strings.Cut(rest, "_")
		if !found || part == "" {
			continue
		}
		k, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		return part + strconv.Itoa(k+1)
	}
	return col
}
