// Package report implements normalization and merging of the raw
// settlement reports into the unified record stream.
package report

import "strings"

// FindColumn returns the first column whose lowercase form matches the
// lowercase form of any alias. Match order follows the column order of
// the input table, not the alias order. The second return value is
// false when no column matches; callers treat that as a fatal
// input-shape error for required fields.
func FindColumn(columns []string, aliases ...string) (string, bool) {
	lowered := make([]string, len(aliases))
	for i, alias := range aliases {
		lowered[i] = strings.ToLower(alias)
	}

	for _, col := range columns {
		colLower := strings.ToLower(col)
		for _, alias := range lowered {
			if colLower == alias {
				return col, true
			}
		}
	}

	return "", false
}
