package mongo

import "strings"

// locationKey folds a free-text value for case-insensitive unique indexes.
func locationKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
