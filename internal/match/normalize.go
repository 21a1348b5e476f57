package match

import (
	"strings"

	"config-mapper/naming"
)

// NormalizeIdent normalizes an identifier for fuzzy matching.
// The normalization pipeline:
// 1. Tokenize CamelCase and separators.
// 2. Join and case-fold to lower.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(naming.Tokenize(s), ""))
}
