// Package match provides identifier normalization and Levenshtein distance
// used to suggest the intended name when a key or identifier is unknown.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest known name for "did you mean" messages
package match
