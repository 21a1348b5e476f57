// Package validation parses validation expressions into composable checks.
//
// An expression is a comma separated list of tuples, each either a bare
// identifier or identifier=argument:
//
//	not-null, range=1|65535
//	size=|64, not-blank
//
// Identifiers are looked up in a Registry. A parsed expression becomes an
// Aggregated validator which stops at the first failing check and reports
// its message. An empty expression yields Disabled.
package validation
