// Package adapter resolves type adapters: pairs of functions turning a
// complex Go value into a tree node and back.
//
// Adapters are registered against a declared type, which may be a struct,
// a named scalar or an interface. Lookup for a concrete type walks its
// lineage breadth first (see package lineage) and returns the first
// registration found, so a registration on the queried type itself always
// wins over inherited ones.
package adapter
