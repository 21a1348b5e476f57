// Package tree defines the format-neutral intermediate form produced by
// normalization and consumed by denormalization.
//
// A tree is built from four node types:
//   - Scalar: a string, number or boolean
//   - *Sequence: an ordered list of nodes
//   - *Mapping: string keys to nodes, unique keys, insertion order preserved
//   - Opaque: a value already in its final form, passed through untouched
//
// A nil Node stands for null.
//
// Paths address nodes inside a tree with the same syntax the traversal context
// reports in errors: "servers[0].listen.port".
package tree
