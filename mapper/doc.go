// Package mapper converts configurable Go values to and from tree nodes.
//
// An Engine owns the schema cache, the adapter registry and the validation
// registry. It is built once and may then be used by many goroutines:
//
//	eng, err := mapper.New(mapper.DefaultConfig(),
//		mapper.WithConstructor(NewServer),
//		mapper.WithInjector(traversal.DescriptionInjector{}),
//	)
//	node, err := eng.Normalize(server)
//	back, err := mapper.Denormalize[Server](eng, node)
//
// Normalization walks the value depth first. Adapters win over everything
// else; scalars are canonicalized; slices, arrays and maps recurse per
// element; configurable structs become mappings keyed by property.
//
// Denormalization builds a fresh value of the target type through its
// registered constructor, assigns every property found in the mapping,
// runs the property validator, and finally calls the post-construct hooks
// of the type.
package mapper
