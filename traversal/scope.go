package traversal

import (
	"reflect"
	"strconv"

	"config-mapper/schema"
	"config-mapper/tree"
)

// Scope is one level of the traversal stack.
type Scope interface {
	// Segment renders the scope inside a path for the given key flavor.
	Segment(kind PathKind) string
	isScope()
}

// PropertyScope is entered for a struct property or a map entry.
type PropertyScope struct {
	// Property is nil for map entries.
	Property *schema.Property
	// Key is the effective key, or the stringified map key.
	Key string
	// Value is the Go value being read or built.
	Value reflect.Value
	// Node is the tree value being produced or consumed.
	Node tree.Node
	// Parent is the enclosing mapping.
	Parent *tree.Mapping
}

func (*PropertyScope) isScope() {}

// Segment returns the key used by kind.
func (s *PropertyScope) Segment(kind PathKind) string {
	if s.Property == nil {
		return s.Key
	}

	switch kind {
	case PathMember:
		return s.Property.Name
	case PathOverride:
		return s.Property.OverrideKey()
	default:
		return s.Key
	}
}

// ElementScope is entered for a sequence element.
type ElementScope struct {
	Index int
	Value reflect.Value
	Node  tree.Node
}

func (*ElementScope) isScope() {}

// Segment returns "[index]".
func (s *ElementScope) Segment(PathKind) string {
	return "[" + strconv.Itoa(s.Index) + "]"
}
