package tree

import (
	"iter"
	"reflect"
	"slices"

	"config-mapper/internal/common"
)

// Kind identifies a node type.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
	KindOpaque
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindOpaque:
		return "opaque"
	default:
		return common.UnknownStr
	}
}

// Node is one value of the tree. A nil Node is null.
type Node interface {
	Kind() Kind
}

// KindOf returns the kind of n, KindNull for nil.
func KindOf(n Node) Kind {
	if n == nil {
		return KindNull
	}

	return n.Kind()
}

// Scalar holds a string, bool, int64, uint64 or float64 (decoders may also
// produce plain int).
type Scalar struct {
	Value any
}

func (Scalar) Kind() Kind { return KindScalar }

// Opaque carries a value that format backends hand through as-is.
type Opaque struct {
	Value any
}

func (Opaque) Kind() Kind { return KindOpaque }

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
}

// NewSequence creates a sequence holding items.
func NewSequence(items ...Node) *Sequence {
	return &Sequence{Items: items}
}

func (*Sequence) Kind() Kind { return KindSequence }

// Append adds n at the end.
func (s *Sequence) Append(n Node) {
	s.Items = append(s.Items, n)
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.Items)
}

// Mapping maps unique string keys to nodes and remembers insertion order.
// Each key may carry a comment, which format backends that support comments
// emit next to the entry.
type Mapping struct {
	keys     []string
	values   map[string]Node
	comments map[string]string
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

func (*Mapping) Kind() Kind { return KindMapping }

// Set stores n under key. An existing key keeps its position.
func (m *Mapping) Set(key string, n Node) {
	if m.values == nil {
		m.values = make(map[string]Node)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = n
}

// Get returns the node stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	n, ok := m.values[key]
	return n, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key and its comment.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}

	delete(m.values, key)
	delete(m.comments, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// All iterates entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// SetComment attaches a comment to key. An empty text removes it.
func (m *Mapping) SetComment(key, text string) {
	if text == "" {
		delete(m.comments, key)
		return
	}

	if m.comments == nil {
		m.comments = make(map[string]string)
	}

	m.comments[key] = text
}

// Comment returns the comment attached to key.
func (m *Mapping) Comment(key string) string {
	return m.comments[key]
}

// IsEmpty reports null, empty sequences and empty mappings.
func IsEmpty(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Sequence:
		return v == nil || v.Len() == 0
	case *Mapping:
		return v == nil || v.Len() == 0
	default:
		return false
	}
}

// Equal compares two trees. Mapping entries must appear in the same order;
// comments are ignored.
func Equal(a, b Node) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch av := a.(type) {
	case nil:
		return true
	case Scalar:
		return av.Value == b.(Scalar).Value
	case Opaque:
		return reflect.DeepEqual(av.Value, b.(Opaque).Value)
	case *Sequence:
		bv := b.(*Sequence)
		if av.Len() != bv.Len() {
			return false
		}

		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}

		return true
	case *Mapping:
		bv := b.(*Mapping)
		if !slices.Equal(av.keys, bv.keys) {
			return false
		}

		for _, k := range av.keys {
			if !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// ToNative converts a tree into plain Go values: map[string]any, []any and scalars.
func ToNative(n Node) any {
	switch v := n.(type) {
	case Scalar:
		return v.Value
	case Opaque:
		return v.Value
	case *Sequence:
		out := make([]any, 0, v.Len())
		for _, item := range v.Items {
			out = append(out, ToNative(item))
		}
		return out
	case *Mapping:
		out := make(map[string]any, v.Len())
		for k, item := range v.All() {
			out[k] = ToNative(item)
		}
		return out
	default:
		return nil
	}
}
