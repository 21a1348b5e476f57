// Package lineage describes the supertype graph walked by adapter lookup.
//
// Go has no class inheritance, so the graph is partly derived and partly
// declared. A struct's super type defaults to its first embedded struct
// field; Extends overrides it. Interfaces are never inferred from method
// sets: a type only "implements" the interfaces declared with Implements,
// and an interface only extends those declared with ExtendsInterface.
package lineage

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"
)

// Root is the universal root type. Lookups never walk into it.
var Root = reflect.TypeFor[any]()

// Hierarchy is a lineage view. It is safe for concurrent reads; declarations
// are expected before the first lookup.
type Hierarchy struct {
	mu      sync.RWMutex
	supers  map[reflect.Type]reflect.Type
	ifaces  map[reflect.Type][]reflect.Type
	ignored map[reflect.Type]struct{}
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{
		supers:  make(map[reflect.Type]reflect.Type),
		ifaces:  make(map[reflect.Type][]reflect.Type),
		ignored: make(map[reflect.Type]struct{}),
	}
}

// TypeOf is a shorthand for reflect.TypeFor.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Extends declares parent as the super type of child.
func (h *Hierarchy) Extends(child, parent reflect.Type) error {
	child, parent = Deref(child), Deref(parent)
	if child.Kind() == reflect.Interface || parent.Kind() == reflect.Interface {
		return fmt.Errorf("extends %v -> %v: use ExtendsInterface for interfaces", child, parent)
	}

	if child == parent {
		return fmt.Errorf("extends %v: type cannot extend itself", child)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.supers[child] = parent

	return nil
}

// Implements declares interfaces directly implemented by t, in order.
func (h *Hierarchy) Implements(t reflect.Type, ifaces ...reflect.Type) error {
	t = Deref(t)
	if t.Kind() == reflect.Interface {
		return fmt.Errorf("implements %v: use ExtendsInterface for interfaces", t)
	}

	return h.declare(t, ifaces)
}

// ExtendsInterface declares the direct super interfaces of iface.
func (h *Hierarchy) ExtendsInterface(iface reflect.Type, supers ...reflect.Type) error {
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("extends interface %v: not an interface", iface)
	}

	return h.declare(iface, supers)
}

// Ignore excludes marker types from default super type derivation.
func (h *Hierarchy) Ignore(types ...reflect.Type) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, t := range types {
		h.ignored[Deref(t)] = struct{}{}
	}
}

func (h *Hierarchy) declare(t reflect.Type, ifaces []reflect.Type) error {
	for _, iface := range ifaces {
		if iface.Kind() != reflect.Interface {
			return fmt.Errorf("%v: %v is not an interface", t, iface)
		}

		if iface == t {
			return fmt.Errorf("%v: interface cannot extend itself", t)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, iface := range ifaces {
		if !slices.Contains(h.ifaces[t], iface) {
			h.ifaces[t] = append(h.ifaces[t], iface)
		}
	}

	return nil
}

// Super returns the super type of t: the declared one, else the first
// embedded struct field that is not ignored.
func (h *Hierarchy) Super(t reflect.Type) (reflect.Type, bool) {
	t = Deref(t)

	h.mu.RLock()
	defer h.mu.RUnlock()

	if parent, ok := h.supers[t]; ok {
		return parent, true
	}

	if t.Kind() != reflect.Struct {
		return nil, false
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous || f.Type.Kind() != reflect.Struct {
			continue
		}

		if _, skip := h.ignored[f.Type]; skip {
			continue
		}

		return f.Type, true
	}

	return nil, false
}

// Interfaces returns the interfaces declared directly on t.
func (h *Hierarchy) Interfaces(t reflect.Type) []reflect.Type {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.ifaces[Deref(t)])
}

// Walk yields t and its supertypes breadth first. At each node the super
// type is queued before the node's interfaces. Every type is yielded once
// and Root is never yielded unless it is t itself.
func (h *Hierarchy) Walk(t reflect.Type) iter.Seq[reflect.Type] {
	return func(yield func(reflect.Type) bool) {
		t = Deref(t)
		queue := []reflect.Type{t}
		seen := map[reflect.Type]struct{}{t: {}}

		enqueue := func(next reflect.Type) {
			if next == Root {
				return
			}

			if _, ok := seen[next]; ok {
				return
			}

			seen[next] = struct{}{}
			queue = append(queue, next)
		}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if !yield(current) {
				return
			}

			if parent, ok := h.Super(current); ok {
				enqueue(parent)
			}

			for _, iface := range h.Interfaces(current) {
				enqueue(iface)
			}
		}
	}
}

// Deref strips pointer indirections.
func Deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
