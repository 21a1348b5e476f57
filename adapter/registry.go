package adapter

import (
	"reflect"
	"sync"

	"config-mapper/lineage"
	"config-mapper/traversal"
	"config-mapper/tree"
)

// Adapter converts one complex type to and from the tree form.
type Adapter interface {
	// Simplify turns value, declared as declared, into a node.
	Simplify(ctx *traversal.Context, declared reflect.Type, value reflect.Value) (tree.Node, error)
	// Complexify builds a value of type target from node.
	Complexify(ctx *traversal.Context, node tree.Node, target reflect.Type) (reflect.Value, error)
}

// Resolution is the cached outcome of a lookup.
type Resolution struct {
	Adapter Adapter
	// Source is the registered type that supplied Adapter.
	Source reflect.Type
}

// Found reports whether an adapter was resolved.
func (r Resolution) Found() bool {
	return r.Adapter != nil
}

// Observer is told about every lookup; cached is true for cache hits.
type Observer func(queried reflect.Type, res Resolution, cached bool)

// Registry maps declared types to adapters and memoizes lookups per
// queried type. Lookups may run concurrently with Register.
type Registry struct {
	hierarchy *lineage.Hierarchy
	observer  Observer

	mu     sync.RWMutex
	direct map[reflect.Type]Adapter

	cache sync.Map // reflect.Type -> Resolution
}

// NewRegistry creates a registry walking h; nil h uses an empty hierarchy.
func NewRegistry(h *lineage.Hierarchy, observer Observer) *Registry {
	if h == nil {
		h = lineage.New()
	}

	return &Registry{
		hierarchy: h,
		observer:  observer,
		direct:    make(map[reflect.Type]Adapter),
	}
}

// Register binds a to t, replacing any previous binding, and drops
// memoized lookups.
func (r *Registry) Register(t reflect.Type, a Adapter) {
	t = lineage.Deref(t)

	r.mu.Lock()
	defer r.mu.Unlock()

	if a == nil {
		delete(r.direct, t)
	} else {
		r.direct[t] = a
	}

	r.cache.Clear()
}

// Registered reports whether t has a direct registration.
func (r *Registry) Registered(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.direct[lineage.Deref(t)]

	return ok
}

// Resolve returns the adapter for t, or false when none applies.
func (r *Registry) Resolve(t reflect.Type) (Adapter, bool) {
	res := r.Lookup(t)
	return res.Adapter, res.Found()
}

// Lookup returns the full resolution for t.
func (r *Registry) Lookup(t reflect.Type) Resolution {
	if t == nil {
		return Resolution{}
	}

	t = lineage.Deref(t)

	if cached, ok := r.cache.Load(t); ok {
		res := cached.(Resolution)
		r.notify(t, res, true)

		return res
	}

	res := r.resolve(t)
	r.notify(t, res, false)

	return res
}

// resolve searches and memoizes under the read lock, so a Register cannot
// clear the cache between the search and the store.
func (r *Registry) resolve(t reflect.Type) Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actual, _ := r.cache.LoadOrStore(t, r.search(t))

	return actual.(Resolution)
}

// search must be called with mu held.
func (r *Registry) search(t reflect.Type) Resolution {
	if a, ok := r.direct[t]; ok {
		return Resolution{Adapter: a, Source: t}
	}

	for node := range r.hierarchy.Walk(t) {
		if a, ok := r.direct[node]; ok {
			return Resolution{Adapter: a, Source: node}
		}
	}

	return Resolution{}
}

func (r *Registry) notify(t reflect.Type, res Resolution, cached bool) {
	if r.observer != nil {
		r.observer(t, res, cached)
	}
}
