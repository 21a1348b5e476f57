package mapper

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"config-mapper/adapter"
	"config-mapper/lineage"
	"config-mapper/schema"
	"config-mapper/traversal"
	"config-mapper/tree"
	"config-mapper/validation"
)

// Option configures an Engine.
type Option func(*Engine)

type binding struct {
	typ     reflect.Type
	adapter adapter.Adapter
}

type namedFactory struct {
	name    string
	factory validation.Factory
}

// PostConstructFunc runs after every property of ptr's struct is set.
type PostConstructFunc func(ptr reflect.Value, ctx *traversal.Context, source *tree.Mapping) error

// PostConstructor is implemented by configurable types that finish their own
// construction. It runs before functions added with WithPostConstruct.
type PostConstructor interface {
	PostConstruct(ctx *traversal.Context, source *tree.Mapping) error
}

// WithAdapter registers a for values declared as t.
func WithAdapter(t reflect.Type, a adapter.Adapter) Option {
	return func(e *Engine) {
		e.bindings = append(e.bindings, binding{typ: t, adapter: a})
	}
}

// WithFuncs registers an adapter built from two caster functions.
func WithFuncs(simplify, complexify any) Option {
	return func(e *Engine) {
		a, err := adapter.Funcs(simplify, complexify)
		if err != nil {
			e.optErrs = append(e.optErrs, err)
			return
		}

		a.Categories = e.categories
		e.bindings = append(e.bindings, binding{typ: a.Type, adapter: a})
	}
}

// WithHierarchy sets the lineage view walked by adapter lookup.
func WithHierarchy(h *lineage.Hierarchy) Option {
	return func(e *Engine) {
		e.hierarchy = h
	}
}

// WithValidator adds a named check to the validation registry.
func WithValidator(name string, f validation.Factory) Option {
	return func(e *Engine) {
		e.factories = append(e.factories, namedFactory{name: name, factory: f})
	}
}

// WithInjector appends traversal injectors, run in the given order.
func WithInjector(injectors ...traversal.Injector) Option {
	return func(e *Engine) {
		e.injectors = append(e.injectors, injectors...)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegisterer enables metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// WithConfigurable marks struct types as configurable without the marker.
func WithConfigurable(types ...reflect.Type) Option {
	return func(e *Engine) {
		e.configurable = append(e.configurable, types...)
	}
}

// WithAccessor replaces the reflection based property accessor.
func WithAccessor(a schema.Accessor) Option {
	return func(e *Engine) {
		e.accessor = a
	}
}

// WithConstructor registers the zero-argument constructor of T. It builds
// every denormalized T and the default compared by omit_defaults.
func WithConstructor[T any](ctor func() T) Option {
	return func(e *Engine) {
		if ctor == nil {
			e.optErrs = append(e.optErrs, fmt.Errorf("constructor for %v is nil", reflect.TypeFor[T]()))
			return
		}

		e.ctors[reflect.TypeFor[T]()] = func() reflect.Value {
			return reflect.ValueOf(ctor())
		}
	}
}

// WithPostConstruct appends a hook run on every denormalized T.
func WithPostConstruct[T any](fn func(obj *T, ctx *traversal.Context, source *tree.Mapping) error) Option {
	return func(e *Engine) {
		t := reflect.TypeFor[T]()
		e.hooks[t] = append(e.hooks[t], func(ptr reflect.Value, ctx *traversal.Context, source *tree.Mapping) error {
			return fn(ptr.Interface().(*T), ctx, source)
		})
	}
}
