package mapper

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"config-mapper/adapter"
	"config-mapper/diagnostic"
	"config-mapper/internal/common"
	"config-mapper/internal/logging"
	"config-mapper/internal/metrics"
	"config-mapper/lineage"
	"config-mapper/naming"
	"config-mapper/options"
	"config-mapper/schema"
	"config-mapper/shape"
	"config-mapper/traversal"
	"config-mapper/tree"
	"config-mapper/validation"
)

// Engine is a configured mapper. It is safe for concurrent use once built.
type Engine struct {
	cfg        Config
	strategy   naming.Strategy
	categories options.CategoryEnum

	validators *validation.Registry
	schemas    *schema.Discoverer
	adapters   *adapter.Registry
	hierarchy  *lineage.Hierarchy
	accessor   schema.Accessor
	injectors  []traversal.Injector

	ctors map[reflect.Type]func() reflect.Value
	hooks map[reflect.Type][]PostConstructFunc

	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *metrics.Metrics

	bindings     []binding
	factories    []namedFactory
	configurable []reflect.Type
	optErrs      []error
}

// New builds an engine from cfg and opts.
func New(cfg Config, opts ...Option) (*Engine, error) {
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	categories, err := cfg.Categories()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	e := &Engine{
		cfg:        cfg,
		strategy:   strategy,
		categories: categories,
		accessor:   schema.ReflectAccessor{},
		ctors:      make(map[reflect.Type]func() reflect.Value),
		hooks:      make(map[reflect.Type][]PostConstructFunc),
		logger:     logging.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if len(e.optErrs) > 0 {
		return nil, errors.Join(e.optErrs...)
	}

	if e.metrics, err = metrics.New(e.registerer); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	e.validators = validation.NewRegistry()
	for _, nf := range e.factories {
		if err := e.validators.Register(nf.name, nf.factory); err != nil {
			return nil, err
		}
	}

	if e.hierarchy == nil {
		e.hierarchy = lineage.New()
	}
	e.hierarchy.Ignore(schema.MarkerType())

	e.adapters = adapter.NewRegistry(e.hierarchy, e.observeLookup)
	adapter.RegisterBuiltins(e.adapters, categories)

	for _, b := range e.bindings {
		e.adapters.Register(b.typ, b.adapter)
	}

	e.schemas = schema.NewDiscoverer(schema.Options{
		Validators:   e.validators,
		Naming:       strategy,
		Configurable: e.configurable,
		OnBuild: func(ts *schema.TypeSchema) {
			e.logger.Debug("schema built", "type", ts.String(), "properties", ts.Len())
		},
	})

	return e, nil
}

func (e *Engine) observeLookup(t reflect.Type, res adapter.Resolution, cached bool) {
	e.metrics.AdapterLookup(res.Found(), cached)

	if cached {
		return
	}

	if res.Found() {
		e.logger.Debug("adapter resolved", "type", common.TypeName(t), "source", common.TypeName(res.Source))
	} else {
		e.logger.Debug("no adapter", "type", common.TypeName(t))
	}
}

// Config returns the settings the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Validators returns the validation registry used by schema discovery.
func (e *Engine) Validators() *validation.Registry {
	return e.validators
}

// ResolveAdapter returns the adapter applying to t.
func (e *Engine) ResolveAdapter(t reflect.Type) (adapter.Adapter, bool) {
	if t == nil {
		return nil, false
	}

	return e.adapters.Resolve(t)
}

// ResolveSchema returns the cached schema of t.
func (e *Engine) ResolveSchema(t reflect.Type) (*schema.TypeSchema, error) {
	if t == nil {
		return nil, errors.New("resolve schema: nil type")
	}

	return e.schemas.Discover(t)
}

// Normalize converts value into a tree.
func (e *Engine) Normalize(value any) (tree.Node, error) {
	c := e.newCall(traversal.ModeNormalize)

	v := reflect.ValueOf(value)

	var declared reflect.Type
	if v.IsValid() {
		declared = v.Type()
	}

	node, err := c.normalize(declared, v)
	err = traversal.Enrich(c.ctx, err)
	e.metrics.Conversion(metrics.DirectionNormalize, err)

	if err != nil {
		return nil, err
	}

	return node, nil
}

// Denormalize builds a value of type target from node.
func (e *Engine) Denormalize(node tree.Node, target reflect.Type) (any, error) {
	out, _, err := e.DenormalizeReport(node, target)
	return out, err
}

// DenormalizeReport is Denormalize that also returns the non-fatal findings.
func (e *Engine) DenormalizeReport(node tree.Node, target reflect.Type) (any, diagnostic.Diagnostics, error) {
	v, diags, err := e.denormalizeRoot(node, target)
	if !diags.IsValid() {
		return nil, diags, err
	}

	return v.Interface(), diags, nil
}

// DenormalizeInto stores the result in the value ptr points to.
func (e *Engine) DenormalizeInto(node tree.Node, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("denormalize into %T: need a non-nil pointer", ptr)
	}

	v, _, err := e.denormalizeRoot(node, rv.Type().Elem())
	if err != nil {
		return err
	}

	rv.Elem().Set(v)

	return nil
}

// Denormalize is the typed form of Engine.Denormalize.
func Denormalize[T any](e *Engine, node tree.Node) (T, error) {
	var out T

	err := e.DenormalizeInto(node, &out)

	return out, err
}

func (e *Engine) denormalizeRoot(node tree.Node, target reflect.Type) (reflect.Value, diagnostic.Diagnostics, error) {
	if target == nil {
		var diags diagnostic.Diagnostics

		err := errors.New("denormalize: nil target type")
		diags.AddError(diagnostic.CodeConversionFailed, err.Error(), "", "")

		return reflect.Value{}, diags, err
	}

	c := e.newCall(traversal.ModeDenormalize)

	v, err := c.denormalize(node, target)
	err = traversal.Enrich(c.ctx, err)
	e.metrics.Conversion(metrics.DirectionDenormalize, err)

	if err != nil {
		var path string

		var located traversal.Located
		if errors.As(err, &located) {
			path = located.Location()
		}

		c.diags.AddError(diagnostic.CodeConversionFailed, err.Error(), common.TypeName(target), path)
	}

	return v, c.diags, err
}

// call is the state of one top-level conversion.
type call struct {
	*Engine

	ctx      *traversal.Context
	guard    shape.Guard
	diags    diagnostic.Diagnostics
	defaults map[reflect.Type]reflect.Value
}

func (e *Engine) newCall(mode traversal.Mode) *call {
	return &call{
		Engine: e,
		ctx:    traversal.New(mode, e.injectors...),
	}
}

// construct returns an addressable new value of t.
func (e *Engine) construct(t reflect.Type) (reflect.Value, error) {
	obj := reflect.New(t).Elem()

	if ctor, ok := e.ctors[t]; ok {
		v := ctor()
		if !v.IsValid() || !v.Type().AssignableTo(t) {
			return reflect.Value{}, fmt.Errorf("constructor for %s returned %v", common.TypeName(t), v)
		}

		obj.Set(v)
	}

	return obj, nil
}

func (c *call) invalid(value any, reason string, err error) *InvalidValueError {
	return &InvalidValueError{Path: c.ctx.Path(), Value: value, Reason: reason, Err: err}
}

func (c *call) unsupported(t reflect.Type, reason string) *UnsupportedSchemaError {
	return &UnsupportedSchemaError{Path: c.ctx.Path(), Type: t, Reason: reason}
}
