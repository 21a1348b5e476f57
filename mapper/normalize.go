package mapper

import (
	"encoding"
	"fmt"
	"reflect"
	"slices"

	"config-mapper/lineage"
	"config-mapper/options"
	"config-mapper/primitive"
	"config-mapper/shape"
	"config-mapper/traversal"
	"config-mapper/tree"
)

var (
	nodeType            = reflect.TypeFor[tree.Node]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

func (c *call) normalize(declared reflect.Type, v reflect.Value) (tree.Node, error) {
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}

		return c.normalize(declared, v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}

		if v.Type().Implements(nodeType) {
			return v.Interface().(tree.Node), nil
		}

		if !c.guard.Enter(v) {
			return nil, c.unsupported(v.Type(), "value refers to itself")
		}
		defer c.guard.Leave(v)

		return c.normalize(declared, v.Elem())
	default:
	}

	if v.Type().Implements(nodeType) {
		return v.Interface().(tree.Node), nil
	}

	if node, ok, err := c.simplify(declared, v); ok || err != nil {
		return node, err
	}

	switch shape.Dispatch(v.Type()) {
	case shape.Scalar:
		scalar, _ := primitive.Canonical(v)
		return tree.Scalar{Value: scalar}, nil
	case shape.Slice:
		if v.IsNil() {
			return nil, nil
		}

		if !c.guard.Enter(v) {
			return nil, c.unsupported(v.Type(), "value refers to itself")
		}
		defer c.guard.Leave(v)

		return c.normalizeSequence(v)
	case shape.Array:
		return c.normalizeSequence(v)
	case shape.Map:
		if v.IsNil() {
			return nil, nil
		}

		if !c.guard.Enter(v) {
			return nil, c.unsupported(v.Type(), "value refers to itself")
		}
		defer c.guard.Leave(v)

		return c.normalizeMap(v)
	case shape.Struct:
		if c.schemas.IsConfigurable(v.Type()) {
			return c.normalizeStruct(v)
		}

		return nil, c.unsupported(v.Type(), "struct is not configurable and has no adapter")
	default:
		return nil, c.unsupported(v.Type(), "no schema, adapter or scalar form")
	}
}

// simplify applies an adapter or the text marshaler; ok is false when
// neither applies.
func (c *call) simplify(declared reflect.Type, v reflect.Value) (tree.Node, bool, error) {
	a, found := c.adapters.Resolve(v.Type())
	if !found && declared != nil && lineage.Deref(declared) != v.Type() {
		a, found = c.adapters.Resolve(declared)
	}

	if found {
		node, err := a.Simplify(c.ctx, declared, v)
		return node, true, traversal.Enrich(c.ctx, err)
	}

	if !c.categories.Has(options.CategoryTextMarshaler) || c.schemas.IsConfigurable(v.Type()) {
		return nil, false, nil
	}

	var m encoding.TextMarshaler

	switch {
	case v.Type().Implements(textMarshalerType):
		m = v.Interface().(encoding.TextMarshaler)
	case reflect.PointerTo(v.Type()).Implements(textMarshalerType):
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		m = p.Interface().(encoding.TextMarshaler)
	default:
		return nil, false, nil
	}

	text, err := m.MarshalText()
	if err != nil {
		return nil, true, traversal.Enrich(c.ctx, err)
	}

	return tree.Scalar{Value: string(text)}, true, nil
}

func (c *call) normalizeSequence(v reflect.Value) (tree.Node, error) {
	elemType := v.Type().Elem()
	seq := &tree.Sequence{Items: make([]tree.Node, 0, v.Len())}

	for i := range v.Len() {
		item := v.Index(i)
		scope := &traversal.ElementScope{Index: i, Value: item}

		if err := c.ctx.EnterScope(scope); err != nil {
			return nil, err
		}

		node, err := c.normalize(elemType, item)
		if err != nil {
			return nil, traversal.Enrich(c.ctx, err)
		}

		scope.Node = node
		seq.Append(node)

		if err := c.ctx.ExitScope(); err != nil {
			return nil, err
		}
	}

	return seq, nil
}

// mapKey renders a scalar map key.
func mapKey(k reflect.Value) string {
	if scalar, ok := primitive.Canonical(k); ok {
		return fmt.Sprint(scalar)
	}

	return fmt.Sprint(k.Interface())
}

func (c *call) normalizeMap(v reflect.Value) (tree.Node, error) {
	elemType := v.Type().Elem()
	out := tree.NewMapping()

	keys := make(map[string]reflect.Value, v.Len())
	for _, k := range v.MapKeys() {
		keys[mapKey(k)] = k
	}

	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		item := v.MapIndex(keys[name])
		scope := &traversal.PropertyScope{Key: name, Value: item, Parent: out}

		if err := c.ctx.EnterScope(scope); err != nil {
			return nil, err
		}

		node, err := c.normalize(elemType, item)
		if err != nil {
			return nil, traversal.Enrich(c.ctx, err)
		}

		scope.Node = node
		out.Set(name, node)

		if err := c.ctx.ExitScope(); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (c *call) normalizeStruct(v reflect.Value) (tree.Node, error) {
	ts, err := c.schemas.Discover(v.Type())
	if err != nil {
		return nil, traversal.Enrich(c.ctx, err)
	}

	var def reflect.Value
	if c.cfg.OmitDefaults {
		if def, err = c.defaultOf(v.Type()); err != nil {
			return nil, traversal.Enrich(c.ctx, err)
		}
	}

	out := tree.NewMapping()
	handled := make(map[string]struct{}, len(ts.Properties))

	for _, p := range ts.Properties {
		if _, dup := handled[p.Key]; dup || p.Virtual {
			continue
		}
		handled[p.Key] = struct{}{}

		field := c.accessor.Get(v, p)
		scope := &traversal.PropertyScope{Property: p, Key: p.Key, Value: field, Parent: out}

		if err := c.ctx.EnterScope(scope); err != nil {
			return nil, err
		}

		node, err := c.normalize(p.Type, field)
		if err != nil {
			return nil, traversal.Enrich(c.ctx, err)
		}

		scope.Node = node

		omit := c.cfg.OmitEmpty && tree.IsEmpty(node)
		if !omit && def.IsValid() {
			omit = reflect.DeepEqual(field.Interface(), c.accessor.Get(def, p).Interface())
		}

		if !omit {
			out.Set(p.Key, node)
		}

		if err := c.ctx.ExitScope(); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// defaultOf returns the constructor default of t, built once per call.
func (c *call) defaultOf(t reflect.Type) (reflect.Value, error) {
	if def, ok := c.defaults[t]; ok {
		return def, nil
	}

	def, err := c.construct(t)
	if err != nil {
		return reflect.Value{}, err
	}

	if c.defaults == nil {
		c.defaults = make(map[reflect.Type]reflect.Value)
	}
	c.defaults[t] = def

	return def, nil
}
