package mapper

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"config-mapper/diagnostic"
	"config-mapper/internal/common"
	"config-mapper/internal/match"
	"config-mapper/options"
	"config-mapper/primitive"
	"config-mapper/schema"
	"config-mapper/shape"
	"config-mapper/traversal"
	"config-mapper/tree"
	"config-mapper/validation"
)

// denormalize returns a value of exactly type target.
func (c *call) denormalize(node tree.Node, target reflect.Type) (reflect.Value, error) {
	if target == nodeType {
		out := reflect.New(nodeType).Elem()
		if node != nil {
			out.Set(reflect.ValueOf(node))
		}

		return out, nil
	}

	if target.Kind() == reflect.Pointer {
		if node == nil {
			return reflect.Zero(target), nil
		}

		depth, base := shape.PtrDepthAndBase(target)

		out, err := c.denormalize(node, base)
		if err != nil {
			return reflect.Value{}, err
		}

		levels := make([]reflect.Type, depth)
		for i, t := 0, target; i < depth; i, t = i+1, t.Elem() {
			levels[i] = t
		}

		for i := depth - 1; i >= 0; i-- {
			ptr := reflect.New(levels[i].Elem())
			ptr.Elem().Set(out)
			out = ptr.Convert(levels[i])
		}

		return out, nil
	}

	if node == nil {
		return reflect.Zero(target), nil
	}

	if op, ok := node.(tree.Opaque); ok && op.Value != nil && reflect.TypeOf(op.Value).AssignableTo(target) {
		out := reflect.New(target).Elem()
		out.Set(reflect.ValueOf(op.Value))

		return out, nil
	}

	if out, ok, err := c.complexify(node, target); ok || err != nil {
		return out, err
	}

	switch shape.Dispatch(target) {
	case shape.Interface:
		if target.NumMethod() > 0 {
			return reflect.Value{}, c.unsupported(target, "interface has no adapter")
		}

		out := reflect.New(target).Elem()
		if native := tree.ToNative(node); native != nil {
			out.Set(reflect.ValueOf(native))
		}

		return out, nil
	case shape.Scalar:
		return c.denormalizeScalar(node, target)
	case shape.Slice:
		seq, ok := node.(*tree.Sequence)
		if !ok {
			return reflect.Value{}, c.invalid(tree.ToNative(node), "expected a sequence, got "+tree.KindOf(node).String(), nil)
		}

		out := reflect.MakeSlice(target, seq.Len(), seq.Len())

		return out, c.fillSequence(seq, out, seq.Len())
	case shape.Array:
		return c.denormalizeArray(node, target)
	case shape.Map:
		return c.denormalizeMap(node, target)
	case shape.Struct:
		if c.schemas.IsConfigurable(target) {
			return c.denormalizeStruct(node, target)
		}

		return reflect.Value{}, c.unsupported(target, "struct is not configurable and has no adapter")
	default:
		return reflect.Value{}, c.unsupported(target, "no schema, adapter or scalar form")
	}
}

// complexify applies an adapter or the text unmarshaler; ok is false when
// neither applies.
func (c *call) complexify(node tree.Node, target reflect.Type) (reflect.Value, bool, error) {
	if a, found := c.adapters.Resolve(target); found {
		out, err := a.Complexify(c.ctx, node, target)
		if err != nil {
			return reflect.Value{}, true, c.adapterError(node, err)
		}

		switch {
		case !out.IsValid():
			return reflect.Zero(target), true, nil
		case out.Type().AssignableTo(target):
			res := reflect.New(target).Elem()
			res.Set(out)
			return res, true, nil
		case out.Type().ConvertibleTo(target):
			return out.Convert(target), true, nil
		default:
			return reflect.Value{}, true, c.invalid(out.Interface(),
				fmt.Sprintf("adapter produced %s, want %s", common.TypeName(out.Type()), common.TypeName(target)), nil)
		}
	}

	if !c.categories.Has(options.CategoryTextMarshaler) || target.Kind() == reflect.Interface ||
		!reflect.PointerTo(target).Implements(textUnmarshalerType) || c.schemas.IsConfigurable(target) {
		return reflect.Value{}, false, nil
	}

	scalar, ok := node.(tree.Scalar)
	if !ok {
		return reflect.Value{}, true, c.invalid(tree.ToNative(node), "expected a text scalar, got "+tree.KindOf(node).String(), nil)
	}

	text, err := primitive.Convert(scalar.Value, reflect.TypeFor[string](), c.categories)
	if err != nil {
		return reflect.Value{}, true, c.invalid(scalar.Value, err.Error(), err)
	}

	ptr := reflect.New(target)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text.String())); err != nil {
		return reflect.Value{}, true, c.invalid(scalar.Value, err.Error(), err)
	}

	return ptr.Elem(), true, nil
}

// adapterError reports a failed complexify as an invalid value unless the
// adapter already located it.
func (c *call) adapterError(node tree.Node, err error) error {
	var loc traversal.Located
	if errors.As(err, &loc) {
		return err
	}

	reason := err.Error()

	var ce *primitive.ConversionError
	if errors.As(err, &ce) {
		reason = ce.Reason
	}

	return c.invalid(tree.ToNative(node), reason, err)
}

func (c *call) denormalizeScalar(node tree.Node, target reflect.Type) (reflect.Value, error) {
	var raw any

	switch n := node.(type) {
	case tree.Scalar:
		raw = n.Value
	case tree.Opaque:
		raw = n.Value
	default:
		return reflect.Value{}, c.invalid(tree.ToNative(node), "expected a scalar, got "+tree.KindOf(node).String(), nil)
	}

	out, err := primitive.Convert(raw, target, c.categories)
	if err != nil {
		reason := err.Error()

		var ce *primitive.ConversionError
		if errors.As(err, &ce) {
			reason = ce.Reason
		}

		return reflect.Value{}, c.invalid(raw, reason, err)
	}

	return out, nil
}

// fillSequence denormalizes the first n items of seq into out.
func (c *call) fillSequence(seq *tree.Sequence, out reflect.Value, n int) error {
	elemType := out.Type().Elem()

	for i := range n {
		item := seq.Items[i]
		scope := &traversal.ElementScope{Index: i, Node: item}

		if err := c.ctx.EnterScope(scope); err != nil {
			return err
		}

		v, err := c.denormalize(item, elemType)
		if err != nil {
			return traversal.Enrich(c.ctx, err)
		}

		out.Index(i).Set(v)
		scope.Value = out.Index(i)

		if err := c.ctx.ExitScope(); err != nil {
			return err
		}
	}

	return nil
}

func (c *call) denormalizeArray(node tree.Node, target reflect.Type) (reflect.Value, error) {
	seq, ok := node.(*tree.Sequence)
	if !ok {
		return reflect.Value{}, c.invalid(tree.ToNative(node), "expected a sequence, got "+tree.KindOf(node).String(), nil)
	}

	n := seq.Len()

	switch {
	case n > target.Len() && c.categories.Has(options.CategoryUnsafeArray):
		n = target.Len()
	case n > target.Len():
		return reflect.Value{}, c.invalid(tree.ToNative(node),
			fmt.Sprintf("%d items do not fit into %s", n, target), nil)
	case !c.categories.Has(options.CategorySafeArray) && !c.categories.Has(options.CategoryUnsafeArray):
		return reflect.Value{}, c.invalid(tree.ToNative(node), "sequence to array coercion is not allowed", nil)
	}

	out := reflect.New(target).Elem()

	return out, c.fillSequence(seq, out, n)
}

func (c *call) denormalizeMap(node tree.Node, target reflect.Type) (reflect.Value, error) {
	m, ok := node.(*tree.Mapping)
	if !ok {
		return reflect.Value{}, c.invalid(tree.ToNative(node), "expected a mapping, got "+tree.KindOf(node).String(), nil)
	}

	keyType, elemType := target.Key(), target.Elem()
	keyCategories := c.categories | options.CategoryTextNumber | options.CategoryTextualBool
	out := reflect.MakeMapWithSize(target, m.Len())

	for name, item := range m.All() {
		scope := &traversal.PropertyScope{Key: name, Node: item, Parent: m}

		if err := c.ctx.EnterScope(scope); err != nil {
			return reflect.Value{}, err
		}

		key, err := primitive.Convert(name, keyType, keyCategories)
		if err != nil {
			return reflect.Value{}, c.invalid(name, "bad map key: "+err.Error(), err)
		}

		v, err := c.denormalize(item, elemType)
		if err != nil {
			return reflect.Value{}, traversal.Enrich(c.ctx, err)
		}

		scope.Value = v

		if err := c.ctx.ExitScope(); err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(key, v)
	}

	return out, nil
}

func (c *call) denormalizeStruct(node tree.Node, target reflect.Type) (reflect.Value, error) {
	m, ok := node.(*tree.Mapping)
	if !ok {
		return reflect.Value{}, c.invalid(tree.ToNative(node), "expected a mapping, got "+tree.KindOf(node).String(), nil)
	}

	ts, err := c.schemas.Discover(target)
	if err != nil {
		return reflect.Value{}, traversal.Enrich(c.ctx, err)
	}

	obj, err := c.construct(target)
	if err != nil {
		return reflect.Value{}, traversal.Enrich(c.ctx, err)
	}

	consumed := make(map[string]struct{}, m.Len())
	handled := make(map[string]struct{}, len(ts.Properties))

	for _, p := range ts.Properties {
		if _, dup := handled[p.Key]; dup {
			continue
		}
		handled[p.Key] = struct{}{}

		if err := c.assign(ts, p, m, obj, consumed); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := c.checkUnknown(ts, m, consumed); err != nil {
		return reflect.Value{}, err
	}

	if err := c.postConstruct(obj, m); err != nil {
		return reflect.Value{}, traversal.Enrich(c.ctx, err)
	}

	return obj, nil
}

// assign sets one property of obj from m.
func (c *call) assign(ts *schema.TypeSchema, p *schema.Property, m *tree.Mapping, obj reflect.Value, consumed map[string]struct{}) error {
	key := p.Key
	item, present := m.Get(key)

	if !present && c.cfg.LegacyKeys {
		if legacy, ok := p.LegacyKey(); ok {
			if item, present = m.Get(legacy); present {
				key = legacy
			}
		}
	}

	scope := &traversal.PropertyScope{Property: p, Key: key, Node: item, Parent: m}
	if err := c.ctx.EnterScope(scope); err != nil {
		return err
	}

	silent := p.Silent || c.cfg.SilentValidation || validation.IsSilent(p.Validator)

	switch {
	case !present && p.Optional:
	case !present && silent:
		c.diags.AddInfo(diagnostic.CodeMissingSilent, "required value is missing, default kept", ts.String(), c.ctx.Path())
	case !present:
		err := c.invalid(nil, "required value is missing", nil)
		err.Suggestion = match.Suggest(key, unknownKeys(ts, m))

		return err
	case p.Constant:
		consumed[key] = struct{}{}
	default:
		consumed[key] = struct{}{}

		if err := c.setValidated(ts, p, item, obj, silent); err != nil {
			return err
		}
	}

	scope.Value = c.accessor.Get(obj, p)

	return c.ctx.ExitScope()
}

func (c *call) setValidated(ts *schema.TypeSchema, p *schema.Property, item tree.Node, obj reflect.Value, silent bool) error {
	v, err := c.denormalize(item, p.Type)
	if err != nil {
		return traversal.Enrich(c.ctx, err)
	}

	field := c.accessor.Get(obj, p)
	previous := reflect.New(field.Type()).Elem()
	previous.Set(field)

	c.accessor.Set(obj, p, v)

	ok, msg := validation.Evaluate(p.Validator, v.Interface())
	if ok {
		return nil
	}

	c.metrics.ValidationFailure(silent)

	if !silent {
		return c.invalid(v.Interface(), msg, nil)
	}

	c.accessor.Set(obj, p, previous)
	c.diags.AddWarning(diagnostic.CodeValidationSwallowed, msg, ts.String(), c.ctx.Path())
	c.logger.Warn("validation swallowed", "path", c.ctx.Path(), "reason", msg)

	return nil
}

func unknownKeys(ts *schema.TypeSchema, m *tree.Mapping) []string {
	var out []string

	for _, k := range m.Keys() {
		if _, ok := ts.Lookup(k); ok {
			continue
		}

		if _, ok := ts.LookupLegacy(k); ok {
			continue
		}

		out = append(out, k)
	}

	return out
}

// checkUnknown reports mapping keys no property consumed.
func (c *call) checkUnknown(ts *schema.TypeSchema, m *tree.Mapping, consumed map[string]struct{}) error {
	for _, k := range m.Keys() {
		if _, ok := consumed[k]; ok {
			continue
		}

		if _, known := ts.Lookup(k); known {
			continue
		}

		suggestion := match.Suggest(k, ts.Keys())
		scope := &traversal.PropertyScope{Key: k, Parent: m}

		if c.cfg.StrictKeys {
			if err := c.ctx.EnterScope(scope); err != nil {
				return err
			}

			err := c.invalid(tree.ToNative(mustGet(m, k)), "unknown key", nil)
			err.Suggestion = suggestion

			return err
		}

		var suggestions []string
		if suggestion != "" {
			suggestions = append(suggestions, suggestion)
		}

		path := k
		if base := c.ctx.Path(); base != "" {
			path = base + "." + k
		}

		c.diags.AddWarning(diagnostic.CodeUnknownKey, "unknown key ignored", ts.String(), path, suggestions...)
		c.logger.Debug("unknown key ignored", "path", path, "suggestion", suggestion)
	}

	return nil
}

func mustGet(m *tree.Mapping, key string) tree.Node {
	n, _ := m.Get(key)
	return n
}

// postConstruct runs the PostConstructor method, then registered hooks.
func (c *call) postConstruct(obj reflect.Value, source *tree.Mapping) error {
	ptr := obj.Addr()

	if pc, ok := ptr.Interface().(PostConstructor); ok {
		if err := pc.PostConstruct(c.ctx, source); err != nil {
			return fmt.Errorf("post construct %s: %w", common.TypeName(obj.Type()), err)
		}
	}

	for i, hook := range c.hooks[obj.Type()] {
		if err := hook(ptr, c.ctx, source); err != nil {
			return fmt.Errorf("post construct hook %d of %s: %w", i, common.TypeName(obj.Type()), err)
		}
	}

	return nil
}
