package traversal

import (
	"fmt"
	"reflect"
	"strings"
)

// Injector observes scope transitions. Implement any of BeforeEnterScope,
// AfterEnterScope, BeforeExitScope and AfterExitScope.
type Injector interface {
	Name() string
}

type BeforeEnterScope interface {
	BeforeEnterScope(ctx *Context, s Scope) error
}

type AfterEnterScope interface {
	AfterEnterScope(ctx *Context, s Scope) error
}

type BeforeExitScope interface {
	BeforeExitScope(ctx *Context, s Scope) error
}

type AfterExitScope interface {
	AfterExitScope(ctx *Context, s Scope) error
}

type hook int

const (
	hookBeforeEnter hook = iota
	hookAfterEnter
	hookBeforeExit
	hookAfterExit
)

func (h hook) String() string {
	return [...]string{"before-enter", "after-enter", "before-exit", "after-exit"}[h]
}

func (c *Context) run(h hook, s Scope) error {
	c.inHook = true
	defer func() { c.inHook = false }()

	for _, inj := range c.injectors {
		var err error

		switch h {
		case hookBeforeEnter:
			if fn, ok := inj.(BeforeEnterScope); ok {
				err = fn.BeforeEnterScope(c, s)
			}
		case hookAfterEnter:
			if fn, ok := inj.(AfterEnterScope); ok {
				err = fn.AfterEnterScope(c, s)
			}
		case hookBeforeExit:
			if fn, ok := inj.(BeforeExitScope); ok {
				err = fn.BeforeExitScope(c, s)
			}
		case hookAfterExit:
			if fn, ok := inj.(AfterExitScope); ok {
				err = fn.AfterExitScope(c, s)
			}
		}

		if err != nil {
			return &InjectionError{
				ContextError: ContextError{Path: c.Path(), Context: c, Err: err},
				Injector:     inj.Name(),
				Hook:         h.String(),
			}
		}
	}

	return nil
}

// DescriptionInjector writes property descriptions and examples as comments
// on the enclosing mapping during normalization.
type DescriptionInjector struct{}

func (DescriptionInjector) Name() string { return "description" }

func (DescriptionInjector) AfterExitScope(ctx *Context, s Scope) error {
	ps, ok := s.(*PropertyScope)
	if !ok || ctx.Mode() != ModeNormalize || ps.Property == nil || ps.Parent == nil {
		return nil
	}

	if !ps.Parent.Has(ps.Key) {
		return nil
	}

	lines := make([]string, 0, 2)
	if ps.Property.Description != "" {
		lines = append(lines, ps.Property.Description)
	}

	if len(ps.Property.Examples) > 0 {
		lines = append(lines, "examples: "+strings.Join(ps.Property.Examples, ", "))
	}

	if len(lines) > 0 {
		ps.Parent.SetComment(ps.Key, strings.Join(lines, "\n"))
	}

	return nil
}

// MapKeyInjector copies a map entry's key into the string field Field of
// the entry's value during denormalization. Values without that field are
// left alone.
type MapKeyInjector struct {
	Field string
}

func (m MapKeyInjector) Name() string { return "map-key:" + m.Field }

func (m MapKeyInjector) BeforeExitScope(ctx *Context, s Scope) error {
	ps, ok := s.(*PropertyScope)
	if !ok || ctx.Mode() != ModeDenormalize || ps.Property != nil || !ps.Value.IsValid() {
		return nil
	}

	v := ps.Value
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	f := v.FieldByName(m.Field)
	if !f.IsValid() {
		return nil
	}

	if f.Kind() != reflect.String || !f.CanSet() {
		return fmt.Errorf("field %s of %v cannot hold a map key", m.Field, v.Type())
	}

	f.SetString(ps.Key)

	return nil
}
