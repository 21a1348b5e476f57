package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"config-mapper/internal/common"
	"config-mapper/options"
	"config-mapper/primitive"
	"config-mapper/traversal"
	"config-mapper/tree"
)

var (
	ErrNotACaster   = errors.New("provided function is not a recognizable caster")
	ErrNotAFunction = errors.New("provided caster is not a function")
	ErrPointer      = errors.New("caster function does not support pointers")
	ErrMismatch     = errors.New("simplify input and complexify output must be the same type")
	ErrNotSimple    = errors.New("caster must produce or consume a scalar or a tree node")
	ErrRejected     = errors.New("caster rejected the value")
)

var (
	errorType = reflect.TypeFor[error]()
	nodeType  = reflect.TypeFor[tree.Node]()
)

// Caster describes a plain conversion function.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects fn and returns its description.
//
// Supports signatures:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrNotACaster
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if src.Kind() == reflect.Pointer || dst.Kind() == reflect.Pointer {
		return Caster{}, ErrPointer
	}

	alias, name := common.SplitFuncName(runtime.FuncForPC(fnVal.Pointer()).Name())

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}
		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true
		return caster, nil
	}
}

func isError(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.Implements(errorType)
}

func isSimple(t reflect.Type) bool {
	return t == nodeType || primitive.IsScalar(t)
}

// Call invokes the caster and folds the bool and error results into err.
func (c Caster) Call(in reflect.Value) (reflect.Value, error) {
	if in.Type() != c.Src {
		if !in.Type().ConvertibleTo(c.Src) {
			return reflect.Value{}, fmt.Errorf("%s: cannot pass %v as %v", c, in.Type(), c.Src)
		}
		in = in.Convert(c.Src)
	}

	out := c.fn.Call([]reflect.Value{in})

	if c.HasErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return reflect.Value{}, fmt.Errorf("%s: %w", c, errVal.Interface().(error))
		}
	}

	if c.HasBool && !out[1].Bool() {
		return reflect.Value{}, fmt.Errorf("%s: %w", c, ErrRejected)
	}

	return out[0], nil
}

func (c Caster) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}

	return c.PackageAlias + "." + c.Name
}

// FuncAdapter is an adapter built from two casters.
type FuncAdapter struct {
	// Type is the complex type handled by the adapter.
	Type reflect.Type
	// Categories gate scalar coercion before complexify is called.
	Categories options.CategoryEnum

	simplify, complexify Caster
}

// Funcs builds an adapter from simplify func(T) U and complexify func(U) T,
// where U is a scalar type or tree.Node.
func Funcs(simplify, complexify any) (*FuncAdapter, error) {
	s, err := ParseCaster(simplify)
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}

	c, err := ParseCaster(complexify)
	if err != nil {
		return nil, fmt.Errorf("complexify: %w", err)
	}

	if s.Src != c.Dst {
		return nil, fmt.Errorf("%v vs %v: %w", s.Src, c.Dst, ErrMismatch)
	}

	if !isSimple(s.Dst) || !isSimple(c.Src) {
		return nil, ErrNotSimple
	}

	return &FuncAdapter{Type: s.Src, Categories: options.CategoryDefault, simplify: s, complexify: c}, nil
}

// MustFuncs is like Funcs but panics on error.
func MustFuncs(simplify, complexify any) *FuncAdapter {
	a, err := Funcs(simplify, complexify)
	if err != nil {
		panic(err)
	}

	return a
}

func (f *FuncAdapter) Simplify(_ *traversal.Context, _ reflect.Type, value reflect.Value) (tree.Node, error) {
	out, err := f.simplify.Call(value)
	if err != nil {
		return nil, err
	}

	if f.simplify.Dst == nodeType {
		if out.IsNil() {
			return nil, nil
		}

		return out.Interface().(tree.Node), nil
	}

	scalar, _ := primitive.Canonical(out)

	return tree.Scalar{Value: scalar}, nil
}

func (f *FuncAdapter) Complexify(_ *traversal.Context, node tree.Node, target reflect.Type) (reflect.Value, error) {
	var in reflect.Value

	if f.complexify.Src == nodeType {
		in = reflect.New(nodeType).Elem()
		if node != nil {
			in.Set(reflect.ValueOf(node))
		}
	} else {
		var raw any

		switch n := node.(type) {
		case tree.Scalar:
			raw = n.Value
		case tree.Opaque:
			raw = n.Value
		default:
			return reflect.Value{}, fmt.Errorf("%s expects a scalar, got %v", f.complexify, tree.KindOf(node))
		}

		converted, err := primitive.Convert(raw, f.complexify.Src, f.Categories)
		if err != nil {
			return reflect.Value{}, err
		}
		in = converted
	}

	out, err := f.complexify.Call(in)
	if err != nil {
		return reflect.Value{}, err
	}

	if target != nil && out.Type() != target && out.Type().ConvertibleTo(target) {
		out = out.Convert(target)
	}

	return out, nil
}
