package adapter

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"config-mapper/options"
	"config-mapper/primitive"
	"config-mapper/traversal"
	"config-mapper/tree"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
)

// RegisterBuiltins binds the time.Time and time.Duration adapters, gated by
// categories.
func RegisterBuiltins(r *Registry, categories options.CategoryEnum) {
	r.Register(timeType, Time{Categories: categories})
	r.Register(durationType, Duration{Categories: categories})
}

func scalarValue(node tree.Node) (any, bool) {
	switch n := node.(type) {
	case tree.Scalar:
		return n.Value, true
	case tree.Opaque:
		return n.Value, true
	default:
		return nil, false
	}
}

func conversionError(value any, target reflect.Type, format string, args ...any) error {
	return &primitive.ConversionError{Value: value, Target: target, Reason: fmt.Sprintf(format, args...)}
}

// Time maps time.Time to an RFC 3339 string, or to Unix seconds when
// CategoryTimestamp is enabled.
type Time struct {
	Categories options.CategoryEnum
}

func (t Time) Simplify(_ *traversal.Context, _ reflect.Type, value reflect.Value) (tree.Node, error) {
	ts := value.Convert(timeType).Interface().(time.Time)

	if t.Categories.Has(options.CategoryTimestamp) {
		return tree.Scalar{Value: ts.Unix()}, nil
	}

	return tree.Scalar{Value: ts.Format(time.RFC3339Nano)}, nil
}

func (t Time) Complexify(_ *traversal.Context, node tree.Node, target reflect.Type) (reflect.Value, error) {
	raw, ok := scalarValue(node)
	if !ok {
		return reflect.Value{}, conversionError(node, target, "expected a scalar, got %v", tree.KindOf(node))
	}

	var ts time.Time

	switch v := raw.(type) {
	case time.Time:
		ts = v
	case string:
		if !t.Categories.Has(options.CategoryDatetime) {
			return reflect.Value{}, conversionError(raw, target, "datetime strings are not allowed")
		}

		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return reflect.Value{}, conversionError(raw, target, "%v", err)
		}
		ts = parsed
	default:
		if !t.Categories.Has(options.CategoryTimestamp) {
			return reflect.Value{}, conversionError(raw, target, "timestamps are not allowed")
		}

		secs, err := primitive.Convert(raw, reflect.TypeFor[int64](), options.CategorySafeNumber)
		if err != nil {
			return reflect.Value{}, err
		}
		ts = time.Unix(secs.Int(), 0).UTC()
	}

	return reflect.ValueOf(ts).Convert(target), nil
}

// Duration maps time.Duration to "2h45m", to integer nanoseconds under
// CategoryNanoseconds, or to float seconds under CategorySeconds.
type Duration struct {
	Categories options.CategoryEnum
}

func (d Duration) Simplify(_ *traversal.Context, _ reflect.Type, value reflect.Value) (tree.Node, error) {
	dur := time.Duration(value.Int())

	switch {
	case d.Categories.Has(options.CategoryNanoseconds):
		return tree.Scalar{Value: int64(dur)}, nil
	case d.Categories.Has(options.CategorySeconds):
		return tree.Scalar{Value: dur.Seconds()}, nil
	default:
		return tree.Scalar{Value: dur.String()}, nil
	}
}

func (d Duration) Complexify(_ *traversal.Context, node tree.Node, target reflect.Type) (reflect.Value, error) {
	raw, ok := scalarValue(node)
	if !ok {
		return reflect.Value{}, conversionError(node, target, "expected a scalar, got %v", tree.KindOf(node))
	}

	var dur time.Duration

	switch kind := primitive.KindOf(raw); {
	case kind == primitive.KindString:
		if !d.Categories.Has(options.CategoryDuration) {
			return reflect.Value{}, conversionError(raw, target, "duration strings are not allowed")
		}

		parsed, err := time.ParseDuration(reflect.ValueOf(raw).String())
		if err != nil {
			return reflect.Value{}, conversionError(raw, target, "%v", err)
		}
		dur = parsed
	case kind.IsInteger() && d.Categories.Has(options.CategoryNanoseconds):
		ns, err := primitive.Convert(raw, reflect.TypeFor[int64](), options.CategorySafeNumber)
		if err != nil {
			return reflect.Value{}, err
		}
		dur = time.Duration(ns.Int())
	case kind.IsNumber() && d.Categories.Has(options.CategorySeconds):
		secs := reflect.ValueOf(raw).Convert(reflect.TypeFor[float64]()).Float()
		if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > math.MaxInt64/float64(time.Second) {
			return reflect.Value{}, conversionError(raw, target, "seconds out of range")
		}
		dur = time.Duration(secs * float64(time.Second))
	default:
		return reflect.Value{}, conversionError(raw, target, "numeric durations are not allowed")
	}

	return reflect.ValueOf(dur).Convert(target), nil
}
