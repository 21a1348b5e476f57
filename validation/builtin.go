package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"config-mapper/utils"
)

var (
	errArgumentRequired = errors.New("argument required")
	errNoArgument       = errors.New("takes no argument")
	errTooManyBounds    = errors.New("expected at most two bounds separated by '|'")
)

func registerBuiltins(r *Registry) {
	for _, name := range []string{"not-null", "notnull", "non-null", "nonnull", "not_null"} {
		r.factories[name] = flag(notNull{})
	}

	r.factories["not-empty"] = flag(notEmpty{})
	r.factories["not-blank"] = flag(notBlank{})
	r.factories["range"] = newRange
	r.factories["size"] = newSize
}

func flag(v Validator) Factory {
	return func(_ string, present bool) (Validator, error) {
		if present {
			return nil, errNoArgument
		}

		return v, nil
	}
}

// indirect follows pointers and interfaces; ok is false on nil.
func indirect(value any) (reflect.Value, bool) {
	v := reflect.ValueOf(value)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, v.IsValid()
}

type notNull struct{}

func (notNull) Evaluate(value any) (bool, string) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return false, "must not be null"
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return false, "must not be null"
		}
	default:
	}

	return true, ""
}

func (n notNull) Check(value any) bool {
	ok, _ := n.Evaluate(value)
	return ok
}

func (notNull) Message() string { return "must not be null" }

type notEmpty struct{}

func (notEmpty) Evaluate(value any) (bool, string) {
	v, ok := indirect(value)
	if !ok {
		return false, "must not be empty"
	}

	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		if v.Len() == 0 {
			return false, "must not be empty"
		}
	default:
	}

	return true, ""
}

func (n notEmpty) Check(value any) bool {
	ok, _ := n.Evaluate(value)
	return ok
}

func (notEmpty) Message() string { return "must not be empty" }

type notBlank struct{}

func (notBlank) Evaluate(value any) (bool, string) {
	v, ok := indirect(value)
	if !ok {
		return false, "must not be blank"
	}

	if v.Kind() == reflect.String && strings.TrimSpace(v.String()) == "" {
		return false, "must not be blank"
	}

	return true, ""
}

func (n notBlank) Check(value any) bool {
	ok, _ := n.Evaluate(value)
	return ok
}

func (notBlank) Message() string { return "must not be blank" }

// bounds holds an inclusive interval; missing ends are infinite.
type bounds struct {
	min, max float64
}

func (b bounds) contains(x float64) bool {
	return utils.IsInRange(b.min, x, b.max)
}

func (b bounds) describe(subject string) string {
	lo, hi := !math.IsInf(b.min, -1), !math.IsInf(b.max, 1)

	switch {
	case lo && hi && b.min == b.max:
		return fmt.Sprintf("%s must be %s", subject, formatBound(b.min))
	case lo && hi:
		return fmt.Sprintf("%s must be between %s and %s", subject, formatBound(b.min), formatBound(b.max))
	case lo:
		return fmt.Sprintf("%s must be at least %s", subject, formatBound(b.min))
	case hi:
		return fmt.Sprintf("%s must be at most %s", subject, formatBound(b.max))
	default:
		return subject + " is unbounded"
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseBounds reads "min|max", "min|", "|max" or a single exact value.
func parseBounds(arg string, present bool, parse func(string) (float64, error)) (bounds, error) {
	if !present || strings.TrimSpace(arg) == "" {
		return bounds{}, errArgumentRequired
	}

	parts := strings.Split(arg, "|")
	if len(parts) > 2 {
		return bounds{}, errTooManyBounds
	}

	b := bounds{min: math.Inf(-1), max: math.Inf(1)}

	if len(parts) == 1 {
		x, err := parse(strings.TrimSpace(parts[0]))
		if err != nil {
			return bounds{}, err
		}

		return bounds{min: x, max: x}, nil
	}

	if s := strings.TrimSpace(parts[0]); s != "" {
		x, err := parse(s)
		if err != nil {
			return bounds{}, err
		}
		b.min = x
	}

	if s := strings.TrimSpace(parts[1]); s != "" {
		x, err := parse(s)
		if err != nil {
			return bounds{}, err
		}
		b.max = x
	}

	if b.min > b.max {
		return bounds{}, fmt.Errorf("lower bound %s exceeds upper bound %s", formatBound(b.min), formatBound(b.max))
	}

	return b, nil
}

func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("bound %q is not a number", s)
	}

	return f, nil
}

func parseSize(s string) (float64, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bound %q is not an integer", s)
	}

	return float64(utils.AtLeast(0, n)), nil
}

type rangeCheck struct {
	bounds
}

func newRange(arg string, present bool) (Validator, error) {
	b, err := parseBounds(arg, present, parseNumber)
	if err != nil {
		return nil, err
	}

	return rangeCheck{b}, nil
}

func (r rangeCheck) Evaluate(value any) (bool, string) {
	v, ok := indirect(value)
	if !ok {
		return true, ""
	}

	var x float64

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		x = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		x = v.Float()
	default:
		return false, "value must be a number"
	}

	if !r.contains(x) {
		return false, r.describe("value")
	}

	return true, ""
}

func (r rangeCheck) Check(value any) bool {
	ok, _ := r.Evaluate(value)
	return ok
}

func (r rangeCheck) Message() string { return r.describe("value") }

type sizeCheck struct {
	bounds
}

func newSize(arg string, present bool) (Validator, error) {
	b, err := parseBounds(arg, present, parseSize)
	if err != nil {
		return nil, err
	}

	return sizeCheck{b}, nil
}

func (s sizeCheck) Evaluate(value any) (bool, string) {
	v, ok := indirect(value)
	if !ok {
		return true, ""
	}

	var n int

	switch v.Kind() {
	case reflect.String:
		n = utf8.RuneCountInString(v.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		n = v.Len()
	default:
		return false, "value has no size"
	}

	if !s.contains(float64(n)) {
		return false, s.describe("size")
	}

	return true, ""
}

func (s sizeCheck) Check(value any) bool {
	ok, _ := s.Evaluate(value)
	return ok
}

func (s sizeCheck) Message() string { return s.describe("size") }
