package primitive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"config-mapper/internal/common"
	"config-mapper/options"
)

// ConversionError reports a scalar that cannot be turned into the requested type.
type ConversionError struct {
	Value  any
	Target reflect.Type
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s: %s", e.Value, e.Value, common.TypeName(e.Target), e.Reason)
}

// Canonical returns the format-neutral form of a scalar value: signed integers
// become int64, unsigned uint64, floats float64; bool and string stay as they are.
// Named scalar types collapse to their underlying kind.
func Canonical(v reflect.Value) (any, bool) {
	switch FromReflectKind(v.Kind()) {
	default:
		return nil, false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return v.Int(), true
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return v.Uint(), true
	case KindFloat32, KindFloat64:
		return v.Float(), true
	case KindBool:
		return v.Bool(), true
	case KindString:
		return v.String(), true
	}
}

// KindOf classifies a dynamic value, 0 means it is not a scalar.
func KindOf(value any) KindEnum {
	if value == nil {
		return 0
	}

	return FromReflectKind(reflect.ValueOf(value).Kind())
}

// Convert produces a value of type target from a scalar tree value. Conversions
// between different kinds are only performed when the matching category is allowed.
func Convert(value any, target reflect.Type, allowed options.CategoryEnum) (reflect.Value, error) {
	to := FromReflectKind(target.Kind())
	if to == 0 {
		return reflect.Value{}, &ConversionError{Value: value, Target: target, Reason: "target is not a scalar type"}
	}

	from := KindOf(value)
	if from == 0 {
		return reflect.Value{}, &ConversionError{Value: value, Target: target, Reason: "value is not a scalar"}
	}

	c := converter{src: reflect.ValueOf(value), from: from, allowed: allowed}
	out := reflect.New(target).Elem()

	var err error

	switch {
	case to == KindString:
		var s string
		if s, err = c.toString(); err == nil {
			out.SetString(s)
		}
	case to == KindBool:
		var b bool
		if b, err = c.toBool(); err == nil {
			out.SetBool(b)
		}
	case to.IsSigned():
		var i int64
		if i, err = c.toInt(); err == nil {
			if out.OverflowInt(i) {
				err = fmt.Errorf("%d overflows %d bits", i, to.Bits())
			} else {
				out.SetInt(i)
			}
		}
	case to.IsUnsigned():
		var u uint64
		if u, err = c.toUint(); err == nil {
			if out.OverflowUint(u) {
				err = fmt.Errorf("%d overflows %d bits", u, to.Bits())
			} else {
				out.SetUint(u)
			}
		}
	case to.IsFloat():
		var f float64
		if f, err = c.toFloat(); err == nil {
			if out.OverflowFloat(f) {
				err = fmt.Errorf("%v overflows %d bits", f, to.Bits())
			} else {
				out.SetFloat(f)
			}
		}
	}

	if err != nil {
		return reflect.Value{}, &ConversionError{Value: value, Target: target, Reason: err.Error()}
	}

	return out, nil
}

// ParseTextualBool accepts true/false, yes/no, on/off, case-insensitively.
func ParseTextualBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}

	return false, fmt.Errorf("only strings true/false, yes/no, on/off are allowed for bool, got: %q", s)
}

type converter struct {
	src     reflect.Value
	from    KindEnum
	allowed options.CategoryEnum
}

func (c converter) require(cat options.CategoryEnum, what string) error {
	if c.allowed.Has(cat) {
		return nil
	}

	return fmt.Errorf("%s conversion is not enabled (%s)", what, cat)
}

func (c converter) numbersAllowed() error {
	if c.allowed.Has(options.CategorySafeNumber) || c.allowed.Has(options.CategoryUnsafeNumber) {
		return nil
	}

	return c.require(options.CategorySafeNumber, "number")
}

func (c converter) toString() (string, error) {
	switch {
	case c.from == KindString:
		return c.src.String(), nil
	case c.from == KindBool:
		if err := c.require(options.CategoryTextualBool, "bool to text"); err != nil {
			return "", err
		}
		return strconv.FormatBool(c.src.Bool()), nil
	case c.from.IsSigned():
		if err := c.require(options.CategoryTextNumber, "number to text"); err != nil {
			return "", err
		}
		return strconv.FormatInt(c.src.Int(), 10), nil
	case c.from.IsUnsigned():
		if err := c.require(options.CategoryTextNumber, "number to text"); err != nil {
			return "", err
		}
		return strconv.FormatUint(c.src.Uint(), 10), nil
	default:
		if err := c.require(options.CategoryTextNumber, "number to text"); err != nil {
			return "", err
		}
		return strconv.FormatFloat(c.src.Float(), 'g', -1, 64), nil
	}
}

func (c converter) toBool() (bool, error) {
	switch {
	case c.from == KindBool:
		return c.src.Bool(), nil
	case c.from == KindString:
		if err := c.require(options.CategoryTextualBool, "text to bool"); err != nil {
			return false, err
		}
		return ParseTextualBool(c.src.String())
	case c.from.IsInteger():
		if err := c.require(options.CategoryNumericBool, "number to bool"); err != nil {
			return false, err
		}

		var n uint64
		if c.from.IsSigned() {
			if c.src.Int() < 0 {
				return false, fmt.Errorf("only 0 and 1 are allowed for bool, got: %d", c.src.Int())
			}
			n = uint64(c.src.Int())
		} else {
			n = c.src.Uint()
		}

		if n > 1 {
			return false, fmt.Errorf("only 0 and 1 are allowed for bool, got: %d", n)
		}
		return n == 1, nil
	default:
		return false, fmt.Errorf("floating-point values cannot become bool")
	}
}

func (c converter) boolNumber() (float64, error) {
	if err := c.require(options.CategoryNumericBool, "bool to number"); err != nil {
		return 0, err
	}

	if c.src.Bool() {
		return 1, nil
	}
	return 0, nil
}

// number reduces the source to one of int64, uint64 or float64, parsing text when allowed.
func (c converter) number() (any, error) {
	switch {
	case c.from.IsSigned():
		return c.src.Int(), nil
	case c.from.IsUnsigned():
		return c.src.Uint(), nil
	case c.from.IsFloat():
		return c.src.Float(), nil
	case c.from == KindBool:
		return c.boolNumber()
	}

	if err := c.require(options.CategoryTextNumber, "text to number"); err != nil {
		return nil, err
	}

	s := strings.TrimSpace(c.src.String())
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return u, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func (c converter) toInt() (int64, error) {
	if err := c.numbersAllowed(); err != nil && !c.from.IsSigned() {
		return 0, err
	}

	n, err := c.number()
	if err != nil {
		return 0, err
	}

	switch v := n.(type) {
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows 64 bits", v)
		}
		return int64(v), nil
	default:
		f, err := c.whole(v.(float64))
		if err != nil {
			return 0, err
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("%v overflows 64 bits", f)
		}
		return int64(f), nil
	}
}

func (c converter) toUint() (uint64, error) {
	if err := c.numbersAllowed(); err != nil && !c.from.IsUnsigned() {
		return 0, err
	}

	n, err := c.number()
	if err != nil {
		return 0, err
	}

	switch v := n.(type) {
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("negative value %d for an unsigned type", v)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	default:
		f, err := c.whole(v.(float64))
		if err != nil {
			return 0, err
		}
		if f < 0 {
			return 0, fmt.Errorf("negative value %v for an unsigned type", f)
		}
		if f >= math.MaxUint64 {
			return 0, fmt.Errorf("%v overflows 64 bits", f)
		}
		return uint64(f), nil
	}
}

func (c converter) toFloat() (float64, error) {
	if err := c.numbersAllowed(); err != nil && !c.from.IsFloat() {
		return 0, err
	}

	n, err := c.number()
	if err != nil {
		return 0, err
	}

	lossy := c.allowed.Has(options.CategoryUnsafeNumber)

	switch v := n.(type) {
	case int64:
		f := float64(v)
		if !lossy && (f >= math.MaxInt64 || int64(f) != v) {
			return 0, fmt.Errorf("%d loses precision as float", v)
		}
		return f, nil
	case uint64:
		f := float64(v)
		if !lossy && (f >= math.MaxUint64 || uint64(f) != v) {
			return 0, fmt.Errorf("%d loses precision as float", v)
		}
		return f, nil
	default:
		return v.(float64), nil
	}
}

// whole truncates fractional values only when lossy number conversion is allowed.
func (c converter) whole(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v has no integer representation", f)
	}

	if f == math.Trunc(f) {
		return f, nil
	}

	if !c.allowed.Has(options.CategoryUnsafeNumber) {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}

	return math.Trunc(f), nil
}
