// Package primitive classifies scalar Go types and converts scalar tree
// values into typed Go values under a set of allowed coercion categories.
package primitive

import (
	"math"
	"reflect"
)

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var kindNames = [KindTotal]string{
	"KindEnum(0)",
	"KindInt", "KindInt8", "KindInt16", "KindInt32", "KindInt64",
	"KindUint", "KindUint8", "KindUint16", "KindUint32", "KindUint64",
	"KindFloat32", "KindFloat64", "KindBool", "KindString",
}

func (k KindEnum) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "KindEnum(?)"
	}

	return kindNames[k]
}

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only number kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// FromReflectKind maps a reflect.Kind to the scalar kind, or 0 for non-scalars.
func FromReflectKind(kind reflect.Kind) KindEnum {
	switch kind {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	}
}

// IsScalar reports whether values of rtype are passed through as tree scalars.
func IsScalar(rtype reflect.Type) bool {
	return rtype != nil && FromReflectKind(rtype.Kind()) != 0
}
