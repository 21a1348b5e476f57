// Package shape classifies Go types by how the mapper walks them.
package shape

import (
	"reflect"

	"config-mapper/internal/common"
	"config-mapper/primitive"
)

type Enum int

const (
	Unknown Enum = iota
	Scalar
	Interface
	Slice
	Array
	Map
	Struct
	Pointer

	// Total is a constant that represents the total number of shapes defined
	Total = int(iota)
)

var names = [Total]string{"unknown", "scalar", "interface", "slice", "array", "map", "struct", "pointer"}

func (e Enum) String() string {
	if e < 0 || int(e) >= len(names) {
		return common.UnknownStr
	}

	return names[e]
}

// Dispatch returns the shape of t. Maps qualify only with scalar keys.
func Dispatch(t reflect.Type) Enum {
	switch t.Kind() {
	case reflect.Interface:
		return Interface
	case reflect.Pointer:
		return Pointer
	case reflect.Slice:
		return Slice
	case reflect.Array:
		return Array
	case reflect.Map:
		if primitive.IsScalar(t.Key()) {
			return Map
		}

		return Unknown
	case reflect.Struct:
		return Struct
	default:
	}

	if primitive.IsScalar(t) {
		return Scalar
	}

	return Unknown
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	for t.Kind() == reflect.Pointer {
		depth++
		t = t.Elem()
	}

	return depth, t
}
