package primitive_test

import (
	"fmt"
	"reflect"
	"time"

	"config-mapper/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectKind(reflect.Int))
	fmt.Println(primitive.FromReflectKind(reflect.String))
	fmt.Println(primitive.FromReflectKind(reflect.TypeOf(IntEnum(0)).Kind()))
	fmt.Println(primitive.FromReflectKind(reflect.TypeOf(time.Duration(0)).Kind()))
	fmt.Println(primitive.FromReflectKind(reflect.Struct))
	fmt.Println(primitive.IsScalar(reflect.TypeOf(StringEnum(""))), primitive.IsScalar(reflect.TypeOf(Empty{})))
	fmt.Println(primitive.KindOf(uint8(3)), primitive.KindOf([]int{1}))
	// Output:
	// KindInt
	// KindString
	// KindInt
	// KindInt64
	// KindEnum(0)
	// true false
	// KindUint8 KindEnum(0)
}
