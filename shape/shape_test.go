package shape_test

import (
	"fmt"
	"reflect"
	"time"

	"config-mapper/shape"
)

type port uint16

type node struct {
	Next *node
}

func ExampleDispatch() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[port](),
		reflect.TypeFor[any](),
		reflect.TypeFor[*int](),
		reflect.TypeFor[[]string](),
		reflect.TypeFor[[2]int](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[map[[2]int]int](),
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[chan int](),
	} {
		fmt.Println(t, shape.Dispatch(t))
	}

	depth, base := shape.PtrDepthAndBase(reflect.TypeFor[**port]())
	fmt.Println(depth, base)

	// Output:
	// shape_test.port scalar
	// interface {} interface
	// *int pointer
	// []string slice
	// [2]int array
	// map[string]int map
	// map[[2]int]int unknown
	// time.Time struct
	// chan int unknown
	// 2 shape_test.port
}

func ExampleGuard() {
	var g shape.Guard

	n := &node{}
	n.Next = n

	fmt.Println("first:", g.Enter(reflect.ValueOf(n)))
	fmt.Println("again:", g.Enter(reflect.ValueOf(n.Next)))
	fmt.Println("nil:", g.Enter(reflect.ValueOf((*node)(nil))))
	fmt.Println("scalar:", g.Enter(reflect.ValueOf(3)))

	g.Leave(reflect.ValueOf(n))
	fmt.Println("left:", g.Depth(), g.Enter(reflect.ValueOf(n)))

	// Output:
	// first: true
	// again: false
	// nil: true
	// scalar: true
	// left: 0 true
}
