package shape

import "reflect"

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// Guard tracks the references currently being walked so that a value
// reachable from itself is detected instead of recursing forever.
type Guard struct {
	active map[visit]struct{}
}

func key(v reflect.Value) (visit, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map:
		if v.IsNil() {
			return visit{}, false
		}

		return visit{ptr: v.Pointer(), typ: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return visit{}, false
		}

		return visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}, true
	default:
		return visit{}, false
	}
}

// Enter marks v as being walked. It returns false when v is already on
// the walk, which means the value graph has a cycle.
func (g *Guard) Enter(v reflect.Value) bool {
	k, ok := key(v)
	if !ok {
		return true
	}

	if g.active == nil {
		g.active = make(map[visit]struct{})
	}

	if _, exists := g.active[k]; exists {
		return false
	}

	g.active[k] = struct{}{}

	return true
}

// Leave unmarks v.
func (g *Guard) Leave(v reflect.Value) {
	if k, ok := key(v); ok {
		delete(g.active, k)
	}
}

// Depth returns the number of references being walked.
func (g *Guard) Depth() int {
	return len(g.active)
}
