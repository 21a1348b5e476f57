package adapter

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-mapper/lineage"
	"config-mapper/traversal"
	"config-mapper/tree"
)

type named string

func (n named) Simplify(*traversal.Context, reflect.Type, reflect.Value) (tree.Node, error) {
	return tree.Scalar{Value: string(n)}, nil
}

func (n named) Complexify(*traversal.Context, tree.Node, reflect.Type) (reflect.Value, error) {
	return reflect.ValueOf(string(n)), nil
}

type (
	A struct{}
	B struct{ A }
	C struct{ A }
	D struct{ B }
	E struct{ B }
	G struct{ E }
	F struct{ C }
	H struct{ F }
	I struct{ F }

	Unrelated struct{ Name string }

	Inf1 interface{ inf1() }
	Inf2 interface{ inf2() }
	Inf3 interface{ inf3() }
)

func diamond(t *testing.T, observer Observer) *Registry {
	t.Helper()

	h := lineage.New()
	require.NoError(t, h.Implements(reflect.TypeFor[D](), reflect.TypeFor[Inf2]()))
	require.NoError(t, h.Implements(reflect.TypeFor[G](), reflect.TypeFor[Inf3]()))
	require.NoError(t, h.Implements(reflect.TypeFor[C](), reflect.TypeFor[Inf1]()))
	require.NoError(t, h.Implements(reflect.TypeFor[F](), reflect.TypeFor[Inf1](), reflect.TypeFor[Inf2]()))

	r := NewRegistry(h, observer)
	r.Register(reflect.TypeFor[B](), named("B"))
	r.Register(reflect.TypeFor[Inf2](), named("Inf2"))
	r.Register(reflect.TypeFor[E](), named("E"))
	r.Register(reflect.TypeFor[H](), named("H"))

	return r
}

var diamondCases = []struct {
	typ    reflect.Type
	expect string
}{
	{typ: reflect.TypeFor[B](), expect: "B"},
	{typ: reflect.TypeFor[Inf2](), expect: "Inf2"},
	{typ: reflect.TypeFor[E](), expect: "E"},
	{typ: reflect.TypeFor[H](), expect: "H"},
	{typ: lineage.Root, expect: ""},
	{typ: reflect.TypeFor[A](), expect: ""},
	{typ: reflect.TypeFor[C](), expect: ""},
	{typ: reflect.TypeFor[F](), expect: "Inf2"},
	{typ: reflect.TypeFor[Inf3](), expect: ""},
	{typ: reflect.TypeFor[Inf1](), expect: ""},
	{typ: reflect.TypeFor[Unrelated](), expect: ""},
	{typ: reflect.TypeFor[D](), expect: "B"},
	{typ: reflect.TypeFor[G](), expect: "E"},
	{typ: reflect.TypeFor[I](), expect: "Inf2"},
	{typ: reflect.TypeFor[*F](), expect: "Inf2"},
}

func nameOf(a Adapter, ok bool) string {
	if !ok {
		return ""
	}

	return string(a.(named))
}

func TestDiamond(t *testing.T) {
	r := diamond(t, nil)

	for _, tt := range diamondCases {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.expect, nameOf(r.Resolve(tt.typ)))
			// second lookup is served from the cache
			assert.Equal(t, tt.expect, nameOf(r.Resolve(tt.typ)))
		})
	}

	res := r.Lookup(reflect.TypeFor[F]())
	assert.Equal(t, reflect.TypeFor[Inf2](), res.Source)
	assert.True(t, r.Registered(reflect.TypeFor[*E]()))
	assert.False(t, r.Registered(reflect.TypeFor[F]()))
}

func TestConcurrentResolve(t *testing.T) {
	r := diamond(t, nil)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tt := range diamondCases {
				assert.Equal(t, tt.expect, nameOf(r.Resolve(tt.typ)))
			}
		}()
	}
	wg.Wait()
}

func TestObserverAndReregister(t *testing.T) {
	var fresh, cached atomic.Int32

	r := diamond(t, func(_ reflect.Type, _ Resolution, hit bool) {
		if hit {
			cached.Add(1)
		} else {
			fresh.Add(1)
		}
	})

	r.Resolve(reflect.TypeFor[G]())
	r.Resolve(reflect.TypeFor[G]())
	r.Resolve(reflect.TypeFor[A]())
	assert.Equal(t, int32(2), fresh.Load())
	assert.Equal(t, int32(1), cached.Load())

	r.Register(reflect.TypeFor[G](), named("G"))
	assert.Equal(t, "G", nameOf(r.Resolve(reflect.TypeFor[G]())))

	r.Register(reflect.TypeFor[G](), nil)
	assert.Equal(t, "E", nameOf(r.Resolve(reflect.TypeFor[G]())))
}

func TestRegisterDuringLookups(t *testing.T) {
	r := diamond(t, nil)

	for round := range 50 {
		want := named("G" + string(rune('a'+round%26)))

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 20 {
					r.Resolve(reflect.TypeFor[G]())
				}
			}()
		}

		r.Register(reflect.TypeFor[E](), want)
		wg.Wait()

		assert.Equal(t, string(want), nameOf(r.Resolve(reflect.TypeFor[G]())), "round %d", round)
	}

	assert.Empty(t, nameOf(r.Resolve(nil)))
}
