package lineage

import (
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	marker struct{}

	base    struct{ marker }
	derived struct {
		marker
		base
		Name string
	}
	leaf struct{ *derived }

	Reader interface{ Read() }
	Closer interface{ Close() }
	RC     interface {
		Reader
		Closer
	}
)

func TestSuper(t *testing.T) {
	h := New()

	parent, ok := h.Super(reflect.TypeFor[derived]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[marker](), parent)

	h.Ignore(reflect.TypeFor[marker]())

	parent, ok = h.Super(reflect.TypeFor[*derived]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[base](), parent)

	_, ok = h.Super(reflect.TypeFor[base]())
	assert.False(t, ok)

	// embedded pointers are not super types
	_, ok = h.Super(reflect.TypeFor[leaf]())
	assert.False(t, ok)

	require.NoError(t, h.Extends(reflect.TypeFor[leaf](), reflect.TypeFor[derived]()))
	parent, ok = h.Super(reflect.TypeFor[leaf]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[derived](), parent)

	_, ok = h.Super(reflect.TypeFor[int]())
	assert.False(t, ok)
}

func TestDeclarationErrors(t *testing.T) {
	h := New()

	require.Error(t, h.Extends(reflect.TypeFor[base](), reflect.TypeFor[base]()))
	require.Error(t, h.Extends(reflect.TypeFor[Reader](), reflect.TypeFor[base]()))
	require.Error(t, h.Implements(reflect.TypeFor[base](), reflect.TypeFor[int]()))
	require.Error(t, h.Implements(reflect.TypeFor[Reader](), reflect.TypeFor[Closer]()))
	require.Error(t, h.ExtendsInterface(reflect.TypeFor[base](), reflect.TypeFor[Reader]()))
	require.Error(t, h.ExtendsInterface(reflect.TypeFor[Reader](), reflect.TypeFor[Reader]()))
}

func TestWalk(t *testing.T) {
	h := New()
	h.Ignore(reflect.TypeFor[marker]())

	rc := reflect.TypeFor[RC]()
	require.NoError(t, h.Implements(reflect.TypeFor[derived](), rc, reflect.TypeFor[Closer]()))
	require.NoError(t, h.Implements(reflect.TypeFor[base](), reflect.TypeFor[Reader]()))
	require.NoError(t, h.ExtendsInterface(rc, reflect.TypeFor[Reader](), reflect.TypeFor[Closer]()))
	require.NoError(t, h.ExtendsInterface(rc, Root))

	got := slices.Collect(h.Walk(reflect.TypeFor[*derived]()))
	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[derived](),
		reflect.TypeFor[base](),
		rc,
		reflect.TypeFor[Closer](),
		reflect.TypeFor[Reader](),
	}, got)

	// stops early
	for range h.Walk(reflect.TypeFor[derived]()) {
		break
	}

	assert.Equal(t, []reflect.Type{Root}, slices.Collect(h.Walk(Root)))
	assert.Equal(t, []reflect.Type{rc, reflect.TypeFor[Reader](), reflect.TypeFor[Closer]()},
		slices.Collect(h.Walk(rc)))
}
