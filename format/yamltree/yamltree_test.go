package yamltree_test

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"config-mapper/format/yamltree"
	"config-mapper/mapper"
	"config-mapper/schema"
	"config-mapper/traversal"
	"config-mapper/tree"
)

func TestUnmarshalScalars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{name: "int", src: "v: 12", want: int64(12)},
		{name: "hex", src: "v: 0x10", want: int64(16)},
		{name: "big", src: "v: 18446744073709551615", want: uint64(18446744073709551615)},
		{name: "float", src: "v: 1.5", want: 1.5},
		{name: "bool", src: "v: true", want: true},
		{name: "quoted", src: `v: "12"`, want: "12"},
		{name: "timestamp stays text", src: "v: 2024-03-09", want: "2024-03-09"},
		{name: "plain", src: "v: hello world", want: "hello world"},
		{name: "null", src: "v: ~", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := yamltree.Unmarshal([]byte(tt.src))
			require.NoError(t, err)

			v, ok := tree.Lookup(n, "v")
			require.True(t, ok)
			assert.Equal(t, tt.want, tree.ToNative(v))
		})
	}
}

func TestUnmarshalStructure(t *testing.T) {
	n, err := yamltree.Unmarshal([]byte(`
# Lifecycle state.
# examples: PENDING, PAID
status: PAID
base: &base
  region: eu
copy: *base
items:
  - quantity: 2
  - quantity: 1
`))
	require.NoError(t, err)

	m, ok := n.(*tree.Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"status", "base", "copy", "items"}, m.Keys())
	assert.Equal(t, "Lifecycle state.\nexamples: PENDING, PAID", m.Comment("status"))

	region, ok := tree.Lookup(n, "copy.region")
	require.True(t, ok)
	assert.Equal(t, tree.Scalar{Value: "eu"}, region)

	qty, ok := tree.Lookup(n, "items[1].quantity")
	require.True(t, ok)
	assert.Equal(t, tree.Scalar{Value: int64(1)}, qty)

	empty, err := yamltree.Unmarshal(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := yamltree.Unmarshal([]byte("base: &b {x: 1}\nother:\n  <<: *b\n"))
	require.ErrorIs(t, err, yamltree.ErrMergeKey)

	_, err = yamltree.Unmarshal([]byte("? [a, b]\n: 1\n"))

	var ye *yamltree.Error
	require.ErrorAs(t, err, &ye)
	assert.Equal(t, "mapping keys must be scalars", ye.Reason)
	assert.Equal(t, 1, ye.Line)

	_, err = yamltree.Unmarshal([]byte("a: 1\na: 2\n"))
	require.Error(t, err)

	_, err = yamltree.Unmarshal([]byte("a: [1"))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	m := tree.NewMapping()
	m.Set("name", tree.Scalar{Value: "api"})
	m.SetComment("name", "Service name.")
	m.Set("port", tree.Scalar{Value: int64(8080)})
	m.Set("ratio", tree.Scalar{Value: 0.25})
	m.Set("debug", tree.Scalar{Value: false})
	m.Set("tags", tree.NewSequence(tree.Scalar{Value: "a"}, tree.Scalar{Value: "10"}))
	m.Set("extra", nil)

	nested := tree.NewMapping()
	nested.Set("10", tree.Scalar{Value: "ten"})
	nested.SetComment("10", "multi\nline")
	m.Set("lines", nested)

	data, err := yamltree.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Service name.\nname: api\n")

	back, err := yamltree.Unmarshal(data)
	require.NoError(t, err)

	if !tree.Equal(m, back) {
		t.Fatalf("round trip mismatch:\n%s\nwant %s\ngot  %s", data, spew.Sdump(tree.ToNative(m)), spew.Sdump(tree.ToNative(back)))
	}

	bm := back.(*tree.Mapping)
	assert.Equal(t, "Service name.", bm.Comment("name"))

	lines, _ := bm.Get("lines")
	assert.Equal(t, "multi\nline", lines.(*tree.Mapping).Comment("10"))
}

func TestEncodeOpaque(t *testing.T) {
	y, err := yamltree.Encode(tree.Opaque{Value: []int{1, 2}})
	require.NoError(t, err)
	require.Len(t, y.Content, 1)
	assert.Equal(t, yaml.SequenceNode, y.Content[0].Kind)

	n, err := yamltree.Decode(y)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, tree.ToNative(n))
}

type Upstream struct {
	schema.Configurable

	URL     string   `conf:"url" desc:"Base URL." validate:"not-blank"`
	Retries int      `conf:"retries,optional" validate:"range=0|10"`
	Hosts   []string `conf:"hosts,optional"`
}

func ExampleUnmarshal() {
	e, err := mapper.New(mapper.DefaultConfig(), mapper.WithInjector(traversal.DescriptionInjector{}))
	if err != nil {
		panic(err)
	}

	n, err := yamltree.Unmarshal([]byte("url: https://example.org\nretries: 3\nhosts: [a, b]\n"))
	if err != nil {
		panic(err)
	}

	up, err := mapper.Denormalize[Upstream](e, n)
	if err != nil {
		panic(err)
	}

	fmt.Println(up.URL, up.Retries, up.Hosts)

	up.Retries = 5

	out, err := e.Normalize(up)
	if err != nil {
		panic(err)
	}

	data, err := yamltree.Marshal(out)
	if err != nil {
		panic(err)
	}

	fmt.Print(string(data))
	// Output:
	// https://example.org 3 [a b]
	// # Base URL.
	// url: https://example.org
	// retries: 5
	// hosts:
	//   - a
	//   - b
}
