package primitive_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-mapper/options"
	"config-mapper/primitive"
)

type level string

type port uint16

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		target  reflect.Type
		allowed options.CategoryEnum
		want    any
		wantErr string
	}{
		{"int64 to int8", int64(12), reflect.TypeFor[int8](), options.CategoryNone, int8(12), ""},
		{"int64 overflows int8", int64(300), reflect.TypeFor[int8](), options.CategoryDefault, nil, "overflows 8 bits"},
		{"int to named uint16", 8080, reflect.TypeFor[port](), options.CategoryDefault, port(8080), ""},
		{"negative to unsigned", int64(-1), reflect.TypeFor[uint](), options.CategoryDefault, nil, "negative value"},
		{"whole float to int", 42.0, reflect.TypeFor[int](), options.CategoryDefault, 42, ""},
		{"fraction to int", 4.5, reflect.TypeFor[int](), options.CategoryDefault, nil, "not a whole number"},
		{"fraction to int unsafe", 4.5, reflect.TypeFor[int](), options.CategoryUnsafeNumber, 4, ""},
		{"text to int", "0x10", reflect.TypeFor[int](), options.CategoryDefault, 16, ""},
		{"text to int disabled", "16", reflect.TypeFor[int](), options.CategorySafeNumber, nil, "text-number"},
		{"int to text", int64(7), reflect.TypeFor[string](), options.CategoryDefault, "7", ""},
		{"string to named string", "debug", reflect.TypeFor[level](), options.CategoryNone, level("debug"), ""},
		{"textual bool", "Yes", reflect.TypeFor[bool](), options.CategoryDefault, true, ""},
		{"textual bool invalid", "maybe", reflect.TypeFor[bool](), options.CategoryDefault, nil, "only strings"},
		{"numeric bool disabled", int64(1), reflect.TypeFor[bool](), options.CategoryDefault, nil, "numeric-bool"},
		{"numeric bool", int64(1), reflect.TypeFor[bool](), options.CategoryNumericBool, true, ""},
		{"int to float", int64(3), reflect.TypeFor[float64](), options.CategoryDefault, 3.0, ""},
		{"float64 to float32 exact", 0.5, reflect.TypeFor[float32](), options.CategoryDefault, float32(0.5), ""},
		{"float64 to float32 rounds", 0.1, reflect.TypeFor[float32](), options.CategoryDefault, float32(0.1), ""},
		{"text to float32 rounds", "0.1", reflect.TypeFor[float32](), options.CategoryDefault, float32(0.1), ""},
		{"float64 overflows float32", 1e39, reflect.TypeFor[float32](), options.CategoryDefault, nil, "overflows 32 bits"},
		{"struct target", "x", reflect.TypeFor[struct{}](), options.CategoryAll, nil, "not a scalar type"},
		{"nil value", nil, reflect.TypeFor[int](), options.CategoryAll, nil, "value is not a scalar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Convert(tt.value, tt.target, tt.allowed)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var convErr *primitive.ConversionError
				assert.ErrorAs(t, err, &convErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in   any
		want any
	}{
		{int8(-3), int64(-3)},
		{port(80), uint64(80)},
		{float32(1.5), 1.5},
		{level("info"), "info"},
		{true, true},
	} {
		got, ok := primitive.Canonical(reflect.ValueOf(tt.in))
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	_, ok := primitive.Canonical(reflect.ValueOf([]int{1}))
	assert.False(t, ok)
}
