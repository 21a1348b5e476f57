package validation

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuiltins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		expr  string
		value any
		pass  bool
		msg   string
	}{
		{expr: "not-null", value: nil, pass: false, msg: "must not be null"},
		{expr: "not-null", value: (*int)(nil), pass: false, msg: "must not be null"},
		{expr: "not_null", value: []int(nil), pass: false, msg: "must not be null"},
		{expr: "nonnull", value: 0, pass: true},
		{expr: "not-null", value: ptr(3), pass: true},
		{expr: "not-empty", value: "", pass: false, msg: "must not be empty"},
		{expr: "not-empty", value: map[string]int{}, pass: false, msg: "must not be empty"},
		{expr: "not-empty", value: []int{1}, pass: true},
		{expr: "not-blank", value: " \t", pass: false, msg: "must not be blank"},
		{expr: "not-blank", value: ptr(" x "), pass: true},
		{expr: "range=0|10", value: 15, pass: false, msg: "value must be between 0 and 10"},
		{expr: "range=0|10", value: -1, pass: false, msg: "value must be between 0 and 10"},
		{expr: "range=0|10", value: 7, pass: true},
		{expr: "range=0|10", value: uint8(10), pass: true},
		{expr: "range=0.5|", value: 0.25, pass: false, msg: "value must be at least 0.5"},
		{expr: "range=|100", value: int64(-400), pass: true},
		{expr: "range=42", value: 41, pass: false, msg: "value must be 42"},
		{expr: "range=0|10", value: "7", pass: false, msg: "value must be a number"},
		{expr: "range=0|10", value: (*int)(nil), pass: true},
		{expr: "size=2|2", value: "abc", pass: false, msg: "size must be 2"},
		{expr: "size=2|2", value: "ab", pass: true},
		{expr: "size=2|2", value: "жё", pass: true},
		{expr: "size=1|", value: []string{}, pass: false, msg: "size must be at least 1"},
		{expr: "size=-5|1", value: map[int]int{1: 1}, pass: true},
		{expr: "size=3", value: [3]int{}, pass: true},
		{expr: "size=|3", value: 12, pass: false, msg: "value has no size"},
		{expr: "not-null, size=1|3, not-blank", value: "  ", pass: false, msg: "must not be blank"},
		{expr: "not-null , size = 1|3", value: "abcd", pass: false, msg: "size must be between 1 and 3"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.expr, tt.value), func(t *testing.T) {
			v, err := r.Parse(tt.expr, false)
			require.NoError(t, err)

			ok, msg := Evaluate(v, tt.value)
			assert.Equal(t, tt.pass, ok)
			assert.Equal(t, tt.msg, msg)

			assert.Equal(t, tt.pass, v.Check(tt.value))
			assert.Equal(t, tt.msg, v.Message())
		})
	}
}

func TestParseErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		expr       string
		token      string
		suggestion string
	}{
		{expr: "not null", token: "not null"},
		{expr: "range=", token: "range="},
		{expr: "range", token: "range"},
		{expr: "size=2||", token: "size=2||"},
		{expr: "size=a|b", token: "size=a|b"},
		{expr: "range=1|x", token: "range=1|x"},
		{expr: "size=1.5", token: "size=1.5"},
		{expr: "range=10|0", token: "range=10|0"},
		{expr: "size=5|2", token: "size=5|2"},
		{expr: "not-empty=1", token: "not-empty=1"},
		{expr: "rang=1|2", token: "rang", suggestion: "range"},
		{expr: "bogus", token: "bogus"},
		{expr: "9lives", token: "9lives"},
		{expr: "not-null,,not-empty"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := r.Parse(tt.expr, false)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.expr, pe.Expr)
			assert.Equal(t, tt.token, pe.Token)
			assert.Equal(t, tt.suggestion, pe.Suggestion)
		})
	}
}

func TestDisabled(t *testing.T) {
	r := NewRegistry()

	v, err := r.Parse("  ", true)
	require.NoError(t, err)
	assert.Equal(t, Disabled{Silent: true}, v)
	assert.True(t, v.Check(nil))
	assert.True(t, IsSilent(v))

	v, err = r.Parse("not-null", true)
	require.NoError(t, err)
	assert.True(t, IsSilent(v))
	assert.Equal(t, 1, v.(*Aggregated).Len())
}

type even struct{}

func (even) Check(value any) bool { return value.(int)%2 == 0 }

func (even) Message() string { return "must be even" }

func TestRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("even", func(_ string, present bool) (Validator, error) {
		if present {
			return nil, errors.New("takes no argument")
		}
		return even{}, nil
	}))
	require.Error(t, r.Register("not valid", func(string, bool) (Validator, error) { return even{}, nil }))
	require.Error(t, r.Register("nil", nil))
	assert.Contains(t, r.Names(), "even")

	v := r.MustParse("range=0|10, even")
	ok, msg := Evaluate(v, 3)
	assert.False(t, ok)
	assert.Equal(t, "must be even", msg)

	assert.Panics(t, func() { r.MustParse("even=2") })
}

func TestConcurrentEvaluate(t *testing.T) {
	v := NewRegistry().MustParse("range=0|10")

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, msg := Evaluate(v, n)
			if n <= 10 {
				assert.True(t, ok)
				assert.Empty(t, msg)
			} else {
				assert.False(t, ok)
				assert.Equal(t, "value must be between 0 and 10", msg)
			}
		}(i)
	}
	wg.Wait()
}

func ExampleRegistry_Parse() {
	v, err := NewRegistry().Parse("not-null, range=1|65535", false)
	if err != nil {
		panic(err)
	}

	fmt.Println(v.Check(8080))
	fmt.Println(v.Check(0), v.Message())

	_, err = NewRegistry().Parse("not null", false)
	fmt.Println(err)
	// Output:
	// true
	// false value must be between 1 and 65535
	// invalid validation expression "not null" at "not null": malformed identifier
}
