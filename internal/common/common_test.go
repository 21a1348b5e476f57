package common

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		full, alias, name string
	}{
		{"config-mapper/mapper.moneyFromString", "mapper", "moneyFromString"},
		{"github.com/acme/conv.Parse", "conv", "Parse"},
		{"github.com/acme/conv.(*T).Parse", "conv", "(*T).Parse"},
		{"main.main.func1", "main", "main.func1"},
		{"bare", "", "bare"},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			alias, name := SplitFuncName(tt.full)
			assert.Equal(t, tt.alias, alias)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "time.Duration", TypeName(reflect.TypeFor[time.Duration]()))
	assert.Equal(t, "[]string", TypeName(reflect.TypeFor[[]string]()))
	assert.Equal(t, "<nil>", TypeName(nil))
	assert.Empty(t, PkgAlias(""))
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Dedup([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, Dedup([]int(nil)))
}
