package gotmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"zero int", 0, false},
		{"nonzero int", 7, true},
		{"zero float", 0.0, false},
		{"empty string", "", false},
		{"string", "x", true},
		{"empty list", []any{}, false},
		{"list", []any{1}, true},
		{"empty map", map[string]any{}, false},
		{"map", map[string]any{"a": 1}, true},
		{"struct value", struct{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truthy(tt.value))
			assert.Equal(t, !tt.expected, IsEmpty(tt.value))
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil", nil, "<no value>"},
		{"string", "x", "x"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative int", -3, "-3"},
		{"float whole", 2.0, "2"},
		{"float fraction", 2.5, "2.5"},
		{"list", []any{1, "a"}, `[1,"a"]`},
		{"map sorted keys", map[string]any{"b": 2, "a": 1}, `{"a":1,"b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stringify(tt.value))
		})
	}
}

func TestEqualValues(t *testing.T) {
	assert.True(t, EqualValues(1, 1.0))
	assert.True(t, EqualValues("a", "a"))
	assert.True(t, EqualValues(nil, nil))
	assert.True(t, EqualValues([]any{1, "a"}, []any{1.0, "a"}))
	assert.True(t, EqualValues(
		map[string]any{"a": 1},
		map[string]any{"a": 1.0}))

	assert.False(t, EqualValues(1, "1"))
	assert.False(t, EqualValues(true, 1))
	assert.False(t, EqualValues([]any{1}, []any{1, 2}))
}

func TestCompareValues(t *testing.T) {
	c, err := CompareValues(1, 2)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = CompareValues(2.5, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = CompareValues("b", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	_, err = CompareValues(1, "a")
	assert.Error(t, err)

	_, err = CompareValues(true, false)
	assert.Error(t, err)
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]any{"c": 1, "a": 2, "b": 3})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Empty(t, SortedKeys(nil))
}

func TestCoercions(t *testing.T) {
	f, ok := CoerceFloat(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	n, ok := CoerceInt(3.9)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok = CoerceFloat("nope")
	assert.False(t, ok)
	_, ok = CoerceInt(nil)
	assert.False(t, ok)
}
