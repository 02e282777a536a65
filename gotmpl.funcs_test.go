package gotmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callHelper invokes a helper from the default registry directly.
func callHelper(t *testing.T, name string, args ...any) any {
	t.Helper()
	value, err := DefaultRegistry().Call(nil, name, args)
	require.NoError(t, err)
	return value
}

func TestBuiltinFuncs_Logic(t *testing.T) {
	assert.Equal(t, false, callHelper(t, "and", true, false, true))
	assert.Equal(t, "b", callHelper(t, "and", "a", "b"))
	assert.Equal(t, "a", callHelper(t, "or", "", "a"))
	assert.Equal(t, true, callHelper(t, "not", ""))
	assert.Equal(t, false, callHelper(t, "not", "x"))
}

func TestBuiltinFuncs_Comparison(t *testing.T) {
	assert.Equal(t, true, callHelper(t, "eq", 1, 1.0))
	assert.Equal(t, true, callHelper(t, "eq", "a", "b", "a"))
	assert.Equal(t, false, callHelper(t, "eq", 1, "1"))
	assert.Equal(t, true, callHelper(t, "ne", 1, 2))
	assert.Equal(t, true, callHelper(t, "lt", 1, 2))
	assert.Equal(t, true, callHelper(t, "le", 2, 2))
	assert.Equal(t, true, callHelper(t, "gt", "b", "a"))
	assert.Equal(t, true, callHelper(t, "ge", 3.5, 3))
}

func TestBuiltinFuncs_Comparison_IncompatibleKinds(t *testing.T) {
	_, err := DefaultRegistry().Call(nil, "lt", []any{1, "a"})
	assert.Error(t, err)
}

func TestBuiltinFuncs_LenIndexSlice(t *testing.T) {
	assert.Equal(t, 3, callHelper(t, "len", []any{1, 2, 3}))
	assert.Equal(t, 2, callHelper(t, "len", map[string]any{"a": 1, "b": 2}))
	assert.Equal(t, 5, callHelper(t, "len", "hello"))

	assert.Equal(t, 20, callHelper(t, "index", []any{10, 20, 30}, 1))
	assert.Equal(t, 1, callHelper(t, "index", map[string]any{"a": 1}, "a"))
	assert.Nil(t, callHelper(t, "index", map[string]any{}, "missing"))
	assert.Equal(t, "v",
		callHelper(t, "index", map[string]any{"a": map[string]any{"b": "v"}}, "a", "b"))

	_, err := DefaultRegistry().Call(nil, "index", []any{[]any{1}, 5})
	assert.Error(t, err)

	assert.Equal(t, []any{2, 3}, callHelper(t, "slice", []any{1, 2, 3}, 1))
	assert.Equal(t, "ell", callHelper(t, "slice", "hello", 1, 4))
}

func TestBuiltinFuncs_Printing(t *testing.T) {
	assert.Equal(t, "a1", callHelper(t, "print", "a", 1))
	assert.Equal(t, "1 2", callHelper(t, "print", 1, 2))
	assert.Equal(t, "a 1\n", callHelper(t, "println", "a", 1))
	assert.Equal(t, "x=7", callHelper(t, "printf", "x=%d", 7))
}

func TestBuiltinFuncs_Escaping(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;", callHelper(t, "html", "<b>"))
	assert.Equal(t, "a%2Bb%3Dc", callHelper(t, "urlquery", "a+b=c"))
	assert.Equal(t, `\"hi\"`, callHelper(t, "js", `"hi"`))
}

func TestBuiltinFuncs_Call(t *testing.T) {
	double := Callable(func(args []any) (any, error) {
		n, _ := CoerceInt(args[0])
		return n * 2, nil
	})
	assert.Equal(t, int64(6), callHelper(t, "call", double, 3))

	_, err := DefaultRegistry().Call(nil, "call", []any{"not callable"})
	assert.Error(t, err)
}

func TestStringFuncs(t *testing.T) {
	tests := []struct {
		name     string
		function string
		args     []any
		expected any
	}{
		{"upper", "upper", []any{"hi"}, "HI"},
		{"lower", "lower", []any{"HI"}, "hi"},
		{"title", "title", []any{"hello wide world"}, "Hello Wide World"},
		{"trim", "trim", []any{"  x  "}, "x"},
		{"trimAll", "trimAll", []any{"$", "$x$"}, "x"},
		{"trimPrefix", "trimPrefix", []any{"v", "v1.2"}, "1.2"},
		{"trimSuffix", "trimSuffix", []any{".go", "main.go"}, "main"},
		{"repeat", "repeat", []any{3, "ab"}, "ababab"},
		{"substr", "substr", []any{1, 3, "hello"}, "el"},
		{"substr negative end", "substr", []any{2, -1, "hello"}, "llo"},
		{"trunc", "trunc", []any{3, "hello"}, "hel"},
		{"trunc negative", "trunc", []any{-3, "hello"}, "llo"},
		{"contains", "contains", []any{"ell", "hello"}, true},
		{"hasPrefix", "hasPrefix", []any{"he", "hello"}, true},
		{"hasSuffix", "hasSuffix", []any{"lo", "hello"}, true},
		{"quote", "quote", []any{"a", "b"}, `"a" "b"`},
		{"squote", "squote", []any{"a"}, "'a'"},
		{"cat", "cat", []any{"a", 1, "b"}, "a 1 b"},
		{"indent", "indent", []any{2, "a\nb"}, "  a\n  b"},
		{"nindent", "nindent", []any{2, "a"}, "\n  a"},
		{"nospace", "nospace", []any{" a b\tc "}, "abc"},
		{"swapcase", "swapcase", []any{"aBc"}, "AbC"},
		{"camelcase", "camelcase", []any{"hello_wide_world"}, "helloWideWorld"},
		{"snakecase", "snakecase", []any{"HelloWideWorld"}, "hello_wide_world"},
		{"kebabcase", "kebabcase", []any{"helloWideWorld"}, "hello-wide-world"},
		{"splitList", "splitList", []any{",", "a,b"}, []any{"a", "b"}},
		{"join", "join", []any{"-", []any{"a", "b"}}, "a-b"},
		{"join stringifies", "join", []any{",", []any{1, 2}}, "1,2"},
		{"replace", "replace", []any{"o", "0", "foo"}, "f00"},
		{"wrap", "wrap", []any{5, "aa bb cc"}, "aa bb\ncc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, callHelper(t, tt.function, tt.args...))
		})
	}
}

func TestStringFuncs_SplitDict(t *testing.T) {
	result := callHelper(t, "split", ",", "a,b")
	dict, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a", dict["_0"])
	assert.Equal(t, "b", dict["_1"])
}

func TestListFuncs(t *testing.T) {
	abc := []any{"a", "b", "c"}

	assert.Equal(t, []any{1, "x"}, callHelper(t, "list", 1, "x"))
	assert.Equal(t, "a", callHelper(t, "first", abc))
	assert.Equal(t, []any{"b", "c"}, callHelper(t, "rest", abc))
	assert.Equal(t, "c", callHelper(t, "last", abc))
	assert.Equal(t, []any{"a", "b"}, callHelper(t, "initial", abc))
	assert.Equal(t, []any{"a", "b", "c", "d"}, callHelper(t, "append", abc, "d"))
	assert.Equal(t, []any{"z", "a", "b", "c"}, callHelper(t, "prepend", abc, "z"))
	assert.Equal(t, []any{"a", "b"}, callHelper(t, "concat", []any{"a"}, []any{"b"}))
	assert.Equal(t, []any{"c", "b", "a"}, callHelper(t, "reverse", abc))
	assert.Equal(t, []any{"a", "b"}, callHelper(t, "uniq", []any{"a", "b", "a"}))
	assert.Equal(t, []any{"a", "c"}, callHelper(t, "without", abc, "b"))
	assert.Equal(t, []any{"a", 1}, callHelper(t, "compact", []any{"a", "", nil, 0, 1}))
	assert.Equal(t, []any{"a", "b", "c"}, callHelper(t, "sortAlpha", []any{"c", "a", "b"}))
}

func TestListFuncs_EmptyEdgeCases(t *testing.T) {
	empty := []any{}

	assert.Nil(t, callHelper(t, "first", empty))
	assert.Nil(t, callHelper(t, "last", empty))
	assert.Equal(t, []any{}, callHelper(t, "rest", empty))
	assert.Equal(t, []any{}, callHelper(t, "initial", empty))
}

func TestDictFuncs(t *testing.T) {
	dict := callHelper(t, "dict", "a", 1, "b", 2).(map[string]any)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, dict)

	assert.Equal(t, 1, callHelper(t, "get", dict, "a"))
	assert.Nil(t, callHelper(t, "get", dict, "missing"))
	assert.Equal(t, true, callHelper(t, "hasKey", dict, "a"))
	assert.Equal(t, false, callHelper(t, "hasKey", dict, "z"))

	callHelper(t, "set", dict, "c", 3)
	assert.Equal(t, 3, dict["c"])
	callHelper(t, "unset", dict, "c")
	assert.NotContains(t, dict, "c")

	assert.Equal(t, []any{"a", "b"}, callHelper(t, "keys", dict))
	assert.Equal(t, []any{1, 2}, callHelper(t, "values", dict))
}

func TestDictFuncs_OddArgs(t *testing.T) {
	_, err := DefaultRegistry().Call(nil, "dict", []any{"a"})
	assert.Error(t, err)
}

func TestDictFuncs_PickOmitPluck(t *testing.T) {
	dict := map[string]any{"a": 1, "b": 2, "c": 3}

	assert.Equal(t, map[string]any{"a": 1, "c": 3}, callHelper(t, "pick", dict, "a", "c"))
	assert.Equal(t, map[string]any{"b": 2}, callHelper(t, "omit", dict, "a", "c"))
	assert.Equal(t, []any{1, 4},
		callHelper(t, "pluck", "a", dict, map[string]any{"a": 4}, map[string]any{"x": 9}))
}

func TestDictFuncs_MergeEarlierWins(t *testing.T) {
	overrides := map[string]any{"a": 1}
	defaults := map[string]any{"a": 9, "b": 2}

	merged := callHelper(t, "merge", overrides, defaults)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged)
}

func TestDictFuncs_Dig(t *testing.T) {
	cfg := map[string]any{"server": map[string]any{"port": 8080}}

	assert.Equal(t, 8080, callHelper(t, "dig", "server", "port", "none", cfg))
	assert.Equal(t, "none", callHelper(t, "dig", "server", "host", "none", cfg))
	assert.Equal(t, "none", callHelper(t, "dig", "missing", "port", "none", cfg))
}

func TestDictFuncs_JSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, callHelper(t, "toJson", map[string]any{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}", callHelper(t, "toPrettyJson", map[string]any{"a": 1}))

	decoded := callHelper(t, "fromJson", `{"a": 1}`)
	assert.Equal(t, map[string]any{"a": float64(1)}, decoded)

	_, err := DefaultRegistry().Call(nil, "fromJson", []any{"not json"})
	assert.Error(t, err)
}

func TestFlowFuncs(t *testing.T) {
	assert.Equal(t, "anon", callHelper(t, "default", "anon", ""))
	assert.Equal(t, "bo", callHelper(t, "default", "anon", "bo"))
	assert.Equal(t, true, callHelper(t, "empty", ""))
	assert.Equal(t, false, callHelper(t, "empty", "x"))
	assert.Equal(t, "a", callHelper(t, "coalesce", "", nil, "a"))
	assert.Nil(t, callHelper(t, "coalesce", "", nil))
	assert.Equal(t, "y", callHelper(t, "ternary", "y", "n", true))
	assert.Equal(t, "n", callHelper(t, "ternary", "y", "n", false))
}

func TestFlowFuncs_Fail(t *testing.T) {
	_, err := DefaultRegistry().Call(nil, "fail", []any{"boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRegistry_ArityChecks(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Call(nil, "not", nil)
	assert.Error(t, err)

	_, err = registry.Call(nil, "not", []any{true, false})
	assert.Error(t, err)

	_, err = registry.Call(nil, "nonexistent", nil)
	assert.Error(t, err)
}

func TestBuilder_LaterPackShadows(t *testing.T) {
	registry := NewBuilder().
		Register(&Func{Name: "greet", MinArgs: 0, MaxArgs: 0, Fn: func(*State, []any) (any, error) {
			return "first", nil
		}}).
		Register(&Func{Name: "greet", MinArgs: 0, MaxArgs: 0, Fn: func(*State, []any) (any, error) {
			return "second", nil
		}}).
		Build()

	value, err := registry.Call(nil, "greet", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestBuilder_BuildIsFrozen(t *testing.T) {
	builder := NewBuilder().Register(&Func{
		Name: "a", MinArgs: 0, MaxArgs: 0,
		Fn: func(*State, []any) (any, error) { return nil, nil },
	})
	registry := builder.Build()

	builder.Register(&Func{
		Name: "b", MinArgs: 0, MaxArgs: 0,
		Fn: func(*State, []any) (any, error) { return nil, nil },
	})

	assert.True(t, registry.Has("a"))
	assert.False(t, registry.Has("b"))
}

func TestTypeMismatch_SurfacesAsRenderKind(t *testing.T) {
	engine := MustNew()

	_, err := engine.Render(`{{join "-" .notalist}}`, map[string]any{"notalist": 42})
	require.Error(t, err)
	assert.Equal(t, KindTypeMismatch, ErrorKind(err))
}
