package gotmpl

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/itsatony/go-gotmpl/internal"
)

// Callable is the value type the call helper invokes. Helpers that return
// a Callable let templates apply it with {{call .fn arg ...}}.
type Callable func(args []any) (any, error)

// BuiltinFuncs returns the core helper pack: boolean logic, comparisons,
// indexing, printing, and escaping. Comparison operators in template
// actions ({{if .a == .b}}) are rewritten to these helpers at parse time,
// so removing eq/ne/lt/le/gt/ge from a custom registry also removes the
// operator syntax.
func BuiltinFuncs() []*Func {
	return []*Func{
		{Name: "and", MinArgs: 1, MaxArgs: Variadic, Fn: builtinAnd},
		{Name: "or", MinArgs: 1, MaxArgs: Variadic, Fn: builtinOr},
		{Name: "not", MinArgs: 1, MaxArgs: 1, Fn: builtinNot},
		{Name: "eq", MinArgs: 2, MaxArgs: Variadic, Fn: builtinEq},
		{Name: "ne", MinArgs: 2, MaxArgs: 2, Fn: builtinNe},
		{Name: "lt", MinArgs: 2, MaxArgs: 2, Fn: compareFunc("lt", func(c int) bool { return c < 0 })},
		{Name: "le", MinArgs: 2, MaxArgs: 2, Fn: compareFunc("le", func(c int) bool { return c <= 0 })},
		{Name: "gt", MinArgs: 2, MaxArgs: 2, Fn: compareFunc("gt", func(c int) bool { return c > 0 })},
		{Name: "ge", MinArgs: 2, MaxArgs: 2, Fn: compareFunc("ge", func(c int) bool { return c >= 0 })},
		{Name: "len", MinArgs: 1, MaxArgs: 1, Fn: builtinLen},
		{Name: "index", MinArgs: 1, MaxArgs: Variadic, Fn: builtinIndex},
		{Name: "slice", MinArgs: 1, MaxArgs: 3, Fn: builtinSlice},
		{Name: "print", MinArgs: 0, MaxArgs: Variadic, Fn: builtinPrint},
		{Name: "println", MinArgs: 0, MaxArgs: Variadic, Fn: builtinPrintln},
		{Name: "printf", MinArgs: 1, MaxArgs: Variadic, Fn: builtinPrintf},
		{Name: "html", MinArgs: 1, MaxArgs: 1, Fn: builtinHTML},
		{Name: "js", MinArgs: 1, MaxArgs: 1, Fn: builtinJS},
		{Name: "urlquery", MinArgs: 1, MaxArgs: 1, Fn: builtinURLQuery},
		{Name: "call", MinArgs: 1, MaxArgs: Variadic, Fn: builtinCall},
	}
}

// builtinAnd returns the first falsy argument, or the last argument when
// all are truthy. Arguments are already evaluated; there is no short
// circuit.
func builtinAnd(_ *State, args []any) (any, error) {
	for _, arg := range args {
		if !Truthy(arg) {
			return arg, nil
		}
	}
	return args[len(args)-1], nil
}

// builtinOr returns the first truthy argument, or the last argument when
// all are falsy.
func builtinOr(_ *State, args []any) (any, error) {
	for _, arg := range args {
		if Truthy(arg) {
			return arg, nil
		}
	}
	return args[len(args)-1], nil
}

func builtinNot(_ *State, args []any) (any, error) {
	return !Truthy(args[0]), nil
}

// builtinEq reports whether the first argument equals any of the rest.
func builtinEq(_ *State, args []any) (any, error) {
	for _, arg := range args[1:] {
		if EqualValues(args[0], arg) {
			return true, nil
		}
	}
	return false, nil
}

func builtinNe(_ *State, args []any) (any, error) {
	return !EqualValues(args[0], args[1]), nil
}

func compareFunc(name string, accept func(int) bool) func(*State, []any) (any, error) {
	return func(_ *State, args []any) (any, error) {
		c, err := CompareValues(args[0], args[1])
		if err != nil {
			return nil, internal.NewFuncError(internal.ErrMsgFuncComparableKinds, name)
		}
		return accept(c), nil
	}
}

func builtinLen(_ *State, args []any) (any, error) {
	n, ok := internal.Length(args[0])
	if !ok {
		return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedList, "len", 0)
	}
	return n, nil
}

// builtinIndex indexes its first argument by the remaining arguments in
// order: maps by string key, lists by integer position. A missing map key
// yields nil; an out-of-range list index is an error.
func builtinIndex(_ *State, args []any) (any, error) {
	current := args[0]
	for i, key := range args[1:] {
		switch container := current.(type) {
		case map[string]any:
			name, ok := key.(string)
			if !ok {
				return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedString, "index", i+1)
			}
			current = container[name]
		case []any:
			idx, ok := internal.CoerceInt(key)
			if !ok {
				return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedNumber, "index", i+1)
			}
			if idx < 0 || idx >= int64(len(container)) {
				return nil, internal.NewFuncError(ErrMsgIndexOutOfRange, "index")
			}
			current = container[idx]
		case nil:
			return nil, nil
		default:
			return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedList, "index", i)
		}
	}
	return current, nil
}

// builtinSlice slices a list or string: slice x, slice x i, slice x i j.
func builtinSlice(_ *State, args []any) (any, error) {
	start := 0
	end := -1
	var err error
	if len(args) > 1 {
		if start, err = argInt("slice", args, 1); err != nil {
			return nil, err
		}
	}
	if len(args) > 2 {
		if end, err = argInt("slice", args, 2); err != nil {
			return nil, err
		}
	}

	switch val := args[0].(type) {
	case []any:
		if end < 0 {
			end = len(val)
		}
		if start < 0 || end > len(val) || start > end {
			return nil, internal.NewFuncError(ErrMsgIndexOutOfRange, "slice")
		}
		return val[start:end], nil
	case string:
		if end < 0 {
			end = len(val)
		}
		if start < 0 || end > len(val) || start > end {
			return nil, internal.NewFuncError(ErrMsgIndexOutOfRange, "slice")
		}
		return val[start:end], nil
	default:
		return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedList, "slice", 0)
	}
}

// sprintArgs renders arguments the way fmt.Sprint does: a space separates
// two neighbors only when neither is a string.
func sprintArgs(args []any) string {
	var out strings.Builder
	for i, arg := range args {
		if i > 0 {
			_, prevStr := args[i-1].(string)
			_, curStr := arg.(string)
			if !prevStr && !curStr {
				out.WriteByte(' ')
			}
		}
		out.WriteString(Stringify(arg))
	}
	return out.String()
}

func builtinPrint(_ *State, args []any) (any, error) {
	return sprintArgs(args), nil
}

func builtinPrintln(_ *State, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Stringify(arg)
	}
	return strings.Join(parts, " ") + "\n", nil
}

func builtinPrintf(_ *State, args []any) (any, error) {
	format, err := argString("printf", args, 0)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf(format, args[1:]...), nil
}

func builtinHTML(_ *State, args []any) (any, error) {
	return html.EscapeString(Stringify(args[0])), nil
}

// jsEscapes maps characters that must be escaped inside JavaScript string
// literals.
var jsEscapes = map[rune]string{
	'\\': `\\`,
	'\'': `\'`,
	'"':  `\"`,
	'<':  "\\u003C",
	'>':  "\\u003E",
	'&':  "\\u0026",
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
}

func builtinJS(_ *State, args []any) (any, error) {
	var out strings.Builder
	for _, r := range Stringify(args[0]) {
		if esc, ok := jsEscapes[r]; ok {
			out.WriteString(esc)
			continue
		}
		out.WriteRune(r)
	}
	return out.String(), nil
}

func builtinURLQuery(_ *State, args []any) (any, error) {
	return url.QueryEscape(Stringify(args[0])), nil
}

// builtinCall applies a Callable value to the remaining arguments.
func builtinCall(_ *State, args []any) (any, error) {
	fn, ok := args[0].(Callable)
	if !ok {
		return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedCallable, "call", 0)
	}
	return fn(args[1:])
}
