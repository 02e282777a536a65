package gotmpl

import (
	"github.com/itsatony/go-gotmpl/internal"
)

// Argument coercion helpers shared by the built-in packs. Each returns a
// FuncTypeError naming the function and offending argument index, which
// renders surface as type-mismatch errors.

// argString requires args[i] to be a string.
func argString(name string, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", internal.NewFuncTypeError(internal.ErrMsgFuncExpectedString, name, i)
	}
	return s, nil
}

// argNumber requires args[i] to be numeric and coerces it to float64.
func argNumber(name string, args []any, i int) (float64, error) {
	f, ok := internal.CoerceFloat(args[i])
	if !ok {
		return 0, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedNumber, name, i)
	}
	return f, nil
}

// argInt requires args[i] to be numeric and coerces it to int.
func argInt(name string, args []any, i int) (int, error) {
	n, ok := internal.CoerceInt(args[i])
	if !ok {
		return 0, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedNumber, name, i)
	}
	return int(n), nil
}

// argList requires args[i] to be a list.
func argList(name string, args []any, i int) ([]any, error) {
	l, ok := args[i].([]any)
	if !ok {
		return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedList, name, i)
	}
	return l, nil
}

// argDict requires args[i] to be a dict.
func argDict(name string, args []any, i int) (map[string]any, error) {
	d, ok := args[i].(map[string]any)
	if !ok {
		return nil, internal.NewFuncTypeError(internal.ErrMsgFuncExpectedDict, name, i)
	}
	return d, nil
}
