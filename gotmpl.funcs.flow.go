package gotmpl

import (
	"errors"
)

// FlowFuncs returns the flow-control helper pack: defaults, emptiness
// tests, and explicit failure.
func FlowFuncs() []*Func {
	return []*Func{
		{Name: "default", MinArgs: 2, MaxArgs: 2, Fn: flowDefault},
		{Name: "empty", MinArgs: 1, MaxArgs: 1, Fn: flowEmpty},
		{Name: "coalesce", MinArgs: 1, MaxArgs: Variadic, Fn: flowCoalesce},
		{Name: "ternary", MinArgs: 3, MaxArgs: 3, Fn: flowTernary},
		{Name: "fail", MinArgs: 1, MaxArgs: 1, Fn: flowFail},
	}
}

// flowDefault takes the fallback first so pipelines read naturally:
// {{.nickname | default "anonymous"}}.
func flowDefault(_ *State, args []any) (any, error) {
	if IsEmpty(args[1]) {
		return args[0], nil
	}
	return args[1], nil
}

func flowEmpty(_ *State, args []any) (any, error) {
	return IsEmpty(args[0]), nil
}

// flowCoalesce returns the first non-empty argument, or nil when every
// argument is empty.
func flowCoalesce(_ *State, args []any) (any, error) {
	for _, arg := range args {
		if !IsEmpty(arg) {
			return arg, nil
		}
	}
	return nil, nil
}

// flowTernary selects between its first two arguments on the truthiness of
// the third: {{.isAdmin | ternary "admin" "user"}}.
func flowTernary(_ *State, args []any) (any, error) {
	if Truthy(args[2]) {
		return args[0], nil
	}
	return args[1], nil
}

// flowFail aborts the render with the given message. The whole render
// fails; partial output is discarded.
func flowFail(_ *State, args []any) (any, error) {
	return nil, errors.New(Stringify(args[0]))
}
