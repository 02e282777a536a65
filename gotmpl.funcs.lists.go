package gotmpl

import (
	"sort"
)

// ListFuncs returns the list helper pack. List-consuming helpers take the
// list as their final argument; none of them mutate their input.
func ListFuncs() []*Func {
	return []*Func{
		{Name: "list", MinArgs: 0, MaxArgs: Variadic, Fn: listMake},
		{Name: "first", MinArgs: 1, MaxArgs: 1, Fn: listFirst},
		{Name: "rest", MinArgs: 1, MaxArgs: 1, Fn: listRest},
		{Name: "last", MinArgs: 1, MaxArgs: 1, Fn: listLast},
		{Name: "initial", MinArgs: 1, MaxArgs: 1, Fn: listInitial},
		{Name: "append", MinArgs: 2, MaxArgs: 2, Fn: listAppend},
		{Name: "prepend", MinArgs: 2, MaxArgs: 2, Fn: listPrepend},
		{Name: "concat", MinArgs: 0, MaxArgs: Variadic, Fn: listConcat},
		{Name: "reverse", MinArgs: 1, MaxArgs: 1, Fn: listReverse},
		{Name: "uniq", MinArgs: 1, MaxArgs: 1, Fn: listUniq},
		{Name: "without", MinArgs: 1, MaxArgs: Variadic, Fn: listWithout},
		{Name: "compact", MinArgs: 1, MaxArgs: 1, Fn: listCompact},
		{Name: "sortAlpha", MinArgs: 1, MaxArgs: 1, Fn: listSortAlpha},
	}
}

func listMake(_ *State, args []any) (any, error) {
	result := make([]any, len(args))
	copy(result, args)
	return result, nil
}

func listFirst(_ *State, args []any) (any, error) {
	list, err := argList("first", args, 0)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func listRest(_ *State, args []any) (any, error) {
	list, err := argList("rest", args, 0)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []any{}, nil
	}
	result := make([]any, len(list)-1)
	copy(result, list[1:])
	return result, nil
}

func listLast(_ *State, args []any) (any, error) {
	list, err := argList("last", args, 0)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func listInitial(_ *State, args []any) (any, error) {
	list, err := argList("initial", args, 0)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []any{}, nil
	}
	result := make([]any, len(list)-1)
	copy(result, list[:len(list)-1])
	return result, nil
}

func listAppend(_ *State, args []any) (any, error) {
	list, err := argList("append", args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]any, 0, len(list)+1)
	result = append(result, list...)
	return append(result, args[1]), nil
}

func listPrepend(_ *State, args []any) (any, error) {
	list, err := argList("prepend", args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]any, 0, len(list)+1)
	result = append(result, args[1])
	return append(result, list...), nil
}

func listConcat(_ *State, args []any) (any, error) {
	var result []any
	for i := range args {
		list, err := argList("concat", args, i)
		if err != nil {
			return nil, err
		}
		result = append(result, list...)
	}
	if result == nil {
		result = []any{}
	}
	return result, nil
}

func listReverse(_ *State, args []any) (any, error) {
	list, err := argList("reverse", args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]any, len(list))
	for i, item := range list {
		result[len(list)-1-i] = item
	}
	return result, nil
}

// listUniq keeps the first occurrence of each value, in order.
func listUniq(_ *State, args []any) (any, error) {
	list, err := argList("uniq", args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]any, 0, len(list))
	for _, item := range list {
		if !containsValue(result, item) {
			result = append(result, item)
		}
	}
	return result, nil
}

func listWithout(_ *State, args []any) (any, error) {
	list, err := argList("without", args, 0)
	if err != nil {
		return nil, err
	}
	omit := args[1:]
	result := make([]any, 0, len(list))
	for _, item := range list {
		if !containsValue(omit, item) {
			result = append(result, item)
		}
	}
	return result, nil
}

// listCompact drops empty values: nil, false, zero, "", and empty lists
// and maps.
func listCompact(_ *State, args []any) (any, error) {
	list, err := argList("compact", args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]any, 0, len(list))
	for _, item := range list {
		if !IsEmpty(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

func listSortAlpha(_ *State, args []any) (any, error) {
	list, err := argList("sortAlpha", args, 0)
	if err != nil {
		return nil, err
	}
	strs := make([]string, len(list))
	for i, item := range list {
		strs[i] = Stringify(item)
	}
	sort.Strings(strs)
	result := make([]any, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result, nil
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if EqualValues(item, v) {
			return true
		}
	}
	return false
}
