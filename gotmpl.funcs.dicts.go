package gotmpl

import (
	"encoding/json"

	"github.com/itsatony/go-gotmpl/internal"
)

// DictFuncs returns the dict helper pack. Helpers that enumerate keys
// return them sorted, matching the deterministic order of range over a
// map. set and unset mutate their dict in place and return it so pipeline
// chains compose; all other helpers return fresh dicts.
func DictFuncs() []*Func {
	return []*Func{
		{Name: "dict", MinArgs: 0, MaxArgs: Variadic, Fn: dictMake},
		{Name: "get", MinArgs: 2, MaxArgs: 2, Fn: dictGet},
		{Name: "set", MinArgs: 3, MaxArgs: 3, Fn: dictSet},
		{Name: "unset", MinArgs: 2, MaxArgs: 2, Fn: dictUnset},
		{Name: "hasKey", MinArgs: 2, MaxArgs: 2, Fn: dictHasKey},
		{Name: "keys", MinArgs: 1, MaxArgs: Variadic, Fn: dictKeys},
		{Name: "values", MinArgs: 1, MaxArgs: 1, Fn: dictValues},
		{Name: "pick", MinArgs: 1, MaxArgs: Variadic, Fn: dictPick},
		{Name: "omit", MinArgs: 1, MaxArgs: Variadic, Fn: dictOmit},
		{Name: "pluck", MinArgs: 1, MaxArgs: Variadic, Fn: dictPluck},
		{Name: "merge", MinArgs: 1, MaxArgs: Variadic, Fn: dictMerge},
		{Name: "dig", MinArgs: 3, MaxArgs: Variadic, Fn: dictDig},
		{Name: "toJson", MinArgs: 1, MaxArgs: 1, Fn: dictToJSON},
		{Name: "toPrettyJson", MinArgs: 1, MaxArgs: 1, Fn: dictToPrettyJSON},
		{Name: "fromJson", MinArgs: 1, MaxArgs: 1, Fn: dictFromJSON},
	}
}

// dictMake builds a dict from alternating key/value arguments.
func dictMake(_ *State, args []any) (any, error) {
	if len(args)%2 != 0 {
		return nil, internal.NewFuncError(ErrMsgOddDictArgs, "dict")
	}
	result := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, err := argString("dict", args, i)
		if err != nil {
			return nil, err
		}
		result[key] = args[i+1]
	}
	return result, nil
}

func dictGet(_ *State, args []any) (any, error) {
	dict, err := argDict("get", args, 0)
	if err != nil {
		return nil, err
	}
	key, err := argString("get", args, 1)
	if err != nil {
		return nil, err
	}
	return dict[key], nil
}

func dictSet(_ *State, args []any) (any, error) {
	dict, err := argDict("set", args, 0)
	if err != nil {
		return nil, err
	}
	key, err := argString("set", args, 1)
	if err != nil {
		return nil, err
	}
	dict[key] = args[2]
	return dict, nil
}

func dictUnset(_ *State, args []any) (any, error) {
	dict, err := argDict("unset", args, 0)
	if err != nil {
		return nil, err
	}
	key, err := argString("unset", args, 1)
	if err != nil {
		return nil, err
	}
	delete(dict, key)
	return dict, nil
}

func dictHasKey(_ *State, args []any) (any, error) {
	dict, err := argDict("hasKey", args, 0)
	if err != nil {
		return nil, err
	}
	key, err := argString("hasKey", args, 1)
	if err != nil {
		return nil, err
	}
	_, ok := dict[key]
	return ok, nil
}

// dictKeys returns the union of the keys of all argument dicts, sorted.
func dictKeys(_ *State, args []any) (any, error) {
	seen := make(map[string]any)
	for i := range args {
		dict, err := argDict("keys", args, i)
		if err != nil {
			return nil, err
		}
		for key := range dict {
			seen[key] = nil
		}
	}
	keys := SortedKeys(seen)
	result := make([]any, len(keys))
	for i, key := range keys {
		result[i] = key
	}
	return result, nil
}

// dictValues returns the dict's values ordered by sorted key.
func dictValues(_ *State, args []any) (any, error) {
	dict, err := argDict("values", args, 0)
	if err != nil {
		return nil, err
	}
	keys := SortedKeys(dict)
	result := make([]any, len(keys))
	for i, key := range keys {
		result[i] = dict[key]
	}
	return result, nil
}

func dictPick(_ *State, args []any) (any, error) {
	dict, err := argDict("pick", args, 0)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any)
	for i := 1; i < len(args); i++ {
		key, err := argString("pick", args, i)
		if err != nil {
			return nil, err
		}
		if value, ok := dict[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func dictOmit(_ *State, args []any) (any, error) {
	dict, err := argDict("omit", args, 0)
	if err != nil {
		return nil, err
	}
	omit := make(map[string]bool, len(args)-1)
	for i := 1; i < len(args); i++ {
		key, err := argString("omit", args, i)
		if err != nil {
			return nil, err
		}
		omit[key] = true
	}
	result := make(map[string]any)
	for key, value := range dict {
		if !omit[key] {
			result[key] = value
		}
	}
	return result, nil
}

// dictPluck collects the named key from each argument dict, skipping dicts
// that lack it.
func dictPluck(_ *State, args []any) (any, error) {
	key, err := argString("pluck", args, 0)
	if err != nil {
		return nil, err
	}
	result := []any{}
	for i := 1; i < len(args); i++ {
		dict, err := argDict("pluck", args, i)
		if err != nil {
			return nil, err
		}
		if value, ok := dict[key]; ok {
			result = append(result, value)
		}
	}
	return result, nil
}

// dictMerge merges later dicts into a copy of the first; earlier keys win,
// matching an overlay-defaults pattern: {{merge .overrides .defaults}}.
func dictMerge(_ *State, args []any) (any, error) {
	result := make(map[string]any)
	for i := range args {
		dict, err := argDict("merge", args, i)
		if err != nil {
			return nil, err
		}
		for key, value := range dict {
			if _, exists := result[key]; !exists {
				result[key] = value
			}
		}
	}
	return result, nil
}

// dictDig walks nested dicts by the leading key arguments, returning the
// penultimate argument as default when any step is missing. The dict is
// the final argument: {{dig "a" "b" "fallback" .cfg}}.
func dictDig(_ *State, args []any) (any, error) {
	fallback := args[len(args)-2]
	dict, err := argDict("dig", args, len(args)-1)
	if err != nil {
		return nil, err
	}

	keys := args[:len(args)-2]
	var current any = dict
	for i := range keys {
		key, err := argString("dig", args, i)
		if err != nil {
			return nil, err
		}
		step, ok := current.(map[string]any)
		if !ok {
			return fallback, nil
		}
		current, ok = step[key]
		if !ok {
			return fallback, nil
		}
	}
	return current, nil
}

func dictToJSON(_ *State, args []any) (any, error) {
	encoded, err := json.Marshal(args[0])
	if err != nil {
		return nil, internal.NewFuncError(err.Error(), "toJson")
	}
	return string(encoded), nil
}

func dictToPrettyJSON(_ *State, args []any) (any, error) {
	encoded, err := json.MarshalIndent(args[0], "", "  ")
	if err != nil {
		return nil, internal.NewFuncError(err.Error(), "toPrettyJson")
	}
	return string(encoded), nil
}

func dictFromJSON(_ *State, args []any) (any, error) {
	source, err := argString("fromJson", args, 0)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal([]byte(source), &decoded); err != nil {
		return nil, internal.NewFuncError(err.Error(), "fromJson")
	}
	return decoded, nil
}
