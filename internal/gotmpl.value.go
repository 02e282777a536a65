package internal

import (
	"encoding/json"
	"sort"
	"strconv"
)

// IsTruthy reports whether a value counts as true in conditional contexts.
// False values are nil, false, numeric zero, and empty strings, lists, and
// maps. Everything else is true.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// IsEmpty reports whether a value is the empty value of its kind: nil,
// false, zero, the empty string, or an empty list or map.
func IsEmpty(v any) bool {
	return !IsTruthy(v)
}

// Stringify converts a value to its rendered text form. Nil renders as
// "<no value>", booleans lower-case, floats in their shortest form, and
// lists and maps as compact JSON with sorted map keys.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return StrNoValue
	case string:
		return val
	case bool:
		if val {
			return StrTrue
		}
		return StrFalse
	case int:
		return strconv.FormatInt(int64(val), IntParseBase)
	case int32:
		return strconv.FormatInt(int64(val), IntParseBase)
	case int64:
		return strconv.FormatInt(val, IntParseBase)
	case uint:
		return strconv.FormatUint(uint64(val), IntParseBase)
	case uint64:
		return strconv.FormatUint(val, IntParseBase)
	case float32:
		return strconv.FormatFloat(float64(val), FloatFmtFlag, FloatFmtPrec, FloatBitSize)
	case float64:
		return strconv.FormatFloat(val, FloatFmtFlag, FloatFmtPrec, FloatBitSize)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return StrNoValue
		}
		return string(encoded)
	}
}

// SortedKeys returns the keys of a map in sorted order. Deterministic key
// order is part of the rendering contract.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsNumber reports whether the value is any supported numeric type.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int32, int64, uint, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the value is an integer-typed number.
func IsInteger(v any) bool {
	switch v.(type) {
	case int, int32, int64, uint, uint64:
		return true
	default:
		return false
	}
}

// CoerceFloat converts any supported numeric value to float64.
func CoerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// CoerceInt converts any supported numeric value to int64, truncating
// floats.
func CoerceInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return int64(val), true
	case uint64:
		return int64(val), true
	case float32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

// EqualValues compares two values for equality. Numbers compare
// numerically across integer and float kinds; all other kinds must match
// exactly. Mixed non-numeric kinds are unequal, never an error.
func EqualValues(a, b any) bool {
	if IsNumber(a) && IsNumber(b) {
		fa, _ := CoerceFloat(a)
		fb, _ := CoerceFloat(b)
		return fa == fb
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !EqualValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, val := range av {
			other, exists := bv[key]
			if !exists || !EqualValues(val, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CompareValues orders two values: -1, 0, or 1. Numbers order numerically,
// strings byte-wise. Any other combination is a type mismatch.
func CompareValues(a, b any) (int, error) {
	if IsNumber(a) && IsNumber(b) {
		fa, _ := CoerceFloat(a)
		fb, _ := CoerceFloat(b)
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}

	return 0, NewFuncError(ErrMsgFuncComparableKinds, "")
}

// Length returns the length of a string, list, or map, or false when the
// value has no length.
func Length(v any) (int, bool) {
	switch val := v.(type) {
	case string:
		return len(val), true
	case []any:
		return len(val), true
	case map[string]any:
		return len(val), true
	default:
		return 0, false
	}
}
