package gotmpl

import (
	"github.com/itsatony/go-gotmpl/internal"
)

// Truthy reports whether a value counts as true in conditional contexts.
// False values are nil, false, numeric zero, and empty strings, lists, and
// maps.
func Truthy(v any) bool {
	return internal.IsTruthy(v)
}

// IsEmpty reports whether a value is the empty value of its kind. It is the
// negation of Truthy and the test used by default, coalesce, and friends.
func IsEmpty(v any) bool {
	return internal.IsEmpty(v)
}

// Stringify converts a value to its rendered text form: nil becomes
// "<no value>", booleans lower-case, floats shortest-form, lists and maps
// compact JSON with sorted map keys.
func Stringify(v any) string {
	return internal.Stringify(v)
}

// SortedKeys returns the keys of a map in sorted order.
func SortedKeys(m map[string]any) []string {
	return internal.SortedKeys(m)
}

// EqualValues compares two values for equality. Numbers compare
// numerically across integer and float kinds.
func EqualValues(a, b any) bool {
	return internal.EqualValues(a, b)
}

// CompareValues orders two values: -1, 0, or 1. Numbers order numerically,
// strings byte-wise; any other combination is an error.
func CompareValues(a, b any) (int, error) {
	return internal.CompareValues(a, b)
}

// CoerceFloat converts any supported numeric value to float64.
func CoerceFloat(v any) (float64, bool) {
	return internal.CoerceFloat(v)
}

// CoerceInt converts any supported numeric value to int64, truncating
// floats.
func CoerceInt(v any) (int64, bool) {
	return internal.CoerceInt(v)
}
