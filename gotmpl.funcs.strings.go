package gotmpl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// StringFuncs returns the string helper pack. Helpers that transform a
// string take it as their final argument so pipelines read naturally:
// {{.name | trim | upper}}.
func StringFuncs() []*Func {
	return []*Func{
		{Name: "upper", MinArgs: 1, MaxArgs: 1, Fn: strFunc("upper", strings.ToUpper)},
		{Name: "lower", MinArgs: 1, MaxArgs: 1, Fn: strFunc("lower", strings.ToLower)},
		{Name: "title", MinArgs: 1, MaxArgs: 1, Fn: strFunc("title", titleCase)},
		{Name: "trim", MinArgs: 1, MaxArgs: 1, Fn: strFunc("trim", strings.TrimSpace)},
		{Name: "trimAll", MinArgs: 2, MaxArgs: 2, Fn: strPairFunc("trimAll", func(cutset, s string) string { return strings.Trim(s, cutset) })},
		{Name: "trimPrefix", MinArgs: 2, MaxArgs: 2, Fn: strPairFunc("trimPrefix", func(prefix, s string) string { return strings.TrimPrefix(s, prefix) })},
		{Name: "trimSuffix", MinArgs: 2, MaxArgs: 2, Fn: strPairFunc("trimSuffix", func(suffix, s string) string { return strings.TrimSuffix(s, suffix) })},
		{Name: "repeat", MinArgs: 2, MaxArgs: 2, Fn: stringRepeat},
		{Name: "substr", MinArgs: 3, MaxArgs: 3, Fn: stringSubstr},
		{Name: "trunc", MinArgs: 2, MaxArgs: 2, Fn: stringTrunc},
		{Name: "contains", MinArgs: 2, MaxArgs: 2, Fn: strPredFunc("contains", func(sub, s string) bool { return strings.Contains(s, sub) })},
		{Name: "hasPrefix", MinArgs: 2, MaxArgs: 2, Fn: strPredFunc("hasPrefix", func(prefix, s string) bool { return strings.HasPrefix(s, prefix) })},
		{Name: "hasSuffix", MinArgs: 2, MaxArgs: 2, Fn: strPredFunc("hasSuffix", func(suffix, s string) bool { return strings.HasSuffix(s, suffix) })},
		{Name: "quote", MinArgs: 0, MaxArgs: Variadic, Fn: stringQuote},
		{Name: "squote", MinArgs: 0, MaxArgs: Variadic, Fn: stringSquote},
		{Name: "cat", MinArgs: 0, MaxArgs: Variadic, Fn: stringCat},
		{Name: "indent", MinArgs: 2, MaxArgs: 2, Fn: stringIndent},
		{Name: "nindent", MinArgs: 2, MaxArgs: 2, Fn: stringNindent},
		{Name: "nospace", MinArgs: 1, MaxArgs: 1, Fn: strFunc("nospace", removeSpace)},
		{Name: "swapcase", MinArgs: 1, MaxArgs: 1, Fn: strFunc("swapcase", swapCase)},
		{Name: "camelcase", MinArgs: 1, MaxArgs: 1, Fn: strFunc("camelcase", camelCase)},
		{Name: "snakecase", MinArgs: 1, MaxArgs: 1, Fn: strFunc("snakecase", snakeCase)},
		{Name: "kebabcase", MinArgs: 1, MaxArgs: 1, Fn: strFunc("kebabcase", kebabCase)},
		{Name: "split", MinArgs: 2, MaxArgs: 2, Fn: stringSplit},
		{Name: "splitList", MinArgs: 2, MaxArgs: 2, Fn: stringSplitList},
		{Name: "join", MinArgs: 2, MaxArgs: 2, Fn: stringJoin},
		{Name: "replace", MinArgs: 3, MaxArgs: 3, Fn: stringReplace},
		{Name: "wrap", MinArgs: 2, MaxArgs: 2, Fn: stringWrap},
	}
}

// strFunc lifts a one-string transform into a helper that stringifies its
// argument first, so non-string values flow through pipelines.
func strFunc(name string, fn func(string) string) func(*State, []any) (any, error) {
	return func(_ *State, args []any) (any, error) {
		return fn(Stringify(args[0])), nil
	}
}

// strPairFunc lifts a (param, subject) transform; the subject is the final
// argument.
func strPairFunc(name string, fn func(param, s string) string) func(*State, []any) (any, error) {
	return func(_ *State, args []any) (any, error) {
		param, err := argString(name, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(param, Stringify(args[1])), nil
	}
}

func strPredFunc(name string, fn func(param, s string) bool) func(*State, []any) (any, error) {
	return func(_ *State, args []any) (any, error) {
		param, err := argString(name, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(param, Stringify(args[1])), nil
	}
}

func stringRepeat(_ *State, args []any) (any, error) {
	count, err := argInt("repeat", args, 0)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		count = 0
	}
	return strings.Repeat(Stringify(args[1]), count), nil
}

// stringSubstr returns s[start:end] clamped to the string bounds. A
// negative end means to the end of the string.
func stringSubstr(_ *State, args []any) (any, error) {
	start, err := argInt("substr", args, 0)
	if err != nil {
		return nil, err
	}
	end, err := argInt("substr", args, 1)
	if err != nil {
		return nil, err
	}
	s := Stringify(args[2])

	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return s[start:end], nil
}

// stringTrunc shortens a string to at most n bytes; a negative n keeps the
// last n bytes instead.
func stringTrunc(_ *State, args []any) (any, error) {
	n, err := argInt("trunc", args, 0)
	if err != nil {
		return nil, err
	}
	s := Stringify(args[1])

	if n >= 0 {
		if n < len(s) {
			return s[:n], nil
		}
		return s, nil
	}
	if -n < len(s) {
		return s[len(s)+n:], nil
	}
	return s, nil
}

func stringQuote(_ *State, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = strconv.Quote(Stringify(arg))
	}
	return strings.Join(parts, " "), nil
}

func stringSquote(_ *State, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = "'" + Stringify(arg) + "'"
	}
	return strings.Join(parts, " "), nil
}

func stringCat(_ *State, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Stringify(arg)
	}
	return strings.Join(parts, " "), nil
}

func stringIndent(_ *State, args []any) (any, error) {
	width, err := argInt("indent", args, 0)
	if err != nil {
		return nil, err
	}
	if width < 0 {
		width = 0
	}
	pad := strings.Repeat(" ", width)
	s := Stringify(args[1])
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad), nil
}

func stringNindent(state *State, args []any) (any, error) {
	indented, err := stringIndent(state, args)
	if err != nil {
		return nil, err
	}
	return "\n" + indented.(string), nil
}

func removeSpace(s string) string {
	var out strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	var out strings.Builder
	atStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atStart = true
			out.WriteRune(r)
			continue
		}
		if atStart {
			out.WriteRune(unicode.ToUpper(r))
			atStart = false
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// splitWords breaks an identifier-like string into lower-case words at
// separators (space, dash, underscore, dot) and lower-to-upper case
// transitions.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder
	var prev rune

	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_' || r == '.':
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()
	return words
}

func camelCase(s string) string {
	words := splitWords(s)
	var out strings.Builder
	for i, word := range words {
		if i == 0 {
			out.WriteString(word)
			continue
		}
		out.WriteString(titleCase(word))
	}
	return out.String()
}

func snakeCase(s string) string {
	return strings.Join(splitWords(s), "_")
}

func kebabCase(s string) string {
	return strings.Join(splitWords(s), "-")
}

// stringSplit splits into a dict keyed _0, _1, ... so fields address the
// parts: {{(split "," .csv)._1}}.
func stringSplit(_ *State, args []any) (any, error) {
	sep, err := argString("split", args, 0)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(Stringify(args[1]), sep)
	result := make(map[string]any, len(parts))
	for i, part := range parts {
		result[fmt.Sprintf("_%d", i)] = part
	}
	return result, nil
}

func stringSplitList(_ *State, args []any) (any, error) {
	sep, err := argString("splitList", args, 0)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(Stringify(args[1]), sep)
	result := make([]any, len(parts))
	for i, part := range parts {
		result[i] = part
	}
	return result, nil
}

func stringJoin(_ *State, args []any) (any, error) {
	sep, err := argString("join", args, 0)
	if err != nil {
		return nil, err
	}
	list, err := argList("join", args, 1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, sep), nil
}

func stringReplace(_ *State, args []any) (any, error) {
	old, err := argString("replace", args, 0)
	if err != nil {
		return nil, err
	}
	replacement, err := argString("replace", args, 1)
	if err != nil {
		return nil, err
	}
	return strings.ReplaceAll(Stringify(args[2]), old, replacement), nil
}

// stringWrap greedily wraps text at the given column, breaking only at
// spaces.
func stringWrap(_ *State, args []any) (any, error) {
	width, err := argInt("wrap", args, 0)
	if err != nil {
		return nil, err
	}
	s := Stringify(args[1])
	if width <= 0 {
		return s, nil
	}

	var out strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(s) {
		if i > 0 {
			if lineLen+1+len(word) > width {
				out.WriteByte('\n')
				lineLen = 0
			} else {
				out.WriteByte(' ')
				lineLen++
			}
		}
		out.WriteString(word)
		lineLen += len(word)
	}
	return out.String(), nil
}
