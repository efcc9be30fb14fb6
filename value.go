package environment

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies which of the supported types a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a resolved or default variable value: a string, a float64 number,
// a bool or a list of strings. The zero Value is the empty string.
type Value struct {
	kind  Kind
	str   string
	num   float64
	truth bool
	items []string
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a number Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a number Value holding n.
func Int(n int) Value { return Number(float64(n)) }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, truth: b} }

// List returns a list Value. The items are copied.
func List(items ...string) Value {
	return Value{kind: KindList, items: slices.Clone(items)}
}

// Kind reports the type held by v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the number held by v and whether v is a number. A number
// coerced from an unparseable override is NaN.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Truth returns the boolean held by v and whether v is a boolean.
func (v Value) Truth() (bool, bool) { return v.truth, v.kind == KindBool }

// Items returns a copy of the list held by v and whether v is a list.
func (v Value) Items() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.items), true
}

// String renders v the way it would be written in an environment variable:
// lists are joined with ",", numbers use the shortest exact representation.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.truth)
	case KindList:
		return strings.Join(v.items, ",")
	default:
		return v.str
	}
}

// Equal reports whether v and o hold the same kind and contents. Two NaN
// numbers are considered equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindBool:
		return v.truth == o.truth
	case KindList:
		return slices.Equal(v.items, o.items)
	default:
		return v.str == o.str
	}
}

// native returns v as a plain Go value for encoders.
func (v Value) native() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.truth
	case KindList:
		if v.items == nil {
			return []string{}
		}
		return v.items
	default:
		return v.str
	}
}

// coerce converts a raw override into a Value of the same kind as def.
func coerce(def Value, raw string) Value {
	switch def.kind {
	case KindBool:
		return Bool(parseBool(raw))
	case KindNumber:
		return Number(parseNumber(raw))
	case KindList:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return Value{kind: KindList, items: parts}
	default:
		return String(raw)
	}
}

// parseBool accepts "true" and "yes" in any letter case. Everything else,
// including "1" and "on", is false.
func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
}

// numberPrefix matches the longest leading decimal literal. "Infinity" is
// the only spelling of an infinity; "inf", hex and underscores are not numbers.
var numberPrefix = regexp.MustCompile(`^[+-]?(Infinity|\d+(\.\d*)?([eE][+-]?\d+)?|\.\d+([eE][+-]?\d+)?)`)

// parseNumber never fails. Leading whitespace is skipped and the longest
// numeric prefix is parsed, so "8080/tcp" is 8080 and "1.5s" is 1.5. Input
// without such a prefix yields NaN. Out of range input saturates to an
// infinity.
func parseNumber(s string) float64 {
	m := numberPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	switch m {
	case "":
		return math.NaN()
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
