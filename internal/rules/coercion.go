// internal/rules/coercion.go
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

/*
 * Value coercion for condition evaluation.
 *
 * Records cross module boundaries as untyped field maps, and user-entered
 * values frequently arrive as strings: numeric text with thousands
 * separators, Persian or Arabic-Indic digits, comma-separated lists. Coercion
 * normalizes every value into a comparable form before operators run:
 *
 *   - Strings are trimmed; a trimmed string that parses fully as a decimal
 *     number (after digit normalization and separator stripping) becomes a
 *     float64 so gt/lt work on numeric-looking text without type tagging.
 *   - Booleans pass through unchanged.
 *   - Slices map element-wise through the same coercion (in/not_in).
 *   - Maps and other structured values pass through unchanged.
 *
 * The numeric-string sniffing is a compatibility shim for legacy free-text
 * fields, not a type system: the outer application is expected to pass values
 * already typed per its module schemas.
 */

// Comparable normalizes a field value into the form operators compare.
func Comparable(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if f, ok := parseDecimal(s); ok {
			return f
		}
		return s
	case bool:
		return t
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Comparable(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Comparable(e)
		}
		return out
	default:
		return v
	}
}

// ComparableString renders the coerced form of v as the string used by
// equality and change-detection operators. Nil renders as "", matching the
// degenerate changed-on-create behavior (absent previous value compares as
// empty).
func ComparableString(v any) string {
	switch t := Comparable(v).(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ToNumber converts a value to float64 for relational operators.
// Returns false for anything that is not a number or fully-numeric string;
// relational comparisons against such values always evaluate false.
func ToNumber(v any) (float64, bool) {
	switch t := Comparable(v).(type) {
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// ExpectedList coerces an in/not_in operand into a list of comparable values.
// Accepts a native list or a comma-separated string, which is split and
// trimmed. A lone scalar becomes a one-element list.
func ExpectedList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, Comparable(e))
		}
		return out
	case []string:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, Comparable(e))
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, Comparable(p))
		}
		return out
	default:
		return []any{Comparable(v)}
	}
}

// Truthy reports the truthiness of a raw (uncoerced) value: nil, false,
// zero numbers and empty strings are falsy; everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// IsEmptyValue reports whether a raw value counts as null for the
// is_null/not_null operators: nil, absent, or the empty string.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// parseDecimal attempts a full decimal parse of a trimmed string after
// localized-digit normalization and thousands-separator stripping.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = NormalizeDigits(s)
	s = strings.NewReplacer(",", "", "٬", "").Replace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NormalizeDigits maps Persian (U+06F0..U+06F9) and Arabic-Indic
// (U+0660..U+0669) digits to their ASCII equivalents. Other runes pass
// through unchanged.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹': // Persian digits
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // Arabic-Indic digits
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
