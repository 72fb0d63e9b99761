// internal/rules/template.go
package rules

import (
	"regexp"
	"strings"

	"github.com/charmkar/workflow/internal/types"
)

// tokenPattern matches {{ fieldKey }} tokens with optional inner whitespace.
// Text that does not match the token grammar is left untouched.
var tokenPattern = regexp.MustCompile(`\{\{\s*([0-9A-Za-z_.-]+)\s*\}\}`)

// RenderTemplate substitutes every {{field}} token in the template with the
// stringified current-record value. Null, absent and unknown fields render as
// the empty string; there is no unresolved-token error. Rendering is pure and
// total - it never fails on malformed input.
func RenderTemplate(template string, record types.Record) string {
	if template == "" || !strings.Contains(template, "{{") {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]
		v, ok := record[key]
		if !ok || v == nil {
			return ""
		}
		// Strings render verbatim; other values take their comparable
		// string form (numbers without exponent, booleans as true/false).
		if s, ok := v.(string); ok {
			return s
		}
		return ComparableString(v)
	})
}
