package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/charmkar/workflow/internal/types"
)

func TestRenderTemplate(t *testing.T) {
	record := types.Record{
		"name":     "Ali",
		"amount":   1250000.0,
		"status":   "  open ",
		"subject":  "فاکتور ۱",
		"due":      nil,
		"is_vip":   true,
		"mobile_1": "09123456789",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "plain text untouched",
			template: "no tokens here",
			want:     "no tokens here",
		},
		{
			name:     "single substitution",
			template: "hi {{name}}",
			want:     "hi Ali",
		},
		{
			name:     "whitespace inside token",
			template: "hi {{ name }}",
			want:     "hi Ali",
		},
		{
			name:     "string field rendered verbatim",
			template: "[{{status}}]",
			want:     "[  open ]",
		},
		{
			name:     "number rendered without exponent",
			template: "amount: {{amount}}",
			want:     "amount: 1250000",
		},
		{
			name:     "boolean rendered lowercase",
			template: "vip={{is_vip}}",
			want:     "vip=true",
		},
		{
			name:     "persian value preserved",
			template: "New: {{subject}}",
			want:     "New: فاکتور ۱",
		},
		{
			name:     "missing field renders empty",
			template: "x{{no_such_field}}y",
			want:     "xy",
		},
		{
			name:     "null field renders empty",
			template: "due:{{due}}",
			want:     "due:",
		},
		{
			name:     "multiple tokens",
			template: "{{name}} / {{mobile_1}}",
			want:     "Ali / 09123456789",
		},
		{
			name:     "malformed token untouched",
			template: "broken {{name",
			want:     "broken {{name",
		},
		{
			name:     "empty template",
			template: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderTemplate(tt.template, record); got != tt.want {
				t.Errorf("RenderTemplate(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestRenderTemplate_NilRecord(t *testing.T) {
	if got := RenderTemplate("hi {{name}}", nil); got != "hi " {
		t.Errorf("RenderTemplate with nil record = %q, want %q", got, "hi ")
	}
}

func TestRenderTemplateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("token-free templates render unchanged", prop.ForAll(
		func(s string) bool {
			if containsToken(s) {
				return true
			}
			return RenderTemplate(s, types.Record{"k": "v"}) == s
		},
		gen.AnyString(),
	))

	properties.Property("rendering never panics", prop.ForAll(
		func(template, field, value string) bool {
			RenderTemplate(template, types.Record{field: value})
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func containsToken(s string) bool {
	return tokenPattern.MatchString(s)
}
