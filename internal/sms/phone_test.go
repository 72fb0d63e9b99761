package sms

import "testing"

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already canonical", raw: "09123456789", want: "09123456789"},
		{name: "persian digits", raw: "۰۹۱۲۳۴۵۶۷۸۹", want: "09123456789"},
		{name: "arabic-indic digits", raw: "٠٩١٢٣٤٥٦٧٨٩", want: "09123456789"},
		{name: "plus country prefix", raw: "+989123456789", want: "09123456789"},
		{name: "plus prefix with spaces", raw: "+98 912 345 6789", want: "09123456789"},
		{name: "double-zero country prefix", raw: "00989123456789", want: "09123456789"},
		{name: "bare country prefix", raw: "989123456789", want: "09123456789"},
		{name: "missing leading zero", raw: "9123456789", want: "09123456789"},
		{name: "dashes and parens", raw: "(0912) 345-6789", want: "09123456789"},
		{name: "surrounding whitespace", raw: "  09123456789  ", want: "09123456789"},
		{name: "short number unchanged", raw: "12345", want: "12345"},
		{name: "text unchanged", raw: "ندارد", want: "ندارد"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMobile(tt.raw); got != tt.want {
				t.Errorf("NormalizeMobile(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsValidMobile(t *testing.T) {
	valid := []string{"09123456789", "09351112233"}
	for _, n := range valid {
		if !IsValidMobile(n) {
			t.Errorf("IsValidMobile(%q) = false, want true", n)
		}
	}

	invalid := []string{
		"",
		"12345",
		"9123456789",     // missing leading zero
		"08123456789",    // not a mobile prefix
		"091234567890",   // too long
		"0912345678",     // too short
		"989123456789",   // country format, not canonical
		"0912345678a",    // trailing letter
		"۰۹۱۲۳۴۵۶۷۸۹",    // localized digits must be normalized first
		"+989123456789",  // plus prefix not canonical
	}
	for _, n := range invalid {
		if IsValidMobile(n) {
			t.Errorf("IsValidMobile(%q) = true, want false", n)
		}
	}
}
