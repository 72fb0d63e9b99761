// Package sms provides the SMS transport collaborator: provider client and
// mobile-number canonicalization for Iranian local-format numbers.
package sms

import (
	"regexp"
	"strings"
)

// mobilePattern accepts only canonical local-format mobiles: 0, 9, then nine
// digits.
var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

// NormalizeMobile canonicalizes a mobile number into local format: localized
// digits mapped to ASCII, formatting characters stripped, the 0098/98/+98
// country prefix removed, and a leading 0 restored. Values that do not look
// like a mobile number come back unchanged apart from the character cleanup;
// IsValidMobile decides acceptance.
func NormalizeMobile(raw string) string {
	s := normalizeDigits(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(s)

	switch {
	case strings.HasPrefix(s, "0098") && len(s) == 14:
		s = "0" + s[4:]
	case strings.HasPrefix(s, "98") && len(s) == 12:
		s = "0" + s[2:]
	case strings.HasPrefix(s, "9") && len(s) == 10:
		s = "0" + s
	}
	return s
}

// IsValidMobile reports whether the number matches the canonical
// 0 + 9 + nine-digit mobile pattern.
func IsValidMobile(number string) bool {
	return mobilePattern.MatchString(number)
}

// normalizeDigits maps Persian and Arabic-Indic digits to ASCII. Phone
// numbers are routinely entered with localized digits.
func normalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
