package lead

import (
	"fmt"
	"strings"
)

// DefaultCountryCode is prefixed to bare 10-digit numbers.
const DefaultCountryCode = "91"

// NormalizePhone reduces raw to "+<country code><10 digits>".
// Non-digits are stripped first. A bare 10-digit number gets cc prefixed;
// a number already carrying cc is accepted as is.
func NormalizePhone(raw, cc string) (string, error) {
	if cc == "" {
		cc = DefaultCountryCode
	}
	digits := digitsOnly(raw)
	switch {
	case len(digits) == 10:
		return "+" + cc + digits, nil
	case len(digits) == len(cc)+10 && strings.HasPrefix(digits, cc):
		return "+" + digits, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
}

// MatchKey returns the form used to compare a device-reported number with
// stored ones: the normalized number when possible, else the number with
// whitespace removed.
func MatchKey(raw, cc string) string {
	if n, err := NormalizePhone(raw, cc); err == nil {
		return n
	}
	return strings.Join(strings.Fields(raw), "")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
