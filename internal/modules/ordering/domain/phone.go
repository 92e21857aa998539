package domain

import "strings"

// CountryDialPrefix is the international dialing code assumed for restaurant phones.
const CountryDialPrefix = "91"

const nationalNumberLength = 10

// NormalizePhone converts a restaurant phone into the digits-only international
// form expected by wa.me links. It is a heuristic, not a validator: numbers that
// match none of the rules are returned as bare digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, CountryDialPrefix):
		return digits
	case strings.HasPrefix(digits, "0"):
		return CountryDialPrefix + digits[1:]
	case len(digits) == nationalNumberLength:
		return CountryDialPrefix + digits
	default:
		return digits
	}
}
