// Package card validates and formats payment card input before it is sent to
// the payment backend. Nothing here talks to the network.
package card

import (
	"strings"
	"time"
	"unicode"
)

const (
	minNumberLength = 13
	maxNumberLength = 19

	// A card issued more than twenty years out does not exist, so a far
	// future two-digit year is treated as a typo rather than accepted.
	maxYearsAhead = 20
)

// ValidateNumber reports whether the card number passes the Luhn checksum.
// Spaces are ignored, any other non-digit fails.
func ValidateNumber(number string) bool {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < minNumberLength || len(digits) > maxNumberLength {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		r := rune(digits[i])
		if !unicode.IsDigit(r) {
			return false
		}
		digit := int(r - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// ValidateExpiry reports whether expiry in MM/YY form names a month no
// earlier than the reference month and no further out than twenty years.
func ValidateExpiry(expiry string, reference time.Time) bool {
	if len(expiry) != 5 || expiry[2] != '/' {
		return false
	}
	month, ok := parseTwoDigits(expiry[:2])
	if !ok || month < 1 || month > 12 {
		return false
	}
	year, ok := parseTwoDigits(expiry[3:])
	if !ok {
		return false
	}
	year += 2000

	if year < reference.Year() {
		return false
	}
	if year == reference.Year() && month < int(reference.Month()) {
		return false
	}
	if year > reference.Year()+maxYearsAhead {
		return false
	}
	return true
}

// ValidateCvc checks the security code length against the card scheme:
// American Express numbers (34/37) carry four digits, everything else three.
func ValidateCvc(cvc string, number string) bool {
	digits := strings.ReplaceAll(number, " ", "")
	expected := 3
	if strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37") {
		expected = 4
	}
	if len(cvc) != expected {
		return false
	}
	for _, r := range cvc {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatNumber strips non-digits and regroups the number in blocks of four
// for display, mirroring what the payment form shows while typing.
func FormatNumber(number string) string {
	digits := onlyDigits(number)
	if digits == "" {
		return ""
	}
	groups := []string{}
	for len(digits) > 4 {
		groups = append(groups, digits[:4])
		digits = digits[4:]
	}
	groups = append(groups, digits)
	return strings.Join(groups, " ")
}

// FormatExpiry strips non-digits, truncates to four digits and inserts the
// slash once the month is complete.
func FormatExpiry(expiry string) string {
	digits := onlyDigits(expiry)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

func onlyDigits(s string) string {
	builder := strings.Builder{}
	for _, r := range s {
		if unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func parseTwoDigits(s string) (int, bool) {
	if len(s) != 2 || !unicode.IsDigit(rune(s[0])) || !unicode.IsDigit(rune(s[1])) {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
