package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateNumber(t *testing.T) {
	tests := map[string]struct {
		number   string
		expected bool
	}{
		"valid visa":                  {"4532015112830366", true},
		"valid visa with spaces":      {"4532 0151 1283 0366", true},
		"checksum off by one":         {"4532015112830367", false},
		"valid amex":                  {"378282246310005", true},
		"valid short visa":            {"4222222222222", true},
		"empty":                       {"", false},
		"too short":                   {"453201511283", false},
		"too long":                    {"45320151128303660000", false},
		"non numeric":                 {"4532abcd11283036", false},
		"letters only":                {"notacardnumber", false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, ValidateNumber(test.number))
		})
	}
}

func TestValidateExpiry(t *testing.T) {
	reference := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		expiry   string
		expected bool
	}{
		"current month":           {"06/25", true},
		"next month":              {"07/25", true},
		"previous month":          {"05/25", false},
		"next year":               {"01/26", true},
		"twenty years out":        {"06/45", true},
		"past twenty years out":   {"12/99", false},
		"month zero":              {"00/26", false},
		"month thirteen":          {"13/26", false},
		"missing slash":           {"0625", false},
		"slash misplaced":         {"6/250", false},
		"too short":               {"6/25", false},
		"empty":                   {"", false},
		"non numeric month":       {"ab/25", false},
		"non numeric year":        {"06/xy", false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, ValidateExpiry(test.expiry, reference))
		})
	}
}

func TestValidateCvc(t *testing.T) {
	tests := map[string]struct {
		cvc      string
		number   string
		expected bool
	}{
		"visa three digits":        {"123", "4111111111111111", true},
		"visa four digits":         {"1234", "4111111111111111", false},
		"amex four digits":         {"0005", "378282246310005", true},
		"amex three digits":        {"005", "378282246310005", false},
		"amex 34 prefix":           {"1234", "341111111111111", true},
		"spaced amex number":       {"1234", "3782 822463 10005", true},
		"non numeric cvc":          {"12a", "4111111111111111", false},
		"empty cvc":                {"", "4111111111111111", false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, ValidateCvc(test.cvc, test.number))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[string]struct {
		number   string
		expected string
	}{
		"groups of four":       {"4532015112830366", "4532 0151 1283 0366"},
		"partial group":        {"45320151128", "4532 0151 128"},
		"strips non digits":    {"4532-0151 1283x0366", "4532 0151 1283 0366"},
		"short input":          {"45", "45"},
		"empty":                {"", ""},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, FormatNumber(test.number))
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := map[string]struct {
		expiry   string
		expected string
	}{
		"month and year":      {"0625", "06/25"},
		"month only":          {"06", "06/"},
		"single digit":        {"6", "6"},
		"already formatted":   {"06/25", "06/25"},
		"overlong input":      {"062599", "06/25"},
		"empty":               {"", ""},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, FormatExpiry(test.expiry))
		})
	}
}
