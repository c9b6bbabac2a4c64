// Package normalize turns free-form price and duration text from the search
// page into comparable numeric values. Every function is pure and total — a
// bad string in the extraction hot path must never abort a batch.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const currencyMarkers = "원₩$€£¥"

var digitRunRegexp = regexp.MustCompile(`\d+`)

// CleanPrice strips every rune that is not a digit, a thousands separator or
// a currency marker. If stripping would leave nothing, the original text is
// returned unchanged so a price string never silently becomes empty.
func CleanPrice(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return r
		case r == ',':
			return r
		case strings.ContainsRune(currencyMarkers, r):
			return r
		}
		return -1
	}, text)

	if cleaned == "" {
		return text
	}
	return cleaned
}

// ExtractNumeric removes thousands separators, concatenates all digit runs in
// order and parses the result. Returns 0 when the text contains no digits.
func ExtractNumeric(text string) int {
	runs := digitRunRegexp.FindAllString(strings.ReplaceAll(text, ",", ""), -1)
	if len(runs) == 0 {
		return 0
	}

	n := 0
	for _, run := range runs {
		for _, r := range run {
			if n > (1<<62)/10 {
				return n
			}
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// LooksPriced reports whether the text carries a currency marker or at least
// one digit — the acceptance rule for extracted price fields.
func LooksPriced(text string) bool {
	if strings.ContainsAny(text, currencyMarkers) {
		return true
	}
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}

// FormatWon renders an amount with thousands separators and the won suffix,
// e.g. 1234567 → "1,234,567원".
func FormatWon(n int) string {
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s + "원"
}
