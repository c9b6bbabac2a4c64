package normalize

import "testing"

func TestExtractNumeric(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1,234,567원", 1234567},
		{"345,000원~", 345000},
		{"왕복 1,089,000원", 1089000},
		{"", 0},
		{"정보없음", 0},
		{"₩", 0},
		{"$1,200", 1200},
		{"가격 12만", 12},
	}

	for _, tt := range tests {
		got := ExtractNumeric(tt.text)
		if got != tt.want {
			t.Errorf("ExtractNumeric(%q) = %d; want %d", tt.text, got, tt.want)
		}
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"왕복 1,234,567원", "1,234,567원"},
		{"345,000원~", "345,000원"},
		{"$ 1,200 /person", "$1,200"},
		{"정보없음", "정보없음"},
		{"free", "free"},
	}

	for _, tt := range tests {
		got := CleanPrice(tt.text)
		if got != tt.want {
			t.Errorf("CleanPrice(%q) = %q; want %q", tt.text, got, tt.want)
		}
	}
}

func TestCleanPriceNeverEmptiesNonEmptyInput(t *testing.T) {
	for _, text := range []string{"없음", "n/a", "  ", "---", "조회불가"} {
		if got := CleanPrice(text); got == "" {
			t.Errorf("CleanPrice(%q) returned empty string", text)
		}
	}
}

func TestLooksPriced(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1,234,567원", true},
		{"₩", true},
		{"1200", true},
		{"정보없음", false},
		{"", false},
		{"무료", false},
	}

	for _, tt := range tests {
		if got := LooksPriced(tt.text); got != tt.want {
			t.Errorf("LooksPriced(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestFormatWon(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0원"},
		{950, "950원"},
		{1234567, "1,234,567원"},
		{345000, "345,000원"},
	}

	for _, tt := range tests {
		if got := FormatWon(tt.n); got != tt.want {
			t.Errorf("FormatWon(%d) = %q; want %q", tt.n, got, tt.want)
		}
	}
}
