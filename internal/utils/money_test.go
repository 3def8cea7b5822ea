package utils

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{950, "$950"},
		{65000, "$65,000"},
		{3599.6, "$3,600"},
		{1234567, "$1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.amount); got != tt.want {
			t.Fatalf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}

	if got := FormatUSDRange(3600, 5400); got != "$3,600 - $5,400" {
		t.Fatalf("unexpected range: %q", got)
	}
}
