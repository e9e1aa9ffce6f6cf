package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"42.5", "$42.50"},
		{"999.999", "$1,000.00"}, // StringFixed rounds
		{"1234.56", "$1,234.56"},
		{"1234567.89", "$1,234,567.89"},
		{"-42.50", "-$42.50"},
		{"-1234567.89", "-$1,234,567.89"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tt.in, err)
		}
		if got := FormatMoney(d); got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRef(t *testing.T) {
	a := NewRef()
	b := NewRef()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("ULID length: got %d and %d, want 26", len(a), len(b))
	}
	if a == b {
		t.Errorf("two references collided: %s", a)
	}
}
