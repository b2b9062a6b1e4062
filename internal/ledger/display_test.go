package ledger

import "testing"

func TestDisplay(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{150, "JPY", "150"},
		{33.333333, "JPY", "33"},
		{-33.9, "JPY", "-33"},
		{33.339, "USD", "33.33"},
		{-10.005, "eur", "-10.00"},
		{0, "USD", "0.00"},
		{1234.5, "TWD", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.currency+"/"+tt.want, func(t *testing.T) {
			if got := Display(tt.amount, tt.currency); got != tt.want {
				t.Errorf("Display(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
