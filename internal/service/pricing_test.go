package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name    string
		in, out time.Time
		want    int
		wantErr bool
	}{
		{"one night", date(2026, 3, 1), date(2026, 3, 2), 1, false},
		{"week", date(2026, 3, 1), date(2026, 3, 8), 7, false},
		{"same day", date(2026, 3, 1), date(2026, 3, 1), 0, true},
		{"reversed", date(2026, 3, 8), date(2026, 3, 1), 0, true},
		{"time of day ignored", date(2026, 3, 1).Add(22 * time.Hour), date(2026, 3, 2).Add(2 * time.Hour), 1, false},
		{"month boundary", date(2026, 1, 31), date(2026, 2, 2), 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nights(tt.in, tt.out)
			if tt.wantErr {
				var iv *InvalidIntervalError
				assert.ErrorAs(t, err, &iv)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNights(t *testing.T) {
	// Explicit positive value wins over the derived one.
	n, err := ResolveNights(date(2026, 3, 1), date(2026, 3, 5), 10)
	assert.NoError(t, err)
	assert.Equal(t, 10, n)

	// Zero falls back to the calendar difference.
	n, err = ResolveNights(date(2026, 3, 1), date(2026, 3, 5), 0)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)

	// The interval must still be valid even with an explicit count.
	_, err = ResolveNights(date(2026, 3, 5), date(2026, 3, 1), 3)
	var iv *InvalidIntervalError
	assert.ErrorAs(t, err, &iv)
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		name   string
		nights int
		rate   float64
		want   float64
	}{
		{"simple", 3, 100, 300},
		{"three nights at a thousand", 3, 1000.00, 3000.00},
		{"missing rate", 5, 0, 0},
		{"rounds to two decimals", 3, 33.333, 100.0},
		{"exact cents kept", 2, 10.125, 20.25},
		{"two decimals kept", 2, 99.99, 199.98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalPrice(tt.nights, tt.rate), 1e-9)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 10.01, Round2(10.006), 1e-9)
	assert.InDelta(t, 10.0, Round2(10.004), 1e-9)
	assert.InDelta(t, 0.0, Round2(0), 1e-9)
}
