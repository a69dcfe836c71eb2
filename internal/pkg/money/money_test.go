package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"416.665", "416.67"},
		{"416.664", "416.66"},
		{"-0.005", "-0.01"},
		{"10", "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"plain", "1520.00", "1520", true},
		{"padded", "  15.5 ", "15.5", true},
		{"blank", "", "0", false},
		{"garbage", "abc", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLenient(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSum(t *testing.T) {
	total := Sum(decimal.NewFromInt(1), decimal.RequireFromString("2.50"), decimal.RequireFromString("0.25"))
	assert.Equal(t, "3.75", Format(total))
	assert.True(t, Sum().IsZero())
}
