package format_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiepress/backoffice/internal/format"
)

func TestToNumber(t *testing.T) {
	assert.Equal(t, 12.5, format.ToNumber(12.5))
	assert.Equal(t, 42.0, format.ToNumber(42))
	assert.Equal(t, 1234.56, format.ToNumber("1234,56"))
	assert.Equal(t, 1234.56, format.ToNumber("1234.56"))
	assert.Equal(t, 1234.56, format.ToNumber(" 1 234,56 "))
	assert.Equal(t, 0.0, format.ToNumber("abc"))
	assert.Equal(t, 0.0, format.ToNumber(""))
	assert.Equal(t, 0.0, format.ToNumber(nil))
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1234.005, "1234,01"}, // rounding half away from zero
		{1234.004, "1234,00"},
		{0.0, "0,00"},
		{math.Copysign(0, -1), "0,00"}, // negative zero
		{"abc", "0,00"},
		{math.NaN(), "0,00"},
		{math.Inf(1), "0,00"},
		{19.9, "19,90"},
		{-12.345, "-12,35"},
		{"1234,5", "1234,50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, format.FormatPrice(tt.in), "FormatPrice(%v)", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "20,00", format.FormatPercent(20.0))
	assert.Equal(t, "5,50", format.FormatPercent(5.5))
}

func TestParsePaymentDelay(t *testing.T) {
	d, ok := format.ParsePaymentDelay("30 jours fin de mois")
	require.True(t, ok)
	assert.Equal(t, format.PaymentDelay{Days: 30, EndOfMonth: true}, d)

	d, ok = format.ParsePaymentDelay("comptant")
	require.True(t, ok)
	assert.Equal(t, format.PaymentDelay{Days: 0, EndOfMonth: false}, d)

	d, ok = format.ParsePaymentDelay("  15 JOURS ")
	require.True(t, ok)
	assert.Equal(t, format.PaymentDelay{Days: 15, EndOfMonth: false}, d)

	_, ok = format.ParsePaymentDelay("net 30")
	assert.False(t, ok)

	_, ok = format.ParsePaymentDelay("")
	assert.False(t, ok)
}

func TestDueDate(t *testing.T) {
	issue := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	due, ok := format.DueDate(issue, "15 jours")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC), due)

	due, ok = format.DueDate(issue, "15 jours fin de mois")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), due) // leap year

	due, ok = format.DueDate(issue, "comptant")
	require.True(t, ok)
	assert.Equal(t, issue, due)

	_, ok = format.DueDate(issue, "à réception")
	assert.False(t, ok)
}

func TestEndOfMonth_DecemberRollover(t *testing.T) {
	d := format.EndOfMonth(time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), d)

	d = format.EndOfMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)
}

func TestAddDays(t *testing.T) {
	d := format.AddDays(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 5)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), d)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "20/01/2024", format.FormatDate(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
}
