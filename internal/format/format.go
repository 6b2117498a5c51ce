// Package format implements the numeric and date conventions used on French
// business documents: comma decimal separator, no grouping separator, and
// payment-delay descriptors driving due-date arithmetic.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ToNumber coerces a number or a string using comma-or-dot decimal notation
// (optional whitespace grouping) into a float64. Unparseable input yields 0.
// The permissive policy covers legacy stored values; coercions are logged at
// debug level so data-entry bugs stay visible.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			log.Debug().Str("value", n).Msg("unparseable amount coerced to 0")
			return 0
		}
		return f
	default:
		return 0
	}
}

// FormatPrice rounds to 2 decimal places (ties away from zero) and formats
// with exactly 2 decimal digits, comma as decimal separator, no grouping.
// Non-finite or invalid input formats as "0,00".
func FormatPrice(v any) string {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0,00"
	}
	// Nudge past binary representation error so 1234.005 rounds up.
	cents := math.Round(n*100 + math.Copysign(1e-6, n))
	if cents == 0 {
		return "0,00"
	}
	s := strconv.FormatFloat(cents/100, 'f', 2, 64)
	return strings.Replace(s, ".", ",", 1)
}

// FormatPercent applies the same decimal rules to a percentage value already
// scaled by the caller (20.0 for 20%).
func FormatPercent(v any) string {
	return FormatPrice(v)
}
