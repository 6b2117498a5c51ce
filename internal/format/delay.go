package format

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PaymentDelay is a parsed payment-delay descriptor.
type PaymentDelay struct {
	Days       int
	EndOfMonth bool
}

var delayPattern = regexp.MustCompile(`^(\d+)\s*jours(\s+fin\s+de\s+mois)?$`)

// ParsePaymentDelay parses a payment-delay descriptor. Recognized forms:
// "comptant" (due on receipt), "<N> jours" and "<N> jours fin de mois".
// Matching is case-insensitive and whitespace-trimmed. Any other input,
// including the empty string, yields ok=false: no computable due date.
func ParsePaymentDelay(descriptor string) (PaymentDelay, bool) {
	s := strings.ToLower(strings.TrimSpace(descriptor))
	if s == "" {
		return PaymentDelay{}, false
	}
	if s == "comptant" {
		return PaymentDelay{Days: 0, EndOfMonth: false}, true
	}
	m := delayPattern.FindStringSubmatch(s)
	if m == nil {
		return PaymentDelay{}, false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return PaymentDelay{}, false
	}
	return PaymentDelay{Days: days, EndOfMonth: m[2] != ""}, true
}

// AddDays returns date shifted by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// EndOfMonth returns the last calendar day of date's month, preserving
// year rollover at December.
func EndOfMonth(date time.Time) time.Time {
	firstOfNext := time.Date(date.Year(), date.Month()+1, 1, 0, 0, 0, 0, date.Location())
	return firstOfNext.AddDate(0, 0, -1)
}

// DueDate computes the payment due date for an invoice issued on issue with
// the given delay descriptor. ok is false when the descriptor does not parse
// to a computable date.
func DueDate(issue time.Time, descriptor string) (time.Time, bool) {
	delay, ok := ParsePaymentDelay(descriptor)
	if !ok {
		return time.Time{}, false
	}
	due := AddDays(issue, delay.Days)
	if delay.EndOfMonth {
		due = EndOfMonth(due)
	}
	return due, true
}

// FormatDate renders a date the French way, dd/mm/yyyy.
func FormatDate(date time.Time) string {
	return date.Format("02/01/2006")
}
