// Package money formats amounts kept in integer minor currency units.
// Whole FCFA has no subunit, so formatting never divides — the integer
// is grouped and suffixed with the currency code.
package money

import (
	"strconv"
	"time"
)

// Format renders an amount with thousands separators and the currency
// code as a suffix, e.g. 85000 -> "85 000 FCFA".
func Format(amount int64, currency string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, d)
	}
	s := string(out)
	if neg {
		s = "-" + s
	}
	if currency != "" {
		s += " " + currency
	}
	return s
}

// FormatDateTime renders a date+time for display only; there is no
// parsing round-trip guarantee.
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}
