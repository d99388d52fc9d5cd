// Package pricing computes the booking price breakdown. All amounts
// are integers in minor currency units; the calculator never errors,
// it clamps degenerate inputs so callers can always render a price.
package pricing

import "time"

// Fixed fee lines and policy constants, in minor currency units.
const (
	InsuranceFee    int64 = 5000
	CleaningFee     int64 = 2500
	SecurityDeposit int64 = 50000

	serviceFeePercent       int64 = 10
	taxPercent              int64 = 5
	weeklyDiscountPercent   int64 = 5
	longTermDiscountPercent int64 = 10
	payNowPercent           int64 = 25

	weeklyThresholdDays   int64 = 7
	longTermThresholdDays int64 = 28
)

// Breakdown itemizes a quote. The UI surfaces every line, not just the
// total. SecurityDeposit is tracked separately and never part of Total.
type Breakdown struct {
	Days             int64 `json:"days"`
	Subtotal         int64 `json:"subtotal"`
	ServiceFee       int64 `json:"service_fee"`
	InsuranceFee     int64 `json:"insurance_fee"`
	Taxes            int64 `json:"taxes"`
	CleaningFee      int64 `json:"cleaning_fee"`
	WeeklyDiscount   int64 `json:"weekly_discount"`
	LongTermDiscount int64 `json:"long_term_discount"`
	Total            int64 `json:"total"`
	SecurityDeposit  int64 `json:"security_deposit"`
	PayNow           int64 `json:"pay_now"`
	PayLater         int64 `json:"pay_later"`
}

// DaysBetween returns the number of billable days spanning [start, end).
// Any partial day bills as a full day (ceiling), and missing or
// inverted ranges clamp to 0 so pricing can never go negative.
func DaysBetween(start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 0
	}
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// percentOf rounds half up on the pre-rounded base, per fee line, so
// rounding error never compounds across a running total.
func percentOf(base, percent int64) int64 {
	return (base*percent + 50) / 100
}

// Quote derives the full price breakdown for renting at dailyRate over
// [start, end). Weekly and long-term discounts stack for rentals of 28
// days or more.
func Quote(dailyRate int64, start, end time.Time) Breakdown {
	days := DaysBetween(start, end)
	subtotal := dailyRate * days

	b := Breakdown{
		Days:            days,
		Subtotal:        subtotal,
		ServiceFee:      percentOf(subtotal, serviceFeePercent),
		InsuranceFee:    InsuranceFee,
		Taxes:           percentOf(subtotal, taxPercent),
		CleaningFee:     CleaningFee,
		SecurityDeposit: SecurityDeposit,
	}
	if days >= weeklyThresholdDays {
		b.WeeklyDiscount = percentOf(subtotal, weeklyDiscountPercent)
	}
	if days >= longTermThresholdDays {
		b.LongTermDiscount = percentOf(subtotal, longTermDiscountPercent)
	}

	discounts := b.WeeklyDiscount + b.LongTermDiscount
	b.Total = subtotal + b.ServiceFee + b.InsuranceFee + b.Taxes + b.CleaningFee - discounts
	b.PayNow = percentOf(b.Total, payNowPercent)
	b.PayLater = b.Total - b.PayNow
	return b
}
