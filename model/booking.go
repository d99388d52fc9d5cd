// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PayCard   PaymentMethod = "card"
	PayAirtel PaymentMethod = "airtel"
	PayPaypal PaymentMethod = "paypal"
)

// Booking reserves a car for a date range. TotalAmount is always the
// server-computed price in minor currency units; status moves forward
// only (pending -> confirmed, pending|confirmed -> cancelled).
type Booking struct {
	ID              int64         `json:"id"`
	CarID           int64         `json:"car_id"`
	UserID          int64         `json:"user_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	PickupLocation  string        `json:"pickup_location"`
	DropoffLocation string        `json:"dropoff_location"`
	TotalAmount     int64         `json:"total_amount"`
	Currency        string        `json:"currency"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Status          BookingStatus `json:"status"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
