// model/car.go
package model

import "time"

type CarStatus string

const (
	CarPendingApproval CarStatus = "pending_approval"
	CarActive          CarStatus = "active"
	CarInactive        CarStatus = "inactive"
)

// Car is a vehicle listed by a host. DailyRate is in minor currency
// units (whole FCFA). Cars are never hard-deleted; Available and
// Status carry the soft state.
type Car struct {
	ID          int64     `json:"id"`
	HostID      int64     `json:"host_id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Type        string    `json:"type"`
	DailyRate   int64     `json:"daily_rate"`
	Currency    string    `json:"currency"`
	Location    string    `json:"location"`
	Available   bool      `json:"available"`
	Status      CarStatus `json:"status"`
	Features    []string  `json:"features,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	RatingCount int64     `json:"rating_count"`
	CreatedAt   time.Time `json:"created_at"`
}
