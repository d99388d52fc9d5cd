package booking

// CreateBookingReq carries the raw form input. Dates arrive as
// "2006-01-02" or RFC3339 strings. There is no total field on purpose:
// the server always recomputes the price.
type CreateBookingReq struct {
	CarID            int64  `json:"car_id" validate:"required,gt=0"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	PickupLocation   string `json:"pickup_location"`
	DropoffLocation  string `json:"dropoff_location"`
	DifferentDropoff bool   `json:"different_dropoff"`
	PaymentMethod    string `json:"payment_method" validate:"required"`
}
