package car

type UpsertCarReq struct {
	Make      string   `json:"make" validate:"required"`
	Model     string   `json:"model" validate:"required"`
	Year      int      `json:"year" validate:"required,gte=1980"`
	Type      string   `json:"type" validate:"required"`
	DailyRate int64    `json:"daily_rate" validate:"required,gt=0"`
	Currency  string   `json:"currency"`
	Location  string   `json:"location" validate:"required"`
	Features  []string `json:"features"`
}

type AvailabilityReq struct {
	Available *bool `json:"available" validate:"required"`
}
