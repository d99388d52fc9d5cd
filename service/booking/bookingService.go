package booking

import (
	"context"
	"time"

	"voom/model"
	"voom/service/pricing"
	"voom/util/money"
)

// Policy holds the booking behavior knobs from config. AutoConfirm
// picks the initial status; RequireVerification gates creation on
// identity verification.
type Policy struct {
	AutoConfirm         bool
	RequireVerification bool
}

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, cancelledAt *time.Time) (*model.Booking, error)
	ConfirmPending(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListForCars(ctx context.Context, carIDs []int64) ([]model.Booking, error)
	ExpireStalePending(ctx context.Context, now time.Time) (int64, error)
}

// Cars is the slice of the car store the booking flow needs.
type Cars interface {
	ByID(ctx context.Context, id int64) (*model.Car, error)
	IDsByHost(ctx context.Context, hostID int64) ([]int64, error)
}

type Users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

// Events receives booking lifecycle notifications. Publishing is
// fire-and-forget; failures must not fail the request.
type Events interface {
	BookingCreated(ctx context.Context, b *model.Booking)
	BookingConfirmed(ctx context.Context, b *model.Booking)
	BookingCancelled(ctx context.Context, b *model.Booking, refund RefundLevel)
}

// CreateInput is the raw booking request after HTTP binding. There is
// deliberately no total field: the persisted amount is always
// recomputed server-side so a client cannot tamper with the price.
type CreateInput struct {
	CarID            int64
	StartDate        time.Time
	EndDate          time.Time
	PickupLocation   string
	DropoffLocation  string
	DifferentDropoff bool
	PaymentMethod    string
}

type Created struct {
	Booking *model.Booking    `json:"booking"`
	Quote   pricing.Breakdown `json:"quote"`

	// TotalDisplay is the formatted total for confirmation copy,
	// e.g. "755 500 FCFA".
	TotalDisplay string `json:"total_display"`
}

type Cancelled struct {
	Booking *model.Booking `json:"booking"`
	Refund  RefundLevel    `json:"refund"`
}

type Service interface {
	// Quote prices a car over a date range without creating anything.
	Quote(ctx context.Context, carID int64, start, end time.Time) (*pricing.Breakdown, error)

	// Create validates the request and persists a booking with a
	// server-computed total.
	Create(ctx context.Context, userID int64, in CreateInput) (*Created, error)

	// Confirm moves a pending booking to confirmed; only the host of
	// the booked car may confirm.
	Confirm(ctx context.Context, hostID, bookingID int64) (*model.Booking, error)

	// Cancel moves a booking to cancelled and reports refund
	// eligibility under the 24h-before-pickup policy.
	Cancel(ctx context.Context, userID, bookingID int64) (*Cancelled, error)

	Detail(ctx context.Context, userID, bookingID int64) (*model.Booking, error)
	MyBookings(ctx context.Context, userID int64) ([]model.Booking, error)

	// HostBookings lists bookings across every car the host owns.
	HostBookings(ctx context.Context, hostID int64) ([]model.Booking, error)
}

type service struct {
	r      Repo
	cars   Cars
	users  Users
	events Events
	policy Policy
	now    func() time.Time
}

func New(r Repo, cars Cars, users Users, events Events, policy Policy) Service {
	return &service{r: r, cars: cars, users: users, events: events, policy: policy, now: time.Now}
}

func (s *service) Quote(ctx context.Context, carID int64, start, end time.Time) (*pricing.Breakdown, error) {
	car, err := s.cars.ByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, makeErr(ErrCarNotFound)
	}
	b := pricing.Quote(car.DailyRate, start, end)
	return &b, nil
}

func (s *service) Create(ctx context.Context, userID int64, in CreateInput) (*Created, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, makeErr(ErrUserNotFound)
	}
	if s.policy.RequireVerification && !u.Verified {
		return nil, makeErr(ErrVerificationRequired)
	}

	car, err := s.cars.ByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, makeErr(ErrCarNotFound)
	}
	if !car.Available || car.Status != model.CarActive {
		return nil, makeErr(ErrCarUnavailable)
	}

	if err := s.checkDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	method, ok := parsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, makeErr(ErrInvalidPayment)
	}

	pickup := in.PickupLocation
	if pickup == "" {
		pickup = car.Location
	}
	dropoff := pickup
	if in.DifferentDropoff {
		if in.DropoffLocation == "" {
			return nil, makeErr(ErrInvalidLocation)
		}
		dropoff = in.DropoffLocation
	}

	quote := pricing.Quote(car.DailyRate, in.StartDate, in.EndDate)

	status := model.BookingPending
	if s.policy.AutoConfirm {
		status = model.BookingConfirmed
	}

	b := &model.Booking{
		CarID:           car.ID,
		UserID:          userID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		TotalAmount:     quote.Total,
		Currency:        car.Currency,
		PaymentMethod:   method,
		Status:          status,
	}
	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	s.events.BookingCreated(ctx, b)
	return &Created{
		Booking:      b,
		Quote:        quote,
		TotalDisplay: money.Format(quote.Total, car.Currency),
	}, nil
}

// checkDates enforces the request bounds: the start day may not be in
// the past (date-only comparison) and the end must be strictly after
// the start.
func (s *service) checkDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return makeErr(ErrInvalidDates)
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	if startDay.Before(today) {
		return makeErr(ErrInvalidDates)
	}
	if !end.After(start) {
		return makeErr(ErrInvalidDates)
	}
	return nil
}

func parsePaymentMethod(s string) (model.PaymentMethod, bool) {
	switch model.PaymentMethod(s) {
	case model.PayCard, model.PayAirtel, model.PayPaypal:
		return model.PaymentMethod(s), true
	}
	return "", false
}

func (s *service) Confirm(ctx context.Context, hostID, bookingID int64) (*model.Booking, error) {
	b, err := s.r.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookingNotFound)
	}
	car, err := s.cars.ByID(ctx, b.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil || car.HostID != hostID {
		return nil, makeErr(ErrNotOwner)
	}

	if _, err := Transition(b.Status, ActionConfirm); err != nil {
		return nil, err
	}
	// guarded in SQL: a cancel racing in after the read above must not
	// be overwritten by the confirm
	updated, err := s.r.ConfirmPending(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, makeErr(ErrBadTransition)
	}
	s.events.BookingConfirmed(ctx, updated)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int64) (*Cancelled, error) {
	b, err := s.r.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookingNotFound)
	}
	if b.UserID != userID {
		return nil, makeErr(ErrNotOwner)
	}

	next, err := Transition(b.Status, ActionCancel)
	if err != nil {
		return nil, err
	}

	now := s.now()
	refund := RefundEligibility(b.StartDate, now)
	updated, err := s.r.UpdateStatus(ctx, bookingID, next, &now)
	if err != nil {
		return nil, err
	}
	s.events.BookingCancelled(ctx, updated, refund)
	return &Cancelled{Booking: updated, Refund: refund}, nil
}

func (s *service) Detail(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	b, err := s.r.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrBookingNotFound)
	}
	if b.UserID != userID {
		return nil, makeErr(ErrNotOwner)
	}
	return b, nil
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	return s.r.ListByUser(ctx, userID)
}

// HostBookings scans the cars the host owns, then bookings per car;
// bookings have no direct host reference.
func (s *service) HostBookings(ctx context.Context, hostID int64) ([]model.Booking, error) {
	ids, err := s.cars.IDsByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.r.ListForCars(ctx, ids)
}
