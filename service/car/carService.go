package car

import (
	"context"
	"errors"

	"voom/model"
	carrepo "voom/repository/car"
)

type ErrCode string

const (
	ErrNotFound    ErrCode = "NOT_FOUND"
	ErrNotOwner    ErrCode = "NOT_OWNER"
	ErrInvalidRate ErrCode = "INVALID_RATE"
	ErrBadStatus   ErrCode = "BAD_STATUS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Filter = carrepo.Filter

// Cache is the read cache for car details; lookups may miss, a miss
// just falls through to the repo.
type Cache interface {
	Get(ctx context.Context, id int64) (*model.Car, error)
	Set(ctx context.Context, car *model.Car) error
	Invalidate(ctx context.Context, id int64) error
}

// Users flips the host flag when a user lists their first car.
type Users interface {
	SetHost(ctx context.Context, id int64, isHost bool) error
}

type CreateInput struct {
	Make      string
	Model     string
	Year      int
	Type      string
	DailyRate int64
	Currency  string
	Location  string
	Features  []string
}

type Service interface {
	// Create lists a new car for the host; new listings start in
	// pending_approval.
	Create(ctx context.Context, hostID int64, in CreateInput) (*model.Car, error)

	Update(ctx context.Context, hostID, carID int64, in CreateInput) (*model.Car, error)
	SetAvailability(ctx context.Context, hostID, carID int64, available bool) (*model.Car, error)

	// Approve moves a pending_approval listing to active.
	Approve(ctx context.Context, carID int64) (*model.Car, error)

	List(ctx context.Context, f Filter) ([]model.Car, error)
	Detail(ctx context.Context, id int64) (*model.Car, error)
	ListByHost(ctx context.Context, hostID int64) ([]model.Car, error)
}

type service struct {
	r     carrepo.Repo
	cache Cache
	users Users
}

func New(r carrepo.Repo, cache Cache, users Users) Service {
	return &service{r: r, cache: cache, users: users}
}

func (s *service) Create(ctx context.Context, hostID int64, in CreateInput) (*model.Car, error) {
	if in.DailyRate <= 0 {
		return nil, makeErr(ErrInvalidRate)
	}
	if in.Currency == "" {
		in.Currency = "FCFA"
	}
	c := &model.Car{
		HostID:    hostID,
		Make:      in.Make,
		Model:     in.Model,
		Year:      in.Year,
		Type:      in.Type,
		DailyRate: in.DailyRate,
		Currency:  in.Currency,
		Location:  in.Location,
		Available: true,
		Status:    model.CarPendingApproval,
		Features:  in.Features,
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	if err := s.users.SetHost(ctx, hostID, true); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) owned(ctx context.Context, hostID, carID int64) (*model.Car, error) {
	c, err := s.r.ByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}
	if c.HostID != hostID {
		return nil, makeErr(ErrNotOwner)
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, hostID, carID int64, in CreateInput) (*model.Car, error) {
	if in.DailyRate <= 0 {
		return nil, makeErr(ErrInvalidRate)
	}
	c, err := s.owned(ctx, hostID, carID)
	if err != nil {
		return nil, err
	}

	c.Make = in.Make
	c.Model = in.Model
	c.Year = in.Year
	c.Type = in.Type
	c.DailyRate = in.DailyRate
	if in.Currency != "" {
		c.Currency = in.Currency
	}
	c.Location = in.Location
	c.Features = in.Features

	if err := s.r.Update(ctx, c); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, carID)
	return c, nil
}

func (s *service) SetAvailability(ctx context.Context, hostID, carID int64, available bool) (*model.Car, error) {
	c, err := s.owned(ctx, hostID, carID)
	if err != nil {
		return nil, err
	}
	if err := s.r.SetAvailability(ctx, carID, available); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, carID)
	c.Available = available
	return c, nil
}

func (s *service) Approve(ctx context.Context, carID int64) (*model.Car, error) {
	c, err := s.r.ByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}
	if c.Status != model.CarPendingApproval {
		return nil, makeErr(ErrBadStatus)
	}
	if err := s.r.SetStatus(ctx, carID, model.CarActive); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, carID)
	c.Status = model.CarActive
	return c, nil
}

func (s *service) List(ctx context.Context, f Filter) ([]model.Car, error) {
	return s.r.ListAvailable(ctx, f)
}

// Detail reads through the cache.
func (s *service) Detail(ctx context.Context, id int64) (*model.Car, error) {
	if c, err := s.cache.Get(ctx, id); err == nil && c != nil {
		return c, nil
	}
	c, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}
	_ = s.cache.Set(ctx, c)
	return c, nil
}

func (s *service) ListByHost(ctx context.Context, hostID int64) ([]model.Car, error) {
	return s.r.ListByHost(ctx, hostID)
}
