package favorite

import (
	"context"
	"errors"

	"voom/model"
	favrepo "voom/repository/favorite"
)

var ErrCarNotFound = errors.New("car not found")

type Cars interface {
	ByID(ctx context.Context, id int64) (*model.Car, error)
}

type Service interface {
	Add(ctx context.Context, userID, carID int64) (*model.Favorite, error)
	Remove(ctx context.Context, userID, carID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]model.Car, error)
}

type service struct {
	r    favrepo.Repo
	cars Cars
}

func New(r favrepo.Repo, cars Cars) Service { return &service{r: r, cars: cars} }

func (s *service) Add(ctx context.Context, userID, carID int64) (*model.Favorite, error) {
	c, err := s.cars.ByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCarNotFound
	}
	return s.r.Add(ctx, userID, carID)
}

func (s *service) Remove(ctx context.Context, userID, carID int64) (bool, error) {
	return s.r.Remove(ctx, userID, carID)
}

func (s *service) List(ctx context.Context, userID int64) ([]model.Car, error) {
	return s.r.ListByUser(ctx, userID)
}
