// service/car/carService_test.go
package car_test

import (
	"context"
	"testing"

	"voom/model"
	carrepo "voom/repository/car"
	carsvc "voom/service/car"
)

type repoMock struct {
	createFn   func(ctx context.Context, c *model.Car) error
	byIDFn     func(ctx context.Context, id int64) (*model.Car, error)
	updateFn   func(ctx context.Context, c *model.Car) error
	setAvailFn func(ctx context.Context, id int64, available bool) error
	setStatFn  func(ctx context.Context, id int64, status model.CarStatus) error
}

var _ carrepo.Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, c *model.Car) error {
	if m.createFn == nil {
		c.ID = 1
		return nil
	}
	return m.createFn(ctx, c)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Car, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, c *model.Car) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, c)
}
func (m *repoMock) SetAvailability(ctx context.Context, id int64, available bool) error {
	if m.setAvailFn == nil {
		return nil
	}
	return m.setAvailFn(ctx, id, available)
}
func (m *repoMock) SetStatus(ctx context.Context, id int64, status model.CarStatus) error {
	if m.setStatFn == nil {
		return nil
	}
	return m.setStatFn(ctx, id, status)
}
func (m *repoMock) ListAvailable(ctx context.Context, f carrepo.Filter) ([]model.Car, error) {
	return nil, nil
}
func (m *repoMock) ListByHost(ctx context.Context, hostID int64) ([]model.Car, error) {
	return nil, nil
}
func (m *repoMock) IDsByHost(ctx context.Context, hostID int64) ([]int64, error) { return nil, nil }

type usersMock struct {
	setHostFn func(ctx context.Context, id int64, isHost bool) error
}

func (m *usersMock) SetHost(ctx context.Context, id int64, isHost bool) error {
	if m.setHostFn == nil {
		return nil
	}
	return m.setHostFn(ctx, id, isHost)
}

type cacheMock struct {
	store map[int64]*model.Car
}

func newCacheMock() *cacheMock { return &cacheMock{store: map[int64]*model.Car{}} }

func (c *cacheMock) Get(ctx context.Context, id int64) (*model.Car, error) {
	return c.store[id], nil
}
func (c *cacheMock) Set(ctx context.Context, car *model.Car) error {
	c.store[car.ID] = car
	return nil
}
func (c *cacheMock) Invalidate(ctx context.Context, id int64) error {
	delete(c.store, id)
	return nil
}

func TestCreate_RateMustBePositive(t *testing.T) {
	s := carsvc.New(&repoMock{}, newCacheMock(), &usersMock{})
	_, err := s.Create(context.Background(), 9, carsvc.CreateInput{DailyRate: 0})
	if carsvc.Code(err) != carsvc.ErrInvalidRate {
		t.Fatalf("got %v; want INVALID_RATE", err)
	}
	_, err = s.Create(context.Background(), 9, carsvc.CreateInput{DailyRate: -100})
	if carsvc.Code(err) != carsvc.ErrInvalidRate {
		t.Fatalf("got %v; want INVALID_RATE", err)
	}
}

func TestCreate_StartsPendingApproval(t *testing.T) {
	s := carsvc.New(&repoMock{}, newCacheMock(), &usersMock{})
	c, err := s.Create(context.Background(), 9, carsvc.CreateInput{
		Make: "Toyota", Model: "RAV4", Year: 2021, DailyRate: 85000, Location: "Libreville",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != model.CarPendingApproval {
		t.Fatalf("status = %s; want pending_approval", c.Status)
	}
	if c.Currency != "FCFA" {
		t.Fatalf("currency default = %s; want FCFA", c.Currency)
	}
	if c.HostID != 9 {
		t.Fatalf("host = %d; want 9", c.HostID)
	}
}

func TestCreate_MarksUserAsHost(t *testing.T) {
	var hostedID int64
	u := &usersMock{setHostFn: func(ctx context.Context, id int64, isHost bool) error {
		if isHost {
			hostedID = id
		}
		return nil
	}}
	s := carsvc.New(&repoMock{}, newCacheMock(), u)

	if _, err := s.Create(context.Background(), 9, carsvc.CreateInput{
		Make: "Toyota", Model: "RAV4", Year: 2021, DailyRate: 85000, Location: "Libreville",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if hostedID != 9 {
		t.Fatalf("host flag set for %d; want 9", hostedID)
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
		return &model.Car{ID: id, HostID: 9, DailyRate: 85000}, nil
	}}
	s := carsvc.New(m, newCacheMock(), &usersMock{})

	if _, err := s.Update(context.Background(), 3, 1, carsvc.CreateInput{DailyRate: 90000}); carsvc.Code(err) != carsvc.ErrNotOwner {
		t.Fatalf("got %v; want NOT_OWNER", err)
	}
	if _, err := s.Update(context.Background(), 9, 1, carsvc.CreateInput{DailyRate: 90000}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
}

func TestApprove_Transitions(t *testing.T) {
	car := &model.Car{ID: 1, HostID: 9, Status: model.CarPendingApproval}
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
		return car, nil
	}}
	s := carsvc.New(m, newCacheMock(), &usersMock{})

	c, err := s.Approve(context.Background(), 1)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if c.Status != model.CarActive {
		t.Fatalf("status = %s; want active", c.Status)
	}

	car.Status = model.CarActive
	if _, err := s.Approve(context.Background(), 1); carsvc.Code(err) != carsvc.ErrBadStatus {
		t.Fatalf("got %v; want BAD_STATUS", err)
	}
}

func TestDetail_CacheReadThrough(t *testing.T) {
	calls := 0
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
		calls++
		return &model.Car{ID: id, HostID: 9}, nil
	}}
	cache := newCacheMock()
	s := carsvc.New(m, cache, &usersMock{})

	if _, err := s.Detail(context.Background(), 5); err != nil {
		t.Fatalf("detail: %v", err)
	}
	if _, err := s.Detail(context.Background(), 5); err != nil {
		t.Fatalf("detail: %v", err)
	}
	if calls != 1 {
		t.Fatalf("repo hit %d times; want 1 (second read from cache)", calls)
	}
}

func TestDetail_NotFound(t *testing.T) {
	s := carsvc.New(&repoMock{}, newCacheMock(), &usersMock{})
	if _, err := s.Detail(context.Background(), 404); carsvc.Code(err) != carsvc.ErrNotFound {
		t.Fatalf("got %v; want NOT_FOUND", err)
	}
}
