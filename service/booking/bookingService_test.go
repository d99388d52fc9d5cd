package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"voom/model"
	"voom/service/pricing"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	createFn       func(ctx context.Context, b *model.Booking) error
	byIDFn         func(ctx context.Context, id int64) (*model.Booking, error)
	updateStatusFn func(ctx context.Context, id int64, status model.BookingStatus, cancelledAt *time.Time) (*model.Booking, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]model.Booking, error)
	confirmFn      func(ctx context.Context, id int64) (*model.Booking, error)
	listForCarsFn  func(ctx context.Context, carIDs []int64) ([]model.Booking, error)
	expireStaleFn  func(ctx context.Context, now time.Time) (int64, error)
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, b *model.Booking) error {
	if m.createFn == nil {
		b.ID = 1
		return nil
	}
	return m.createFn(ctx, b)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *repoMock) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, cancelledAt *time.Time) (*model.Booking, error) {
	if m.updateStatusFn == nil {
		return &model.Booking{ID: id, Status: status, CancelledAt: cancelledAt}, nil
	}
	return m.updateStatusFn(ctx, id, status, cancelledAt)
}
func (m *repoMock) ConfirmPending(ctx context.Context, id int64) (*model.Booking, error) {
	if m.confirmFn == nil {
		return &model.Booking{ID: id, Status: model.BookingConfirmed}, nil
	}
	return m.confirmFn(ctx, id)
}
func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	if m.listByUserFn == nil {
		return nil, nil
	}
	return m.listByUserFn(ctx, userID)
}
func (m *repoMock) ListForCars(ctx context.Context, carIDs []int64) ([]model.Booking, error) {
	if m.listForCarsFn == nil {
		return nil, nil
	}
	return m.listForCarsFn(ctx, carIDs)
}
func (m *repoMock) ExpireStalePending(ctx context.Context, now time.Time) (int64, error) {
	if m.expireStaleFn == nil {
		return 0, nil
	}
	return m.expireStaleFn(ctx, now)
}

type carsMock struct {
	getFn func(ctx context.Context, id int64) (*model.Car, error)
	idsFn func(ctx context.Context, hostID int64) ([]int64, error)
}

func (m *carsMock) ByID(ctx context.Context, id int64) (*model.Car, error) {
	if m.getFn == nil {
		return nil, nil
	}
	return m.getFn(ctx, id)
}
func (m *carsMock) IDsByHost(ctx context.Context, hostID int64) ([]int64, error) {
	if m.idsFn == nil {
		return nil, nil
	}
	return m.idsFn(ctx, hostID)
}

type usersMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return &model.User{ID: id, Verified: true}, nil
	}
	return m.byIDFn(ctx, id)
}

type eventsMock struct {
	created, confirmed, cancelled int
	lastRefund                    RefundLevel
}

func (m *eventsMock) BookingCreated(ctx context.Context, b *model.Booking)   { m.created++ }
func (m *eventsMock) BookingConfirmed(ctx context.Context, b *model.Booking) { m.confirmed++ }
func (m *eventsMock) BookingCancelled(ctx context.Context, b *model.Booking, refund RefundLevel) {
	m.cancelled++
	m.lastRefund = refund
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService(r *repoMock, c *carsMock, u *usersMock, ev *eventsMock, p Policy) *service {
	s := New(r, c, u, ev, p).(*service)
	s.now = func() time.Time { return testNow }
	return s
}

func activeCar() *model.Car {
	return &model.Car{
		ID:        5,
		HostID:    9,
		DailyRate: 85000,
		Currency:  "FCFA",
		Location:  "Libreville Centre",
		Available: true,
		Status:    model.CarActive,
	}
}

func validInput() CreateInput {
	return CreateInput{
		CarID:         5,
		StartDate:     testNow.AddDate(0, 0, 2),
		EndDate:       testNow.AddDate(0, 0, 10),
		PaymentMethod: "card",
	}
}

func carsReturning(car *model.Car) *carsMock {
	return &carsMock{getFn: func(ctx context.Context, id int64) (*model.Car, error) { return car, nil }}
}

// --- create ---

func TestCreate_Success_AutoConfirm(t *testing.T) {
	ctx := context.Background()
	ev := &eventsMock{}
	s := newTestService(&repoMock{}, carsReturning(activeCar()), &usersMock{}, ev, Policy{AutoConfirm: true, RequireVerification: true})

	out, err := s.Create(ctx, 7, validInput())
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, out.Booking.Status)
	require.Equal(t, int64(7), out.Booking.UserID)
	require.Equal(t, "Libreville Centre", out.Booking.PickupLocation, "pickup defaults to car location")
	require.Equal(t, out.Booking.PickupLocation, out.Booking.DropoffLocation)
	require.Equal(t, model.PayCard, out.Booking.PaymentMethod)
	require.Equal(t, 1, ev.created)

	// 8 days at 85000: persisted total is the calculator's, not a
	// client-supplied number.
	want := pricing.Quote(85000, validInput().StartDate, validInput().EndDate)
	require.Equal(t, int64(755500), want.Total)
	require.Equal(t, want.Total, out.Booking.TotalAmount)
	require.Equal(t, want, out.Quote)
	require.Equal(t, "755 500 FCFA", out.TotalDisplay)
}

func TestCreate_PendingWhenApprovalModeled(t *testing.T) {
	s := newTestService(&repoMock{}, carsReturning(activeCar()), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: false})

	out, err := s.Create(context.Background(), 7, validInput())
	require.NoError(t, err)
	require.Equal(t, model.BookingPending, out.Booking.Status)
}

func TestCreate_VerificationRequired(t *testing.T) {
	u := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, Verified: false}, nil
	}}
	s := newTestService(&repoMock{}, carsReturning(activeCar()), u, &eventsMock{}, Policy{AutoConfirm: true, RequireVerification: true})

	_, err := s.Create(context.Background(), 7, validInput())
	require.Error(t, err)
	require.Equal(t, ErrVerificationRequired, Code(err), "must be distinct from plain validation errors")
}

func TestCreate_UnverifiedAllowedWhenPolicyOff(t *testing.T) {
	u := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, Verified: false}, nil
	}}
	s := newTestService(&repoMock{}, carsReturning(activeCar()), u, &eventsMock{}, Policy{AutoConfirm: true, RequireVerification: false})

	_, err := s.Create(context.Background(), 7, validInput())
	require.NoError(t, err)
}

func TestCreate_InvalidDates(t *testing.T) {
	s := newTestService(&repoMock{}, carsReturning(activeCar()), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})

	// end before start
	in := validInput()
	in.StartDate = testNow.AddDate(0, 0, 5)
	in.EndDate = testNow.AddDate(0, 0, 3)
	_, err := s.Create(context.Background(), 7, in)
	require.Equal(t, ErrInvalidDates, Code(err))

	// end equal to start
	in = validInput()
	in.EndDate = in.StartDate
	_, err = s.Create(context.Background(), 7, in)
	require.Equal(t, ErrInvalidDates, Code(err))

	// start strictly before today
	in = validInput()
	in.StartDate = testNow.AddDate(0, 0, -1)
	_, err = s.Create(context.Background(), 7, in)
	require.Equal(t, ErrInvalidDates, Code(err))

	// start earlier today but before now is fine: the lower bound is
	// date-only.
	in = validInput()
	in.StartDate = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	in.EndDate = in.StartDate.AddDate(0, 0, 3)
	_, err = s.Create(context.Background(), 7, in)
	require.NoError(t, err)
}

func TestCreate_UnknownPaymentMethod(t *testing.T) {
	s := newTestService(&repoMock{}, carsReturning(activeCar()), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})

	in := validInput()
	in.PaymentMethod = "cash"
	_, err := s.Create(context.Background(), 7, in)
	require.Equal(t, ErrInvalidPayment, Code(err))
}

func TestCreate_DropoffOverride(t *testing.T) {
	s := newTestService(&repoMock{}, carsReturning(activeCar()), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})

	in := validInput()
	in.DifferentDropoff = true
	in.DropoffLocation = "Airport"
	out, err := s.Create(context.Background(), 7, in)
	require.NoError(t, err)
	require.Equal(t, "Airport", out.Booking.DropoffLocation)

	// opting in without naming a drop-off is a validation error
	in.DropoffLocation = ""
	_, err = s.Create(context.Background(), 7, in)
	require.Equal(t, ErrInvalidLocation, Code(err))
}

func TestCreate_CarMissingOrUnavailable(t *testing.T) {
	s := newTestService(&repoMock{}, carsReturning(nil), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})
	_, err := s.Create(context.Background(), 7, validInput())
	require.Equal(t, ErrCarNotFound, Code(err))

	car := activeCar()
	car.Available = false
	s = newTestService(&repoMock{}, carsReturning(car), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})
	_, err = s.Create(context.Background(), 7, validInput())
	require.Equal(t, ErrCarUnavailable, Code(err))

	car = activeCar()
	car.Status = model.CarPendingApproval
	s = newTestService(&repoMock{}, carsReturning(car), &usersMock{}, &eventsMock{}, Policy{AutoConfirm: true})
	_, err = s.Create(context.Background(), 7, validInput())
	require.Equal(t, ErrCarUnavailable, Code(err))
}

func TestCreate_RepoError(t *testing.T) {
	r := &repoMock{createFn: func(ctx context.Context, b *model.Booking) error {
		return errors.New("db down")
	}}
	ev := &eventsMock{}
	s := newTestService(r, carsReturning(activeCar()), &usersMock{}, ev, Policy{AutoConfirm: true})

	_, err := s.Create(context.Background(), 7, validInput())
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err), "persistence errors propagate uncoded")
	require.Zero(t, ev.created)
}

// --- transitions ---

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		from    model.BookingStatus
		action  Action
		to      model.BookingStatus
		errCode ErrCode
	}{
		{model.BookingPending, ActionConfirm, model.BookingConfirmed, ""},
		{model.BookingPending, ActionCancel, model.BookingCancelled, ""},
		{model.BookingConfirmed, ActionCancel, model.BookingCancelled, ""},
		{model.BookingConfirmed, ActionConfirm, model.BookingConfirmed, ErrBadTransition},
		{model.BookingCancelled, ActionCancel, model.BookingCancelled, ErrAlreadyCancelled},
		{model.BookingCancelled, ActionConfirm, model.BookingCancelled, ErrBadTransition},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.action)
		if tc.errCode == "" {
			require.NoError(t, err, "%s %s", tc.from, tc.action)
		} else {
			require.Equal(t, tc.errCode, Code(err), "%s %s", tc.from, tc.action)
		}
		require.Equal(t, tc.to, got)
	}
}

func TestCancel_RefundWindow(t *testing.T) {
	mk := func(start time.Time) *service {
		r := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 7, StartDate: start, Status: model.BookingConfirmed}, nil
		}}
		return newTestService(r, &carsMock{}, &usersMock{}, &eventsMock{}, Policy{})
	}

	// exactly 24h before pickup is still a full refund
	out, err := mk(testNow.Add(24 * time.Hour)).Cancel(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, RefundFull, out.Refund)

	out, err = mk(testNow.Add(23 * time.Hour)).Cancel(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, RefundPartial, out.Refund)

	out, err = mk(testNow.Add(48 * time.Hour)).Cancel(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, RefundFull, out.Refund)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	r := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
		return &model.Booking{ID: id, UserID: 7, Status: model.BookingCancelled}, nil
	}}
	ev := &eventsMock{}
	s := newTestService(r, &carsMock{}, &usersMock{}, ev, Policy{})

	_, err := s.Cancel(context.Background(), 7, 1)
	require.Equal(t, ErrAlreadyCancelled, Code(err))
	require.Zero(t, ev.cancelled)
}

func TestCancel_NotOwner(t *testing.T) {
	r := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
		return &model.Booking{ID: id, UserID: 8, Status: model.BookingPending}, nil
	}}
	s := newTestService(r, &carsMock{}, &usersMock{}, &eventsMock{}, Policy{})

	_, err := s.Cancel(context.Background(), 7, 1)
	require.Equal(t, ErrNotOwner, Code(err))
}

func TestConfirm_HostOnly(t *testing.T) {
	r := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
		return &model.Booking{ID: id, CarID: 5, UserID: 7, Status: model.BookingPending}, nil
	}}
	ev := &eventsMock{}
	s := newTestService(r, carsReturning(activeCar()), &usersMock{}, ev, Policy{})

	// activeCar host is 9
	b, err := s.Confirm(context.Background(), 9, 1)
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, b.Status)
	require.Equal(t, 1, ev.confirmed)

	_, err = s.Confirm(context.Background(), 3, 1)
	require.Equal(t, ErrNotOwner, Code(err))
}

func TestConfirm_RacedCancelNotOverwritten(t *testing.T) {
	// ByID sees the booking still pending, but a cancel lands before
	// the guarded update; the confirm must not resurrect the row.
	r := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: id, CarID: 5, UserID: 7, Status: model.BookingPending}, nil
		},
		confirmFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return nil, nil
		},
	}
	ev := &eventsMock{}
	s := newTestService(r, carsReturning(activeCar()), &usersMock{}, ev, Policy{})

	_, err := s.Confirm(context.Background(), 9, 1)
	require.Equal(t, ErrBadTransition, Code(err))
	require.Equal(t, 0, ev.confirmed)
}

// --- host dashboard ---

func TestHostBookings_ScansOwnedCars(t *testing.T) {
	var askedIDs []int64
	r := &repoMock{listForCarsFn: func(ctx context.Context, carIDs []int64) ([]model.Booking, error) {
		askedIDs = carIDs
		return []model.Booking{{ID: 1}, {ID: 2}}, nil
	}}
	c := &carsMock{idsFn: func(ctx context.Context, hostID int64) ([]int64, error) {
		return []int64{5, 6}, nil
	}}
	s := newTestService(r, c, &usersMock{}, &eventsMock{}, Policy{})

	rows, err := s.HostBookings(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []int64{5, 6}, askedIDs)
}

func TestHostBookings_NoCars(t *testing.T) {
	s := newTestService(&repoMock{}, &carsMock{}, &usersMock{}, &eventsMock{}, Policy{})
	rows, err := s.HostBookings(context.Background(), 9)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCleanerExpiresStale(t *testing.T) {
	var got time.Time
	r := &repoMock{expireStaleFn: func(ctx context.Context, now time.Time) (int64, error) {
		got = now
		return 3, nil
	}}
	c := &cleaner{r: r, now: func() time.Time { return testNow }}

	n, err := c.ExpireStale(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, testNow.UTC(), got)
}
