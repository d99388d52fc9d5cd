package booking

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	bs "voom/service/booking"
	"voom/util/money"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func httpStatus(code bs.ErrCode) int {
	switch code {
	case bs.ErrCarNotFound, bs.ErrBookingNotFound:
		return http.StatusNotFound
	case bs.ErrCarUnavailable, bs.ErrAlreadyCancelled, bs.ErrBadTransition:
		return http.StatusConflict
	case bs.ErrNotOwner:
		return http.StatusForbidden
	case bs.ErrVerificationRequired:
		return http.StatusForbidden
	case bs.ErrInvalidDates, bs.ErrInvalidPayment, bs.ErrInvalidLocation:
		return http.StatusBadRequest
	case bs.ErrUserNotFound:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (h *Controller) fail(c echo.Context, err error, op string) error {
	code := bs.Code(err)
	if code == "" {
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	// verification_required is a distinct kind: the client should
	// redirect to the verification flow, not render a form error.
	return c.JSON(httpStatus(code), echo.Map{"code": string(code)})
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": string(bs.ErrInvalidDates)})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": string(bs.ErrInvalidDates)})
	}

	uid, _ := c.Get("user_id").(int64)
	out, err := h.Svc.Create(c.Request().Context(), uid, bs.CreateInput{
		CarID:            req.CarID,
		StartDate:        start,
		EndDate:          end,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		DifferentDropoff: req.DifferentDropoff,
		PaymentMethod:    req.PaymentMethod,
	})
	if err != nil {
		return h.fail(c, err, "booking create")
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/cars/:id/quote?start=2006-01-02&end=2006-01-02
func (h *Controller) Quote(c echo.Context) error {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || carID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	// The calculator clamps bad ranges rather than erroring, so a
	// quote can always render.
	start, _ := parseDate(c.QueryParam("start"))
	end, _ := parseDate(c.QueryParam("end"))

	out, err := h.Svc.Quote(c.Request().Context(), carID, start, end)
	if err != nil {
		return h.fail(c, err, "booking quote")
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Cancel(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, err, "booking cancel")
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/bookings/:id/confirm  (host action)
func (h *Controller) Confirm(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Confirm(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, err, "booking confirm")
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Detail(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, err, "booking detail")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":        b,
		"total_display":  money.Format(b.TotalAmount, b.Currency),
		"pickup_display": money.FormatDateTime(b.StartDate),
	})
}

// GET /v1/bookings/my
func (h *Controller) MyBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, err, "booking history")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/host/bookings
func (h *Controller) HostBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.HostBookings(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, err, "host bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
