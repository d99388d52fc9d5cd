package car

import (
	"log/slog"
	"net/http"
	"strconv"

	"voom/app/echoServer/jwtx"
	carsvc "voom/service/car"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc carsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	return jwtx.RoleFromContext(c) == "admin"
}

func carID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Controller) fail(c echo.Context, err error, op string) error {
	switch carsvc.Code(err) {
	case carsvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
	case carsvc.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case carsvc.ErrInvalidRate:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "daily rate must be positive"})
	case carsvc.ErrBadStatus:
		return c.JSON(http.StatusConflict, echo.Map{"message": "listing not pending approval"})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

func (h *Controller) bindUpsert(c echo.Context) (*UpsertCarReq, error) {
	var req UpsertCarReq
	if err := c.Bind(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	return &req, nil
}

func toInput(req *UpsertCarReq) carsvc.CreateInput {
	return carsvc.CreateInput{
		Make:      req.Make,
		Model:     req.Model,
		Year:      req.Year,
		Type:      req.Type,
		DailyRate: req.DailyRate,
		Currency:  req.Currency,
		Location:  req.Location,
		Features:  req.Features,
	}
}

// POST /v1/cars  (host)
func (h *Controller) Create(c echo.Context) error {
	req, err := h.bindUpsert(c)
	if req == nil {
		return err
	}
	uid, _ := c.Get("user_id").(int64)

	car, err := h.Svc.Create(c.Request().Context(), uid, toInput(req))
	if err != nil {
		return h.fail(c, err, "car create")
	}
	return c.JSON(http.StatusCreated, car)
}

// PUT /v1/cars/:id  (host)
func (h *Controller) Update(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	req, err := h.bindUpsert(c)
	if req == nil {
		return err
	}
	uid, _ := c.Get("user_id").(int64)

	car, err := h.Svc.Update(c.Request().Context(), uid, id, toInput(req))
	if err != nil {
		return h.fail(c, err, "car update")
	}
	return c.JSON(http.StatusOK, car)
}

// PATCH /v1/cars/:id/availability  (host)
func (h *Controller) SetAvailability(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req AvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	uid, _ := c.Get("user_id").(int64)

	car, err := h.Svc.SetAvailability(c.Request().Context(), uid, id, *req.Available)
	if err != nil {
		return h.fail(c, err, "car availability")
	}
	return c.JSON(http.StatusOK, car)
}

// POST /v1/cars/:id/approve  (admin)
func (h *Controller) Approve(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	car, err := h.Svc.Approve(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "car approve")
	}
	return c.JSON(http.StatusOK, car)
}

// GET /v1/cars
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), carsvc.Filter{
		Location: c.QueryParam("location"),
		Type:     c.QueryParam("type"),
	})
	if err != nil {
		return h.fail(c, err, "car list")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/cars/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	car, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "car detail")
	}
	return c.JSON(http.StatusOK, car)
}

// GET /v1/host/cars
func (h *Controller) MyCars(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ListByHost(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, err, "host cars")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
