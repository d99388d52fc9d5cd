package verification

import (
	"log/slog"
	"net/http"
	"strconv"

	"voom/app/echoServer/jwtx"
	verifsvc "voom/service/verification"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc verifsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type SubmitReq struct {
	DocumentType string `json:"document_type" validate:"required"`
	DocumentURL  string `json:"document_url" validate:"required,url"`
}

type ReviewReq struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (h *Controller) fail(c echo.Context, err error, op string) error {
	switch verifsvc.Code(err) {
	case verifsvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "document not found"})
	case verifsvc.ErrBadTransition:
		return c.JSON(http.StatusConflict, echo.Map{"message": "document not in reviewable state"})
	case verifsvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// POST /v1/verification
func (h *Controller) Submit(c echo.Context) error {
	var req SubmitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	uid, _ := c.Get("user_id").(int64)

	d, err := h.Svc.Submit(c.Request().Context(), uid, req.DocumentType, req.DocumentURL)
	if err != nil {
		return h.fail(c, err, "verification submit")
	}
	return c.JSON(http.StatusCreated, d)
}

// GET /v1/verification
func (h *Controller) Status(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Status(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, err, "verification status")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/verification/:id/complete — upload pipeline callback.
func (h *Controller) Complete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	d, err := h.Svc.MarkCompleted(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, err, "verification complete")
	}
	return c.JSON(http.StatusOK, d)
}

// POST /v1/verification/:id/review  (admin)
func (h *Controller) Review(c echo.Context) error {
	if jwtx.RoleFromContext(c) != "admin" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req ReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}

	d, err := h.Svc.Review(c.Request().Context(), id, *req.Approve)
	if err != nil {
		return h.fail(c, err, "verification review")
	}
	return c.JSON(http.StatusOK, d)
}
