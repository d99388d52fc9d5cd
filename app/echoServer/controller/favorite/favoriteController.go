package favorite

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	favsvc "voom/service/favorite"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc favsvc.Service
	Log *slog.Logger
}

func carID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/cars/:id/favorite
func (h *Controller) Add(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	f, err := h.Svc.Add(c.Request().Context(), uid, id)
	if err != nil {
		if errors.Is(err, favsvc.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		h.Log.Error("favorite add", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, f)
}

// DELETE /v1/cars/:id/favorite
func (h *Controller) Remove(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	removed, err := h.Svc.Remove(c.Request().Context(), uid, id)
	if err != nil {
		h.Log.Error("favorite remove", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not favorited"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// GET /v1/favorites
func (h *Controller) List(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.List(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("favorite list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
