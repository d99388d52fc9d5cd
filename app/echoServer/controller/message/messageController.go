package message

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"voom/app/echoServer/ws"
	msgsvc "voom/service/message"
	jwtutil "voom/util/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc msgsvc.Service
	Hub *ws.Hub
	V   *validator.Validate
	Log *slog.Logger

	// JWTSecret verifies the websocket handshake; browsers cannot set
	// an Authorization header on an upgrade, so the token may arrive
	// as a query parameter instead.
	JWTSecret string
}

type SendMessageReq struct {
	RecipientID int64  `json:"recipient_id" validate:"required,gt=0"`
	Body        string `json:"body" validate:"required"`
}

// POST /v1/messages
func (h *Controller) Send(c echo.Context) error {
	var req SendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	uid, _ := c.Get("user_id").(int64)

	m, err := h.Svc.Send(c.Request().Context(), uid, req.RecipientID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, msgsvc.ErrEmptyBody), errors.Is(err, msgsvc.ErrSelfMessage):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case errors.Is(err, msgsvc.ErrUnknownRecipient):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "recipient not found"})
		}
		h.Log.Error("message send", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, m)
}

// GET /v1/messages/:userId
func (h *Controller) Thread(c echo.Context) error {
	partnerID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || partnerID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	rows, err := h.Svc.Thread(c.Request().Context(), uid, partnerID)
	if err != nil {
		h.Log.Error("message thread", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/conversations
func (h *Controller) Conversations(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.Conversations(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("conversations", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/ws/messages?token=<JWT>
func (h *Controller) Stream(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		raw = c.Request().Header.Get("Authorization")
	}
	claims, err := jwtutil.ParseAuth(raw, h.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	return h.Hub.Serve(c.Response(), c.Request(), int64(sub))
}
