package echoServer

import (
	"net/http"

	"voom/app/echoServer/controller/auth"
	"voom/app/echoServer/controller/booking"
	"voom/app/echoServer/controller/car"
	"voom/app/echoServer/controller/favorite"
	"voom/app/echoServer/controller/message"
	"voom/app/echoServer/controller/verification"
	"voom/app/echoServer/jwtx"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth         *auth.Controller
	Car          *car.Controller
	Booking      *booking.Controller
	Favorite     *favorite.Controller
	Message      *message.Controller
	Verification *verification.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.GET("/cars", c.Car.List)
	pub.GET("/cars/:id", c.Car.Detail)
	pub.GET("/cars/:id/quote", c.Booking.Quote)
	// the ws handshake carries its token in the query string and
	// verifies it itself
	pub.GET("/ws/messages", c.Message.Stream)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),
	}))
	// user_id extraction from the verified token
	authed.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			return next(ctx)
		}
	})

	// Cars (host)
	authed.POST("/cars", c.Car.Create)
	authed.PUT("/cars/:id", c.Car.Update)
	authed.PATCH("/cars/:id/availability", c.Car.SetAvailability)
	// Admin
	authed.POST("/cars/:id/approve", c.Car.Approve)

	// Bookings
	authed.POST("/bookings", c.Booking.Create)
	authed.GET("/bookings/my", c.Booking.MyBookings)
	authed.GET("/bookings/:id", c.Booking.Detail)
	authed.POST("/bookings/:id/cancel", c.Booking.Cancel)
	authed.POST("/bookings/:id/confirm", c.Booking.Confirm)

	// Host dashboard
	authed.GET("/host/cars", c.Car.MyCars)
	authed.GET("/host/bookings", c.Booking.HostBookings)

	// Favorites
	authed.POST("/cars/:id/favorite", c.Favorite.Add)
	authed.DELETE("/cars/:id/favorite", c.Favorite.Remove)
	authed.GET("/favorites", c.Favorite.List)

	// Messaging
	authed.POST("/messages", c.Message.Send)
	authed.GET("/messages/:userId", c.Message.Thread)
	authed.GET("/conversations", c.Message.Conversations)

	// Identity verification
	authed.POST("/verification", c.Verification.Submit)
	authed.GET("/verification", c.Verification.Status)
	authed.POST("/verification/:id/complete", c.Verification.Complete)
	authed.POST("/verification/:id/review", c.Verification.Review)
}
