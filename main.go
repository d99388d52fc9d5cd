// Package main Voom car sharing API.
//
// @title           Voom API
// @version         1.0
// @description     Car sharing marketplace (cars, bookings, favorites, messages, verification).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"voom/app/echoServer"
	authctrl "voom/app/echoServer/controller/auth"
	bookingctrl "voom/app/echoServer/controller/booking"
	carctrl "voom/app/echoServer/controller/car"
	favctrl "voom/app/echoServer/controller/favorite"
	msgctrl "voom/app/echoServer/controller/message"
	verifctrl "voom/app/echoServer/controller/verification"
	"voom/app/echoServer/validation"
	"voom/app/echoServer/ws"
	"voom/config"
	bookingrepo "voom/repository/booking"
	"voom/repository/carcache"
	carrepo "voom/repository/car"
	"voom/repository/events"
	favrepo "voom/repository/favorite"
	msgrepo "voom/repository/message"
	userrepo "voom/repository/user"
	verifrepo "voom/repository/verification"
	authsvc "voom/service/auth"
	bookingsvc "voom/service/booking"
	carsvc "voom/service/car"
	favsvc "voom/service/favorite"
	msgsvc "voom/service/message"
	verifsvc "voom/service/verification"
	"voom/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// cache and broker; both run disabled when their URL is unset
	cache, err := carcache.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	pub, err := events.New(cfg.AmqpURL, log)
	if err != nil {
		log.Error("amqp connect failed", "err", err)
		os.Exit(1)
	}
	defer pub.Close()

	// live message delivery
	hub := ws.NewHub(log)
	go hub.Run()

	// repos
	ur := userrepo.New(db)
	cr := carrepo.New(db)
	br := bookingrepo.New(db)
	fr := favrepo.New(db)
	mr := msgrepo.New(db)
	vr := verifrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := carsvc.New(cr, cache, ur)
	bs := bookingsvc.New(br, cr, ur, pub, bookingsvc.Policy{
		AutoConfirm:         cfg.BookingAutoConfirm,
		RequireVerification: cfg.RequireVerification,
	})
	fs := favsvc.New(fr, cr)
	cleaner := bookingsvc.NewCleaner(br)
	ms := msgsvc.New(mr, ur, hub)
	vs := verifsvc.New(vr, ur)

	// expire unconfirmed bookings past their pickup date
	go func() {
		tick := time.NewTicker(time.Hour)
		defer tick.Stop()
		for range tick.C {
			n, err := cleaner.ExpireStale(ctx)
			if err != nil {
				log.Error("booking cleanup", "err", err)
				continue
			}
			if n > 0 {
				log.Info("expired stale bookings", "count", n)
			}
		}
	}()

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	carC := &carctrl.Controller{Svc: cs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	favC := &favctrl.Controller{Svc: fs, Log: log}
	msgC := &msgctrl.Controller{Svc: ms, Hub: hub, V: v, Log: log, JWTSecret: cfg.JWTSecret}
	verifC := &verifctrl.Controller{Svc: vs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		Car:          carC,
		Booking:      bookingC,
		Favorite:     favC,
		Message:      msgC,
		Verification: verifC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
