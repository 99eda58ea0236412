package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/config"
	"github.com/Jayu-patel/hotels-management-sub000/internal/infra/obs"
)

type BookingHTTP interface {
	Reserve(c *gin.Context)
	Transition(c *gin.Context)
	SetPayment(c *gin.Context)
	Get(c *gin.Context)
	ListByUser(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
}

type Handlers struct {
	Booking      BookingHTTP
	Availability AvailabilityHTTP
	Pricing      PricingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Reserve)
		api.GET("/bookings/:id", h.Booking.Get)
		api.POST("/bookings/:id/transition", h.Booking.Transition)
		api.POST("/bookings/:id/payment", h.Booking.SetPayment)
		api.GET("/users/:id/bookings", h.Booking.ListByUser)
	}
	if h.Availability != nil {
		api.GET("/rooms/:id/availability", h.Availability.Check)
	}
	if h.Pricing != nil {
		api.GET("/rooms/:id/quote", h.Pricing.Quote)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
