package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	BookingApp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/booking"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type reserveRequest struct {
	RoomID      string `json:"room_id"`
	HotelID     string `json:"hotel_id"`
	UserID      string `json:"user_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	RoomsBooked int    `json:"rooms_booked"`
	GuestCount  int    `json:"guest_count"`
}

func (h BookingHandler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	checkIn, err := time.Parse(daterange.ISODate, req.CheckIn)
	if err != nil {
		badRequest(c, "check_in must be an ISO-8601 calendar date")
		return
	}
	checkOut, err := time.Parse(daterange.ISODate, req.CheckOut)
	if err != nil {
		badRequest(c, "check_out must be an ISO-8601 calendar date")
		return
	}
	cmd := BookingApp.ReserveRoomsCommand{
		CommandID:       uuid.NewString(),
		RoomID:          req.RoomID,
		HotelID:         req.HotelID,
		UserID:          req.UserID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		RoomsBooked:     req.RoomsBooked,
		GuestCount:      req.GuestCount,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.ReserveRoomsCommand, *BookingApp.ReserveRoomsResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type transitionRequest struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

func (h BookingHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cmd := BookingApp.TransitionBookingCommand{
		BookingID: c.Param("id"),
		Target:    req.Target,
		Reason:    req.Reason,
	}
	result, err := commands.Dispatch[BookingApp.TransitionBookingCommand, *BookingApp.TransitionBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type paymentRequest struct {
	Target string `json:"target"`
}

func (h BookingHandler) SetPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cmd := BookingApp.SetPaymentStatusCommand{
		BookingID: c.Param("id"),
		Target:    req.Target,
	}
	result, err := commands.Dispatch[BookingApp.SetPaymentStatusCommand, *BookingApp.SetPaymentStatusResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	query := BookingApp.GetBookingQuery{BookingID: c.Param("id")}
	result, err := queries.Ask[BookingApp.GetBookingQuery, *dto.BookingSummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListByUser(c *gin.Context) {
	query := BookingApp.ListUserBookingsQuery{UserID: c.Param("id")}
	result, err := queries.Ask[BookingApp.ListUserBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
