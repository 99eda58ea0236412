package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	AvailabilityApp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/availability"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
	"github.com/Jayu-patel/hotels-management-sub000/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	checkIn, checkOut, ok := parseStayWindow(c)
	if !ok {
		return
	}
	query := AvailabilityApp.CheckAvailabilityQuery{
		RoomID:   c.Param("id"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	result, err := queries.Ask[AvailabilityApp.CheckAvailabilityQuery, *dto.RoomAvailability](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseStayWindow reads the check_in and check_out query parameters shared by
// the availability and quote endpoints.
func parseStayWindow(c *gin.Context) (time.Time, time.Time, bool) {
	checkIn, err := time.Parse(daterange.ISODate, c.Query("check_in"))
	if err != nil {
		badRequest(c, "check_in must be an ISO-8601 calendar date")
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := time.Parse(daterange.ISODate, c.Query("check_out"))
	if err != nil {
		badRequest(c, "check_out must be an ISO-8601 calendar date")
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
