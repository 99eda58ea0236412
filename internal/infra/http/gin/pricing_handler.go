package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/dto"
	PricingApp "github.com/Jayu-patel/hotels-management-sub000/internal/app/handlers/pricing"
	"github.com/Jayu-patel/hotels-management-sub000/internal/app/queries"
)

type PricingHandler struct {
	Queries queries.Bus
}

func (h PricingHandler) Quote(c *gin.Context) {
	checkIn, checkOut, ok := parseStayWindow(c)
	if !ok {
		return
	}
	query := PricingApp.QuotePriceQuery{
		RoomID:   c.Param("id"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	result, err := queries.Ask[PricingApp.QuotePriceQuery, *dto.PriceQuote](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PricingHTTP = PricingHandler{}
