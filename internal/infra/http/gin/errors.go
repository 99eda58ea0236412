package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

type errorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// writeError translates domain errors into HTTP responses. Errors outside the
// classification are treated as internal and the message is not echoed back.
func writeError(c *gin.Context, err error) {
	kind, ok := domainbooking.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, errorResponse{
			ErrorKind: "Internal",
			Message:   "internal error",
		})
		return
	}
	c.JSON(statusForKind(kind), errorResponse{
		ErrorKind: string(kind),
		Message:   err.Error(),
	})
}

func statusForKind(kind domainbooking.Kind) int {
	switch kind {
	case domainbooking.KindInvalidDateRange, domainbooking.KindInvalidGuestCount:
		return http.StatusBadRequest
	case domainbooking.KindNotFound:
		return http.StatusNotFound
	case domainbooking.KindInsufficientAvailability, domainbooking.KindIllegalStateTransition:
		return http.StatusConflict
	case domainbooking.KindConcurrencyConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{ErrorKind: "InvalidRequest", Message: message})
}
