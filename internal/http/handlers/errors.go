package handlers

import (
	"errors"
	"net/http"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/http/middleware"
	"sportmeet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service sentinels onto HTTP statuses and counts
// the outcome. Unknown errors become a 500 without leaking detail.
func writeServiceError(c *gin.Context, op string, err error) {
	var notEligible *service.NotEligibleError
	switch {
	case errors.Is(err, domain.ErrValidation):
		countOp(op, "validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		countOp(op, "insufficient_funds")
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins"})
	case errors.As(err, &notEligible):
		countOp(op, "not_eligible")
		c.JSON(http.StatusForbidden, gin.H{"error": "not eligible", "reason": notEligible.Reason})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrRewardNotFound),
		errors.Is(err, service.ErrRequestNotFound):
		countOp(op, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrAlreadyClaimed),
		errors.Is(err, service.ErrRequestPending),
		errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrRoomNotClosed):
		countOp(op, "conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotParticipant):
		countOp(op, "forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSelfMessage):
		countOp(op, "validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		countOp(op, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func countOp(op, outcome string) {
	middleware.EngineOps.WithLabelValues(op, outcome).Inc()
}
