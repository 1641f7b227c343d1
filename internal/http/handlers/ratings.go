package handlers

import (
	"net/http"
	"strconv"

	"sportmeet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SubmitRatingsRequest struct {
	Ratings []service.RatingEntry `json:"ratings"`
}

// SubmitRatings records the caller's ratings for co-participants of a
// closed room and credits the review reward for each accepted entry.
func (h *Handler) SubmitRatings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req SubmitRatingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if len(req.Ratings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ratings required"})
		return
	}

	accepted, err := h.Ratings.SubmitRatings(c.Request.Context(), roomID, userID, req.Ratings)
	if err != nil {
		writeServiceError(c, "submit_ratings", err)
		return
	}

	countOp("submit_ratings", "ok")
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"reward":   int64(accepted) * h.Cfg.CoinsPerRating,
	})
}
