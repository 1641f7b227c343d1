package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetProfile returns another user's public profile together with the
// viewer's friendship status and the rating view the viewer is allowed
// to see.
func (h *Handler) GetProfile(c *gin.Context) {
	viewerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.UserRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ratings, err := h.Ratings.View(ctx, viewerID, targetID)
	if err != nil {
		writeServiceError(c, "rating_view", err)
		return
	}

	status, err := h.Friends.Status(ctx, viewerID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Coins and birth date are private to the wallet owner; expose age
	// instead.
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                user.ID,
			"name":              user.Name,
			"gender":            user.Gender,
			"age":               domain.Age(user.BirthDate, time.Now()),
			"city":              user.City,
			"district":          user.District,
			"subscription_tier": user.SubscriptionTier,
			"skill_levels":      user.SkillLevels,
		},
		"ratings":           ratings,
		"friendship_status": status,
	})
}
