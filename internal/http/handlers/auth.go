package handlers

import (
	"errors"
	"net/http"
	"time"

	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/repository"
	"sportmeet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name        string                             `json:"name"`
	Gender      string                             `json:"gender"`
	BirthDate   string                             `json:"birth_date"`
	City        string                             `json:"city"`
	District    string                             `json:"district"`
	SkillLevels map[domain.Sport]domain.SkillLevel `json:"skill_levels"`
}

// Register creates a profile, grants the signup coins and returns a JWT.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	gender := domain.Gender(req.Gender)
	if gender != domain.GenderMale && gender != domain.GenderFemale {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gender must be male or female"})
		return
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
		return
	}
	if birthDate.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be in the past"})
		return
	}
	for sport, level := range req.SkillLevels {
		if !domain.ValidSport(sport) || !domain.ValidSkillLevel(level) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skill levels"})
			return
		}
	}

	ctx := c.Request.Context()

	user := &domain.User{
		Name:             req.Name,
		Gender:           gender,
		BirthDate:        birthDate,
		City:             req.City,
		District:         req.District,
		SubscriptionTier: domain.TierFree,
		SkillLevels:      req.SkillLevels,
	}

	if err := h.UserRepo.Create(ctx, user, h.Cfg.InitialCoins); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

type LoginRequest struct {
	UserID int64 `json:"user_id"`
}

// Login issues a JWT for an existing profile. Identity is asserted by the
// fronting gateway; this service only checks the profile exists.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.UserRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
