package handlers

import (
	"sportmeet/backend/internal/config"
	"sportmeet/backend/internal/repository"
	"sportmeet/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB  *pgxpool.Pool
	Cfg *config.Config

	UserRepo *repository.UserRepository

	Ledger  *service.LedgerService
	Rooms   *service.RoomService
	Ratings *service.RatingService
	Inbox   *service.InboxService
	Friends *service.FriendService
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config) *Handler {
	ledger := service.NewLedgerService(db)
	return &Handler{
		DB:       db,
		Cfg:      cfg,
		UserRepo: repository.NewUserRepository(db),
		Ledger:   ledger,
		Rooms:    service.NewRoomService(db, ledger, cfg.CreateRoomFee, cfg.JoinRoomFee),
		Ratings:  service.NewRatingService(db, ledger, cfg.CoinsPerRating),
		Inbox:    service.NewInboxService(db, ledger),
		Friends:  service.NewFriendService(db),
	}
}

// getUserID pulls the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
