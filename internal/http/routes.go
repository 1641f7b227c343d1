package http

import (
	"os"
	"strconv"
	"time"

	"sportmeet/backend/internal/config"
	"sportmeet/backend/internal/domain"
	"sportmeet/backend/internal/http/handlers"
	"sportmeet/backend/internal/http/middleware"
	"sportmeet/backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, cfg, authRateLimit, authRateWindow)

	// Legacy /api routes kept for early clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, cfg, authRateLimit, authRateWindow)

	// WebSocket chat feed per room
	hub := ws.NewHub()
	hub.StartCleanup()
	h.Rooms.SetChatNotifier(func(roomID int64, msg *domain.ChatMessage) {
		hub.Broadcast(roomID, gin.H{"type": "chat", "message": msg})
	})
	r.GET("/ws/rooms/:id", ws.HandleWS(hub, h.Rooms))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config, authRateLimit int, authRateWindow time.Duration) {
	// Auth
	api.POST("/auth/register", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Register)
	api.POST("/auth/login", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Login)

	// Per-user limiter for calls that move coins
	mutRL := middleware.MutationRateLimit(cfg.MutationRateLimit, cfg.MutationRateWindow)

	// Own profile and wallet
	api.GET("/me", middleware.JWT(), h.Me)
	api.PATCH("/me", middleware.JWT(), h.UpdateMe)
	api.GET("/me/balance", middleware.JWT(), h.Balance)
	api.GET("/me/transactions", middleware.JWT(), h.Transactions)

	// Other users
	api.GET("/users/:id", middleware.JWT(), h.GetProfile)

	// Rooms
	api.GET("/rooms", middleware.JWT(), h.ListRooms)
	api.POST("/rooms", middleware.JWT(), mutRL, h.CreateRoom)
	api.GET("/rooms/:id", middleware.JWT(), h.GetRoom)
	api.POST("/rooms/:id/join", middleware.JWT(), mutRL, h.JoinRoom)
	api.POST("/rooms/:id/chat", middleware.JWT(), h.PostChat)
	api.POST("/rooms/:id/ratings", middleware.JWT(), mutRL, h.SubmitRatings)

	// Friends
	api.GET("/friends", middleware.JWT(), h.FriendsOverview)
	api.POST("/friends/requests/:id", middleware.JWT(), h.SendFriendRequest)
	api.POST("/friends/requests/:id/accept", middleware.JWT(), h.AcceptFriendRequest)
	api.POST("/friends/requests/:id/decline", middleware.JWT(), h.DeclineFriendRequest)

	// Inbox
	api.GET("/inbox", middleware.JWT(), h.ListConversations)
	api.GET("/inbox/:counterpart", middleware.JWT(), h.GetConversation)
	api.POST("/inbox/messages", middleware.JWT(), h.SendMessage)
	api.POST("/inbox/:counterpart/read", middleware.JWT(), h.MarkConversationRead)
	api.POST("/inbox/rewards/:msg_id/claim", middleware.JWT(), mutRL, h.ClaimReward)
}
