package config

import (
	"os"
	"strconv"
	"time"

	"sportmeet/backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Coin economy. All positive; room fees are sinks, never
	// transferred to the host.
	InitialCoins   int64
	CreateRoomFee  int64
	JoinRoomFee    int64
	CoinsPerRating int64
	MonthlyCoins   int64

	// Per-user limit for mutating engine calls (join/create/claim).
	MutationRateLimit  int
	MutationRateWindow time.Duration
}

// Load reads configuration from the environment (.env honored).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	cfg := &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		InitialCoins:   envInt64("INITIAL_COINS", 20),
		CreateRoomFee:  envInt64("CREATE_ROOM_FEE", 5),
		JoinRoomFee:    envInt64("JOIN_ROOM_FEE", 5),
		CoinsPerRating: envInt64("COINS_PER_RATING", 2),
		MonthlyCoins:   envInt64("MONTHLY_COINS", 20),

		MutationRateLimit:  envInt("MUTATION_RATE_LIMIT", 30),
		MutationRateWindow: time.Duration(envInt("MUTATION_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}

	return cfg
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
