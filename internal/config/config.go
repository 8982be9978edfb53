package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	DatabaseDSN  string
	DBDriver     string
	DBTimeout    time.Duration
	JWTSecret    string
	JWTTTL       time.Duration
	RedisAddr    string
	QuizCacheTTL time.Duration
	HTTPAddr     string
	Timezone     string
	GeminiAPIKey string
}

var logger = logrus.New()

type ctxKey string

const userIDKey ctxKey = "user_id"

// LoadEnv reads .env when present; the process environment always wins.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment")
	}
}

func Init() {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(os.Stdout)
}

func Load() Settings {
	return Settings{
		DatabaseDSN:  getEnv("DATABASE_DSN", ""),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBTimeout:    getDuration("DB_TIMEOUT", 5*time.Second),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTTTL:       getDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		QuizCacheTTL: getDuration("QUIZ_CACHE_TTL", 10*time.Minute),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		Timezone:     getEnv("APP_TIMEZONE", "UTC"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
	}
}

func Logger() *logrus.Logger {
	return logger
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func WithContext(ctx context.Context) logrus.FieldLogger {
	entry := logrus.NewEntry(logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.WithError(err).Warnf("Invalid duration for %s, using %s", key, fallback)
		return fallback
	}
	return d
}
