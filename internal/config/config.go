package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	PullRateLimit  int
	PullRateWindow time.Duration

	// Leaderboard
	LeaderboardSize    int
	LeaderboardRefresh time.Duration

	Packs *domain.PackRegistry
}

// Load reads configuration from the environment (.env is honored in dev).
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

	packs, err := parsePacks(os.Getenv("PACKS"))
	if err != nil {
		logger.Fatal("invalid PACKS value", "error", err)
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
		PullRateLimit:  envInt("PULL_RATE_LIMIT", 10),
		PullRateWindow: envSeconds("PULL_RATE_WINDOW_SECONDS", time.Minute),

		LeaderboardSize:    envInt("LEADERBOARD_SIZE", 100),
		LeaderboardRefresh: envSeconds("LEADERBOARD_REFRESH_SECONDS", 60*time.Second),

		Packs: packs,
	}
}

// parsePacks parses PACKS ("id:start-end,id:start-end"). Empty input yields
// the default registry: the 365-card daily pack and the 100-card bonus pack.
func parsePacks(raw string) (*domain.PackRegistry, error) {
	if raw == "" {
		return domain.NewPackRegistry([]domain.PackDefinition{
			{ID: domain.DefaultPackID, Name: "Daily", CardRangeStart: 1, CardRangeEnd: 365},
			{ID: "bonus", Name: "Bonus", CardRangeStart: 366, CardRangeEnd: 465},
		})
	}

	var defs []domain.PackDefinition
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, rng, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errMalformedPack(part)
		}
		startStr, endStr, ok := strings.Cut(rng, "-")
		if !ok {
			return nil, errMalformedPack(part)
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(startStr))
		end, err2 := strconv.Atoi(strings.TrimSpace(endStr))
		if err1 != nil || err2 != nil {
			return nil, errMalformedPack(part)
		}

		id = strings.TrimSpace(id)
		defs = append(defs, domain.PackDefinition{
			ID:             id,
			Name:           capitalize(id),
			CardRangeStart: start,
			CardRangeEnd:   end,
		})
	}
	return domain.NewPackRegistry(defs)
}

func errMalformedPack(part string) error {
	return fmt.Errorf("malformed pack definition %q, expected id:start-end", part)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
