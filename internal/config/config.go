package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/bot"
)

type Config struct {
	Port           string
	FrontendURL    string
	AllowedOrigins []string
	Environment    string

	JWTSecret          string
	SessionTokenTTL    time.Duration
	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	Rules       domain.Rules
	BotSettings bot.Settings
	RandomSeed  int64
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")
	environment := GetEnv("ENVIRONMENT", "development")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	allowedOrigins = append(allowedOrigins, GetEnvAsList("ALLOWED_ORIGINS")...)

	// Sessions
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	tokenTTLMin := GetEnvAsPositiveInt("SESSION_TOKEN_TTL_MINUTES", 24*60)
	idleTimeoutMin := GetEnvAsPositiveInt("SESSION_IDLE_TIMEOUT_MINUTES", 60)
	cleanupIntervalMin := GetEnvAsPositiveInt("CLEANUP_INTERVAL_MINUTES", 10)

	// Analytics (disabled when no brokers are set)
	kafkaBrokers := GetEnvAsList("KAFKA_BROKERS")
	kafkaTopic := GetEnv("KAFKA_TOPIC", "game-events")

	// Game
	defaults := domain.DefaultRules()
	rules := domain.Rules{
		Rows:      GetEnvAsInt("BOARD_ROWS", defaults.Rows),
		Columns:   GetEnvAsInt("BOARD_COLUMNS", defaults.Columns),
		WinLength: GetEnvAsInt("WIN_LENGTH", defaults.WinLength),
	}
	if rules.Rows < 1 || rules.Columns < 1 || rules.WinLength < 2 ||
		(rules.WinLength > rules.Rows && rules.WinLength > rules.Columns) {
		log.Printf("Invalid board %dx%d with win length %d, using defaults", rules.Rows, rules.Columns, rules.WinLength)
		rules = defaults
	}

	botDefaults := bot.DefaultSettings()
	botSettings := bot.Settings{
		Depth:    GetEnvAsInt("AI_SEARCH_DEPTH", botDefaults.Depth),
		WinScore: GetEnvAsInt("AI_WIN_SCORE", botDefaults.WinScore),
	}
	if botSettings.Depth < 1 {
		log.Printf("Invalid AI_SEARCH_DEPTH %d, using default: %d", botSettings.Depth, botDefaults.Depth)
		botSettings.Depth = botDefaults.Depth
	}
	if botSettings.WinScore <= 0 {
		log.Printf("Invalid AI_WIN_SCORE %d, using default: %d", botSettings.WinScore, botDefaults.WinScore)
		botSettings.WinScore = botDefaults.WinScore
	}

	AppConfig = &Config{
		Port:               port,
		FrontendURL:        frontendURL,
		AllowedOrigins:     allowedOrigins,
		Environment:        environment,
		JWTSecret:          jwtSecret,
		SessionTokenTTL:    time.Duration(tokenTTLMin) * time.Minute,
		SessionIdleTimeout: time.Duration(idleTimeoutMin) * time.Minute,
		CleanupInterval:    time.Duration(cleanupIntervalMin) * time.Minute,
		KafkaBrokers:       kafkaBrokers,
		KafkaTopic:         kafkaTopic,
		Rules:              rules,
		BotSettings:        botSettings,
		RandomSeed:         GetEnvAsInt64("AI_RANDOM_SEED", 0),
	}

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsPositiveInt is GetEnvAsInt for durations and counts, where zero
// or below falls back to the default.
func GetEnvAsPositiveInt(key string, defaultValue int) int {
	value := GetEnvAsInt(key, defaultValue)
	if value <= 0 {
		log.Printf("Invalid value for %s: %d must be positive, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsList splits a comma separated value, dropping blanks.
func GetEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
