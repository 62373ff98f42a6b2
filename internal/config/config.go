package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"w3c-ladder/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL string

	// ladder partition
	Season   int
	Gateway  int
	GameMode int

	// highest league page fetched for the global ladder, inclusive
	MaxLeague int

	AnalyticsSeasons []int

	DBPath     string
	ServerPort string
	LogLevel   string
	CacheTTL   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBaseURL: strings.TrimRight(getEnv("W3C_API_BASE_URL", "https://website-backend.w3champions.com/api"), "/"),
		DBPath:     getEnv("DB_PATH", "w3c.db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CacheTTL:   constants.LeagueCacheTTL,
	}

	var err error
	if cfg.Season, err = getEnvInt("W3C_SEASON", 24); err != nil {
		return nil, err
	}
	if cfg.Gateway, err = getEnvInt("W3C_GATEWAY", 20); err != nil {
		return nil, err
	}
	if cfg.GameMode, err = getEnvInt("W3C_GAME_MODE", 1); err != nil {
		return nil, err
	}
	if cfg.MaxLeague, err = getEnvInt("W3C_MAX_LEAGUE", 76); err != nil {
		return nil, err
	}
	if cfg.AnalyticsSeasons, err = parseSeasons(getEnv("W3C_ANALYTICS_SEASONS", "22,23,24")); err != nil {
		return nil, err
	}

	if cfg.MaxLeague < 0 {
		return nil, fmt.Errorf("W3C_MAX_LEAGUE must not be negative")
	}

	logger.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Int("season", cfg.Season).
		Int("gateway", cfg.Gateway).
		Int("game_mode", cfg.GameMode).
		Ints("analytics_seasons", cfg.AnalyticsSeasons).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseSeasons(raw string) ([]int, error) {
	var seasons []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid W3C_ANALYTICS_SEASONS entry %q: %w", part, err)
		}
		seasons = append(seasons, n)
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("W3C_ANALYTICS_SEASONS is empty")
	}
	return seasons, nil
}

var Module = fx.Provide(Load)
