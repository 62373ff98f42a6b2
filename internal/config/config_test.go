package config

import (
	"testing"

	"w3c-ladder/internal/constants"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"W3C_SEASON", "W3C_GATEWAY", "W3C_GAME_MODE", "W3C_MAX_LEAGUE", "W3C_ANALYTICS_SEASONS", "W3C_API_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Season != 24 || cfg.Gateway != 20 || cfg.GameMode != 1 || cfg.MaxLeague != 76 {
		t.Errorf("unexpected ladder partition defaults: %+v", cfg)
	}
	if len(cfg.AnalyticsSeasons) != 3 || cfg.AnalyticsSeasons[2] != 24 {
		t.Errorf("unexpected analytics seasons %v", cfg.AnalyticsSeasons)
	}
	if cfg.APIBaseURL != "https://website-backend.w3champions.com/api" {
		t.Errorf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.CacheTTL != constants.LeagueCacheTTL {
		t.Errorf("expected league cache ttl %v, got %v", constants.LeagueCacheTTL, cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("W3C_SEASON", "21")
	t.Setenv("W3C_ANALYTICS_SEASONS", " 20, 21 ,")
	t.Setenv("W3C_API_BASE_URL", "http://localhost:9000/api/")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Season != 21 {
		t.Errorf("expected season 21, got %d", cfg.Season)
	}
	if len(cfg.AnalyticsSeasons) != 2 || cfg.AnalyticsSeasons[0] != 20 || cfg.AnalyticsSeasons[1] != 21 {
		t.Errorf("unexpected analytics seasons %v", cfg.AnalyticsSeasons)
	}
	if cfg.APIBaseURL != "http://localhost:9000/api" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("W3C_GATEWAY", "europe")
	if _, err := Load(zerolog.Nop()); err == nil {
		t.Fatal("expected error for non-numeric gateway")
	}
}
