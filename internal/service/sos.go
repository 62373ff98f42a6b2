package service

import (
	"context"
	"strings"
	"sync"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// HistoryCache holds match histories for the lifetime of one ladder request. Each player's
// history is fetched at most once, however many rows ask for it.
type HistoryCache struct {
	matches MatchSource
	gateway int
	seasons []int
	logger  zerolog.Logger

	mu      sync.Mutex
	entries map[string][]api.Match
	flight  singleflight.Group
}

func NewHistoryCache(matches MatchSource, cfg *config.Config, logger zerolog.Logger) *HistoryCache {
	return &HistoryCache{
		matches: matches,
		gateway: cfg.Gateway,
		seasons: []int{cfg.Season},
		logger:  logger,
		entries: make(map[string][]api.Match),
	}
}

// Get returns the player's current-season history. A failed fetch keeps whatever pages
// arrived before the failure.
func (c *HistoryCache) Get(ctx context.Context, battleTag string) []api.Match {
	key := strings.ToLower(battleTag)

	c.mu.Lock()
	if m, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return m
	}
	c.mu.Unlock()

	res, _, _ := c.flight.Do(key, func() (any, error) {
		c.mu.Lock()
		if m, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return m, nil
		}
		c.mu.Unlock()

		matches, err := c.matches.AllPlayerMatches(ctx, battleTag, c.gateway, c.seasons)
		if err != nil {
			c.logger.Warn().Err(err).Str("battletag", battleTag).Int("partial", len(matches)).Msg("failed to fetch match history")
		}

		c.mu.Lock()
		c.entries[key] = matches
		c.mu.Unlock()
		return matches, nil
	})
	return res.([]api.Match)
}

func (c *HistoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type SoSCalculator struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func NewSoSCalculator(cfg *config.Config, logger zerolog.Logger) *SoSCalculator {
	return &SoSCalculator{cfg: cfg, logger: logger}
}

// qualifies reports whether m counts toward battleTag's record under the race filter.
func (s *SoSCalculator) qualifies(m *api.Match, battleTag string, race domain.Race) (pairing, bool) {
	if m.GameMode != s.cfg.GameMode || m.DurationInSeconds < constants.MinDurationSeconds {
		return pairing{}, false
	}
	pair, ok := pairPlayers(m, battleTag)
	if !ok {
		return pairing{}, false
	}
	if race.FiltersHistory() && raceOf(pair.me) != int(race) {
		return pairing{}, false
	}
	return pair, true
}

// StrengthOfSchedule averages the pre-match rating of battleTag's opponents across history.
// Opponents with an unknown or non-positive rating are skipped instead of
// counted as zero, so a few unrated opponents do not drag the mean down.
// It is nil when no match qualifies.
func (s *SoSCalculator) StrengthOfSchedule(history []api.Match, battleTag string, race domain.Race) *float64 {
	sum, n := 0.0, 0
	for i := range history {
		pair, ok := s.qualifies(&history[i], battleTag, race)
		if !ok {
			continue
		}
		rating, known := ratingBefore(pair.opp)
		if !usableRating(rating, known) {
			continue
		}
		sum += rating
		n++
	}
	if n == 0 {
		return nil
	}
	sos := sum / float64(n)
	return &sos
}

// Compute sets SoS on every row. Rows may repeat; each distinct row is computed once.
func (s *SoSCalculator) Compute(ctx context.Context, rows []*domain.LadderRow, race domain.Race, hc *HistoryCache) {
	seen := make(map[*domain.LadderRow]struct{}, len(rows))

	var g errgroup.Group
	g.SetLimit(constants.SoSConcurrency)
	for _, row := range rows {
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}

		g.Go(func() error {
			history := hc.Get(ctx, row.BattleTag)
			row.SoS = s.StrengthOfSchedule(history, row.BattleTag, race)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	s.logger.Debug().Int("rows", len(seen)).Str("race", race.Key()).Msg("strength of schedule computed")
}

// Eligible reports whether battleTag has at least EligibilityGames qualifying matches,
// stopping at the first EligibilityGames found.
func (s *SoSCalculator) Eligible(ctx context.Context, battleTag string, race domain.Race, hc *HistoryCache) bool {
	history := hc.Get(ctx, battleTag)
	games := 0
	for i := range history {
		if _, ok := s.qualifies(&history[i], battleTag, race); !ok {
			continue
		}
		games++
		if games >= constants.EligibilityGames {
			return true
		}
	}
	return false
}

// EligibleAll checks rows concurrently and returns the verdicts keyed by lowercased battletag.
func (s *SoSCalculator) EligibleAll(ctx context.Context, rows []domain.LadderRow, race domain.Race, hc *HistoryCache) map[string]bool {
	verdicts := make([]bool, len(rows))

	var g errgroup.Group
	g.SetLimit(constants.SoSConcurrency)
	for i, row := range rows {
		g.Go(func() error {
			verdicts[i] = s.Eligible(ctx, row.BattleTag, race, hc)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	out := make(map[string]bool, len(rows))
	for i, row := range rows {
		out[strings.ToLower(row.BattleTag)] = verdicts[i]
	}
	return out
}
