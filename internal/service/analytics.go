package service

import (
	"context"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type AnalyticsService struct {
	resolver   TagResolver
	matches    MatchSource
	normalizer *Normalizer
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewAnalyticsService(resolver TagResolver, matches MatchSource, normalizer *Normalizer, cfg *config.Config, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		resolver:   resolver,
		matches:    matches,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger,
	}
}

// GetMatchAnalytics returns nil when identifier does not resolve.
func (s *AnalyticsService) GetMatchAnalytics(ctx context.Context, identifier string) (*domain.PlayerAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	battleTag, ok := s.resolver.Resolve(ctx, identifier)
	if !ok {
		s.logger.Debug().Str("identifier", identifier).Msg("identifier did not resolve")
		return nil, nil
	}
	return s.analyticsFor(ctx, battleTag), nil
}

// analyticsFor builds the corpus of an already resolved battletag.
func (s *AnalyticsService) analyticsFor(ctx context.Context, battleTag string) *domain.PlayerAnalytics {
	raw, err := s.matches.AllPlayerMatches(ctx, battleTag, s.cfg.Gateway, s.cfg.AnalyticsSeasons)
	if err != nil {
		s.logger.Warn().Err(err).Str("battletag", battleTag).Int("partial", len(raw)).Msg("failed to fetch match list")
	}

	matches := s.normalizer.Normalize(ctx, battleTag, raw)
	a := summarize(battleTag, matches)

	s.logger.Info().
		Str("battletag", battleTag).
		Int("raw", len(raw)).
		Int("normalized", len(matches)).
		Msg("match analytics built")
	return a
}

func summarize(battleTag string, matches []domain.NormalizedMatch) *domain.PlayerAnalytics {
	a := &domain.PlayerAnalytics{
		BattleTag: battleTag,
		Matches:   matches,
		HeroUsage: make(map[string]int),
		Maps:      []domain.MapWinrate{},
	}

	var durations, gold, lumber, upkeep, armies, xp []float64
	wins := 0
	mapIndex := make(map[string]int)

	for _, m := range matches {
		me := m.Me
		if me.Won {
			wins++
		}
		durations = append(durations, float64(m.DurationSeconds))
		gold = append(gold, float64(me.Score.GoldCollected))
		lumber = append(lumber, float64(me.Score.LumberCollected))
		upkeep = append(upkeep, float64(me.Score.GoldUpkeepLost))
		armies = append(armies, float64(me.Score.LargestArmy))
		xp = append(xp, float64(me.Score.ExpGained))

		for _, h := range me.Heroes {
			a.HeroUsage[h.Name]++
		}

		i, ok := mapIndex[m.Map]
		if !ok {
			i = len(a.Maps)
			mapIndex[m.Map] = i
			a.Maps = append(a.Maps, domain.MapWinrate{Map: m.Map})
		}
		a.Maps[i].Games++
		if me.Won {
			a.Maps[i].Wins++
		}
	}

	for i := range a.Maps {
		a.Maps[i].Winrate = float64(a.Maps[i].Wins) / float64(a.Maps[i].Games)
	}

	a.Summary = domain.AnalyticsSummary{
		WinLoss:        domain.NewWinLoss(wins, len(matches)),
		AvgDurationSec: average(durations),
		AvgGold:        average(gold),
		AvgLumber:      average(lumber),
		AvgUpkeepLoss:  average(upkeep),
		AvgArmy:        average(armies),
		AvgXP:          average(xp),
	}
	return a
}
