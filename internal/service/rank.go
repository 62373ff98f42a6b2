package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"
	"w3c-ladder/internal/ladder"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const noCountry = "—"

type RankService struct {
	resolver TagResolver
	leagues  *LeagueService
	matches  MatchSource
	profiles ProfileSource
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewRankService(resolver TagResolver, leagues *LeagueService, matches MatchSource, profiles ProfileSource, cfg *config.Config, logger zerolog.Logger) *RankService {
	return &RankService{
		resolver: resolver,
		leagues:  leagues,
		matches:  matches,
		profiles: profiles,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetPlayerRank places the player on the global and national ladder of every race they
// play. It returns nil when identifier does not resolve.
func (s *RankService) GetPlayerRank(ctx context.Context, identifier string) (*domain.RankResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	battleTag, ok := s.resolver.Resolve(ctx, identifier)
	if !ok {
		return nil, nil
	}

	var (
		profile *api.PlayerProfile
		history []api.Match
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer apiCancel()
		p, err := s.profiles.PlayerProfile(apiCtx, battleTag)
		if err != nil {
			s.logger.Warn().Err(err).Str("battletag", battleTag).Msg("failed to fetch player profile")
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		m, err := s.matches.AllPlayerMatches(ctx, battleTag, s.cfg.Gateway, []int{s.cfg.Season})
		if err != nil {
			s.logger.Warn().Err(err).Str("battletag", battleTag).Msg("failed to fetch match list")
		}
		history = m
		return nil
	})
	g.Wait() //nolint:errcheck

	country := countryFromMatches(history, battleTag)
	if country == "" && profile != nil {
		country = iso2(profile.CountryCode)
	}

	var (
		snap        *LeagueSnapshot
		countryRows []domain.RawLeagueRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.leagues.Snapshot(gCtx)
		return err
	})
	g.Go(func() error {
		countryRows = s.leagues.CountryRows(gCtx, country)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load leagues: %w", err)
	}

	globalRows := snap.Rows()
	resp := &domain.RankResponse{
		BattleTag: battleTag,
		Season:    s.cfg.Season,
		Country:   country,
		MinGames:  constants.MinLadderGames,
		AsOf:      time.Now().UTC().Format(time.RFC3339),
		Ranks:     []domain.RankRow{},
	}
	if resp.Country == "" {
		resp.Country = noCountry
	}

	for _, race := range domain.RankedRaces {
		global := ladder.Build(ladderInputs(globalRows, race, false))
		gi := indexOf(global, battleTag)
		if gi < 0 {
			continue
		}

		row := domain.RankRow{
			Race:        domain.RaceName(int(race)),
			RaceID:      int(race),
			GlobalRank:  gi + 1,
			GlobalTotal: len(global),
			Rating:      global[gi].Rating,
			Games:       global[gi].Games,
		}
		if len(countryRows) > 0 {
			national := ladder.Build(ladderInputs(countryRows, race, false))
			total := len(national)
			row.CountryTotal = &total
			if ci := indexOf(national, battleTag); ci >= 0 {
				rank := ci + 1
				row.CountryRank = &rank
			}
		}
		resp.Ranks = append(resp.Ranks, row)
	}

	s.logger.Info().Str("battletag", battleTag).Str("country", country).Int("races", len(resp.Ranks)).Msg("player rank built")
	return resp, nil
}

func indexOf(rows []domain.LadderRow, battleTag string) int {
	for i := range rows {
		if strings.EqualFold(rows[i].BattleTag, battleTag) {
			return i
		}
	}
	return -1
}

func iso2(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 2 {
		return ""
	}
	return c
}

// countryFromMatches returns the first two-letter country code recorded for battleTag.
func countryFromMatches(matches []api.Match, battleTag string) string {
	for _, m := range matches {
		for _, t := range m.Teams {
			for _, p := range t.Players {
				if !strings.EqualFold(p.BattleTag, battleTag) {
					continue
				}
				if cc := iso2(p.CountryCode); cc != "" {
					return cc
				}
			}
		}
	}
	return ""
}
