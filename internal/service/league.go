package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/cache"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LeagueSnapshot is one fetch of every league page of the configured ladder partition.
type LeagueSnapshot struct {
	ID        string
	FetchedAt time.Time
	Pages     [][]api.LadderEntry
}

// Rows flattens every page in league order.
func (s *LeagueSnapshot) Rows() []domain.RawLeagueRow {
	var rows []domain.RawLeagueRow
	for _, page := range s.Pages {
		rows = append(rows, flattenEntries(page)...)
	}
	return rows
}

// LeagueService serves league snapshots from a process-wide cache. Concurrent requests
// during a refresh wait on the same fetch.
type LeagueService struct {
	ladders LadderSource
	cfg     *config.Config
	cache   *cache.TTL[*LeagueSnapshot]
	logger  zerolog.Logger
}

func NewLeagueService(ladders LadderSource, cfg *config.Config, logger zerolog.Logger) *LeagueService {
	return &LeagueService{
		ladders: ladders,
		cfg:     cfg,
		cache:   cache.NewTTL[*LeagueSnapshot](),
		logger:  logger,
	}
}

func (s *LeagueService) Snapshot(ctx context.Context) (*LeagueSnapshot, error) {
	key := fmt.Sprintf("%d:%d:%d:%d", s.cfg.Season, s.cfg.Gateway, s.cfg.GameMode, s.cfg.MaxLeague)
	return s.cache.GetOrFetch(key, s.cfg.CacheTTL, func() (*LeagueSnapshot, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
}

func (s *LeagueService) fetch(ctx context.Context) (*LeagueSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	start := time.Now()
	pages := make([][]api.LadderEntry, s.cfg.MaxLeague+1)

	var g errgroup.Group
	g.SetLimit(constants.LeagueConcurrency)
	for league := range pages {
		g.Go(func() error {
			apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
			defer apiCancel()

			entries, err := s.ladders.LadderPage(apiCtx, league, s.cfg.Gateway, s.cfg.GameMode, s.cfg.Season)
			if err != nil {
				// one missing league only thins the ladder
				s.logger.Warn().Err(err).Int("league", league).Msg("failed to fetch league page")
				return nil
			}
			pages[league] = entries
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	snap := &LeagueSnapshot{ID: id, FetchedAt: time.Now().UTC(), Pages: pages}
	s.logger.Info().
		Str("snapshot_id", id).
		Int("leagues", len(pages)).
		Dur("took", time.Since(start)).
		Msg("league snapshot fetched")
	return snap, nil
}

// CountryRows fetches the per-country standings. A failed fetch yields no rows.
func (s *LeagueService) CountryRows(ctx context.Context, countryCode string) []domain.RawLeagueRow {
	if countryCode == "" {
		return nil
	}
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	leagues, err := s.ladders.CountryLadder(apiCtx, countryCode, s.cfg.Gateway, s.cfg.GameMode, s.cfg.Season)
	if err != nil {
		s.logger.Warn().Err(err).Str("country", countryCode).Msg("failed to fetch country ladder")
		return nil
	}

	var rows []domain.RawLeagueRow
	for _, l := range leagues {
		rows = append(rows, flattenEntries(l.Ranks)...)
	}
	return rows
}

func flattenEntries(entries []api.LadderEntry) []domain.RawLeagueRow {
	rows := make([]domain.RawLeagueRow, 0, len(entries))
	for _, e := range entries {
		row := domain.RawLeagueRow{
			Rating: e.Player.MMR,
			Wins:   e.Player.Wins,
			Games:  e.Player.Games,
			Race:   e.Player.Race,
		}
		if len(e.Player.PlayerIDs) > 0 {
			row.BattleTag = e.Player.PlayerIDs[0].BattleTag
		}
		if len(e.PlayersInfo) > 0 {
			info := e.PlayersInfo[0]
			if row.BattleTag == "" {
				row.BattleTag = info.BattleTag
			}
			row.CountryCode = strings.ToUpper(info.CountryCode)
			if row.Race == nil {
				row.Race = info.CalculatedRace
			}
		}
		rows = append(rows, row)
	}
	return rows
}
