package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"
	"w3c-ladder/internal/ladder"

	"github.com/rs/zerolog"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type LadderService struct {
	resolver TagResolver
	leagues  *LeagueService
	matches  MatchSource
	sos      *SoSCalculator
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewLadderService(resolver TagResolver, leagues *LeagueService, matches MatchSource, sos *SoSCalculator, cfg *config.Config, logger zerolog.Logger) *LadderService {
	return &LadderService{
		resolver: resolver,
		leagues:  leagues,
		matches:  matches,
		sos:      sos,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetLadderPage ranks every race together, one row per player.
func (s *LadderService) GetLadderPage(ctx context.Context, identifier string, page, pageSize int) (*domain.LadderPage, error) {
	return s.getPage(ctx, identifier, domain.RaceAll, page, pageSize)
}

func (s *LadderService) GetRaceLadderPage(ctx context.Context, identifier string, race domain.Race, page, pageSize int) (*domain.LadderPage, error) {
	return s.getPage(ctx, identifier, race, page, pageSize)
}

func (s *LadderService) getPage(ctx context.Context, identifier string, race domain.Race, page, pageSize int) (*domain.LadderPage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	page, pageSize = clampPage(page, pageSize)
	log := s.logger.With().Str("race", race.Key()).Int("page", page).Int("page_size", pageSize).Logger()

	var battleTag string
	if identifier != "" {
		if tag, ok := s.resolver.Resolve(ctx, identifier); ok {
			battleTag = tag
		} else {
			log.Debug().Str("identifier", identifier).Msg("identifier did not resolve")
		}
	}

	snap, err := s.leagues.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leagues: %w", err)
	}

	ranked := ladder.Build(ladderInputs(snap.Rows(), race, true))

	start := (page - 1) * pageSize
	hc := NewHistoryCache(s.matches, s.cfg, s.logger)

	// eligibility is only checked for the requested window
	verdicts := s.sos.EligibleAll(ctx, window(ranked, start, pageSize), race, hc)

	eligible := make([]domain.LadderRow, 0, len(ranked))
	for _, r := range ranked {
		if ok, checked := verdicts[strings.ToLower(r.BattleTag)]; checked && !ok {
			continue
		}
		eligible = append(eligible, r)
	}

	visible := window(eligible, start, pageSize)
	top := window(eligible, 0, pageSize)

	var me *domain.LadderRow
	if battleTag != "" {
		for i := range eligible {
			if strings.EqualFold(eligible[i].BattleTag, battleTag) {
				me = &eligible[i]
				break
			}
		}
	}

	// visible, top and me alias eligible, so SoS lands on every view of a row
	targets := make([]*domain.LadderRow, 0, len(visible)+len(top)+1)
	for i := range visible {
		targets = append(targets, &visible[i])
	}
	for i := range top {
		targets = append(targets, &top[i])
	}
	if me != nil {
		targets = append(targets, me)
	}
	s.sos.Compute(ctx, targets, race, hc)

	resp := &domain.LadderPage{
		BattleTag:    battleTag,
		Race:         race.Key(),
		Top:          append([]domain.LadderRow{}, top...),
		PoolSize:     len(eligible),
		Full:         append([]domain.LadderRow{}, visible...),
		SnapshotID:   snap.ID,
		UpdatedAtUTC: time.Now().UTC().Format(timestampLayout),
	}
	if me != nil {
		row := *me
		resp.Me = &row
	}

	log.Info().
		Str("snapshot_id", snap.ID).
		Int("ranked", len(ranked)).
		Int("eligible", len(eligible)).
		Int("histories", hc.Len()).
		Bool("me", me != nil).
		Msg("ladder page built")
	return resp, nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// window returns rows[start:start+size], clipped to the slice bounds. It shares memory with rows.
func window(rows []domain.LadderRow, start, size int) []domain.LadderRow {
	if start >= len(rows) {
		return rows[len(rows):]
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// ladderInputs keeps rows with a battletag and at least MinLadderGames games that match race.
// With RaceAll a player keeps only the race row with the most games, higher rating on a tie.
func ladderInputs(rows []domain.RawLeagueRow, race domain.Race, positiveRating bool) []domain.LadderInputRow {
	var inputs []domain.LadderInputRow
	index := make(map[string]int)

	for _, r := range rows {
		if r.BattleTag == "" || r.Games < constants.MinLadderGames {
			continue
		}
		if positiveRating && r.Rating <= 0 {
			continue
		}
		if race != domain.RaceAll && (r.Race == nil || !race.Matches(*r.Race)) {
			continue
		}

		in := domain.LadderInputRow{
			BattleTag: r.BattleTag,
			Rating:    r.Rating,
			Wins:      r.Wins,
			Games:     r.Games,
		}
		if race != domain.RaceAll {
			inputs = append(inputs, in)
			continue
		}

		key := strings.ToLower(r.BattleTag)
		i, seen := index[key]
		if !seen {
			index[key] = len(inputs)
			inputs = append(inputs, in)
			continue
		}
		prev := inputs[i]
		if in.Games > prev.Games || (in.Games == prev.Games && in.Rating > prev.Rating) {
			inputs[i] = in
		}
	}
	return inputs
}
