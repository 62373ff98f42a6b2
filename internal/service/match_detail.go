package service

import (
	"context"
	"fmt"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/constants"

	"github.com/rs/zerolog"
)

type DetailStore interface {
	GetByMatchID(ctx context.Context, matchID string) (*api.MatchDetail, error)
	Upsert(ctx context.Context, matchID string, detail *api.MatchDetail) error
}

// MatchDetailService reads match details through the local store, falling back to the
// backend on a miss. Only finished matches are stored.
type MatchDetailService struct {
	upstream DetailSource
	store    DetailStore
	logger   zerolog.Logger
}

func NewMatchDetailService(upstream DetailSource, store DetailStore, logger zerolog.Logger) *MatchDetailService {
	return &MatchDetailService{upstream: upstream, store: store, logger: logger}
}

func (s *MatchDetailService) MatchDetail(ctx context.Context, matchID string) (*api.MatchDetail, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	stored, err := s.store.GetByMatchID(dbCtx, matchID)
	cancel()
	if err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to read stored match detail")
	}
	if stored != nil {
		s.logger.Debug().Str("match_id", matchID).Msg("match detail found in store")
		return stored, nil
	}

	s.logger.Debug().Str("match_id", matchID).Msg("match detail not stored, fetching from API")
	detail, err := s.upstream.MatchDetail(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match detail: %w", err)
	}

	if detail.Match.EndTime == nil {
		// may still change upstream
		return detail, nil
	}

	dbCtx, cancel = context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.store.Upsert(dbCtx, matchID, detail); err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to store match detail")
	}
	return detail, nil
}
