package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"w3c-ladder/internal/api"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MatchDetailRepository keeps upstream match details. A finished match never changes,
// so a stored detail is served without refetching.
type MatchDetailRepository struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

func NewMatchDetailRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchDetailRepository {
	return &MatchDetailRepository{
		db:     sqlDB,
		logger: logger,
		now:    time.Now,
	}
}

// GetByMatchID returns nil, nil when the match is not stored.
func (r *MatchDetailRepository) GetByMatchID(ctx context.Context, matchID string) (*api.MatchDetail, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM match_details WHERE match_id = ?`, matchID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match detail: %w", err)
	}

	var detail api.MatchDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode stored match detail %s: %w", matchID, err)
	}
	return &detail, nil
}

func (r *MatchDetailRepository) Upsert(ctx context.Context, matchID string, detail *api.MatchDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode match detail: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO match_details (match_id, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		matchID, payload, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert match detail: %w", err)
	}
	return nil
}

func (r *MatchDetailRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_details`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count match details: %w", err)
	}
	return n, nil
}

// DeleteOlderThan drops details fetched before cutoff and reports how many went.
func (r *MatchDetailRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM match_details WHERE fetched_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune match details: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned match details: %w", err)
	}
	r.logger.Debug().Int64("deleted", n).Time("cutoff", cutoff).Msg("pruned match details")
	return n, nil
}
