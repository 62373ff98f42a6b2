package service

import (
	"context"
	"strings"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Normalizer turns raw list-view matches into one canonical record per paired match,
// backfilling missing telemetry from the match detail endpoint.
type Normalizer struct {
	details DetailSource
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewNormalizer(details DetailSource, cfg *config.Config, logger zerolog.Logger) *Normalizer {
	return &Normalizer{details: details, cfg: cfg, logger: logger}
}

type candidate struct {
	match  *api.Match
	pair   pairing
	detail *api.MatchDetail
}

// Normalize keeps battleTag's competitive 1v1 matches that lasted at least
// MinDurationSeconds. Output follows input order.
func (n *Normalizer) Normalize(ctx context.Context, battleTag string, raw []api.Match) []domain.NormalizedMatch {
	var candidates []*candidate
	for i := range raw {
		m := &raw[i]
		if m.GameMode != n.cfg.GameMode || m.DurationInSeconds < constants.MinDurationSeconds {
			continue
		}
		pair, ok := pairPlayers(m, battleTag)
		if !ok {
			continue
		}
		candidates = append(candidates, &candidate{match: m, pair: pair})
	}

	n.backfill(ctx, candidates)

	out := make([]domain.NormalizedMatch, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.normalize())
	}
	return out
}

func needsDetail(m *api.Match) bool {
	return m.PlayerScores == nil ||
		m.ServerInfo == nil ||
		m.EndTime == nil ||
		m.FloMatchID == nil ||
		m.OriginalOngoingMatchID == nil
}

// backfill fetches details for candidates missing telemetry. A failed fetch leaves the
// candidate with list data only.
func (n *Normalizer) backfill(ctx context.Context, candidates []*candidate) {
	var g errgroup.Group
	g.SetLimit(constants.DetailConcurrency)

	fetched := 0
	for _, c := range candidates {
		if !needsDetail(c.match) {
			continue
		}
		fetched++
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
			defer cancel()

			detail, err := n.details.MatchDetail(apiCtx, c.match.ID)
			if err != nil {
				n.logger.Warn().Err(err).Str("match_id", c.match.ID).Msg("failed to fetch match detail")
				return nil
			}
			c.detail = detail
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	if fetched > 0 {
		n.logger.Debug().Int("candidates", len(candidates)).Int("backfilled", fetched).Msg("match details backfilled")
	}
}

func (c *candidate) normalize() domain.NormalizedMatch {
	m := c.match

	scores := m.PlayerScores
	serverInfo := m.ServerInfo
	endTime := m.EndTime
	floMatchID := m.FloMatchID
	ongoingID := m.OriginalOngoingMatchID

	// list data wins; the detail only fills gaps
	if d := c.detail; d != nil {
		if scores == nil {
			scores = d.PlayerScores
			if scores == nil {
				scores = d.Match.PlayerScores
			}
		}
		if serverInfo == nil {
			serverInfo = d.Match.ServerInfo
		}
		if endTime == nil {
			endTime = d.Match.EndTime
		}
		if floMatchID == nil {
			floMatchID = d.Match.FloMatchID
		}
		if ongoingID == nil {
			ongoingID = d.Match.OriginalOngoingMatchID
		}
	}

	nm := domain.NormalizedMatch{
		ID:                     m.ID,
		Map:                    matchMapName(m),
		MapID:                  m.MapID,
		DurationSeconds:        m.DurationInSeconds,
		StartTime:              m.StartTime,
		EndTime:                endTime,
		Season:                 m.Season,
		GameMode:               m.GameMode,
		Gateway:                m.Gateway,
		FloMatchID:             floMatchID,
		OriginalOngoingMatchID: ongoingID,
		Me:                     buildSide(c.pair.me, scores, serverInfo),
		Opp:                    buildSide(c.pair.opp, scores, serverInfo),
	}
	if serverInfo != nil {
		nm.Server = domain.ServerInfo{
			Provider: serverInfo.Provider,
			NodeID:   serverInfo.NodeID,
			Name:     serverInfo.Name,
		}
	}
	return nm
}

func matchMapName(m *api.Match) string {
	if m.MapName != nil && *m.MapName != "" {
		return *m.MapName
	}
	if m.Map != "" {
		return m.Map
	}
	return "Unknown"
}

func buildSide(p api.MatchPlayer, scores []api.PlayerScore, serverInfo *api.ServerInfo) domain.NormalizedSide {
	raceID := raceOf(p)
	side := domain.NormalizedSide{
		BattleTag:  p.BattleTag,
		RaceID:     raceID,
		Race:       domain.RaceName(raceID),
		OldRating:  valueOr(p.OldMMR),
		NewRating:  valueOr(p.CurrentMMR),
		RatingGain: valueOr(p.MMRGain),
		Won:        p.Won,
		AvgPing:    pickPing(serverInfo, p.BattleTag),
		Heroes:     make([]domain.HeroEntry, 0, len(p.Heroes)),
		Score:      pickScore(scores, p.BattleTag),
	}
	for _, h := range p.Heroes {
		side.Heroes = append(side.Heroes, domain.HeroEntry{
			ID:    h.ID,
			Name:  domain.HeroName(h.Name),
			Level: h.Level,
		})
	}
	return side
}

// pickScore finds battleTag's score row; a missing row is an all-zero block.
func pickScore(scores []api.PlayerScore, battleTag string) domain.ScoreBlock {
	for _, s := range scores {
		if !strings.EqualFold(s.BattleTag, battleTag) {
			continue
		}
		return domain.ScoreBlock{
			UnitsProduced:   s.UnitScore.UnitsProduced,
			UnitsKilled:     s.UnitScore.UnitsKilled,
			LargestArmy:     s.UnitScore.LargestArmy,
			HeroesKilled:    s.HeroScore.HeroesKilled,
			ItemsObtained:   s.HeroScore.ItemsObtained,
			MercsHired:      s.HeroScore.MercsHired,
			ExpGained:       s.HeroScore.ExpGained,
			GoldCollected:   s.ResourceScore.GoldCollected,
			LumberCollected: s.ResourceScore.LumberCollected,
			GoldUpkeepLost:  s.ResourceScore.GoldUpkeepLost,
		}
	}
	return domain.ScoreBlock{}
}

func pickPing(serverInfo *api.ServerInfo, battleTag string) *float64 {
	if serverInfo == nil {
		return nil
	}
	for _, info := range serverInfo.PlayerServerInfos {
		if strings.EqualFold(info.BattleTag, battleTag) {
			return info.AveragePing
		}
	}
	return nil
}
