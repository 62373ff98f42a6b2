// Package ladder turns ladder input rows into a scored, ranked ladder. Build is pure: the same
// input always yields the same output, which lets callers rebuild a ladder after SoS backfill.
package ladder

import (
	"sort"

	"w3c-ladder/internal/domain"

	"github.com/shopspring/decimal"
)

const RatingCeiling = 3000

const (
	weightRating   = 0.55
	weightSoS      = 0.40
	weightActivity = 0.05
)

const (
	confidenceK = 1
	scoreScale  = 10
)

const (
	activityStep     = 5
	activityMaxGames = 200
	activityMaxScore = 200
)

func confidence(games int) float64 {
	return float64(games) / float64(games+confidenceK)
}

// activity quantizes games into steps of activityStep and saturates at activityMaxGames.
func activity(games int) float64 {
	bucket := min((games/activityStep)*activityStep, activityMaxGames)
	return float64(bucket) / activityMaxGames * activityMaxScore
}

// Score blends rating, schedule strength and activity. A nil sos counts as an average schedule,
// so the rating stands in for it.
func Score(rating float64, sos *float64, games int) float64 {
	sosVal := rating
	if sos != nil {
		sosVal = *sos
	}
	conf := confidence(games)

	raw := rating*conf*weightRating +
		sosVal*conf*weightSoS +
		activity(games)*weightActivity

	return decimal.NewFromFloat(raw / scoreScale).Round(1).InexactFloat64()
}

// Build drops rows above the rating ceiling, scores the rest and ranks them by score then
// rating, both descending. Rows equal on both keys keep their input order.
func Build(rows []domain.LadderInputRow) []domain.LadderRow {
	out := make([]domain.LadderRow, 0, len(rows))
	for _, r := range rows {
		if r.Rating > RatingCeiling {
			continue
		}
		out = append(out, domain.LadderRow{
			BattleTag: r.BattleTag,
			Rating:    r.Rating,
			SoS:       r.SoS,
			Score:     Score(r.Rating, r.SoS, r.Games),
			Wins:      r.Wins,
			Losses:    r.Games - r.Wins,
			Games:     r.Games,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Rating > out[j].Rating
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
