package service

import (
	"math"
	"strings"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/domain"
)

type pairing struct {
	me  api.MatchPlayer
	opp api.MatchPlayer
}

// pairPlayers finds battleTag in the match and its single opponent on the other teams.
// Matches with more than one opponent, or without the player, do not pair.
func pairPlayers(m *api.Match, battleTag string) (pairing, bool) {
	var (
		me      api.MatchPlayer
		found   bool
		opps    []api.MatchPlayer
		myTeam  = -1
		players = 0
	)

	for ti, team := range m.Teams {
		for _, p := range team.Players {
			players++
			if !found && strings.EqualFold(p.BattleTag, battleTag) {
				me = p
				me.Won = p.Won || team.Won
				found = true
				myTeam = ti
			}
		}
	}
	if !found {
		return pairing{}, false
	}

	for ti, team := range m.Teams {
		if ti == myTeam {
			if len(team.Players) != 1 {
				return pairing{}, false
			}
			continue
		}
		for _, p := range team.Players {
			p.Won = p.Won || team.Won
			opps = append(opps, p)
		}
	}
	if len(opps) != 1 || players != 2 {
		return pairing{}, false
	}
	return pairing{me: me, opp: opps[0]}, true
}

// raceOf reports the race a player actually played, falling back to the random pick.
func raceOf(p api.MatchPlayer) int {
	if p.Race != nil {
		return *p.Race
	}
	if p.RndRace != nil {
		return *p.RndRace
	}
	return domain.UnknownRaceID
}

// ratingBefore is the player's rating going into the match: old, then current, then plain.
func ratingBefore(p api.MatchPlayer) (float64, bool) {
	for _, v := range []*float64{p.OldMMR, p.CurrentMMR, p.MMR} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func usableRating(v float64, ok bool) bool {
	return ok && v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// averageNullable averages the non-nil samples and is nil when there are none.
func averageNullable(xs []*float64) *float64 {
	var vals []float64
	for _, x := range xs {
		if x != nil {
			vals = append(vals, *x)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	avg := average(vals)
	return &avg
}
