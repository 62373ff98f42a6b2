package service

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type durationBucket struct {
	label    string
	min, max int
}

var durationBuckets = []durationBucket{
	{"5–10 min", 300, 600},
	{"11–15 min", 601, 900},
	{"16–20 min", 901, 1200},
	{"20–25 min", 1201, 1500},
	{"26–30 min", 1501, 1800},
	{"30+ min", 1801, math.MaxInt},
}

const mapListSize = 5

var mapVersionSuffix = regexp.MustCompile(`v\d+_.*`)

type MapStatsService struct {
	resolver TagResolver
	matches  MatchSource
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewMapStatsService(resolver TagResolver, matches MatchSource, cfg *config.Config, logger zerolog.Logger) *MapStatsService {
	return &MapStatsService{resolver: resolver, matches: matches, cfg: cfg, logger: logger}
}

type mapTally struct {
	domain.MapStat
	totalSecs    int
	heroAvgSum   float64
	heroAvgGames int
}

// GetMapStats summarizes the current season per map. It returns nil when identifier does
// not resolve.
func (s *MapStatsService) GetMapStats(ctx context.Context, identifier string) (*domain.MapStatsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	battleTag, ok := s.resolver.Resolve(ctx, identifier)
	if !ok {
		return nil, nil
	}

	seasons := []int{s.cfg.Season}
	raw, err := s.matches.AllPlayerMatches(ctx, battleTag, s.cfg.Gateway, seasons)
	if err != nil {
		s.logger.Warn().Err(err).Str("battletag", battleTag).Int("partial", len(raw)).Msg("failed to fetch match list")
	}

	resp := s.compute(battleTag, raw)
	resp.Seasons = seasons
	s.logger.Info().Str("battletag", battleTag).Int("maps", len(resp.TopMaps)).Msg("map stats built")
	return resp, nil
}

func (s *MapStatsService) compute(battleTag string, raw []api.Match) *domain.MapStatsResponse {
	buckets := make([]domain.DurationBucket, len(durationBuckets))
	for i, b := range durationBuckets {
		buckets[i].Label = b.label
	}

	var (
		tallies             []*mapTally
		index               = make(map[string]*mapTally)
		winSecs, lossSecs   int
		winGames, lossGames int
		longest             *domain.LongestWin
	)

	for i := range raw {
		m := &raw[i]
		if m.GameMode != s.cfg.GameMode || m.DurationInSeconds < constants.MinDurationSeconds {
			continue
		}
		pair, ok := pairPlayers(m, battleTag)
		if !ok || pair.me.MMRGain == nil {
			continue
		}
		me, opp := pair.me, pair.opp
		dur := m.DurationInSeconds
		name := mapDisplayName(m)

		t, ok := index[name]
		if !ok {
			t = &mapTally{MapStat: domain.MapStat{Map: name}}
			index[name] = t
			tallies = append(tallies, t)
		}

		t.Games++
		t.totalSecs += dur
		t.NetRating += *me.MMRGain
		if me.OldMMR != nil && opp.OldMMR != nil {
			if *me.OldMMR < *opp.OldMMR {
				t.VsHigher++
			}
			if *me.OldMMR > *opp.OldMMR {
				t.VsLower++
			}
		}

		for bi, b := range durationBuckets {
			if dur >= b.min && dur <= b.max {
				if me.Won {
					buckets[bi].Wins++
				} else {
					buckets[bi].Losses++
				}
				break
			}
		}

		if me.Won {
			t.Wins++
			winSecs += dur
			winGames++
			if longest == nil || dur > longest.Seconds {
				longest = &domain.LongestWin{
					Map:        name,
					Minutes:    round(float64(dur)/60, 1),
					OppTag:     opp.BattleTag,
					OppRating:  valueOr(opp.OldMMR),
					RatingGain: *me.MMRGain,
					Seconds:    dur,
				}
			}
		} else {
			t.Losses++
			lossSecs += dur
			lossGames++
		}

		switch len(me.Heroes) {
		case 1:
			t.HeroCounts.One++
		case 2:
			t.HeroCounts.Two++
		case 3:
			t.HeroCounts.Three++
		}
		if len(me.Heroes) > 0 {
			sum := 0
			for _, h := range me.Heroes {
				sum += h.Level
			}
			t.heroAvgSum += float64(sum) / float64(len(me.Heroes))
			t.heroAvgGames++
		}
	}

	stats := make([]domain.MapStat, 0, len(tallies))
	for _, t := range tallies {
		st := t.MapStat
		st.Winrate = round(float64(st.Wins)/float64(st.Games)*100, 1)
		st.AvgMinutes = round(float64(t.totalSecs)/float64(st.Games)/60, 1)
		if t.heroAvgGames > 0 {
			avg := round(t.heroAvgSum/float64(t.heroAvgGames), 2)
			st.HeroAvgLevel = &avg
		}
		stats = append(stats, st)
	}

	for i := range buckets {
		if games := buckets[i].Wins + buckets[i].Losses; games > 0 {
			buckets[i].Winrate = round(float64(buckets[i].Wins)/float64(games)*100, 1)
		}
	}

	byWinrate := append([]domain.MapStat{}, stats...)
	sort.SliceStable(byWinrate, func(i, j int) bool { return byWinrate[i].Winrate > byWinrate[j].Winrate })
	worst := make([]domain.MapStat, 0, len(byWinrate))
	for i := len(byWinrate) - 1; i >= 0; i-- {
		worst = append(worst, byWinrate[i])
	}

	resp := &domain.MapStatsResponse{
		BattleTag:         battleTag,
		WinrateByDuration: buckets,
		TopMaps:           byWinrate[:min(mapListSize, len(byWinrate))],
		WorstMaps:         worst[:min(mapListSize, len(worst))],
		LongestWin:        longest,

		MostPlayed:   leader(stats, func(a, b domain.MapStat) bool { return a.Games > b.Games }),
		BestNet:      leader(stats, func(a, b domain.MapStat) bool { return a.NetRating > b.NetRating }),
		WorstNet:     leader(stats, func(a, b domain.MapStat) bool { return a.NetRating < b.NetRating }),
		MostVsHigher: leader(stats, func(a, b domain.MapStat) bool { return a.VsHigher > b.VsHigher }),
		MostVsLower:  leader(stats, func(a, b domain.MapStat) bool { return a.VsLower > b.VsLower }),
	}
	if winGames > 0 {
		v := round(float64(winSecs)/float64(winGames)/60, 1)
		resp.AvgWinMinutes = &v
	}
	if lossGames > 0 {
		v := round(float64(lossSecs)/float64(lossGames)/60, 1)
		resp.AvgLossMinutes = &v
	}

	var leveled []domain.MapStat
	for _, st := range stats {
		if st.HeroAvgLevel != nil {
			leveled = append(leveled, st)
		}
	}
	resp.HighestAvgHeroLevel = leader(leveled, func(a, b domain.MapStat) bool { return *a.HeroAvgLevel > *b.HeroAvgLevel })
	resp.LowestAvgHeroLevel = leader(leveled, func(a, b domain.MapStat) bool { return *a.HeroAvgLevel < *b.HeroAvgLevel })

	resp.OneHeroMap = leaderName(stats, func(st domain.MapStat) int { return st.HeroCounts.One })
	resp.TwoHeroMap = leaderName(stats, func(st domain.MapStat) int { return st.HeroCounts.Two })
	resp.ThreeHeroMap = leaderName(stats, func(st domain.MapStat) int { return st.HeroCounts.Three })
	return resp
}

// leader returns the first map that no later map beats.
func leader(stats []domain.MapStat, better func(a, b domain.MapStat) bool) *domain.MapStat {
	if len(stats) == 0 {
		return nil
	}
	best := stats[0]
	for _, st := range stats[1:] {
		if better(st, best) {
			best = st
		}
	}
	return &best
}

func leaderName(stats []domain.MapStat, count func(domain.MapStat) int) *string {
	best := leader(stats, func(a, b domain.MapStat) bool { return count(a) > count(b) })
	if best == nil {
		return nil
	}
	return &best.Map
}

// mapDisplayName prefers the backend's map name and otherwise derives one from the map
// file, e.g. "(4)TwistedMeadowsv3_1" -> "TwistedMeadows".
func mapDisplayName(m *api.Match) string {
	if m.MapName != nil {
		if name := strings.TrimSpace(*m.MapName); name != "" {
			return name
		}
	}
	if m.Map == "" {
		return "Unknown"
	}
	name := m.Map
	if i := strings.IndexFunc(name, func(r rune) bool { return r <= unicode.MaxASCII && unicode.IsUpper(r) }); i >= 0 {
		name = name[i:]
	}
	return strings.TrimSpace(mapVersionSuffix.ReplaceAllString(name, ""))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
