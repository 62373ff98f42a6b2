package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type VsService struct {
	resolver  TagResolver
	analytics *AnalyticsService
	logger    zerolog.Logger
}

func NewVsService(resolver TagResolver, analytics *AnalyticsService, logger zerolog.Logger) *VsService {
	return &VsService{resolver: resolver, analytics: analytics, logger: logger}
}

// corpusCache builds each player's analytics once per comparison.
type corpusCache struct {
	analytics *AnalyticsService
	mu        sync.Mutex
	built     map[string]*domain.PlayerAnalytics
	flight    singleflight.Group
}

func (c *corpusCache) get(ctx context.Context, battleTag string) *domain.PlayerAnalytics {
	key := strings.ToLower(battleTag)
	res, _, _ := c.flight.Do(key, func() (any, error) {
		c.mu.Lock()
		a, ok := c.built[key]
		c.mu.Unlock()
		if ok {
			return a, nil
		}
		a = c.analytics.analyticsFor(ctx, battleTag)
		c.mu.Lock()
		c.built[key] = a
		c.mu.Unlock()
		return a, nil
	})
	return res.(*domain.PlayerAnalytics)
}

// CompareVsPlayer returns nil when either identifier does not resolve.
func (s *VsService) CompareVsPlayer(ctx context.Context, inputA, inputB string) (*domain.VsPlayerResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if inputA == "" || inputB == "" {
		return nil, nil
	}

	var (
		tagA, tagB string
		okA, okB   bool
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		tagA, okA = s.resolver.Resolve(ctx, inputA)
		return nil
	})
	g.Go(func() error {
		tagB, okB = s.resolver.Resolve(ctx, inputB)
		return nil
	})
	g.Wait() //nolint:errcheck

	if !okA || !okB {
		s.logger.Debug().Str("a", inputA).Str("b", inputB).Bool("a_ok", okA).Bool("b_ok", okB).Msg("head-to-head identifier did not resolve")
		return nil, nil
	}

	corpora := &corpusCache{analytics: s.analytics, built: make(map[string]*domain.PlayerAnalytics)}
	var a, b *domain.PlayerAnalytics
	g = new(errgroup.Group)
	g.Go(func() error {
		a = corpora.get(ctx, tagA)
		return nil
	})
	g.Go(func() error {
		b = corpora.get(ctx, tagB)
		return nil
	})
	g.Wait() //nolint:errcheck

	shared := sharedMatches(a, b)
	resp := aggregateVs(tagA, tagB, shared)

	s.logger.Info().
		Str("a", tagA).
		Str("b", tagB).
		Int("a_matches", len(a.Matches)).
		Int("b_matches", len(b.Matches)).
		Int("shared", len(shared)).
		Msg("head-to-head compared")
	return resp, nil
}

// sharedMatches returns a's matches that b's corpus also holds and that b played in,
// oldest first.
func sharedMatches(a, b *domain.PlayerAnalytics) []domain.NormalizedMatch {
	inB := make(map[string]struct{}, len(b.Matches))
	for _, m := range b.Matches {
		inB[m.ID] = struct{}{}
	}

	shared := []domain.NormalizedMatch{}
	for _, m := range a.Matches {
		if _, ok := inB[m.ID]; !ok {
			continue
		}
		sa, okA := m.SideOf(a.BattleTag)
		sb, okB := m.SideOf(b.BattleTag)
		if !okA || !okB || sa == sb {
			continue
		}
		shared = append(shared, m)
	}

	sort.SliceStable(shared, func(i, j int) bool {
		return shared[i].StartTime.Before(shared[j].StartTime)
	})
	return shared
}

type sideAccumulator struct {
	wins     int
	gain     float64
	gold     []float64
	lumber   []float64
	upkeep   []float64
	produced []float64
	killed   []float64
	army     []float64
	heroKill []float64
	items    []float64
	mercs    []float64
	xp       []float64
	ping     []*float64
	heroes   map[string]domain.HeroRecord
}

func newSideAccumulator() *sideAccumulator {
	return &sideAccumulator{heroes: make(map[string]domain.HeroRecord)}
}

func (acc *sideAccumulator) add(side *domain.NormalizedSide) {
	if side.Won {
		acc.wins++
	}
	acc.gain += side.RatingGain

	sc := side.Score
	acc.gold = append(acc.gold, float64(sc.GoldCollected))
	acc.lumber = append(acc.lumber, float64(sc.LumberCollected))
	acc.upkeep = append(acc.upkeep, float64(sc.GoldUpkeepLost))
	acc.produced = append(acc.produced, float64(sc.UnitsProduced))
	acc.killed = append(acc.killed, float64(sc.UnitsKilled))
	acc.army = append(acc.army, float64(sc.LargestArmy))
	acc.heroKill = append(acc.heroKill, float64(sc.HeroesKilled))
	acc.items = append(acc.items, float64(sc.ItemsObtained))
	acc.mercs = append(acc.mercs, float64(sc.MercsHired))
	acc.xp = append(acc.xp, float64(sc.ExpGained))
	acc.ping = append(acc.ping, side.AvgPing)

	for _, h := range side.Heroes {
		rec := acc.heroes[h.Name]
		rec.Games++
		if side.Won {
			rec.Wins++
		}
		acc.heroes[h.Name] = rec
	}
}

func (acc *sideAccumulator) stats(games int, durations []float64) domain.SideStats {
	var st domain.SideStats
	st.Overall = domain.NewWinLoss(acc.wins, games)
	st.AvgDurationSec = average(durations)
	st.MMR.TotalMMRGain = acc.gain

	st.Economy.AvgGold = average(acc.gold)
	st.Economy.AvgLumber = average(acc.lumber)
	st.Economy.AvgUpkeepLoss = average(acc.upkeep)

	st.Units.AvgUnitsProduced = average(acc.produced)
	st.Units.AvgUnitsKilled = average(acc.killed)
	st.Units.AvgLargestArmy = average(acc.army)

	st.Hero.AvgHeroesKilled = average(acc.heroKill)
	st.Hero.AvgItemsObtained = average(acc.items)
	st.Hero.AvgMercsHired = average(acc.mercs)
	st.Hero.AvgXP = average(acc.xp)

	st.Network.AvgPing = averageNullable(acc.ping)
	st.HeroUsage = acc.heroes
	return st
}

type raceTally struct {
	race    string
	aWins   int
	aLosses int
	bWins   int
	bLosses int
}

// serverKey identifies a server by provider, node and name; unknown parts become "?".
func serverKey(s domain.ServerInfo) string {
	part := func(v *string) string {
		if v == nil {
			return "?"
		}
		return *v
	}
	node := "?"
	if s.NodeID != nil {
		node = strconv.Itoa(*s.NodeID)
	}
	return fmt.Sprintf("%s|%s|%s", part(s.Provider), node, part(s.Name))
}

// aggregateVs reduces the shared matches in one pass. Side polarity is taken from each
// record, never assumed from whose corpus it came.
func aggregateVs(tagA, tagB string, shared []domain.NormalizedMatch) *domain.VsPlayerResponse {
	accA, accB := newSideAccumulator(), newSideAccumulator()
	var durations []float64

	var races []*raceTally
	raceIndex := make(map[string]*raceTally)
	tally := func(race string) *raceTally {
		t, ok := raceIndex[race]
		if !ok {
			t = &raceTally{race: race}
			raceIndex[race] = t
			races = append(races, t)
		}
		return t
	}

	maps := []domain.VsMapRow{}
	mapIndex := make(map[string]int)

	servers := []domain.ServerUsage{}
	serverIndex := make(map[string]int)

	for i := range shared {
		m := &shared[i]
		sa, _ := m.SideOf(tagA)
		sideA, sideB := m.Side(sa), m.Side(sa.Other())

		durations = append(durations, float64(m.DurationSeconds))
		accA.add(sideA)
		accB.add(sideB)

		ra, rb := tally(sideA.Race), tally(sideB.Race)
		if sideA.Won {
			ra.aWins++
		} else {
			ra.aLosses++
		}
		if sideB.Won {
			rb.bWins++
		} else {
			rb.bLosses++
		}

		mi, ok := mapIndex[m.Map]
		if !ok {
			mi = len(maps)
			mapIndex[m.Map] = mi
			maps = append(maps, domain.VsMapRow{Map: m.Map})
		}
		maps[mi].Games++
		if sideA.Won {
			maps[mi].WinsA++
		} else {
			maps[mi].WinsB++
		}

		key := serverKey(m.Server)
		si, ok := serverIndex[key]
		if !ok {
			si = len(servers)
			serverIndex[key] = si
			servers = append(servers, domain.ServerUsage{ServerInfo: m.Server})
		}
		servers[si].Games++
	}

	// B is credited with every shared match A did not win
	accB.wins = len(shared) - accA.wins

	for i := range maps {
		maps[i].WinrateA = float64(maps[i].WinsA) / float64(maps[i].Games)
		maps[i].WinrateB = float64(maps[i].WinsB) / float64(maps[i].Games)
	}

	sort.SliceStable(servers, func(i, j int) bool { return servers[i].Games > servers[j].Games })
	for i := range servers {
		servers[i].Share = float64(servers[i].Games) / float64(len(shared))
	}

	breakdown := make([]domain.RaceBreakdownRow, 0, len(races))
	for _, t := range races {
		row := domain.RaceBreakdownRow{
			Race:    t.race,
			AGames:  t.aWins + t.aLosses,
			AWins:   t.aWins,
			ALosses: t.aLosses,
			BGames:  t.bWins + t.bLosses,
			BWins:   t.bWins,
			BLosses: t.bLosses,
		}
		if row.AGames > 0 {
			row.AWinrate = float64(row.AWins) / float64(row.AGames)
		}
		if row.BGames > 0 {
			row.BWinrate = float64(row.BWins) / float64(row.BGames)
		}
		breakdown = append(breakdown, row)
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].AGames+breakdown[i].BGames > breakdown[j].AGames+breakdown[j].BGames
	})

	resp := &domain.VsPlayerResponse{
		PlayerA:       tagA,
		PlayerB:       tagB,
		StatsA:        accA.stats(len(shared), durations),
		StatsB:        accB.stats(len(shared), durations),
		RaceBreakdown: breakdown,
		Servers:       servers,
		Maps:          maps,
		Games:         shared,
	}
	if len(servers) > 0 {
		most := servers[0]
		resp.MostUsedServer = &most
	}
	return resp
}
