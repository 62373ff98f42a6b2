package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
)

var errUpstream = errors.New("upstream unavailable")

func fp(v float64) *float64 { return &v }
func ip(v int) *int { return &v }
func sp(v string) *string { return &v }

func testConfig() *config.Config {
	return &config.Config{
		Season:           24,
		Gateway:          20,
		GameMode:         1,
		MaxLeague:        2,
		AnalyticsSeasons: []int{22, 23, 24},
		CacheTTL:         time.Minute,
	}
}

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func player(tag string, race int, oldMMR, gain float64) api.MatchPlayer {
	return api.MatchPlayer{
		BattleTag:  tag,
		Race:       ip(race),
		OldMMR:     fp(oldMMR),
		CurrentMMR: fp(oldMMR + gain),
		MMRGain:    fp(gain),
	}
}

// duel builds a finished 1v1 with every telemetry field present, so it never needs a detail fetch.
func duel(id string, minute int, dur int, winner, loser api.MatchPlayer) api.Match {
	winner.Won = true
	end := baseTime.Add(time.Duration(minute)*time.Minute + time.Duration(dur)*time.Second)
	flo := int64(minute)
	return api.Match{
		ID:                     id,
		Map:                    "(2)EchoIsles",
		MapName:                sp("Echo Isles"),
		DurationInSeconds:      dur,
		StartTime:              baseTime.Add(time.Duration(minute) * time.Minute),
		EndTime:                &end,
		GameMode:               1,
		Gateway:                ip(20),
		Season:                 24,
		FloMatchID:             &flo,
		OriginalOngoingMatchID: sp("ongoing-" + id),
		ServerInfo: &api.ServerInfo{
			Provider: sp("flo"),
			NodeID:   ip(7),
			Name:     sp("Frankfurt"),
			PlayerServerInfos: []api.PlayerServerInfo{
				{BattleTag: winner.BattleTag, AveragePing: fp(40)},
				{BattleTag: loser.BattleTag, AveragePing: fp(60)},
			},
		},
		Teams: []api.Team{
			{Won: true, Players: []api.MatchPlayer{winner}},
			{Won: false, Players: []api.MatchPlayer{loser}},
		},
		PlayerScores: []api.PlayerScore{},
	}
}

type stubResolver struct {
	known map[string]string
}

func newStubResolver(tags ...string) *stubResolver {
	r := &stubResolver{known: make(map[string]string)}
	for _, t := range tags {
		r.known[strings.ToLower(t)] = t
	}
	return r
}

func (r *stubResolver) Resolve(ctx context.Context, input string) (string, bool) {
	tag, ok := r.known[strings.ToLower(input)]
	return tag, ok
}

type stubMatches struct {
	mu      sync.Mutex
	calls   map[string]int
	history map[string][]api.Match
	failFor map[string]bool
}

func newStubMatches() *stubMatches {
	return &stubMatches{
		calls:   make(map[string]int),
		history: make(map[string][]api.Match),
		failFor: make(map[string]bool),
	}
}

// add files m under every player in it, as the backend lists a match for both participants.
func (s *stubMatches) add(ms ...api.Match) {
	for _, m := range ms {
		for _, t := range m.Teams {
			for _, p := range t.Players {
				key := strings.ToLower(p.BattleTag)
				s.history[key] = append(s.history[key], m)
			}
		}
	}
}

func (s *stubMatches) AllPlayerMatches(ctx context.Context, battleTag string, gateway int, seasons []int) ([]api.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(battleTag)
	s.calls[key]++
	if s.failFor[key] {
		return nil, errUpstream
	}
	// copies keep tests from observing each other's mutations
	return append([]api.Match(nil), s.history[key]...), nil
}

func (s *stubMatches) callsFor(battleTag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[strings.ToLower(battleTag)]
}

type stubDetails struct {
	mu      sync.Mutex
	calls   []string
	details map[string]*api.MatchDetail
}

func (s *stubDetails) MatchDetail(ctx context.Context, matchID string) (*api.MatchDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, matchID)
	d, ok := s.details[matchID]
	if !ok {
		return nil, errUpstream
	}
	return d, nil
}

type stubLadders struct {
	mu       sync.Mutex
	pages    map[int][]api.LadderEntry
	failing  map[int]bool
	calls    int
	country  []api.CountryLeague
	countryQ string
}

func (s *stubLadders) LadderPage(ctx context.Context, league, gateway, gameMode, season int) ([]api.LadderEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failing[league] {
		return nil, errUpstream
	}
	return s.pages[league], nil
}

func (s *stubLadders) CountryLadder(ctx context.Context, countryCode string, gateway, gameMode, season int) ([]api.CountryLeague, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countryQ = countryCode
	return s.country, nil
}

func entry(tag string, race int, mmr float64, wins, games int) api.LadderEntry {
	return api.LadderEntry{
		Player: api.LadderPlayer{
			Race:      ip(race),
			MMR:       mmr,
			Wins:      wins,
			Losses:    games - wins,
			Games:     games,
			PlayerIDs: []api.PlayerID{{BattleTag: tag}},
		},
		PlayersInfo: []api.PlayerInfo{{BattleTag: tag, CountryCode: "de"}},
	}
}
