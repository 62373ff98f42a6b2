package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"w3c-ladder/internal/api"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
)

func TestPairPlayers(t *testing.T) {
	m := duel("m1", 0, 600, player("Happy#2384", 8, 2400, 12), player("Grubby#1278", 2, 2300, -12))

	pair, ok := pairPlayers(&m, "happy#2384")
	if !ok {
		t.Fatal("expected pairing")
	}
	if pair.me.BattleTag != "Happy#2384" || pair.opp.BattleTag != "Grubby#1278" {
		t.Errorf("unexpected pairing %s vs %s", pair.me.BattleTag, pair.opp.BattleTag)
	}
	if !pair.me.Won || pair.opp.Won {
		t.Error("expected win flags from the teams")
	}

	if _, ok := pairPlayers(&m, "Moon#1"); ok {
		t.Error("absent player should not pair")
	}

	teamGame := m
	teamGame.Teams = []api.Team{
		{Players: []api.MatchPlayer{player("Happy#2384", 8, 2400, 0), player("Lyn#7", 2, 2000, 0)}},
		{Players: []api.MatchPlayer{player("Grubby#1278", 2, 2300, 0), player("Moon#1", 4, 2200, 0)}},
	}
	if _, ok := pairPlayers(&teamGame, "Happy#2384"); ok {
		t.Error("2v2 should not pair")
	}
}

func TestStrengthOfSchedule(t *testing.T) {
	calc := NewSoSCalculator(testConfig(), zerolog.Nop())
	me := "Happy#2384"

	noRating := player("Ghost#1", 1, 0, 0)
	noRating.OldMMR, noRating.CurrentMMR, noRating.MMR = nil, nil, nil

	fallback := player("Moon#1", 4, 0, 0)
	fallback.OldMMR = nil
	fallback.CurrentMMR = fp(2200)

	short := duel("short", 1, 90, player(me, 8, 2400, 5), player("Short#1", 1, 9999, -5))
	otherMode := duel("mode", 2, 600, player(me, 8, 2400, 5), player("Mode#1", 1, 9999, -5))
	otherMode.GameMode = 2
	offRace := duel("race", 3, 600, player(me, 1, 2400, 5), player("Race#1", 1, 9999, -5))

	history := []api.Match{
		duel("a", 4, 600, player(me, 8, 2400, 5), player("Grubby#1278", 2, 2000, -5)),
		duel("b", 5, 600, player("Lyn#7", 2, 2600, 5), player(me, 8, 2400, -5)),
		duel("c", 6, 600, player(me, 8, 2400, 5), noRating),
		duel("d", 7, 600, player(me, 8, 2400, 5), fallback),
		duel("e", 8, 600, player(me, 8, 2400, 5), player("Zero#1", 1, 0, 0)),
		short, otherMode, offRace,
	}

	sos := calc.StrengthOfSchedule(history, me, domain.RaceUndead)
	if sos == nil {
		t.Fatal("expected a schedule strength")
	}
	// 2000, 2600 and 2200; unknown and zero ratings are skipped
	if *sos != 6800.0/3 {
		t.Errorf("expected mean of 2000/2600/2200, got %v", *sos)
	}

	all := calc.StrengthOfSchedule(history, me, domain.RaceAll)
	if all == nil || math.Abs(*all-(2000+2600+2200+9999)/4.0) > 1e-9 {
		t.Errorf("expected off-race match to count without a race filter, got %v", all)
	}

	if got := calc.StrengthOfSchedule(history, me, domain.RaceOrc); got != nil {
		t.Errorf("expected nil with no qualifying match, got %v", *got)
	}
	if got := calc.StrengthOfSchedule([]api.Match{short}, me, domain.RaceAll); got != nil {
		t.Errorf("a 90 second match must not count, got %v", *got)
	}
}

func TestStrengthOfScheduleSkipsUnratedOpponents(t *testing.T) {
	calc := NewSoSCalculator(testConfig(), zerolog.Nop())
	me := "Happy#2384"

	unknown := player("Ghost#1", 1, 0, 0)
	unknown.OldMMR, unknown.CurrentMMR, unknown.MMR = nil, nil, nil

	history := []api.Match{
		duel("a", 1, 600, player(me, 8, 2400, 5), unknown),
		duel("b", 2, 600, player(me, 8, 2400, 5), player("Zero#1", 1, 0, 0)),
	}
	if got := calc.StrengthOfSchedule(history, me, domain.RaceAll); got != nil {
		t.Fatalf("expected nil when every opponent is unrated, got %v", *got)
	}

	history = append(history, duel("c", 3, 600, player(me, 8, 2400, 5), player("Grubby#1278", 2, 2100, -5)))
	got := calc.StrengthOfSchedule(history, me, domain.RaceAll)
	if got == nil || *got != 2100 {
		t.Errorf("expected unrated opponents to leave the mean at 2100, got %v", got)
	}
}

func TestComputeSharesHistoryCache(t *testing.T) {
	cfg := testConfig()
	matches := newStubMatches()
	matches.add(
		duel("a", 0, 600, player("Happy#2384", 8, 2400, 5), player("Grubby#1278", 2, 2000, -5)),
		duel("b", 1, 600, player("Grubby#1278", 2, 2000, 5), player("Lyn#7", 2, 2500, -5)),
	)
	hc := NewHistoryCache(matches, cfg, zerolog.Nop())
	calc := NewSoSCalculator(cfg, zerolog.Nop())

	happy := &domain.LadderRow{BattleTag: "Happy#2384"}
	grubby := &domain.LadderRow{BattleTag: "Grubby#1278"}
	nobody := &domain.LadderRow{BattleTag: "Nobody#1", SoS: fp(1)}

	calc.Compute(context.Background(), []*domain.LadderRow{happy, grubby, happy, nobody, grubby}, domain.RaceAll, hc)

	if happy.SoS == nil || *happy.SoS != 2000 {
		t.Errorf("expected Happy SoS 2000, got %v", happy.SoS)
	}
	if grubby.SoS == nil || *grubby.SoS != 2450 {
		t.Errorf("expected Grubby SoS 2450, got %v", grubby.SoS)
	}
	if nobody.SoS != nil {
		t.Errorf("expected nil SoS for player without matches, got %v", *nobody.SoS)
	}

	calc.Eligible(context.Background(), "HAPPY#2384", domain.RaceAll, hc)
	for _, tag := range []string{"Happy#2384", "Grubby#1278", "Nobody#1"} {
		if n := matches.callsFor(tag); n != 1 {
			t.Errorf("%s: expected 1 history fetch, got %d", tag, n)
		}
	}
}

func TestHistoryCacheConcurrentGet(t *testing.T) {
	matches := newStubMatches()
	hc := NewHistoryCache(matches, testConfig(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hc.Get(context.Background(), "Happy#2384")
		}()
	}
	wg.Wait()

	if n := matches.callsFor("Happy#2384"); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
}

func TestEligibleNeedsThirtyFiveGames(t *testing.T) {
	cfg := testConfig()
	calc := NewSoSCalculator(cfg, zerolog.Nop())

	build := func(n int) *HistoryCache {
		matches := newStubMatches()
		for i := 0; i < n; i++ {
			matches.add(duel(fmt.Sprintf("m%d", i), i, 600, player("Happy#2384", 8, 2400, 5), player("Grubby#1278", 2, 2000, -5)))
		}
		matches.add(duel("short", 99, 90, player("Happy#2384", 8, 2400, 5), player("Grubby#1278", 2, 2000, -5)))
		return NewHistoryCache(matches, cfg, zerolog.Nop())
	}

	if calc.Eligible(context.Background(), "Happy#2384", domain.RaceUndead, build(34)) {
		t.Error("34 qualifying games should not be eligible")
	}
	if !calc.Eligible(context.Background(), "Happy#2384", domain.RaceUndead, build(35)) {
		t.Error("35 qualifying games should be eligible")
	}
	if calc.Eligible(context.Background(), "Happy#2384", domain.RaceHuman, build(40)) {
		t.Error("games on another race should not count")
	}
}
