package service

import (
	"context"
	"testing"

	"w3c-ladder/internal/api"

	"github.com/rs/zerolog"
)

func newAnalyticsFixture(matches *stubMatches) *AnalyticsService {
	cfg := testConfig()
	resolver := newStubResolver("Happy#2384", "Grubby#1278", "Lyn#7")
	normalizer := NewNormalizer(&stubDetails{}, cfg, zerolog.Nop())
	return NewAnalyticsService(resolver, matches, normalizer, cfg, zerolog.Nop())
}

func TestMatchAnalyticsSummary(t *testing.T) {
	matches := newStubMatches()
	happy := player("Happy#2384", 8, 2400, 10)
	happy.Heroes = []api.HeroPick{{Name: "deathknight", Level: 5}, {Name: "lich", Level: 3}}
	win := duel("m1", 0, 600, happy, player("Grubby#1278", 2, 2300, -10))
	win.PlayerScores = []api.PlayerScore{{
		BattleTag:     "happy#2384",
		ResourceScore: api.ResourceScore{GoldCollected: 4000, LumberCollected: 1000, GoldUpkeepLost: 200},
		UnitScore:     api.UnitScore{LargestArmy: 60},
		HeroScore:     api.HeroScore{ExpGained: 3000},
	}}
	loss := duel("m2", 20, 900, player("Grubby#1278", 2, 2310, 10), player("Happy#2384", 8, 2390, -10))
	loss.MapName = sp("Concealed Hill")
	matches.add(win, loss)

	svc := newAnalyticsFixture(matches)
	a, err := svc.GetMatchAnalytics(context.Background(), "HAPPY#2384")
	if err != nil || a == nil {
		t.Fatalf("GetMatchAnalytics: %v %v", a, err)
	}

	if a.BattleTag != "Happy#2384" || len(a.Matches) != 2 {
		t.Fatalf("unexpected corpus %q with %d matches", a.BattleTag, len(a.Matches))
	}
	s := a.Summary
	if s.Games != 2 || s.Wins != 1 || s.Losses != 1 || s.Winrate != 0.5 {
		t.Errorf("unexpected win/loss %+v", s.WinLoss)
	}
	if s.AvgDurationSec != 750 || s.AvgGold != 2000 || s.AvgArmy != 30 || s.AvgXP != 1500 {
		t.Errorf("unexpected averages %+v", s)
	}
	if a.HeroUsage["Death Knight"] != 1 || a.HeroUsage["Lich"] != 1 {
		t.Errorf("unexpected hero usage %v", a.HeroUsage)
	}
	if len(a.Maps) != 2 || a.Maps[0].Map != "Echo Isles" || a.Maps[0].Winrate != 1 || a.Maps[1].Winrate != 0 {
		t.Errorf("unexpected maps %+v", a.Maps)
	}
}

func TestMatchAnalyticsEmptyCorpus(t *testing.T) {
	svc := newAnalyticsFixture(newStubMatches())

	a, err := svc.GetMatchAnalytics(context.Background(), "lyn#7")
	if err != nil || a == nil {
		t.Fatalf("expected empty analytics, got %v %v", a, err)
	}
	if len(a.Matches) != 0 || a.Summary.Games != 0 || a.Summary.Winrate != 0 {
		t.Errorf("expected zeroed summary, got %+v", a.Summary)
	}
	if a.HeroUsage == nil || a.Maps == nil {
		t.Error("expected empty collections rather than nil")
	}
}

func TestMatchAnalyticsUpstreamFailure(t *testing.T) {
	matches := newStubMatches()
	matches.failFor["lyn#7"] = true
	svc := newAnalyticsFixture(matches)

	a, err := svc.GetMatchAnalytics(context.Background(), "Lyn#7")
	if err != nil || a == nil || len(a.Matches) != 0 {
		t.Fatalf("expected empty analytics on a failed fetch, got %v %v", a, err)
	}
}

func TestMatchAnalyticsUnresolved(t *testing.T) {
	matches := newStubMatches()
	svc := newAnalyticsFixture(matches)

	a, err := svc.GetMatchAnalytics(context.Background(), "nobody#1")
	if err != nil || a != nil {
		t.Fatalf("expected nil, got %v %v", a, err)
	}
	if n := matches.callsFor("nobody#1"); n != 0 {
		t.Errorf("expected no history fetch, got %d", n)
	}
}
