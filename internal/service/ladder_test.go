package service

import (
	"context"
	"fmt"
	"testing"

	"w3c-ladder/internal/api"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
)

// grind gives tag n qualifying wins on race against an opponent rated oppRating.
func grind(s *stubMatches, tag string, race, n int, oppRating float64) {
	for i := 0; i < n; i++ {
		opp := fmt.Sprintf("Sparring%s#%d", tag, i)
		s.add(duel(fmt.Sprintf("%s-%d", tag, i), i, 600, player(tag, race, 2000, 5), player(opp, 1, oppRating, -5)))
	}
}

func newLadderFixture() (*LadderService, *stubLadders, *stubMatches) {
	cfg := testConfig()
	ladders := &stubLadders{
		pages: map[int][]api.LadderEntry{
			0: {
				entry("Alpha#1", 8, 2500, 70, 100),
				entry("Bravo#2", 8, 2400, 60, 90),
				entry("Orc#5", 2, 2450, 60, 90),
				entry("Smurf#7", 8, 3200, 50, 50),
			},
			1: {
				entry("Charlie#3", 8, 2300, 50, 80),
				entry("Delta#4", 8, 2200, 40, 70),
				entry("Few#6", 8, 2600, 4, 4),
				entry("Zero#8", 8, 0, 10, 20),
			},
		},
		failing: map[int]bool{2: true},
	}

	matches := newStubMatches()
	grind(matches, "Alpha#1", 8, 40, 2000)
	grind(matches, "Bravo#2", 8, 10, 2100)
	grind(matches, "Delta#4", 8, 3, 1800)

	resolver := newStubResolver("Alpha#1", "Bravo#2", "Charlie#3", "Delta#4")
	leagues := NewLeagueService(ladders, cfg, zerolog.Nop())
	sos := NewSoSCalculator(cfg, zerolog.Nop())
	return NewLadderService(resolver, leagues, matches, sos, cfg, zerolog.Nop()), ladders, matches
}

func tags(rows []domain.LadderRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.BattleTag
	}
	return out
}

func TestRaceLadderPage(t *testing.T) {
	svc, _, matches := newLadderFixture()

	page, err := svc.GetRaceLadderPage(context.Background(), "delta#4", domain.RaceUndead, 1, 2)
	if err != nil {
		t.Fatalf("GetRaceLadderPage: %v", err)
	}

	// Bravo is on the visible window with only 10 games and drops out; Charlie and Delta
	// were never checked and stay
	if got := tags(page.Full); fmt.Sprint(got) != "[Alpha#1 Charlie#3]" {
		t.Errorf("unexpected visible rows %v", got)
	}
	if got := tags(page.Top); fmt.Sprint(got) != "[Alpha#1 Charlie#3]" {
		t.Errorf("unexpected top rows %v", got)
	}
	if page.PoolSize != 3 {
		t.Errorf("expected pool of 3, got %d", page.PoolSize)
	}
	if page.Race != "undead" || page.BattleTag != "Delta#4" || page.SnapshotID == "" || page.UpdatedAtUTC == "" {
		t.Errorf("unexpected header %+v", page)
	}

	if page.Full[0].SoS == nil || *page.Full[0].SoS != 2000 {
		t.Errorf("expected Alpha SoS 2000, got %v", page.Full[0].SoS)
	}
	if page.Full[1].SoS != nil {
		t.Errorf("expected nil SoS for Charlie, got %v", *page.Full[1].SoS)
	}
	if page.Full[0].Rank != 1 || page.Full[1].Rank != 3 {
		t.Errorf("ranks come from the full ladder, got %d and %d", page.Full[0].Rank, page.Full[1].Rank)
	}

	if page.Me == nil || page.Me.BattleTag != "Delta#4" {
		t.Fatalf("expected me row for Delta, got %+v", page.Me)
	}
	if page.Me.SoS == nil || *page.Me.SoS != 1800 {
		t.Errorf("expected Delta SoS 1800, got %v", page.Me.SoS)
	}

	for _, tag := range []string{"Alpha#1", "Bravo#2", "Charlie#3", "Delta#4"} {
		if n := matches.callsFor(tag); n != 1 {
			t.Errorf("%s: expected 1 history fetch, got %d", tag, n)
		}
	}
}

func TestLadderPageUnresolvedIdentifier(t *testing.T) {
	svc, ladders, _ := newLadderFixture()

	page, err := svc.GetRaceLadderPage(context.Background(), "nobody#1", domain.RaceUndead, 1, 2)
	if err != nil {
		t.Fatalf("GetRaceLadderPage: %v", err)
	}
	if page.Me != nil || page.BattleTag != "" {
		t.Errorf("unresolved identifier should only blank me, got %+v", page.Me)
	}
	if len(page.Full) == 0 {
		t.Error("ladder should still be returned")
	}

	if _, err := svc.GetRaceLadderPage(context.Background(), "", domain.RaceUndead, 2, 2); err != nil {
		t.Fatalf("second page: %v", err)
	}
	if ladders.calls != 3 {
		t.Errorf("league pages should be cached between requests, got %d fetches", ladders.calls)
	}
}

func TestLadderPageBeyondEnd(t *testing.T) {
	svc, _, _ := newLadderFixture()

	page, err := svc.GetRaceLadderPage(context.Background(), "", domain.RaceUndead, 10, 2)
	if err != nil {
		t.Fatalf("GetRaceLadderPage: %v", err)
	}
	if len(page.Full) != 0 {
		t.Errorf("expected empty page, got %v", tags(page.Full))
	}
	if page.PoolSize != 4 {
		t.Errorf("nothing was checked so all 4 rows stay eligible, got %d", page.PoolSize)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 50},
		{-3, 10, 1, 10},
		{2, 500, 2, 200},
	}
	for _, tc := range tests {
		p, s := clampPage(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Errorf("clampPage(%d, %d) = %d, %d", tc.page, tc.size, p, s)
		}
	}
}

func TestLadderInputsKeepsOneRowPerPlayer(t *testing.T) {
	rows := flattenEntries([]api.LadderEntry{
		entry("Multi#9", 1, 2000, 30, 50),
		entry("multi#9", 8, 1900, 40, 60),
		entry("Tie#1", 1, 1800, 10, 20),
		entry("Tie#1", 2, 1850, 10, 20),
		entry("Solo#2", 4, 1700, 10, 20),
	})

	all := ladderInputs(rows, domain.RaceAll, true)
	if len(all) != 3 {
		t.Fatalf("expected 3 players, got %+v", all)
	}
	if all[0].BattleTag != "multi#9" || all[0].Games != 60 {
		t.Errorf("expected the row with most games, got %+v", all[0])
	}
	if all[1].Rating != 1850 {
		t.Errorf("expected the higher rating on a games tie, got %+v", all[1])
	}

	humans := ladderInputs(rows, domain.RaceHuman, true)
	if len(humans) != 2 {
		t.Errorf("expected 2 human rows, got %+v", humans)
	}
}

func TestUnfilteredLadderPage(t *testing.T) {
	svc, _, _ := newLadderFixture()

	page, err := svc.GetLadderPage(context.Background(), "orc#5", 1, 10)
	if err != nil {
		t.Fatalf("GetLadderPage: %v", err)
	}
	if page.Race != "all" {
		t.Errorf("expected race all, got %q", page.Race)
	}
	if page.Me != nil {
		t.Errorf("Orc#5 is unresolvable in this fixture, got %+v", page.Me)
	}
	// every row sits on the window and only Alpha has 35 qualifying games
	if got := tags(page.Full); fmt.Sprint(got) != "[Alpha#1]" {
		t.Errorf("unexpected rows %v", got)
	}
}
