package service

import (
	"context"
	"testing"

	"w3c-ladder/internal/api"

	"github.com/rs/zerolog"
)

func TestLeagueSnapshotIsShared(t *testing.T) {
	ladders := &stubLadders{
		pages: map[int][]api.LadderEntry{
			0: {entry("Happy#2384", 8, 2400, 30, 50)},
			2: {entry("Lyn#7", 2, 2200, 28, 50)},
		},
		failing: map[int]bool{1: true},
	}
	svc := NewLeagueService(ladders, testConfig(), zerolog.Nop())

	first, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	second, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if first != second || first.ID == "" {
		t.Errorf("expected one cached snapshot, got %q and %q", first.ID, second.ID)
	}
	if ladders.calls != 3 {
		t.Errorf("expected leagues 0..2 fetched once, got %d calls", ladders.calls)
	}

	rows := first.Rows()
	if len(rows) != 2 || rows[0].BattleTag != "Happy#2384" || rows[1].BattleTag != "Lyn#7" {
		t.Errorf("expected rows in league order with the failed page empty, got %+v", rows)
	}
}

func TestFlattenEntries(t *testing.T) {
	fromInfo := api.LadderEntry{
		Player: api.LadderPlayer{MMR: 1900, Wins: 10, Games: 20},
		PlayersInfo: []api.PlayerInfo{{
			BattleTag:      "Lyn#7",
			CountryCode:    "cn",
			CalculatedRace: ip(2),
		}},
	}
	rows := flattenEntries([]api.LadderEntry{entry("Happy#2384", 8, 2400, 30, 50), fromInfo})

	if rows[0].BattleTag != "Happy#2384" || rows[0].CountryCode != "DE" || *rows[0].Race != 8 || rows[0].Games != 50 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].BattleTag != "Lyn#7" || rows[1].CountryCode != "CN" || rows[1].Race == nil || *rows[1].Race != 2 {
		t.Errorf("expected tag and race from players info, got %+v", rows[1])
	}
}

func TestCountryRows(t *testing.T) {
	ladders := &stubLadders{country: []api.CountryLeague{
		{League: 0, Ranks: []api.LadderEntry{entry("Happy#2384", 8, 2400, 30, 50)}},
		{League: 3, Ranks: []api.LadderEntry{entry("Lyn#7", 2, 2200, 28, 50)}},
	}}
	svc := NewLeagueService(ladders, testConfig(), zerolog.Nop())

	if rows := svc.CountryRows(context.Background(), ""); rows != nil || ladders.countryQ != "" {
		t.Errorf("expected no lookup without a country, got %+v", rows)
	}
	rows := svc.CountryRows(context.Background(), "DE")
	if len(rows) != 2 || ladders.countryQ != "DE" {
		t.Errorf("expected both league groups flattened, got %+v", rows)
	}
}
