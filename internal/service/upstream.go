package service

import (
	"context"
	"w3c-ladder/internal/api"
)

// The services depend on these narrow views of the upstream client so tests can stub them.

type TagResolver interface {
	Resolve(ctx context.Context, input string) (string, bool)
}

type LadderSource interface {
	LadderPage(ctx context.Context, league, gateway, gameMode, season int) ([]api.LadderEntry, error)
	CountryLadder(ctx context.Context, countryCode string, gateway, gameMode, season int) ([]api.CountryLeague, error)
}

type MatchSource interface {
	AllPlayerMatches(ctx context.Context, battleTag string, gateway int, seasons []int) ([]api.Match, error)
}

type DetailSource interface {
	MatchDetail(ctx context.Context, matchID string) (*api.MatchDetail, error)
}

type ProfileSource interface {
	PlayerProfile(ctx context.Context, battleTag string) (*api.PlayerProfile, error)
}
