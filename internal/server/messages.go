package server

import "w3c-ladder/internal/domain"

type LadderPageRequest struct {
	BattleTag string `json:"battletag"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

type RaceLadderPageRequest struct {
	BattleTag string `json:"battletag"`
	Race      string `json:"race"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

// PlayerRequest carries one player identifier, either "Name#1234" or its URL-encoded form.
type PlayerRequest struct {
	BattleTag string `json:"battletag"`
}

type VsPlayerRequest struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`
}

type SearchPlayersRequest struct {
	Query string `json:"query"`
}

type SearchPlayersResponse struct {
	Players []domain.SearchHit `json:"players"`
}
