package domain

import (
	"strings"
	"time"
)

// RawLeagueRow is one player's standing on a league page, flattened from the upstream shape.
type RawLeagueRow struct {
	BattleTag   string
	Rating      float64
	Wins        int
	Games       int
	Race        *int
	CountryCode string
}

type LadderInputRow struct {
	BattleTag string
	Rating    float64
	Wins      int
	Games     int
	SoS       *float64
}

type LadderRow struct {
	Rank      int      `json:"rank"`
	BattleTag string   `json:"battletag"`
	Rating    float64  `json:"mmr"`
	SoS       *float64 `json:"sos"`
	Score     float64  `json:"score"`
	Wins      int      `json:"wins"`
	Losses    int      `json:"losses"`
	Games     int      `json:"games"`
}

type ScoreBlock struct {
	UnitsProduced int `json:"unitsProduced"`
	UnitsKilled   int `json:"unitsKilled"`
	LargestArmy   int `json:"largestArmy"`

	HeroesKilled  int `json:"heroesKilled"`
	ItemsObtained int `json:"itemsObtained"`
	MercsHired    int `json:"mercsHired"`
	ExpGained     int `json:"expGained"`

	GoldCollected   int `json:"goldCollected"`
	LumberCollected int `json:"lumberCollected"`
	GoldUpkeepLost  int `json:"goldUpkeepLost"`
}

type HeroEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type NormalizedSide struct {
	BattleTag  string      `json:"battletag"`
	RaceID     int         `json:"raceId"`
	Race       string      `json:"race"`
	OldRating  float64     `json:"oldMmr"`
	NewRating  float64     `json:"currentMmr"`
	RatingGain float64     `json:"mmrGain"`
	Won        bool        `json:"won"`
	AvgPing    *float64    `json:"avgPing"`
	Heroes     []HeroEntry `json:"heroes"`
	Score      ScoreBlock  `json:"score"`
}

type ServerInfo struct {
	Provider *string `json:"provider"`
	NodeID   *int    `json:"nodeId"`
	Name     *string `json:"name"`
}

// Side names one of the two recorded perspectives of a normalized match.
type Side int

const (
	SideSelf Side = iota
	SideOpponent
)

func (s Side) Other() Side {
	if s == SideSelf {
		return SideOpponent
	}
	return SideSelf
}

func (s Side) String() string {
	if s == SideSelf {
		return "self"
	}
	return "opponent"
}

type NormalizedMatch struct {
	ID              string     `json:"id"`
	Map             string     `json:"map"`
	MapID           *int       `json:"mapId"`
	DurationSeconds int        `json:"durationSeconds"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	Season          int        `json:"season"`
	GameMode        int        `json:"gameMode"`
	Gateway         *int       `json:"gateway"`

	FloMatchID             *int64  `json:"floMatchId"`
	OriginalOngoingMatchID *string `json:"originalOngoingMatchId"`

	Server ServerInfo `json:"server"`

	Me  NormalizedSide `json:"me"`
	Opp NormalizedSide `json:"opp"`
}

func (m *NormalizedMatch) Side(s Side) *NormalizedSide {
	if s == SideSelf {
		return &m.Me
	}
	return &m.Opp
}

// SideOf reports which side carries battleTag, compared case-insensitively.
func (m *NormalizedMatch) SideOf(battleTag string) (Side, bool) {
	switch {
	case strings.EqualFold(m.Me.BattleTag, battleTag):
		return SideSelf, true
	case strings.EqualFold(m.Opp.BattleTag, battleTag):
		return SideOpponent, true
	}
	return SideSelf, false
}

type WinLoss struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Winrate float64 `json:"winrate"`
}

func NewWinLoss(wins, games int) WinLoss {
	wl := WinLoss{Games: games, Wins: wins, Losses: games - wins}
	if games > 0 {
		wl.Winrate = float64(wins) / float64(games)
	}
	return wl
}

type AnalyticsSummary struct {
	WinLoss
	AvgDurationSec float64 `json:"avgDurationSec"`
	AvgGold        float64 `json:"avgGold"`
	AvgLumber      float64 `json:"avgLumber"`
	AvgUpkeepLoss  float64 `json:"avgUpkeepLoss"`
	AvgArmy        float64 `json:"avgArmy"`
	AvgXP          float64 `json:"avgXP"`
}

type MapWinrate struct {
	Map     string  `json:"map"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Winrate float64 `json:"winrate"`
}

type PlayerAnalytics struct {
	BattleTag string            `json:"battletag"`
	Matches   []NormalizedMatch `json:"matches"`
	Summary   AnalyticsSummary  `json:"summary"`
	HeroUsage map[string]int    `json:"heroUsage"`
	Maps      []MapWinrate      `json:"maps"`
}
