package api

import "time"

// Pointer and nil-slice fields mark values the backend omits on some endpoints.
// A nil field means "missing", never "zero".

type SearchResult struct {
	BattleTag   string         `json:"battleTag"`
	Name        string         `json:"name"`
	Seasons     []SearchSeason `json:"seasons"`
	RelevanceID *string        `json:"relevanceId"`
}

type SearchSeason struct {
	ID int `json:"id"`
}

type LadderEntry struct {
	League      int          `json:"league"`
	RankNumber  int          `json:"rankNumber"`
	Player      LadderPlayer `json:"player"`
	PlayersInfo []PlayerInfo `json:"playersInfo"`
}

type LadderPlayer struct {
	Race      *int       `json:"race"`
	MMR       float64    `json:"mmr"`
	Wins      int        `json:"wins"`
	Losses    int        `json:"losses"`
	Games     int        `json:"games"`
	Name      string     `json:"name"`
	PlayerIDs []PlayerID `json:"playerIds"`
}

type PlayerID struct {
	BattleTag string `json:"battleTag"`
	Name      string `json:"name"`
}

type PlayerInfo struct {
	BattleTag      string `json:"battleTag"`
	CountryCode    string `json:"countryCode"`
	Location       string `json:"location"`
	CalculatedRace *int   `json:"calculatedRace"`
}

// CountryLeague is one league group of the per-country standings.
type CountryLeague struct {
	League int           `json:"league"`
	Ranks  []LadderEntry `json:"ranks"`
}

type MatchList struct {
	Matches []Match `json:"matches"`
	Count   int     `json:"count"`
}

type Match struct {
	ID                     string        `json:"id"`
	Map                    string        `json:"map"`
	MapName                *string       `json:"mapName"`
	MapID                  *int          `json:"mapId"`
	DurationInSeconds      int           `json:"durationInSeconds"`
	StartTime              time.Time     `json:"startTime"`
	EndTime                *time.Time    `json:"endTime"`
	GameMode               int           `json:"gameMode"`
	Gateway                *int          `json:"gateWay"`
	Season                 int           `json:"season"`
	FloMatchID             *int64        `json:"floMatchId"`
	OriginalOngoingMatchID *string       `json:"original-ongoing-match-id"`
	ServerInfo             *ServerInfo   `json:"serverInfo"`
	Teams                  []Team        `json:"teams"`
	PlayerScores           []PlayerScore `json:"playerScores"`
}

type Team struct {
	Won     bool          `json:"won"`
	Players []MatchPlayer `json:"players"`
}

type MatchPlayer struct {
	BattleTag   string     `json:"battleTag"`
	Name        string     `json:"name"`
	Race        *int       `json:"race"`
	RndRace     *int       `json:"rndRace"`
	OldMMR      *float64   `json:"oldMmr"`
	CurrentMMR  *float64   `json:"currentMmr"`
	MMR         *float64   `json:"mmr"`
	MMRGain     *float64   `json:"mmrGain"`
	Won         bool       `json:"won"`
	Heroes      []HeroPick `json:"heroes"`
	CountryCode string     `json:"countryCode"`
	Location    string     `json:"location"`
}

type HeroPick struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Level int    `json:"level"`
}

type ServerInfo struct {
	Provider          *string            `json:"provider"`
	NodeID            *int               `json:"nodeId"`
	Name              *string            `json:"name"`
	PlayerServerInfos []PlayerServerInfo `json:"playerServerInfos"`
}

type PlayerServerInfo struct {
	BattleTag   string   `json:"battleTag"`
	AveragePing *float64 `json:"averagePing"`
	CurrentPing *float64 `json:"currentPing"`
}

type PlayerScore struct {
	BattleTag     string        `json:"battleTag"`
	UnitScore     UnitScore     `json:"unitScore"`
	HeroScore     HeroScore     `json:"heroScore"`
	ResourceScore ResourceScore `json:"resourceScore"`
}

type UnitScore struct {
	UnitsProduced int `json:"unitsProduced"`
	UnitsKilled   int `json:"unitsKilled"`
	LargestArmy   int `json:"largestArmy"`
}

type HeroScore struct {
	HeroesKilled  int `json:"heroesKilled"`
	ItemsObtained int `json:"itemsObtained"`
	MercsHired    int `json:"mercsHired"`
	ExpGained     int `json:"expGained"`
}

type ResourceScore struct {
	GoldCollected   int `json:"goldCollected"`
	LumberCollected int `json:"lumberCollected"`
	GoldUpkeepLost  int `json:"goldUpkeepLost"`
}

type MatchDetail struct {
	Match        Match         `json:"match"`
	PlayerScores []PlayerScore `json:"playerScores"`
}

type PlayerProfile struct {
	BattleTag   string `json:"battleTag"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Location    string `json:"location"`
}
