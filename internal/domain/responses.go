package domain

type LadderPage struct {
	BattleTag    string      `json:"battletag"`
	Race         string      `json:"race"`
	Me           *LadderRow  `json:"me"`
	Top          []LadderRow `json:"top"`
	PoolSize     int         `json:"poolSize"`
	Full         []LadderRow `json:"full"`
	SnapshotID   string      `json:"snapshotId"`
	UpdatedAtUTC string      `json:"updatedAtUtc"`
}

type RankRow struct {
	Race         string  `json:"race"`
	RaceID       int     `json:"raceId"`
	GlobalRank   int     `json:"globalRank"`
	GlobalTotal  int     `json:"globalTotal"`
	CountryRank  *int    `json:"countryRank"`
	CountryTotal *int    `json:"countryTotal"`
	Rating       float64 `json:"mmr"`
	Games        int     `json:"games"`
}

type RankResponse struct {
	BattleTag string    `json:"battletag"`
	Season    int       `json:"season"`
	Country   string    `json:"country"`
	MinGames  int       `json:"minGames"`
	AsOf      string    `json:"asOf"`
	Ranks     []RankRow `json:"ranks"`
}

type HeroCounts struct {
	One   int `json:"1"`
	Two   int `json:"2"`
	Three int `json:"3"`
}

type MapStat struct {
	Map          string     `json:"map"`
	Games        int        `json:"games"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	Winrate      float64    `json:"winrate"`
	AvgMinutes   float64    `json:"avgMinutes"`
	NetRating    float64    `json:"netMMR"`
	VsHigher     int        `json:"vsHigher"`
	VsLower      int        `json:"vsLower"`
	HeroAvgLevel *float64   `json:"heroAvgLevel"`
	HeroCounts   HeroCounts `json:"heroCounts"`
}

type DurationBucket struct {
	Label   string  `json:"label"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Winrate float64 `json:"winrate"`
}

type LongestWin struct {
	Map        string  `json:"map"`
	Minutes    float64 `json:"minutes"`
	OppTag     string  `json:"oppTag"`
	OppRating  float64 `json:"oppMMR"`
	RatingGain float64 `json:"mmrChange"`
	Seconds    int     `json:"secs"`
}

type MapStatsResponse struct {
	BattleTag string `json:"battletag"`
	Seasons   []int  `json:"seasons"`

	AvgWinMinutes     *float64         `json:"avgWinMinutes"`
	AvgLossMinutes    *float64         `json:"avgLossMinutes"`
	WinrateByDuration []DurationBucket `json:"winrateByDuration"`

	TopMaps    []MapStat   `json:"topMaps"`
	WorstMaps  []MapStat   `json:"worstMaps"`
	LongestWin *LongestWin `json:"longestWin"`

	HighestAvgHeroLevel *MapStat `json:"highestAvgHeroLevel"`
	LowestAvgHeroLevel  *MapStat `json:"lowestAvgHeroLevel"`

	OneHeroMap   *string `json:"oneHeroMap"`
	TwoHeroMap   *string `json:"twoHeroMap"`
	ThreeHeroMap *string `json:"threeHeroMap"`

	MostPlayed   *MapStat `json:"mostPlayed"`
	BestNet      *MapStat `json:"bestNet"`
	WorstNet     *MapStat `json:"worstNet"`
	MostVsHigher *MapStat `json:"mostVsHigher"`
	MostVsLower  *MapStat `json:"mostVsLower"`
}

type SearchHit struct {
	BattleTag string `json:"battleTag"`
	Name      string `json:"name"`
	Seasons   int    `json:"seasons"`
}
