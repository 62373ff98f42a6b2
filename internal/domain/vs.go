package domain

type HeroRecord struct {
	Games int `json:"games"`
	Wins  int `json:"wins"`
}

type SideStats struct {
	Overall        WinLoss `json:"overall"`
	AvgDurationSec float64 `json:"avgDurationSec"`

	MMR struct {
		TotalMMRGain float64 `json:"totalMmrGain"`
	} `json:"mmr"`

	Economy struct {
		AvgGold       float64 `json:"avgGold"`
		AvgLumber     float64 `json:"avgLumber"`
		AvgUpkeepLoss float64 `json:"avgUpkeepLoss"`
	} `json:"economy"`

	Units struct {
		AvgUnitsProduced float64 `json:"avgUnitsProduced"`
		AvgUnitsKilled   float64 `json:"avgUnitsKilled"`
		AvgLargestArmy   float64 `json:"avgLargestArmy"`
	} `json:"units"`

	Hero struct {
		AvgHeroesKilled  float64 `json:"avgHeroesKilled"`
		AvgItemsObtained float64 `json:"avgItemsObtained"`
		AvgMercsHired    float64 `json:"avgMercsHired"`
		AvgXP            float64 `json:"avgXP"`
	} `json:"hero"`

	Network struct {
		AvgPing *float64 `json:"avgPing"`
	} `json:"network"`

	HeroUsage map[string]HeroRecord `json:"heroUsage"`
}

type ServerUsage struct {
	ServerInfo
	Games int     `json:"games"`
	Share float64 `json:"share"`
}

type RaceBreakdownRow struct {
	Race string `json:"race"`

	AGames   int     `json:"aGames"`
	AWins    int     `json:"aWins"`
	ALosses  int     `json:"aLosses"`
	AWinrate float64 `json:"aWinrate"`

	BGames   int     `json:"bGames"`
	BWins    int     `json:"bWins"`
	BLosses  int     `json:"bLosses"`
	BWinrate float64 `json:"bWinrate"`
}

type VsMapRow struct {
	Map      string  `json:"map"`
	Games    int     `json:"games"`
	WinsA    int     `json:"winsA"`
	WinsB    int     `json:"winsB"`
	WinrateA float64 `json:"winrateA"`
	WinrateB float64 `json:"winrateB"`
}

type VsPlayerResponse struct {
	PlayerA string `json:"playerA"`
	PlayerB string `json:"playerB"`

	StatsA SideStats `json:"statsA"`
	StatsB SideStats `json:"statsB"`

	RaceBreakdown []RaceBreakdownRow `json:"raceBreakdown"`

	Servers        []ServerUsage `json:"servers"`
	MostUsedServer *ServerUsage  `json:"mostUsedServer"`

	Maps  []VsMapRow        `json:"maps"`
	Games []NormalizedMatch `json:"games"`
}
