package domain

import "strings"

// Race identifies a ladder race filter. RaceAll disables race filtering.
type Race int

const (
	RaceRandom   Race = 0
	RaceHuman    Race = 1
	RaceOrc      Race = 2
	RaceNightElf Race = 4
	RaceUndead   Race = 8

	RaceAll Race = -1
)

// UnknownRaceID is recorded when the backend omits a player's race.
const UnknownRaceID = -1

const UnknownRace = "Unknown"

var raceNames = map[int]string{
	int(RaceHuman):    "Human",
	int(RaceOrc):      "Orc",
	int(RaceNightElf): "Night Elf",
	int(RaceUndead):   "Undead",
	int(RaceRandom):   "Random",
}

var raceKeys = map[string]Race{
	"human":  RaceHuman,
	"orc":    RaceOrc,
	"elf":    RaceNightElf,
	"undead": RaceUndead,
	"random": RaceRandom,
}

// RankedRaces lists the races in the order rank tables are reported.
var RankedRaces = []Race{RaceHuman, RaceOrc, RaceNightElf, RaceUndead, RaceRandom}

func RaceName(id int) string {
	if name, ok := raceNames[id]; ok {
		return name
	}
	return UnknownRace
}

// ParseRace accepts the ladder race keys (human, orc, elf, undead, random).
func ParseRace(key string) (Race, bool) {
	r, ok := raceKeys[strings.ToLower(strings.TrimSpace(key))]
	return r, ok
}

func (r Race) Key() string {
	for k, v := range raceKeys {
		if v == r {
			return k
		}
	}
	return "all"
}

// Matches reports whether a player's race id satisfies the filter.
func (r Race) Matches(raceID int) bool {
	return r == RaceAll || int(r) == raceID
}

// FiltersHistory reports whether a player's per-match race must equal r. A random pick
// records the rolled race on each match, so Random, like RaceAll, accepts every match.
func (r Race) FiltersHistory() bool {
	return r != RaceAll && r != RaceRandom
}
