package domain

// heroNames maps the backend's hero keys to display names.
var heroNames = map[string]string{
	"archmage":     "Archmage",
	"mountainking": "Mountain King",
	"paladin":      "Paladin",
	"sorceror":     "Blood Mage",
	"bloodmage":    "Blood Mage",

	"blademaster":     "Blademaster",
	"farseer":         "Far Seer",
	"taurenchieftain": "Tauren Chieftain",
	"shadowhunter":    "Shadow Hunter",

	"demonhunter":        "Demon Hunter",
	"keeperofthegrove":   "Keeper of the Grove",
	"priestessofthemoon": "Priestess of the Moon",
	"warden":             "Warden",

	"deathknight": "Death Knight",
	"lich":        "Lich",
	"dreadlord":   "Dreadlord",
	"cryptlord":   "Crypt Lord",

	"alchemist":          "Alchemist",
	"avatarofflame":      "Firelord",
	"bansheeranger":      "Dark Ranger",
	"beastmaster":        "Beastmaster",
	"pandarenbrewmaster": "Pandaren Brewmaster",
	"pitlord":            "Pit Lord",
	"seawitch":           "Naga Sea Witch",
	"tinker":             "Goblin Tinker",
}

// HeroName returns the display name for a hero key; unknown keys pass through unchanged.
func HeroName(key string) string {
	if name, ok := heroNames[key]; ok {
		return name
	}
	return key
}
