// Package report renders service responses as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"w3c-ladder/internal/domain"
)

const missing = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func optFloat(v *float64, format string) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf(format, *v)
}

func optInt(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

func pct(winrate float64) string {
	return fmt.Sprintf("%.1f%%", winrate*100)
}

// PrintLadderPage prints the visible ladder rows. The requesting player's row is marked with ">".
// identifier is what the caller asked for; when empty no player line is printed.
func PrintLadderPage(w io.Writer, page *domain.LadderPage, identifier string) {
	fmt.Fprintf(w, "\nRace: %s  |  Pool: %d  |  Snapshot: %s  |  Updated: %s\n\n",
		page.Race, page.PoolSize, page.SnapshotID, page.UpdatedAtUTC)

	table := newTable(w)
	table.Header(" ", "RANK", "PLAYER", "MMR", "SOS", "SCORE", "W", "L", "GAMES")
	for _, r := range page.Full {
		marker := " "
		if page.Me != nil && strings.EqualFold(page.Me.BattleTag, r.BattleTag) {
			marker = ">"
		}
		table.Append(
			marker,
			strconv.Itoa(r.Rank),
			r.BattleTag,
			fmt.Sprintf("%.0f", r.Rating),
			optFloat(r.SoS, "%.0f"),
			fmt.Sprintf("%.1f", r.Score),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			strconv.Itoa(r.Games),
		)
	}
	table.Render()

	switch {
	case page.Me != nil:
		fmt.Fprintf(w, "%s: rank %d, score %.1f\n", page.Me.BattleTag, page.Me.Rank, page.Me.Score)
	case identifier != "":
		fmt.Fprintf(w, "%s: player not found on this ladder\n", identifier)
	}
}

// PrintAnalytics prints the summary line, per-map results and hero usage.
func PrintAnalytics(w io.Writer, a *domain.PlayerAnalytics) {
	s := a.Summary
	fmt.Fprintf(w, "\n%s  |  %d games  |  %d-%d  |  %s  |  avg %.1f min\n\n",
		a.BattleTag, s.Games, s.Wins, s.Losses, pct(s.Winrate), s.AvgDurationSec/60)

	maps := newTable(w)
	maps.Header("MAP", "GAMES", "WINS", "WIN%")
	for _, m := range a.Maps {
		maps.Append(m.Map, strconv.Itoa(m.Games), strconv.Itoa(m.Wins), pct(m.Winrate))
	}
	maps.Render()

	heroes := make([]string, 0, len(a.HeroUsage))
	for h := range a.HeroUsage {
		heroes = append(heroes, h)
	}
	sort.Slice(heroes, func(i, j int) bool {
		if a.HeroUsage[heroes[i]] != a.HeroUsage[heroes[j]] {
			return a.HeroUsage[heroes[i]] > a.HeroUsage[heroes[j]]
		}
		return heroes[i] < heroes[j]
	})

	ht := newTable(w)
	ht.Header("HERO", "PICKS")
	for _, h := range heroes {
		ht.Append(h, strconv.Itoa(a.HeroUsage[h]))
	}
	ht.Render()
}

// PrintVs prints both sides of a head-to-head next to each other.
func PrintVs(w io.Writer, vs *domain.VsPlayerResponse) {
	fmt.Fprintf(w, "\n%s vs %s  |  %d shared games\n\n", vs.PlayerA, vs.PlayerB, len(vs.Games))

	a, b := vs.StatsA, vs.StatsB
	sides := newTable(w)
	sides.Header("", vs.PlayerA, vs.PlayerB)
	sides.Append("wins", strconv.Itoa(a.Overall.Wins), strconv.Itoa(b.Overall.Wins))
	sides.Append("win%", pct(a.Overall.Winrate), pct(b.Overall.Winrate))
	sides.Append("mmr gained", fmt.Sprintf("%+.0f", a.MMR.TotalMMRGain), fmt.Sprintf("%+.0f", b.MMR.TotalMMRGain))
	sides.Append("avg gold", fmt.Sprintf("%.0f", a.Economy.AvgGold), fmt.Sprintf("%.0f", b.Economy.AvgGold))
	sides.Append("avg army", fmt.Sprintf("%.1f", a.Units.AvgLargestArmy), fmt.Sprintf("%.1f", b.Units.AvgLargestArmy))
	sides.Append("avg hero xp", fmt.Sprintf("%.0f", a.Hero.AvgXP), fmt.Sprintf("%.0f", b.Hero.AvgXP))
	sides.Append("avg ping", optFloat(a.Network.AvgPing, "%.0f ms"), optFloat(b.Network.AvgPing, "%.0f ms"))
	sides.Render()

	races := newTable(w)
	races.Header("RACE", "A W-L", "B W-L")
	for _, r := range vs.RaceBreakdown {
		races.Append(r.Race, fmt.Sprintf("%d-%d", r.AWins, r.ALosses), fmt.Sprintf("%d-%d", r.BWins, r.BLosses))
	}
	races.Render()

	maps := newTable(w)
	maps.Header("MAP", "GAMES", "A WINS", "B WINS")
	for _, m := range vs.Maps {
		maps.Append(m.Map, strconv.Itoa(m.Games), strconv.Itoa(m.WinsA), strconv.Itoa(m.WinsB))
	}
	maps.Render()

	if s := vs.MostUsedServer; s != nil {
		name := missing
		if s.Name != nil {
			name = *s.Name
		}
		fmt.Fprintf(w, "most used server: %s (%d games, %s)\n", name, s.Games, pct(s.Share))
	}
}

// PrintRank prints global and national placement per race.
func PrintRank(w io.Writer, r *domain.RankResponse) {
	fmt.Fprintf(w, "\n%s  |  season %d  |  country %s  |  min %d games\n\n", r.BattleTag, r.Season, r.Country, r.MinGames)

	table := newTable(w)
	table.Header("RACE", "GLOBAL", "OF", "COUNTRY", "OF", "MMR", "GAMES")
	for _, row := range r.Ranks {
		table.Append(
			row.Race,
			strconv.Itoa(row.GlobalRank),
			strconv.Itoa(row.GlobalTotal),
			optInt(row.CountryRank),
			optInt(row.CountryTotal),
			fmt.Sprintf("%.0f", row.Rating),
			strconv.Itoa(row.Games),
		)
	}
	table.Render()
}

// PrintMapStats prints the per-map table and the duration buckets.
func PrintMapStats(w io.Writer, m *domain.MapStatsResponse) {
	fmt.Fprintf(w, "\n%s  |  avg win %s min  |  avg loss %s min\n\n",
		m.BattleTag, optFloat(m.AvgWinMinutes, "%.1f"), optFloat(m.AvgLossMinutes, "%.1f"))

	table := newTable(w)
	table.Header("MAP", "GAMES", "W", "L", "WIN%", "AVG MIN", "NET MMR", "HERO LVL")
	for _, st := range m.TopMaps {
		table.Append(
			st.Map,
			strconv.Itoa(st.Games),
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Losses),
			fmt.Sprintf("%.1f%%", st.Winrate),
			fmt.Sprintf("%.1f", st.AvgMinutes),
			fmt.Sprintf("%+.0f", st.NetRating),
			optFloat(st.HeroAvgLevel, "%.2f"),
		)
	}
	table.Render()

	buckets := newTable(w)
	buckets.Header("LENGTH", "W", "L", "WIN%")
	for _, b := range m.WinrateByDuration {
		buckets.Append(b.Label, strconv.Itoa(b.Wins), strconv.Itoa(b.Losses), fmt.Sprintf("%.1f%%", b.Winrate))
	}
	buckets.Render()

	if lw := m.LongestWin; lw != nil {
		fmt.Fprintf(w, "longest win: %.1f min on %s vs %s (%+.0f)\n", lw.Minutes, lw.Map, lw.OppTag, lw.RatingGain)
	}
}

func PrintSearch(w io.Writer, hits []domain.SearchHit) {
	table := newTable(w)
	table.Header("BATTLETAG", "NAME", "SEASONS")
	for _, h := range hits {
		table.Append(h.BattleTag, h.Name, strconv.Itoa(h.Seasons))
	}
	table.Render()
}
