package main

import (
	"context"
	"fmt"
	"os"
	"time"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"
	"w3c-ladder/internal/report"

	"github.com/spf13/cobra"
)

var (
	page      int
	pageSize  int
	olderThan time.Duration
)

var ladderCmd = &cobra.Command{
	Use:   "ladder [battletag]",
	Short: "Show an unfiltered ladder page, marking a player when given",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			identifier := optionalArg(args, 0)
			resp, err := s.Ladders.GetLadderPage(ctx, identifier, page, pageSize)
			if err != nil {
				return err
			}
			report.PrintLadderPage(os.Stdout, resp, identifier)
			return nil
		})
	},
}

var raceCmd = &cobra.Command{
	Use:   "race <human|orc|elf|undead|random> [battletag]",
	Short: "Show one race's ladder page, marking a player when given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		race, ok := domain.ParseRace(args[0])
		if !ok {
			return fmt.Errorf("unknown race %q", args[0])
		}
		return withServices(func(ctx context.Context, s *services) error {
			identifier := optionalArg(args, 1)
			resp, err := s.Ladders.GetRaceLadderPage(ctx, identifier, race, page, pageSize)
			if err != nil {
				return err
			}
			report.PrintLadderPage(os.Stdout, resp, identifier)
			return nil
		})
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics <battletag>",
	Short: "Summarize a player's recent 1v1 matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			a, err := s.Analytics.GetMatchAnalytics(ctx, args[0])
			if err != nil {
				return err
			}
			if a == nil {
				return notFound(args[0])
			}
			report.PrintAnalytics(os.Stdout, a)
			return nil
		})
	},
}

var vsCmd = &cobra.Command{
	Use:   "vs <battletag> <battletag>",
	Short: "Compare two players over the games they played against each other",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			vs, err := s.Vs.CompareVsPlayer(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if vs == nil {
				return notFound(args[0] + " or " + args[1])
			}
			report.PrintVs(os.Stdout, vs)
			return nil
		})
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <battletag>",
	Short: "Show a player's global and national rank per race",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			r, err := s.Ranks.GetPlayerRank(ctx, args[0])
			if err != nil {
				return err
			}
			if r == nil {
				return notFound(args[0])
			}
			report.PrintRank(os.Stdout, r)
			return nil
		})
	},
}

var mapsCmd = &cobra.Command{
	Use:   "maps <battletag>",
	Short: "Show per-map results for the current season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			m, err := s.Maps.GetMapStats(ctx, args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return notFound(args[0])
			}
			report.PrintMapStats(os.Stdout, m)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search players by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			hits, err := s.Resolver.Search(ctx, args[0])
			if err != nil {
				return err
			}
			report.PrintSearch(os.Stdout, hits)
			return nil
		})
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored match details fetched before a cutoff",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, s *services) error {
			removed, err := s.Details.DeleteOlderThan(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			left, err := s.Details.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "removed %d match details, %d kept\n", removed, left)
			return nil
		})
	},
}

// optionalArg returns args[i], or "" when the argument was left out.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func notFound(identifier string) error {
	return fmt.Errorf("no data available for %s", identifier)
}

func init() {
	for _, c := range []*cobra.Command{ladderCmd, raceCmd} {
		c.Flags().IntVar(&page, "page", 1, "ladder page, 1-based")
		c.Flags().IntVar(&pageSize, "page-size", constants.DefaultPageSize, "rows per page")
	}
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of details to delete")
}
