package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"w3c-ladder/internal/constants"
	fxmodules "w3c-ladder/internal/fx"
	"w3c-ladder/internal/repository"
	"w3c-ladder/internal/resolver"
	"w3c-ladder/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	logLevel string
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:          "w3ladder",
	Short:        "W3Champions ladder and player analytics",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "match detail store path (overrides DB_PATH)")

	rootCmd.AddCommand(ladderCmd, raceCmd, analyticsCmd, vsCmd, rankCmd, mapsCmd, searchCmd, pruneCmd)
}

// services is populated from the same fx graph the server runs on.
type services struct {
	Ladders   *service.LadderService
	Analytics *service.AnalyticsService
	Vs        *service.VsService
	Ranks     *service.RankService
	Maps      *service.MapStatsService
	Resolver  *resolver.Resolver
	Details   *repository.MatchDetailRepository
	DB        *sql.DB
}

func withServices(fn func(ctx context.Context, s *services) error) error {
	if dbPath != "" {
		os.Setenv("DB_PATH", dbPath)
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var s services
	app := fx.New(
		fxmodules.Module,
		fx.NopLogger,
		// tables own stdout
		fx.Decorate(func(l zerolog.Logger) zerolog.Logger {
			return l.Output(os.Stderr).Level(level)
		}),
		fx.Populate(&s.Ladders, &s.Analytics, &s.Vs, &s.Ranks, &s.Maps, &s.Resolver, &s.Details, &s.DB),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer s.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()
	return fn(ctx, &s)
}
