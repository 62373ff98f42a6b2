package fx

import (
	"w3c-ladder/internal/api"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/database"
	"w3c-ladder/internal/logger"
	"w3c-ladder/internal/repository"
	"w3c-ladder/internal/resolver"
	"w3c-ladder/internal/server"
	"w3c-ladder/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// The upstream client satisfies every narrow source interface; the normalizer reads details
// through the store-backed service instead of the raw client.

func ProvideResolver(client *api.Client, logger zerolog.Logger) *resolver.Resolver {
	return resolver.NewResolver(client, logger)
}

func ProvideMatchDetailService(client *api.Client, repo *repository.MatchDetailRepository, logger zerolog.Logger) *service.MatchDetailService {
	return service.NewMatchDetailService(client, repo, logger)
}

func ProvideNormalizer(details *service.MatchDetailService, cfg *config.Config, logger zerolog.Logger) *service.Normalizer {
	return service.NewNormalizer(details, cfg, logger)
}

func ProvideLeagueService(client *api.Client, cfg *config.Config, logger zerolog.Logger) *service.LeagueService {
	return service.NewLeagueService(client, cfg, logger)
}

func ProvideLadderService(r *resolver.Resolver, leagues *service.LeagueService, client *api.Client, sos *service.SoSCalculator, cfg *config.Config, logger zerolog.Logger) *service.LadderService {
	return service.NewLadderService(r, leagues, client, sos, cfg, logger)
}

func ProvideAnalyticsService(r *resolver.Resolver, client *api.Client, normalizer *service.Normalizer, cfg *config.Config, logger zerolog.Logger) *service.AnalyticsService {
	return service.NewAnalyticsService(r, client, normalizer, cfg, logger)
}

func ProvideVsService(r *resolver.Resolver, analytics *service.AnalyticsService, logger zerolog.Logger) *service.VsService {
	return service.NewVsService(r, analytics, logger)
}

func ProvideRankService(r *resolver.Resolver, leagues *service.LeagueService, client *api.Client, cfg *config.Config, logger zerolog.Logger) *service.RankService {
	return service.NewRankService(r, leagues, client, client, cfg, logger)
}

func ProvideMapStatsService(r *resolver.Resolver, client *api.Client, cfg *config.Config, logger zerolog.Logger) *service.MapStatsService {
	return service.NewMapStatsService(r, client, cfg, logger)
}

func ProvideLadderServer(
	ladders *service.LadderService,
	analytics *service.AnalyticsService,
	vs *service.VsService,
	ranks *service.RankService,
	maps *service.MapStatsService,
	search *resolver.Resolver,
) *server.LadderServer {
	return server.NewLadderServer(ladders, analytics, vs, ranks, maps, search)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchDetailRepository),
	// api client
	fx.Provide(api.NewClient),
	fx.Provide(ProvideResolver),
	// svc
	fx.Provide(ProvideMatchDetailService),
	fx.Provide(ProvideNormalizer),
	fx.Provide(ProvideLeagueService),
	fx.Provide(service.NewSoSCalculator),
	fx.Provide(ProvideLadderService),
	fx.Provide(ProvideAnalyticsService),
	fx.Provide(ProvideVsService),
	fx.Provide(ProvideRankService),
	fx.Provide(ProvideMapStatsService),
	// server
	fx.Provide(ProvideLadderServer),
)
