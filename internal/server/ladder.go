package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"w3c-ladder/internal/domain"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const LadderServicePath = "/w3c.v1.LadderService/"

var (
	errNoData   = errors.New("no data available")
	errInternal = errors.New("internal error")
)

type LadderPages interface {
	GetLadderPage(ctx context.Context, identifier string, page, pageSize int) (*domain.LadderPage, error)
	GetRaceLadderPage(ctx context.Context, identifier string, race domain.Race, page, pageSize int) (*domain.LadderPage, error)
}

type MatchAnalytics interface {
	GetMatchAnalytics(ctx context.Context, identifier string) (*domain.PlayerAnalytics, error)
}

type VsComparer interface {
	CompareVsPlayer(ctx context.Context, a, b string) (*domain.VsPlayerResponse, error)
}

type PlayerRanks interface {
	GetPlayerRank(ctx context.Context, identifier string) (*domain.RankResponse, error)
}

type MapStats interface {
	GetMapStats(ctx context.Context, identifier string) (*domain.MapStatsResponse, error)
}

type PlayerSearch interface {
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

type LadderServer struct {
	ladders   LadderPages
	analytics MatchAnalytics
	vs        VsComparer
	ranks     PlayerRanks
	maps      MapStats
	search    PlayerSearch
}

func NewLadderServer(ladders LadderPages, analytics MatchAnalytics, vs VsComparer, ranks PlayerRanks, maps MapStats, search PlayerSearch) *LadderServer {
	return &LadderServer{
		ladders:   ladders,
		analytics: analytics,
		vs:        vs,
		ranks:     ranks,
		maps:      maps,
		search:    search,
	}
}

// Handler mounts every procedure under LadderServicePath.
func (s *LadderServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(unary(LadderServicePath+"GetLadderPage", s.GetLadderPage, opts))
	mux.Handle(unary(LadderServicePath+"GetRaceLadderPage", s.GetRaceLadderPage, opts))
	mux.Handle(unary(LadderServicePath+"GetMatchAnalytics", s.GetMatchAnalytics, opts))
	mux.Handle(unary(LadderServicePath+"CompareVsPlayer", s.CompareVsPlayer, opts))
	mux.Handle(unary(LadderServicePath+"GetPlayerRank", s.GetPlayerRank, opts))
	mux.Handle(unary(LadderServicePath+"GetMapStats", s.GetMapStats, opts))
	mux.Handle(unary(LadderServicePath+"SearchPlayers", s.SearchPlayers, opts))
	return LadderServicePath, mux
}

func unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) (string, http.Handler) {
	return procedure, connect.NewUnaryHandler(procedure, fn, opts...)
}

func (s *LadderServer) GetLadderPage(ctx context.Context, req *connect.Request[LadderPageRequest]) (*connect.Response[domain.LadderPage], error) {
	page, err := s.ladders.GetLadderPage(ctx, req.Msg.BattleTag, req.Msg.Page, req.Msg.PageSize)
	return respond(ctx, "GetLadderPage", page, err)
}

func (s *LadderServer) GetRaceLadderPage(ctx context.Context, req *connect.Request[RaceLadderPageRequest]) (*connect.Response[domain.LadderPage], error) {
	race, ok := domain.ParseRace(req.Msg.Race)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown race %q", req.Msg.Race))
	}
	page, err := s.ladders.GetRaceLadderPage(ctx, req.Msg.BattleTag, race, req.Msg.Page, req.Msg.PageSize)
	return respond(ctx, "GetRaceLadderPage", page, err)
}

func (s *LadderServer) GetMatchAnalytics(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[domain.PlayerAnalytics], error) {
	a, err := s.analytics.GetMatchAnalytics(ctx, req.Msg.BattleTag)
	return respond(ctx, "GetMatchAnalytics", a, err)
}

func (s *LadderServer) CompareVsPlayer(ctx context.Context, req *connect.Request[VsPlayerRequest]) (*connect.Response[domain.VsPlayerResponse], error) {
	vs, err := s.vs.CompareVsPlayer(ctx, req.Msg.PlayerA, req.Msg.PlayerB)
	return respond(ctx, "CompareVsPlayer", vs, err)
}

func (s *LadderServer) GetPlayerRank(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[domain.RankResponse], error) {
	rank, err := s.ranks.GetPlayerRank(ctx, req.Msg.BattleTag)
	return respond(ctx, "GetPlayerRank", rank, err)
}

func (s *LadderServer) GetMapStats(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[domain.MapStatsResponse], error) {
	stats, err := s.maps.GetMapStats(ctx, req.Msg.BattleTag)
	return respond(ctx, "GetMapStats", stats, err)
}

func (s *LadderServer) SearchPlayers(ctx context.Context, req *connect.Request[SearchPlayersRequest]) (*connect.Response[SearchPlayersResponse], error) {
	hits, err := s.search.Search(ctx, req.Msg.Query)
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return respond(ctx, "SearchPlayers", &SearchPlayersResponse{Players: hits}, err)
}

// respond maps a nil result to NotFound and hides unexpected errors from the caller.
func respond[T any](ctx context.Context, procedure string, msg *T, err error) (*connect.Response[T], error) {
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("procedure", procedure).Msg("request failed")
		return nil, connect.NewError(connect.CodeInternal, errInternal)
	}
	if msg == nil {
		return nil, connect.NewError(connect.CodeNotFound, errNoData)
	}
	return connect.NewResponse(msg), nil
}
