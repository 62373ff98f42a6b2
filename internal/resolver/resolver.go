// Package resolver turns user-typed battletags into the exact battletag the backend uses.
package resolver

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"w3c-ladder/internal/api"
	"w3c-ladder/internal/cache"
	"w3c-ladder/internal/constants"
	"w3c-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type Searcher interface {
	GlobalSearch(ctx context.Context, name string) ([]api.SearchResult, error)
}

type Resolver struct {
	searcher Searcher
	cache    *cache.TTL[[]api.SearchResult]
	logger   zerolog.Logger
}

func NewResolver(searcher Searcher, logger zerolog.Logger) *Resolver {
	return &Resolver{
		searcher: searcher,
		cache:    cache.NewTTL[[]api.SearchResult](),
		logger:   logger,
	}
}

// Resolve returns the backend's battletag for input, with the backend's casing. The bool is
// false when input is malformed or no search result carries the requested discriminator.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, bool) {
	hit, ok := r.resolve(ctx, input)
	if !ok {
		return "", false
	}
	return hit.BattleTag, true
}

// ResolveWithID is Resolve plus the search relevance id, empty when the backend has none.
func (r *Resolver) ResolveWithID(ctx context.Context, input string) (string, string, bool) {
	hit, ok := r.resolve(ctx, input)
	if !ok {
		return "", "", false
	}
	id := ""
	if hit.RelevanceID != nil {
		id = *hit.RelevanceID
	}
	return hit.BattleTag, id, true
}

func (r *Resolver) resolve(ctx context.Context, input string) (api.SearchResult, bool) {
	name, discriminator, ok := parseBattleTag(decodeInput(input))
	if !ok {
		return api.SearchResult{}, false
	}

	results := r.search(ctx, name)
	if len(results) == 0 {
		return api.SearchResult{}, false
	}

	suffix := strings.ToLower("#" + discriminator)
	var matches []api.SearchResult
	for _, res := range results {
		if strings.HasSuffix(strings.ToLower(res.BattleTag), suffix) {
			matches = append(matches, res)
		}
	}
	if len(matches) == 0 {
		return api.SearchResult{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return len(matches[i].Seasons) > len(matches[j].Seasons)
	})
	return matches[0], true
}

// search is the cached name lookup. Upstream failures are cached as an empty result so a
// broken name does not hammer the backend for the rest of the window.
func (r *Resolver) search(ctx context.Context, name string) []api.SearchResult {
	results, _ := r.cache.GetOrFetch(name, constants.SearchCacheTTL, func() ([]api.SearchResult, error) {
		// the flight is shared; one caller going away must not fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()

		res, err := r.searcher.GlobalSearch(fetchCtx, name)
		if err != nil {
			r.logger.Warn().Err(err).Str("name", name).Msg("global search failed")
			return nil, nil
		}
		return res, nil
	})
	return results
}

// Search is the uncached autocomplete passthrough. Queries shorter than
// MinSearchQueryLength characters return nothing.
func (r *Resolver) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < constants.MinSearchQueryLength {
		return []domain.SearchHit{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	results, err := r.searcher.GlobalSearch(ctx, query)
	if err != nil {
		r.logger.Warn().Err(err).Str("query", query).Msg("search passthrough failed")
		return []domain.SearchHit{}, nil
	}

	hits := make([]domain.SearchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, domain.SearchHit{
			BattleTag: res.BattleTag,
			Name:      res.Name,
			Seasons:   len(res.Seasons),
		})
	}
	return hits, nil
}

func decodeInput(input string) string {
	raw := strings.TrimSpace(input)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(decoded)
	}
	return raw
}

// parseBattleTag splits "Name#1234". Anything after a second '#' is ignored.
func parseBattleTag(raw string) (string, string, bool) {
	parts := strings.Split(raw, "#")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
