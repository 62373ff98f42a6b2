package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
	"w3c-ladder/internal/config"
	"w3c-ladder/internal/constants"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the W3Champions website backend. It only moves bytes and decodes them;
// filtering and interpretation belong to the service layer.
type Client struct {
	baseURL string
	client  *fasthttp.Client
}

// StatusError is returned when the backend answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

func NewClient(cfg *config.Config) *Client {
	return newClient(cfg.APIBaseURL, &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	})
}

func newClient(baseURL string, hc *fasthttp.Client) *Client {
	return &Client{baseURL: baseURL, client: hc}
}

func (c *Client) GlobalSearch(ctx context.Context, name string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("search", name)
	q.Set("pageSize", strconv.Itoa(constants.SearchPageSize))
	res, err := doRequest[[]SearchResult](ctx, c, c.baseURL+"/players/global-search?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) LadderPage(ctx context.Context, league, gateway, gameMode, season int) ([]LadderEntry, error) {
	q := url.Values{}
	q.Set("gateWay", strconv.Itoa(gateway))
	q.Set("gameMode", strconv.Itoa(gameMode))
	q.Set("season", strconv.Itoa(season))
	res, err := doRequest[[]LadderEntry](ctx, c, fmt.Sprintf("%s/ladder/%d?%s", c.baseURL, league, q.Encode()))
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) CountryLadder(ctx context.Context, countryCode string, gateway, gameMode, season int) ([]CountryLeague, error) {
	q := url.Values{}
	q.Set("gateWay", strconv.Itoa(gateway))
	q.Set("gameMode", strconv.Itoa(gameMode))
	q.Set("season", strconv.Itoa(season))
	res, err := doRequest[[]CountryLeague](ctx, c, fmt.Sprintf("%s/ladder/country/%s?%s", c.baseURL, url.PathEscape(countryCode), q.Encode()))
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *Client) PlayerMatches(ctx context.Context, battleTag string, gateway, season, offset, pageSize int) (*MatchList, error) {
	q := url.Values{}
	q.Set("playerId", battleTag)
	q.Set("gateway", strconv.Itoa(gateway))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("season", strconv.Itoa(season))
	return doRequest[MatchList](ctx, c, c.baseURL+"/matches/search?"+q.Encode())
}

// AllPlayerMatches pages through every season in seasons. On failure it returns the matches
// collected so far together with the error.
func (c *Client) AllPlayerMatches(ctx context.Context, battleTag string, gateway int, seasons []int) ([]Match, error) {
	var all []Match
	for _, season := range seasons {
		offset := 0
		for page := 0; page < constants.MaxMatchPages; page++ {
			list, err := c.PlayerMatches(ctx, battleTag, gateway, season, offset, constants.MatchPageSize)
			if err != nil {
				return all, fmt.Errorf("failed to fetch matches season=%d offset=%d: %w", season, offset, err)
			}
			all = append(all, list.Matches...)
			offset += len(list.Matches)
			if len(list.Matches) == 0 || offset >= list.Count {
				break
			}
		}
	}
	return all, nil
}

func (c *Client) MatchDetail(ctx context.Context, matchID string) (*MatchDetail, error) {
	return doRequest[MatchDetail](ctx, c, c.baseURL+"/matches/"+url.PathEscape(matchID))
}

func (c *Client) PlayerProfile(ctx context.Context, battleTag string) (*PlayerProfile, error) {
	return doRequest[PlayerProfile](ctx, c, c.baseURL+"/players/"+url.PathEscape(battleTag))
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	// battletags travel percent-encoded in the path; keep %23 intact
	req.URI().DisablePathNormalizing = true
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return &result, nil
}
