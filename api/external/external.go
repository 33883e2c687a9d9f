/* external.go
 * Contains the client used to fetch match, team and ranking data from the VexDB api, and return the results to the higher
 * level functions
 */

package external

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vex-shell/api/shared"
)

const (
	// DefaultBaseURL is the public VexDB v1 api
	DefaultBaseURL = "https://api.vexdb.io/v1"

	userAgent = "VexShellDataFetcher/1.0"

	// pageSize is the number of records requested per page. The api caps pages at 5000
	pageSize = 5000
)

// Client fetches data from the VexDB api. Requests are spaced by Limiter so a long `wait` does not hammer the api
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a Client for baseURL that makes at most rps requests per second. rps <= 0 disables the limit
func NewClient(baseURL string, rps float64, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// FetchMatches gets every match matching q, following pagination
// Preconditions: Receives a context and a MatchQuery. Empty query fields are not sent
// Postconditions: Returns the matches in the order the api returned them, or an error if it occurs
func (c *Client) FetchMatches(ctx context.Context, q MatchQuery) ([]shared.Match, error) {
	records, err := fetchAll[matchRecord](ctx, c, "get_matches", q.values())
	if err != nil {
		return nil, fmt.Errorf("error fetching matches: %w", err)
	}

	matches := make([]shared.Match, 0, len(records))
	for _, r := range records {
		matches = append(matches, r.toMatch())
	}
	return matches, nil
}

// FetchTeams gets every team matching q, following pagination
func (c *Client) FetchTeams(ctx context.Context, q TeamQuery) ([]shared.Team, error) {
	records, err := fetchAll[teamRecord](ctx, c, "get_teams", q.values())
	if err != nil {
		return nil, fmt.Errorf("error fetching teams: %w", err)
	}

	teams := make([]shared.Team, 0, len(records))
	for _, r := range records {
		teams = append(teams, r.toTeam())
	}
	return teams, nil
}

// FetchRankings gets every ranking matching q, following pagination
func (c *Client) FetchRankings(ctx context.Context, q RankingQuery) ([]shared.Ranking, error) {
	records, err := fetchAll[rankingRecord](ctx, c, "get_rankings", q.values())
	if err != nil {
		return nil, fmt.Errorf("error fetching rankings: %w", err)
	}

	rankings := make([]shared.Ranking, 0, len(records))
	for _, r := range records {
		rankings = append(rankings, r.toRanking())
	}
	return rankings, nil
}

// fetchAll requests pages of endpoint until the reported size has been read
func fetchAll[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	var out []T
	for start := 0; ; {
		params.Set("limit_start", fmt.Sprint(start))
		params.Set("limit_number", fmt.Sprint(pageSize))

		env, err := c.get(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}

		var page []T
		if len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, &page); err != nil {
				return nil, fmt.Errorf("error decoding %s result: %w", endpoint, err)
			}
		}
		out = append(out, page...)

		start += len(page)
		if len(page) == 0 || start >= env.Size {
			return out, nil
		}
	}
}

// get performs one request and decodes the response envelope
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (envelope, error) {
	parsedURL, err := url.Parse(fmt.Sprintf("%s/%s", c.BaseURL, endpoint))
	if err != nil {
		return envelope{}, fmt.Errorf("invalid url: %w", err)
	}
	parsedURL.RawQuery = params.Encode()

	if err := c.Limiter.Wait(ctx); err != nil {
		return envelope{}, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return envelope{}, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept-Encoding", "gzip")

	c.logger.Debug("upstream request", zap.String("url", parsedURL.String()))
	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return envelope{}, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return envelope{}, &StatusError{Endpoint: endpoint, StatusCode: response.StatusCode}
	}

	body, err := readBody(response)
	if err != nil {
		return envelope{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("error decoding %s response: %w", endpoint, err)
	}
	if env.Status != 1 {
		return envelope{}, &APIError{Endpoint: endpoint, Message: env.ErrorText}
	}
	return env, nil
}

// readBody reads the response body, decompressing it when the server sent gzip
func readBody(response *http.Response) ([]byte, error) {
	if response.Header.Get("Content-Encoding") != "gzip" {
		return io.ReadAll(response.Body)
	}

	reader, err := gzip.NewReader(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
