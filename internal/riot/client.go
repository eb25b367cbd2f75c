package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lolstats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultHostFormat expands a platform or regional routing value into an API host
const DefaultHostFormat = "https://%s.api.riotgames.com"

// ErrNotFound is returned when the API answers 404
var ErrNotFound = errors.New("riot resource not found")

// APIError is a non-success response from the Riot API
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("riot %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Config configures the API client
type Config struct {
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// HostFormat is a fmt pattern taking the platform or routing value.
	// Empty means DefaultHostFormat.
	HostFormat string
}

// Client is the Riot Games API client
type Client struct {
	apiKey     string
	hostFormat string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new rate-limited Riot API client
func NewClient(cfg Config) *Client {
	hostFormat := cfg.HostFormat
	if hostFormat == "" {
		hostFormat = DefaultHostFormat
	}

	return &Client{
		apiKey:     cfg.APIKey,
		hostFormat: hostFormat,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a rate-limited GET against host and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint, host, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf(c.hostFormat, host) + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	log.Debug().
		Str("endpoint", endpoint).
		Str("url", u).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordRiotCall(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordRiotCall(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to read response body: %w", err)
	}
	metrics.RecordRiotCall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
		return nil

	case http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, endpoint, path)

	default:
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

// SummonerByName looks up a summoner on a platform such as euw1
func (c *Client) SummonerByName(ctx context.Context, platform, name string) (*Summoner, error) {
	var s Summoner
	path := "/lol/summoner/v4/summoners/by-name/" + url.PathEscape(name)
	if err := c.get(ctx, "summoner", platform, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LeagueEntriesBySummoner returns the ranked entries of an encrypted summoner id
func (c *Client) LeagueEntriesBySummoner(ctx context.Context, platform, summonerID string) ([]LeagueEntry, error) {
	var entries []LeagueEntry
	path := "/lol/league/v4/entries/by-summoner/" + url.PathEscape(summonerID)
	if err := c.get(ctx, "league", platform, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MatchIDsByPUUID returns match ids for a player, newest first
func (c *Client) MatchIDsByPUUID(ctx context.Context, platform, puuid string, queue, count int) ([]string, error) {
	routing, err := RegionalRoute(platform)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("queue", strconv.Itoa(queue))
	params.Set("count", strconv.Itoa(count))

	var ids []string
	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	if err := c.get(ctx, "matchlist", routing, path, params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match returns a single match
func (c *Client) Match(ctx context.Context, platform, matchID string) (*Match, error) {
	routing, err := RegionalRoute(platform)
	if err != nil {
		return nil, err
	}

	var m Match
	if err := c.get(ctx, "match", routing, "/lol/match/v5/matches/"+url.PathEscape(matchID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
