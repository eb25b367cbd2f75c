package wiki

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"lolstats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
)

const userAgent = "lolstats-ingestion/1.0"

// PageCache stores fetched page bodies
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Fetcher retrieves the match-history page. The page URL is fixed; it is the
// same archive page whichever team is being looked up.
type Fetcher struct {
	url        string
	httpClient *http.Client
	cache      PageCache
	cacheTTL   time.Duration
}

// NewFetcher creates a page fetcher. cache may be nil.
func NewFetcher(url string, timeout time.Duration, cache PageCache, cacheTTL time.Duration) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// URL returns the page URL
func (f *Fetcher) URL() string {
	return f.url
}

func (f *Fetcher) cacheKey() string {
	return "wiki:page:" + f.url
}

// FetchPage returns the page body. Errors wrap ErrFetch.
func (f *Fetcher) FetchPage(ctx context.Context) ([]byte, error) {
	if f.cache != nil {
		body, found, err := f.cache.Get(ctx, f.cacheKey())
		if err != nil {
			log.Warn().Err(err).Msg("Match history cache read failed")
		} else if found {
			metrics.RecordWikiFetch("cache", "success", 0)
			log.Debug().Str("url", f.url).Msg("Match history served from cache")
			return body, nil
		}
	}

	start := time.Now()
	body, err := f.get(ctx)
	if err != nil {
		metrics.RecordWikiFetch("network", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	metrics.RecordWikiFetch("network", "success", time.Since(start).Seconds())

	log.Debug().
		Str("url", f.url).
		Int("size", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Match history fetched")

	if f.cache != nil {
		f.store(ctx, body)
	}

	return body, nil
}

// store caches body only when it parses as a match history, so a challenge
// page or broken layout is fetched again on the next call.
func (f *Fetcher) store(ctx context.Context, body []byte) {
	if _, err := ParseMatchHistory(bytes.NewReader(body)); err != nil {
		log.Warn().Err(err).Str("url", f.url).Msg("Match history not cached, page does not parse")
		return
	}
	if err := f.cache.Set(ctx, f.cacheKey(), body, f.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Match history cache write failed")
	}
}

func (f *Fetcher) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
