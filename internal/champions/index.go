// Package champions resolves champion display names to CommunityDragon ids
// for building icon URLs.
package champions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// UnknownID is embedded in icon URLs for names missing from the catalog.
const UnknownID = -1

// CatalogEntry is one element of champion-summary.json
type CatalogEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Index maps lower-cased champion names to ids. It is read-only after
// construction and safe for concurrent use.
type Index struct {
	ids      map[string]int
	iconBase string
}

// NewIndex builds an index from catalog entries. Besides the plain name, a
// name containing an apostrophe is also indexed without it ("kaisa"), and a
// name containing spaces is also indexed without them ("leesin").
func NewIndex(entries []CatalogEntry, iconBase string) *Index {
	names := newOrderedIDs(len(entries))
	for _, e := range entries {
		names.set(e.Name, e.ID)
	}

	variants := newOrderedIDs(0)
	for _, name := range names.keys {
		id := names.ids[name]
		if strings.Contains(name, "'") {
			variants.set(strings.ReplaceAll(name, "'", ""), id)
		}
		if strings.Contains(name, " ") {
			variants.set(strings.ReplaceAll(name, " ", ""), id)
		}
	}
	for _, name := range variants.keys {
		names.set(name, variants.ids[name])
	}

	idx := &Index{
		ids:      make(map[string]int, len(names.keys)),
		iconBase: strings.TrimRight(iconBase, "/"),
	}
	for _, name := range names.keys {
		idx.ids[strings.ToLower(name)] = names.ids[name]
	}

	return idx
}

// orderedIDs keeps keys in first-insertion order so that names colliding
// after lower-casing or stripping resolve the same way on every load
type orderedIDs struct {
	keys []string
	ids  map[string]int
}

func newOrderedIDs(size int) *orderedIDs {
	return &orderedIDs{ids: make(map[string]int, size)}
}

func (o *orderedIDs) set(name string, id int) {
	if _, ok := o.ids[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.ids[name] = id
}

// ID returns the champion id for name, matched case-insensitively
func (i *Index) ID(name string) (int, bool) {
	id, ok := i.ids[strings.ToLower(name)]
	return id, ok
}

// IconURL returns the icon URL for name. Unknown names produce a URL with
// UnknownID rather than an error.
func (i *Index) IconURL(name string) string {
	id, ok := i.ID(name)
	if !ok {
		id = UnknownID
	}
	return fmt.Sprintf("%s/%d.png", i.iconBase, id)
}

// Len returns the number of indexed keys, variants included
func (i *Index) Len() int {
	return len(i.ids)
}

// Cache is the subset of the Redis cache the loader needs
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Loader fetches the champion catalog and builds an Index
type Loader struct {
	catalogURL string
	iconBase   string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

// NewLoader creates a catalog loader. cache may be nil.
func NewLoader(catalogURL, iconBase string, timeout time.Duration, cache Cache, cacheTTL time.Duration) *Loader {
	return &Loader{
		catalogURL: catalogURL,
		iconBase:   iconBase,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (l *Loader) cacheKey() string {
	return "champions:catalog:" + l.catalogURL
}

// Load returns an Index built from the catalog, preferring a cached copy
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	body, err := l.catalog(ctx)
	if err != nil {
		return nil, err
	}

	var entries []CatalogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal champion catalog: %w", err)
	}

	idx := NewIndex(entries, l.iconBase)
	log.Info().
		Int("champions", len(entries)).
		Int("keys", idx.Len()).
		Msg("Champion index built")

	return idx, nil
}

func (l *Loader) catalog(ctx context.Context) ([]byte, error) {
	if l.cache != nil {
		body, found, err := l.cache.Get(ctx, l.cacheKey())
		if err != nil {
			log.Warn().Err(err).Msg("Champion catalog cache read failed")
		} else if found {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.catalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champion catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("champion catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read champion catalog: %w", err)
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, l.cacheKey(), body, l.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("Champion catalog cache write failed")
		}
	}

	return body, nil
}
