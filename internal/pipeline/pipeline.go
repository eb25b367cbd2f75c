// Package pipeline wires the champion index, the match-history aggregator
// and the player stats builder from configuration.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"lolstats/ingestion/internal/champions"
	"lolstats/ingestion/internal/config"
	"lolstats/ingestion/internal/lolpros"
	"lolstats/ingestion/internal/riot"
	"lolstats/ingestion/internal/scheduler"
	"lolstats/ingestion/internal/wiki"

	"github.com/rs/zerolog/log"
)

// Cache is the byte cache shared by the page fetcher and the catalog loader
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pipeline holds the data sources of an update run
type Pipeline struct {
	Champions *champions.Index
	Teams     *wiki.Aggregator
	// Players is nil when player stats are disabled
	Players *lolpros.Builder
}

// New loads the champion index and builds the sources. cache may be nil.
func New(ctx context.Context, cfg *config.Config, cache Cache) (*Pipeline, error) {
	var (
		catalogCache champions.Cache
		pageCache    wiki.PageCache
	)
	if cache != nil {
		catalogCache = cache
		pageCache = cache
	}

	index, err := champions.NewLoader(
		cfg.ChampionCatalogURL,
		cfg.ChampionIconBaseURL,
		cfg.ChampionCatalogTimeout,
		catalogCache,
		cfg.ChampionsTTL(),
	).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load champion index: %w", err)
	}

	fetcher := wiki.NewFetcher(cfg.WikiMatchHistoryURL, cfg.WikiTimeout, pageCache, cfg.WikiPageTTL())
	p := &Pipeline{
		Champions: index,
		Teams:     wiki.NewAggregator(fetcher, index),
	}

	if cfg.EnablePlayerStats {
		client := riot.NewClient(riot.Config{
			APIKey:            cfg.RiotAPIKey,
			Timeout:           cfg.RiotTimeout,
			RequestsPerSecond: cfg.RiotRequestsPerSec,
			Burst:             cfg.RiotBurst,
		})
		stats := riot.NewStatsService(client, riot.StatsConfig{
			QueueID:        cfg.RiotRankedQueueID,
			MatchlistCount: cfg.RiotMatchlistCount,
			RecentWindow:   cfg.RiotRecentWindow,
		})
		p.Players = lolpros.NewBuilder(lolpros.NewScraper(cfg.LolprosTimeout), stats, index)
	}

	log.Info().
		Str("match_history", fetcher.URL()).
		Bool("player_stats", p.Players != nil).
		Bool("cache", cache != nil).
		Msg("Pipeline ready")

	return p, nil
}

// Updater builds an update driver over store. Player stats are skipped when
// Players is nil.
func (p *Pipeline) Updater(store scheduler.Store) *scheduler.Updater {
	var players scheduler.PlayerSource
	if p.Players != nil {
		players = p.Players
	}
	return scheduler.NewUpdater(store, p.Teams, players)
}
