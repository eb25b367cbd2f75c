package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseHost           string        `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort           int           `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName           string        `envconfig:"DATABASE_NAME" default:"brch_db"`
	DatabaseUser           string        `envconfig:"DATABASE_USER" default:"brch_admin"`
	DatabasePassword       string        `envconfig:"DATABASE_PASSWORD"`
	DatabaseSSLMode        string        `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	DatabaseConnectTimeout time.Duration `envconfig:"DATABASE_CONNECT_TIMEOUT" default:"600s"`

	// Redis
	CacheEnabled  bool   `envconfig:"CACHE_ENABLED" default:"true"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Leaguepedia match history
	WikiMatchHistoryURL string        `envconfig:"WIKI_MATCH_HISTORY_URL" default:"https://lol.fandom.com/wiki/Hitpoint_2nd_Division_Challengers/2023_Season/Summer_Season/Match_History"`
	WikiTimeout         time.Duration `envconfig:"WIKI_TIMEOUT" default:"30s"`

	// Champion catalog (CommunityDragon)
	ChampionCatalogURL     string        `envconfig:"CHAMPION_CATALOG_URL" default:"https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/en_gb/v1/champion-summary.json"`
	ChampionIconBaseURL    string        `envconfig:"CHAMPION_ICON_BASE_URL" default:"https://raw.communitydragon.org/latest/plugins/rcp-be-lol-game-data/global/default/v1/champion-icons"`
	ChampionCatalogTimeout time.Duration `envconfig:"CHAMPION_CATALOG_TIMEOUT" default:"30s"`

	// Riot API
	RiotAPIKey         string        `envconfig:"LOL_API_KEY"`
	RiotTimeout        time.Duration `envconfig:"RIOT_TIMEOUT" default:"600s"`
	RiotRequestsPerSec float64       `envconfig:"RIOT_REQUESTS_PER_SECOND" default:"0.8"`
	RiotBurst          int           `envconfig:"RIOT_BURST" default:"20"`
	RiotRankedQueueID  int           `envconfig:"RIOT_RANKED_QUEUE_ID" default:"420"`
	RiotMatchlistCount int           `envconfig:"RIOT_MATCHLIST_COUNT" default:"100"`
	RiotRecentWindow   time.Duration `envconfig:"RIOT_RECENT_WINDOW" default:"168h"`
	EnablePlayerStats  bool          `envconfig:"ENABLE_PLAYER_STATS" default:"true"`
	LolprosTimeout     time.Duration `envconfig:"LOLPROS_TIMEOUT" default:"30s"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	RefreshCron        string `envconfig:"REFRESH_CRON" default:"0 4 * * *"`

	// Caching TTL (in seconds)
	CacheTTLWikiPage  int `envconfig:"CACHE_TTL_WIKI_PAGE" default:"900"`    // 15 minutes
	CacheTTLChampions int `envconfig:"CACHE_TTL_CHAMPIONS" default:"86400"` // 24 hours

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv reads the environment without validating it. Callers that only
// need part of the configuration adjust it and then call ValidateSources.
func LoadEnv() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	return c.ValidateSources()
}

// ValidateSources checks the settings of the upstream HTTP sources only
func (c *Config) ValidateSources() error {
	if c.EnablePlayerStats && c.RiotAPIKey == "" {
		return fmt.Errorf("LOL_API_KEY is required when ENABLE_PLAYER_STATS is set")
	}

	if c.WikiTimeout <= 0 || c.ChampionCatalogTimeout <= 0 || c.RiotTimeout <= 0 || c.LolprosTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}

	if c.RiotRequestsPerSec <= 0 || c.RiotBurst < 1 {
		return fmt.Errorf("RIOT_REQUESTS_PER_SECOND and RIOT_BURST must be positive")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
		int(c.DatabaseConnectTimeout.Seconds()),
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// WikiPageTTL returns the cache lifetime of a fetched match-history page
func (c *Config) WikiPageTTL() time.Duration {
	return time.Duration(c.CacheTTLWikiPage) * time.Second
}

// ChampionsTTL returns the cache lifetime of the champion catalog
func (c *Config) ChampionsTTL() time.Duration {
	return time.Duration(c.CacheTTLChampions) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
