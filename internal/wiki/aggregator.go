package wiki

import (
	"bytes"
	"context"
	"errors"

	"lolstats/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
)

// PageSource supplies the raw match-history page
type PageSource interface {
	FetchPage(ctx context.Context) ([]byte, error)
}

// Aggregator produces per-team pick and ban statistics from the match history
type Aggregator struct {
	pages PageSource
	icons IconResolver
}

// NewAggregator creates an aggregator
func NewAggregator(pages PageSource, icons IconResolver) *Aggregator {
	return &Aggregator{pages: pages, icons: icons}
}

// TeamData fetches the match history and aggregates it for team. On any
// failure it returns EmptyTeamStats together with an error wrapping ErrFetch,
// ErrParse, or ErrNoMatches; nothing partial is ever returned.
func (a *Aggregator) TeamData(ctx context.Context, team string) (TeamStats, error) {
	log.Info().Str("team", team).Msg("Looking for team")

	stats, err := a.teamData(ctx, team)
	metrics.RecordAggregation(Outcome(err))
	if err != nil {
		return EmptyTeamStats(), err
	}

	log.Info().
		Str("team", team).
		Int("picks", len(stats.Picks)).
		Int("bans", len(stats.Bans)).
		Int("bans_against", len(stats.BansAgainst)).
		Msg("Team parsing successful")

	return stats, nil
}

func (a *Aggregator) teamData(ctx context.Context, team string) (TeamStats, error) {
	body, err := a.pages.FetchPage(ctx)
	if err != nil {
		log.Error().Err(err).Str("team", team).Msg("Error fetching match history")
		return TeamStats{}, err
	}

	rows, err := ParseMatchHistory(bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("team", team).Msg("Error in parsing HTML")
		return TeamStats{}, err
	}

	tally, err := Aggregate(rows, team)
	if err != nil {
		log.Error().Err(err).Str("team", team).Int("rows", len(rows)).Msg("No data found")
		return TeamStats{}, err
	}

	return tally.Process(a.icons), nil
}

// Outcome labels an aggregation error for logs and metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoMatches):
		return "not_found"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrFetch):
		return "fetch_error"
	default:
		return "error"
	}
}
