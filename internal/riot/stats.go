package riot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// StatsConfig tunes ranked-history lookups
type StatsConfig struct {
	QueueID        int           // match-v5 queue for champion history, 420 is ranked solo
	MatchlistCount int           // match ids requested per account
	RecentWindow   time.Duration // matches older than this end the scan
}

// StatsService derives rank strings and recent champion usage for an account
type StatsService struct {
	client *Client
	cfg    StatsConfig
	now    func() time.Time
}

// NewStatsService creates a stats service
func NewStatsService(client *Client, cfg StatsConfig) *StatsService {
	return &StatsService{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// RankByQueue returns "TIER RANK LP" for queue, or Unranked when the account
// has no entry for it. Lookup failures are logged and also yield Unranked.
func (s *StatsService) RankByQueue(ctx context.Context, platform, name, queue string) string {
	summoner, err := s.client.SummonerByName(ctx, platform, name)
	if err != nil {
		log.Error().Err(err).Str("summoner", name).Msg("Error while retrieving summoner information")
		return Unranked
	}

	entries, err := s.client.LeagueEntriesBySummoner(ctx, platform, summoner.ID)
	if err != nil {
		log.Error().Err(err).Str("summoner", name).Msg("Error while retrieving league entries")
		return Unranked
	}

	return formatRank(entries, queue)
}

func formatRank(entries []LeagueEntry, queue string) string {
	for _, e := range entries {
		if e.QueueType == queue {
			return fmt.Sprintf("%s %s %d", e.Tier, e.Rank, e.LeaguePoints)
		}
	}
	return Unranked
}

// withinWindow compares ages in whole days, so a match 7 days and 23 hours
// old still counts for a 7-day window.
func (s *StatsService) withinWindow(ended time.Time) bool {
	ageDays := int(s.now().Sub(ended).Hours() / 24)
	windowDays := int(s.cfg.RecentWindow.Hours() / 24)
	return ageDays <= windowDays
}

// ChampionsPlayed walks the account's ranked match list, newest first, and
// adds games and wins per champion into into. The scan stops at the first
// match older than the recent window. It returns the number of games counted.
func (s *StatsService) ChampionsPlayed(ctx context.Context, platform, name string, into map[string]*ChampionRecord) (int, error) {
	summoner, err := s.client.SummonerByName(ctx, platform, name)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch summoner %s: %w", name, err)
	}

	ids, err := s.client.MatchIDsByPUUID(ctx, platform, summoner.PUUID, s.cfg.QueueID, s.cfg.MatchlistCount)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch match list for %s: %w", name, err)
	}

	games := 0
	for _, id := range ids {
		match, err := s.client.Match(ctx, platform, id)
		if err != nil {
			return games, fmt.Errorf("failed to fetch match %s: %w", id, err)
		}
		if !s.withinWindow(match.Info.EndedAt()) {
			break
		}
		games++

		for _, p := range match.Info.Participants {
			if p.PUUID != summoner.PUUID {
				continue
			}
			rec, ok := into[p.ChampionName]
			if !ok {
				rec = &ChampionRecord{}
				into[p.ChampionName] = rec
			}
			rec.Games++
			if p.Win {
				rec.Wins++
			}
		}
	}

	log.Info().Str("summoner", name).Int("games", games).Msg("Recent ranked games found")
	return games, nil
}

// RankedStats collects solo and flex ranks plus recent champion usage. A
// failed champion scan is logged and leaves Champions with whatever was
// counted before the failure.
func (s *StatsService) RankedStats(ctx context.Context, name, platform string) RankedStats {
	stats := RankedStats{
		SoloQ:     s.RankByQueue(ctx, platform, name, QueueSolo),
		FlexQ:     s.RankByQueue(ctx, platform, name, QueueFlex),
		Champions: make(map[string]*ChampionRecord),
	}

	if _, err := s.ChampionsPlayed(ctx, platform, name, stats.Champions); err != nil {
		log.Error().Err(err).Str("summoner", name).Msg("Error while retrieving champion history")
	}

	log.Info().
		Str("summoner", name).
		Str("soloq", stats.SoloQ).
		Str("flexq", stats.FlexQ).
		Msg("Ranked stats collected")

	return stats
}
