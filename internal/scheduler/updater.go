package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lolstats/ingestion/internal/lolpros"
	"lolstats/ingestion/internal/metrics"
	"lolstats/ingestion/internal/models"
	"lolstats/ingestion/internal/wiki"

	"github.com/rs/zerolog/log"
)

// ErrRunInProgress is returned when an update run is requested while another
// one is still going
var ErrRunInProgress = errors.New("update run already in progress")

// TeamSource aggregates a team's picks and bans
type TeamSource interface {
	TeamData(ctx context.Context, team string) (wiki.TeamStats, error)
}

// PlayerSource builds a player's account and champion blob
type PlayerSource interface {
	PlayerData(ctx context.Context, profileURL string, alts []string) (*lolpros.PlayerData, error)
}

// RunResult summarizes one update run
type RunResult struct {
	Teams          int
	FailedTeams    int
	Players        int
	SkippedPlayers int
}

// Updater refreshes every team's stats and its players' ranked data
type Updater struct {
	store   Store
	teams   TeamSource
	players PlayerSource
	now     func() time.Time
	running atomic.Bool
}

// NewUpdater creates an updater. players may be nil to skip player stats.
func NewUpdater(store Store, teams TeamSource, players PlayerSource) *Updater {
	return &Updater{
		store:   store,
		teams:   teams,
		players: players,
		now:     time.Now,
	}
}

type playerUpdate struct {
	id       int
	accounts []byte
	icon     string
}

type teamUpdate struct {
	team    *models.Team
	stats   wiki.TeamStats
	players []playerUpdate
	skipped int
}

// RunOnce updates every team. A failing team is logged and counted and the
// run moves on; only a failure to list teams aborts the run. It returns
// ErrRunInProgress if a run started by any trigger is still going.
func (u *Updater) RunOnce(ctx context.Context) (RunResult, error) {
	if !u.running.CompareAndSwap(false, true) {
		return RunResult{}, ErrRunInProgress
	}
	defer u.running.Store(false)
	return u.run(ctx)
}

// Start begins a run in the background. It reports false without starting
// anything while another run is going. done, if not nil, gets the result.
func (u *Updater) Start(ctx context.Context, done func(RunResult, error)) bool {
	if !u.running.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer u.running.Store(false)
		result, err := u.run(ctx)
		if done != nil {
			done(result, err)
		}
	}()
	return true
}

// Running reports whether a run is in progress
func (u *Updater) Running() bool {
	return u.running.Load()
}

func (u *Updater) run(ctx context.Context) (RunResult, error) {
	start := time.Now()
	var result RunResult

	teams, err := u.store.ListTeams(ctx)
	if err != nil {
		metrics.RecordSync("full", "error", time.Since(start).Seconds())
		return result, fmt.Errorf("failed to list teams: %w", err)
	}
	log.Info().Int("count", len(teams)).Msg("Starting update run")

	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			metrics.RecordSync("full", "cancelled", time.Since(start).Seconds())
			return result, err
		}

		update, err := u.updateTeam(ctx, team)
		if err != nil {
			result.FailedTeams++
			metrics.RecordError("updater", "team")
			log.Error().
				Err(err).
				Int("team_id", team.ID).
				Str("team", team.Name).
				Msg("Team update failed")
			continue
		}

		result.Teams++
		result.Players += len(update.players)
		result.SkippedPlayers += update.skipped
	}

	status := "success"
	if result.FailedTeams > 0 {
		status = "partial"
	}
	metrics.RecordSync("full", status, time.Since(start).Seconds())

	log.Info().
		Int("teams", result.Teams).
		Int("failed_teams", result.FailedTeams).
		Int("players", result.Players).
		Int("skipped_players", result.SkippedPlayers).
		Dur("duration", time.Since(start)).
		Msg("Update run complete")

	return result, nil
}

// RefreshTeam updates the single team whose queryname matches query and
// returns the stats that were written
func (u *Updater) RefreshTeam(ctx context.Context, query string) (wiki.TeamStats, error) {
	start := time.Now()

	team, err := u.store.FindTeam(ctx, query)
	if err != nil {
		metrics.RecordSync("team", "error", time.Since(start).Seconds())
		return wiki.EmptyTeamStats(), fmt.Errorf("failed to find team: %w", err)
	}

	update, err := u.updateTeam(ctx, team)
	if err != nil {
		metrics.RecordSync("team", "error", time.Since(start).Seconds())
		return wiki.EmptyTeamStats(), err
	}

	metrics.RecordSync("team", "success", time.Since(start).Seconds())
	return update.stats, nil
}

// updateTeam gathers everything over the network first and then writes the
// team and its players in one transaction.
func (u *Updater) updateTeam(ctx context.Context, team *models.Team) (*teamUpdate, error) {
	stats, err := u.teams.TeamData(ctx, team.QueryName)
	switch {
	case errors.Is(err, wiki.ErrNoMatches):
		// the team genuinely has no games on the page; store the empty lists
	case err != nil:
		return nil, fmt.Errorf("failed to aggregate team %q: %w", team.QueryName, err)
	}

	update := &teamUpdate{team: team, stats: stats}
	if u.players != nil {
		if err := u.collectPlayers(ctx, update); err != nil {
			return nil, err
		}
	}

	if err := u.write(ctx, update); err != nil {
		return nil, err
	}

	log.Info().
		Int("team_id", team.ID).
		Str("team", team.Name).
		Int("players", len(update.players)).
		Msg("Team updated")

	return update, nil
}

func (u *Updater) collectPlayers(ctx context.Context, update *teamUpdate) error {
	players, err := u.store.ListPlayers(ctx, update.team.ID)
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}

	for _, p := range players {
		if !p.HasProfile() {
			log.Warn().Int("player_id", p.ID).Str("player", p.Name).Msg("Player has no lolpros profile, skipping")
			update.skipped++
			continue
		}

		data, err := u.players.PlayerData(ctx, p.LolprosURL.String, p.AlternativeIDs)
		if err != nil {
			log.Error().Err(err).Int("player_id", p.ID).Str("player", p.Name).Msg("Failed to build player data")
			metrics.RecordError("updater", "player")
			update.skipped++
			continue
		}

		blob, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal player data: %w", err)
		}

		icon, ok := wiki.RoleIcon(p.Role.String)
		if !ok {
			log.Warn().Int("player_id", p.ID).Str("role", p.Role.String).Msg("Unknown player role, icon left empty")
		}

		update.players = append(update.players, playerUpdate{id: p.ID, accounts: blob, icon: icon})
	}

	return nil
}

func (u *Updater) write(ctx context.Context, update *teamUpdate) error {
	blob, err := json.Marshal(update.stats)
	if err != nil {
		return fmt.Errorf("failed to marshal team stats: %w", err)
	}
	at := u.now()

	err = u.store.InTx(ctx, func(w Writer) error {
		if err := w.UpdateTeamStats(ctx, update.team.ID, blob, at); err != nil {
			return err
		}
		for _, p := range update.players {
			if err := w.UpdatePlayerAccounts(ctx, p.id, p.accounts, at, p.icon); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save team %d: %w", update.team.ID, err)
	}

	metrics.TeamsUpdated.Inc()
	metrics.PlayersUpdated.Add(float64(len(update.players)))
	return nil
}
