package repository

import (
	"context"
	"fmt"
	"time"

	"lolstats/ingestion/internal/metrics"
	"lolstats/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	q Querier
}

// ListByTeam returns the players of a team
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, name, lolprosurl, alternativeids, role
		FROM player
		WHERE teamid = $1
		ORDER BY id
	`

	start := time.Now()
	rows, err := r.q.Query(ctx, query, teamID)
	if err != nil {
		metrics.RecordDBQuery("select", "player", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{TeamID: teamID}
		if err := rows.Scan(&p.ID, &p.Name, &p.LolprosURL, &p.AlternativeIDs, &p.Role); err != nil {
			metrics.RecordDBQuery("select", "player", "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "player", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// UpdateAccounts stores the player data blob, update time, and role icon.
// An empty icon is written as NULL.
func (r *PlayerRepository) UpdateAccounts(ctx context.Context, id int, accounts []byte, at time.Time, icon string) error {
	query := `
		UPDATE player
		SET accounts = $1::jsonb, last_update = $2, icon = $3
		WHERE id = $4
	`

	var iconArg interface{}
	if icon != "" {
		iconArg = icon
	}

	start := time.Now()
	tag, err := r.q.Exec(ctx, query, string(accounts), formatLastUpdate(at), iconArg, id)
	metrics.RecordDBQuery("update", "player", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to update player accounts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d: %w", id, ErrNotFound)
	}

	log.Debug().
		Int("id", id).
		Int("size", len(accounts)).
		Msg("Player accounts updated")

	return nil
}
