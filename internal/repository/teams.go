package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lolstats/ingestion/internal/metrics"
	"lolstats/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	q Querier
}

// List returns every team
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT id, name, queryname, url, stats FROM team ORDER BY id`

	start := time.Now()
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		metrics.RecordDBQuery("select", "team", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.QueryName, &team.URL, &team.Stats); err != nil {
			metrics.RecordDBQuery("select", "team", "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "team", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

// GetByQueryName returns the team whose queryname equals name, case-insensitively
func (r *TeamRepository) GetByQueryName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT id, name, queryname, url, stats FROM team WHERE lower(queryname) = lower($1)`

	start := time.Now()
	team := &models.Team{}
	err := r.q.QueryRow(ctx, query, name).Scan(&team.ID, &team.Name, &team.QueryName, &team.URL, &team.Stats)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordDBQuery("select", "team", "success", time.Since(start).Seconds())
		return nil, fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	metrics.RecordDBQuery("select", "team", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// UpdateStats stores the aggregated stats blob and the update time
func (r *TeamRepository) UpdateStats(ctx context.Context, id int, stats []byte, at time.Time) error {
	query := `
		UPDATE team
		SET stats = $1::jsonb, last_update = $2
		WHERE id = $3
	`

	start := time.Now()
	tag, err := r.q.Exec(ctx, query, string(stats), formatLastUpdate(at), id)
	metrics.RecordDBQuery("update", "team", statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to update team stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("team %d: %w", id, ErrNotFound)
	}

	log.Debug().
		Int("id", id).
		Int("size", len(stats)).
		Msg("Team stats updated")

	return nil
}
