package scheduler

import (
	"context"
	"time"

	"lolstats/ingestion/internal/models"
	"lolstats/ingestion/internal/repository"
)

// Store reads teams and opens write transactions
type Store interface {
	ListTeams(ctx context.Context) ([]*models.Team, error)
	FindTeam(ctx context.Context, queryName string) (*models.Team, error)
	ListPlayers(ctx context.Context, teamID int) ([]*models.Player, error)
	InTx(ctx context.Context, fn func(w Writer) error) error
}

// Writer persists one team's results inside a transaction
type Writer interface {
	UpdateTeamStats(ctx context.Context, id int, stats []byte, at time.Time) error
	UpdatePlayerAccounts(ctx context.Context, id int, accounts []byte, at time.Time, icon string) error
}

type dbStore struct {
	db *repository.Database
}

// NewDBStore adapts the database to Store
func NewDBStore(db *repository.Database) Store {
	return &dbStore{db: db}
}

func (s *dbStore) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.db.Teams.List(ctx)
}

func (s *dbStore) FindTeam(ctx context.Context, queryName string) (*models.Team, error) {
	return s.db.Teams.GetByQueryName(ctx, queryName)
}

func (s *dbStore) ListPlayers(ctx context.Context, teamID int) ([]*models.Player, error) {
	return s.db.Players.ListByTeam(ctx, teamID)
}

func (s *dbStore) InTx(ctx context.Context, fn func(w Writer) error) error {
	return s.db.WithTx(ctx, func(repos repository.Repositories) error {
		return fn(txWriter{repos: repos})
	})
}

type txWriter struct {
	repos repository.Repositories
}

func (w txWriter) UpdateTeamStats(ctx context.Context, id int, stats []byte, at time.Time) error {
	return w.repos.Teams.UpdateStats(ctx, id, stats, at)
}

func (w txWriter) UpdatePlayerAccounts(ctx context.Context, id int, accounts []byte, at time.Time, icon string) error {
	return w.repos.Players.UpdateAccounts(ctx, id, accounts, at, icon)
}
