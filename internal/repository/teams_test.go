//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_List(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	insertTeam(t, ctx, db, "Dynamo Eclot", "eclot")
	insertTeam(t, ctx, db, "Sebek Esports", "sebek")

	teams, err := db.Teams.List(ctx)
	require.NoError(t, err, "Should list teams")
	require.Len(t, teams, 2)
	assert.Equal(t, "eclot", teams[0].QueryName, "Teams should be ordered by id")
	assert.True(t, teams[0].URL.Valid)
	assert.Nil(t, teams[0].Stats, "Fresh team has no stats")
}

func TestTeamRepository_UpdateStats(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	id := insertTeam(t, ctx, db, "Dynamo Eclot", "eclot")
	at := time.Date(2023, 7, 9, 18, 30, 5, 0, time.UTC)

	stats := []byte(`{"picks":[{"name":"Ahri","role":"top","picks":1,"icon":"x/103.png"}],"bans":[],"bans_against":[]}`)
	err := db.Teams.UpdateStats(ctx, id, stats, at)
	require.NoError(t, err, "Should update team stats")

	team, err := db.Teams.GetByQueryName(ctx, "ECLOT")
	require.NoError(t, err, "Lookup should be case-insensitive")

	blob, err := team.DecodeStats()
	require.NoError(t, err)
	require.NotNil(t, blob)
	assert.JSONEq(t, `[{"name":"Ahri","role":"top","picks":1,"icon":"x/103.png"}]`, string(blob.Picks))
	assert.JSONEq(t, `[]`, string(blob.BansAgainst))

	var lastUpdate string
	err = db.Pool.QueryRow(ctx, `SELECT last_update FROM team WHERE id = $1`, id).Scan(&lastUpdate)
	require.NoError(t, err)
	assert.Equal(t, "07-09-2023 18:30:05", lastUpdate)
}

func TestTeamRepository_NotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Teams.GetByQueryName(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.Teams.UpdateStats(ctx, 9999, []byte(`{}`), time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
