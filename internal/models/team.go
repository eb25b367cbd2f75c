package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Team is a row of the team table
type Team struct {
	ID        int            `db:"id"`
	Name      string         `db:"name"`
	QueryName string         `db:"queryname"` // substring matched against match-history team names
	URL       sql.NullString `db:"url"`
	Stats     []byte         `db:"stats"` // JSONB, see TeamStatsBlob
}

// TeamStatsBlob is the shape stored in team.stats. Picks and bans are kept
// as raw JSON so this package stays free of the aggregation types.
type TeamStatsBlob struct {
	Picks       json.RawMessage `json:"picks"`
	Bans        json.RawMessage `json:"bans"`
	BansAgainst json.RawMessage `json:"bans_against"`
}

// DecodeStats unmarshals the stored stats blob. A NULL column yields nil.
func (t *Team) DecodeStats() (*TeamStatsBlob, error) {
	if len(t.Stats) == 0 {
		return nil, nil
	}
	var blob TeamStatsBlob
	if err := json.Unmarshal(t.Stats, &blob); err != nil {
		return nil, fmt.Errorf("failed to decode stats of team %d: %w", t.ID, err)
	}
	return &blob, nil
}
