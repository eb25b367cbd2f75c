package models

import (
	"database/sql"
)

// Player is a row of the player table
type Player struct {
	ID             int            `db:"id"`
	TeamID         int            `db:"teamid"`
	Name           string         `db:"name"`
	LolprosURL     sql.NullString `db:"lolprosurl"`
	AlternativeIDs []string       `db:"alternativeids"` // "name#server" accounts not listed on lolpros
	Role           sql.NullString `db:"role"`
	Accounts       []byte         `db:"accounts"` // JSONB
	Icon           sql.NullString `db:"icon"`
}

// HasProfile reports whether the player can be looked up on lolpros
func (p *Player) HasProfile() bool {
	return p.LolprosURL.Valid && p.LolprosURL.String != ""
}
