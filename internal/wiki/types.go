package wiki

import "strings"

// Side is one of the two teams in a match
type Side string

const (
	Blue Side = "blue"
	Red  Side = "red"
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == Blue {
		return Red
	}
	return Blue
}

// Role labels a pick slot
type Role string

const (
	Top     Role = "top"
	Jungle  Role = "jungle"
	Mid     Role = "mid"
	ADC     Role = "adc"
	Support Role = "supp"
)

// RoleOrder is the positional role mapping of a side's picks: pick i is
// credited to RoleOrder[i]. It always has exactly five entries, and a picks
// list is truncated to that length.
var RoleOrder = [5]Role{Top, Jungle, Mid, ADC, Support}

const positionIconBase = "https://raw.communitydragon.org/latest/plugins/rcp-fe-lol-clash/global/default/assets/images/position-selector/positions"

// RoleIcons maps a role label to its position icon
var RoleIcons = map[Role]string{
	Top:     positionIconBase + "/icon-position-top.png",
	Jungle:  positionIconBase + "/icon-position-jungle.png",
	Mid:     positionIconBase + "/icon-position-middle.png",
	ADC:     positionIconBase + "/icon-position-bottom.png",
	Support: positionIconBase + "/icon-position-utility.png",
}

// RoleIcon looks up the position icon for a stored role label
func RoleIcon(role string) (string, bool) {
	icon, ok := RoleIcons[Role(strings.ToLower(strings.TrimSpace(role)))]
	return icon, ok
}

// MatchRow is one played match from the match-history table
type MatchRow struct {
	Date      string
	Blue      string
	Red       string
	Winner    string
	BlueBans  []string
	RedBans   []string
	BluePicks []string
	RedPicks  []string
}

// Bans returns the bans made by side
func (r MatchRow) Bans(side Side) []string {
	if side == Blue {
		return r.BlueBans
	}
	return r.RedBans
}

// Picks returns the picks of side, in draft column order
func (r MatchRow) Picks(side Side) []string {
	if side == Blue {
		return r.BluePicks
	}
	return r.RedPicks
}

// ProcessedPick is a champion picked by the team in one role
type ProcessedPick struct {
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Picks int    `json:"picks"`
	Icon  string `json:"icon"`
}

// ProcessedBan is a banned champion and how often it was banned
type ProcessedBan struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Icon  string `json:"icon"`
}

// TeamStats is the aggregated result for one team
type TeamStats struct {
	Picks       []ProcessedPick `json:"picks"`
	Bans        []ProcessedBan  `json:"bans"`
	BansAgainst []ProcessedBan  `json:"bans_against"`
}

// EmptyTeamStats is the result reported for any failed aggregation
func EmptyTeamStats() TeamStats {
	return TeamStats{
		Picks:       []ProcessedPick{},
		Bans:        []ProcessedBan{},
		BansAgainst: []ProcessedBan{},
	}
}

// IsEmpty reports whether no picks or bans were found
func (s TeamStats) IsEmpty() bool {
	return len(s.Picks) == 0 && len(s.Bans) == 0 && len(s.BansAgainst) == 0
}
