// Package riot talks to the Riot Games API for ranked standings and recent
// ranked champion usage.
package riot

import (
	"fmt"
	"math"
	"time"
)

// Ranked queue identifiers as reported by league-v4
const (
	QueueSolo = "RANKED_SOLO_5x5"
	QueueFlex = "RANKED_FLEX_SR"

	// Unranked is reported for a queue without placement, and on lookup errors
	Unranked = "Unranked"
)

var regionalRoutes = map[string]string{
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"kr":   "asia",
	"jp1":  "asia",
	"oc1":  "sea",
	"ph2":  "sea",
	"sg2":  "sea",
	"th2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// RegionalRoute maps a platform such as euw1 to the match-v5 routing value
func RegionalRoute(platform string) (string, error) {
	r, ok := regionalRoutes[platform]
	if !ok {
		return "", fmt.Errorf("unknown platform %q", platform)
	}
	return r, nil
}

// Summoner is a summoner-v4 DTO
type Summoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	Name          string `json:"name"`
	SummonerLevel int64  `json:"summonerLevel"`
}

// LeagueEntry is a league-v4 DTO
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Match is the subset of a match-v5 DTO the stats need
type Match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

// MatchInfo holds match-level details
type MatchInfo struct {
	GameEndTimestamp int64         `json:"gameEndTimestamp"`
	QueueID          int           `json:"queueId"`
	Participants     []Participant `json:"participants"`
}

// EndedAt returns the game end time
func (i MatchInfo) EndedAt() time.Time {
	return time.UnixMilli(i.GameEndTimestamp)
}

// Participant is one player of a match
type Participant struct {
	PUUID        string `json:"puuid"`
	ChampionName string `json:"championName"`
	Win          bool   `json:"win"`
}

// ChampionRecord counts games and wins on one champion
type ChampionRecord struct {
	Games int
	Wins  int
}

// WinRate returns wins/games as a percentage rounded to two decimals, 0 with no games
func (r ChampionRecord) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return math.Round(float64(r.Wins)/float64(r.Games)*10000) / 100
}

// RankedStats is the ranked picture of one account
type RankedStats struct {
	SoloQ     string
	FlexQ     string
	Champions map[string]*ChampionRecord
}
