package lolpros

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"lolstats/ingestion/internal/riot"

	"github.com/rs/zerolog/log"
)

const opggURLFormat = "https://www.op.gg/summoners/%s/%s"

// servers maps a lolpros server tag to its Riot platform
var servers = map[string]string{
	"euw":  "euw1",
	"eune": "eun1",
}

// AccountID is a parsed account reference
type AccountID struct {
	Name     string
	Server   string // op.gg server tag, e.g. "euw"
	Platform string // Riot platform, e.g. "euw1"
}

// ParseAccountID splits "name#server". A bare name defaults to EUW.
func ParseAccountID(raw string) (AccountID, error) {
	name, server, found := strings.Cut(raw, "#")
	if !found {
		return AccountID{Name: raw, Server: "euw", Platform: "euw1"}, nil
	}

	server = strings.ToLower(server)
	platform, ok := servers[server]
	if !ok {
		return AccountID{}, fmt.Errorf("unknown server %q in account %q", server, raw)
	}
	return AccountID{Name: name, Server: server, Platform: platform}, nil
}

// OPGG returns the account's op.gg profile URL
func (a AccountID) OPGG() string {
	return fmt.Sprintf(opggURLFormat, a.Server, url.PathEscape(a.Name))
}

// Account is one account summary in the stored player blob
type Account struct {
	AccountName string `json:"account_name"`
	OPGG        string `json:"opgg"`
	SoloQ       string `json:"soloq"`
	FlexQ       string `json:"flexq"`
}

// ChampionHistory is one champion line in the stored player blob
type ChampionHistory struct {
	Champion string  `json:"champion"`
	Played   int     `json:"played"`
	WinRate  float64 `json:"win_rate"`
	Icon     string  `json:"icon"`
}

// PlayerData is the blob written to player.accounts
type PlayerData struct {
	Accounts []Account         `json:"accounts"`
	History  []ChampionHistory `json:"history"`
}

// ProfileSource lists a player's account ids
type ProfileSource interface {
	AccountIDs(ctx context.Context, profileURL string) ([]string, error)
}

// RankedSource reports ranks and recent champion usage of one account
type RankedSource interface {
	RankedStats(ctx context.Context, name, platform string) riot.RankedStats
}

// IconResolver builds champion icon URLs
type IconResolver interface {
	IconURL(name string) string
}

// Builder assembles PlayerData from a profile and the Riot API
type Builder struct {
	profiles ProfileSource
	ranked   RankedSource
	icons    IconResolver
}

// NewBuilder creates a player data builder
func NewBuilder(profiles ProfileSource, ranked RankedSource, icons IconResolver) *Builder {
	return &Builder{profiles: profiles, ranked: ranked, icons: icons}
}

// PlayerData collects every account listed on the profile followed by alts.
// Champion games and wins are summed across accounts before win rates are
// computed. Accounts on unknown servers are skipped.
func (b *Builder) PlayerData(ctx context.Context, profileURL string, alts []string) (*PlayerData, error) {
	ids, err := b.profiles.AccountIDs(ctx, profileURL)
	if err != nil {
		return nil, err
	}
	ids = append(ids, alts...)

	data := &PlayerData{
		Accounts: make([]Account, 0, len(ids)),
		History:  []ChampionHistory{},
	}
	champions := make(map[string]*riot.ChampionRecord)

	for _, raw := range ids {
		acc, err := ParseAccountID(raw)
		if err != nil {
			log.Warn().Err(err).Str("profile", profileURL).Msg("Skipping account")
			continue
		}

		stats := b.ranked.RankedStats(ctx, acc.Name, acc.Platform)
		data.Accounts = append(data.Accounts, Account{
			AccountName: acc.Name,
			OPGG:        acc.OPGG(),
			SoloQ:       stats.SoloQ,
			FlexQ:       stats.FlexQ,
		})

		for champ, rec := range stats.Champions {
			total, ok := champions[champ]
			if !ok {
				total = &riot.ChampionRecord{}
				champions[champ] = total
			}
			total.Games += rec.Games
			total.Wins += rec.Wins
		}
	}

	for champ, rec := range champions {
		data.History = append(data.History, ChampionHistory{
			Champion: champ,
			Played:   rec.Games,
			WinRate:  rec.WinRate(),
			Icon:     b.icons.IconURL(champ),
		})
	}
	sortHistory(data.History)

	return data, nil
}

// sortHistory orders by games played, then win rate, both descending. Name
// breaks remaining ties so output does not depend on map order.
func sortHistory(h []ChampionHistory) {
	sort.Slice(h, func(i, j int) bool {
		if h[i].Played != h[j].Played {
			return h[i].Played > h[j].Played
		}
		if h[i].WinRate != h[j].WinRate {
			return h[i].WinRate > h[j].WinRate
		}
		return h[i].Champion < h[j].Champion
	})
}
