package riot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2023, 7, 20, 12, 0, 0, 0, time.UTC)

type fakeRiot struct {
	t        *testing.T
	entries  []LeagueEntry
	matchIDs []string
	matches  map[string]Match
	failOn   string
}

func (f *fakeRiot) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(f.t, json.NewEncoder(w).Encode(v))
	}

	mux.HandleFunc("/euw1/lol/summoner/v4/summoners/by-name/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "test-key", r.Header.Get("X-Riot-Token"))
		if f.failOn == "summoner" {
			http.Error(w, `{"status":{"message":"Forbidden"}}`, http.StatusForbidden)
			return
		}
		if r.URL.Path == "/euw1/lol/summoner/v4/summoners/by-name/Ghost" {
			http.NotFound(w, r)
			return
		}
		write(w, Summoner{ID: "enc-id", PUUID: "puuid-1", Name: "Goksi"})
	})
	mux.HandleFunc("/euw1/lol/league/v4/entries/by-summoner/enc-id", func(w http.ResponseWriter, r *http.Request) {
		write(w, f.entries)
	})
	mux.HandleFunc("/europe/lol/match/v5/matches/by-puuid/puuid-1/ids", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, "420", r.URL.Query().Get("queue"))
		assert.Equal(f.t, "100", r.URL.Query().Get("count"))
		write(w, f.matchIDs)
	})
	mux.HandleFunc("/europe/lol/match/v5/matches/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/europe/lol/match/v5/matches/"):]
		if id == f.failOn {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		m, ok := f.matches[id]
		if !ok {
			f.t.Errorf("unexpected match request %s", id)
			http.NotFound(w, r)
			return
		}
		write(w, m)
	})
	return mux
}

func match(id string, ended time.Time, participants ...Participant) Match {
	var m Match
	m.Metadata.MatchID = id
	m.Info.GameEndTimestamp = ended.UnixMilli()
	m.Info.QueueID = 420
	m.Info.Participants = participants
	return m
}

func newTestService(t *testing.T, fake *fakeRiot) *StatsService {
	t.Helper()
	fake.t = t
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:            "test-key",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		HostFormat:        server.URL + "/%s",
	})
	svc := NewStatsService(client, StatsConfig{QueueID: 420, MatchlistCount: 100, RecentWindow: 7 * 24 * time.Hour})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestRegionalRoute(t *testing.T) {
	tests := map[string]string{
		"euw1": "europe",
		"eun1": "europe",
		"na1":  "americas",
		"kr":   "asia",
		"oc1":  "sea",
	}
	for platform, want := range tests {
		got, err := RegionalRoute(platform)
		require.NoError(t, err)
		assert.Equal(t, want, got, platform)
	}

	_, err := RegionalRoute("mars1")
	assert.Error(t, err)
}

func TestRankByQueue(t *testing.T) {
	svc := newTestService(t, &fakeRiot{entries: []LeagueEntry{
		{QueueType: QueueFlex, Tier: "GOLD", Rank: "II", LeaguePoints: 12},
		{QueueType: QueueSolo, Tier: "DIAMOND", Rank: "IV", LeaguePoints: 75},
	}})

	ctx := context.Background()
	assert.Equal(t, "DIAMOND IV 75", svc.RankByQueue(ctx, "euw1", "Goksi", QueueSolo))
	assert.Equal(t, "GOLD II 12", svc.RankByQueue(ctx, "euw1", "Goksi", QueueFlex))
	assert.Equal(t, Unranked, svc.RankByQueue(ctx, "euw1", "Goksi", "CHERRY"))
}

func TestRankByQueue_ErrorsYieldUnranked(t *testing.T) {
	svc := newTestService(t, &fakeRiot{failOn: "summoner"})
	assert.Equal(t, Unranked, svc.RankByQueue(context.Background(), "euw1", "Goksi", QueueSolo))
}

func TestClient_ErrorKinds(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t, &fakeRiot{})
	_, err := svc.client.SummonerByName(ctx, "euw1", "Ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	svc = newTestService(t, &fakeRiot{failOn: "summoner"})
	_, err = svc.client.SummonerByName(ctx, "euw1", "Goksi")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "summoner", apiErr.Endpoint)
}

func TestChampionsPlayed_StopsAtRecentWindow(t *testing.T) {
	me := func(champ string, win bool) Participant {
		return Participant{PUUID: "puuid-1", ChampionName: champ, Win: win}
	}
	other := Participant{PUUID: "someone-else", ChampionName: "Teemo", Win: true}

	fake := &fakeRiot{
		matchIDs: []string{"EUW1_4", "EUW1_3", "EUW1_2", "EUW1_1", "EUW1_0"},
		matches: map[string]Match{
			"EUW1_4": match("EUW1_4", fixedNow.Add(-2*time.Hour), me("Ahri", true), other),
			"EUW1_3": match("EUW1_3", fixedNow.Add(-3*24*time.Hour), me("Ahri", false), other),
			"EUW1_2": match("EUW1_2", fixedNow.Add(-(7*24+20)*time.Hour), me("Zed", true), other),
			// past the window, so EUW1_0 is never requested
			"EUW1_1": match("EUW1_1", fixedNow.Add(-9*24*time.Hour), me("Lux", true)),
		},
	}

	svc := newTestService(t, fake)
	champs := map[string]*ChampionRecord{"Ahri": {Games: 1, Wins: 1}}

	games, err := svc.ChampionsPlayed(context.Background(), "euw1", "Goksi", champs)
	require.NoError(t, err)

	assert.Equal(t, 3, games)
	assert.Equal(t, ChampionRecord{Games: 3, Wins: 2}, *champs["Ahri"], "counts accumulate into the given map")
	assert.Equal(t, ChampionRecord{Games: 1, Wins: 1}, *champs["Zed"])
	assert.NotContains(t, champs, "Lux")
	assert.NotContains(t, champs, "Teemo")
}

func TestChampionsPlayed_MatchFailure(t *testing.T) {
	fake := &fakeRiot{
		matchIDs: []string{"EUW1_2", "EUW1_1"},
		matches: map[string]Match{
			"EUW1_2": match("EUW1_2", fixedNow.Add(-time.Hour), Participant{PUUID: "puuid-1", ChampionName: "Vi", Win: true}),
		},
		failOn: "EUW1_1",
	}
	svc := newTestService(t, fake)

	champs := map[string]*ChampionRecord{}
	games, err := svc.ChampionsPlayed(context.Background(), "euw1", "Goksi", champs)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 1, games)
	assert.Equal(t, 1, champs["Vi"].Games)
}

func TestRankedStats(t *testing.T) {
	fake := &fakeRiot{
		entries:  []LeagueEntry{{QueueType: QueueSolo, Tier: "MASTER", Rank: "I", LeaguePoints: 140}},
		matchIDs: []string{"EUW1_1"},
		matches: map[string]Match{
			"EUW1_1": match("EUW1_1", fixedNow.Add(-time.Hour), Participant{PUUID: "puuid-1", ChampionName: "Kai'Sa", Win: true}),
		},
	}
	svc := newTestService(t, fake)

	stats := svc.RankedStats(context.Background(), "Goksi", "euw1")
	assert.Equal(t, "MASTER I 140", stats.SoloQ)
	assert.Equal(t, Unranked, stats.FlexQ)
	require.Contains(t, stats.Champions, "Kai'Sa")
	assert.Equal(t, 1, stats.Champions["Kai'Sa"].Wins)
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, ChampionRecord{}.WinRate())
	assert.Equal(t, 66.67, ChampionRecord{Games: 3, Wins: 2}.WinRate())
	assert.Equal(t, 100.0, ChampionRecord{Games: 4, Wins: 4}.WinRate())
	assert.Equal(t, 14.29, ChampionRecord{Games: 7, Wins: 1}.WinRate())
}
