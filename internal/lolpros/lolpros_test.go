package lolpros

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lolstats/ingestion/internal/champions"
	"lolstats/ingestion/internal/riot"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiAccountProfile = `<html><body>
<div class="accounts">
  <div class="account"> Goksi#EUW </div>
  <div class="account">GoksiSmurf#eune</div>
</div>
<a class="--opgg" href="https://www.op.gg/summoners/euw/search?name=Ignored">op.gg</a>
</body></html>`

const singleAccountProfile = `<html><body>
<a class="--opgg" href="https://www.op.gg/multisearch/euw?summoners=OnlyAccount">op.gg</a>
<a class="--opgg" href="https://www.op.gg/multisearch/euw?summoners=Second">op.gg</a>
</body></html>`

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractAccountIDs(t *testing.T) {
	assert.Equal(t, []string{"Goksi#EUW", "GoksiSmurf#eune"}, ExtractAccountIDs(docFrom(t, multiAccountProfile)))
	assert.Equal(t, []string{"OnlyAccount"}, ExtractAccountIDs(docFrom(t, singleAccountProfile)))
	assert.Empty(t, ExtractAccountIDs(docFrom(t, "<html><body>nothing</body></html>")))
}

func TestScraper_AccountIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/player/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(multiAccountProfile))
	}))
	defer server.Close()

	s := NewScraper(5 * time.Second)

	ids, err := s.AccountIDs(context.Background(), server.URL+"/player/goksi")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	_, err = s.AccountIDs(context.Background(), server.URL+"/player/missing")
	assert.Error(t, err)
}

func TestParseAccountID(t *testing.T) {
	tests := []struct {
		raw     string
		want    AccountID
		wantErr bool
	}{
		{raw: "Goksi", want: AccountID{Name: "Goksi", Server: "euw", Platform: "euw1"}},
		{raw: "Goksi#EUW", want: AccountID{Name: "Goksi", Server: "euw", Platform: "euw1"}},
		{raw: "Smurf#eune", want: AccountID{Name: "Smurf", Server: "eune", Platform: "eun1"}},
		{raw: "Faker#KR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAccountID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountID_OPGG(t *testing.T) {
	acc, err := ParseAccountID("Goksi#eune")
	require.NoError(t, err)
	assert.Equal(t, "https://www.op.gg/summoners/eune/Goksi", acc.OPGG())
}

type fakeProfiles struct {
	ids []string
	err error
}

func (f fakeProfiles) AccountIDs(context.Context, string) ([]string, error) {
	return f.ids, f.err
}

type fakeRanked struct {
	stats map[string]riot.RankedStats
	calls []string
}

func (f *fakeRanked) RankedStats(_ context.Context, name, platform string) riot.RankedStats {
	f.calls = append(f.calls, name+"@"+platform)
	return f.stats[name]
}

func testIcons() *champions.Index {
	return champions.NewIndex([]champions.CatalogEntry{
		{ID: 103, Name: "Ahri"},
		{ID: 238, Name: "Zed"},
		{ID: 145, Name: "Kai'Sa"},
	}, "https://cdn.example/icons")
}

func TestBuilder_PlayerData(t *testing.T) {
	ranked := &fakeRanked{stats: map[string]riot.RankedStats{
		"Goksi": {
			SoloQ: "DIAMOND I 50",
			FlexQ: riot.Unranked,
			Champions: map[string]*riot.ChampionRecord{
				"Ahri": {Games: 2, Wins: 1},
				"Zed":  {Games: 3, Wins: 3},
			},
		},
		"GoksiSmurf": {
			SoloQ: "EMERALD II 10",
			FlexQ: riot.Unranked,
			Champions: map[string]*riot.ChampionRecord{
				"Ahri":   {Games: 2, Wins: 2},
				"Kaisa":  {Games: 1, Wins: 0},
				"Ezreal": {Games: 1, Wins: 1},
			},
		},
	}}
	builder := NewBuilder(fakeProfiles{ids: []string{"Goksi#EUW", "Faker#kr"}}, ranked, testIcons())

	data, err := builder.PlayerData(context.Background(), "https://lolpros.gg/player/goksi", []string{"GoksiSmurf#eune"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Goksi@euw1", "GoksiSmurf@eun1"}, ranked.calls, "unknown server skipped, alts appended")
	assert.Equal(t, []Account{
		{AccountName: "Goksi", OPGG: "https://www.op.gg/summoners/euw/Goksi", SoloQ: "DIAMOND I 50", FlexQ: riot.Unranked},
		{AccountName: "GoksiSmurf", OPGG: "https://www.op.gg/summoners/eune/GoksiSmurf", SoloQ: "EMERALD II 10", FlexQ: riot.Unranked},
	}, data.Accounts)

	assert.Equal(t, []ChampionHistory{
		{Champion: "Ahri", Played: 4, WinRate: 75, Icon: "https://cdn.example/icons/103.png"},
		{Champion: "Zed", Played: 3, WinRate: 100, Icon: "https://cdn.example/icons/238.png"},
		{Champion: "Ezreal", Played: 1, WinRate: 100, Icon: "https://cdn.example/icons/-1.png"},
		{Champion: "Kaisa", Played: 1, WinRate: 0, Icon: "https://cdn.example/icons/145.png"},
	}, data.History)
}

func TestBuilder_ProfileError(t *testing.T) {
	builder := NewBuilder(fakeProfiles{err: errors.New("boom")}, &fakeRanked{}, testIcons())

	data, err := builder.PlayerData(context.Background(), "https://lolpros.gg/player/x", nil)
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestBuilder_NoAccounts(t *testing.T) {
	builder := NewBuilder(fakeProfiles{}, &fakeRanked{}, testIcons())

	data, err := builder.PlayerData(context.Background(), "https://lolpros.gg/player/x", nil)
	require.NoError(t, err)
	assert.Empty(t, data.Accounts)
	assert.NotNil(t, data.History)
}
