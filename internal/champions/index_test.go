package champions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iconBase = "https://cdn.example/champion-icons"

func testCatalog() []CatalogEntry {
	return []CatalogEntry{
		{ID: 103, Name: "Ahri"},
		{ID: 64, Name: "Lee Sin"},
		{ID: 145, Name: "Kai'Sa"},
		{ID: 238, Name: "Zed"},
		{ID: 157, Name: "Yasuo"},
	}
}

func TestNewIndex_Variants(t *testing.T) {
	idx := NewIndex(testCatalog(), iconBase)

	tests := []struct {
		name   string
		wantID int
		wantOK bool
	}{
		{"Ahri", 103, true},
		{"ahri", 103, true},
		{"Lee Sin", 64, true},
		{"leesin", 64, true},
		{"LeeSin", 64, true},
		{"Kai'Sa", 145, true},
		{"kaisa", 145, true},
		{"Teemo", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := idx.ID(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}

	// 5 names + "leesin" + "kaisa"
	assert.Equal(t, 7, idx.Len())
}

func TestNewIndex_CollisionsFollowCatalogOrder(t *testing.T) {
	entries := []CatalogEntry{
		{ID: 145, Name: "Kai'Sa"},
		{ID: 999, Name: "KaiSa"},
		{ID: 20, Name: "Nunu"},
		{ID: 21, Name: "NUNU"},
		{ID: 64, Name: "Lee Sin"},
		{ID: 65, Name: "LeeSin"},
	}

	for i := 0; i < 50; i++ {
		idx := NewIndex(entries, iconBase)

		id, _ := idx.ID("kaisa")
		assert.Equal(t, 145, id, "stripped variant overrides the literal name")
		id, _ = idx.ID("nunu")
		assert.Equal(t, 21, id, "later catalog entry wins after lower-casing")
		id, _ = idx.ID("leesin")
		assert.Equal(t, 64, id)
		id, _ = idx.ID("lee sin")
		assert.Equal(t, 64, id)
	}
}

func TestIndex_IconURL(t *testing.T) {
	idx := NewIndex(testCatalog(), iconBase+"/")

	assert.Equal(t, iconBase+"/103.png", idx.IconURL("Ahri"))
	assert.Equal(t, iconBase+"/64.png", idx.IconURL("lee sin"))
	assert.Equal(t, iconBase+"/-1.png", idx.IconURL("Not A Champion"))
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func TestLoader_Load(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":-1,"name":"None"},{"id":103,"name":"Ahri"},{"id":64,"name":"Lee Sin"}]`))
	}))
	defer server.Close()

	cache := &memCache{data: map[string][]byte{}}
	loader := NewLoader(server.URL, iconBase, 5*time.Second, cache, time.Hour)

	idx, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, iconBase+"/64.png", idx.IconURL("LeeSin"))

	// Second load is served from the cache
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestLoader_LoadErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewLoader(server.URL, iconBase, time.Second, nil, 0).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		}))
		defer server.Close()

		_, err := NewLoader(server.URL, iconBase, time.Second, nil, 0).Load(context.Background())
		assert.Error(t, err)
	})
}
