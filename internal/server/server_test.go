package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/config"
	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/suggest"
	"github.com/atelierhq/folio/internal/telemetry"
)

type stubProvider struct {
	vectors  map[string][]float32
	fallback []float32
	calls    int
}

func (s *stubProvider) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func (s *stubProvider) EmbedImage(_ context.Context, _ []byte) ([]float32, error) {
	return s.fallback, nil
}

func (s *stubProvider) Dimensions() int                  { return 3 }
func (s *stubProvider) ModelName() string                { return "stub" }
func (s *stubProvider) Available(_ context.Context) bool { return true }
func (s *stubProvider) Close() error                     { return nil }

func testServer(t *testing.T) (*Server, *stubProvider) {
	t.Helper()

	provider := &stubProvider{
		vectors: map[string][]float32{
			"beach installation 2020": {1, 0, 0},
		},
		fallback: []float32{0, 0, 1},
	}

	snap := &catalog.Snapshot{
		Works: []*catalog.Work{
			{
				ID:            "sunset-beach",
				Title:         "Sunset Beach Installation",
				Year:          "2020",
				Category:      "installation",
				Medium:        []string{"neon"},
				Featured:      true,
				Tags:          []string{"installation", "light"},
				TextEmbedding: []float32{1, 0, 0},
			},
			{
				ID:            "mountain",
				Title:         "Mountain Sculpture",
				Year:          "2019",
				Category:      "sculpture",
				Tags:          []string{"sculpture"},
				TextEmbedding: []float32{0, 1, 0},
			},
		},
		Images: []*catalog.Image{
			{ID: "img-1", URL: "/images/1.jpg", Embedding: []float32{1, 0, 0}},
		},
	}

	cfg := config.Default()
	cfg.Paths.PublicDir = ""
	cfg.Paths.HistoryFile = filepath.Join(t.TempDir(), "history.json")

	engine := search.NewEngine(cfg.Search, provider, snap)
	history := suggest.LoadHistory(cfg.Paths.HistoryFile)
	suggester := suggest.NewEngine(history, provider, cfg.Suggest.DefaultLimit)
	collector := telemetry.NewCollector(nil, 0)
	t.Cleanup(func() { _ = collector.Close() })

	return New(cfg, engine, suggester, collector, nil), provider
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch_RanksAndRecordsHistory(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/search?q=beach+installation+2020")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "sunset-beach", resp.Results[0].Work.ID)
	assert.Empty(t, resp.Degraded)

	// The committed search lands in the suggestion history.
	entry, ok := s.suggester.History().Lookup("beach installation 2020")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Count)
}

func TestHandleSearch_EmptyQueryReturnsEmptyList(t *testing.T) {
	s, provider := testServer(t)

	rec := doGet(t, s, "/api/search?q=")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Results)
	assert.Zero(t, provider.calls)
	assert.Zero(t, s.suggester.History().Len())
}

func TestHandleSuggestions_DoesNotMutateHistory(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/suggestions?q=beach")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, s.suggester.History().Len())
}

func TestHandleSuggestions_ReturnsPrefixMatches(t *testing.T) {
	s, _ := testServer(t)
	require.NoError(t, s.suggester.AddSearch(context.Background(), "beach walk"))

	rec := doGet(t, s, "/api/suggestions?q=bea&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "beach walk", resp.Suggestions[0].Query)
	assert.Equal(t, 1.0, resp.Suggestions[0].Score)
}

func TestHandleListWorks_Filters(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/works?category=sculpture")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int             `json:"count"`
		Works []*catalog.Work `json:"works"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "mountain", resp.Works[0].ID)

	rec = doGet(t, s, "/api/works?featured=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "sunset-beach", resp.Works[0].ID)

	rec = doGet(t, s, "/api/works?year=2020&medium=NEON")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestHandleGetWork(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/works/mountain")
	require.Equal(t, http.StatusOK, rec.Code)

	var work catalog.Work
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &work))
	assert.Equal(t, "Mountain Sculpture", work.Title)

	rec = doGet(t, s, "/api/works/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleImageSearch(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/search/images?q=beach+installation+2020")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp imageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "img-1", resp.Results[0].Image.ID)
}

func TestHandleMultimodalAndTextSearch(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/search/multimodal?q=beach+installation+2020")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp blendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "sunset-beach", resp.Results[0].Work.ID)

	rec = doGet(t, s, "/api/search/text?q=beach+installation+2020")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Zero(t, resp.Results[0].ImageScore)
}

func TestHandleHealthAndStats(t *testing.T) {
	s, _ := testServer(t)

	rec := doGet(t, s, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 2, health["works"])

	doGet(t, s, "/api/search?q=beach+installation+2020")
	rec = doGet(t, s, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats telemetry.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.GreaterOrEqual(t, stats.TotalQueries, int64(1))
}
