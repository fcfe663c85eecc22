package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
	"github.com/toolscout/toolscout/pkg/ranking"
	"github.com/toolscout/toolscout/pkg/search"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := New(st, search.NewMatcher(st, 0), ranking.NewTracker(st), ranking.NewRefresher(st), 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func seedCatalog(t *testing.T, st *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	tools := []catalog.Tool{
		{ID: "t1", Name: "PixelFree", Description: "AI image editing", Pricing: catalog.PricingFree,
			Rating: 4.5, Views: 1000, Status: catalog.StatusPublished, CreatedAt: time.Now().UTC()},
		{ID: "t2", Name: "TextGen", Description: "Writing assistant", Pricing: catalog.PricingPaid,
			Rating: 3.5, Views: 200, Status: catalog.StatusPublished, CreatedAt: time.Now().UTC()},
		{ID: "t3", Name: "Hidden", Description: "Draft entry", Status: catalog.StatusDraft,
			CreatedAt: time.Now().UTC()},
	}
	if err := st.UpsertTools(ctx, tools); err != nil {
		t.Fatalf("seed tools: %v", err)
	}

	col := catalog.Collection{ID: "c1", Name: "Starter Pack", Views: 50, ToolCount: 4,
		IsPublic: true, OwnerEmail: "dana@example.com", CreatedAt: time.Now().UTC()}
	if err := st.UpsertCollection(ctx, &col); err != nil {
		t.Fatalf("seed collection: %v", err)
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Count int             `json:"count"`
}

func getEnvelope(t *testing.T, url string) envelope {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", url, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seedCatalog(t, st)

	env := getEnvelope(t, ts.URL+"/api/v1/search?q=image+editing")
	var data search.Response
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Count != 1 || len(data.Results) != 1 || data.Results[0].ID != "t1" {
		t.Errorf("count=%d results=%+v, want just t1", env.Count, data.Results)
	}
	if data.Narrative == "" {
		t.Error("empty narrative")
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/search")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestToolsEndpointDefaultsToPublished(t *testing.T) {
	ts, st := newTestServer(t)
	seedCatalog(t, st)

	env := getEnvelope(t, ts.URL+"/api/v1/tools")
	if env.Count != 2 {
		t.Errorf("count = %d, want 2 published tools", env.Count)
	}

	env = getEnvelope(t, ts.URL+"/api/v1/tools?status=Draft")
	if env.Count != 1 {
		t.Errorf("draft count = %d, want 1", env.Count)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seedCatalog(t, st)

	env := getEnvelope(t, ts.URL+"/api/v1/leaderboard")
	if env.Count != 1 {
		t.Fatalf("count = %d, want 1", env.Count)
	}

	var ranked []struct {
		ID    string `json:"id"`
		Owner string `json:"owner"`
		Rank  int    `json:"rank"`
		Score int    `json:"score"`
	}
	if err := json.Unmarshal(env.Data, &ranked); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ranked[0].Rank != 1 || ranked[0].Owner != "dana" {
		t.Errorf("entry = %+v, want rank 1 owned by dana", ranked[0])
	}
}

func TestRefreshAndRankingsEndpoints(t *testing.T) {
	ts, st := newTestServer(t)
	seedCatalog(t, st)

	resp, err := http.Post(ts.URL+"/api/v1/rankings/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("refresh status = %d, want 202", resp.StatusCode)
	}

	env := getEnvelope(t, ts.URL+"/api/v1/rankings?kind=popular")
	if env.Count != 2 {
		t.Errorf("popular count = %d, want 2", env.Count)
	}

	var entries []catalog.RankingEntry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entries[0].ToolID != "t1" {
		t.Errorf("top popular = %s, want t1", entries[0].ToolID)
	}
}

func TestTrackEndpoint(t *testing.T) {
	ts, st := newTestServer(t)
	seedCatalog(t, st)

	body, _ := json.Marshal(map[string]string{"tool_id": "t1", "kind": "view"})
	resp, err := http.Post(ts.URL+"/api/v1/track", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST track: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	tool, err := st.GetTool(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get tool: %v", err)
	}
	if tool.Views != 1001 {
		t.Errorf("views = %d, want 1001", tool.Views)
	}
}

func TestTrackEndpointRejectsBadKind(t *testing.T) {
	ts, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"tool_id": "t1", "kind": "share"})
	resp, err := http.Post(ts.URL+"/api/v1/track", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST track: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/api/v1/search", "/api/v1/tools", "/api/v1/leaderboard", "/api/v1/rankings"} {
		resp, err := http.Post(ts.URL+path, "application/json", nil)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/v1/track")
	if err != nil {
		t.Fatalf("GET track: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/track status = %d, want 405", resp.StatusCode)
	}
}
