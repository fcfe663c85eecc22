package ranking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTool(t *testing.T, s *store.SQLiteStore, id string, views int) {
	t.Helper()
	tool := catalog.Tool{
		ID:        id,
		Name:      "Tool " + id,
		Views:     views,
		Pricing:   catalog.PricingFree,
		Status:    catalog.StatusPublished,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.UpsertTool(context.Background(), &tool); err != nil {
		t.Fatalf("seed tool %s: %v", id, err)
	}
}

func TestRefreshAllPopulatesEveryKind(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedTool(t, s, "t1", 500)
	seedTool(t, s, "t2", 100)

	tracker := NewTracker(s)
	tracker.RecordView(ctx, "t1")
	tracker.RecordClick(ctx, "t1")
	tracker.RecordFavorite(ctx, "t2")

	NewRefresher(s).RefreshAll(ctx)

	for _, kind := range catalog.AllRankKinds() {
		entries, err := s.ListRankings(ctx, kind, 50)
		if err != nil {
			t.Fatalf("list %s rankings: %v", kind, err)
		}
		if len(entries) == 0 {
			t.Errorf("%s ranking is empty after refresh", kind)
		}
		for i, e := range entries {
			if e.Position != i+1 {
				t.Errorf("%s position[%d] = %d, want %d", kind, i, e.Position, i+1)
			}
		}
	}
}

func TestRefreshAllPopularOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedTool(t, s, "low", 10)
	seedTool(t, s, "high", 9000)

	NewRefresher(s).RefreshAll(ctx)

	entries, err := s.ListRankings(ctx, catalog.RankPopular, 50)
	if err != nil {
		t.Fatalf("list rankings: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ToolID != "high" || entries[1].ToolID != "low" {
		t.Errorf("order = [%s %s], want [high low]", entries[0].ToolID, entries[1].ToolID)
	}
	if entries[0].Score != 9000 {
		t.Errorf("top score = %v, want 9000", entries[0].Score)
	}
}

// Weighted interactions: a favorite (5) plus a click (3) beats several
// plain views in the trending table.
func TestRefreshAllTrendingWeights(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedTool(t, s, "viewed", 0)
	seedTool(t, s, "loved", 0)

	tracker := NewTracker(s)
	for i := 0; i < 4; i++ {
		tracker.RecordView(ctx, "viewed")
	}
	tracker.RecordFavorite(ctx, "loved")
	tracker.RecordClick(ctx, "loved")

	NewRefresher(s).RefreshAll(ctx)

	entries, err := s.ListRankings(ctx, catalog.RankTrending, 50)
	if err != nil {
		t.Fatalf("list rankings: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ToolID != "loved" {
		t.Errorf("top trending = %s, want loved", entries[0].ToolID)
	}
	if entries[0].Score != 8 {
		t.Errorf("top trending score = %v, want 8", entries[0].Score)
	}
}

// Draft tools never appear in any ranking table.
func TestRefreshAllSkipsDrafts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	draft := catalog.Tool{
		ID:        "d1",
		Name:      "Unreviewed",
		Views:     100000,
		Status:    catalog.StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.UpsertTool(ctx, &draft); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	NewRefresher(s).RefreshAll(ctx)

	entries, err := s.ListRankings(ctx, catalog.RankPopular, 50)
	if err != nil {
		t.Fatalf("list rankings: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

// Tracking failures are swallowed: a bad kind or missing tool must not
// panic or surface an error to the caller.
func TestTrackerSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tracker := NewTracker(s)

	tracker.RecordView(ctx, "no-such-tool")
	tracker.RecordClick(ctx, "")
}

func TestTrackerBumpsCounters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedTool(t, s, "t1", 0)

	tracker := NewTracker(s)
	tracker.RecordView(ctx, "t1")
	tracker.RecordView(ctx, "t1")
	tracker.RecordClick(ctx, "t1")
	tracker.RecordFavorite(ctx, "t1")

	tool, err := s.GetTool(ctx, "t1")
	if err != nil {
		t.Fatalf("get tool: %v", err)
	}
	if tool.Views != 2 || tool.Clicks != 1 || tool.Favorites != 1 {
		t.Errorf("counters = views=%d clicks=%d favorites=%d, want 2/1/1",
			tool.Views, tool.Clicks, tool.Favorites)
	}
}
