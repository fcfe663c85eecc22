package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
	"github.com/toolscout/toolscout/pkg/discover"
	"github.com/toolscout/toolscout/pkg/notify"
	"github.com/toolscout/toolscout/pkg/ranking"
)

// Scheduler runs periodic tool discovery and ranking refresh.
type Scheduler struct {
	store       store.Store
	sources     []discover.Source
	screener    *discover.Screener // optional, nil = disabled
	refresher   *ranking.Refresher
	notifyMgr   *notify.Manager
	discoverInt time.Duration
	refreshInt  time.Duration
}

// New creates a new scheduler.
func New(
	s store.Store,
	sources []discover.Source,
	screener *discover.Screener,
	refresher *ranking.Refresher,
	notifyMgr *notify.Manager,
	discoverInt, refreshInt time.Duration,
) *Scheduler {
	if discoverInt == 0 {
		discoverInt = 6 * time.Hour
	}
	if refreshInt == 0 {
		refreshInt = 30 * time.Minute
	}
	return &Scheduler{
		store:       s,
		sources:     sources,
		screener:    screener,
		refresher:   refresher,
		notifyMgr:   notifyMgr,
		discoverInt: discoverInt,
		refreshInt:  refreshInt,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	discoverTicker := time.NewTicker(s.discoverInt)
	refreshTicker := time.NewTicker(s.refreshInt)
	defer discoverTicker.Stop()
	defer refreshTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial discovery...")
	s.discoverAll(ctx)
	fmt.Fprintln(os.Stderr, "scheduler: initial ranking refresh...")
	s.refreshAndNotify(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (discover every %s, refresh every %s)\n",
		s.discoverInt, s.refreshInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-discoverTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: discovering...")
			s.discoverAll(ctx)
		case <-refreshTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: refreshing rankings...")
			s.refreshAndNotify(ctx)
		}
	}
}

// DiscoverOnce runs a single discovery pass outside the ticker loop.
func (s *Scheduler) DiscoverOnce(ctx context.Context) {
	s.discoverAll(ctx)
}

func (s *Scheduler) discoverAll(ctx context.Context) {
	var candidates []discover.Candidate
	for _, src := range s.sources {
		found, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: %d candidates\n", src.Name(), len(found))
		candidates = append(candidates, found...)
	}

	if len(candidates) == 0 {
		return
	}

	// Drop candidates already in the catalog so published entries are
	// never demoted back to drafts.
	candidates = s.dropKnown(ctx, candidates)

	verdicts := s.screen(ctx, candidates)

	now := time.Now().UTC()
	stored := 0
	for _, c := range candidates {
		tool := c.Tool(now)
		if v, ok := verdicts[tool.ID]; ok {
			if v.Name != "" {
				tool.Name = v.Name
			}
			tool.CategoryID = s.resolveCategory(ctx, v.Category)
		} else if s.screener != nil {
			continue // screened out
		}

		if err := s.store.UpsertTool(ctx, &tool); err != nil {
			fmt.Fprintf(os.Stderr, "  store error for %s: %v\n", tool.ID, err)
			continue
		}
		stored++
	}
	fmt.Fprintf(os.Stderr, "  stored %d draft tools\n", stored)
}

func (s *Scheduler) dropKnown(ctx context.Context, candidates []discover.Candidate) []discover.Candidate {
	now := time.Now().UTC()
	var fresh []discover.Candidate
	for _, c := range candidates {
		if _, err := s.store.GetTool(ctx, c.Tool(now).ID); err == nil {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}

// screen runs the LLM screener when configured and returns verdicts
// keyed by candidate tool ID. Screener failure falls back to keeping
// every candidate.
func (s *Scheduler) screen(ctx context.Context, candidates []discover.Candidate) map[string]discover.ScreenResult {
	if s.screener == nil || len(candidates) == 0 {
		return nil
	}

	results, err := s.screener.Screen(ctx, candidates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  screener error (keeping all candidates): %v\n", err)
		return nil
	}

	verdicts := make(map[string]discover.ScreenResult, len(results))
	for _, r := range results {
		verdicts[r.ID] = r
	}
	fmt.Fprintf(os.Stderr, "  screener: %d/%d candidates kept\n", len(results), len(candidates))
	return verdicts
}

func (s *Scheduler) resolveCategory(ctx context.Context, slug string) string {
	if slug == "" {
		return ""
	}
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return ""
	}
	for _, c := range cats {
		if c.Slug == slug {
			return c.ID
		}
	}
	return ""
}

func (s *Scheduler) refreshAndNotify(ctx context.Context) {
	s.refresher.RefreshAll(ctx)

	if s.notifyMgr == nil || !s.notifyMgr.HasNotifiers() {
		return
	}

	entries, err := s.store.ListRankings(ctx, catalog.RankTrending, 5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  digest error: %v\n", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	digest := &notify.Digest{
		Title:   "Trending AI tools",
		Body:    fmt.Sprintf("Top %d tools by recent interactions", len(entries)),
		Kind:    catalog.RankTrending,
		Entries: entries,
	}

	if err := s.notifyMgr.Broadcast(ctx, digest); err != nil {
		fmt.Fprintf(os.Stderr, "  notify error: %v\n", err)
	}
}
