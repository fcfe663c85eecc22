package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/scheduler"
	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
	"github.com/toolscout/toolscout/pkg/discover"
	"github.com/toolscout/toolscout/pkg/leaderboard"
	"github.com/toolscout/toolscout/pkg/notify"
	"github.com/toolscout/toolscout/pkg/ranking"
	"github.com/toolscout/toolscout/pkg/search"
	"github.com/toolscout/toolscout/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildSources(cfg *config.Config) []discover.Source {
	filter := discover.NewFilter(cfg.Discover.ExtraKeywords, cfg.Discover.ExcludeKeywords)

	var sources []discover.Source
	if cfg.Discover.HackerNews.Enabled {
		sources = append(sources, discover.NewHackerNews(cfg.Discover.HackerNews.Limit, filter))
	}
	if cfg.Discover.GitHub.Enabled {
		sources = append(sources, discover.NewGitHub(cfg.Discover.GitHub.Token))
	}
	if cfg.Discover.RSS.Enabled {
		feeds := make([]discover.RSSFeed, len(cfg.Discover.RSS.Feeds))
		for i, f := range cfg.Discover.RSS.Feeds {
			feeds[i] = discover.RSSFeed{Name: f.Name, URL: f.URL}
		}
		sources = append(sources, discover.NewRSS(feeds, filter))
	}

	return sources
}

func buildScreener(cfg *config.Config) *discover.Screener {
	sc := cfg.Discover.Screener
	if !sc.Enabled || sc.APIKey == "" {
		return nil
	}
	fmt.Fprintf(os.Stderr, "screener: %s/%s (min_score: %.0f)\n", sc.Provider, sc.Model, sc.MinScore)
	return discover.NewScreener(sc.Provider, sc.Model, sc.APIKey, sc.BaseURL, sc.MinScore)
}

func buildNotifyManager(cfg *config.Config) *notify.Manager {
	var notifiers []notify.Notifier

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.Notify.Slack.WebhookURL))
	}
	if cfg.Notify.Discord.Enabled && cfg.Notify.Discord.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscord(cfg.Notify.Discord.WebhookURL))
	}
	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Notify.Webhook.URL, cfg.Notify.Webhook.Secret))
	}

	return notify.NewManager(notifiers)
}

func buildScheduler(cfg *config.Config, db store.Store) *scheduler.Scheduler {
	return scheduler.New(
		db,
		buildSources(cfg),
		buildScreener(cfg),
		ranking.NewRefresher(db),
		buildNotifyManager(cfg),
		cfg.Schedule.ParseDiscoverInterval(),
		cfg.Schedule.ParseRefreshInterval(),
	)
}

func runSearch(args []string, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	query := strings.Join(args, " ")
	matcher := search.NewMatcher(db, cfg.Search.MaxResults)
	resp := matcher.Search(context.Background(), query, nil)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Narrative)
	if len(resp.Results) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICING\tRATING\tVIEWS\tTAGS")
	for _, t := range resp.Results {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\n",
			t.Name, t.Pricing, t.Rating, t.Views, strings.Join(t.Tags, ","))
	}
	return w.Flush()
}

func runLeaderboard(jsonOutput bool, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	collections, err := db.ListCollections(context.Background(), store.CollectionListOpts{
		PublicOnly: true,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	ranked := leaderboard.Rank(collections, time.Now().UTC())

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	if len(ranked) == 0 {
		fmt.Println("no public collections found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tNAME\tOWNER\tVIEWS\tTOOLS")
	for _, c := range ranked {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%d\n",
			c.Rank, c.Score, c.Name, c.Owner, c.Views, c.ToolCount)
	}
	return w.Flush()
}

func runRankings(kind string, jsonOutput bool, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	entries, err := db.ListRankings(context.Background(), catalog.RankKind(kind), limit)
	if err != nil {
		return fmt.Errorf("list rankings: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("no %s ranking found (try: toolscout refresh)\n", kind)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tSCORE\tTOOL\tCOMPUTED")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%.0f\t%s\t%s\n",
			e.Position, e.Score, e.ToolName, e.ComputedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runRefresh() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ranking.NewRefresher(db).RefreshAll(context.Background())
	return nil
}

func runDiscover() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	buildScheduler(cfg, db).DiscoverOnce(context.Background())
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	matcher := search.NewMatcher(db, cfg.Search.MaxResults)
	srv := server.New(db, matcher, ranking.NewTracker(db), ranking.NewRefresher(db), port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := buildScheduler(cfg, db)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	matcher := search.NewMatcher(db, cfg.Search.MaxResults)
	srv := server.New(db, matcher, ranking.NewTracker(db), ranking.NewRefresher(db), port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
