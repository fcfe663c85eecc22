package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/toolscout/toolscout/pkg/catalog"
)

// ToolListOpts controls tool listing.
type ToolListOpts struct {
	Status     catalog.Status
	CategoryID string
	Limit      int
}

// CollectionListOpts controls collection listing.
type CollectionListOpts struct {
	PublicOnly bool
	Limit      int
}

// Store is the persistence interface.
type Store interface {
	UpsertTool(ctx context.Context, tool *catalog.Tool) error
	UpsertTools(ctx context.Context, tools []catalog.Tool) error
	GetTool(ctx context.Context, id string) (*catalog.Tool, error)
	ListTools(ctx context.Context, opts ToolListOpts) ([]catalog.Tool, error)

	UpsertCategory(ctx context.Context, cat *catalog.Category) error
	ListCategories(ctx context.Context) ([]catalog.Category, error)

	UpsertCollection(ctx context.Context, col *catalog.Collection) error
	ListCollections(ctx context.Context, opts CollectionListOpts) ([]catalog.Collection, error)

	RecordInteraction(ctx context.Context, toolID string, kind catalog.InteractionKind) error
	RefreshRanking(ctx context.Context, kind catalog.RankKind) error
	ListRankings(ctx context.Context, kind catalog.RankKind, limit int) ([]catalog.RankingEntry, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertTool(ctx context.Context, tool *catalog.Tool) error {
	tagsJSON, _ := json.Marshal(tool.Tags)
	featuresJSON, _ := json.Marshal(tool.Features)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tools (id, name, description, long_description, category_id, pricing, rating, views, clicks, favorites, featured, tags, features, status, source_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			long_description = excluded.long_description,
			category_id = excluded.category_id,
			pricing = excluded.pricing,
			rating = excluded.rating,
			featured = excluded.featured,
			tags = excluded.tags,
			features = excluded.features,
			status = excluded.status,
			source_url = excluded.source_url
	`, tool.ID, tool.Name, tool.Description, tool.LongDescription, tool.CategoryID,
		tool.Pricing, tool.Rating, tool.Views, tool.Clicks, tool.Favorites, tool.Featured,
		string(tagsJSON), string(featuresJSON), tool.Status, tool.SourceURL, tool.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert tool %s: %w", tool.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertTools(ctx context.Context, tools []catalog.Tool) error {
	for i := range tools {
		if err := s.UpsertTool(ctx, &tools[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetTool(ctx context.Context, id string) (*catalog.Tool, error) {
	var tool catalog.Tool
	err := s.db.GetContext(ctx, &tool, "SELECT * FROM tools WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get tool %s: %w", id, err)
	}
	json.Unmarshal([]byte(tool.TagsJSON), &tool.Tags)
	json.Unmarshal([]byte(tool.FeaturesJSON), &tool.Features)
	return &tool, nil
}

func (s *SQLiteStore) ListTools(ctx context.Context, opts ToolListOpts) ([]catalog.Tool, error) {
	query := "SELECT * FROM tools WHERE 1=1"
	var args []any

	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, opts.CategoryID)
	}

	query += " ORDER BY created_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var tools []catalog.Tool
	if err := s.db.SelectContext(ctx, &tools, query, args...); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	for i := range tools {
		json.Unmarshal([]byte(tools[i].TagsJSON), &tools[i].Tags)
		json.Unmarshal([]byte(tools[i].FeaturesJSON), &tools[i].Features)
	}
	return tools, nil
}

func (s *SQLiteStore) UpsertCategory(ctx context.Context, cat *catalog.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug
	`, cat.ID, cat.Name, cat.Slug)
	if err != nil {
		return fmt.Errorf("upsert category %s: %w", cat.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var cats []catalog.Category
	if err := s.db.SelectContext(ctx, &cats, "SELECT * FROM categories ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *SQLiteStore) UpsertCollection(ctx context.Context, col *catalog.Collection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, description, views, tool_count, is_public, owner_name, owner_email, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			views = excluded.views,
			tool_count = excluded.tool_count,
			is_public = excluded.is_public,
			owner_name = excluded.owner_name,
			owner_email = excluded.owner_email
	`, col.ID, col.Name, col.Description, col.Views, col.ToolCount, col.IsPublic,
		col.OwnerName, col.OwnerEmail, col.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert collection %s: %w", col.ID, err)
	}
	return nil
}

func (s *SQLiteStore) ListCollections(ctx context.Context, opts CollectionListOpts) ([]catalog.Collection, error) {
	query := "SELECT * FROM collections WHERE 1=1"
	var args []any

	if opts.PublicOnly {
		query += " AND is_public = 1"
	}

	query += " ORDER BY views DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var cols []catalog.Collection
	if err := s.db.SelectContext(ctx, &cols, query, args...); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// counterColumns maps interaction kinds to the tool counter they bump.
var counterColumns = map[catalog.InteractionKind]string{
	catalog.InteractionView:     "views",
	catalog.InteractionClick:    "clicks",
	catalog.InteractionFavorite: "favorites",
}

func (s *SQLiteStore) RecordInteraction(ctx context.Context, toolID string, kind catalog.InteractionKind) error {
	col, ok := counterColumns[kind]
	if !ok {
		return fmt.Errorf("unknown interaction kind %q", kind)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin interaction tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO interactions (tool_id, kind, occurred_at) VALUES (?, ?, ?)",
		toolID, kind, time.Now().UTC()); err != nil {
		return fmt.Errorf("record %s for %s: %w", kind, toolID, err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE tools SET %s = %s + 1 WHERE id = ?", col, col),
		toolID); err != nil {
		return fmt.Errorf("bump %s for %s: %w", col, toolID, err)
	}

	return tx.Commit()
}

// trendWeight is the weighted-interaction expression used by the
// trending and rising rankings (view=1, click=3, favorite=5).
const trendWeight = "SUM(CASE i.kind WHEN 'view' THEN 1 WHEN 'click' THEN 3 WHEN 'favorite' THEN 5 ELSE 0 END)"

// rankingQuery returns the INSERT..SELECT that rebuilds one ranking table.
func rankingQuery(kind catalog.RankKind, now time.Time) (string, []any, error) {
	const insert = "INSERT INTO rankings (kind, tool_id, position, score, computed_at)\n"

	switch kind {
	case catalog.RankPopular:
		return insert + `
			SELECT ?, id, ROW_NUMBER() OVER (ORDER BY views DESC, id), CAST(views AS REAL), ?
			FROM tools
			WHERE status = 'Published'
			ORDER BY views DESC, id
			LIMIT 50
		`, []any{kind, now}, nil

	case catalog.RankWeekly, catalog.RankMonthly:
		window := now.AddDate(0, 0, -7)
		if kind == catalog.RankMonthly {
			window = now.AddDate(0, 0, -30)
		}
		return insert + `
			SELECT ?, t.id, ROW_NUMBER() OVER (ORDER BY COUNT(i.id) DESC, t.id), CAST(COUNT(i.id) AS REAL), ?
			FROM tools t
			JOIN interactions i ON i.tool_id = t.id AND i.occurred_at >= ?
			WHERE t.status = 'Published'
			GROUP BY t.id
			ORDER BY COUNT(i.id) DESC, t.id
			LIMIT 50
		`, []any{kind, now, window}, nil

	case catalog.RankTrending:
		window := now.Add(-48 * time.Hour)
		return insert + `
			SELECT ?, t.id, ROW_NUMBER() OVER (ORDER BY ` + trendWeight + ` DESC, t.id), CAST(` + trendWeight + ` AS REAL), ?
			FROM tools t
			JOIN interactions i ON i.tool_id = t.id AND i.occurred_at >= ?
			WHERE t.status = 'Published'
			GROUP BY t.id
			ORDER BY ` + trendWeight + ` DESC, t.id
			LIMIT 50
		`, []any{kind, now, window}, nil

	case catalog.RankRising:
		window := now.AddDate(0, 0, -30)
		return insert + `
			SELECT ?, t.id, ROW_NUMBER() OVER (ORDER BY ` + trendWeight + ` DESC, t.id), CAST(` + trendWeight + ` AS REAL), ?
			FROM tools t
			JOIN interactions i ON i.tool_id = t.id AND i.occurred_at >= ?
			WHERE t.status = 'Published' AND t.created_at >= ?
			GROUP BY t.id
			ORDER BY ` + trendWeight + ` DESC, t.id
			LIMIT 50
		`, []any{kind, now, window, window}, nil
	}

	return "", nil, fmt.Errorf("unknown ranking kind %q", kind)
}

func (s *SQLiteStore) RefreshRanking(ctx context.Context, kind catalog.RankKind) error {
	now := time.Now().UTC()
	query, args, err := rankingQuery(kind, now)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ranking tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rankings WHERE kind = ?", kind); err != nil {
		return fmt.Errorf("clear %s ranking: %w", kind, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("rebuild %s ranking: %w", kind, err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListRankings(ctx context.Context, kind catalog.RankKind, limit int) ([]catalog.RankingEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []catalog.RankingEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT r.kind, r.tool_id, t.name AS tool_name, r.position, r.score, r.computed_at
		FROM rankings r
		JOIN tools t ON t.id = r.tool_id
		WHERE r.kind = ?
		ORDER BY r.position
		LIMIT ?
	`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s rankings: %w", kind, err)
	}
	return entries, nil
}
