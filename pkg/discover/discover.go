package discover

import (
	"context"
	"fmt"
	"time"

	"github.com/toolscout/toolscout/pkg/catalog"
)

// SourceType identifies where a tool candidate was sighted.
type SourceType string

const (
	SourceRSS        SourceType = "rss"
	SourceHackerNews SourceType = "hackernews"
	SourceGitHub     SourceType = "github"
)

// Candidate is a potential catalog entry pulled from an external source.
type Candidate struct {
	Source      SourceType `json:"source"`
	ExternalID  string     `json:"external_id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Score       int        `json:"score"` // native source score (HN points, GitHub stars)
	PublishedAt time.Time  `json:"published_at"`
}

// Source is the interface every collector must implement.
type Source interface {
	Name() SourceType
	Collect(ctx context.Context) ([]Candidate, error)
}

// Tool converts a candidate into a draft catalog record. Pricing is
// unknown at intake; editors set the tier when publishing.
func (c Candidate) Tool(now time.Time) catalog.Tool {
	return catalog.Tool{
		ID:          fmt.Sprintf("%s:%s", c.Source, c.ExternalID),
		Name:        c.Name,
		Description: truncate(c.Description, 500),
		Pricing:     catalog.PricingFree,
		Tags:        c.Tags,
		Status:      catalog.StatusDraft,
		SourceURL:   c.URL,
		CreatedAt:   now,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
