package catalog

import (
	"strings"
	"time"
)

// Pricing identifies a tool's pricing tier.
type Pricing string

const (
	PricingFree     Pricing = "Free"
	PricingPaid     Pricing = "Paid"
	PricingFreemium Pricing = "Freemium"
	PricingTrial    Pricing = "Trial"
)

// Status is a tool's publication status.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusPublished Status = "Published"
	StatusArchived  Status = "Archived"
)

// Tool is a directory entry for a single AI tool.
type Tool struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	LongDescription string    `json:"long_description,omitempty" db:"long_description"`
	CategoryID      string    `json:"category_id" db:"category_id"`
	Pricing         Pricing   `json:"pricing" db:"pricing"`
	Rating          float64   `json:"rating" db:"rating"`
	Views           int       `json:"views" db:"views"`
	Clicks          int       `json:"clicks" db:"clicks"`
	Favorites       int       `json:"favorites" db:"favorites"`
	Featured        bool      `json:"featured" db:"featured"`
	Tags            []string  `json:"tags" db:"-"`
	Features        []string  `json:"features" db:"-"`
	Status          Status    `json:"status" db:"status"`
	SourceURL       string    `json:"source_url,omitempty" db:"source_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	TagsJSON        string    `json:"-" db:"tags"`
	FeaturesJSON    string    `json:"-" db:"features"`
}

// Category is an entry in the category vocabulary.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Collection is a user-curated set of tools.
type Collection struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Views       int       `json:"views" db:"views"`
	ToolCount   int       `json:"tool_count" db:"tool_count"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	OwnerName   string    `json:"owner_name,omitempty" db:"owner_name"`
	OwnerEmail  string    `json:"-" db:"owner_email"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DisplayName resolves the owner's display name. Precedence: full name,
// then the local part of the email address, then "Anonymous".
func (c Collection) DisplayName() string {
	if c.OwnerName != "" {
		return c.OwnerName
	}
	if at := strings.Index(c.OwnerEmail, "@"); at > 0 {
		return c.OwnerEmail[:at]
	}
	return "Anonymous"
}

// InteractionKind identifies a tracked user interaction.
type InteractionKind string

const (
	InteractionView     InteractionKind = "view"
	InteractionClick    InteractionKind = "click"
	InteractionFavorite InteractionKind = "favorite"
)

// RankKind identifies one of the aggregate ranking tables.
type RankKind string

const (
	RankPopular  RankKind = "popular"
	RankWeekly   RankKind = "weekly"
	RankMonthly  RankKind = "monthly"
	RankTrending RankKind = "trending"
	RankRising   RankKind = "rising"
)

// AllRankKinds returns every ranking table kind.
func AllRankKinds() []RankKind {
	return []RankKind{RankPopular, RankWeekly, RankMonthly, RankTrending, RankRising}
}

// RankingEntry is one row of a computed ranking table.
type RankingEntry struct {
	Kind       RankKind  `json:"kind" db:"kind"`
	ToolID     string    `json:"tool_id" db:"tool_id"`
	ToolName   string    `json:"tool_name" db:"tool_name"`
	Position   int       `json:"position" db:"position"`
	Score      float64   `json:"score" db:"score"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
}
