package search

import (
	"strings"

	"github.com/toolscout/toolscout/pkg/catalog"
)

// Filters are the constraints extracted from a free-text query.
type Filters struct {
	Category string          `json:"category,omitempty"`
	Pricing  catalog.Pricing `json:"pricing,omitempty"`
	Features []string        `json:"features,omitempty"`
}

// pricingKeywords are checked in order; the first substring match wins.
// "free" is checked before "freemium", so a freemium query resolves to
// the Free tier. That precedence is deliberate and load-bearing.
var pricingKeywords = []struct {
	keyword string
	tier    catalog.Pricing
}{
	{"free", catalog.PricingFree},
	{"paid", catalog.PricingPaid},
	{"freemium", catalog.PricingFreemium},
}

// CategoryVocabulary is the fixed set of category names recognised in
// queries, checked in order with first-match-wins.
var CategoryVocabulary = []string{
	"image", "video", "audio", "text", "code", "chatbot",
	"writing", "design", "marketing", "productivity", "research", "data",
}

// featureVocabulary is the fixed set of feature keywords; unlike the
// category check, every match is collected.
var featureVocabulary = []string{"api", "automation", "analytics", "collaboration", "integration"}

// ExtractFilters derives category, pricing, and feature constraints
// from a query. Each dimension is extracted independently of intent.
func ExtractFilters(query string) Filters {
	lower := strings.ToLower(query)
	var f Filters

	for _, p := range pricingKeywords {
		if strings.Contains(lower, p.keyword) {
			f.Pricing = p.tier
			break
		}
	}

	for _, name := range CategoryVocabulary {
		if strings.Contains(lower, name) {
			f.Category = name
			break
		}
	}

	for _, feat := range featureVocabulary {
		if strings.Contains(lower, feat) {
			f.Features = append(f.Features, feat)
		}
	}

	return f
}

// describe renders the extracted filters as a narrative fragment,
// e.g. " in the image category" or " with a Free tier".
func (f Filters) describe() string {
	var parts []string
	if f.Category != "" {
		parts = append(parts, "in the "+f.Category+" category")
	}
	if f.Pricing != "" {
		parts = append(parts, "with a "+string(f.Pricing)+" tier")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " and ")
}
