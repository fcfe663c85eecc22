package search

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
)

// Role tags one side of a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a search conversation. History is only fed
// into narrative generation, never into scoring.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Response is the result of one search call.
type Response struct {
	Narrative string         `json:"narrative"`
	Filters   Filters        `json:"filters"`
	Results   []catalog.Tool `json:"results"`
}

// Matcher scores published tools against free-text queries.
type Matcher struct {
	store      store.Store
	maxResults int
}

// NewMatcher creates a matcher backed by the given store.
func NewMatcher(s store.Store, maxResults int) *Matcher {
	if maxResults <= 0 {
		maxResults = 12
	}
	return &Matcher{store: s, maxResults: maxResults}
}

// Search classifies the query, narrows the published catalog through
// the extracted filters and query tokens, scores the survivors, and
// returns the top results with a narrative response. Retrieval errors
// never propagate: the caller gets a fixed apology and empty results.
func (m *Matcher) Search(ctx context.Context, query string, history []Turn) Response {
	intent := ClassifyIntent(query)
	filters := ExtractFilters(query)

	tools, err := m.store.ListTools(ctx, store.ToolListOpts{
		Status: catalog.StatusPublished,
		Limit:  100,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: list tools: %v\n", err)
		return Response{Narrative: errorNarrative, Filters: filters, Results: []catalog.Tool{}}
	}

	categories, err := m.store.ListCategories(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: list categories: %v\n", err)
		return Response{Narrative: errorNarrative, Filters: filters, Results: []catalog.Tool{}}
	}

	candidates := narrowByFilters(tools, filters, categories)

	tokens := QueryTokens(query)
	candidates = narrowByTokens(candidates, tokens)

	if len(candidates) == 0 {
		return Response{Narrative: noResults(query), Filters: filters, Results: []catalog.Tool{}}
	}

	scored := make([]scoredTool, 0, len(candidates))
	for _, t := range candidates {
		scored = append(scored, scoredTool{tool: t, score: Score(t, tokens)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > m.maxResults {
		scored = scored[:m.maxResults]
	}

	results := make([]catalog.Tool, len(scored))
	for i, st := range scored {
		results[i] = st.tool
	}

	return Response{
		Narrative: narrative(intent, len(results), filters, history),
		Filters:   filters,
		Results:   results,
	}
}

type scoredTool struct {
	tool  catalog.Tool
	score float64
}

// QueryTokens splits a query on whitespace, lowercases it, and drops
// tokens of length <= 2.
func QueryTokens(query string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// narrowByFilters applies category, pricing, and feature constraints
// in that order. A category name that resolves to no known category is
// ignored rather than excluding everything.
func narrowByFilters(tools []catalog.Tool, f Filters, categories []catalog.Category) []catalog.Tool {
	if categoryID := resolveCategoryID(f.Category, categories); categoryID != "" {
		tools = keep(tools, func(t catalog.Tool) bool {
			return t.CategoryID == categoryID
		})
	}

	if f.Pricing != "" {
		tools = keep(tools, func(t catalog.Tool) bool {
			return strings.EqualFold(string(t.Pricing), string(f.Pricing))
		})
	}

	if len(f.Features) > 0 {
		tools = keep(tools, func(t catalog.Tool) bool {
			return hasAnyFeature(t, f.Features)
		})
	}

	return tools
}

func resolveCategoryID(name string, categories []catalog.Category) string {
	if name == "" {
		return ""
	}
	for _, c := range categories {
		if c.Slug == name || strings.EqualFold(c.Name, name) {
			return c.ID
		}
	}
	return ""
}

// hasAnyFeature reports whether any requested feature token appears as
// a substring of the tool's description, long description, or tags.
func hasAnyFeature(t catalog.Tool, features []string) bool {
	desc := strings.ToLower(t.Description)
	long := strings.ToLower(t.LongDescription)
	for _, f := range features {
		if strings.Contains(desc, f) || strings.Contains(long, f) || anyTagContains(t.Tags, f) {
			return true
		}
	}
	return false
}

// narrowByTokens keeps tools where any token appears in the name,
// description, long description, or a tag. With no meaningful tokens
// (every token length <= 2) the step is skipped entirely and all
// candidates pass through.
func narrowByTokens(tools []catalog.Tool, tokens []string) []catalog.Tool {
	if len(tokens) == 0 {
		return tools
	}
	return keep(tools, func(t catalog.Tool) bool {
		name := strings.ToLower(t.Name)
		desc := strings.ToLower(t.Description)
		long := strings.ToLower(t.LongDescription)
		for _, tok := range tokens {
			if strings.Contains(name, tok) || strings.Contains(desc, tok) ||
				strings.Contains(long, tok) || anyTagContains(t.Tags, tok) {
				return true
			}
		}
		return false
	})
}

// Score computes the relevance of a tool for the given query tokens:
// per token +10 for a name match, +5 description, +3 long description,
// +4 if any tag contains it; then rating*2, log10(views+1), and a flat
// +5 for featured tools.
func Score(t catalog.Tool, tokens []string) float64 {
	name := strings.ToLower(t.Name)
	desc := strings.ToLower(t.Description)
	long := strings.ToLower(t.LongDescription)

	var score float64
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			score += 10
		}
		if strings.Contains(desc, tok) {
			score += 5
		}
		if strings.Contains(long, tok) {
			score += 3
		}
		if anyTagContains(t.Tags, tok) {
			score += 4
		}
	}

	score += t.Rating * 2
	score += math.Log10(float64(t.Views) + 1)
	if t.Featured {
		score += 5
	}
	return score
}

func anyTagContains(tags []string, token string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), token) {
			return true
		}
	}
	return false
}

func keep(tools []catalog.Tool, pred func(catalog.Tool) bool) []catalog.Tool {
	var out []catalog.Tool
	for _, t := range tools {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
