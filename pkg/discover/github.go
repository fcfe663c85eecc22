package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GitHub collects tool candidates from recently created AI repositories.
type GitHub struct {
	client *http.Client
	token  string
}

// NewGitHub creates a new GitHub collector.
func NewGitHub(token string) *GitHub {
	return &GitHub{
		client: &http.Client{Timeout: 30 * time.Second},
		token:  token,
	}
}

func (g *GitHub) Name() SourceType { return SourceGitHub }

func (g *GitHub) Collect(ctx context.Context) ([]Candidate, error) {
	// AI repos created in the last 7 days, sorted by stars.
	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	query := fmt.Sprintf("created:>%s (topic:ai OR topic:llm OR topic:ai-tools OR topic:chatgpt OR topic:generative-ai OR topic:ai-agent)", since)

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", "50")

	reqURL := "https://api.github.com/search/repositories?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create github request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github repos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API status %d", resp.StatusCode)
	}

	var result ghSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}

	var candidates []Candidate
	for _, repo := range result.Items {
		tags := repo.Topics
		if repo.Language != "" {
			tags = append(tags, repo.Language)
		}

		candidates = append(candidates, Candidate{
			Source:      SourceGitHub,
			ExternalID:  repo.FullName,
			Name:        repo.FullName,
			URL:         repo.HTMLURL,
			Description: repo.Description,
			Tags:        tags,
			Score:       repo.Stars,
			PublishedAt: repo.CreatedAt,
		})
	}

	return candidates, nil
}

type ghSearchResult struct {
	TotalCount int      `json:"total_count"`
	Items      []ghRepo `json:"items"`
}

type ghRepo struct {
	FullName    string    `json:"full_name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Stars       int       `json:"stargazers_count"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
}
