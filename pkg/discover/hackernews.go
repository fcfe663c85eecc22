package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const hnBaseURL = "https://hacker-news.firebaseio.com/v0"

// HackerNews collects tool candidates from Show HN launches.
type HackerNews struct {
	client *http.Client
	limit  int
	filter *Filter
}

// NewHackerNews creates a new HN collector.
func NewHackerNews(limit int, filter *Filter) *HackerNews {
	if limit <= 0 {
		limit = 100
	}
	return &HackerNews{
		client: &http.Client{Timeout: 30 * time.Second},
		limit:  limit,
		filter: filter,
	}
}

func (h *HackerNews) Name() SourceType { return SourceHackerNews }

func (h *HackerNews) Collect(ctx context.Context) ([]Candidate, error) {
	ids, err := h.fetchShowStories(ctx)
	if err != nil {
		return nil, err
	}

	if len(ids) > h.limit {
		ids = ids[:h.limit]
	}

	var (
		mu         sync.Mutex
		candidates []Candidate
		wg         sync.WaitGroup
		sem        = make(chan struct{}, 10) // concurrency limit
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			story, err := h.fetchItem(ctx, id)
			if err != nil || story == nil {
				return
			}

			text := story.Title + " " + story.URL
			if h.filter != nil && !h.filter.Matches(text) {
				return
			}

			url := story.URL
			if url == "" {
				url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
			}

			candidate := Candidate{
				Source:      SourceHackerNews,
				ExternalID:  fmt.Sprintf("%d", story.ID),
				Name:        stripShowHN(story.Title),
				URL:         url,
				Score:       story.Score,
				PublishedAt: time.Unix(story.Time, 0).UTC(),
			}

			mu.Lock()
			candidates = append(candidates, candidate)
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return candidates, nil
}

// stripShowHN removes the "Show HN:" prefix from a launch title.
func stripShowHN(title string) string {
	const prefix = "show hn:"
	if len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
		return strings.TrimSpace(title[len(prefix):])
	}
	return title
}

type hnStory struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Type        string `json:"type"`
}

func (h *HackerNews) fetchShowStories(ctx context.Context) ([]int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hnBaseURL+"/showstories.json", nil)
	if err != nil {
		return nil, fmt.Errorf("create hn request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch hn show stories: %w", err)
	}
	defer resp.Body.Close()

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode hn show stories: %w", err)
	}
	return ids, nil
}

func (h *HackerNews) fetchItem(ctx context.Context, id int) (*hnStory, error) {
	url := fmt.Sprintf("%s/item/%d.json", hnBaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create hn item request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch hn item %d: %w", id, err)
	}
	defer resp.Body.Close()

	var story hnStory
	if err := json.NewDecoder(resp.Body).Decode(&story); err != nil {
		return nil, fmt.Errorf("decode hn item %d: %w", id, err)
	}

	if story.Type != "story" {
		return nil, nil
	}
	return &story, nil
}
