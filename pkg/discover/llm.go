package discover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const screenPrompt = `You are curating an AI tools directory. You will receive a batch of candidate entries sighted on launch feeds, Show HN, and GitHub. Decide which ones are actual AI tools or products that belong in a consumer-facing directory.

For each candidate, assign:
1. "score" (0-10): Is this a real, usable AI tool worth listing?
   - 9-10: Polished product with a clear use case
   - 7-8: Working tool, niche but listable
   - 5-6: Early prototype or library, marginal
   - 3-4: Research code, demo, or infrastructure, not a tool
   - 0-2: Not an AI tool at all, or spam
2. "category" (one word): the best fitting category from: image, video, audio, text, code, chatbot, writing, design, marketing, productivity, research, data
3. "name" (short string): a clean product name if the raw title is noisy

Be strict: most candidates should score 5 or below.

Candidates:
%s

Respond with a JSON array. Each element must have: "id" (the candidate ID), "score" (integer 0-10), "category" (string), "name" (string).
Return ONLY the JSON array, no other text.`

// Screener uses an LLM to batch-screen discovered candidates before
// they enter the catalog as drafts.
type Screener struct {
	client   *http.Client
	provider string // "openai" or "anthropic"
	model    string
	apiKey   string
	baseURL  string
	minScore float64
}

// ScreenResult is the per-candidate verdict from the LLM.
type ScreenResult struct {
	ID       string `json:"id"`
	Score    int    `json:"score"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// NewScreener creates a new LLM screener.
func NewScreener(provider, model, apiKey, baseURL string, minScore float64) *Screener {
	if model == "" {
		switch provider {
		case "anthropic":
			model = "claude-sonnet-4-20250514"
		default:
			model = "gpt-4o-mini"
		}
	}
	if minScore <= 0 {
		minScore = 6
	}
	return &Screener{
		client:   &http.Client{Timeout: 60 * time.Second},
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
		minScore: minScore,
	}
}

// Screen sends all candidates in one batch to the LLM and returns the
// verdicts for those at or above the minimum score.
func (s *Screener) Screen(ctx context.Context, candidates []Candidate) ([]ScreenResult, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var lines []string
	for _, c := range candidates {
		line := fmt.Sprintf("- ID: %s:%s | Source: %s | Score: %d | Name: %s",
			c.Source, c.ExternalID, c.Source, c.Score, c.Name)
		if c.Description != "" {
			desc := c.Description
			if len(desc) > 200 {
				desc = desc[:200] + "..."
			}
			line += " | Desc: " + desc
		}
		if c.URL != "" {
			line += " | URL: " + c.URL
		}
		lines = append(lines, line)
	}

	prompt := fmt.Sprintf(screenPrompt, strings.Join(lines, "\n"))

	var raw string
	var err error

	switch s.provider {
	case "anthropic":
		raw, err = s.callAnthropic(ctx, prompt)
	default:
		raw, err = s.callOpenAI(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	raw = strings.TrimSpace(raw)
	// Handle markdown code block wrapping.
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw[3:], "\n"); idx >= 0 {
			raw = raw[3+idx+1:]
		}
		if strings.HasSuffix(raw, "```") {
			raw = raw[:len(raw)-3]
		}
		raw = strings.TrimSpace(raw)
	}

	var results []ScreenResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("parse screener response: %w\nraw: %s", err, truncate(raw, 500))
	}

	var kept []ScreenResult
	for _, r := range results {
		if float64(r.Score) >= s.minScore {
			kept = append(kept, r)
		}
	}

	return kept, nil
}

func (s *Screener) callOpenAI(ctx context.Context, prompt string) (string, error) {
	baseURL := s.baseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	payload := map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.1,
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("openai status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}

func (s *Screener) callAnthropic(ctx context.Context, prompt string) (string, error) {
	baseURL := s.baseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	payload := map[string]any{
		"model":      s.model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("anthropic status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic: no content returned")
	}
	return result.Content[0].Text, nil
}
