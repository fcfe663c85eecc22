package discover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func openAIReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestScreenKeepsHighScores(t *testing.T) {
	verdicts := `[
		{"id": "hackernews:1", "score": 8, "category": "image", "name": "PixelCraft"},
		{"id": "hackernews:2", "score": 3, "category": "code", "name": "ToyRepo"}
	]`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		w.Write([]byte(openAIReply(verdicts)))
	}))
	defer ts.Close()

	s := NewScreener("openai", "gpt-4o-mini", "test-key", ts.URL, 6)
	candidates := []Candidate{
		{Source: SourceHackerNews, ExternalID: "1", Name: "PixelCraft"},
		{Source: SourceHackerNews, ExternalID: "2", Name: "ToyRepo"},
	}

	results, err := s.Screen(context.Background(), candidates)
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(results) != 1 || results[0].ID != "hackernews:1" {
		t.Errorf("results = %+v, want just hackernews:1", results)
	}
	if results[0].Category != "image" {
		t.Errorf("category = %q", results[0].Category)
	}
}

// Models often wrap JSON in a markdown code block; the screener must
// unwrap it.
func TestScreenUnwrapsCodeBlock(t *testing.T) {
	wrapped := "```json\n[{\"id\": \"rss:x\", \"score\": 9, \"category\": \"text\", \"name\": \"X\"}]\n```"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openAIReply(wrapped)))
	}))
	defer ts.Close()

	s := NewScreener("openai", "", "k", ts.URL, 6)
	results, err := s.Screen(context.Background(), []Candidate{{Source: SourceRSS, ExternalID: "x", Name: "X"}})
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(results) != 1 || results[0].ID != "rss:x" {
		t.Errorf("results = %+v", results)
	}
}

func TestScreenAnthropicProvider(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "ak" {
			t.Errorf("x-api-key = %q", key)
		}
		reply := map[string]any{
			"content": []map[string]string{
				{"text": `[{"id": "github:r", "score": 7, "category": "code", "name": "R"}]`},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	defer ts.Close()

	s := NewScreener("anthropic", "", "ak", ts.URL, 6)
	results, err := s.Screen(context.Background(), []Candidate{{Source: SourceGitHub, ExternalID: "r", Name: "R"}})
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(results) != 1 || results[0].ID != "github:r" {
		t.Errorf("results = %+v", results)
	}
}

func TestScreenEmptyBatch(t *testing.T) {
	s := NewScreener("openai", "", "k", "http://unused", 6)
	results, err := s.Screen(context.Background(), nil)
	if err != nil || results != nil {
		t.Errorf("Screen(nil) = %v, %v", results, err)
	}
}

func TestScreenBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(openAIReply("I cannot help with that.")))
	}))
	defer ts.Close()

	s := NewScreener("openai", "", "k", ts.URL, 6)
	if _, err := s.Screen(context.Background(), []Candidate{{Source: SourceRSS, ExternalID: "x"}}); err == nil {
		t.Error("expected parse error")
	}
}
