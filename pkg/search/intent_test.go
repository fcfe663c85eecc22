package search

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"show me image generators", IntentSearch},
		{"find a chatbot", IntentSearch},
		{"I'm looking for writing tools", IntentSearch},
		{"compare midjourney and dall-e", IntentCompare},
		{"what's the difference between these", IntentCompare},
		{"claude vs chatgpt", IntentCompare},
		{"best video editors", IntentRecommend},
		{"top rated tools", IntentRecommend},
		{"recommend something for design", IntentRecommend},
		{"how does this work", IntentQuestion},
		{"why use embeddings", IntentQuestion},
		{"free transcription tools", IntentPricing},
		{"price of premium plans", IntentPricing},
		{"image generators", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tt := range tests {
		if got := ClassifyIntent(tt.query); got != tt.want {
			t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// Rule order matters: "best" must win over "free", and "find" over "vs".
func TestClassifyIntentPrecedence(t *testing.T) {
	if got := ClassifyIntent("best free tools"); got != IntentRecommend {
		t.Errorf("expected recommend for 'best free tools', got %q", got)
	}
	if got := ClassifyIntent("find claude vs chatgpt"); got != IntentSearch {
		t.Errorf("expected search for 'find claude vs chatgpt', got %q", got)
	}
	if got := ClassifyIntent("how much does the best one cost"); got != IntentRecommend {
		t.Errorf("expected recommend for 'how much does the best one cost', got %q", got)
	}
}
