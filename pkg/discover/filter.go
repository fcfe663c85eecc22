package discover

import "strings"

// DefaultToolKeywords is the base set used to spot AI tool announcements.
var DefaultToolKeywords = []string{
	"ai tool", "ai app", "ai assistant", "ai agent", "agentic",
	"copilot", "chatbot", "LLM", "large language model", "GPT",
	"generative AI", "gen AI", "genai", "foundation model",
	"image generation", "text-to-image", "text-to-video", "text-to-speech",
	"speech recognition", "transcription", "summarization",
	"RAG", "retrieval augmented", "vector database", "embedding",
	"prompt", "fine-tuning", "fine tuning", "inference",
	"machine learning", "deep learning", "neural network",
	"stable diffusion", "midjourney", "llama", "mistral", "gemini",
	"openai", "anthropic", "claude", "hugging face", "huggingface",
	"AI coding", "code generation", "code assistant",
	"AI writing", "AI design", "AI search", "no-code AI",
}

// Filter holds keyword lists for candidate matching.
type Filter struct {
	keywords []string
	exclude  []string
}

// NewFilter creates a filter with the default tool keywords plus extras.
func NewFilter(extraKeywords, excludeKeywords []string) *Filter {
	keywords := make([]string, len(DefaultToolKeywords))
	copy(keywords, DefaultToolKeywords)
	keywords = append(keywords, extraKeywords...)

	for i, kw := range keywords {
		keywords[i] = strings.ToLower(kw)
	}

	exclude := make([]string, len(excludeKeywords))
	for i, kw := range excludeKeywords {
		exclude[i] = strings.ToLower(kw)
	}

	return &Filter{keywords: keywords, exclude: exclude}
}

// Matches returns true if text looks like an AI tool announcement and
// hits no exclusion keyword.
func (f *Filter) Matches(text string) bool {
	lower := strings.ToLower(text)

	for _, ex := range f.exclude {
		if strings.Contains(lower, ex) {
			return false
		}
	}

	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
