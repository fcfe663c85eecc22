package search

import "fmt"

// errorNarrative is returned verbatim whenever data retrieval fails.
const errorNarrative = "I encountered an error while searching. Please try again."

// noResults is returned for any query that filters down to zero tools,
// regardless of intent.
func noResults(query string) string {
	return fmt.Sprintf("I couldn't find any tools matching %q. Try different keywords or browse the catalog by category.", query)
}

// narrative picks a response template by intent, interpolating the
// result count and any extracted filter text. Conversation history
// only changes the phrasing of follow-up turns.
func narrative(intent Intent, count int, f Filters, history []Turn) string {
	scope := f.describe()

	switch intent {
	case IntentSearch:
		return fmt.Sprintf("I found %d tools%s.", count, scope)
	case IntentCompare:
		return fmt.Sprintf("Here are %d tools%s you can compare side by side.", count, scope)
	case IntentRecommend:
		return fmt.Sprintf("Based on ratings and popularity, here are my top %d picks%s.", count, scope)
	case IntentQuestion:
		return fmt.Sprintf("These %d tools%s should help answer that.", count, scope)
	case IntentPricing:
		return fmt.Sprintf("I found %d tools%s. Each listing shows its pricing tier.", count, scope)
	}

	if len(history) > 0 {
		return fmt.Sprintf("Here are %d more tools%s matching your search.", count, scope)
	}
	return fmt.Sprintf("Here are %d tools%s matching your search.", count, scope)
}
