package search

import "strings"

// Intent is a coarse classification of what kind of answer a query expects.
type Intent string

const (
	IntentSearch    Intent = "search"
	IntentCompare   Intent = "compare"
	IntentRecommend Intent = "recommend"
	IntentQuestion  Intent = "question"
	IntentPricing   Intent = "pricing"
	IntentGeneral   Intent = "general"
)

// intentRules are evaluated in order; the first rule whose keyword
// appears in the query wins. Order matters: "best free tools" is a
// recommendation, not a pricing question.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentSearch, []string{"show me", "find", "looking for"}},
	{IntentCompare, []string{"compare", "difference", "vs"}},
	{IntentRecommend, []string{"best", "top", "recommend"}},
	{IntentQuestion, []string{"how", "what", "why"}},
	{IntentPricing, []string{"free", "price", "cost"}},
}

// ClassifyIntent assigns a single intent label to a free-text query.
func ClassifyIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}
