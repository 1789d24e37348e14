package keywords

import (
	"sort"

	"sentinel/internal/similarity"
)

// DefaultLimit is the number of keywords returned when no limit is configured.
const DefaultLimit = 5

// Top returns at most limit distinct tokens of text ordered by descending
// frequency. Tokens with equal frequency keep the order of their first
// occurrence in text.
func Top(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	tokens := similarity.Tokenize(text)
	vec := similarity.Vectorize(tokens)

	// Distinct tokens in first-occurrence order.
	order := make([]string, 0, vec.Len())
	seen := make(map[string]struct{}, vec.Len())
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		order = append(order, tok)
	}
	sort.SliceStable(order, func(i, j int) bool { return vec[order[i]] > vec[order[j]] })

	if limit > len(order) {
		limit = len(order)
	}
	return order[:limit]
}

// FrequencyExtractor ranks keywords by term frequency with a configured limit.
type FrequencyExtractor struct {
	limit int
}

// NewFrequencyExtractor creates an extractor; limit <= 0 selects DefaultLimit.
func NewFrequencyExtractor(limit int) *FrequencyExtractor {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &FrequencyExtractor{limit: limit}
}

// Limit returns the configured keyword count.
func (e *FrequencyExtractor) Limit() int { return e.limit }

// Extract returns the top keywords of text.
func (e *FrequencyExtractor) Extract(text string) []string {
	return Top(text, e.limit)
}
