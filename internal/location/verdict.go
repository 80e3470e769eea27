// Package location normalizes free-text profile locations into a country
// verdict through interchangeable backends: free geocoders, commercial
// geocoders, and LLM classifiers. Backend selection happens once at
// configuration time, callers never branch per request.
package location

// Verdict is the resolver's judgment about a raw location string. A verdict
// is always produced, "unresolved" included, and never mutated afterwards.
type Verdict struct {
	Resolved    bool    `json:"resolved"`
	CountryCode string  `json:"country_code"`
	Confidence  float64 `json:"confidence"`
	Provider    string  `json:"provider"`
}

// Unresolved is the zero-confidence verdict every adapter falls back to when
// its backend fails or answers nonsense.
func Unresolved(provider string) Verdict {
	return Verdict{Provider: provider}
}

const (
	// geocoderConfidence applies to deterministic geocoding hits.
	geocoderConfidence = 0.9

	// llmConfidence caps generative classifiers below geocoders, their
	// answers drift for identical nominal certainty.
	llmConfidence = 0.7

	// keywordConfidence applies to the local fast path.
	keywordConfidence = 0.95
)
