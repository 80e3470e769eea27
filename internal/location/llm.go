// Shared pieces of the generative classifier adapters. Each LLM backend gets
// the same constrained prompt and the same strict parse, so a drifting answer
// degrades to unresolved instead of polluting the database.

package location

import (
	"fmt"
	"regexp"
	"strings"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// classifierPrompt demands a bare answer so parsing stays trivial.
func classifierPrompt(location string) string {
	return fmt.Sprintf(
		"Given the user profile location %q, answer with the ISO 3166-1 alpha-2 country code it belongs to. "+
			"Answer with the two-letter code only, or UNKNOWN if you cannot tell.", location)
}

// parseClassifierAnswer accepts only answers that are exactly a country code.
func parseClassifierAnswer(answer string) (string, bool) {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	answer = strings.Trim(answer, `."'`)
	if !countryCodePattern.MatchString(answer) {
		return "", false
	}
	return answer, true
}

func classifierVerdict(provider, answer string) Verdict {
	code, ok := parseClassifierAnswer(answer)
	if !ok {
		return Unresolved(provider)
	}
	return Verdict{
		Resolved:    true,
		CountryCode: code,
		Confidence:  llmConfidence,
		Provider:    provider,
	}
}
