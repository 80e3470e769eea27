package location

import (
	"fmt"
	"strings"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// FactoryAdapter builds the backend adapter named by the configuration.
// Adding a backend means adding a case here and a new adapter file, nothing
// else changes.
func FactoryAdapter(logger log.Logger, config *cfg.Config) (Adapter, error) {
	switch strings.ToLower(config.Location.Provider) {
	case "", "nominatim":
		return NewNominatimAdapter(logger, config)
	case "opencage":
		return NewOpencageAdapter(logger, config)
	case "google":
		return NewGoogleAdapter(logger, config)
	case "claude":
		return NewClaudeAdapter(logger, config)
	case "gemini":
		return NewGeminiAdapter(logger, config)
	case "groq":
		return NewGroqAdapter(logger, config)
	default:
		return nil, fmt.Errorf("location: unsupported provider: %s", config.Location.Provider)
	}
}
