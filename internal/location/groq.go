package location

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// GroqAdapter classifies locations with Groq's OpenAI-compatible chat API.
type GroqAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewGroqAdapter(logger log.Logger, config *cfg.Config) (*GroqAdapter, error) {
	return &GroqAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (a *GroqAdapter) Name() string {
	return "groq"
}

func (a *GroqAdapter) Resolve(ctx context.Context, location string) Verdict {
	if a.Config.Location.GroqApiKey == "" {
		a.Logger.Error(ctx, "Groq API key not configured")
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.GroqApiUrl
	if apiUrl == "" {
		apiUrl = "https://api.groq.com/openai/v1/chat/completions"
	}
	model := a.Config.Location.GroqModel
	if model == "" {
		model = "llama-3.1-8b-instant"
	}

	body, err := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": classifierPrompt(location)},
		},
		"temperature": 0,
		"max_tokens":  10,
	})
	if err != nil {
		return Unresolved(a.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiUrl, bytes.NewReader(body))
	if err != nil {
		return Unresolved(a.Name())
	}
	req.Header.Set("Authorization", "Bearer "+a.Config.Location.GroqApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "Groq request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "Groq returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Choices) == 0 {
		return Unresolved(a.Name())
	}

	return classifierVerdict(a.Name(), payload.Choices[0].Message.Content)
}
