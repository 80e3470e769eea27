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

// ClaudeAdapter classifies locations with the Anthropic messages API.
type ClaudeAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewClaudeAdapter(logger log.Logger, config *cfg.Config) (*ClaudeAdapter, error) {
	return &ClaudeAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (a *ClaudeAdapter) Name() string {
	return "claude"
}

func (a *ClaudeAdapter) Resolve(ctx context.Context, location string) Verdict {
	if a.Config.Location.ClaudeApiKey == "" {
		a.Logger.Error(ctx, "Claude API key not configured")
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.ClaudeApiUrl
	if apiUrl == "" {
		apiUrl = "https://api.anthropic.com/v1/messages"
	}
	model := a.Config.Location.ClaudeModel
	if model == "" {
		model = "claude-3-haiku-20240307"
	}

	body, err := json.Marshal(map[string]interface{}{
		"model":      model,
		"max_tokens": 10,
		"messages": []map[string]string{
			{"role": "user", "content": classifierPrompt(location)},
		},
	})
	if err != nil {
		return Unresolved(a.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiUrl, bytes.NewReader(body))
	if err != nil {
		return Unresolved(a.Name())
	}
	req.Header.Set("x-api-key", a.Config.Location.ClaudeApiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "Claude request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "Claude returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var payload struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Content) == 0 {
		return Unresolved(a.Name())
	}

	return classifierVerdict(a.Name(), payload.Content[0].Text)
}
