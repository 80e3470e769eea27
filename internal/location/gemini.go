package location

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// GeminiAdapter classifies locations with the Google Gemini API.
type GeminiAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewGeminiAdapter(logger log.Logger, config *cfg.Config) (*GeminiAdapter, error) {
	return &GeminiAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (a *GeminiAdapter) Name() string {
	return "gemini"
}

func (a *GeminiAdapter) Resolve(ctx context.Context, location string) Verdict {
	if a.Config.Location.GeminiApiKey == "" {
		a.Logger.Error(ctx, "Gemini API key not configured")
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.GeminiApiUrl
	if apiUrl == "" {
		apiUrl = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"
	}
	fullUrl := apiUrl + "?key=" + url.QueryEscape(a.Config.Location.GeminiApiKey)

	body, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": classifierPrompt(location)}}},
		},
	})
	if err != nil {
		return Unresolved(a.Name())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullUrl, bytes.NewReader(body))
	if err != nil {
		return Unresolved(a.Name())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "Gemini request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "Gemini returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil ||
		len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return Unresolved(a.Name())
	}

	return classifierVerdict(a.Name(), payload.Candidates[0].Content.Parts[0].Text)
}
