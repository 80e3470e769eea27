package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// OpencageAdapter resolves through the OpenCage geocoding API.
type OpencageAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewOpencageAdapter(logger log.Logger, config *cfg.Config) (*OpencageAdapter, error) {
	return &OpencageAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (a *OpencageAdapter) Name() string {
	return "opencage"
}

func (a *OpencageAdapter) Resolve(ctx context.Context, location string) Verdict {
	if a.Config.Location.OpencageApiKey == "" {
		a.Logger.Error(ctx, "OpenCage API key not configured")
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.OpencageApiUrl
	if apiUrl == "" {
		apiUrl = "https://api.opencagedata.com/geocode/v1/json"
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("key", a.Config.Location.OpencageApiKey)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl+"?"+params.Encode(), nil)
	if err != nil {
		return Unresolved(a.Name())
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "OpenCage request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "OpenCage returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var payload struct {
		Results []struct {
			Components struct {
				CountryCode string `json:"country_code"`
			} `json:"components"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Results) == 0 {
		return Unresolved(a.Name())
	}

	code := strings.ToUpper(payload.Results[0].Components.CountryCode)
	if len(code) != 2 {
		return Unresolved(a.Name())
	}
	return Verdict{
		Resolved:    true,
		CountryCode: code,
		Confidence:  geocoderConfidence,
		Provider:    a.Name(),
	}
}
