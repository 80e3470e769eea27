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

// GoogleAdapter resolves through the Google Maps geocoding API.
type GoogleAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewGoogleAdapter(logger log.Logger, config *cfg.Config) (*GoogleAdapter, error) {
	return &GoogleAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (a *GoogleAdapter) Name() string {
	return "google"
}

func (a *GoogleAdapter) Resolve(ctx context.Context, location string) Verdict {
	if a.Config.Location.GoogleApiKey == "" {
		a.Logger.Error(ctx, "Google Maps API key not configured")
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.GoogleApiUrl
	if apiUrl == "" {
		apiUrl = "https://maps.googleapis.com/maps/api/geocode/json"
	}

	params := url.Values{}
	params.Set("address", location)
	params.Set("key", a.Config.Location.GoogleApiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl+"?"+params.Encode(), nil)
	if err != nil {
		return Unresolved(a.Name())
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "Google Maps request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "Google Maps returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var payload struct {
		Results []struct {
			AddressComponents []struct {
				ShortName string   `json:"short_name"`
				Types     []string `json:"types"`
			} `json:"address_components"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Results) == 0 {
		return Unresolved(a.Name())
	}

	for _, component := range payload.Results[0].AddressComponents {
		for _, typ := range component.Types {
			if typ != "country" {
				continue
			}
			code := strings.ToUpper(component.ShortName)
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
	}
	return Unresolved(a.Name())
}
