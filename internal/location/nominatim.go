package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// NominatimAdapter resolves through the free OpenStreetMap geocoder. The
// usage policy caps request frequency, so the adapter serializes its own
// calls at the configured interval. The pacing state is private, other
// adapters are unaffected.
type NominatimAdapter struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
	pacer  *rate.Limiter
}

func NewNominatimAdapter(logger log.Logger, config *cfg.Config) (*NominatimAdapter, error) {
	interval := time.Duration(config.Location.PacingIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	return &NominatimAdapter{
		Logger: logger,
		Config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		pacer:  rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

func (a *NominatimAdapter) Name() string {
	return "nominatim"
}

func (a *NominatimAdapter) Resolve(ctx context.Context, location string) Verdict {
	if err := a.pacer.Wait(ctx); err != nil {
		return Unresolved(a.Name())
	}

	apiUrl := a.Config.Location.NominatimApiUrl
	if apiUrl == "" {
		apiUrl = "https://nominatim.openstreetmap.org/search"
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiUrl+"?"+params.Encode(), nil)
	if err != nil {
		return Unresolved(a.Name())
	}
	// Nominatim rejects requests without an identifying agent
	req.Header.Set("User-Agent", "github-user-crawler/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		a.Logger.Warn(ctx, "Nominatim request failed: %v", err)
		return Unresolved(a.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn(ctx, "Nominatim returned status %s", resp.Status)
		return Unresolved(a.Name())
	}

	var results []struct {
		Address struct {
			CountryCode string `json:"country_code"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return Unresolved(a.Name())
	}

	code := strings.ToUpper(results[0].Address.CountryCode)
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
