package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-user-crawler/pkg/log"
)

func TestFactoryAdapter(t *testing.T) {
	logger, err := log.NewCslLogger()
	require.NoError(t, err)

	cases := []struct {
		provider string
		name     string
	}{
		{"nominatim", "nominatim"},
		{"", "nominatim"},
		{"opencage", "opencage"},
		{"google", "google"},
		{"claude", "claude"},
		{"Gemini", "gemini"},
		{"groq", "groq"},
	}
	for _, tc := range cases {
		config := testConfig(t)
		config.Location.Provider = tc.provider
		adapter, err := FactoryAdapter(logger, config)
		require.NoError(t, err, "provider %q", tc.provider)
		assert.Equal(t, tc.name, adapter.Name())
	}
}

func TestFactoryAdapterUnsupported(t *testing.T) {
	logger, err := log.NewCslLogger()
	require.NoError(t, err)

	config := testConfig(t)
	config.Location.Provider = "bing"
	_, err = FactoryAdapter(logger, config)
	assert.Error(t, err)
}
