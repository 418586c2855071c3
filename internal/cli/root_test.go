package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	cfgFile = ""
	apiKey = ""
	zone = ""
	apiBaseURL = ""
	country = ""
	language = ""
	maxPages = 0
	concurrency = 0
	noCache = false
	verbose = false
	rateLimitEnabled = true
}

func TestLoadSettings_UsesEnvAPIKeyByDefault(t *testing.T) {
	resetFlags()
	t.Setenv("SERP_BRIGHT_DATA_API_KEY", "env-key")

	settings, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.BrightDataAPIKey())
}

func TestLoadSettings_FlagOverridesAPIKey(t *testing.T) {
	resetFlags()
	t.Setenv("SERP_BRIGHT_DATA_API_KEY", "env-key")
	apiKey = "flag-key"
	defer resetFlags()

	settings, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "flag-key", settings.BrightDataAPIKey())
}

func TestLoadSettings_FlagOverridesCountryAndMaxPages(t *testing.T) {
	resetFlags()
	t.Setenv("SERP_BRIGHT_DATA_API_KEY", "env-key")
	country = "de"
	maxPages = 7
	defer resetFlags()

	settings, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "de", settings.DefaultCountry())
	assert.Equal(t, 7, settings.DefaultMaxPages())
}

func TestLoadSettings_MissingAPIKeyFails(t *testing.T) {
	resetFlags()
	t.Setenv("SERP_BRIGHT_DATA_API_KEY", "")

	_, err := loadSettings()
	assert.Error(t, err)
}
