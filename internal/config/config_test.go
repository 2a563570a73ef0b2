package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"GA_STAGING_TRACKING_ID": "UA-STAGE-1",
	}))
	require.NoError(t, err)

	assert.Equal(t, defaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, hit.EnvDev, cfg.EnvironmentType)
	assert.Equal(t, hit.DefaultBaseURL, cfg.CollectBaseURL)
	assert.Equal(t, defaultTimeout, cfg.CollectTimeout)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.False(t, cfg.UseTestingEndpoint)
	assert.False(t, cfg.UseProductionProperty)
	assert.Empty(t, cfg.DBURL)
	assert.Equal(t, map[string]string{defaultDevAPIKey: defaultDevSource}, cfg.APIKeys)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"HTTP_ADDR":                  ":9090",
		"LOG_LEVEL":                  "debug",
		"DB_URL":                     "postgres://localhost/ga",
		"ENVIRONMENT_TYPE":           "live",
		"GA_USE_PRODUCTION_PROPERTY": "true",
		"GA_PRODUCTION_TRACKING_ID":  "UA-PROD-1",
		"GA_STAGING_TRACKING_ID":     "UA-STAGE-1",
		"GA_USE_TESTING_ENDPOINT":    "1",
		"GA_COLLECT_BASE_URL":        "https://collect.internal",
		"GA_INSECURE_SKIP_VERIFY":    "false",
		"GA_TIMEOUT":                 "750ms",
		"API_KEYS":                   " web : k1 , app:k2 ,",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/ga", cfg.DBURL)
	assert.True(t, cfg.UseTestingEndpoint)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, 750*time.Millisecond, cfg.CollectTimeout)
	assert.Equal(t, "https://collect.internal", cfg.CollectBaseURL)
	assert.Equal(t, map[string]string{"k1": "web", "k2": "app"}, cfg.APIKeys)
	assert.Equal(t, "UA-PROD-1", cfg.Property().TrackingID())
}

func TestFromEnv_Errors(t *testing.T) {
	base := map[string]string{"GA_STAGING_TRACKING_ID": "UA-STAGE-1"}

	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"missing staging id", "GA_STAGING_TRACKING_ID", "", "GA_STAGING_TRACKING_ID"},
		{"bad bool", "GA_USE_TESTING_ENDPOINT", "maybe", "GA_USE_TESTING_ENDPOINT"},
		{"bad duration", "GA_TIMEOUT", "soon", "GA_TIMEOUT"},
		{"negative duration", "GA_TIMEOUT", "-1s", "GA_TIMEOUT"},
		{"production without id", "GA_USE_PRODUCTION_PROPERTY", "true", "GA_PRODUCTION_TRACKING_ID"},
		{"bad api keys", "API_KEYS", "nokey", "API_KEYS"},
		{"empty api key", "API_KEYS", "web:", "API_KEYS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range base {
				env[k] = v
			}
			env[tc.key] = tc.value

			_, err := FromEnv(envOf(env))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %T", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "GA_STAGING_TRACKING_ID", Message: "is required"}
	assert.Equal(t, "GA_STAGING_TRACKING_ID: is required", err.Error())
}

func TestProperty_StagingOutsideLive(t *testing.T) {
	cfg := Config{
		EnvironmentType:       hit.EnvTest,
		UseProductionProperty: true,
		ProductionTrackingID:  "UA-PROD-1",
		StagingTrackingID:     "UA-STAGE-1",
	}
	assert.Equal(t, "UA-STAGE-1", cfg.Property().TrackingID())
}
