package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

// Defaults applied when a variable is unset.
const (
	defaultEnvironmentType = hit.EnvDev
	defaultHTTPAddr        = ":8080"
	defaultLogLevel        = "info"
	defaultTimeout         = 5 * time.Second
	defaultDevSource       = "dev"
	defaultDevAPIKey       = "source-key-123"
)

// Config contains runtime configuration required by the relay.
type Config struct {
	HTTPAddr string
	LogLevel string
	DBURL    string            // optional; empty disables the delivery log
	APIKeys  map[string]string // apiKey -> source name

	EnvironmentType       string
	UseProductionProperty bool
	ProductionTrackingID  string
	StagingTrackingID     string
	UseTestingEndpoint    bool
	CollectBaseURL        string
	InsecureSkipVerify    bool
	CollectTimeout        time.Duration
}

// ValidationError reports a missing or malformed variable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Property returns the analytics property selection for this process.
func (c Config) Property() hit.Property {
	return hit.Property{
		EnvironmentType: c.EnvironmentType,
		UseProduction:   c.UseProductionProperty,
		ProductionID:    c.ProductionTrackingID,
		StagingID:       c.StagingTrackingID,
	}
}

// Load reads configuration from the environment, after loading .env if one
// exists in the working directory.
// API_KEYS format: "source1:key1,source2:key2"
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg := Config{
		HTTPAddr:             orDefault(get("HTTP_ADDR"), defaultHTTPAddr),
		LogLevel:             orDefault(get("LOG_LEVEL"), defaultLogLevel),
		DBURL:                get("DB_URL"),
		EnvironmentType:      orDefault(get("ENVIRONMENT_TYPE"), defaultEnvironmentType),
		ProductionTrackingID: get("GA_PRODUCTION_TRACKING_ID"),
		StagingTrackingID:    get("GA_STAGING_TRACKING_ID"),
		CollectBaseURL:       orDefault(get("GA_COLLECT_BASE_URL"), hit.DefaultBaseURL),
	}

	var err error
	if cfg.UseProductionProperty, err = parseBool("GA_USE_PRODUCTION_PROPERTY", get("GA_USE_PRODUCTION_PROPERTY"), false); err != nil {
		return Config{}, err
	}
	if cfg.UseTestingEndpoint, err = parseBool("GA_USE_TESTING_ENDPOINT", get("GA_USE_TESTING_ENDPOINT"), false); err != nil {
		return Config{}, err
	}
	if cfg.InsecureSkipVerify, err = parseBool("GA_INSECURE_SKIP_VERIFY", get("GA_INSECURE_SKIP_VERIFY"), true); err != nil {
		return Config{}, err
	}
	if cfg.CollectTimeout, err = parseDuration("GA_TIMEOUT", get("GA_TIMEOUT"), defaultTimeout); err != nil {
		return Config{}, err
	}

	if cfg.APIKeys, err = parseAPIKeys(get("API_KEYS")); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	if c.StagingTrackingID == "" {
		return &ValidationError{Field: "GA_STAGING_TRACKING_ID", Message: "is required"}
	}
	if c.UseProductionProperty && c.ProductionTrackingID == "" {
		return &ValidationError{
			Field:   "GA_PRODUCTION_TRACKING_ID",
			Message: "is required when GA_USE_PRODUCTION_PROPERTY is true",
		}
	}
	if c.CollectTimeout <= 0 {
		return &ValidationError{Field: "GA_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}

	if raw != "" {
		for _, p := range strings.Split(raw, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return nil, &ValidationError{Field: "API_KEYS", Message: `must be "source:key,source:key"`}
			}
			source := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if source == "" || key == "" {
				return nil, &ValidationError{Field: "API_KEYS", Message: `must be "source:key,source:key"`}
			}
			apiKeys[key] = source
		}
	}

	// Local dev fallback so the relay runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys[defaultDevAPIKey] = defaultDevSource
	}
	return apiKeys, nil
}

func parseBool(field, raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ValidationError{Field: field, Message: "must be a boolean"}
	}
	return b, nil
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Message: "must be a duration such as 5s"}
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
