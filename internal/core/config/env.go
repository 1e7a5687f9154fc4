package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: WINFEATURES_[SECTION]_[KEY] (e.g., WINFEATURES_CATALOG_URL).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.CacheDir, "WINFEATURES_PATHS_CACHE_DIR")

	// Catalog
	setEnvString(&cfg.Catalog.URL, "WINFEATURES_CATALOG_URL")
	setEnvString(&cfg.Catalog.Path, "WINFEATURES_CATALOG_PATH")
	setEnvString(&cfg.Catalog.Cache, "WINFEATURES_CATALOG_CACHE")
	setEnvDuration(&cfg.Catalog.Timeout, "WINFEATURES_CATALOG_TIMEOUT")
	setEnvInt(&cfg.Catalog.Retries, "WINFEATURES_CATALOG_RETRIES")
	setEnvFloat64(&cfg.Catalog.RetryRate, "WINFEATURES_CATALOG_RETRY_RATE")

	// Resolve
	setEnvString(&cfg.Resolve.Crate, "WINFEATURES_RESOLVE_CRATE")
	setEnvString(&cfg.Resolve.RootLabel, "WINFEATURES_RESOLVE_ROOT_LABEL")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "WINFEATURES_WATCH_DEBOUNCE")

	// Output
	setEnvString(&cfg.Output.Format, "WINFEATURES_OUTPUT_FORMAT")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "WINFEATURES_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "WINFEATURES_OBSERVABILITY_ADDRESS")
	setEnvBool(&cfg.Observability.EnableTracing, "WINFEATURES_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "WINFEATURES_OBSERVABILITY_OTLP_ENDPOINT")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
