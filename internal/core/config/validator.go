package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Validate checks a loaded configuration. It runs after defaults and env
// overrides have been applied.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateCatalog(cfg); err != nil {
		return err
	}
	if err := validateResolve(cfg); err != nil {
		return err
	}
	if err := validateScan(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	return validateObservability(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateCatalog(cfg *Config) error {
	switch cfg.Catalog.Cache {
	case "file", "sqlite", "none":
	default:
		return fmt.Errorf("catalog.cache must be one of: file, sqlite, none")
	}
	if cfg.Catalog.Path != "" {
		return nil
	}
	u, err := url.Parse(cfg.Catalog.URL)
	if err != nil {
		return fmt.Errorf("catalog.url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("catalog.url must be http or https, got %q", cfg.Catalog.URL)
	}
	if cfg.Catalog.Retries > 10 {
		return fmt.Errorf("catalog.retries must be <= 10, got %d", cfg.Catalog.Retries)
	}
	return nil
}

func validateResolve(cfg *Config) error {
	if strings.Contains(cfg.Resolve.Crate, "::") || strings.ContainsAny(cfg.Resolve.Crate, " \t") {
		return fmt.Errorf("resolve.crate must be a single path segment, got %q", cfg.Resolve.Crate)
	}
	if strings.Contains(cfg.Resolve.RootLabel, ".") {
		return fmt.Errorf("resolve.root_label must not contain '.', got %q", cfg.Resolve.RootLabel)
	}
	return nil
}

func validateScan(cfg *Config) error {
	if len(cfg.Scan.Dirs) == 0 {
		return fmt.Errorf("scan.dirs must contain at least one directory")
	}
	for i, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs[%d] is not a valid glob %q: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files[%d] is not a valid glob %q: %w", i, pattern, err)
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case "list", "cargo":
		return nil
	default:
		return fmt.Errorf("output.format must be one of: list, cargo")
	}
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.EnableTracing && cfg.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("observability.otlp_endpoint must be set when enable_tracing=true")
	}
	if cfg.Observability.Enabled && cfg.Observability.Address == "" {
		return fmt.Errorf("observability.address must not be empty when enabled=true")
	}
	return nil
}
