package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist and required is false.
func LoadOrDefault(path string, required bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Catalog.URL) == "" {
		cfg.Catalog.URL = DefaultCatalogURL
	}
	if strings.TrimSpace(cfg.Catalog.Cache) == "" {
		cfg.Catalog.Cache = "file"
	}
	if cfg.Catalog.Timeout <= 0 {
		cfg.Catalog.Timeout = 30 * time.Second
	}
	if cfg.Catalog.Retries <= 0 {
		cfg.Catalog.Retries = 3
	}
	if cfg.Catalog.RetryRate <= 0 {
		cfg.Catalog.RetryRate = 1
	}

	if strings.TrimSpace(cfg.Resolve.Crate) == "" {
		cfg.Resolve.Crate = "windows"
	}
	if strings.TrimSpace(cfg.Resolve.RootLabel) == "" {
		cfg.Resolve.RootLabel = "Windows"
	}

	if len(cfg.Scan.Dirs) == 0 {
		cfg.Scan.Dirs = []string{"."}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"target", ".git"}
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "list"
	}
	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9464"
	}
}

func normalize(cfg *Config) {
	cfg.Paths.CacheDir = strings.TrimSpace(cfg.Paths.CacheDir)
	cfg.Catalog.URL = strings.TrimSpace(cfg.Catalog.URL)
	cfg.Catalog.Path = strings.TrimSpace(cfg.Catalog.Path)
	cfg.Catalog.Cache = strings.ToLower(strings.TrimSpace(cfg.Catalog.Cache))
	cfg.Resolve.Crate = strings.TrimSpace(cfg.Resolve.Crate)
	cfg.Resolve.RootLabel = strings.TrimSpace(cfg.Resolve.RootLabel)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Observability.Address = strings.TrimSpace(cfg.Observability.Address)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	dirs := make([]string, 0, len(cfg.Scan.Dirs))
	for _, dir := range cfg.Scan.Dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		dirs = append(dirs, dir)
	}
	cfg.Scan.Dirs = dirs
}
