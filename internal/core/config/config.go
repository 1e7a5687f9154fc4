package config

import "time"

const (
	DefaultCatalogURL = "https://raw.githubusercontent.com/microsoft/windows-rs/0.58.0/crates/libs/windows/features.json"
	DefaultConfigFile = "winfeatures.toml"
	appDirName        = "windows-features"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Catalog       Catalog       `toml:"catalog"`
	Resolve       Resolve       `toml:"resolve"`
	Scan          Scan          `toml:"scan"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	CacheDir string `toml:"cache_dir"`
}

type Catalog struct {
	URL  string `toml:"url"`
	Path string `toml:"path"` // Local features.json; skips download and cache.
	// Cache selects the store for downloaded catalogs: file, sqlite or none.
	Cache     string        `toml:"cache"`
	Timeout   time.Duration `toml:"timeout"`
	Retries   int           `toml:"retries"`
	RetryRate float64       `toml:"retry_rate"`
}

type Resolve struct {
	Crate     string `toml:"crate"`
	RootLabel string `toml:"root_label"`
}

type Scan struct {
	Dirs []string `toml:"dirs"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	Format string `toml:"format"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Address       string `toml:"address"`
	EnableTracing bool   `toml:"enable_tracing"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}
