package config

import (
	"os"
	"path/filepath"
)

// ResolveCacheDir returns the directory downloaded catalogs are kept in.
// An explicit paths.cache_dir wins; otherwise the XDG cache location is used.
func ResolveCacheDir(cfg *Config) string {
	if cfg.Paths.CacheDir != "" {
		return filepath.Clean(cfg.Paths.CacheDir)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDirName)
	}
	return filepath.Join(".cache", appDirName)
}
