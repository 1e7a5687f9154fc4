// Package app wires catalog acquisition, import discovery and resolution into
// the run-once and watch workflows.
package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"winfeatures/internal/core/config"
	"winfeatures/internal/data/catalogstore"
	"winfeatures/internal/data/download"
	"winfeatures/internal/engine/scanner"
)

type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Quiet suppresses the human-readable header around the feature list.
	Quiet bool
	// Refresh ignores any cached catalog and downloads it again.
	Refresh bool
	Logger  *slog.Logger
}

type App struct {
	Config  *config.Config
	store   catalogstore.Store
	fetcher *download.Fetcher
	scanner *scanner.Scanner
	cache   *scanner.Cache

	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	refresh bool
	logger  *slog.Logger

	stateMu sync.RWMutex
	lastRun *RunState
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := scanner.NewCache(scanner.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	sc, err := scanner.New(scanner.Options{
		Crate:        cfg.Resolve.Crate,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
		Cache:        cache,
	})
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		store:  store,
		fetcher: download.NewFetcher(download.Options{
			Timeout:   cfg.Catalog.Timeout,
			Retries:   cfg.Catalog.Retries,
			RetryRate: cfg.Catalog.RetryRate,
		}),
		scanner: sc,
		cache:   cache,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		quiet:   opts.Quiet,
		refresh: opts.Refresh,
		logger:  opts.Logger,
	}, nil
}

func openStore(cfg *config.Config) (catalogstore.Store, error) {
	if cfg.Catalog.Path != "" {
		return catalogstore.Nop{}, nil
	}
	dir := config.ResolveCacheDir(cfg)
	switch cfg.Catalog.Cache {
	case "sqlite":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return catalogstore.OpenSQLite(filepath.Join(dir, "catalogs.db"))
	case "none":
		return catalogstore.Nop{}, nil
	default:
		return catalogstore.NewFileStore(dir)
	}
}

func (a *App) Close() error {
	return a.store.Close()
}
