package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreapp "winfeatures/internal/core/app"
	"winfeatures/internal/core/config"
	"winfeatures/internal/shared/observability"

	"github.com/joho/godotenv"
)

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "winfeatures v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.debug, opts.quiet)

	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(opts.configPath, opts.configExplicit)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid config", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	a, err := coreapp.New(cfg, coreapp.Options{
		Stdout:  stdout,
		Stderr:  stderr,
		Quiet:   opts.quiet,
		Refresh: opts.refresh,
		Logger:  slog.Default(),
	})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.Close()

	if opts.watch {
		return runWatch(ctx, a, cfg)
	}

	var in io.Reader
	if opts.stdin {
		in = stdin
	}
	if _, err := a.RunOnce(ctx, in); err != nil {
		slog.Error("resolution failed", "error", err)
		return 1
	}
	return 0
}

func runWatch(ctx context.Context, a *coreapp.App, cfg *config.Config) int {
	if cfg.Observability.Enabled {
		server := NewObservabilityServer(cfg.Observability.Address, coreapp.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}
	if err := a.Watch(ctx); err != nil {
		slog.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

// applyModeOptions folds command-line overrides into cfg.
func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.stdin && opts.watch {
		return errors.New("--stdin and --watch cannot be combined")
	}
	if opts.stdin && (opts.scanDirs != "" || len(opts.args) > 0) {
		return errors.New("--stdin cannot be combined with scan directories")
	}

	dirs := splitList(opts.scanDirs)
	dirs = append(dirs, opts.args...)
	if len(dirs) > 0 {
		cfg.Scan.Dirs = dirs
	}
	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	return nil
}

func configureLogging(w io.Writer, debug, quiet bool) {
	level := slog.LevelInfo
	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
