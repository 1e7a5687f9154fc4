package app

import (
	"context"
	"log/slog"
	"slices"

	"winfeatures/internal/core/watcher"
	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/engine/diagnostics"
	"winfeatures/internal/engine/features"
	"winfeatures/internal/engine/scanner"
	"winfeatures/internal/shared/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// Watch resolves once, then again after every batch of Rust source changes,
// printing the feature list only when it differs from the previous one. It
// returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	cat, err := a.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	index := catalog.Build(cat, diagnostics.NewLog(a.logger))
	observability.IndexKeys.Set(float64(index.Len()))
	agg := features.NewAggregator(index, features.Options{
		RootLabel: a.Config.Resolve.RootLabel,
		Logger:    a.logger,
	})

	var printed []string
	first := true
	rerun := func(changed []string) {
		timer := prometheus.NewTimer(observability.AnalysisDuration.WithLabelValues("watch_run"))
		defer timer.ObserveDuration()

		if len(changed) > 0 {
			slog.Debug("sources changed", "count", len(changed))
		}
		found, err := a.scanner.ScanDirectories(a.Config.Scan.Dirs)
		if err != nil {
			slog.Error("scan failed", "error", err)
			return
		}
		res := agg.Run(scanner.Dedup(found))
		a.recordRun(res)
		if !first && slices.Equal(printed, res.Features) {
			return
		}
		first = false
		printed = res.Features
		if err := a.Render(res.Features); err != nil {
			slog.Error("failed to write features", "error", err)
		}
	}
	rerun(nil)

	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
	}, rerun)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(a.Config.Scan.Dirs); err != nil {
		return err
	}
	slog.Info("watching for changes", "dirs", a.Config.Scan.Dirs)

	<-ctx.Done()
	return nil
}
