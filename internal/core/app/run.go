package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"winfeatures/internal/engine/features"
	"winfeatures/internal/engine/scanner"
	"winfeatures/internal/shared/observability"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// RunState summarizes the most recent resolution for health reporting.
type RunState struct {
	RunID       string
	Features    []string
	Imports     int
	Diagnostics int
	FinishedAt  time.Time
}

// RunOnce resolves the imports found in the configured scan directories, or
// in stdin when it is non-nil, and prints the required features.
func (a *App) RunOnce(ctx context.Context, stdin io.Reader) (features.Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.RunOnce")
	defer span.End()
	timer := prometheus.NewTimer(observability.AnalysisDuration.WithLabelValues("run"))
	defer timer.ObserveDuration()

	cat, err := a.LoadCatalog(ctx)
	if err != nil {
		return features.Result{}, err
	}

	raws, err := a.collectImports(stdin)
	if err != nil {
		return features.Result{}, err
	}
	if len(raws) == 0 {
		slog.Warn("no imports found", "crate", a.Config.Resolve.Crate)
	}

	res := features.ResolveAll(raws, cat, features.Options{
		RootLabel: a.Config.Resolve.RootLabel,
		Logger:    a.logger,
	})
	span.SetAttributes(
		attribute.String("run.id", res.RunID),
		attribute.Int("run.imports", res.Imports),
		attribute.Int("run.features", len(res.Features)),
	)
	a.recordRun(res)

	if err := a.Render(res.Features); err != nil {
		return res, err
	}
	return res, nil
}

func (a *App) collectImports(stdin io.Reader) ([]string, error) {
	if stdin != nil {
		return a.readImports(stdin)
	}
	found, err := a.scanner.ScanDirectories(a.Config.Scan.Dirs)
	if err != nil {
		return nil, err
	}
	return scanner.Dedup(found), nil
}

// readImports accepts one statement per line, optionally prefixed by the file
// it came from. Lines mentioning the crate that cannot be expanded are passed
// through unchanged so the resolver reports them.
func (a *App) readImports(r io.Reader) ([]string, error) {
	extractor := a.scanner.Extractor()
	marker := extractor.Crate() + "::"

	var found []scanner.Import
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		file, text, _ := scanner.SplitSearchLine(line)
		expanded := extractor.ExpandStatement(text)
		if len(expanded) == 0 {
			if !strings.Contains(text, marker) {
				continue
			}
			expanded = []string{strings.TrimSpace(text)}
		}
		for _, raw := range expanded {
			found = append(found, scanner.Import{File: file, Line: lineNo, Raw: raw})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read imports: %w", err)
	}
	return scanner.Dedup(found), nil
}

func (a *App) recordRun(res features.Result) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.lastRun = &RunState{
		RunID:       res.RunID,
		Features:    append([]string(nil), res.Features...),
		Imports:     res.Imports,
		Diagnostics: len(res.Diagnostics),
		FinishedAt:  time.Now().UTC(),
	}
}

// LastRun returns the most recent run, if any.
func (a *App) LastRun() (RunState, bool) {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	if a.lastRun == nil {
		return RunState{}, false
	}
	return *a.lastRun, true
}
