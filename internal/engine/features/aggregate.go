// Package features drives parsing and resolution over a batch of raw import
// statements and merges the results into one sorted feature list.
package features

import (
	"fmt"
	"log/slog"

	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/engine/diagnostics"
	"winfeatures/internal/engine/imports"
	"winfeatures/internal/engine/resolver"
	"winfeatures/internal/shared/observability"

	"github.com/google/uuid"
)

type Options struct {
	// RootLabel replaces the crate marker when forming namespace paths.
	RootLabel string
	// Logger mirrors diagnostics; nil keeps them silent.
	Logger *slog.Logger
}

// Result is the outcome of one aggregation run.
type Result struct {
	RunID string
	// Features is sorted and duplicate-free.
	Features    []string
	Diagnostics []diagnostics.Diagnostic
	Imports     int
	Unparsed    int
}

type Aggregator struct {
	index  *catalog.Index
	parser *imports.Parser
	logger *slog.Logger
}

// NewAggregator prepares an aggregator over a prebuilt index so repeated runs
// (watch mode) do not rebuild it.
func NewAggregator(index *catalog.Index, opts Options) *Aggregator {
	return &Aggregator{
		index:  index,
		parser: imports.NewParser(opts.RootLabel),
		logger: opts.Logger,
	}
}

// Run resolves every raw import in order and unions the results.
func (a *Aggregator) Run(raws []string) Result {
	runID := uuid.NewString()
	logger := a.logger
	if logger != nil {
		logger = logger.With("run_id", runID)
	}
	log := diagnostics.NewLog(logger)
	return a.run(runID, raws, log)
}

func (a *Aggregator) run(runID string, raws []string, log *diagnostics.Log) Result {
	res := resolver.NewResolver(a.index, log)
	acc := make(catalog.FeatureSet)
	unparsed := 0

	for _, raw := range raws {
		ref, ok := a.parser.Parse(raw)
		if !ok {
			unparsed++
			observability.ResolutionsTotal.WithLabelValues(observability.OutcomeUnparsed).Inc()
			observability.DiagnosticsTotal.WithLabelValues(string(diagnostics.KindUnparseable)).Inc()
			log.Report(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarn,
				Kind:     diagnostics.KindUnparseable,
				Message:  fmt.Sprintf("could not determine namespace and item for import: %s", raw),
				Import:   raw,
			})
			continue
		}
		acc.Union(res.Resolve(ref))
	}

	features := acc.Sorted()
	observability.RequiredFeatures.Set(float64(len(features)))
	return Result{
		RunID:       runID,
		Features:    features,
		Diagnostics: log.Entries(),
		Imports:     len(raws),
		Unparsed:    unparsed,
	}
}

// ResolveAll builds the index from cat once and resolves raws against it.
// Index construction diagnostics come first in the result.
func ResolveAll(raws []string, cat *catalog.Catalog, opts Options) Result {
	runID := uuid.NewString()
	logger := opts.Logger
	if logger != nil {
		logger = logger.With("run_id", runID)
	}
	log := diagnostics.NewLog(logger)
	index := catalog.Build(cat, log)
	observability.IndexKeys.Set(float64(index.Len()))

	a := &Aggregator{index: index, parser: imports.NewParser(opts.RootLabel)}
	return a.run(runID, raws, log)
}
