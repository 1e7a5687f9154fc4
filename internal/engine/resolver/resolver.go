// Package resolver maps parsed import references to the features they need,
// falling back to a name-only search when the namespace in the import is
// wrong.
package resolver

import (
	"fmt"

	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/engine/diagnostics"
	"winfeatures/internal/engine/imports"
	"winfeatures/internal/shared/observability"
)

// Lookup is the part of catalog.Index the resolver relies on.
type Lookup interface {
	Exact(key string) (catalog.FeatureSet, bool)
	ByNamespacePrefix(namespace string) catalog.FeatureSet
	ByItemName(item string, caseInsensitive bool) (catalog.Match, bool)
}

type Resolver struct {
	index Lookup
	sink  diagnostics.Sink
}

func NewResolver(index Lookup, sink diagnostics.Sink) *Resolver {
	if sink == nil {
		sink = diagnostics.Discard
	}
	return &Resolver{index: index, sink: sink}
}

// Resolve returns the features ref requires. Misses never fail: they yield
// an empty set and a warning.
func (r *Resolver) Resolve(ref imports.Reference) catalog.FeatureSet {
	if ref.Wildcard {
		return r.resolveWildcard(ref)
	}
	return r.resolveItem(ref)
}

func (r *Resolver) resolveItem(ref imports.Reference) catalog.FeatureSet {
	key := ref.QualifiedKey()
	if set, ok := r.index.Exact(key); ok {
		observability.ResolutionsTotal.WithLabelValues(observability.OutcomeExact).Inc()
		return set
	}

	if match, ok := r.fallback(ref.Item); ok {
		observability.ResolutionsTotal.WithLabelValues(observability.OutcomeFallback).Inc()
		r.report(diagnostics.Diagnostic{
			Severity:  diagnostics.SeverityWarn,
			Kind:      diagnostics.KindCorrected,
			Message:   fmt.Sprintf("corrected namespace for %s to match existing item: %s", key, match.Key),
			Import:    ref.Raw,
			Original:  key,
			Corrected: match.Key,
		})
		if match.Candidates > 1 {
			r.report(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityInfo,
				Kind:     diagnostics.KindAmbiguousFallback,
				Message:  fmt.Sprintf("%d catalog items named %s; chose %s", match.Candidates, ref.Item, match.Key),
				Import:   ref.Raw,
			})
		}
		return match.Features
	}

	observability.ResolutionsTotal.WithLabelValues(observability.OutcomeMiss).Inc()
	r.report(diagnostics.Diagnostic{
		Severity: diagnostics.SeverityWarn,
		Kind:     diagnostics.KindItemNotFound,
		Message:  fmt.Sprintf("no features found for item: %s", key),
		Import:   ref.Raw,
	})
	return make(catalog.FeatureSet)
}

// fallback searches by item name alone, case-insensitively first.
func (r *Resolver) fallback(item string) (catalog.Match, bool) {
	if match, ok := r.index.ByItemName(item, true); ok && len(match.Features) > 0 {
		return match, true
	}
	if match, ok := r.index.ByItemName(item, false); ok && len(match.Features) > 0 {
		return match, true
	}
	return catalog.Match{}, false
}

func (r *Resolver) resolveWildcard(ref imports.Reference) catalog.FeatureSet {
	namespace := ref.Namespace.String()
	set := r.index.ByNamespacePrefix(namespace)
	if len(set) == 0 {
		observability.ResolutionsTotal.WithLabelValues(observability.OutcomeMiss).Inc()
		r.report(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityWarn,
			Kind:     diagnostics.KindNamespaceEmpty,
			Message:  fmt.Sprintf("no features found for namespace: %s", namespace),
			Import:   ref.Raw,
		})
		return make(catalog.FeatureSet)
	}
	observability.ResolutionsTotal.WithLabelValues(observability.OutcomeWildcard).Inc()
	return set
}

func (r *Resolver) report(d diagnostics.Diagnostic) {
	observability.DiagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
	r.sink.Report(d)
}
