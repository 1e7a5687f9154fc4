package app

import (
	"context"
	"log/slog"
	"os"

	"winfeatures/internal/core/errors"
	"winfeatures/internal/engine/catalog"
	"winfeatures/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
)

// LoadCatalog returns the feature catalog from the configured local file, the
// cache, or a fresh download, in that order. Unreadable cache entries are
// evicted and downloaded again.
func (a *App) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.LoadCatalog")
	defer span.End()

	if path := a.Config.Catalog.Path; path != "" {
		span.SetAttributes(attribute.String("catalog.source", "local"))
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read local catalog"), errors.CtxPath, path)
		}
		cat, err := catalog.DecodeBytes(body)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, path)
		}
		observability.CatalogFetchTotal.WithLabelValues(observability.OutcomeLocal).Inc()
		return cat, nil
	}

	key := a.Config.Catalog.URL
	span.SetAttributes(attribute.String("catalog.url", key))

	if !a.refresh {
		if cat, ok := a.cachedCatalog(ctx, key); ok {
			span.SetAttributes(attribute.String("catalog.source", "cache"))
			observability.CatalogFetchTotal.WithLabelValues(observability.OutcomeCacheHit).Inc()
			return cat, nil
		}
		observability.CatalogFetchTotal.WithLabelValues(observability.OutcomeCacheMiss).Inc()
	}

	span.SetAttributes(attribute.String("catalog.source", "download"))
	slog.Info("downloading features catalog", "url", key)
	body, err := a.fetcher.Fetch(ctx, key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	cat, err := catalog.DecodeBytes(body)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxURL, key)
	}
	if err := a.store.Put(ctx, key, body); err != nil {
		slog.Warn("failed to cache features catalog", "url", key, "error", err)
	}
	return cat, nil
}

func (a *App) cachedCatalog(ctx context.Context, key string) (*catalog.Catalog, bool) {
	body, ok, err := a.store.Get(ctx, key)
	switch {
	case err != nil && errors.IsCode(err, errors.CodeCorrupt):
		slog.Warn("cached catalog is corrupt, evicting", "url", key, "error", err)
		a.evict(ctx, key)
		return nil, false
	case err != nil:
		slog.Warn("catalog cache unavailable", "url", key, "error", err)
		return nil, false
	case !ok:
		return nil, false
	}

	cat, err := catalog.DecodeBytes(body)
	if err != nil {
		slog.Warn("cached catalog is invalid, evicting", "url", key, "error", err)
		a.evict(ctx, key)
		return nil, false
	}
	slog.Debug("using cached features catalog", "url", key)
	return cat, true
}

func (a *App) evict(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		slog.Warn("failed to evict cached catalog", "url", key, "error", err)
	}
}
