// Package download fetches catalog bodies over HTTP with bounded retries.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"winfeatures/internal/core/errors"
	"winfeatures/internal/shared/observability"
	"winfeatures/internal/shared/util"
)

// maxBodyBytes bounds a catalog download; features.json is a few MB.
const maxBodyBytes = 256 << 20

type Options struct {
	Timeout time.Duration
	// Retries is the number of attempts after the first one.
	Retries int
	// RetryRate limits attempts per second.
	RetryRate float64
	Client    *http.Client
}

type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	retries int
	limiter *util.Limiter
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Fetcher{
		client:  client,
		timeout: timeout,
		retries: retries,
		limiter: util.NewLimiter(opts.RetryRate, 1),
	}
}

// Fetch downloads url. Transport failures, 5xx, 408 and 429 are retried;
// other statuses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if err := f.limiter.Wait(ctx, 1); err != nil {
			return nil, f.fail(url, err)
		}
		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			observability.CatalogFetchTotal.WithLabelValues(observability.OutcomeDownload).Inc()
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		slog.Warn("catalog download failed, retrying", "url", url, "attempt", attempt+1, "error", err)
	}
	return nil, f.fail(url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, retryableStatus(resp.StatusCode), fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, false, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	return body, false, nil
}

func (f *Fetcher) fail(url string, err error) error {
	observability.CatalogFetchTotal.WithLabelValues(observability.OutcomeError).Inc()
	return errors.AddContext(
		errors.Wrap(err, errors.CodeUnavailable, "download features catalog"),
		errors.CtxURL, url,
	)
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}
