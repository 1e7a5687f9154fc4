// Package catalogstore keeps downloaded catalog bodies between runs.
package catalogstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Store caches raw catalog bodies by key (the catalog URL).
type Store interface {
	// Get returns the cached body and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Nop never caches.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Put(context.Context, string, []byte) error         { return nil }
func (Nop) Delete(context.Context, string) error              { return nil }
func (Nop) Close() error                                      { return nil }

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName derives a stable cache file name for key. URLs whose last path
// element is features.json keep that name prefixed by a short hash so that
// different catalog versions do not collide.
func FileName(key string) string {
	base := "catalog.json"
	if u, err := url.Parse(key); err == nil && u.Path != "" {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			base = b
		}
	}
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "catalog.json"
	}
	return checksum([]byte(key))[:12] + "-" + base
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
