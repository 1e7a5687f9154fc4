package scanner

import (
	"io/fs"

	"winfeatures/internal/shared/observability"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 4096

type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

// Cache remembers the imports of unchanged files between scans. An entry is
// only reused while the file's modification time and size stay the same.
type Cache struct {
	entries *lru.Cache[cacheKey, []Import]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, []Import](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func keyFor(path string, info fs.FileInfo) cacheKey {
	return cacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
}

func (c *Cache) Get(path string, info fs.FileInfo) ([]Import, bool) {
	if c == nil {
		return nil, false
	}
	found, ok := c.entries.Get(keyFor(path, info))
	if !ok {
		observability.ScanCacheTotal.WithLabelValues(observability.OutcomeCacheMiss).Inc()
		return nil, false
	}
	observability.ScanCacheTotal.WithLabelValues(observability.OutcomeCacheHit).Inc()
	out := make([]Import, len(found))
	copy(out, found)
	return out, true
}

func (c *Cache) Put(path string, info fs.FileInfo, found []Import) {
	if c == nil {
		return
	}
	stored := make([]Import, len(found))
	copy(stored, found)
	c.entries.Add(keyFor(path, info), stored)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
