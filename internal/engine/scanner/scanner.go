// Package scanner discovers crate imports in Rust sources.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const sourceExt = ".rs"

type Options struct {
	Crate        string
	ExcludeDirs  []string
	ExcludeFiles []string
	// Cache is optional; watch mode passes one so unchanged files are not
	// parsed again.
	Cache *Cache
}

type Scanner struct {
	extractor *Extractor
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
	cache     *Cache
}

func New(opts Options) (*Scanner, error) {
	dirGlobs, err := compileGlobs(opts.ExcludeDirs)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude dir pattern: %w", err)
	}
	fileGlobs, err := compileGlobs(opts.ExcludeFiles)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude file pattern: %w", err)
	}
	return &Scanner{
		extractor: NewExtractor(opts.Crate),
		dirGlobs:  dirGlobs,
		fileGlobs: fileGlobs,
		cache:     opts.Cache,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *Scanner) Extractor() *Extractor {
	return s.extractor
}

// ScanDirectories walks every root and returns the imports of all Rust files
// that are not excluded. Files that cannot be read are logged and skipped.
func (s *Scanner) ScanDirectories(roots []string) ([]Import, error) {
	var found []Import
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && matchAny(s.dirGlobs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !s.acceptsFile(path) {
				return nil
			}
			imports, err := s.ScanFile(path)
			if err != nil {
				slog.Warn("failed to scan file", "path", path, "error", err)
				return nil
			}
			found = append(found, imports...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return found, nil
}

// Accepts reports whether path is a Rust file not excluded by name or by any
// excluded parent directory.
func (s *Scanner) Accepts(path string) bool {
	if !s.acceptsFile(path) {
		return false
	}
	dir := filepath.Dir(path)
	for {
		if matchAny(s.dirGlobs, filepath.Base(dir)) {
			return false
		}
		next := filepath.Dir(dir)
		if next == dir {
			return true
		}
		dir = next
	}
}

func (s *Scanner) acceptsFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sourceExt) && !matchAny(s.fileGlobs, filepath.Base(path))
}

// ScanFile extracts the imports of a single file, consulting the cache.
func (s *Scanner) ScanFile(path string) ([]Import, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(path, info); ok {
		return cached, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	imports, err := s.extractor.Extract(path, content)
	if err != nil {
		return nil, err
	}
	s.cache.Put(path, info, imports)
	return imports, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
