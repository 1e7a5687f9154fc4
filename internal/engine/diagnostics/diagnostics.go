package diagnostics

import (
	"fmt"
	"log/slog"
	"sync"
)

type Severity string

const (
	SeverityInfo Severity = "info"
	SeverityWarn Severity = "warn"
)

type Kind string

const (
	KindNamespaceIndex    Kind = "namespace_index"
	KindFeatureIndex      Kind = "feature_index"
	KindUnparseable       Kind = "unparseable_import"
	KindItemNotFound      Kind = "item_not_found"
	KindNamespaceEmpty    Kind = "namespace_empty"
	KindCorrected         Kind = "corrected_namespace"
	KindAmbiguousFallback Kind = "ambiguous_fallback"
)

// Diagnostic is one non-fatal observation made while building the index or
// resolving imports.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	// Import is the raw import line the diagnostic concerns, if any.
	Import string
	// Original and Corrected are set for fallback corrections.
	Original  string
	Corrected string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(d Diagnostic)
}

// Log collects diagnostics in arrival order and mirrors them to slog.
type Log struct {
	mu      sync.Mutex
	entries []Diagnostic
	logger  *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Report(d Diagnostic) {
	l.mu.Lock()
	l.entries = append(l.entries, d)
	l.mu.Unlock()

	if l.logger == nil {
		return
	}
	attrs := []any{"kind", string(d.Kind)}
	if d.Import != "" {
		attrs = append(attrs, "import", d.Import)
	}
	if d.Original != "" {
		attrs = append(attrs, "original", d.Original, "corrected", d.Corrected)
	}
	switch d.Severity {
	case SeverityWarn:
		l.logger.Warn(d.Message, attrs...)
	default:
		l.logger.Info(d.Message, attrs...)
	}
}

// Entries returns a copy of everything reported so far.
func (l *Log) Entries() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Diagnostic, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns how many diagnostics of the given kind were reported.
func (l *Log) Count(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, d := range l.entries {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}
