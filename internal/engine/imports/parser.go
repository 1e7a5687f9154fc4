// Package imports turns flat import statements such as
// `windows::Win32::Foundation::HWND;` into namespace references.
package imports

import (
	"strings"
)

const (
	// SegmentDelimiter separates path segments in an import statement.
	SegmentDelimiter = "::"
	// Wildcard is the final segment of a glob import.
	Wildcard = "*"
	// DefaultRootLabel is the catalog's root namespace segment.
	DefaultRootLabel = "Windows"

	terminator = ";"
)

// Path is a namespace path held as segments, root label first.
type Path []string

// String renders the dotted catalog form, e.g. "Windows.Win32.Foundation".
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Reference is a parsed import: a namespace plus an item or a wildcard.
type Reference struct {
	Namespace Path
	// Item is empty for wildcard references.
	Item     string
	Wildcard bool
	// Raw is the statement the reference was parsed from.
	Raw string
}

// QualifiedKey returns "<namespace>.<item>", or the namespace alone for a
// wildcard reference.
func (r Reference) QualifiedKey() string {
	if r.Wildcard {
		return r.Namespace.String()
	}
	return r.Namespace.String() + "." + r.Item
}

type Parser struct {
	rootLabel string
}

func NewParser(rootLabel string) *Parser {
	rootLabel = strings.TrimSpace(rootLabel)
	if rootLabel == "" {
		rootLabel = DefaultRootLabel
	}
	return &Parser{rootLabel: rootLabel}
}

// Parse splits raw into namespace and item. The first segment is the crate
// marker and is replaced by the root label. It reports false when the line
// has fewer than three segments or an empty segment.
func (p *Parser) Parse(raw string) (Reference, bool) {
	line := strings.TrimSpace(raw)
	line = strings.TrimSpace(strings.TrimRight(line, terminator))
	if line == "" {
		return Reference{}, false
	}

	tokens := strings.Split(line, SegmentDelimiter)
	if len(tokens) < 3 {
		return Reference{}, false
	}

	last := stripAlias(tokens[len(tokens)-1])
	if last == "" {
		return Reference{}, false
	}

	middle := tokens[1 : len(tokens)-1]
	ns := make(Path, 0, len(middle)+1)
	ns = append(ns, p.rootLabel)
	for _, tok := range middle {
		seg := strings.TrimSpace(tok)
		if seg == "" {
			return Reference{}, false
		}
		ns = append(ns, seg)
	}

	ref := Reference{Namespace: ns, Raw: raw}
	if last == Wildcard {
		ref.Wildcard = true
		return ref, true
	}
	ref.Item = last
	return ref, true
}

// Parse uses the default root label.
func Parse(raw string) (Reference, bool) {
	return NewParser(DefaultRootLabel).Parse(raw)
}

// stripAlias drops a trailing `as name` rename from the final segment.
func stripAlias(tok string) string {
	fields := strings.Fields(tok)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) == 3 && fields[1] == "as" {
		return fields[0]
	}
	if len(fields) != 1 {
		return ""
	}
	return fields[0]
}
