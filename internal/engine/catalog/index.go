package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"winfeatures/internal/engine/diagnostics"
	"winfeatures/internal/shared/util"
)

// Index maps qualified item keys ("<namespace>.<item>") to the features they
// require. It is immutable once built and safe for concurrent readers.
type Index struct {
	features map[string]FeatureSet
	// keys holds every qualified key in ascending order.
	keys []string
	// byItem and byFoldedItem map an item name (exact / lower-cased) to the
	// qualified keys that end with it, in ascending order.
	byItem       map[string][]string
	byFoldedItem map[string][]string
}

// Match is the outcome of a lookup by item name.
type Match struct {
	Key      string
	Features FeatureSet
	// Candidates is the number of qualified keys that matched the name.
	Candidates int
}

// Build derives an Index from cat. Out-of-range or malformed indexes are
// reported to sink and skipped. Keys that end up with no resolvable feature
// are left out of the index.
func Build(cat *Catalog, sink diagnostics.Sink) *Index {
	if sink == nil {
		sink = diagnostics.Discard
	}
	idx := &Index{
		features:     make(map[string]FeatureSet),
		byItem:       make(map[string][]string),
		byFoldedItem: make(map[string][]string),
	}
	if cat == nil {
		return idx
	}

	for _, rawKey := range util.SortedStringKeys(cat.Namespaces) {
		nsIndex, err := strconv.ParseUint(strings.TrimSpace(rawKey), 10, 0)
		if err != nil {
			sink.Report(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarn,
				Kind:     diagnostics.KindNamespaceIndex,
				Message:  fmt.Sprintf("invalid namespace index %q", rawKey),
			})
			continue
		}
		if nsIndex >= uint64(len(cat.NamespaceMap)) {
			sink.Report(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarn,
				Kind:     diagnostics.KindNamespaceIndex,
				Message:  fmt.Sprintf("index %d out of range for namespace_map", nsIndex),
			})
			continue
		}
		namespace := cat.NamespaceMap[nsIndex]

		for _, entry := range cat.Namespaces[rawKey] {
			key := namespace + "." + entry.Name
			for _, fi := range entry.Features {
				if fi < 0 || fi >= len(cat.FeatureMap) {
					sink.Report(diagnostics.Diagnostic{
						Severity: diagnostics.SeverityWarn,
						Kind:     diagnostics.KindFeatureIndex,
						Message:  fmt.Sprintf("feature index %d out of bounds for feature_map (item %s)", fi, key),
					})
					continue
				}
				set, ok := idx.features[key]
				if !ok {
					set = make(FeatureSet)
					idx.features[key] = set
				}
				set.Add(cat.FeatureMap[fi])
			}
		}
	}

	idx.keys = util.SortedStringKeys(idx.features)
	for _, key := range idx.keys {
		item := itemName(key)
		idx.byItem[item] = append(idx.byItem[item], key)
		folded := strings.ToLower(item)
		idx.byFoldedItem[folded] = append(idx.byFoldedItem[folded], key)
	}
	return idx
}

// Len returns the number of qualified keys.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Keys returns every qualified key in ascending order.
func (idx *Index) Keys() []string {
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Exact looks up a qualified key.
func (idx *Index) Exact(key string) (FeatureSet, bool) {
	set, ok := idx.features[key]
	if !ok || len(set) == 0 {
		return nil, false
	}
	return set.Clone(), true
}

// ByNamespacePrefix unions the features of every key under namespace,
// including nested namespaces. Matching is on whole segments: "A.B" does not
// match keys under "A.Bc".
func (idx *Index) ByNamespacePrefix(namespace string) FeatureSet {
	out := make(FeatureSet)
	if namespace == "" {
		return out
	}
	prefix := namespace + "."
	start := sort.SearchStrings(idx.keys, prefix)
	for _, key := range idx.keys[start:] {
		if !strings.HasPrefix(key, prefix) {
			break
		}
		out.Union(idx.features[key])
	}
	return out
}

// ByItemName finds a key whose final segment equals item, ignoring namespace.
// With caseInsensitive set, exact-case candidates are preferred over folded
// ones; within each group the lexicographically smallest key wins.
func (idx *Index) ByItemName(item string, caseInsensitive bool) (Match, bool) {
	if item == "" {
		return Match{}, false
	}
	exact := idx.byItem[item]
	if !caseInsensitive {
		if len(exact) == 0 {
			return Match{}, false
		}
		return Match{Key: exact[0], Features: idx.features[exact[0]].Clone(), Candidates: len(exact)}, true
	}

	folded := idx.byFoldedItem[strings.ToLower(item)]
	if len(folded) == 0 {
		return Match{}, false
	}
	chosen := folded[0]
	if len(exact) > 0 {
		chosen = exact[0]
	}
	return Match{Key: chosen, Features: idx.features[chosen].Clone(), Candidates: len(folded)}, true
}

func itemName(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}
