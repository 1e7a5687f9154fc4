package catalog

import "sort"

// FeatureSet is an unordered, deduplicated set of feature names.
type FeatureSet map[string]struct{}

func NewFeatureSet(names ...string) FeatureSet {
	s := make(FeatureSet, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

func (s FeatureSet) Add(name string) {
	s[name] = struct{}{}
}

func (s FeatureSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every member of other to s.
func (s FeatureSet) Union(other FeatureSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

func (s FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(s))
	out.Union(s)
	return out
}

// Sorted returns the members in ascending order.
func (s FeatureSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
