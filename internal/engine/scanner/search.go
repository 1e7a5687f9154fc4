package scanner

import "strings"

// SplitSearchLine splits a "path:text" search hit, as printed by grep-like
// tools with file names enabled. A line-number column ("path:12:text") is
// dropped too. ok is false when the line carries no file prefix.
func SplitSearchLine(line string) (file, text string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 || (i+1 < len(line) && line[i+1] == ':') {
		return "", line, false
	}
	file, text = line[:i], line[i+1:]
	if j := strings.IndexByte(text, ':'); j > 0 && isDigits(text[:j]) {
		text = text[j+1:]
	}
	return file, text, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Dedup returns the distinct raw paths of imports in first-seen order.
func Dedup(imports []Import) []string {
	seen := make(map[string]struct{}, len(imports))
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		if _, ok := seen[imp.Raw]; ok {
			continue
		}
		seen[imp.Raw] = struct{}{}
		out = append(out, imp.Raw)
	}
	return out
}
