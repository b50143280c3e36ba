package grid

import "strings"

// AliasTable is a user-extensible, case-insensitive map from source tokens
// to canonical command names, applied to every cell before parsing. It is a
// process-wide, read-mostly structure: safe for concurrent reads, but
// callers mutating it concurrently with an in-flight Preprocess must
// synchronize externally (spec.md §5).
type AliasTable struct {
	mappings map[string]string // lowercase alternative -> lowercase canonical
}

// defaultMappings is the required set from spec.md §4.2, always present at
// startup.
var defaultMappings = map[string]string{
	"mov":       "move",
	"pen_on":    "pen_down",
	"pen_off":   "pen_up",
	"black_on":  "black_detected",
	"black_off": "black_lost",
}

// NewAliasTable returns a table seeded with the required default mappings.
func NewAliasTable() *AliasTable {
	t := &AliasTable{mappings: make(map[string]string, len(defaultMappings))}
	for k, v := range defaultMappings {
		t.mappings[k] = v
	}
	return t
}

// AddMapping registers or overwrites an alternative -> canonical mapping.
func (t *AliasTable) AddMapping(alternative, canonical string) {
	t.mappings[strings.ToLower(alternative)] = strings.ToLower(canonical)
}

// RemoveMapping deletes a mapping, reporting whether it existed.
func (t *AliasTable) RemoveMapping(alternative string) bool {
	key := strings.ToLower(alternative)
	if _, ok := t.mappings[key]; !ok {
		return false
	}
	delete(t.mappings, key)
	return true
}

// Mappings returns a copy of the current alternative -> canonical map.
func (t *AliasTable) Mappings() map[string]string {
	out := make(map[string]string, len(t.mappings))
	for k, v := range t.mappings {
		out[k] = v
	}
	return out
}

// Preprocess rewrites every cell whose trimmed, lowercased text matches a
// registered alias to its canonical spelling, preserving the original
// cell's case convention (all-caps, Title Case, or as-is) and its leading
// and trailing whitespace padding. The input grid is not mutated.
func (t *AliasTable) Preprocess(g Grid) Grid {
	out := g.Clone()

	for r, row := range out {
		for c, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}

			canonical, ok := t.mappings[strings.ToLower(trimmed)]
			if !ok {
				continue
			}

			rewritten := applyCaseStyle(trimmed, canonical)
			out[r][c] = restorePadding(cell, rewritten)
		}
	}

	return out
}

func applyCaseStyle(original, canonical string) string {
	switch {
	case isAllUpper(original):
		return strings.ToUpper(canonical)
	case isTitleCase(original):
		return strings.Title(canonical) //nolint:staticcheck // matches the original's ad-hoc title-casing, not locale-aware
	default:
		return canonical
	}
}

func isAllUpper(s string) bool {
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}

func isTitleCase(s string) bool {
	return s == strings.Title(s) //nolint:staticcheck
}

// restorePadding re-applies the leading/trailing whitespace run lengths
// from the original cell onto the replacement text.
func restorePadding(original, replacement string) string {
	leading := len(original) - len(strings.TrimLeft(original, " \t"))
	trailing := len(original) - len(strings.TrimRight(original, " \t"))
	return original[:leading] + replacement + original[len(original)-trailing:]
}
