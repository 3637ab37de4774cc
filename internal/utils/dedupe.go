package utils

// ValueFilter deduplicates suggestion lists by Sinhala value, so two
// romanized spellings of the same word surface only once.
type ValueFilter struct {
	seen map[string]bool
}

// NewValueFilter creates an empty filter.
func NewValueFilter() *ValueFilter {
	return &ValueFilter{seen: make(map[string]bool)}
}

// ShouldInclude reports whether a value is new, and marks it as seen.
func (f *ValueFilter) ShouldInclude(value string) bool {
	if f.seen[value] {
		return false
	}
	f.seen[value] = true
	return true
}
