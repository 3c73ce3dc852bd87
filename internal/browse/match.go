package browse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel_browser/internal/domain"
)

// MinQueryLength is the shortest query that triggers matching.
const MinQueryLength = 3

// Match returns the index entries whose name or city contains query,
// case-insensitively, in index order. Queries shorter than MinQueryLength
// match nothing.
func Match(index []domain.SearchIndexEntry, query string) []domain.SearchIndexEntry {
	out := []domain.SearchIndexEntry{}
	if !Active(query) {
		return out
	}
	lower := cases.Lower(language.Und)
	q := lower.String(query)
	for _, e := range index {
		if strings.Contains(lower.String(e.Name), q) || strings.Contains(lower.String(e.City), q) {
			out = append(out, e)
		}
	}
	return out
}

// Active reports whether query is long enough to search.
func Active(query string) bool {
	return utf8.RuneCountInString(query) >= MinQueryLength
}
