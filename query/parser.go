package query

import (
	"strings"

	"github.com/catalook/catalook/core"
)

// Parse splits a raw query into normalized search terms.
//
// The input is split on commas; each piece is trimmed of surrounding
// whitespace, empty pieces are dropped, and the rest are lower-cased.
// An empty or whitespace-only input yields an empty list, meaning
// "no text constraint".
func Parse(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pieces := strings.Split(raw, ",")
	terms := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		terms = append(terms, strings.ToLower(piece))
	}
	return terms
}

// MatchRecord reports whether a record matches a normalized term list.
//
// A record matches when at least one term occurs as a case-insensitive
// substring of at least one field value (OR across terms, OR across
// fields). An empty term list matches every record.
func MatchRecord(record core.Record, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, value := range record.Values {
		lowered := strings.ToLower(value)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				return true
			}
		}
	}
	return false
}
