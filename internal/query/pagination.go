// Package query normalizes untrusted list-query parameters.
package query

import "strings"

const (
	// DefaultLimit applies when a caller does not specify a page size.
	DefaultLimit = 20
	// MaxLimit caps the page size regardless of what the caller asked for.
	MaxLimit = 100
)

// Page holds normalized limit/offset values.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps limit to [1, MaxLimit] and offset to [0, inf).
// A non-positive limit clamps to 1; callers that want the default for an
// unspecified limit should use NormalizeDefault.
func Normalize(limit, offset int) Page {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// NormalizeDefault is Normalize with defaultLimit substituted when the caller
// left limit unset (0). defaultLimit itself is clamped too.
func NormalizeDefault(limit, offset, defaultLimit int) Page {
	if limit == 0 {
		limit = defaultLimit
	}
	return Normalize(limit, offset)
}

// SearchTerm trims a raw search query. Matching itself is delegated to the
// database's token-based full-text search; this only rejects blank input.
func SearchTerm(raw string) (string, bool) {
	term := strings.TrimSpace(raw)
	return term, term != ""
}
