// Package pathutil provides URL path helpers for the HTTP layer.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/collection/items/[^/]+/notes$`), Template: "/api/collection/items/:id/notes"},
	{Pattern: regexp.MustCompile(`^/api/collection/items/[^/]+$`), Template: "/api/collection/items/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. Paths carrying artifact ids collapse to a
// template; static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/api/collection/items/met-24086")        // "/api/collection/items/:id"
//	NormalizePath("/api/collection/items/met-24086/notes")  // "/api/collection/items/:id/notes"
//	NormalizePath("/api/search")                            // "/api/search" (unchanged)
//	NormalizePath("/health")                                // "/health" (unchanged)
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return path
}
