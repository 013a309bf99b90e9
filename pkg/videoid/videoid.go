package videoid

import "strings"

// IDLength is the fixed length of a YouTube video ID.
const IDLength = 11

// pathMarkers are the URL shapes that carry the video ID directly after them.
var pathMarkers = []string{"youtu.be/", "/embed/", "/v/"}

// Extract pulls the 11-character video ID out of an arbitrary input string.
// Accepted shapes: a bare ID, watch?v=, youtu.be/, /embed/, /v/ and /u/<n>/.
// Returns ("", false) when no shape matches; never panics on any input.
func Extract(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}

	if IsValid(s) {
		return s, true
	}

	// watch?v=ID, possibly with other query parameters around it
	if i := strings.Index(s, "watch?"); i >= 0 {
		query := s[i+len("watch?"):]
		if j := strings.IndexByte(query, '#'); j >= 0 {
			query = query[:j]
		}
		for _, kv := range strings.Split(query, "&") {
			if tok, ok := strings.CutPrefix(kv, "v="); ok && IsValid(tok) {
				return tok, true
			}
		}
	}

	for _, m := range pathMarkers {
		if i := strings.Index(s, m); i >= 0 {
			if tok := cutToken(s[i+len(m):]); IsValid(tok) {
				return tok, true
			}
		}
	}

	// Legacy /u/<index>/ID user-upload URLs carry one extra path segment
	if i := strings.Index(s, "/u/"); i >= 0 {
		rest := s[i+len("/u/"):]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			if tok := cutToken(rest[j+1:]); IsValid(tok) {
				return tok, true
			}
		}
	}

	return "", false
}

// IsValid reports whether s is a well-formed video ID: exactly 11 characters
// from the YouTube ID alphabet (alphanumeric, dash, underscore).
func IsValid(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// cutToken truncates the candidate at the first query/fragment delimiter.
func cutToken(s string) string {
	if i := strings.IndexAny(s, "?&#/"); i >= 0 {
		return s[:i]
	}
	return s
}
