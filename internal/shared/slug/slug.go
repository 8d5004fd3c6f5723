package slug

import (
	"regexp"
	"strings"
)

var nonSegment = regexp.MustCompile(`[^a-z0-9_]+`)

// Segment lowercases s and collapses everything outside [a-z0-9_] into a
// single dash so the result is safe inside a storage path or public id.
func Segment(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSegment.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")
	if s == "" {
		return fallback
	}
	return s
}
