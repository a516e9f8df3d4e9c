package utils

import (
	"regexp"
	"strings"
)

var (
	slugStripRegex    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRegex    = regexp.MustCompile(`\s+`)
	slugCollapseRegex = regexp.MustCompile(`-+`)
)

// SlugPreview derives the organization slug the same way the server does:
// lowercase, strip non-alphanumerics, spaces to hyphens, collapse repeats.
// This is a preview only; the authoritative slug is computed server-side.
func SlugPreview(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripRegex.ReplaceAllString(slug, "")
	slug = slugSpaceRegex.ReplaceAllString(slug, "-")
	slug = slugCollapseRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
