package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single dashes, dashes trimmed. Falls
// back to the given default when nothing survives.
func Slugify(title, fallback string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// UniqueSlug derives a slug from the title and suffixes a counter until
// the exists probe reports it free.
func UniqueSlug(title, fallback string, exists func(string) (bool, error)) (string, error) {
	base := Slugify(title, fallback)
	slug := base
	for counter := 1; ; counter++ {
		taken, err := exists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(counter)
	}
}
