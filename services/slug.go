package services

import (
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// FallbackSlug is used when a display name has no usable characters
const FallbackSlug = "option"

// Slugify converts a display name into a lowercase, hyphenated slug
func Slugify(displayName string) string {
	slug := strings.ToLower(displayName)

	// Remove special characters (keep alphanumerics, whitespace and hyphens)
	slug = slugStrip.ReplaceAllString(slug, "")

	// Whitespace runs become a single hyphen
	slug = slugWhitespace.ReplaceAllString(slug, "-")

	// Remove consecutive hyphens
	slug = slugHyphens.ReplaceAllString(slug, "-")

	// Trim hyphens from start and end
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return FallbackSlug
	}
	return slug
}

// GenerateUniqueName returns a slug for displayName that is not yet used in table.
// Collisions get a numeric suffix: base, base-1, base-2, ...
func GenerateUniqueName(tx *gorm.DB, table string, displayName string) (string, error) {
	base := Slugify(displayName)
	candidate := base
	counter := 1
	for {
		var count int64
		if err := tx.Table(table).Where("name = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
		counter++
	}
}
