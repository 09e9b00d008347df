package domain

import (
	"strings"

	"github.com/gosimple/slug"
)

// ColorTable supplies the fallback colors for statuses without their own.
type ColorTable interface {
	DefaultColor() string
	FallbackColor(slug string) (string, bool)
}

// ColorClass maps a status to its display color class. It never fails:
// a nil status or an unmapped slug yields the table's default color.
func ColorClass(status *Status, table ColorTable) string {
	if status == nil {
		return table.DefaultColor()
	}
	if status.Color != nil {
		if color := strings.TrimSpace(*status.Color); color != "" {
			return *status.Color
		}
	}
	if color, ok := table.FallbackColor(NormalizeSlug(status.Slug)); ok {
		return color
	}
	return table.DefaultColor()
}

// NormalizeSlug canonicalizes a status slug, so "Paid" and " paid" match the
// same table entry.
func NormalizeSlug(value string) string {
	return slug.Make(value)
}
