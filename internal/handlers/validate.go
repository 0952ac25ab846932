package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"portfolio/internal/models"
)

// Validation limits for catalog fields.
const (
	maxKeyLen     = 100
	maxNameLen    = 200
	maxShortLen   = 500 // tagline, blurb, gradient, icon keys, status
	maxDescLen    = 1_000
	maxDetailsLen = 20_000
	maxURLLen     = 2_048
)

// field is one named value checked against a length cap.
type field struct {
	name  string
	value string
	max   int
}

// checkLengths returns the first field that exceeds its cap.
func checkLengths(fields ...field) string {
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Sprintf("%s is too long (max %d characters).", f.name, f.max)
		}
	}
	return ""
}

// validateCategory checks category inputs and returns the first error found.
// Key format is checked by the store.
func validateCategory(c models.Category) string {
	if strings.TrimSpace(c.Name) == "" {
		return "name is required."
	}
	return checkLengths(
		field{"catKey", c.CatKey, maxKeyLen},
		field{"name", c.Name, maxNameLen},
		field{"tagline", c.Tagline, maxShortLen},
		field{"gradient", c.Gradient, maxShortLen},
		field{"iconKey", c.IconKey, maxShortLen},
		field{"status", c.Status, maxShortLen},
	)
}

// validateSubcategory checks subcategory inputs.
func validateSubcategory(s models.Subcategory) string {
	if strings.TrimSpace(s.Name) == "" {
		return "name is required."
	}
	return checkLengths(
		field{"catKey", s.CatKey, maxKeyLen},
		field{"subKey", s.SubKey, maxKeyLen},
		field{"name", s.Name, maxNameLen},
		field{"blurb", s.Blurb, maxShortLen},
		field{"iconKey", s.IconKey, maxShortLen},
		field{"status", s.Status, maxShortLen},
	)
}

// validateApp checks the inputs of a new app.
func validateApp(a models.App) string {
	if strings.TrimSpace(a.Name) == "" {
		return "name is required."
	}
	return checkLengths(
		field{"catKey", a.CatKey, maxKeyLen},
		field{"subKey", a.SubKey, maxKeyLen},
		field{"name", a.Name, maxNameLen},
		field{"desc", a.Desc, maxDescLen},
		field{"details", a.Details, maxDetailsLen},
		field{"mediaUrl", a.MediaURL, maxURLLen},
		field{"thumbUrl", a.ThumbURL, maxURLLen},
		field{"publicUrl", a.PublicURL, maxURLLen},
		field{"iconUploadUrl", a.IconUploadURL, maxURLLen},
		field{"iconId", a.IconID, maxShortLen},
		field{"iconSource", a.IconSource, maxShortLen},
		field{"status", a.Status, maxShortLen},
	)
}

// validatePatch checks the present fields of an app update.
func validatePatch(p models.AppPatch) string {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return "name cannot be empty."
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return checkLengths(
		field{"name", deref(p.Name), maxNameLen},
		field{"desc", deref(p.Desc), maxDescLen},
		field{"details", deref(p.Details), maxDetailsLen},
		field{"mediaUrl", deref(p.MediaURL), maxURLLen},
		field{"thumbUrl", deref(p.ThumbURL), maxURLLen},
		field{"publicUrl", deref(p.PublicURL), maxURLLen},
		field{"iconUploadUrl", deref(p.IconUploadURL), maxURLLen},
		field{"iconId", deref(p.IconID), maxShortLen},
		field{"iconSource", deref(p.IconSource), maxShortLen},
		field{"status", deref(p.Status), maxShortLen},
	)
}
