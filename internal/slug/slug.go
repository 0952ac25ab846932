// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives the URL-safe identifiers that key apps within a
// subcategory. The output must stay byte-for-byte stable: stored records are
// addressed by it and clients recompute it from display names.
package slug

import (
	"regexp"
	"strings"
)

// nonAlphanumericRun matches every maximal run of characters outside [a-z0-9].
var nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a slug from the given display name.
// Example: "My Awesome App!" → "my-awesome-app"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericRun.ReplaceAllString(result, "-")
	result = strings.TrimPrefix(result, "-")
	result = strings.TrimSuffix(result, "-")
	return result
}
