// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"strings"
)

// Kind identifies which level of the catalog a Key addresses.
type Kind int

const (
	KindCategory Kind = iota + 1
	KindSubcategory
	KindApp
)

// String returns the entity type name persisted alongside each record.
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "Category"
	case KindSubcategory:
		return "Subcategory"
	case KindApp:
		return "App"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key is the composite identity of a catalog record. Unused parts are empty:
// a category key has only CatKey, a subcategory key has no Slug.
type Key struct {
	Kind   Kind
	CatKey string
	SubKey string
	Slug   string
}

// CategoryKey returns the key of a category.
func CategoryKey(catKey string) Key {
	return Key{Kind: KindCategory, CatKey: catKey}
}

// SubcategoryKey returns the key of a subcategory.
func SubcategoryKey(catKey, subKey string) Key {
	return Key{Kind: KindSubcategory, CatKey: catKey, SubKey: subKey}
}

// AppKey returns the key of an app.
func AppKey(catKey, subKey, slug string) Key {
	return Key{Kind: KindApp, CatKey: catKey, SubKey: subKey, Slug: slug}
}

// String renders the key as a slash-separated path, e.g. "ai/education/ai-tutor".
func (k Key) String() string {
	switch k.Kind {
	case KindSubcategory:
		return k.CatKey + "/" + k.SubKey
	case KindApp:
		return k.CatKey + "/" + k.SubKey + "/" + k.Slug
	default:
		return k.CatKey
	}
}

// Persisted key layout. The partition key names the parent path and the
// sort key discriminates the child:
//
//	category     CAT#<cat>            META
//	subcategory  CAT#<cat>            SUB#<sub>
//	app          CAT#<cat>#SUB#<sub>  APP#<slug>
const (
	catPrefix = "CAT#"
	subPrefix = "SUB#"
	appPrefix = "APP#"
	metaSK    = "META"
)

// encode returns the partition and sort key strings for k.
func (k Key) encode() (pk, sk string) {
	switch k.Kind {
	case KindCategory:
		return catPrefix + k.CatKey, metaSK
	case KindSubcategory:
		return catPrefix + k.CatKey, subPrefix + k.SubKey
	case KindApp:
		return catPrefix + k.CatKey + "#" + subPrefix + k.SubKey, appPrefix + k.Slug
	}
	return "", ""
}

// categoryPK is the partition holding a category and its subcategories.
func categoryPK(catKey string) string {
	return catPrefix + catKey
}

// appsPK is the partition holding the apps of one subcategory.
func appsPK(catKey, subKey string) string {
	return catPrefix + catKey + "#" + subPrefix + subKey
}

// decodeKey is the inverse of encode.
func decodeKey(pk, sk string) (Key, error) {
	rest, ok := strings.CutPrefix(pk, catPrefix)
	if !ok {
		return Key{}, fmt.Errorf("decode key %q/%q: missing %s prefix", pk, sk, catPrefix)
	}
	catKey, subKey, nested := strings.Cut(rest, "#"+subPrefix)

	switch {
	case sk == metaSK && !nested:
		return CategoryKey(catKey), nil
	case strings.HasPrefix(sk, subPrefix) && !nested:
		return SubcategoryKey(catKey, strings.TrimPrefix(sk, subPrefix)), nil
	case strings.HasPrefix(sk, appPrefix) && nested:
		return AppKey(catKey, subKey, strings.TrimPrefix(sk, appPrefix)), nil
	}
	return Key{}, fmt.Errorf("decode key %q/%q: unknown layout", pk, sk)
}

// validateKeyPart rejects key components the persisted layout or the API
// paths cannot represent.
func validateKeyPart(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if strings.ContainsAny(v, "#/") {
		return &ValidationError{Field: field, Message: "must not contain '#' or '/'"}
	}
	return nil
}
