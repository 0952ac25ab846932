// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// App is a leaf of the catalog, identified by (CatKey, SubKey, Slug).
// Slug is derived from Name at creation and never changes afterwards.
type App struct {
	CatKey        string    `json:"catKey"`
	SubKey        string    `json:"subKey"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Desc          string    `json:"desc"`
	Details       string    `json:"details"`
	MediaURL      string    `json:"mediaUrl"`
	ThumbURL      string    `json:"thumbUrl"`
	PublicURL     string    `json:"publicUrl"`
	IconIndex     int       `json:"iconIndex"`
	IconID        string    `json:"iconId"`
	IconSource    string    `json:"iconSource"`
	IconUploadURL string    `json:"iconUploadUrl"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AppPatch lists every mutable App attribute as an optional value. A nil
// field is left untouched by an update; a non-nil field overwrites, even
// with the zero value. Key fields and CreatedAt are not patchable.
//
// Marshalling a patch yields only the present fields, which is what the
// Postgres adapter merges into the stored document.
type AppPatch struct {
	Name          *string `json:"name,omitempty"`
	Desc          *string `json:"desc,omitempty"`
	Details       *string `json:"details,omitempty"`
	MediaURL      *string `json:"mediaUrl,omitempty"`
	ThumbURL      *string `json:"thumbUrl,omitempty"`
	PublicURL     *string `json:"publicUrl,omitempty"`
	IconIndex     *int    `json:"iconIndex,omitempty"`
	IconID        *string `json:"iconId,omitempty"`
	IconSource    *string `json:"iconSource,omitempty"`
	IconUploadURL *string `json:"iconUploadUrl,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p *AppPatch) IsEmpty() bool {
	return *p == AppPatch{}
}

// Apply merges the present fields into a.
func (p *AppPatch) Apply(a *App) {
	setString(&a.Name, p.Name)
	setString(&a.Desc, p.Desc)
	setString(&a.Details, p.Details)
	setString(&a.MediaURL, p.MediaURL)
	setString(&a.ThumbURL, p.ThumbURL)
	setString(&a.PublicURL, p.PublicURL)
	if p.IconIndex != nil {
		a.IconIndex = *p.IconIndex
	}
	setString(&a.IconID, p.IconID)
	setString(&a.IconSource, p.IconSource)
	setString(&a.IconUploadURL, p.IconUploadURL)
	setString(&a.Status, p.Status)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// WithDefaults returns a copy with an empty status replaced by StatusActive.
func (a App) WithDefaults() App {
	if a.Status == "" {
		a.Status = StatusActive
	}
	return a
}
