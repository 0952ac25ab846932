// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// StatusActive is the status assigned to records created without one.
// Status is advisory metadata for the front end; no read path filters on it.
const StatusActive = "active"

// Category is the top level of the catalog hierarchy.
// CatKey is immutable once created.
type Category struct {
	CatKey    string    `json:"catKey"`
	Name      string    `json:"name"`
	Tagline   string    `json:"tagline"`
	Gradient  string    `json:"gradient"`
	IconKey   string    `json:"iconKey"`
	Order     int       `json:"order"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subcategory belongs to exactly one Category, referenced by CatKey.
type Subcategory struct {
	CatKey    string    `json:"catKey"`
	SubKey    string    `json:"subKey"`
	Name      string    `json:"name"`
	Blurb     string    `json:"blurb"`
	IconKey   string    `json:"iconKey"`
	Order     int       `json:"order"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WithDefaults returns a copy with an empty status replaced by StatusActive.
func (c Category) WithDefaults() Category {
	if c.Status == "" {
		c.Status = StatusActive
	}
	return c
}

// WithDefaults returns a copy with an empty status replaced by StatusActive.
func (s Subcategory) WithDefaults() Subcategory {
	if s.Status == "" {
		s.Status = StatusActive
	}
	return s
}
