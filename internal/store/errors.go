// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the requested key is absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by a strict create when the key already exists.
	ErrConflict = errors.New("already exists")
	// ErrUpstream matches every failure of the underlying database.
	ErrUpstream = errors.New("store unavailable")
)

// maxListedChildren caps how many blocking children a HasChildrenError names.
const maxListedChildren = 5

// HasChildrenError is returned when a delete without force would orphan
// children.
type HasChildrenError struct {
	Parent   string   // "category" or "subcategory"
	Key      string   // parent key, e.g. "ai" or "ai/education"
	Children []string // keys of the blocking children, at most five
	Total    int      // total number of children
}

func (e *HasChildrenError) Error() string {
	childKind := "subcategories"
	if e.Parent == "subcategory" {
		childKind = "apps"
	}
	list := strings.Join(e.Children, ", ")
	if e.Total > len(e.Children) {
		list += "…"
	}
	return fmt.Sprintf("%s %s has %s: %s", e.Parent, e.Key, childKind, list)
}

func newHasChildrenError(parent, key string, children []string) *HasChildrenError {
	listed := children
	if len(listed) > maxListedChildren {
		listed = listed[:maxListedChildren]
	}
	return &HasChildrenError{
		Parent:   parent,
		Key:      key,
		Children: append([]string(nil), listed...),
		Total:    len(children),
	}
}

// ValidationError reports malformed input rejected before touching storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// upstreamError wraps a database failure so callers can match ErrUpstream
// while the original cause stays reachable through errors.Unwrap.
type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string        { return e.op + ": " + e.err.Error() }
func (e *upstreamError) Unwrap() error        { return e.err }
func (e *upstreamError) Is(target error) bool { return target == ErrUpstream }

func upstream(op string, err error) error {
	return &upstreamError{op: op, err: err}
}
