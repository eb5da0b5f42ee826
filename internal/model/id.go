package model

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Result is implemented by every listable domain type so the display layer
// can render checklists, templates, rooms and tasks uniformly.
type Result interface {
	GetID() string
	GetKind() string // "checklist", "template", "room", "task"
	GetContent() string
	GetLocation() string
}

// NewID derives a URL-safe identifier from a display name.
//
// gosimple/slug handles transliteration ("Café" -> "cafe"). Names that slug
// to nothing (e.g. only punctuation) fall back to "item".
func NewID(name string) string {
	id := goslug.Make(strings.TrimSpace(name))
	if id == "" {
		return "item"
	}
	return id
}

// UniqueID returns base, or base-2, base-3, ... whichever exists reports false.
func UniqueID(base string, exists func(string) bool) string {
	if !exists(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !exists(candidate) {
			return candidate
		}
	}
}

func uniqueID(base string, used map[string]bool) string {
	return UniqueID(base, func(id string) bool { return used[id] })
}
