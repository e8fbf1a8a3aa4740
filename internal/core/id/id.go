// Package id provides UUIDv7 generation and parsing for catalog and document identifiers.
// The nil UUID stands for "no reference" (e.g. a unit without a base unit).
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ParseOptional parses s, treating an empty or blank string as the nil ID.
func ParseOptional(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

// Deref returns the referenced ID or the nil ID for a nil pointer.
func Deref(p *ID) ID {
	if p == nil {
		return uuid.Nil
	}
	return *p
}

// Ptr returns a pointer to id, or nil when id is the nil ID.
func Ptr(id ID) *ID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
