// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

// Package uuidv7 generates time-ordered UUIDs (version 7) for use as
// primary keys. V7 identifiers sort by creation time, which keeps
// B-tree indexes append-friendly.
package uuidv7

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a new UUIDv7 string.
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuidv7_generation_failed: %w", err)
	}
	return id.String(), nil
}

// Must returns a new UUIDv7 string and panics on failure. Use only at
// call sites where identifier generation cannot reasonably fail.
func Must() string {
	id, err := New()
	if err != nil {
		panic(err)
	}
	return id
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
