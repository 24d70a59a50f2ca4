// Package identifier produces the external-facing record identifiers.
// Database auto-increment keys stay internal; every record is addressed by a
// version-4 UUID assigned once at creation and immutable afterwards.
package identifier

import "github.com/google/uuid"

// New returns a fresh version-4 UUID string.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
