/*
Package ident provides identifier generation and format validation.

It generates server-side UUIDs for rooms and connections, and validates the
client-supplied identifier and text formats used by the lobby protocol.
*/
package ident

import (
	"regexp"
	"unicode"

	"github.com/google/uuid"
)

// CanonicalIDLength is the length of the canonical hyphenated UUID string form.
const CanonicalIDLength = 36

// textPattern matches strings made up of letters, digits and whitespace only.
// The additional at-least-one-letter rule is checked separately since RE2 has
// no lookahead.
var textPattern = regexp.MustCompile(`^[\p{L}\p{N}\s]+$`)

// NewID generates a random UUID for server-side identifiers (rooms, connections).
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID parses a client-supplied identifier, accepting only the canonical
// 36-character hyphenated form. Other representations uuid.Parse would accept
// (braced, URN, 32-character) are rejected.
func ParseID(s string) (uuid.UUID, bool) {
	if len(s) != CanonicalIDLength {
		return uuid.UUID{}, false
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, false
	}

	return id, true
}

// IsCanonicalID reports whether s is a canonical 36-character UUID string.
func IsCanonicalID(s string) bool {
	_, ok := ParseID(s)
	return ok
}

// IsValidText reports whether s is a valid display name, room name or room
// password: non-empty, containing at least one letter, and made up of letters,
// digits and whitespace only.
func IsValidText(s string) bool {
	if !textPattern.MatchString(s) {
		return false
	}

	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}

	return false
}
