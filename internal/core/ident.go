package core

// ident.go derives stable UUID-shaped identifiers from natural-language names.
//
// The exports reference related records by display text ("label", "contract")
// rather than by key. Hashing that text gives every name the same identifier
// in every table and every run, so references stay consistent without a
// lookup table. The layout follows RFC 4122 version 5 (name-based, SHA-1)
// but hashes the name alone, without a namespace prefix.

import (
	"crypto/sha1"
	"strings"

	"github.com/google/uuid"
)

// IDSeparator joins multiple derived identifiers in one cell.
const IDSeparator = ", "

// DeriveID returns the identifier for a single value.
// The value is hashed as-is; callers trim it first.
func DeriveID(value string) string {
	sum := sha1.Sum([]byte(value))

	var id uuid.UUID
	copy(id[:], sum[:16])
	id[6] = (id[6] & 0x0f) | 0x50 // version 5
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return id.String()
}

// DeriveIDs maps a comma-separated list of values to their identifiers.
// Parts are trimmed and empty parts dropped; the result keeps input order.
// Empty input yields empty output.
func DeriveIDs(text string) string {
	parts := strings.Split(text, ",")
	ids := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, DeriveID(p))
	}

	return strings.Join(ids, IDSeparator)
}
