// Package guid implements the 16-byte interface identifier used by COM and
// WinRT, in the platform's in-memory layout, together with the name-based
// derivation WinRT uses for parameterized interface identifiers.
package guid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GUID has the Windows memory layout: the first three fields are stored in
// native little-endian order, Data4 as raw bytes.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// WinRTNamespace seeds the version 5 hash for parameterized interface identifiers.
var WinRTNamespace = MustParse("11f47ad5-7b73-42c0-abae-878b1e16adee")

// Nil is the all-zero identifier.
var Nil GUID

// Parse accepts the canonical 36 character form, optionally wrapped in braces.
func Parse(s string) (GUID, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	if len(trimmed) != 36 {
		return GUID{}, fmt.Errorf("guid: invalid length %d in %q", len(trimmed), s)
	}
	u, err := uuid.Parse(trimmed)
	if err != nil {
		return GUID{}, fmt.Errorf("guid: %w", err)
	}
	return FromUUID(u), nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// FromUUID converts an RFC 4122 (big-endian) UUID to the Windows layout.
func FromUUID(u uuid.UUID) GUID {
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:16])
	return g
}

// UUID converts g back to RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:16], g.Data4[:])
	return u
}

// String returns the lowercase hyphenated form without braces.
func (g GUID) String() string {
	return g.UUID().String()
}

// Braced returns the lowercase form wrapped in braces, as used in type signatures.
func (g GUID) Braced() string {
	return "{" + g.String() + "}"
}

func (g GUID) IsNil() bool {
	return g == Nil
}

// NewV5 derives a name-based identifier from namespace and data using SHA-1.
func NewV5(namespace GUID, data []byte) GUID {
	return FromUUID(uuid.NewSHA1(namespace.UUID(), data))
}

// FromSignature derives the identifier of a parameterized interface from its
// canonical signature string.
func FromSignature(signature string) GUID {
	return NewV5(WinRTNamespace, []byte(signature))
}
