package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ContentID is a Git-style SHA-1 hash of an entry's raw bytes (20 bytes).
// It matches the output of `git hash-object` for the same content.
type ContentID [20]byte

// ComputeContentID computes SHA-1("blob {len}\0{content}").
func ComputeContentID(content []byte) ContentID {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	h.Write(content)

	var id ContentID
	copy(id[:], h.Sum(nil))
	return id
}

// IsZero reports whether the ID was never computed.
func (id ContentID) IsZero() bool {
	return id == ContentID{}
}

// Hex returns the 40-character hex form, or "" for the zero ID.
func (id ContentID) Hex() string {
	if id.IsZero() {
		return ""
	}
	return hex.EncodeToString(id[:])
}

func (id ContentID) String() string {
	return id.Hex()
}

// ParseContentID parses a 40-char hex string. The empty string yields the zero ID.
func ParseContentID(s string) (ContentID, error) {
	if s == "" {
		return ContentID{}, nil
	}
	if len(s) != 40 {
		return ContentID{}, fmt.Errorf("invalid content ID length: expected 40, got %d", len(s))
	}

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return ContentID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id ContentID
	copy(id[:], decoded)
	return id, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ContentID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ContentID) UnmarshalText(data []byte) error {
	parsed, err := ParseContentID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer. Zero IDs are stored as NULL.
func (id ContentID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *ContentID) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*id = ContentID{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into ContentID", value)
	}

	parsed, err := ParseContentID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
