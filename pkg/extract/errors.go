package extract

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Fatal error classes. Check with errors.Is.
var (
	// ErrOpenArchive means the archive is missing, unreadable, or not a valid archive.
	ErrOpenArchive = errors.New("cannot open archive")

	// ErrCreateOutput means the output file could not be created or written.
	ErrCreateOutput = errors.New("cannot write output")
)

// ErrNoText is returned by decoders that found no extractable text.
var ErrNoText = errors.New("no extractable text")

// DecodeError reports the first byte sequence that is invalid in the decode scheme.
type DecodeError struct {
	Encoding string
	Offset   int
	Byte     byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s: byte 0x%02x at offset %d", e.Encoding, e.Byte, e.Offset)
}

// firstInvalidUTF8 returns the offset of the first invalid UTF-8 sequence, or -1.
func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
