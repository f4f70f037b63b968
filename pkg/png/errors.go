package png

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when the input does not start with the PNG signature
	ErrInvalidFormat = errors.New("not a PNG file: invalid signature")

	// ErrTruncatedChunk marks a chunk that runs past the end of the buffer
	ErrTruncatedChunk = errors.New("truncated chunk")
)

// TruncatedChunkError describes where a chunk walk ran out of bytes.
type TruncatedChunkError struct {
	Offset int    // start of the chunk being read
	Field  string // length, type, payload or crc
	Need   int
	Have   int
}

func (e *TruncatedChunkError) Error() string {
	return fmt.Sprintf("truncated chunk at offset 0x%x: %s needs %d bytes, %d left",
		e.Offset, e.Field, e.Need, e.Have)
}

func (e *TruncatedChunkError) Unwrap() error {
	return ErrTruncatedChunk
}
