// Package png walks the chunk structure of a PNG datastream without decoding
// pixel data. It validates the signature, bounds-checks every chunk, verifies
// CRCs and decodes the header and text chunks; everything else is kept raw.
package png

import (
	"encoding/binary"
	"hash/crc32"
	"io"
)

// Default option values.
const (
	DefaultRawPreview     = 100
	DefaultMaxInflateSize = 8 << 20
)

// Options configures a Parser. The zero value of a field selects its default.
type Options struct {
	// RawPreview is how many payload bytes RawData renders as hex
	RawPreview int
	// MaxInflateSize caps the decompressed size of a zTXt value
	MaxInflateSize int64
	// StandardTypes is the set reported via Chunk.IsStandard; nil means StandardTypes()
	StandardTypes []ChunkType
}

// Parser decodes PNG chunk sequences. It is safe for concurrent use; its
// configuration is fixed at construction.
type Parser struct {
	opts     Options
	standard map[ChunkType]struct{}
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	if opts.RawPreview <= 0 {
		opts.RawPreview = DefaultRawPreview
	}
	if opts.MaxInflateSize <= 0 {
		opts.MaxInflateSize = DefaultMaxInflateSize
	}
	if opts.StandardTypes == nil {
		opts.StandardTypes = StandardTypes()
	}

	standard := make(map[ChunkType]struct{}, len(opts.StandardTypes))
	for _, t := range opts.StandardTypes {
		standard[t] = struct{}{}
	}

	return &Parser{opts: opts, standard: standard}
}

// IsStandard reports whether t belongs to the parser's standard set.
func (p *Parser) IsStandard(t ChunkType) bool {
	_, ok := p.standard[t]
	return ok
}

// Result is the outcome of a full chunk walk.
type Result struct {
	Chunks []Chunk
	// Warning is set when the walk stopped on a truncated chunk; Chunks then
	// holds everything parsed before it.
	Warning error
}

// Parse validates the signature of data and walks all of its chunks.
// Only ErrInvalidFormat is returned as an error.
func (p *Parser) Parse(data []byte) (*Result, error) {
	w, err := p.Walk(data)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for {
		c, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Warning = err
			break
		}
		res.Chunks = append(res.Chunks, c)
	}
	return res, nil
}

// Walk validates the signature and returns a walker over the chunks that follow it.
func (p *Parser) Walk(data []byte) (*Walker, error) {
	if err := ValidateSignature(data); err != nil {
		return nil, err
	}
	return &Walker{parser: p, data: data, off: len(Signature)}, nil
}

// Walker reads chunks one at a time. Each chunk's offset depends on every
// previous length, so a Walker must be driven sequentially.
type Walker struct {
	parser *Parser
	data   []byte
	off    int
	done   bool
}

// Next returns the next chunk. It returns io.EOF once the buffer is fully
// consumed and a *TruncatedChunkError if the remaining bytes cannot hold a
// complete chunk; the walker yields nothing after either.
func (w *Walker) Next() (Chunk, error) {
	if w.done || w.off >= len(w.data) {
		w.done = true
		return Chunk{}, io.EOF
	}

	c, next, err := w.read(w.off)
	if err != nil {
		w.done = true
		return Chunk{}, err
	}
	w.off = next
	return c, nil
}

// read decodes the chunk starting at start and returns the offset after it.
func (w *Walker) read(start int) (Chunk, int, error) {
	cur := start
	take := func(field string, n uint32) ([]byte, error) {
		have := len(w.data) - cur
		// uint64 so a huge declared length cannot wrap
		if uint64(n) > uint64(have) {
			return nil, &TruncatedChunkError{Offset: start, Field: field, Need: int(n), Have: have}
		}
		b := w.data[cur : cur+int(n)]
		cur += int(n)
		return b, nil
	}

	b, err := take("length", 4)
	if err != nil {
		return Chunk{}, 0, err
	}
	length := binary.BigEndian.Uint32(b)

	b, err = take("type", 4)
	if err != nil {
		return Chunk{}, 0, err
	}
	var t ChunkType
	copy(t[:], b)

	payload, err := take("payload", length)
	if err != nil {
		return Chunk{}, 0, err
	}

	b, err = take("crc", 4)
	if err != nil {
		return Chunk{}, 0, err
	}
	declared := binary.BigEndian.Uint32(b)
	computed := Checksum(t, payload)

	p := w.parser
	return Chunk{
		Type:        t,
		Length:      length,
		Offset:      start,
		Payload:     payload,
		CRCDeclared: declared,
		CRCComputed: computed,
		CRCValid:    declared == computed,
		IsStandard:  p.IsStandard(t),
		Decoded:     p.decodePayload(t, payload),
	}, cur, nil
}

// Checksum is the CRC-32 (IEEE) of a chunk's type followed by its payload.
func Checksum(t ChunkType, payload []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(t[:])
	crc.Write(payload)
	return crc.Sum32()
}
