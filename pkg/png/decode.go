package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ihdrLength is the only IHDR payload size decoded as a header.
const ihdrLength = 13

// Decoded is the decoded form of a chunk payload. The concrete type is one of
// HeaderInfo, TextRecord, RawData or DecodeError.
type Decoded interface {
	String() string
	decoded()
}

// HeaderInfo holds the fixed fields of an IHDR chunk.
type HeaderInfo struct {
	Width             uint32 `json:"width"`
	Height            uint32 `json:"height"`
	BitDepth          uint8  `json:"bit_depth"`
	ColorType         uint8  `json:"color_type"`
	CompressionMethod uint8  `json:"compression_method"`
	FilterMethod      uint8  `json:"filter_method"`
	InterlaceMethod   uint8  `json:"interlace_method"`
}

// TextRecord holds a tEXt, zTXt or iTXt keyword/value pair.
type TextRecord struct {
	Keyword    string `json:"keyword"`
	Value      string `json:"value"`
	Compressed bool   `json:"compressed,omitempty"`
}

// RawData is the hex preview of a payload that has no dedicated decoder.
type RawData struct {
	Hex       string `json:"hex"`
	Truncated bool   `json:"truncated,omitempty"`
}

// DecodeError records why a payload could not be decoded.
type DecodeError struct {
	Reason string `json:"error"`
}

func (HeaderInfo) decoded()  {}
func (TextRecord) decoded()  {}
func (RawData) decoded()     {}
func (DecodeError) decoded() {}

func (h HeaderInfo) String() string {
	return fmt.Sprintf("width=%d height=%d bit_depth=%d color_type=%d compression=%d filter_method=%d interlace=%d",
		h.Width, h.Height, h.BitDepth, h.ColorType, h.CompressionMethod, h.FilterMethod, h.InterlaceMethod)
}

// String renders keyword="value". The value is always quoted and the keyword
// only when it holds '=' or '"', so the first unquoted '=' splits the pair.
func (t TextRecord) String() string {
	keyword := t.Keyword
	if strings.ContainsAny(keyword, `="`) {
		keyword = strconv.Quote(keyword)
	}
	return keyword + "=" + strconv.Quote(t.Value)
}

func (r RawData) String() string {
	return r.Hex
}

func (e DecodeError) String() string {
	return "Error decoding: " + e.Reason
}

// decodePayload dispatches on the chunk kind.
func (p *Parser) decodePayload(t ChunkType, payload []byte) Decoded {
	switch t.Kind() {
	case KindIHDR:
		if len(payload) == ihdrLength {
			return decodeHeader(payload)
		}
	case KindTEXT, KindITXT:
		return decodeText(payload)
	case KindZTXT:
		return p.decodeCompressedText(payload)
	}
	return p.raw(payload)
}

func decodeHeader(b []byte) HeaderInfo {
	return HeaderInfo{
		Width:             binary.BigEndian.Uint32(b[0:4]),
		Height:            binary.BigEndian.Uint32(b[4:8]),
		BitDepth:          b[8],
		ColorType:         b[9],
		CompressionMethod: b[10],
		FilterMethod:      b[11],
		InterlaceMethod:   b[12],
	}
}

func decodeText(b []byte) TextRecord {
	keyword, value, _ := bytes.Cut(b, []byte{0})
	return TextRecord{
		Keyword: lossyUTF8(keyword),
		Value:   lossyUTF8(value),
	}
}

func (p *Parser) decodeCompressedText(b []byte) Decoded {
	keyword, rest, found := bytes.Cut(b, []byte{0})
	if !found {
		return DecodeError{Reason: "missing keyword separator"}
	}
	if len(rest) == 0 {
		return DecodeError{Reason: "missing compression method"}
	}
	if method := rest[0]; method != 0 {
		return DecodeError{Reason: fmt.Sprintf("unsupported compression method %d", method)}
	}

	value, err := p.inflate(rest[1:])
	if err != nil {
		return DecodeError{Reason: err.Error()}
	}
	return TextRecord{
		Keyword:    lossyUTF8(keyword),
		Value:      lossyUTF8(value),
		Compressed: true,
	}
}

// inflate decompresses a zlib stream, refusing output above the configured cap.
func (p *Parser) inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, p.opts.MaxInflateSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > p.opts.MaxInflateSize {
		return nil, fmt.Errorf("decompressed text exceeds %d bytes", p.opts.MaxInflateSize)
	}
	return out, nil
}

func (p *Parser) raw(b []byte) RawData {
	n := len(b)
	if n > p.opts.RawPreview {
		n = p.opts.RawPreview
	}
	return RawData{
		Hex:       hex.EncodeToString(b[:n]),
		Truncated: n < len(b),
	}
}

// lossyUTF8 decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func lossyUTF8(b []byte) string {
	out, _ := unicode.UTF8.NewDecoder().Bytes(b) // never fails, only substitutes
	return string(out)
}
