package png

import "fmt"

// ChunkType is the 4-byte tag of a chunk. It is passed through as-is, so it
// may hold non-printable bytes taken from a malformed file.
type ChunkType [4]byte

// ParseChunkType converts a 4-character tag such as "IHDR" into a ChunkType.
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType
	if len(s) != len(t) {
		return t, fmt.Errorf("chunk type %q must be exactly 4 bytes", s)
	}
	copy(t[:], s)
	return t, nil
}

func (t ChunkType) String() string {
	return string(t[:])
}

// Kind identifies the chunk types this package knows by name.
type Kind int

const (
	KindUnknown Kind = iota
	KindIHDR
	KindPLTE
	KindIDAT
	KindIEND
	KindTEXT
	KindZTXT
	KindITXT
	KindTIME
	KindGAMA
	KindCHRM
	KindSRGB
	KindICCP
)

var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
	TypeTEXT = ChunkType{'t', 'E', 'X', 't'}
	TypeZTXT = ChunkType{'z', 'T', 'X', 't'}
	TypeITXT = ChunkType{'i', 'T', 'X', 't'}
	TypeTIME = ChunkType{'t', 'I', 'M', 'E'}
	TypeGAMA = ChunkType{'g', 'A', 'M', 'A'}
	TypeCHRM = ChunkType{'c', 'H', 'R', 'M'}
	TypeSRGB = ChunkType{'s', 'R', 'G', 'B'}
	TypeICCP = ChunkType{'i', 'C', 'C', 'P'}
)

var kinds = map[ChunkType]Kind{
	TypeIHDR: KindIHDR,
	TypePLTE: KindPLTE,
	TypeIDAT: KindIDAT,
	TypeIEND: KindIEND,
	TypeTEXT: KindTEXT,
	TypeZTXT: KindZTXT,
	TypeITXT: KindITXT,
	TypeTIME: KindTIME,
	TypeGAMA: KindGAMA,
	TypeCHRM: KindCHRM,
	TypeSRGB: KindSRGB,
	TypeICCP: KindICCP,
}

// Kind returns the known kind of t, or KindUnknown.
func (t ChunkType) Kind() Kind {
	return kinds[t]
}

// StandardTypes returns the default set of chunk types reported as standard.
func StandardTypes() []ChunkType {
	return []ChunkType{
		TypeIHDR, TypePLTE, TypeIDAT, TypeIEND,
		TypeTEXT, TypeZTXT, TypeITXT, TypeTIME,
		TypeGAMA, TypeCHRM, TypeSRGB, TypeICCP,
	}
}

// Chunk is one decoded length/type/payload/CRC record.
// Payload aliases the parsed buffer and must not be modified.
type Chunk struct {
	Type        ChunkType
	Length      uint32
	Offset      int // offset of the length field within the whole buffer
	Payload     []byte
	CRCDeclared uint32
	CRCComputed uint32
	CRCValid    bool
	IsStandard  bool
	Decoded     Decoded
}

// Kind returns the known kind of the chunk's type.
func (c *Chunk) Kind() Kind {
	return c.Type.Kind()
}

// CRCOffset is the offset of the chunk's trailing CRC field.
func (c *Chunk) CRCOffset() int {
	return c.Offset + 8 + int(c.Length)
}
