package png

import "encoding/binary"

// AppendChunk appends a complete chunk with a correct CRC to dst.
func AppendChunk(dst []byte, t ChunkType, payload []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	dst = append(dst, t[:]...)
	dst = append(dst, payload...)
	return binary.BigEndian.AppendUint32(dst, Checksum(t, payload))
}

// Encode writes the signature followed by each chunk's type and payload,
// recomputing every CRC.
func Encode(chunks []Chunk) []byte {
	size := len(Signature)
	for i := range chunks {
		size += 12 + len(chunks[i].Payload)
	}

	out := make([]byte, 0, size)
	out = append(out, Signature[:]...)
	for i := range chunks {
		out = AppendChunk(out, chunks[i].Type, chunks[i].Payload)
	}
	return out
}

// RepairCRCs returns a copy of data with the declared CRC of every mismatching
// chunk replaced by the computed one. chunks must come from parsing data.
func RepairCRCs(data []byte, chunks []Chunk) (fixed []byte, repaired int) {
	fixed = append([]byte(nil), data...)
	for i := range chunks {
		c := &chunks[i]
		if c.CRCValid {
			continue
		}
		binary.BigEndian.PutUint32(fixed[c.CRCOffset():], c.CRCComputed)
		repaired++
	}
	return fixed, repaired
}
