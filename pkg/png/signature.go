package png

import "bytes"

// Signature is the 8-byte magic that opens every PNG datastream:
// 137 80 78 71 13 10 26 10.
var Signature = [8]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// ValidateSignature reports whether data starts with the PNG signature.
func ValidateSignature(data []byte) error {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return ErrInvalidFormat
	}
	return nil
}
