package png

import (
	"fmt"
	"strings"
)

const propertyBit = 0x20

// ChunkType is the 4-byte tag of a chunk. Bit 5 of every byte carries one
// property of the chunk.
type ChunkType [4]byte

// ChunkTypeFromBytes accepts any 4 bytes.
func ChunkTypeFromBytes(b [4]byte) ChunkType {
	return ChunkType(b)
}

// ParseChunkType builds a ChunkType from exactly 4 characters. Each
// character is truncated to its low byte.
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType

	runes := []rune(s)
	if len(runes) != 4 {
		return t, fmt.Errorf("%w: '%s'", ErrInvalidLength, s)
	}

	for i, r := range runes {
		t[i] = byte(r)
	}
	return t, nil
}

// Bytes returns the raw tag.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// String renders each byte as one character, without UTF-8 decoding.
func (t ChunkType) String() string {
	return latin1(t[:])
}

// IsCritical reports whether decoders must understand the chunk.
func (t ChunkType) IsCritical() bool {
	return t[0]&propertyBit == 0
}

// IsPublic reports whether the type is part of the public registry.
func (t ChunkType) IsPublic() bool {
	return t[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved bit is clear.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors may copy the chunk without
// understanding it.
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// IsValid is true when the reserved bit is clear.
func (t ChunkType) IsValid() bool {
	return t.IsReservedBitValid()
}

func latin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
