package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// chunk = length, type, data, CRC
const chunkOverhead = 4 + 4 + 4

// Chunk is a single record of a PNG file. It is never modified after
// construction.
type Chunk struct {
	length    uint32
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk builds a chunk and computes its CRC. data is copied.
func NewChunk(chunkType ChunkType, data []byte) *Chunk {
	d := make([]byte, len(data))
	copy(d, data)

	return &Chunk{
		length:    uint32(len(d)),
		chunkType: chunkType,
		data:      d,
		crc:       checksum(chunkType, d),
	}
}

// ParseChunk parses the chunk at the start of b and verifies its CRC.
// Bytes following the CRC are ignored.
func ParseChunk(b []byte) (*Chunk, error) {
	c, _, err := readChunk(b, true)
	return c, err
}

func readChunk(b []byte, verify bool) (*Chunk, int, error) {
	if len(b) < chunkOverhead {
		return nil, 0, fmt.Errorf("%w: chunk needs at least %d bytes, got %d", ErrTruncated, chunkOverhead, len(b))
	}

	length := binary.BigEndian.Uint32(b[0:4])

	var raw [4]byte
	copy(raw[:], b[4:8])
	chunkType := ChunkTypeFromBytes(raw)

	size := uint64(chunkOverhead) + uint64(length)
	if uint64(len(b)) < size {
		return nil, 0, fmt.Errorf("%w: chunk '%s' declares %d bytes of data, %d available",
			ErrTruncated, chunkType, length, len(b)-chunkOverhead)
	}

	end := 8 + int(length)
	data := make([]byte, length)
	copy(data, b[8:end])

	c := &Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       binary.BigEndian.Uint32(b[end : end+4]),
	}

	if verify {
		if want := checksum(chunkType, data); c.crc != want {
			return nil, 0, fmt.Errorf("%w: chunk '%s' carries %08x, computed %08x",
				ErrChecksumMismatch, chunkType, c.crc, want)
		}
	}

	return c, int(size), nil
}

func checksum(chunkType ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(chunkType[:]) //nolint:errcheck
	h.Write(data)         //nolint:errcheck
	return h.Sum32()
}

// Length is the size of the data, without length, type and CRC fields.
func (c *Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the payload. It must not be modified.
func (c *Chunk) Data() []byte {
	return c.data
}

// CRC returns the checksum carried by the chunk.
func (c *Chunk) CRC() uint32 {
	return c.crc
}

// Size is the number of bytes the chunk takes in a file.
func (c *Chunk) Size() int {
	return chunkOverhead + len(c.data)
}

// DataAsString renders each payload byte as one character.
func (c *Chunk) DataAsString() (string, error) {
	if len(c.data) == 0 {
		return "", fmt.Errorf("%w: chunk '%s' is empty", ErrEmptyPayload, c.chunkType)
	}
	return latin1(c.data), nil
}

// Bytes serializes the chunk.
func (c *Chunk) Bytes() []byte {
	return c.appendTo(make([]byte, 0, c.Size()))
}

func (c *Chunk) appendTo(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, c.length)
	buf = append(buf, c.chunkType[:]...)
	buf = append(buf, c.data...)
	return binary.BigEndian.AppendUint32(buf, c.crc)
}

// String makes Chunk satisfy the Stringer interface.
func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk {\n  Length: %d\n  Type: %s\n  Data: %d bytes\n  Crc: %d\n}",
		c.length, c.chunkType, len(c.data), c.crc)
}
