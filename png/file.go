package png

import (
	"bytes"
	"fmt"
)

// Signature is the fixed header of every PNG file.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// File is a PNG file: the signature followed by an ordered list of chunks.
type File struct {
	chunks []*Chunk
}

// NewFile creates a file holding the given chunks, in order.
func NewFile(chunks ...*Chunk) *File {
	f := &File{}
	for _, c := range chunks {
		f.AppendChunk(c)
	}
	return f
}

// Parse parses a whole PNG file and verifies the CRC of every chunk.
func Parse(b []byte) (*File, error) {
	return parse(b, true)
}

// ParseUnverified parses a whole PNG file, keeping CRCs as they are.
func ParseUnverified(b []byte) (*File, error) {
	return parse(b, false)
}

func parse(b []byte, verify bool) (*File, error) {
	if len(b) < len(Signature) || !bytes.Equal(b[:len(Signature)], Signature[:]) {
		return nil, ErrBadSignature
	}

	f := &File{}
	offset := len(Signature)
	for offset < len(b) {
		c, n, err := readChunk(b[offset:], verify)
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(f.chunks), offset, err)
		}
		f.chunks = append(f.chunks, c)
		offset += n
	}

	return f, nil
}

// Header returns the signature.
func (f *File) Header() [8]byte {
	return Signature
}

// Chunks returns a copy of the chunk list, in file order.
func (f *File) Chunks() []*Chunk {
	out := make([]*Chunk, len(f.chunks))
	copy(out, f.chunks)
	return out
}

// AppendChunk adds a chunk at the end. Chunk types may repeat.
func (f *File) AppendChunk(c *Chunk) {
	f.chunks = append(f.chunks, c)
}

// ChunkByType returns the first chunk whose type renders as chunkType, or nil.
func (f *File) ChunkByType(chunkType string) *Chunk {
	i := f.indexOf(chunkType)
	if i < 0 {
		return nil
	}
	return f.chunks[i]
}

// RemoveChunk removes and returns the first chunk whose type renders as
// chunkType.
func (f *File) RemoveChunk(chunkType string) (*Chunk, error) {
	i := f.indexOf(chunkType)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrChunkNotFound, chunkType)
	}

	c := f.chunks[i]
	f.chunks = append(f.chunks[:i:i], f.chunks[i+1:]...)
	return c, nil
}

func (f *File) indexOf(chunkType string) int {
	for i, c := range f.chunks {
		if c.chunkType.String() == chunkType {
			return i
		}
	}
	return -1
}

// Size is the number of bytes of the serialized file.
func (f *File) Size() int {
	n := len(Signature)
	for _, c := range f.chunks {
		n += c.Size()
	}
	return n
}

// Bytes serializes the file.
func (f *File) Bytes() []byte {
	buf := make([]byte, 0, f.Size())
	buf = append(buf, Signature[:]...)
	for _, c := range f.chunks {
		buf = c.appendTo(buf)
	}
	return buf
}
