package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// IHDR is the image header.
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// PHYs is the physical pixel dimensions chunk.
type PHYs struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	Unit           uint8
}

// Flags renders the property bits of the type.
func (t ChunkType) Flags() string {
	var buf bytes.Buffer
	if t.IsCritical() {
		buf.WriteString("critical")
	} else {
		buf.WriteString("ancillary")
	}
	if t.IsPublic() {
		buf.WriteString(", public")
	} else {
		buf.WriteString(", private")
	}
	if t.IsSafeToCopy() {
		buf.WriteString(", safe-to-copy")
	} else {
		buf.WriteString(", unsafe-to-copy")
	}
	if !t.IsValid() {
		buf.WriteString(", reserved bit set")
	}
	return buf.String()
}

// DumpTo prints the chunk header and, for well-known types, its content.
func (c *Chunk) DumpTo(w io.Writer) {
	fmt.Fprintf(w, "chunk '%s' (%d bytes) [%s]", c.chunkType, c.length, c.chunkType.Flags())

	desc, err := c.describe()
	switch {
	case err != nil:
		fmt.Fprintf(w, ": corrupted!\n")
	case desc != "":
		fmt.Fprintf(w, ": %s\n", desc)
	default:
		fmt.Fprintf(w, "\n")
	}
}

func (c *Chunk) describe() (string, error) {
	r := bytes.NewReader(c.data)

	switch c.chunkType.String() {
	case "IHDR":
		if c.length != 13 {
			return "", ErrTruncated
		}
		var h IHDR
		if err := binary.Read(r, binary.BigEndian, &h); err != nil {
			return "", err
		}
		return fmt.Sprintf("Width = %d, Height = %d, Bit depth = %d, Color type = %d, "+
			"Compression method = %d, Filter method = %d, Interlace method = %d",
			h.Width, h.Height, h.BitDepth, h.ColorType,
			h.CompressionMethod, h.FilterMethod, h.InterlaceMethod), nil

	case "sRGB":
		if c.length != 1 {
			return "", ErrTruncated
		}
		return fmt.Sprintf("Rendering intent = %d", c.data[0]), nil

	case "gAMA":
		if c.length != 4 {
			return "", ErrTruncated
		}
		var g uint32
		if err := binary.Read(r, binary.BigEndian, &g); err != nil {
			return "", err
		}
		return fmt.Sprintf("Gamma = %.5f", float64(g)/100000), nil

	case "pHYs":
		if c.length != 9 {
			return "", ErrTruncated
		}
		var p PHYs
		if err := binary.Read(r, binary.BigEndian, &p); err != nil {
			return "", err
		}
		return fmt.Sprintf("Pixels per unit = %dx%d, Unit = %d", p.PixelsPerUnitX, p.PixelsPerUnitY, p.Unit), nil

	case "tEXt":
		// keyword, NUL, text
		i := bytes.IndexByte(c.data, 0)
		if i <= 0 {
			return "", ErrTruncated
		}
		return fmt.Sprintf("%s = \"%s\"", latin1(c.data[:i]), latin1(c.data[i+1:])), nil
	}

	return "", nil
}

// DumpTo prints every chunk in order.
func (f *File) DumpTo(w io.Writer) {
	for _, c := range f.chunks {
		c.DumpTo(w)
	}
}
