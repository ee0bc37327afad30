package pkzip

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// Source is a seekable byte sequence of known length.
// *bytes.Reader satisfies it, as do the sources in internal/source.
type Source interface {
	io.ReadSeeker
	Size() int64
}

// Cursor reads little-endian values from a Source at a tracked absolute
// position. A Cursor is not safe for concurrent use: there is exactly one
// read position per source.
type Cursor struct {
	src  Source
	pos  int64
	size int64
}

// NewCursor returns a Cursor over src at position 0.
//
// The caller may move src between operations, so every operation starts
// with Seek.
func NewCursor(src Source) *Cursor {
	return &Cursor{src: src, size: src.Size()}
}

// Len returns the total length of the source.
func (c *Cursor) Len() int64 { return c.size }

// Pos returns the current absolute position.
func (c *Cursor) Pos() int64 { return c.pos }

// Seek moves the cursor to an absolute position in [0, Len()].
func (c *Cursor) Seek(pos int64) error {
	if pos < 0 || pos > c.size {
		return fmt.Errorf("%w: seek to offset %d outside source of %d bytes", ErrEndOfSource, pos, c.size)
	}
	if _, err := c.src.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to offset %d: %w", pos, err)
	}
	c.pos = pos
	return nil
}

// Read implements io.Reader, never reading past Len().
func (c *Cursor) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.pos >= c.size {
		return 0, fmt.Errorf("%w: read at offset %d", ErrEndOfSource, c.pos)
	}
	if remaining := c.size - c.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := c.src.Read(p)
	c.pos += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}

// ReadBytes reads exactly n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+int64(n) > c.size {
		return nil, fmt.Errorf("%w: read of %d bytes at offset %d exceeds source of %d bytes",
			ErrEndOfSource, n, c.pos, c.size)
	}

	b := make([]byte, n)
	start := c.pos
	if _, err := io.ReadFull(c, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: source ended early reading %d bytes at offset %d", ErrEndOfSource, n, start)
		}
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, start, err)
	}
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian int32.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadText reads n bytes of single-byte text.
//
// Names and comments without the UTF-8 flag are encoded in IBM Code Page
// 437, which maps every byte to exactly one character.
func (c *Cursor) ReadText(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}

	s, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(s), nil
}
