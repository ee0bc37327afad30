package pkzip_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

func TestCursor_Reads(t *testing.T) {
	data := []byte{
		0x34, 0x12, // uint16
		0x78, 0x56, 0x34, 0x12, // uint32
		0xfe, 0xff, 0xff, 0xff, // int32 -2
		'a', 0x82, 'c', // CP437 text
		0xde, 0xad,
	}
	c := pkzip.NewCursor(bytes.NewReader(data))

	assert.Equal(t, int64(len(data)), c.Len())
	assert.Equal(t, int64(0), c.Pos())

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
	assert.Equal(t, int64(2), c.Pos())

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	i32, err := c.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	s, err := c.ReadText(3)
	require.NoError(t, err)
	assert.Equal(t, "aéc", s)

	b, err := c.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, b)
	assert.Equal(t, c.Len(), c.Pos())
}

func TestCursor_EndOfSource(t *testing.T) {
	tests := []struct {
		name string
		read func(c *pkzip.Cursor) error
	}{
		{
			name: "uint16 past end",
			read: func(c *pkzip.Cursor) error {
				_, err := c.ReadUint16()
				return err
			},
		},
		{
			name: "uint32 past end",
			read: func(c *pkzip.Cursor) error {
				_, err := c.ReadUint32()
				return err
			},
		},
		{
			name: "bytes past end",
			read: func(c *pkzip.Cursor) error {
				_, err := c.ReadBytes(10)
				return err
			},
		},
		{
			name: "seek past end",
			read: func(c *pkzip.Cursor) error {
				return c.Seek(4)
			},
		},
		{
			name: "seek before start",
			read: func(c *pkzip.Cursor) error {
				return c.Seek(-1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := pkzip.NewCursor(bytes.NewReader([]byte{1, 2, 3}))
			require.NoError(t, c.Seek(2))

			err := tt.read(c)
			assert.ErrorIs(t, err, pkzip.ErrEndOfSource)
		})
	}
}

func TestCursor_SeekToEnd(t *testing.T) {
	c := pkzip.NewCursor(bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, c.Seek(3))

	b, err := c.ReadBytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = c.Read(make([]byte, 1))
	assert.ErrorIs(t, err, pkzip.ErrEndOfSource)
}

func TestCursor_ReadStopsAtLen(t *testing.T) {
	c := pkzip.NewCursor(bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, c.Seek(1))

	p := make([]byte, 8)
	n, err := c.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{2, 3}, p[:n])
	assert.Equal(t, int64(3), c.Pos())
}

func TestCursor_SeekAfterSourceMoved(t *testing.T) {
	src := bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	c := pkzip.NewCursor(src)

	require.NoError(t, c.Seek(2))
	_, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.Pos())

	// the owner of the source moves it behind the cursor's back
	_, err = src.Seek(0, io.SeekStart)
	require.NoError(t, err)

	require.NoError(t, c.Seek(4))
	v, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0504), v)
}
