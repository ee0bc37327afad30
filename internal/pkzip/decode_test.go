package pkzip_test

import (
	"bytes"
	"errors"
	"hash/crc32"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/pkparse/internal/pkzip"
	"github.com/ossyrian/pkparse/internal/pkzip/ziptest"
)

var testEntry = ziptest.Entry{
	Name:         "dir/a.txt",
	Data:         []byte("hello"),
	Flags:        pkzip.FlagDataDescriptor,
	Extra:        []byte{0xca, 0xfe, 0x00, 0x00},
	Comment:      "first",
	ModifiedTime: 0x6e0f,
	ModifiedDate: 0x5a4f,
}

func TestReadLocalFileHeader(t *testing.T) {
	prefix := []byte("junk")
	data := append(append([]byte{}, prefix...), ziptest.LocalFileHeader(testEntry)...)
	data = append(data, testEntry.Data...)

	c := pkzip.NewCursor(bytes.NewReader(data))
	h, err := pkzip.ReadLocalFileHeader(c, int64(len(prefix)))
	require.NoError(t, err)

	assert.Equal(t, pkzip.LocalFileHeader{
		VersionNeeded:    20,
		Flags:            pkzip.FlagDataDescriptor,
		Method:           pkzip.MethodStore,
		ModifiedTime:     testEntry.ModifiedTime,
		ModifiedDate:     testEntry.ModifiedDate,
		CRC32:            crc32.ChecksumIEEE(testEntry.Data),
		CompressedSize:   5,
		UncompressedSize: 5,
		NameLength:       uint16(len(testEntry.Name)),
		ExtraLength:      4,
		Name:             testEntry.Name,
		Extra:            testEntry.Extra,
		Offset:           int64(len(prefix)),
	}, h)
	assert.Equal(t, int64(pkzip.LocalFileHeaderLen+len(testEntry.Name)+4), h.Size())
	assert.Equal(t, h.DataOffset(), c.Pos())
	assert.True(t, h.HasDataDescriptor())
	assert.False(t, h.IsEncrypted())
}

func TestReadCentralDirectoryRecord(t *testing.T) {
	data := ziptest.CentralDirectoryRecord(testEntry, 0x1234)

	c := pkzip.NewCursor(bytes.NewReader(data))
	rec, err := pkzip.ReadCentralDirectoryRecord(c, 0)
	require.NoError(t, err)

	assert.Equal(t, uint16(20), rec.VersionMadeBy)
	assert.Equal(t, uint16(20), rec.VersionNeeded)
	assert.Equal(t, uint32(0x1234), rec.FileOffset)
	assert.Equal(t, uint32(5), rec.CompressedSize)
	assert.Equal(t, uint32(5), rec.UncompressedSize)
	assert.Equal(t, testEntry.Name, rec.Name)
	assert.Equal(t, testEntry.Extra, rec.Extra)
	assert.Equal(t, testEntry.Comment, rec.Comment)
	assert.Equal(t, int64(len(data)), rec.Size())
	assert.Equal(t, c.Len(), c.Pos())
	assert.True(t, rec.IsStored())
}

func TestReadEOCDRecord(t *testing.T) {
	data := ziptest.EOCD(3, 150, 900, "archive comment")

	c := pkzip.NewCursor(bytes.NewReader(data))
	rec, err := pkzip.ReadEOCDRecord(c, 0)
	require.NoError(t, err)

	assert.Equal(t, pkzip.EOCDRecord{
		CDCountOnDisk: 3,
		CDCount:       3,
		CDSize:        150,
		CDOffset:      900,
		CommentLength: 15,
		Comment:       "archive comment",
	}, rec)
	assert.Equal(t, int64(len(data)), rec.Size())
}

func TestDecoders_SignatureMismatch(t *testing.T) {
	tests := []struct {
		name     string
		decode   func(c *pkzip.Cursor, offset int64) error
		expected pkzip.Signature
	}{
		{
			name: "local file header",
			decode: func(c *pkzip.Cursor, offset int64) error {
				_, err := pkzip.ReadLocalFileHeader(c, offset)
				return err
			},
			expected: pkzip.LocalFileHeaderSignature,
		},
		{
			name: "central directory record",
			decode: func(c *pkzip.Cursor, offset int64) error {
				_, err := pkzip.ReadCentralDirectoryRecord(c, offset)
				return err
			},
			expected: pkzip.CentralDirectorySignature,
		},
		{
			name: "end of central directory",
			decode: func(c *pkzip.Cursor, offset int64) error {
				_, err := pkzip.ReadEOCDRecord(c, offset)
				return err
			},
			expected: pkzip.EOCDSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, 64)
			copy(data[8:], []byte{0x50, 0x4b, 0x07, 0x08})

			err := tt.decode(pkzip.NewCursor(bytes.NewReader(data)), 8)
			require.ErrorIs(t, err, pkzip.ErrSignatureMismatch)

			var sigErr *pkzip.SignatureError
			require.True(t, errors.As(err, &sigErr))
			assert.Equal(t, tt.expected, sigErr.Expected)
			assert.Equal(t, uint32(0x08074b50), sigErr.Actual)
			assert.Equal(t, int64(8), sigErr.Offset)
			assert.Contains(t, err.Error(), tt.expected.String())
		})
	}
}

func TestDecoders_TruncatedTail(t *testing.T) {
	// the declared name and extra lengths run past the end of the source
	data := ziptest.LocalFileHeader(testEntry)
	data = data[:len(data)-2]

	_, err := pkzip.ReadLocalFileHeader(pkzip.NewCursor(bytes.NewReader(data)), 0)
	assert.ErrorIs(t, err, pkzip.ErrEndOfSource)
	assert.NotErrorIs(t, err, pkzip.ErrSignatureMismatch)
}

func TestRecord_Modified(t *testing.T) {
	// 2025-02-15 13:48:30
	rec := pkzip.CentralDirectoryRecord{
		ModifiedDate: (2025-1980)<<9 | 2<<5 | 15,
		ModifiedTime: 13<<11 | 48<<5 | 30/2,
	}

	assert.Equal(t, time.Date(2025, time.February, 15, 13, 48, 30, 0, time.UTC), rec.Modified())
}

func TestMethodName(t *testing.T) {
	assert.Equal(t, "store", pkzip.MethodName(pkzip.MethodStore))
	assert.Equal(t, "deflate", pkzip.MethodName(pkzip.MethodDeflate))
	assert.Equal(t, "unknown", pkzip.MethodName(1))
}
