// Package ziptest builds ZIP archive images in memory for tests.
package ziptest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

// Entry is one file of an Archive. Data is written as-is, whatever Method says.
type Entry struct {
	Name         string
	Data         []byte
	Method       uint16
	Flags        uint16
	Extra        []byte
	Comment      string
	ModifiedTime uint16
	ModifiedDate uint16
}

// Archive describes the archive image to build.
type Archive struct {
	// Prefix is written before the first entry, like a self-extractor stub.
	Prefix  []byte
	Entries []Entry
	Comment string
}

// Layout records where Bytes placed each record.
type Layout struct {
	LocalHeaderOffsets []int64
	CDOffset           int64
	EOCDOffset         int64
}

// Bytes returns the archive image.
func (a Archive) Bytes() []byte {
	b, _ := a.Build()
	return b
}

// Build returns the archive image and its layout.
func (a Archive) Build() ([]byte, Layout) {
	buf := new(bytes.Buffer)
	var l Layout

	buf.Write(a.Prefix)

	for _, e := range a.Entries {
		l.LocalHeaderOffsets = append(l.LocalHeaderOffsets, int64(buf.Len()))
		buf.Write(LocalFileHeader(e))
		buf.Write(e.Data)
	}

	l.CDOffset = int64(buf.Len())
	for i, e := range a.Entries {
		buf.Write(CentralDirectoryRecord(e, uint32(l.LocalHeaderOffsets[i])))
	}
	cdSize := int64(buf.Len()) - l.CDOffset

	l.EOCDOffset = int64(buf.Len())
	buf.Write(EOCD(uint16(len(a.Entries)), uint32(cdSize), uint32(l.CDOffset), a.Comment))

	return buf.Bytes(), l
}

// LocalFileHeader encodes the local file header of e.
func LocalFileHeader(e Entry) []byte {
	buf := new(bytes.Buffer)
	write(buf,
		uint32(pkzip.LocalFileHeaderSignature),
		uint16(20),
		e.Flags,
		e.Method,
		e.ModifiedTime,
		e.ModifiedDate,
		crc32.ChecksumIEEE(e.Data),
		uint32(len(e.Data)),
		uint32(len(e.Data)),
		uint16(len(e.Name)),
		uint16(len(e.Extra)),
	)
	buf.WriteString(e.Name)
	buf.Write(e.Extra)
	return buf.Bytes()
}

// CentralDirectoryRecord encodes the central directory record of e whose
// local file header is at offset.
func CentralDirectoryRecord(e Entry, offset uint32) []byte {
	buf := new(bytes.Buffer)
	write(buf,
		uint32(pkzip.CentralDirectorySignature),
		uint16(20),
		uint16(20),
		e.Flags,
		e.Method,
		e.ModifiedTime,
		e.ModifiedDate,
		crc32.ChecksumIEEE(e.Data),
		uint32(len(e.Data)),
		uint32(len(e.Data)),
		uint16(len(e.Name)),
		uint16(len(e.Extra)),
		uint16(len(e.Comment)),
		uint16(0),
		uint16(0),
		uint32(0),
		offset,
	)
	buf.WriteString(e.Name)
	buf.Write(e.Extra)
	buf.WriteString(e.Comment)
	return buf.Bytes()
}

// EOCD encodes a single-disk end of central directory record.
func EOCD(count uint16, cdSize, cdOffset uint32, comment string) []byte {
	buf := new(bytes.Buffer)
	write(buf,
		uint32(pkzip.EOCDSignature),
		uint16(0),
		uint16(0),
		count,
		count,
		cdSize,
		cdOffset,
		uint16(len(comment)),
	)
	buf.WriteString(comment)
	return buf.Bytes()
}

func write(buf *bytes.Buffer, fields ...any) {
	for _, f := range fields {
		// writes to a bytes.Buffer of fixed-size values cannot fail
		_ = binary.Write(buf, binary.LittleEndian, f)
	}
}
