// Package manifest describes a parsed archive as JSON.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ossyrian/pkparse/internal/parser"
	"github.com/ossyrian/pkparse/internal/pkzip"
)

// Manifest is the archive-level summary plus one Entry per central
// directory record, in on-disk order.
type Manifest struct {
	Source     string  `json:"source"`
	EOCDOffset int64   `json:"eocd_offset"`
	DiskNumber uint16  `json:"disk_number"`
	CDDisk     uint16  `json:"cd_disk"`
	CDCount    uint16  `json:"cd_count"`
	CDSize     uint32  `json:"cd_size"`
	CDOffset   uint32  `json:"cd_offset"`
	Comment    string  `json:"comment,omitempty"`
	Entries    []Entry `json:"entries"`
}

// Entry describes one archive entry. CRC32 is reported, never verified.
type Entry struct {
	Name              string    `json:"name"`
	Method            string    `json:"method"`
	MethodID          uint16    `json:"method_id"`
	Flags             uint16    `json:"flags"`
	Encrypted         bool      `json:"encrypted"`
	DataDescriptor    bool      `json:"data_descriptor"`
	Modified          time.Time `json:"modified"`
	CRC32             string    `json:"crc32"`
	CompressedSize    uint32    `json:"compressed_size"`
	UncompressedSize  uint32    `json:"uncompressed_size"`
	LocalHeaderOffset uint32    `json:"local_header_offset"`
	VersionMadeBy     uint16    `json:"version_made_by"`
	VersionNeeded     uint16    `json:"version_needed"`
	ExternalAttrs     uint32    `json:"external_attrs"`
	ExtraLength       uint16    `json:"extra_length"`
	Comment           string    `json:"comment,omitempty"`
}

// New builds the manifest of archive, read from source.
func New(source string, archive *parser.Archive) *Manifest {
	eocd := archive.EOCD
	m := &Manifest{
		Source:     source,
		EOCDOffset: eocd.Offset,
		DiskNumber: eocd.DiskNumber,
		CDDisk:     eocd.CDDisk,
		CDCount:    eocd.CDCount,
		CDSize:     eocd.CDSize,
		CDOffset:   eocd.CDOffset,
		Comment:    eocd.Comment,
		Entries:    make([]Entry, 0, len(archive.Records)),
	}

	for _, rec := range archive.Records {
		m.Entries = append(m.Entries, NewEntry(rec))
	}

	return m
}

// NewEntry describes a single central directory record.
func NewEntry(rec pkzip.CentralDirectoryRecord) Entry {
	return Entry{
		Name:              rec.Name,
		Method:            pkzip.MethodName(rec.Method),
		MethodID:          rec.Method,
		Flags:             rec.Flags,
		Encrypted:         rec.IsEncrypted(),
		DataDescriptor:    rec.HasDataDescriptor(),
		Modified:          rec.Modified(),
		CRC32:             fmt.Sprintf("%08x", rec.CRC32),
		CompressedSize:    rec.CompressedSize,
		UncompressedSize:  rec.UncompressedSize,
		LocalHeaderOffset: rec.FileOffset,
		VersionMadeBy:     rec.VersionMadeBy,
		VersionNeeded:     rec.VersionNeeded,
		ExternalAttrs:     rec.ExternalAttrs,
		ExtraLength:       rec.ExtraLength,
		Comment:           rec.Comment,
	}
}

// Write encodes m as indented JSON.
func (m *Manifest) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}
