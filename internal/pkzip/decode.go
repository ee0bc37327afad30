package pkzip

import "fmt"

// fieldReader reads consecutive fixed-width fields, keeping the first error.
type fieldReader struct {
	c   *Cursor
	err error
}

func (r *fieldReader) uint16() uint16 {
	if r.err != nil {
		return 0
	}
	var v uint16
	v, r.err = r.c.ReadUint16()
	return v
}

func (r *fieldReader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	var v uint32
	v, r.err = r.c.ReadUint32()
	return v
}

func (r *fieldReader) text(n uint16) string {
	if r.err != nil {
		return ""
	}
	var s string
	s, r.err = r.c.ReadText(int(n))
	return s
}

func (r *fieldReader) bytes(n uint16) []byte {
	if r.err != nil {
		return nil
	}
	var b []byte
	b, r.err = r.c.ReadBytes(int(n))
	return b
}

// expectSignature seeks to offset and checks the magic number found there.
func expectSignature(c *Cursor, offset int64, want Signature) error {
	if err := c.Seek(offset); err != nil {
		return err
	}

	got, err := c.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read %s signature: %w", want, err)
	}
	if Signature(got) != want {
		return &SignatureError{Expected: want, Actual: got, Offset: offset}
	}
	return nil
}

// ReadLocalFileHeader decodes the local file header at offset. The cursor is
// left on the first payload byte.
func ReadLocalFileHeader(c *Cursor, offset int64) (LocalFileHeader, error) {
	if err := expectSignature(c, offset, LocalFileHeaderSignature); err != nil {
		return LocalFileHeader{}, err
	}

	r := &fieldReader{c: c}
	h := LocalFileHeader{
		VersionNeeded:    r.uint16(),
		Flags:            r.uint16(),
		Method:           r.uint16(),
		ModifiedTime:     r.uint16(),
		ModifiedDate:     r.uint16(),
		CRC32:            r.uint32(),
		CompressedSize:   r.uint32(),
		UncompressedSize: r.uint32(),
		NameLength:       r.uint16(),
		ExtraLength:      r.uint16(),
		Offset:           offset,
	}
	h.Name = r.text(h.NameLength)
	h.Extra = r.bytes(h.ExtraLength)

	if r.err != nil {
		return LocalFileHeader{}, fmt.Errorf("failed to read local file header at offset 0x%x: %w", offset, r.err)
	}
	return h, nil
}

// ReadCentralDirectoryRecord decodes the central directory record at offset.
func ReadCentralDirectoryRecord(c *Cursor, offset int64) (CentralDirectoryRecord, error) {
	if err := expectSignature(c, offset, CentralDirectorySignature); err != nil {
		return CentralDirectoryRecord{}, err
	}

	r := &fieldReader{c: c}
	rec := CentralDirectoryRecord{
		VersionMadeBy:    r.uint16(),
		VersionNeeded:    r.uint16(),
		Flags:            r.uint16(),
		Method:           r.uint16(),
		ModifiedTime:     r.uint16(),
		ModifiedDate:     r.uint16(),
		CRC32:            r.uint32(),
		CompressedSize:   r.uint32(),
		UncompressedSize: r.uint32(),
		NameLength:       r.uint16(),
		ExtraLength:      r.uint16(),
		CommentLength:    r.uint16(),
		DiskNumberStart:  r.uint16(),
		InternalAttrs:    r.uint16(),
		ExternalAttrs:    r.uint32(),
		FileOffset:       r.uint32(),
	}
	rec.Name = r.text(rec.NameLength)
	rec.Extra = r.bytes(rec.ExtraLength)
	rec.Comment = r.text(rec.CommentLength)

	if r.err != nil {
		return CentralDirectoryRecord{}, fmt.Errorf("failed to read central directory record at offset 0x%x: %w", offset, r.err)
	}
	return rec, nil
}

// ReadEOCDRecord decodes the end of central directory record at offset.
func ReadEOCDRecord(c *Cursor, offset int64) (EOCDRecord, error) {
	if err := expectSignature(c, offset, EOCDSignature); err != nil {
		return EOCDRecord{}, err
	}

	r := &fieldReader{c: c}
	rec := EOCDRecord{
		DiskNumber:    r.uint16(),
		CDDisk:        r.uint16(),
		CDCountOnDisk: r.uint16(),
		CDCount:       r.uint16(),
		CDSize:        r.uint32(),
		CDOffset:      r.uint32(),
		CommentLength: r.uint16(),
		Offset:        offset,
	}
	rec.Comment = r.text(rec.CommentLength)

	if r.err != nil {
		return EOCDRecord{}, fmt.Errorf("failed to read end of central directory record at offset 0x%x: %w", offset, r.err)
	}
	return rec, nil
}
