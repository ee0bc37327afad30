package parser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

// ZipReader reads metadata records and stored payloads from a ZIP archive.
//
// A ZipReader owns the single read position of its source and must not be
// used from more than one goroutine at a time.
type ZipReader struct {
	cursor *pkzip.Cursor
	logger *slog.Logger
}

// NewZipReader returns a ZipReader over src. A nil logger means slog.Default().
// The source stays owned by the caller.
func NewZipReader(src pkzip.Source, logger *slog.Logger) *ZipReader {
	if logger == nil {
		logger = slog.Default()
	}

	return &ZipReader{
		cursor: pkzip.NewCursor(src),
		logger: logger,
	}
}

// FindEOCD locates the end of central directory record by scanning backward
// from the end of the source.
//
// A position p is a candidate comment length field when the uint16 stored
// there equals the number of bytes between p+2 and the end of the source.
// Each candidate is then decoded as a record starting 20 bytes earlier; a
// signature mismatch means the length matched by coincidence and the scan
// moves one byte further back. Only the last pkzip.MaxEOCDSearch bytes are
// considered.
func (r *ZipReader) FindEOCD() (*pkzip.EOCDRecord, error) {
	size := r.cursor.Len()
	start := max(0, size-pkzip.MaxEOCDSearch)

	if err := r.cursor.Seek(start); err != nil {
		return nil, err
	}
	window, err := r.cursor.ReadBytes(int(size - start))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive tail: %w", err)
	}

	for p := size - 2; p-pkzip.EOCDLen+2 >= start; p-- {
		commentLen := int64(binary.LittleEndian.Uint16(window[p-start:]))
		if commentLen != size-p-2 {
			continue
		}

		offset := p - pkzip.EOCDLen + 2
		eocd, err := pkzip.ReadEOCDRecord(r.cursor, offset)
		if errors.Is(err, pkzip.ErrSignatureMismatch) {
			r.logger.Debug("rejected end of central directory candidate",
				"offset", offset,
				"comment_length", commentLen,
				"error", err,
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		r.logger.Info("found end of central directory",
			"offset", eocd.Offset,
			"cd_count", eocd.CDCount,
			"cd_size", eocd.CDSize,
			"cd_offset", eocd.CDOffset,
			"comment_length", eocd.CommentLength,
		)
		return &eocd, nil
	}

	return nil, fmt.Errorf("%w: searched last %d bytes of %d", pkzip.ErrEOCDNotFound, size-start, size)
}

// ReadCentralDirectory decodes the eocd.CDCount records that start at
// eocd.CDOffset. It fails on the first record that cannot be decoded rather
// than returning a partial directory.
func (r *ZipReader) ReadCentralDirectory(eocd *pkzip.EOCDRecord) ([]pkzip.CentralDirectoryRecord, error) {
	count := int(eocd.CDCount)
	offset := int64(eocd.CDOffset)

	r.logger.Debug("reading central directory",
		"cd_count", count,
		"cd_offset", offset,
	)

	records := make([]pkzip.CentralDirectoryRecord, 0, count)
	for i := 0; i < count; i++ {
		rec, err := pkzip.ReadCentralDirectoryRecord(r.cursor, offset)
		if err != nil {
			return nil, &pkzip.CentralDirectoryError{
				Index:  i,
				Count:  count,
				Offset: offset,
				Err:    err,
			}
		}

		r.logger.Debug("read central directory record",
			"index", i,
			"name", rec.Name,
			"method", rec.Method,
			"flags", rec.Flags,
			"compressed_size", rec.CompressedSize,
			"uncompressed_size", rec.UncompressedSize,
			"file_offset", rec.FileOffset,
		)

		records = append(records, rec)
		offset += rec.Size()
	}

	r.logger.Info("read central directory",
		"cd_count", count,
	)

	return records, nil
}

// ReadLocalFileHeader decodes the local file header rec points to.
func (r *ZipReader) ReadLocalFileHeader(rec *pkzip.CentralDirectoryRecord) (*pkzip.LocalFileHeader, error) {
	h, err := pkzip.ReadLocalFileHeader(r.cursor, int64(rec.FileOffset))
	if err != nil {
		return nil, fmt.Errorf("failed to read local file header of %q: %w", rec.Name, err)
	}

	if h.Name != rec.Name {
		r.logger.Debug("local file header name differs from central directory",
			"cd_name", rec.Name,
			"lfh_name", h.Name,
		)
	}

	return &h, nil
}

// ReadEntry returns the payload of rec exactly as stored. The length is
// rec.CompressedSize; the local file header's own sizes are ignored.
//
// Nothing is decompressed or decrypted: callers must check rec.Method and
// rec.IsEncrypted before treating the bytes as file content.
func (r *ZipReader) ReadEntry(rec *pkzip.CentralDirectoryRecord) ([]byte, error) {
	h, err := r.ReadLocalFileHeader(rec)
	if err != nil {
		return nil, err
	}

	if err := r.cursor.Seek(h.DataOffset()); err != nil {
		return nil, fmt.Errorf("failed to seek to payload of %q: %w", rec.Name, err)
	}

	data, err := r.cursor.ReadBytes(int(rec.CompressedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload of %q: %w", rec.Name, err)
	}

	return data, nil
}

// ExtractTo copies the stored payload of rec to w. It is the streaming form
// of ReadEntry.
func (r *ZipReader) ExtractTo(rec *pkzip.CentralDirectoryRecord, w io.Writer) (int64, error) {
	h, err := r.ReadLocalFileHeader(rec)
	if err != nil {
		return 0, err
	}

	if err := r.cursor.Seek(h.DataOffset()); err != nil {
		return 0, fmt.Errorf("failed to seek to payload of %q: %w", rec.Name, err)
	}

	size := int64(rec.CompressedSize)
	if end := h.DataOffset() + size; end > r.cursor.Len() {
		return 0, fmt.Errorf("failed to copy payload of %q: %w: %d bytes at offset %d exceed source of %d bytes",
			rec.Name, pkzip.ErrEndOfSource, size, h.DataOffset(), r.cursor.Len())
	}

	n, err := io.CopyN(w, r.cursor, size)
	if err != nil {
		return n, fmt.Errorf("failed to copy payload of %q: %w", rec.Name, err)
	}

	return n, nil
}
