package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

// Archive is a located EOCD record together with the central directory it
// describes.
type Archive struct {
	EOCD    pkzip.EOCDRecord
	Records []pkzip.CentralDirectoryRecord

	reader *ZipReader
}

// Open locates the EOCD record of src and reads its central directory.
func Open(src pkzip.Source, logger *slog.Logger) (*Archive, error) {
	r := NewZipReader(src, logger)

	eocd, err := r.FindEOCD()
	if err != nil {
		return nil, fmt.Errorf("failed to locate end of central directory: %w", err)
	}

	if eocd.DiskNumber != 0 || eocd.CDDisk != 0 {
		r.logger.Warn("archive spans multiple disks, only this disk is read",
			"disk_number", eocd.DiskNumber,
			"cd_disk", eocd.CDDisk,
		)
	}

	records, err := r.ReadCentralDirectory(eocd)
	if err != nil {
		return nil, fmt.Errorf("failed to read central directory: %w", err)
	}

	return &Archive{
		EOCD:    *eocd,
		Records: records,
		reader:  r,
	}, nil
}

// Lookup returns the first record named name.
func (a *Archive) Lookup(name string) (*pkzip.CentralDirectoryRecord, bool) {
	for i := range a.Records {
		if a.Records[i].Name == name {
			return &a.Records[i], true
		}
	}
	return nil, false
}

// ReadEntry returns the stored payload of rec.
func (a *Archive) ReadEntry(rec *pkzip.CentralDirectoryRecord) ([]byte, error) {
	return a.reader.ReadEntry(rec)
}

// ExtractTo copies the stored payload of rec to w.
func (a *Archive) ExtractTo(rec *pkzip.CentralDirectoryRecord, w io.Writer) (int64, error) {
	return a.reader.ExtractTo(rec, w)
}
