package pkzip

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfSource is returned when a read or seek falls outside the byte source.
	ErrEndOfSource = errors.New("end of source")

	// ErrSignatureMismatch is matched by every *SignatureError.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrEOCDNotFound is returned when the backward scan exhausts its window.
	ErrEOCDNotFound = errors.New("end of central directory record not found")

	// ErrTruncatedCentralDirectory is matched by every *CentralDirectoryError.
	ErrTruncatedCentralDirectory = errors.New("truncated central directory")
)

// SignatureError reports a record whose magic number did not match.
type SignatureError struct {
	Expected Signature
	Actual   uint32
	Offset   int64
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid %s at offset 0x%x: expected signature 0x%08x, got 0x%08x",
		e.Expected, e.Offset, uint32(e.Expected), e.Actual)
}

func (e *SignatureError) Unwrap() error { return ErrSignatureMismatch }

// CentralDirectoryError reports the central directory record that could not
// be decoded, out of the count declared by the EOCD record.
type CentralDirectoryError struct {
	Index  int
	Count  int
	Offset int64
	Err    error
}

func (e *CentralDirectoryError) Error() string {
	return fmt.Sprintf("central directory record %d/%d at offset 0x%x is not valid: %v",
		e.Index, e.Count, e.Offset, e.Err)
}

func (e *CentralDirectoryError) Unwrap() []error {
	return []error{ErrTruncatedCentralDirectory, e.Err}
}
