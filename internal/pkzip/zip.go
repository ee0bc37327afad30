package pkzip

import "time"

// Record is one of the three metadata record kinds, distinguished by the
// signature that opens it.
type Record interface {
	Signature() Signature
	// Size is the number of bytes the record occupies, fixed portion plus
	// variable-length tail.
	Size() int64
}

var (
	_ Record = LocalFileHeader{}
	_ Record = CentralDirectoryRecord{}
	_ Record = EOCDRecord{}
)

// LocalFileHeader precedes each entry's payload.
//
// Its sizes and CRC may be zero when FlagDataDescriptor is set, which is why
// extraction trusts the central directory instead.
type LocalFileHeader struct {
	VersionNeeded    uint16
	Flags            uint16
	Method           uint16
	ModifiedTime     uint16
	ModifiedDate     uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	NameLength       uint16
	ExtraLength      uint16
	Name             string
	Extra            []byte

	// Offset is where the header's signature was found.
	Offset int64
}

func (LocalFileHeader) Signature() Signature { return LocalFileHeaderSignature }

func (h LocalFileHeader) Size() int64 {
	return LocalFileHeaderLen + int64(h.NameLength) + int64(h.ExtraLength)
}

// DataOffset is the absolute position of the first payload byte.
func (h LocalFileHeader) DataOffset() int64 { return h.Offset + h.Size() }

func (h LocalFileHeader) IsEncrypted() bool { return h.Flags&FlagEncrypted != 0 }

func (h LocalFileHeader) HasDataDescriptor() bool { return h.Flags&FlagDataDescriptor != 0 }

func (h LocalFileHeader) Modified() time.Time { return dosTime(h.ModifiedDate, h.ModifiedTime) }

// CentralDirectoryRecord is the authoritative metadata of one entry.
type CentralDirectoryRecord struct {
	VersionMadeBy    uint16
	VersionNeeded    uint16
	Flags            uint16
	Method           uint16
	ModifiedTime     uint16
	ModifiedDate     uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	NameLength       uint16
	ExtraLength      uint16
	CommentLength    uint16
	DiskNumberStart  uint16
	InternalAttrs    uint16
	ExternalAttrs    uint32
	// FileOffset is the absolute position of the entry's local file header.
	FileOffset uint32
	Name       string
	Extra      []byte
	Comment    string
}

func (CentralDirectoryRecord) Signature() Signature { return CentralDirectorySignature }

func (r CentralDirectoryRecord) Size() int64 {
	return CentralDirectoryRecordLen + int64(r.NameLength) + int64(r.ExtraLength) + int64(r.CommentLength)
}

// IsEncrypted reports whether the payload is encrypted. Encrypted payloads
// are returned as stored; decrypting them is up to the caller.
func (r CentralDirectoryRecord) IsEncrypted() bool { return r.Flags&FlagEncrypted != 0 }

func (r CentralDirectoryRecord) HasDataDescriptor() bool { return r.Flags&FlagDataDescriptor != 0 }

// IsStored reports whether the payload is the literal file content.
func (r CentralDirectoryRecord) IsStored() bool { return r.Method == MethodStore }

func (r CentralDirectoryRecord) Modified() time.Time { return dosTime(r.ModifiedDate, r.ModifiedTime) }

// EOCDRecord is the archive-level summary found near the end of the archive.
type EOCDRecord struct {
	DiskNumber    uint16
	CDDisk        uint16
	CDCountOnDisk uint16
	CDCount       uint16
	CDSize        uint32
	CDOffset      uint32
	CommentLength uint16
	Comment       string

	// Offset is where the record's signature was found.
	Offset int64
}

func (EOCDRecord) Signature() Signature { return EOCDSignature }

func (r EOCDRecord) Size() int64 { return EOCDLen + int64(r.CommentLength) }

// MethodName returns a short name for a compression method.
func MethodName(method uint16) string {
	switch method {
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	case 12:
		return "bzip2"
	case 14:
		return "lzma"
	case 93:
		return "zstd"
	case 95:
		return "xz"
	default:
		return "unknown"
	}
}

// dosTime converts packed MS-DOS date and time fields.
// The resolution is 2s and no time zone is recorded, so UTC is assumed.
func dosTime(d, t uint16) time.Time {
	return time.Date(
		int(d>>9)+1980,
		time.Month(d>>5&0xf),
		int(d&0x1f),
		int(t>>11),
		int(t>>5&0x3f),
		int(t&0x1f)*2,
		0,
		time.UTC,
	)
}
