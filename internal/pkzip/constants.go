package pkzip

// Signature is the 4-byte magic number that opens every ZIP metadata record.
type Signature uint32

const (
	LocalFileHeaderSignature  Signature = 0x04034b50
	CentralDirectorySignature Signature = 0x02014b50
	EOCDSignature             Signature = 0x06054b50
)

func (s Signature) String() string {
	switch s {
	case LocalFileHeaderSignature:
		return "local file header"
	case CentralDirectorySignature:
		return "central directory record"
	case EOCDSignature:
		return "end of central directory record"
	default:
		return "unknown record"
	}
}

// Fixed-portion sizes of each record, signature included.
const (
	LocalFileHeaderLen        = 30
	CentralDirectoryRecordLen = 46
	EOCDLen                   = 22
)

const (
	// MaxCommentLen is the largest comment a 16-bit length field can declare.
	MaxCommentLen = 0xffff

	// MaxEOCDSearch bounds the backward scan for the EOCD record: the record
	// can start no further than this many bytes from the end of the archive.
	MaxEOCDSearch = MaxCommentLen + EOCDLen

	// eocdCommentLenOffset is the distance from the EOCD signature to its
	// comment length field.
	eocdCommentLenOffset = EOCDLen - 2
)

// Compression methods. Anything other than MethodStore leaves the payload
// compressed.
const (
	MethodStore   uint16 = 0
	MethodDeflate uint16 = 8
)

// General purpose flag bits.
const (
	FlagEncrypted      uint16 = 0x1
	FlagDataDescriptor uint16 = 0x8
	FlagUTF8           uint16 = 0x800
)
