package detect

import (
	"bytes"
)

// ContentKind classifies the payload behind a file that claims to be
// tabular text.
type ContentKind int

const (
	KindText ContentKind = iota
	KindEmpty
	KindUTF16Text
	KindZIP
	KindOLE2
	KindPDF
	KindGzip
	KindParquet
	KindMarkup
	KindJSON
	KindBinary
)

var (
	magicZIP     = []byte{0x50, 0x4B, 0x03, 0x04}
	magicOLE2    = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	magicPDF     = []byte("%PDF")
	magicGzip    = []byte{0x1F, 0x8B}
	magicParquet = []byte("PAR1")
)

func (k ContentKind) String() string {
	switch k {
	case KindText:
		return "plain text"
	case KindEmpty:
		return "empty file"
	case KindUTF16Text:
		return "UTF-16 text"
	case KindZIP:
		return "ZIP archive"
	case KindOLE2:
		return "OLE2 compound document (legacy Office)"
	case KindPDF:
		return "PDF document"
	case KindGzip:
		return "gzip archive"
	case KindParquet:
		return "Parquet file"
	case KindMarkup:
		return "HTML/XML markup"
	case KindJSON:
		return "JSON document"
	default:
		return "binary data"
	}
}

// Tabular reports whether the kind is a candidate for CSV parsing.
// UTF-16 payloads are not: a UTF-16 byte order mark counts as a binary
// signature and blocks the run.
func (k ContentKind) Tabular() bool {
	return k == KindText
}

// DetectContent sniffs the payload kind from the leading bytes.
func DetectContent(sample []byte) ContentKind {
	if len(sample) == 0 {
		return KindEmpty
	}
	switch {
	case bytes.HasPrefix(sample, magicZIP):
		return KindZIP
	case bytes.HasPrefix(sample, magicOLE2):
		return KindOLE2
	case bytes.HasPrefix(sample, magicPDF):
		return KindPDF
	case bytes.HasPrefix(sample, magicGzip):
		return KindGzip
	case bytes.HasPrefix(sample, magicParquet):
		return KindParquet
	}
	if UTF16Signature(sample) != "" {
		return KindUTF16Text
	}

	trimmed := bytes.TrimLeft(sample, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '<':
			return KindMarkup
		case '{', '[':
			return KindJSON
		}
	}

	if bytes.IndexByte(sample, 0x00) >= 0 {
		return KindBinary
	}
	return KindText
}
