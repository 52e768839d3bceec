// Package detect provides byte-level sniffing for tabular files:
// character encoding, content signatures, delimiter and line endings.
package detect

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// HasUTF8BOM reports whether data starts with a UTF-8 byte order mark.
func HasUTF8BOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF8)
}

// UTF16Signature returns the encoding label implied by a UTF-16 byte
// order mark, or "" when none is present.
func UTF16Signature(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return "utf-16le"
	case bytes.HasPrefix(data, bomUTF16BE):
		return "utf-16be"
	default:
		return ""
	}
}

// DetectEncoding identifies the character encoding of a sample and a
// confidence in 0..1. Signatures win over statistics; valid UTF-8 is
// accepted without consulting the statistical detector.
func DetectEncoding(sample []byte) (string, float64) {
	if HasUTF8BOM(sample) {
		return "utf-8", 1
	}
	if sig := UTF16Signature(sample); sig != "" {
		return sig, 1
	}
	if utf8.Valid(sample) {
		if isASCII(sample) {
			return "ascii", 1
		}
		return "utf-8", 1
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		// single-byte data that is not UTF-8; Windows-1252 decodes
		// every byte value so it is the safe assumption
		return "windows-1252", 0
	}
	return NormalizeEncodingLabel(res.Charset), float64(res.Confidence) / 100
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NormalizeEncodingLabel folds the many spellings of encoding names
// ("UTF-8", "utf8", "Utf_8") into one canonical lowercase form.
func NormalizeEncodingLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	l = strings.NewReplacer("_", "-", " ", "-").Replace(l)
	switch l {
	case "utf8":
		l = "utf-8"
	case "utf16", "utf-16":
		l = "utf-16le"
	case "latin1", "latin-1", "iso8859-1", "iso-latin-1":
		l = "iso-8859-1"
	case "latin9", "iso8859-15":
		l = "iso-8859-15"
	case "cp1252", "windows1252":
		l = "windows-1252"
	case "cp1251", "windows1251":
		l = "windows-1251"
	case "us-ascii":
		l = "ascii"
	}
	return l
}

// IsUTF8Compatible reports whether text in the labeled encoding can be
// consumed as UTF-8 without transcoding.
func IsUTF8Compatible(label string) bool {
	switch NormalizeEncodingLabel(label) {
	case "utf-8", "ascii":
		return true
	}
	return false
}

// EncodingsCompatible compares a declared encoding label against a
// detected one. Portal metadata carries free-form labels ("UTF-8 (BOM)",
// "utf8"), so comparison is by containment after normalization.
func EncodingsCompatible(declared, detected string) bool {
	a := strings.ReplaceAll(NormalizeEncodingLabel(declared), "-", "")
	b := strings.ReplaceAll(NormalizeEncodingLabel(detected), "-", "")
	if a == "" || b == "" {
		return true
	}
	if (a == "ascii" && b == "utf8") || (a == "utf8" && b == "ascii") {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
