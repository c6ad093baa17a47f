package hx

import (
	"strings"

	"github.com/haruki-hx/libhx/stream"
)

// Variant identifies one of the six platform-tagged container formats.
type Variant int

const (
	HXD Variant = iota
	HXC
	HX2
	HXG
	HXX
	HX3
)

type variantInfo struct {
	tag              string
	endian           stream.Endianness
	supportedCodecs  []uint32
	trailingPadding  bool
}

var variantTable = map[Variant]variantInfo{
	HXD: {tag: "PC", endian: stream.BigEndian, supportedCodecs: []uint32{1}},
	HXC: {tag: "PC", endian: stream.LittleEndian, supportedCodecs: []uint32{1}},
	HX2: {tag: "PS2", endian: stream.LittleEndian, supportedCodecs: []uint32{1, 3}, trailingPadding: true},
	HXG: {tag: "GC", endian: stream.BigEndian, supportedCodecs: []uint32{1, 4}, trailingPadding: true},
	HXX: {tag: "XBox", endian: stream.BigEndian, supportedCodecs: []uint32{1, 5}},
	HX3: {tag: "PS3", endian: stream.LittleEndian, supportedCodecs: []uint32{1, 0x55}},
}

// Endian returns the byte order every field in a file of this variant is
// serialized with.
func (v Variant) Endian() stream.Endianness {
	return variantTable[v].endian
}

// PlatformTag returns the string injected into non-cross-version class
// names for this variant ("PC", "GC", "PS2", "XBox", "PS3").
func (v Variant) PlatformTag() string {
	return variantTable[v].tag
}

// HasTrailingPadding reports whether files of this variant end with 32
// zero bytes after the index table on write.
func (v Variant) HasTrailingPadding() bool {
	return variantTable[v].trailingPadding
}

// SupportsCodec reports whether the variant table lists this audio format
// code as supported. Present for completeness; codec-selection logic does
// not consult it (per the source's own unreferenced field).
func (v Variant) SupportsCodec(code uint32) bool {
	for _, c := range variantTable[v].supportedCodecs {
		if c == code {
			return true
		}
	}
	return false
}

func (v Variant) String() string {
	switch v {
	case HXD:
		return "HXD"
	case HXC:
		return "HXC"
	case HX2:
		return "HX2"
	case HXG:
		return "HXG"
	case HXX:
		return "HXX"
	case HX3:
		return "HX3"
	default:
		return "Unknown"
	}
}

// VariantFromExtension maps a file extension (with or without leading
// dot, case-insensitive) to its variant.
func VariantFromExtension(ext string) (Variant, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "hxd":
		return HXD, nil
	case "hxc":
		return HXC, nil
	case "hx2":
		return HX2, nil
	case "hxg":
		return HXG, nil
	case "hxx":
		return HXX, nil
	case "hx3":
		return HX3, nil
	default:
		return 0, newError(InvalidArgument, "unsupported extension %q", ext)
	}
}

// Language is a locale tag attached to language links.
type Language int

const (
	LangUnknown Language = iota
	LangDE
	LangEN
	LangES
	LangFR
	LangIT
)

var languageCodes = map[Language]string{
	LangDE: "de  ",
	LangEN: "en  ",
	LangES: "es  ",
	LangFR: "fr  ",
	LangIT: "it  ",
}

func (l Language) String() string {
	switch l {
	case LangDE:
		return "DE"
	case LangEN:
		return "EN"
	case LangES:
		return "ES"
	case LangFR:
		return "FR"
	case LangIT:
		return "IT"
	default:
		return "Unknown Language"
	}
}

// LanguageFromCode maps a raw four-byte language code (e.g. "en  ") to its
// tag, defaulting to LangUnknown for anything unrecognized. Language codes
// are compared as raw bytes, never as endian-swapped integers, since they
// are ASCII fourCCs rather than numeric fields.
func LanguageFromCode(code [4]byte) Language {
	s := string(code[:])
	for lang, c := range languageCodes {
		if c == s {
			return lang
		}
	}
	return LangUnknown
}

// Code returns the raw four-byte wire code for the language, or all
// spaces for LangUnknown.
func (l Language) Code() [4]byte {
	s, ok := languageCodes[l]
	if !ok {
		s = "    "
	}
	var buf [4]byte
	copy(buf[:], s)
	return buf
}

// LanguageFromWireCode recovers a language tag from a WavResData language
// link's 32-bit code field, which stream.RW32 reads as an integer in the
// stream's endianness even though its bytes are really an ASCII fourCC. It
// re-encodes the value with the same byte order to recover the original
// bytes before comparing them as a fourCC.
func LanguageFromWireCode(code uint32, endian stream.Endianness) Language {
	var buf [4]byte
	endian.Order().PutUint32(buf[:], code)
	return LanguageFromCode(buf)
}
