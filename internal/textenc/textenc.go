// Package textenc decodes the single-byte Windows-1252 text used by
// EventResData/WavResObj names in the DE/FR/ES/IT localized builds,
// through golang.org/x/text rather than a naive byte-to-rune cast, so
// accented characters outside ASCII survive as valid UTF-8.
package textenc

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeWindows1252 converts raw Windows-1252 bytes (as stored in a fixed
// or length-prefixed name field) to a UTF-8 string.
func DecodeWindows1252(raw []byte) string {
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// EncodeWindows1252 converts a UTF-8 string back to Windows-1252 bytes for
// serialization. A character with no Windows-1252 representation makes the
// encoder fail, in which case the string's UTF-8 bytes are returned
// unchanged.
func EncodeWindows1252(s string) []byte {
	encoded, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return encoded
}
