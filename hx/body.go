package hx

import (
	"github.com/haruki-hx/libhx/internal/textenc"
	"github.com/haruki-hx/libhx/stream"
	"github.com/haruki-hx/libhx/wave"
)

// LanguageLink associates a locale with a specific referenced entry. It
// appears both at the entry-index level (index type 2) and, in a
// narrower two-field form, inside a WavResData body.
type LanguageLink struct {
	Language Language
	Opaque   uint32
	CUUID    uint64
}

// EventResData names and configures a single playable event, linking to
// the resource (WavResData or one of Random/Switch/Program) it triggers.
type EventResData struct {
	Type   uint32
	Name   string
	Flags  uint32
	Link   uint64
	Floats [4]float32
}

func (b *EventResData) RW(s *stream.Stream, v Variant) {
	s.RW32(&b.Type)
	rwLocalizedName(s, &b.Name)
	s.RW32(&b.Flags)
	s.RWCUUID(&b.Link)
	for i := range b.Floats {
		s.RWFloat(&b.Floats[i])
	}
}

// WavResObj is the header embedded as the first field of WavResData.
type WavResObj struct {
	ID     uint32
	Name   string
	Size   uint32
	Floats [3]float32
	Flags  byte
}

const wavResObjNameSize = 256

// rwLocalizedName reads or writes a length-prefixed name field, decoding
// its bytes as Windows-1252 on read and re-encoding on write, so accented
// characters in the DE/FR/ES/IT builds survive the round trip as UTF-8 in
// memory rather than raw Latin-1 bytes misread as UTF-8.
func rwLocalizedName(s *stream.Stream, name *string) {
	if s.Mode() == stream.ModeWrite {
		raw := string(textenc.EncodeWindows1252(*name))
		s.RWLengthPrefixedString(&raw)
		return
	}
	var raw string
	s.RWLengthPrefixedString(&raw)
	*name = textenc.DecodeWindows1252([]byte(raw))
}

// rwLocalizedFixedName is rwLocalizedName's fixed-width counterpart, used
// for WavResObj's zero-padded 256-byte name buffer.
func rwLocalizedFixedName(s *stream.Stream, name *string, size int) {
	if s.Mode() == stream.ModeWrite {
		raw := string(textenc.EncodeWindows1252(*name))
		s.RWFixedString(&raw, size)
		return
	}
	var raw string
	s.RWFixedString(&raw, size)
	*name = textenc.DecodeWindows1252([]byte(raw))
}

func (b *WavResObj) RW(s *stream.Stream, v Variant) {
	s.RW32(&b.ID)
	if v == HXC {
		rwLocalizedFixedName(s, &b.Name, wavResObjNameSize)
	}
	if v == HXG || v == HX2 {
		s.RW32(&b.Size)
		if s.Mode() == stream.ModeRead {
			b.Name = ""
		}
	}
	for i := range b.Floats {
		s.RWFloat(&b.Floats[i])
	}
	buf := []byte{b.Flags}
	s.RW(buf)
	if s.Mode() == stream.ModeRead {
		b.Flags = buf[0]
	}
}

const wavResDataMultipleFlag = 0x02

// WavResData is a resource entry that either points at a single wave-file
// entry directly (DefaultCUUID) or, when the "multiple" flag is set, at
// several localized variants via LanguageLinks.
type WavResData struct {
	WavResObj
	DefaultCUUID  uint64
	LanguageLinks []struct {
		LanguageCode uint32
		CUUID        uint64
	}
}

func (b *WavResData) RW(s *stream.Stream, v Variant) error {
	b.WavResObj.RW(s, v)
	s.RWCUUID(&b.DefaultCUUID)
	if b.WavResObj.Flags&wavResDataMultipleFlag != 0 {
		count := uint32(len(b.LanguageLinks))
		s.RW32(&count)
		if s.Mode() == stream.ModeRead {
			b.LanguageLinks = make([]struct {
				LanguageCode uint32
				CUUID        uint64
			}, count)
		}
		for i := range b.LanguageLinks {
			s.RW32(&b.LanguageLinks[i].LanguageCode)
			s.RWCUUID(&b.LanguageLinks[i].CUUID)
		}
		if v == HXG && b.DefaultCUUID != 0 {
			// normative assertion: HXG requires a zero default CUUID
			// when the multiple-variant flag is set.
			return newError(InvalidHeader, "HXG WavResData with the multiple-variant flag set must have a zero default CUUID, got %#x", b.DefaultCUUID)
		}
	} else {
		b.LanguageLinks = nil
	}
	return nil
}

// SwitchCase pairs a case index with the CUUID it selects.
type SwitchCase struct {
	Index int32
	CUUID uint64
}

// SwitchResData dispatches to one of several resources by an externally
// supplied case index.
type SwitchResData struct {
	Flag       uint32
	Unknown1   uint32
	Unknown2   uint32
	StartIndex uint32
	Cases      []SwitchCase
}

func (b *SwitchResData) RW(s *stream.Stream, v Variant) {
	s.RW32(&b.Flag)
	s.RW32(&b.Unknown1)
	s.RW32(&b.Unknown2)
	s.RW32(&b.StartIndex)
	count := uint32(len(b.Cases))
	s.RW32(&count)
	if s.Mode() == stream.ModeRead {
		b.Cases = make([]SwitchCase, count)
	}
	for i := range b.Cases {
		s.RWInt32(&b.Cases[i].Index)
		s.RWCUUID(&b.Cases[i].CUUID)
	}
}

// RandomEntry pairs a selection probability with the CUUID it selects.
type RandomEntry struct {
	Probability float32
	CUUID       uint64
}

// RandomResData picks one of several resources by weighted probability.
type RandomResData struct {
	Flag             uint32
	Offset           float32
	ThrowProbability float32
	Entries          []RandomEntry
}

func (b *RandomResData) RW(s *stream.Stream, v Variant) {
	s.RW32(&b.Flag)
	s.RWFloat(&b.Offset)
	s.RWFloat(&b.ThrowProbability)
	count := uint32(len(b.Entries))
	s.RW32(&count)
	if s.Mode() == stream.ModeRead {
		b.Entries = make([]RandomEntry, count)
	}
	for i := range b.Entries {
		s.RWFloat(&b.Entries[i].Probability)
		s.RWCUUID(&b.Entries[i].CUUID)
	}
}

// ProgramResData holds an opaque scripted-behavior blob. AdvisoryLinks is
// populated by a post-read heuristic scan (see scanProgramLinks) and
// should not be treated as authoritative.
type ProgramResData struct {
	Blob          []byte
	AdvisoryLinks []uint64
}

func (b *ProgramResData) RW(s *stream.Stream, v Variant, blobSize int) {
	if s.Mode() == stream.ModeRead {
		b.Blob = make([]byte, blobSize)
	}
	s.RW(b.Blob)
}

// scanProgramLinks re-implements the reference's heuristic byte scan for
// embedded CUUID references: walk the blob looking for 'E', optionally
// skip a byte on HXC, then read a would-be CUUID; keep it only if its
// high word is 3.
func scanProgramLinks(blob []byte, v Variant) []uint64 {
	var links []uint64
	endian := v.Endian()
	for i := 0; i < len(blob); i++ {
		if blob[i] != 'E' {
			continue
		}
		pos := i + 1
		if v == HXC {
			pos++
		}
		if pos+8 > len(blob) {
			continue
		}
		hi := endian.Order().Uint32(blob[pos:])
		lo := endian.Order().Uint32(blob[pos+4:])
		if v == HX2 {
			hi, lo = lo, hi
		}
		cuuid := uint64(hi)<<32 | uint64(lo)
		if hi == 3 {
			links = append(links, cuuid)
		}
	}
	return links
}

// IdObjPtr is the header embedded as the first field of WaveFileIdObj.
type IdObjPtr struct {
	ID        uint32
	Float     float32
	Flags     uint32
	Successor uint32
}

const idObjFlagExternal = 0x01

func (b *IdObjPtr) RW(s *stream.Stream, v Variant) {
	s.RW32(&b.ID)
	s.RWFloat(&b.Float)
	if v == HXG {
		s.RW32(&b.Flags)
		s.RW32(&b.Successor)
	} else {
		var flagByte byte
		if s.Mode() == stream.ModeWrite {
			flagByte = byte(b.Flags)
		}
		buf := []byte{flagByte}
		s.RW(buf)
		if s.Mode() == stream.ModeRead {
			b.Flags = uint32(buf[0])
		}
	}
}

// WaveFileIdObj is the leaf entry carrying a decodable audio stream,
// inline or referencing an external sibling file.
type WaveFileIdObj struct {
	IdObjPtr
	Filename  string
	Wave      wave.Header
	Data      []byte
	ExtSize   uint32
	ExtOffset uint32
	Trailing  []byte

	// Name is derived by the post-read pass; it is never itself
	// serialized.
	Name string
}

func (b *WaveFileIdObj) external() bool {
	return b.IdObjPtr.Flags&idObjFlagExternal != 0
}

// External reports whether the wave-file entry's audio lives in a sibling
// file rather than inline: only ExtSize/ExtOffset are populated in that
// case, never Data.
func (b *WaveFileIdObj) External() bool {
	return b.external()
}

// RW reads or writes the wave-file body. totalSize is the entry's
// declared file size, used on read to size the trailing padding/unknown
// -chunk tail once every other field has been accounted for. On HX2, an
// external filename has historically been written with a ".\" prefix and
// stripped of it on read; this implementation preserves that behavior
// symmetrically so round-trips are stable.
func (b *WaveFileIdObj) RW(s *stream.Stream, v Variant, totalSize int) error {
	startPos := s.Pos()
	b.IdObjPtr.RW(s, v)

	if b.external() {
		name := b.Filename
		if s.Mode() == stream.ModeWrite && v == HX2 {
			name = ".\\" + name
		}
		s.RWLengthPrefixedString(&name)
		if s.Mode() == stream.ModeRead {
			if v == HX2 {
				name = trimHX2Prefix(name)
			}
			b.Filename = name
		}
	}

	wave.RW(s, &b.Wave)

	if b.external() {
		if b.Wave.Subchunk2ID != wave.DatxChunkID {
			return newError(WaveHeaderInvalid, "external wave-file entry has subchunk2 id %#x, want datx (%#x)", b.Wave.Subchunk2ID, wave.DatxChunkID)
		}
		s.RW32(&b.ExtSize)
		s.RW32(&b.ExtOffset)
	} else {
		if b.Wave.Subchunk2ID != wave.DataChunkID {
			return newError(WaveHeaderInvalid, "inline wave-file entry has subchunk2 id %#x, want data (%#x)", b.Wave.Subchunk2ID, wave.DataChunkID)
		}
		if s.Mode() == stream.ModeRead {
			b.Data = make([]byte, b.Wave.Subchunk2Size)
		}
		s.RW(b.Data)
	}

	if s.Mode() == stream.ModeRead {
		consumed := s.Pos() - startPos
		remaining := totalSize - consumed
		if remaining < 0 {
			remaining = 0
		}
		b.Trailing = make([]byte, remaining)
	}
	s.RW(b.Trailing)
	return nil
}

func trimHX2Prefix(name string) string {
	const prefix = ".\\"
	if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}
