// Package hx implements the HX container codec: the index/entry table
// layout shared by the six platform variants, the per-class body
// serializers, and the read/write protocols that tie them together.
package hx

import (
	"github.com/haruki-hx/libhx/stream"
)

const indexMagic uint32 = 0x58444E49 // "INDX"

// Container is an ordered, CUUID-addressable collection of entries read
// from or destined for a single HX file.
type Container struct {
	Variant     Variant
	IndexOffset uint32
	IndexType   uint32
	Entries     []*Entry

	index map[uint64]*Entry
}

// Lookup finds an entry by CUUID.
func (c *Container) Lookup(cuuid uint64) (*Entry, bool) {
	e, ok := c.index[cuuid]
	return e, ok
}

func (c *Container) rebuildIndex() {
	c.index = make(map[uint64]*Entry, len(c.Entries))
	for _, e := range c.Entries {
		c.index[e.CUUID] = e
	}
}

// Read parses a complete HX file buffer of the given variant.
func Read(data []byte, variant Variant) (*Container, error) {
	s := stream.New(data, stream.ModeRead, variant.Endian())

	var indexOffset uint32
	s.RW32(&indexOffset)
	s.Seek(int(indexOffset))

	var magic uint32
	s.RW32(&magic)
	if magic != indexMagic {
		return nil, newError(InvalidHeader, "index magic %#x does not match %#x", magic, indexMagic)
	}

	var indexType uint32
	s.RW32(&indexType)
	if indexType != 1 && indexType != 2 {
		return nil, newError(InvalidIndexType, "index type %d is neither 1 nor 2", indexType)
	}

	var count uint32
	s.RW32(&count)
	if count == 0 {
		return nil, newError(EmptyFile, "index declares zero entries")
	}

	entries := make([]*Entry, count)
	for i := range entries {
		var classNameLen uint32
		s.RW32(&classNameLen)
		nameBytes := make([]byte, classNameLen)
		s.RW(nameBytes)
		class := ParseClassName(string(nameBytes))

		var cuuid uint64
		s.RWCUUID(&cuuid)
		var offset, size, zero, linkCount uint32
		s.RW32(&offset)
		s.RW32(&size)
		s.RW32(&zero)
		s.RW32(&linkCount)
		if zero != 0 {
			return nil, newError(InvalidHeader, "index record %d: reserved word is %#x, must be zero", i, zero)
		}

		entry := &Entry{
			CUUID:  cuuid,
			Class:  class,
			Offset: offset,
			Size:   size,
		}

		if indexType == 2 {
			entry.Links = make([]uint64, linkCount)
			for l := range entry.Links {
				s.RWCUUID(&entry.Links[l])
			}
			var numLanguages uint32
			s.RW32(&numLanguages)
			entry.LanguageLinks = make([]LanguageLink, numLanguages)
			for l := range entry.LanguageLinks {
				var codeBuf [4]byte
				s.RW(codeBuf[:])
				var opaque uint32
				s.RW32(&opaque)
				var llCUUID uint64
				s.RWCUUID(&llCUUID)
				entry.LanguageLinks[l] = LanguageLink{
					Language: LanguageFromCode(codeBuf),
					Opaque:   opaque,
					CUUID:    llCUUID,
				}
			}
		}

		entries[i] = entry
	}

	for _, entry := range entries {
		if entry.Class == Invalid {
			// UnknownClass: the entry is skipped without a warning and
			// keeps a nil Body; the read is not aborted.
			continue
		}
		saved := s.Pos()
		s.Seek(int(entry.Offset))
		if err := readBody(s, variant, entry); err != nil {
			return nil, err
		}
		s.Seek(saved)
	}

	c := &Container{
		Variant:     variant,
		IndexOffset: indexOffset,
		IndexType:   indexType,
		Entries:     entries,
	}
	c.rebuildIndex()
	runPostRead(c)
	return c, nil
}

// readEntryHeader reads the redundant per-entry body header — a class-name
// length, class-name bytes, and CUUID that duplicate the index record's
// copies — and validates them against it, returning HeaderMismatch on
// disagreement. It reports the header's total size in bytes so the caller
// can subtract it from size-derived quantities (ProgramResData's blob
// size, WaveFileIdObj's trailing-byte count).
func readEntryHeader(s *stream.Stream, variant Variant, entry *Entry) (headerSize int, err error) {
	var classNameLen uint32
	s.RW32(&classNameLen)
	nameBytes := make([]byte, classNameLen)
	s.RW(nameBytes)
	var cuuid uint64
	s.RWCUUID(&cuuid)

	headerSize = 4 + int(classNameLen) + 8

	expected := FormatClassName(entry.Class, variant)
	if string(nameBytes) != expected {
		return headerSize, newError(HeaderMismatch, "entry body class name %q disagrees with index class name %q", string(nameBytes), expected)
	}
	if cuuid != entry.CUUID {
		return headerSize, newError(HeaderMismatch, "entry body cuuid %#x disagrees with index cuuid %#x", cuuid, entry.CUUID)
	}
	return headerSize, nil
}

func readBody(s *stream.Stream, variant Variant, entry *Entry) error {
	headerSize, err := readEntryHeader(s, variant, entry)
	if err != nil {
		return err
	}

	switch entry.Class {
	case EventResDataClass:
		b := &EventResData{}
		b.RW(s, variant)
		entry.Body = b
	case WavResDataClass:
		b := &WavResData{}
		if err := b.RW(s, variant); err != nil {
			return err
		}
		entry.Body = b
	case SwitchResDataClass:
		b := &SwitchResData{}
		b.RW(s, variant)
		entry.Body = b
	case RandomResDataClass:
		b := &RandomResData{}
		b.RW(s, variant)
		entry.Body = b
	case ProgramResDataClass:
		blobSize := int(entry.Size) - headerSize
		if blobSize < 0 {
			blobSize = 0
		}
		b := &ProgramResData{}
		b.RW(s, variant, blobSize)
		b.AdvisoryLinks = scanProgramLinks(b.Blob, variant)
		entry.Body = b
	case WaveFileIdObjClass:
		b := &WaveFileIdObj{}
		if err := b.RW(s, variant, int(entry.Size)-headerSize); err != nil {
			return err
		}
		entry.Body = b
	}
	return nil
}

// runPostRead backfills human-readable names: on HXG, event names are
// copied down to the WavResData they trigger (whose own name field the
// wire format never carries); then every WavResData's own body-level
// language links (populated only when its multiple-variant flag is set,
// distinct from the generic index-level LanguageLinks every IndexType-2
// entry carries) are used to name the WaveFileIdObj entries they point at.
func runPostRead(c *Container) {
	if c.Variant == HXG {
		for _, e := range c.Entries {
			ev, ok := e.Body.(*EventResData)
			if !ok {
				continue
			}
			target, ok := c.Lookup(ev.Link)
			if !ok {
				continue
			}
			if wav, ok := target.Body.(*WavResData); ok {
				wav.WavResObj.Name = ev.Name
			}
		}
	}

	endian := c.Variant.Endian()
	for _, e := range c.Entries {
		wav, ok := e.Body.(*WavResData)
		if !ok {
			continue
		}
		for _, ll := range wav.LanguageLinks {
			target, ok := c.Lookup(ll.CUUID)
			if !ok {
				continue
			}
			if wf, ok := target.Body.(*WaveFileIdObj); ok {
				lang := LanguageFromWireCode(ll.LanguageCode, endian)
				wf.Name = wav.WavResObj.Name + "_" + lang.String()
			}
		}
	}
}
