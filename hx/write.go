package hx

import "github.com/haruki-hx/libhx/stream"

// indexBytesPerEntry is a heuristic capacity hint for the index stream,
// matching the reference implementation's own rule of thumb.
const indexBytesPerEntry = 255

// bodySizeHint returns a conservative upper bound on the serialized size
// of an entry's body, used to size the scratch stream before writing;
// the actual write is trimmed to the stream's final cursor position.
func bodySizeHint(class Class, body any) int {
	switch b := body.(type) {
	case *EventResData:
		return 4 + 4 + len(b.Name) + 4 + 8 + 4*4
	case *WavResData:
		return 4 + wavResObjNameSize + 4 + 3*4 + 1 + 8 + 4 + 12*len(b.LanguageLinks) + 64
	case *SwitchResData:
		return 4*4 + 4 + 12*len(b.Cases) + 64
	case *RandomResData:
		return 4 + 4 + 4 + 4 + 12*len(b.Entries) + 64
	case *ProgramResData:
		return len(b.Blob) + 64
	case *WaveFileIdObj:
		return 4 + 4 + 4 + 4 + len(b.Filename) + 4 + 44 + 8 + len(b.Data) + len(b.Trailing) + 64
	default:
		return 256
	}
}

// writeBody serializes an entry's redundant body header (class-name
// length, class-name bytes, CUUID — the write-path counterpart of
// readEntryHeader) followed by its class-specific fields.
func writeBody(variant Variant, entry *Entry) ([]byte, error) {
	className := FormatClassName(entry.Class, variant)
	headerSize := 4 + len(className) + 8
	hint := headerSize + bodySizeHint(entry.Class, entry.Body)
	s := stream.Alloc(hint, stream.ModeWrite, variant.Endian())

	classNameLen := uint32(len(className))
	s.RW32(&classNameLen)
	s.RW([]byte(className))
	cuuid := entry.CUUID
	s.RWCUUID(&cuuid)

	switch b := entry.Body.(type) {
	case *EventResData:
		b.RW(s, variant)
	case *WavResData:
		if err := b.RW(s, variant); err != nil {
			return nil, err
		}
	case *SwitchResData:
		b.RW(s, variant)
	case *RandomResData:
		b.RW(s, variant)
	case *ProgramResData:
		b.RW(s, variant, len(b.Blob))
	case *WaveFileIdObj:
		if err := b.RW(s, variant, 0); err != nil {
			return nil, err
		}
	}

	return s.Bytes()[:s.Pos()], nil
}

// Write serializes the container back into a complete file buffer: entry
// bodies first (recording each one's offset and size), then the index
// table appended at the end, then the leading offset word back-patched.
// The index type is always written as 2, regardless of what was read.
func (c *Container) Write() ([]byte, error) {
	endian := c.Variant.Endian()

	main := stream.Alloc(4, stream.ModeWrite, endian)

	bodies := make([][]byte, len(c.Entries))
	mainLen := 4
	for i, entry := range c.Entries {
		body, err := writeBody(c.Variant, entry)
		if err != nil {
			return nil, err
		}

		entry.Offset = uint32(mainLen)
		entry.Size = uint32(len(body))
		bodies[i] = body
		mainLen += len(body)
	}

	main.Grow(mainLen)
	main.Seek(4)
	for _, body := range bodies {
		main.RW(body)
	}

	index := stream.Alloc(len(c.Entries)*indexBytesPerEntry+16, stream.ModeWrite, endian)
	var magic uint32 = indexMagic
	index.RW32(&magic)
	var indexType uint32 = 2
	index.RW32(&indexType)
	count := uint32(len(c.Entries))
	index.RW32(&count)

	for _, entry := range c.Entries {
		className := FormatClassName(entry.Class, c.Variant)
		classNameLen := uint32(len(className))
		index.Grow(index.Pos() + len(className) + 32 + 12*len(entry.Links) + 12*len(entry.LanguageLinks))

		index.RW32(&classNameLen)
		nameBytes := []byte(className)
		index.RW(nameBytes)

		cuuid := entry.CUUID
		index.RWCUUID(&cuuid)
		offset := entry.Offset
		size := entry.Size
		var zero uint32
		linkCount := uint32(len(entry.Links))
		index.RW32(&offset)
		index.RW32(&size)
		index.RW32(&zero)
		index.RW32(&linkCount)

		for _, link := range entry.Links {
			l := link
			index.RWCUUID(&l)
		}

		numLanguages := uint32(len(entry.LanguageLinks))
		index.RW32(&numLanguages)
		for _, ll := range entry.LanguageLinks {
			code := ll.Language.Code()
			index.RW(code[:])
			opaque := ll.Opaque
			index.RW32(&opaque)
			cuuid := ll.CUUID
			index.RWCUUID(&cuuid)
		}
	}

	indexBytes := index.Bytes()[:index.Pos()]
	finalLen := mainLen + len(indexBytes)
	if c.Variant.HasTrailingPadding() {
		finalLen += 32
	}

	main.Grow(finalLen)
	main.Seek(mainLen)
	main.RW(indexBytes)

	indexOffset := uint32(mainLen)
	if c.Variant.HasTrailingPadding() {
		main.Seek(mainLen + len(indexBytes))
		main.RW(make([]byte, 32))
	}

	main.Seek(0)
	main.RW32(&indexOffset)

	c.IndexOffset = indexOffset
	c.IndexType = 2

	return main.Bytes(), nil
}
