package hx

import (
	"testing"

	"github.com/haruki-hx/libhx/stream"
	"github.com/haruki-hx/libhx/wave"
)

func TestReadEmptyFileFails(t *testing.T) {
	s := stream.Alloc(16, stream.ModeWrite, HXG.Endian())
	var indexOffset uint32 = 4
	s.RW32(&indexOffset)
	s.Seek(4)
	magic := indexMagic
	s.RW32(&magic)
	var indexType uint32 = 2
	s.RW32(&indexType)
	var count uint32 = 0
	s.RW32(&count)

	_, err := Read(s.Bytes(), HXG)
	if err == nil {
		t.Fatal("expected an error")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Kind != EmptyFile {
		t.Fatalf("expected EmptyFile, got %v", err)
	}
}

func TestReadBadMagicFails(t *testing.T) {
	s := stream.Alloc(16, stream.ModeWrite, HXG.Endian())
	var indexOffset uint32 = 4
	s.RW32(&indexOffset)
	s.Seek(4)
	var badMagic uint32 = 0x12345678
	s.RW32(&badMagic)

	_, err := Read(s.Bytes(), HXG)
	if err == nil {
		t.Fatal("expected an error")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Kind != InvalidHeader {
		t.Fatalf("expected InvalidHeader, got %v", err)
	}
}

func TestReadIndexReservedWordMustBeZero(t *testing.T) {
	variant := HXG
	endian := variant.Endian()

	className := FormatClassName(EventResDataClass, variant)
	s := stream.Alloc(128, stream.ModeWrite, endian)
	var indexOffset uint32 = 4
	s.RW32(&indexOffset)
	s.Seek(4)
	magic := indexMagic
	s.RW32(&magic)
	var indexType uint32 = 2
	s.RW32(&indexType)
	var count uint32 = 1
	s.RW32(&count)

	classNameLen := uint32(len(className))
	s.RW32(&classNameLen)
	s.RW([]byte(className))
	cuuid := uint64(1)
	s.RWCUUID(&cuuid)
	var offset, size uint32 = 4, 0
	var nonzero uint32 = 7
	var linkCount uint32
	s.RW32(&offset)
	s.RW32(&size)
	s.RW32(&nonzero)
	s.RW32(&linkCount)
	var numLanguages uint32
	s.RW32(&numLanguages)

	_, err := Read(s.Bytes()[:s.Pos()], variant)
	if err == nil {
		t.Fatal("expected an error")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Kind != InvalidHeader {
		t.Fatalf("expected InvalidHeader, got %v", err)
	}
}

func TestReadEntryHeaderMismatchClassName(t *testing.T) {
	variant := HXG
	entry := &Entry{CUUID: 1, Class: EventResDataClass}

	s := stream.Alloc(64, stream.ModeWrite, variant.Endian())
	wrongName := FormatClassName(WavResDataClass, variant)
	classNameLen := uint32(len(wrongName))
	s.RW32(&classNameLen)
	s.RW([]byte(wrongName))
	cuuid := entry.CUUID
	s.RWCUUID(&cuuid)

	rs := stream.New(s.Bytes()[:s.Pos()], stream.ModeRead, variant.Endian())
	_, err := readEntryHeader(rs, variant, entry)
	herr, ok := err.(*Error)
	if !ok || herr.Kind != HeaderMismatch {
		t.Fatalf("expected HeaderMismatch, got %v", err)
	}
}

func TestReadEntryHeaderMismatchCUUID(t *testing.T) {
	variant := HXG
	entry := &Entry{CUUID: 1, Class: EventResDataClass}

	s := stream.Alloc(64, stream.ModeWrite, variant.Endian())
	className := FormatClassName(entry.Class, variant)
	classNameLen := uint32(len(className))
	s.RW32(&classNameLen)
	s.RW([]byte(className))
	wrongCUUID := uint64(2)
	s.RWCUUID(&wrongCUUID)

	rs := stream.New(s.Bytes()[:s.Pos()], stream.ModeRead, variant.Endian())
	_, err := readEntryHeader(rs, variant, entry)
	herr, ok := err.(*Error)
	if !ok || herr.Kind != HeaderMismatch {
		t.Fatalf("expected HeaderMismatch, got %v", err)
	}
}

func TestWavResDataRejectsNonzeroDefaultCUUIDWhenMultiple(t *testing.T) {
	b := &WavResData{DefaultCUUID: 1}
	b.WavResObj.Flags = wavResDataMultipleFlag

	s := stream.Alloc(64, stream.ModeWrite, HXG.Endian())
	err := b.RW(s, HXG)
	herr, ok := err.(*Error)
	if !ok || herr.Kind != InvalidHeader {
		t.Fatalf("expected InvalidHeader, got %v", err)
	}
}

func TestWaveFileIdObjRejectsWrongSubchunkMagic(t *testing.T) {
	b := &WaveFileIdObj{Wave: wave.DefaultHeader()}
	b.Wave.Subchunk2ID = 0xdeadbeef
	b.Data = []byte{1, 2, 3, 4}

	s := stream.Alloc(128, stream.ModeWrite, HXD.Endian())
	err := b.RW(s, HXD, 0)
	herr, ok := err.(*Error)
	if !ok || herr.Kind != WaveHeaderInvalid {
		t.Fatalf("expected WaveHeaderInvalid, got %v", err)
	}
}

func TestClassNameRoundTrip(t *testing.T) {
	tests := []struct {
		class   Class
		variant Variant
	}{
		{EventResDataClass, HXG},
		{WavResDataClass, HXG},
		{WavResDataClass, HXC},
		{WaveFileIdObjClass, HX2},
		{SwitchResDataClass, HX3},
	}
	for _, tt := range tests {
		name := FormatClassName(tt.class, tt.variant)
		got := ParseClassName(name)
		if got != tt.class {
			t.Errorf("variant %v: formatted %q, parsed back as %v, want %v", tt.variant, name, got, tt.class)
		}
	}
}

// buildHXGFile constructs a minimal, hand-assembled HXG container with one
// EventResData linking to one WavResData, which in turn language-links
// (EN) to one WaveFileIdObj, mirroring the round-trip scenario.
func buildHXGFile(t *testing.T) []byte {
	t.Helper()
	variant := HXG
	endian := variant.Endian()

	eventCUUID := uint64(0x1000000000000001)
	wavCUUID := uint64(0x1000000000000002)
	waveFileCUUID := uint64(0x1000000000000003)

	eventBody := &EventResData{Type: 1, Name: "explosion_event", Flags: 0, Link: wavCUUID}
	wavBody := &WavResData{}
	wavBody.WavResObj.ID = 42
	wavBody.WavResObj.Flags = wavResDataMultipleFlag
	enCode := LangEN.Code()
	wavBody.LanguageLinks = []struct {
		LanguageCode uint32
		CUUID        uint64
	}{{LanguageCode: endian.Order().Uint32(enCode[:]), CUUID: waveFileCUUID}}

	waveHeader := wave.DefaultHeader()
	waveHeader.Subchunk2Size = 4
	waveBody := &WaveFileIdObj{Wave: waveHeader, Data: []byte{1, 2, 3, 4}}

	entries := []*Entry{
		{CUUID: eventCUUID, Class: EventResDataClass, Body: eventBody},
		{CUUID: wavCUUID, Class: WavResDataClass, Body: wavBody},
		{CUUID: waveFileCUUID, Class: WaveFileIdObjClass, Body: waveBody},
	}

	c := &Container{Variant: variant, Entries: entries}
	c.rebuildIndex()

	buf, err := c.Write()
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return buf
}

func TestRoundTripHXGPreservesNamesAndLinks(t *testing.T) {
	buf := buildHXGFile(t)

	c1, err := Read(buf, HXG)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}

	ev, ok := c1.Lookup(0x1000000000000001)
	if !ok {
		t.Fatal("expected event entry to be found")
	}
	evBody := ev.Body.(*EventResData)
	if evBody.Name != "explosion_event" {
		t.Fatalf("expected event name preserved, got %q", evBody.Name)
	}

	wf, ok := c1.Lookup(0x1000000000000003)
	if !ok {
		t.Fatal("expected wave-file entry to be found")
	}
	wfBody := wf.Body.(*WaveFileIdObj)
	if wfBody.Name != "explosion_event_EN" {
		t.Errorf("expected derived name %q, got %q", "explosion_event_EN", wfBody.Name)
	}

	buf2, err := c1.Write()
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	c2, err := Read(buf2, HXG)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}

	if len(c2.Entries) != len(c1.Entries) {
		t.Fatalf("expected %d entries, got %d", len(c1.Entries), len(c2.Entries))
	}
	wf2, ok := c2.Lookup(0x1000000000000003)
	if !ok {
		t.Fatal("expected wave-file entry to survive second round trip")
	}
	if wf2.Body.(*WaveFileIdObj).Name != "explosion_event_EN" {
		t.Errorf("expected derived name to survive second round trip, got %q", wf2.Body.(*WaveFileIdObj).Name)
	}
}
