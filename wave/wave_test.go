package wave

import (
	"testing"

	"github.com/haruki-hx/libhx/stream"
)

func TestRWDetectsBadMagic(t *testing.T) {
	h := DefaultHeader()
	h.RIFFID = 0x12345678

	s := stream.Alloc(HeaderSize, stream.ModeWrite, stream.LittleEndian)
	RW(s, &h)

	rs := stream.New(s.Bytes(), stream.ModeRead, stream.LittleEndian)
	var got Header
	if RW(rs, &got) {
		t.Fatalf("expected magic mismatch to be detected")
	}
}

func TestRWWithDataRoundTrip(t *testing.T) {
	h := DefaultHeader()
	data := []byte{1, 2, 3, 4, 5, 6}
	h.Subchunk2Size = uint32(len(data))

	s := stream.Alloc(HeaderSize+len(data), stream.ModeWrite, stream.LittleEndian)
	if _, err := RWWithData(s, &h, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rs := stream.New(s.Bytes(), stream.ModeRead, stream.LittleEndian)
	var readHeader Header
	readData := make([]byte, len(data))
	if _, err := RWWithData(rs, &readHeader, readData); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if string(readData) != string(data) {
		t.Errorf("expected %v, got %v", data, readData)
	}
	if readHeader.RIFFLength != h.RIFFLength {
		t.Errorf("expected riff length %d, got %d", h.RIFFLength, readHeader.RIFFLength)
	}
}

func TestWriteFileProducesLittleEndianHeader(t *testing.T) {
	data := make([]byte, 28)
	buf := WriteFile(22050, 1, 16, data)

	if len(buf) != HeaderSize+len(data) {
		t.Fatalf("expected length %d, got %d", HeaderSize+len(data), len(buf))
	}
	if buf[0] != 'R' || buf[1] != 'I' || buf[2] != 'F' || buf[3] != 'F' {
		t.Errorf("expected RIFF magic at start, got %v", buf[:4])
	}
}
