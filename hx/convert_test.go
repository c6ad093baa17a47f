package hx

import (
	"testing"

	"github.com/haruki-hx/libhx/stream"
)

func TestConvertPCMPassthroughCopiesBuffer(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out, err := Convert(in, FormatPCM, FormatPCM, 1, 44100, stream.LittleEndian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d bytes, got %d", len(in), len(out))
	}
	out[0] = 0xff
	if in[0] == 0xff {
		t.Fatal("expected Convert to return a copy, not alias the input")
	}
}

func TestConvertPSXToPCMDecodesSilence(t *testing.T) {
	frame := make([]byte, 16)
	out, err := Convert(frame, FormatPSX, FormatPCM, 1, 44100, stream.LittleEndian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 28*2 {
		t.Fatalf("expected 28 16-bit samples, got %d bytes", len(out))
	}
	for _, b := range out {
		if b != 0 {
			t.Fatalf("expected silence, got byte %#x", b)
		}
	}
}

func TestConvertUnsupportedPairingFails(t *testing.T) {
	_, err := Convert([]byte{0}, FormatMP3, FormatPCM, 1, 44100, stream.LittleEndian)
	herr, ok := err.(*Error)
	if !ok || herr.Kind != UnsupportedConversion {
		t.Fatalf("expected UnsupportedConversion, got %v", err)
	}
}
