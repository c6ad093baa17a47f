package adpcm

import (
	"testing"

	"github.com/haruki-hx/libhx/stream"
)

func TestDSPDecodedSizeRounding(t *testing.T) {
	tests := []struct {
		name       string
		numSamples int
		channels   int
		want       int
	}{
		{"exact single frame mono", 14, 1, 28},
		{"partial last frame mono", 7, 1, 28},
		{"two frames mono", 15, 1, 56},
		{"exact single frame stereo", 14, 2, 56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSPDecodedSize(tt.numSamples, tt.channels); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDecodeDSPSingleFrameMonoZero(t *testing.T) {
	// A header with a scale/predictor byte of zero and every nibble also
	// zero must decode to 14 samples of silence.
	s := stream.Alloc(DSPHeaderSize+8, stream.ModeWrite, stream.BigEndian)
	var h DSPChannelHeader
	h.NumSamples = 14
	h.RW(s)
	// frame bytes already zero (ps byte 0, all nibbles 0).

	pcm, headers, err := DecodeDSP(s.Bytes(), stream.BigEndian, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pcm) != 14 {
		t.Fatalf("expected 14 samples, got %d", len(pcm))
	}
	for i, v := range pcm {
		if v != 0 {
			t.Errorf("sample %d: expected 0, got %d", i, v)
		}
	}
	if headers[0].NumSamples != 14 {
		t.Errorf("expected header sample count 14, got %d", headers[0].NumSamples)
	}
}

func TestDecodeDSPPartialLastFrameZeroPads(t *testing.T) {
	s := stream.Alloc(DSPHeaderSize+8, stream.ModeWrite, stream.BigEndian)
	var h DSPChannelHeader
	h.NumSamples = 7
	h.RW(s)

	pcm, _, err := DecodeDSP(s.Bytes(), stream.BigEndian, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pcm) != 14 {
		t.Fatalf("expected padded output of 14 samples, got %d", len(pcm))
	}
	for i := 7; i < 14; i++ {
		if pcm[i] != 0 {
			t.Errorf("tail sample %d: expected zero padding, got %d", i, pcm[i])
		}
	}
}

func TestEncodeDecodeDSPRoundTripSilence(t *testing.T) {
	pcm := make([]int16, 14)
	encoded := EncodeDSP(pcm, 1, 22050)

	decoded, _, err := DecodeDSP(encoded, stream.BigEndian, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range decoded {
		if v != 0 {
			t.Errorf("sample %d: expected silence to round-trip as 0, got %d", i, v)
		}
	}
}

func TestPSXSampleCountAndPCMSize(t *testing.T) {
	if got := PSXSampleCount(16); got != 28 {
		t.Errorf("expected 28 samples for one frame, got %d", got)
	}
	if got := PSXSampleCount(16 + 5); got != 28 {
		t.Errorf("expected trailing partial frame to be ignored, got %d", got)
	}
	if got := PSXPCMSize(2); got != 112 {
		t.Errorf("expected 112 bytes for two frames, got %d", got)
	}
}

func TestDecodePSXPredictorOneFrame(t *testing.T) {
	frame := make([]byte, PSXFrameSize)
	frame[0] = 0x10 // predictor 1, shift 0
	frame[1] = 0x00 // flag byte, unused by decode

	pcm, err := DecodePSX(frame, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pcm) != PSXSamplesPerFrame {
		t.Fatalf("expected %d samples, got %d", PSXSamplesPerFrame, len(pcm))
	}
	for i, v := range pcm {
		if v != 0 {
			t.Errorf("sample %d: expected 0 with zero nibbles, got %d", i, v)
		}
	}
}

func TestDecodePSXRejectsInvalidPredictor(t *testing.T) {
	frame := make([]byte, PSXFrameSize)
	frame[0] = 0x50 // predictor 5, out of range

	_, err := DecodePSX(frame, 1)
	if err == nil {
		t.Fatal("expected malformed frame error")
	}
	mf, ok := err.(*MalformedFrameError)
	if !ok {
		t.Fatalf("expected *MalformedFrameError, got %T", err)
	}
	if mf.Predictor != 5 {
		t.Errorf("expected predictor 5, got %d", mf.Predictor)
	}
}

func TestDecodePSXStereoInterleavesChannels(t *testing.T) {
	// Two channels, one frame each: channel 0 predictor 1 (silence stays
	// silent), channel 1 predictor 0 (always silent regardless of
	// nibbles). Verifies per-channel history stays independent and the
	// output is sample-interleaved, not channel-blocked.
	left := make([]byte, PSXFrameSize)
	left[0] = 0x10
	right := make([]byte, PSXFrameSize)
	right[0] = 0x00
	data := append(append([]byte{}, left...), right...)

	pcm, err := DecodePSX(data, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pcm) != PSXSamplesPerFrame*2 {
		t.Fatalf("expected %d interleaved samples, got %d", PSXSamplesPerFrame*2, len(pcm))
	}
	for i, v := range pcm {
		if v != 0 {
			t.Errorf("sample %d: expected 0 with zero nibbles, got %d", i, v)
		}
	}
}

func TestDecodePSXStopsAtFirstMalformedFrame(t *testing.T) {
	good := make([]byte, PSXFrameSize)
	good[0] = 0x00
	bad := make([]byte, PSXFrameSize)
	bad[0] = 0xF0

	data := append(append([]byte{}, good...), bad...)
	pcm, err := DecodePSX(data, 1)
	if err == nil {
		t.Fatal("expected malformed frame error")
	}
	if len(pcm) != PSXSamplesPerFrame {
		t.Errorf("expected samples decoded before the failure to be preserved, got %d", len(pcm))
	}
}
