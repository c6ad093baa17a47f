// Package wave implements the fixed 44-byte RIFF/WAVE header used to wrap
// every audio stream stored inside an HX container.
package wave

import (
	"fmt"

	"github.com/haruki-hx/libhx/stream"
)

const (
	RIFFMagic    uint32 = 0x46464952 // "RIFF"
	WAVEMagic    uint32 = 0x45564157 // "WAVE"
	FmtMagic     uint32 = 0x20746D66 // "fmt "
	DataChunkID  uint32 = 0x61746164 // "data"
	DatxChunkID  uint32 = 0x78746164 // "datx"
	HeaderSize          = 44
)

// Header is the fixed-layout RIFF/WAVE header. Subchunk2ID selects whether
// the payload that follows is inline ("data") or an external-stream stub
// ("datx", whose Subchunk2Size must be exactly 8).
type Header struct {
	RIFFID          uint32
	RIFFLength      uint32
	WaveID          uint32
	FormatID        uint32
	ChunkSize       uint32
	Format          uint16
	NumChannels     uint16
	SampleRate      uint32
	BytesPerSecond  uint32
	BlockAlignment  uint16
	BitsPerSample   uint16
	Subchunk2ID     uint32
	Subchunk2Size   uint32
}

// DefaultHeader returns a mono, 16-bit, 22050 Hz PCM header with an inline
// "data" chunk and zeroed lengths, matching the reference defaults.
func DefaultHeader() Header {
	return Header{
		RIFFID:         RIFFMagic,
		WaveID:         WAVEMagic,
		FormatID:       FmtMagic,
		ChunkSize:      16,
		Format:         1, // PCM
		NumChannels:    1,
		SampleRate:     22050,
		BlockAlignment: 16,
		BitsPerSample:  16,
		Subchunk2ID:    DataChunkID,
	}
}

// RW reads or writes the header in declared field order. It returns false
// if, on read, the RIFF/WAVE/fmt magic numbers don't match.
func RW(s *stream.Stream, h *Header) bool {
	s.RW32(&h.RIFFID)
	s.RW32(&h.RIFFLength)
	s.RW32(&h.WaveID)
	s.RW32(&h.FormatID)
	s.RW32(&h.ChunkSize)
	s.RW16(&h.Format)
	s.RW16(&h.NumChannels)
	s.RW32(&h.SampleRate)
	s.RW32(&h.BytesPerSecond)
	s.RW16(&h.BlockAlignment)
	s.RW16(&h.BitsPerSample)
	s.RW32(&h.Subchunk2ID)
	s.RW32(&h.Subchunk2Size)

	return h.RIFFID == RIFFMagic && h.WaveID == WAVEMagic && h.FormatID == FmtMagic
}

// RWWithData writes the header (recomputing RIFFLength from Subchunk2Size)
// followed by Subchunk2Size bytes of payload, or reads a header and returns
// the same number of payload bytes read into data. data must already be
// sized to h.Subchunk2Size before calling in read mode.
func RWWithData(s *stream.Stream, h *Header, data []byte) (int, error) {
	if s.Mode() == stream.ModeWrite {
		h.RIFFLength = h.Subchunk2Size + HeaderSize - 8
	}
	if !RW(s, h) {
		return 0, fmt.Errorf("wave: invalid RIFF/WAVE/fmt header")
	}
	s.RW(data)
	return HeaderSize + len(data), nil
}

// WriteFile serializes a self-contained little-endian WAV file: the header
// (always little-endian on output, regardless of the container's native
// endianness) followed by the raw PCM payload.
func WriteFile(sampleRate uint32, numChannels uint16, bitsPerSample uint16, data []byte) []byte {
	h := DefaultHeader()
	h.SampleRate = sampleRate
	h.NumChannels = numChannels
	h.BitsPerSample = bitsPerSample
	h.BytesPerSecond = uint32(numChannels) * sampleRate * uint32(bitsPerSample) / 8
	h.BlockAlignment = numChannels * bitsPerSample / 8
	h.Subchunk2Size = uint32(len(data))

	s := stream.Alloc(HeaderSize+len(data), stream.ModeWrite, stream.LittleEndian)
	_, _ = RWWithData(s, &h, data)
	return s.Bytes()
}
