// Package adpcm implements the two ADPCM codecs used by HX audio streams:
// Nintendo GameCube DSP-ADPCM (decode and encode) and Sony PSX-ADPCM
// (decode only). Both operate on interleaved int16 PCM once decoded.
package adpcm

import (
	"math"

	"github.com/haruki-hx/libhx/stream"
)

const (
	DSPHeaderSize      = 96
	dspBytesPerFrame   = 8
	dspNibblesPerFrame = 16
	// DSPSamplesPerFrame is the number of PCM samples packed into one
	// 8-byte DSP frame (one predictor/scale byte + 14 nibbles).
	DSPSamplesPerFrame = 14
)

// DSPChannelHeader is the fixed 96-byte per-channel header preceding the
// interleaved frame payload.
type DSPChannelHeader struct {
	NumSamples     uint32
	NumNibbles     uint32
	SampleRate     uint32
	LoopFlag       uint16
	Format         uint16
	LoopStart      uint32
	LoopEnd        uint32
	CurrentAddress uint32
	Coefficients   [16]int16
	Gain           int16
	PS             int16
	Hist1          int16
	Hist2          int16
	LoopPS         int16
	LoopHist1      int16
	LoopHist2      int16
}

// RW reads or writes one channel header in declared field order, followed
// by 22 bytes of padding.
func (h *DSPChannelHeader) RW(s *stream.Stream) {
	s.RW32(&h.NumSamples)
	s.RW32(&h.NumNibbles)
	s.RW32(&h.SampleRate)
	s.RW16(&h.LoopFlag)
	s.RW16(&h.Format)
	s.RW32(&h.LoopStart)
	s.RW32(&h.LoopEnd)
	s.RW32(&h.CurrentAddress)
	for i := range h.Coefficients {
		s.RWInt16(&h.Coefficients[i])
	}
	s.RWInt16(&h.Gain)
	s.RWInt16(&h.PS)
	s.RWInt16(&h.Hist1)
	s.RWInt16(&h.Hist2)
	s.RWInt16(&h.LoopPS)
	s.RWInt16(&h.LoopHist1)
	s.RWInt16(&h.LoopHist2)
	s.Advance(11 * 2)
}

// DSPDecodedSize returns the number of PCM bytes produced by decoding
// numSamples DSP samples per channel: ceil(n/14) full frames, 14 samples
// each, times channels, times 2 bytes per int16 sample.
func DSPDecodedSize(numSamples, numChannels int) int {
	frames := (numSamples + DSPSamplesPerFrame - 1) / DSPSamplesPerFrame
	return frames * DSPSamplesPerFrame * numChannels * 2
}

func dspNibbleCount(samples int) int {
	frames := samples / DSPSamplesPerFrame
	extra := samples % DSPSamplesPerFrame
	extraNibbles := 0
	if extra != 0 {
		extraNibbles = extra + 2
	}
	return dspNibblesPerFrame*frames + extraNibbles
}

func dspNibbleAddress(sample int) int {
	frames := sample / DSPSamplesPerFrame
	extra := sample % DSPSamplesPerFrame
	return dspNibblesPerFrame*frames + extra + 2
}

func dspByteCount(samples int) int {
	frames := samples / DSPSamplesPerFrame
	extra := samples % DSPSamplesPerFrame
	extraBytes := 0
	if extra != 0 {
		extraBytes = extra/2 + extra%2 + 1
	}
	return dspBytesPerFrame*frames + extraBytes
}

func clampInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// DecodeDSP decodes an interleaved multi-channel DSP-ADPCM stream (each
// channel's 96-byte header followed by a shared, frame-interleaved nibble
// stream) into interleaved int16 PCM samples. All channels are assumed to
// carry the same sample count, per the per-channel header's own field.
func DecodeDSP(data []byte, endian stream.Endianness, numChannels int) ([]int16, []DSPChannelHeader, error) {
	if numChannels <= 0 {
		return nil, nil, errChannels
	}

	s := stream.New(data, stream.ModeRead, endian)
	headers := make([]DSPChannelHeader, numChannels)
	for c := range headers {
		headers[c].RW(s)
	}

	numSamples := int(headers[0].NumSamples)
	outSize := DSPDecodedSize(numSamples, numChannels)
	out := make([]int16, outSize/2)

	remaining := make([]int, numChannels)
	hist1 := make([]int32, numChannels)
	hist2 := make([]int32, numChannels)
	for c := range headers {
		remaining[c] = numSamples
		hist1[c] = int32(headers[c].Hist1)
		hist2[c] = int32(headers[c].Hist2)
	}

	src := data[s.Pos():]
	srcIdx := 0
	numFrames := (numSamples + DSPSamplesPerFrame - 1) / DSPSamplesPerFrame

	for f := 0; f < numFrames; f++ {
		for c := 0; c < numChannels; c++ {
			if srcIdx >= len(src) {
				break
			}
			ps := int8(src[srcIdx])
			srcIdx++
			predictor := (int(ps) >> 4) & 0xF
			scale := int32(1) << uint(int(ps)&0xF)
			c1 := int32(headers[c].Coefficients[predictor*2])
			c2 := int32(headers[c].Coefficients[predictor*2+1])

			count := DSPSamplesPerFrame
			if remaining[c] < count {
				count = remaining[c]
			}

			h1 := hist1[c]
			h2 := hist2[c]
			for n := 0; n < count; n++ {
				var nibble int
				if n%2 == 0 {
					nibble = int(src[srcIdx]>>4) & 0xF
				} else {
					nibble = int(src[srcIdx]) & 0xF
					srcIdx++
				}
				sample := nibble
				if sample >= 8 {
					sample -= 16
				}
				v := ((scale*int32(sample))<<11 + 1024 + c1*h1 + c2*h2) >> 11
				pcm := clampInt16(v)
				h2 = h1
				h1 = int32(pcm)
				out[f*DSPSamplesPerFrame*numChannels+n*numChannels+c] = pcm
			}
			hist1[c] = h1
			hist2[c] = h2
			remaining[c] -= count
		}
	}

	return out, headers, nil
}

// encodeFrame chooses a scale exponent (predictor fixed at 0, coefficients
// left zero) that keeps the reconstruction error's clamp overflow small,
// mirroring the reference encoder's iterative refinement.
func encodeFrame(pcm []int32, numSamples int) (psByte byte, nibbles [DSPSamplesPerFrame]int8) {
	var distance int32
	for i := 0; i < numSamples; i++ {
		v := int32(clampInt16(pcm[i]))
		if abs32(v) > abs32(distance) {
			distance = v
		}
	}

	scale := 0
	for scale <= 12 && (distance > 7 || distance < -8) {
		distance /= 2
		scale++
	}
	if scale <= 1 {
		scale = -1
	} else {
		scale -= 2
	}

	var index int32
	for {
		scale++
		index = 0
		for i := 0; i < numSamples; i++ {
			v2 := pcm[i] << 11
			denom := float64(int32(1) << uint(scale))
			var v3 int32
			if v2 > 0 {
				v3 = int32(float64(v2)/denom/2048 + 0.5)
			} else {
				v3 = int32(float64(v2)/denom/2048 - 0.5)
			}
			if v3 < -8 {
				if d := -8 - v3; d > index {
					index = d
				}
				v3 = -8
			} else if v3 > 7 {
				if d := v3 - 7; d > index {
					index = d
				}
				v3 = 7
			}
			nibbles[i] = int8(v3)
		}
		for x := index + 8; x > 256; x >>= 1 {
			scale++
			if scale >= 12 {
				scale = 11
			}
		}
		if scale >= 12 || index <= 1 {
			break
		}
	}

	for i := numSamples; i < DSPSamplesPerFrame; i++ {
		nibbles[i] = 0
	}
	psByte = byte(scale & 0xF)
	return
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func packFrame(psByte byte, nibbles [DSPSamplesPerFrame]int8) [1 + DSPSamplesPerFrame/2]byte {
	var frame [1 + DSPSamplesPerFrame/2]byte
	frame[0] = psByte
	for y := 0; y < DSPSamplesPerFrame/2; y++ {
		frame[y+1] = byte(nibbles[y*2]<<4) | byte(nibbles[y*2+1]&0xF)
	}
	return frame
}

// EncodeDSP encodes interleaved int16 PCM into a multi-channel DSP-ADPCM
// stream: per-channel 96-byte headers followed by the frame-interleaved
// nibble stream, big-endian (the format's native byte order on GameCube).
func EncodeDSP(pcm []int16, numChannels int, sampleRate uint32) []byte {
	if numChannels <= 0 {
		return nil
	}
	numSamples := len(pcm) / numChannels
	frameCount := numSamples / DSPSamplesPerFrame
	if numSamples%DSPSamplesPerFrame != 0 {
		frameCount++
	}

	frameBytes := make([][]byte, numChannels)
	headers := make([]DSPChannelHeader, numChannels)

	for channel := 0; channel < numChannels; channel++ {
		var buf []byte
		samplesForFrame := make([]int32, DSPSamplesPerFrame)
		for n := 0; n < frameCount; n++ {
			toProcess := numSamples - n*DSPSamplesPerFrame
			if toProcess > DSPSamplesPerFrame {
				toProcess = DSPSamplesPerFrame
			}
			for i := range samplesForFrame {
				samplesForFrame[i] = 0
			}
			for s := 0; s < toProcess; s++ {
				idx := (n*DSPSamplesPerFrame+s)*numChannels + channel
				samplesForFrame[s] = int32(pcm[idx])
			}

			psByte, nibbles := encodeFrame(samplesForFrame, toProcess)
			packed := packFrame(psByte, nibbles)
			byteCount := dspByteCount(toProcess)
			buf = append(buf, packed[:byteCount]...)

			if n == 0 {
				headers[channel] = DSPChannelHeader{
					NumSamples:     uint32(numSamples),
					NumNibbles:     uint32(dspNibbleCount(numSamples)),
					SampleRate:     sampleRate,
					LoopStart:      uint32(dspNibbleAddress(0)),
					LoopEnd:        uint32(dspNibbleAddress(numSamples - 1)),
					CurrentAddress: uint32(dspNibbleAddress(0)),
					PS:             int16(psByte),
				}
			}
		}
		frameBytes[channel] = buf
	}

	out := stream.Alloc(numChannels*DSPHeaderSize+sumLens(frameBytes), stream.ModeWrite, stream.BigEndian)
	out.Seek(numChannels * DSPHeaderSize)
	// interleave channel frame bytes back into shared frame order.
	offsets := make([]int, numChannels)
	pos := numChannels * DSPHeaderSize
	for n := 0; n < frameCount; n++ {
		for c := 0; c < numChannels; c++ {
			toProcess := numSamples - n*DSPSamplesPerFrame
			if toProcess > DSPSamplesPerFrame {
				toProcess = DSPSamplesPerFrame
			}
			bc := dspByteCount(toProcess)
			chunk := frameBytes[c][offsets[c] : offsets[c]+bc]
			offsets[c] += bc
			out.Seek(pos)
			out.RW(chunk)
			pos += bc
		}
	}

	out.Seek(0)
	for c := range headers {
		headers[c].RW(out)
	}

	return out.Bytes()
}

func sumLens(bufs [][]byte) int {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	return total
}
