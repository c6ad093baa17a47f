package adpcm

import "math"

const (
	// PSXFrameSize is the size in bytes of one PSX-ADPCM frame: a header
	// byte, a flag byte, and 14 bytes of packed 4-bit samples.
	PSXFrameSize = 16
	// PSXSamplesPerFrame is the number of decoded samples per frame.
	PSXSamplesPerFrame = 28
)

// psxCoefficients holds the sixteen predictor coefficient pairs used by
// PSX-ADPCM. Only indices 0-4 are populated; a predictor selecting any
// higher index is malformed.
var psxCoefficients = [16][2]float64{
	{0.0, 0.0},
	{60.0 / 64.0, 0.0},
	{115.0 / 64.0, -52.0 / 64.0},
	{98.0 / 64.0, -55.0 / 64.0},
	{122.0 / 64.0, -60.0 / 64.0},
}

// PSXSampleCount returns the number of samples decoded from a byte stream
// of dataSize bytes, discarding any trailing partial frame.
func PSXSampleCount(dataSize int) int {
	return (dataSize / PSXFrameSize) * PSXSamplesPerFrame
}

// PSXPCMSize returns the number of PCM bytes produced by decoding
// numFrames PSX-ADPCM frames.
func PSXPCMSize(numFrames int) int {
	return numFrames * PSXSamplesPerFrame * 2
}

func clampFloatToInt16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// DecodePSX decodes a PSX-ADPCM byte stream into interleaved int16 PCM.
// The stream is a sequence of frames; each frame holds one 16-byte
// sub-block per channel, back to back, and each sub-block carries its own
// predictor/shift byte and independent history — the same
// frame-of-channel-sub-blocks layout DecodeDSP uses for its nibble
// stream. It reports a *MalformedFrameError and stops at the first
// sub-block whose predictor nibble selects an unpopulated coefficient
// entry (index greater than 4), discarding the partially-decoded frame in
// which the failure occurred. Any trailing bytes short of a full
// multi-channel frame are ignored.
func DecodePSX(data []byte, numChannels int) ([]int16, error) {
	if numChannels <= 0 {
		return nil, errChannels
	}

	frameSize := PSXFrameSize * numChannels
	numFrames := len(data) / frameSize
	out := make([]int16, numFrames*PSXSamplesPerFrame*numChannels)

	hist1 := make([]float64, numChannels)
	hist2 := make([]float64, numChannels)

	for f := 0; f < numFrames; f++ {
		for c := 0; c < numChannels; c++ {
			start := f*frameSize + c*PSXFrameSize
			frame := data[start : start+PSXFrameSize]
			header := frame[0]
			predictor := int(header>>4) & 0xF
			shift := int(header & 0xF)

			if predictor > 4 {
				return out[:f*PSXSamplesPerFrame*numChannels], &MalformedFrameError{FrameIndex: f, Predictor: predictor}
			}
			k0, k1 := psxCoefficients[predictor][0], psxCoefficients[predictor][1]

			samples := frame[2:PSXFrameSize]
			for i := 0; i < PSXSamplesPerFrame; i++ {
				b := samples[i/2]
				var nibble int
				if i%2 == 0 {
					nibble = int(b & 0xF)
				} else {
					nibble = int(b>>4) & 0xF
				}

				raw := int16(nibble << 12)
				shifted := float64(raw >> uint(shift))
				predicted := shifted + hist1[c]*k0 + hist2[c]*k1

				sample := clampFloatToInt16(predicted)
				hist2[c] = hist1[c]
				hist1[c] = float64(sample)
				out[(f*PSXSamplesPerFrame+i)*numChannels+c] = sample
			}
		}
	}

	return out, nil
}
