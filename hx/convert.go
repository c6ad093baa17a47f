package hx

import (
	"github.com/haruki-hx/libhx/adpcm"
	"github.com/haruki-hx/libhx/stream"
)

// Audio format codes carried by a wave-file entry.
const (
	FormatPCM uint16 = 1
	FormatUBI uint16 = 2
	FormatPSX uint16 = 3
	FormatDSP uint16 = 4
	FormatIMA uint16 = 5
	FormatMP3 uint16 = 0x55
)

// AudioStream describes a decoded or encoded audio payload independent of
// its container entry.
type AudioStream struct {
	NumChannels int
	Endian      stream.Endianness
	SampleRate  uint32
	NumSamples  int
	Format      uint16
	OwnerCUUID  uint64
	Data        []byte
}

// Convert transforms raw audio bytes from one format to another. PCM to
// PCM is a copy; DSP and PSX decode to PCM; PCM encodes to DSP. Any other
// pairing fails with UnsupportedConversion.
func Convert(data []byte, from, to uint16, numChannels int, sampleRate uint32, endian stream.Endianness) ([]byte, error) {
	if from == to && from == FormatPCM {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}

	switch {
	case from == FormatDSP && to == FormatPCM:
		samples, _, err := adpcm.DecodeDSP(data, endian, numChannels)
		if err != nil {
			return nil, newError(InvalidHeader, "%v", err)
		}
		return int16ToBytes(samples, endian), nil

	case from == FormatPSX && to == FormatPCM:
		samples, err := adpcm.DecodePSX(data, numChannels)
		if err != nil {
			if mf, ok := err.(*adpcm.MalformedFrameError); ok {
				return nil, newError(MalformedFrame, "psx frame %d: predictor %d out of range", mf.FrameIndex, mf.Predictor)
			}
			return nil, newError(MalformedFrame, "%v", err)
		}
		return int16ToBytes(samples, endian), nil

	case from == FormatPCM && to == FormatDSP:
		samples := bytesToInt16(data, endian)
		return adpcm.EncodeDSP(samples, numChannels, sampleRate), nil

	default:
		return nil, newError(UnsupportedConversion, "cannot convert format %d to %d", from, to)
	}
}

func int16ToBytes(samples []int16, endian stream.Endianness) []byte {
	out := make([]byte, len(samples)*2)
	order := endian.Order()
	for i, v := range samples {
		order.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func bytesToInt16(data []byte, endian stream.Endianness) []int16 {
	order := endian.Order()
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(order.Uint16(data[i*2:]))
	}
	return out
}
