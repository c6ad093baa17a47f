package adpcm

import "errors"

// errChannels is returned when a decode is asked to process zero or fewer
// channels.
var errChannels = errors.New("adpcm: channel count must be positive")

// MalformedFrameError reports a PSX-ADPCM frame whose predictor index
// selects a coefficient pair outside the valid table range.
type MalformedFrameError struct {
	FrameIndex int
	Predictor  int
}

func (e *MalformedFrameError) Error() string {
	return "adpcm: malformed psx frame"
}
