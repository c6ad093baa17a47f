package stream

// RWFixedString reads or writes a fixed-size, zero-padded byte buffer,
// exposing it to the caller as a Go string trimmed at the first NUL. Used
// for the 256-byte name buffers embedded in several HX classes.
func (s *Stream) RWFixedString(v *string, size int) {
	buf := make([]byte, size)
	if s.mode == ModeWrite {
		copy(buf, *v)
	}
	s.RW(buf)
	if s.mode == ModeRead {
		*v = trimZero(buf)
	}
}

// RWLengthPrefixedString reads or writes a 32-bit length followed by that
// many raw bytes, no terminator. The length itself is not zero-padded.
func (s *Stream) RWLengthPrefixedString(v *string) {
	length := uint32(len(*v))
	s.RW32(&length)
	buf := make([]byte, length)
	if s.mode == ModeWrite {
		copy(buf, *v)
	}
	s.RW(buf)
	if s.mode == ModeRead {
		*v = string(buf)
	}
}

func trimZero(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
