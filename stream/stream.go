// Package stream implements the bidirectional byte cursor that every HX
// container and codec routine is built on: a single buffer, a cursor
// position, a read/write mode, and an endianness policy. The same rw*
// method drives both directions, so a serializer written once is
// automatically its own inverse.
package stream

import (
	"encoding/binary"
	"math"
)

// Mode selects whether RW* calls copy into or out of the caller's data.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
)

// Endianness selects the wire byte order for multi-byte fields.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) order() binary.ByteOrder {
	return e.Order()
}

// Order returns the standard library byte order matching this policy, for
// callers that need to decode a raw slice without a full Stream.
func (e Endianness) Order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Stream is a seekable cursor over a mutable buffer.
type Stream struct {
	buf    []byte
	pos    int
	mode   Mode
	endian Endianness
}

// New wraps an existing buffer without copying it. Used for read streams,
// where the buffer comes from a host read-callback.
func New(buf []byte, mode Mode, endian Endianness) *Stream {
	return &Stream{buf: buf, mode: mode, endian: endian}
}

// Alloc allocates a new zeroed buffer of the given size. Used for write
// streams, where the library itself owns the backing storage.
func Alloc(size int, mode Mode, endian Endianness) *Stream {
	return &Stream{buf: make([]byte, size), mode: mode, endian: endian}
}

func (s *Stream) Mode() Mode           { return s.mode }
func (s *Stream) Endian() Endianness   { return s.endian }
func (s *Stream) Pos() int             { return s.pos }
func (s *Stream) Len() int             { return len(s.buf) }
func (s *Stream) Bytes() []byte        { return s.buf }
func (s *Stream) Seek(pos int)         { s.pos = pos }
func (s *Stream) Advance(offset int)   { s.pos += offset }

// Grow extends the backing buffer to at least n bytes, zero-filling the
// new tail. Only meaningful for write streams whose final size is not
// known up front (the container index stream).
func (s *Stream) Grow(n int) {
	if n <= len(s.buf) {
		return
	}
	grown := make([]byte, n)
	copy(grown, s.buf)
	s.buf = grown
}

// RW copies len(data) bytes between the buffer and data, in whichever
// direction the stream's mode dictates, then advances the cursor.
//
// Overflow past the end of the buffer is a caller error: the containing
// record's declared size must be validated before calling RW, not after.
func (s *Stream) RW(data []byte) {
	switch s.mode {
	case ModeRead:
		copy(data, s.buf[s.pos:s.pos+len(data)])
	case ModeWrite:
		copy(s.buf[s.pos:s.pos+len(data)], data)
	}
	s.Advance(len(data))
}

// RW8 reads or writes a single byte.
func (s *Stream) RW8(v *uint8) {
	if s.mode == ModeRead {
		*v = s.buf[s.pos]
	} else {
		s.buf[s.pos] = *v
	}
	s.Advance(1)
}

// RW16 reads or writes a 16-bit value in the stream's endianness.
func (s *Stream) RW16(v *uint16) {
	order := s.endian.order()
	if s.mode == ModeRead {
		*v = order.Uint16(s.buf[s.pos : s.pos+2])
	} else {
		order.PutUint16(s.buf[s.pos:s.pos+2], *v)
	}
	s.Advance(2)
}

// RW32 reads or writes a 32-bit value in the stream's endianness.
func (s *Stream) RW32(v *uint32) {
	order := s.endian.order()
	if s.mode == ModeRead {
		*v = order.Uint32(s.buf[s.pos : s.pos+4])
	} else {
		order.PutUint32(s.buf[s.pos:s.pos+4], *v)
	}
	s.Advance(4)
}

// RWFloat reads or writes a 32-bit IEEE-754 float, byte-swapped the same
// way RW32 swaps its bit pattern.
func (s *Stream) RWFloat(v *float32) {
	bits := math.Float32bits(*v)
	s.RW32(&bits)
	*v = math.Float32frombits(bits)
}

// RWCUUID serializes a 64-bit identifier's high 32 bits before its low 32
// bits. This half-swap is independent of the stream's endianness and must
// be preserved bit-for-bit for file compatibility.
func (s *Stream) RWCUUID(v *uint64) {
	hi := uint32(*v >> 32)
	lo := uint32(*v)
	s.RW32(&hi)
	s.RW32(&lo)
	*v = uint64(hi)<<32 | uint64(lo)
}

// RWInt16/RWInt32 are signed convenience wrappers over RW16/RW32, used by
// the ADPCM codecs which operate on signed sample and coefficient fields.
func (s *Stream) RWInt16(v *int16) {
	u := uint16(*v)
	s.RW16(&u)
	*v = int16(u)
}

func (s *Stream) RWInt32(v *int32) {
	u := uint32(*v)
	s.RW32(&u)
	*v = int32(u)
}
