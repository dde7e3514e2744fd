// Package bitpack converts sequences of single bits to and from a dense byte
// buffer.
//
// Bits are stored least significant bit first within each byte, the same order
// [bitmap.Bitmap] uses. The final byte is padded with zero bits; since that
// padding is indistinguishable from data, the exact bit length always has to
// travel alongside the bytes.
package bitpack

import (
	"fmt"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/huffzip"
)

// Stream is a growable sequence of bits. The zero value is an empty stream
// ready to use.
type Stream struct {
	bits   bitmap.Bitmap
	length int
}

// NewStream creates an empty stream with space preallocated for capacity bits.
func NewStream(capacity int) *Stream {
	if capacity < 0 {
		capacity = 0
	}
	return &Stream{bits: make(bitmap.Bitmap, 0, ByteLength(capacity))}
}

// FromBytes creates a stream of `length` bits backed by a copy of `data`. It
// fails if `data` is too short to hold that many bits.
func FromBytes(data []byte, length int) (*Stream, error) {
	if length < 0 {
		return nil, huffzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("negative bit length %d", length))
	}

	needed := ByteLength(length)
	if len(data) < needed {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf(
				"%d bits need %d bytes, but only %d are available",
				length,
				needed,
				len(data)))
	}

	bits := make(bitmap.Bitmap, needed)
	copy(bits, data[:needed])
	return &Stream{bits: bits, length: length}, nil
}

// ByteLength returns the number of bytes needed to hold `bitLength` bits.
func ByteLength(bitLength int) int {
	return (bitLength + 7) / 8
}

// Len returns the number of bits in the stream.
func (s *Stream) Len() int {
	return s.length
}

// Get returns the bit at index i. It panics if i is out of range, like indexing
// a slice does.
func (s *Stream) Get(i int) bool {
	if i < 0 || i >= s.length {
		panic(fmt.Sprintf("bit index %d not in [0, %d)", i, s.length))
	}
	return s.bits.Get(i)
}

// Append adds a single bit to the end of the stream.
func (s *Stream) Append(bit bool) {
	if s.length == len(s.bits)*8 {
		s.bits = append(s.bits, 0)
	}
	s.bits.Set(s.length, bit)
	s.length++
}

// AppendBits adds each of the given bits to the end of the stream, in order.
func (s *Stream) AppendBits(bits []bool) {
	for _, bit := range bits {
		s.Append(bit)
	}
}

// Bytes returns the packed bits. The slice is exactly [ByteLength] bytes long
// and shares memory with the stream; callers must copy it before appending more
// bits if they want to keep it.
func (s *Stream) Bytes() []byte {
	return s.bits[:ByteLength(s.length)]
}

// Bools expands the stream back into one bool per bit.
func (s *Stream) Bools() []bool {
	out := make([]bool, s.length)
	for i := range out {
		out[i] = s.bits.Get(i)
	}
	return out
}

// String renders the stream as a string of '0' and '1' characters, first bit
// first.
func (s *Stream) String() string {
	var builder strings.Builder
	builder.Grow(s.length)
	for i := 0; i < s.length; i++ {
		if s.bits.Get(i) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// Pack converts a sequence of bits into a dense byte buffer.
func Pack(bits []bool) []byte {
	packed := bitmap.Bitmap(bitmap.NewSlice(len(bits)))
	for i, bit := range bits {
		packed.Set(i, bit)
	}
	return packed
}

// Unpack is the inverse of [Pack]. `length` gives the number of bits to
// extract, since the buffer alone doesn't say where the padding begins.
func Unpack(data []byte, length int) ([]bool, error) {
	stream, err := FromBytes(data, length)
	if err != nil {
		return nil, err
	}
	return stream.Bools(), nil
}
