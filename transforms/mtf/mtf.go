// Package mtf implements the move-to-front transform.
//
// Each byte is replaced by its current position in a recency list, and then
// moved to the front of that list. Locally repetitive input turns into runs of
// small numbers, mostly zeros, which the run-length stage compacts.
//
// The list starts out as the sorted set of distinct bytes in the block. Since
// that can't be recovered from the encoded indices, the decoder has to be given
// the same initial alphabet the encoder used.
package mtf

import (
	"fmt"
	"sort"

	"github.com/dargueta/huffzip"
)

// List is the recency-ordered alphabet. The front of the list is index 0.
type List []byte

// NewList creates a list seeded with a copy of alphabet, so the caller's slice
// is never mutated.
func NewList(alphabet []byte) List {
	list := make(List, len(alphabet))
	copy(list, alphabet)
	return list
}

// IndexOf returns the current position of b in the list, or -1 if it isn't
// present.
func (l List) IndexOf(b byte) int {
	for i, v := range l {
		if v == b {
			return i
		}
	}
	return -1
}

// MoveToFront moves the byte at position i to the front, shifting everything
// before it back by one. It returns the moved byte.
func (l List) MoveToFront(i int) byte {
	value := l[i]
	copy(l[1:i+1], l[:i])
	l[0] = value
	return value
}

// Alphabet returns the distinct bytes of block in ascending order.
func Alphabet(block []byte) []byte {
	var present [256]bool
	alphabet := make([]byte, 0, 256)
	for _, b := range block {
		if !present[b] {
			present[b] = true
			alphabet = append(alphabet, b)
		}
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return alphabet
}

// Encode transforms block using its own sorted alphabet as the initial list.
// The alphabet is returned too since [Decode] needs it.
func Encode(block []byte) (indices []byte, alphabet []byte) {
	alphabet = Alphabet(block)
	// Can't fail: every byte of the block is in its own alphabet.
	indices, _ = EncodeWith(block, alphabet)
	return indices, alphabet
}

// EncodeWith transforms block starting from the given initial list. Every byte
// of block must be in the alphabet, otherwise this fails with
// [huffzip.ErrInvalidArgument].
func EncodeWith(block []byte, alphabet []byte) ([]byte, error) {
	if len(alphabet) > 256 {
		return nil, huffzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("alphabet has %d symbols, max 256", len(alphabet)))
	}

	list := NewList(alphabet)
	indices := make([]byte, len(block))
	for i, b := range block {
		position := list.IndexOf(b)
		if position < 0 {
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("byte %#02x at offset %d isn't in the alphabet", b, i))
		}
		indices[i] = byte(position)
		list.MoveToFront(position)
	}
	return indices, nil
}

// Decode reverses [Encode] given the same initial alphabet. An index past the
// end of the list fails with [huffzip.ErrCorruptStream].
func Decode(indices []byte, alphabet []byte) ([]byte, error) {
	list := NewList(alphabet)
	block := make([]byte, len(indices))
	for i, index := range indices {
		if int(index) >= len(list) {
			return nil, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf(
					"index %d at offset %d not in alphabet of %d symbols",
					index,
					i,
					len(list)))
		}
		block[i] = list.MoveToFront(int(index))
	}
	return block, nil
}
