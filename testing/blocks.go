package testing

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// NamedBlock is a test input with a human-readable name for subtests.
type NamedBlock struct {
	Name string
	Data []byte
}

// RandomBlock creates a block of `size` random bytes. It is guaranteed to
// either return a valid slice or fail the test and abort.
func RandomBlock(t *testing.T, size int) []byte {
	block := make([]byte, size)
	_, err := rand.Read(block)
	require.NoErrorf(t, err, "failed to fill block of %d bytes with random data", size)
	return block
}

// SampleBlocks returns the set of inputs every codec must round-trip: the
// degenerate cases (empty, one byte, one distinct byte), periodic and textual
// data, every byte value, and random noise.
func SampleBlocks(t *testing.T) []NamedBlock {
	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}

	return []NamedBlock{
		{"empty", []byte{}},
		{"single byte", []byte{0x7f}},
		{"homogenous", bytes.Repeat([]byte("a"), 4)},
		{"nulls", make([]byte, 9174)},
		{"banana", []byte("banana")},
		{"periodic", []byte("abcabc")},
		{"text", []byte(sampleText)},
		{"all bytes", allBytes},
		{"all bytes reversed", reversed(allBytes)},
		{"sparse", sparseBlock(3000)},
		{"random", RandomBlock(t, 1187)},
	}
}

const sampleText = `It was the best of times, it was the worst of times, it was the age of
wisdom, it was the age of foolishness, it was the epoch of belief, it was the
epoch of incredulity, it was the season of Light, it was the season of Darkness,
it was the spring of hope, it was the winter of despair.`

func reversed(block []byte) []byte {
	out := make([]byte, len(block))
	for i, b := range block {
		out[len(block)-1-i] = b
	}
	return out
}

// sparseBlock is mostly zeros with a marker every 97 bytes, roughly what an
// uncompressed image with a lot of dead space looks like.
func sparseBlock(size int) []byte {
	block := make([]byte, size)
	for i := 0; i < size; i += 97 {
		block[i] = byte(i / 97)
	}
	return block
}
