package mtf_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/transforms/mtf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode__Banana(t *testing.T) {
	indices, alphabet := mtf.Encode([]byte("banana"))
	assert.Equal(t, []byte("abn"), alphabet)
	assert.Equal(t, []byte{1, 1, 2, 1, 1, 1}, indices)

	decoded, err := mtf.Decode(indices, []byte("abn"))
	require.NoError(t, err)
	assert.Equal(t, []byte("banana"), decoded)
}

func TestEncode__Runs(t *testing.T) {
	indices, alphabet := mtf.Encode([]byte("aaabbbaaa"))
	assert.Equal(t, []byte("ab"), alphabet)
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 1, 0, 0}, indices)
}

func TestEncode__Empty(t *testing.T) {
	indices, alphabet := mtf.Encode([]byte{})
	assert.Empty(t, indices)
	assert.Empty(t, alphabet)

	decoded, err := mtf.Decode(indices, alphabet)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestRoundTrip__Random(t *testing.T) {
	for _, size := range []int{1, 10, 256, 4096} {
		block := make([]byte, size)
		_, err := rand.Read(block)
		require.NoError(t, err)

		indices, alphabet := mtf.Encode(block)
		decoded, err := mtf.Decode(indices, alphabet)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(block, decoded), "round trip failed for size %d", size)
	}
}

func TestDecode__DoesNotMutateAlphabet(t *testing.T) {
	alphabet := []byte("abn")
	_, err := mtf.Decode([]byte{2, 2, 1}, alphabet)
	require.NoError(t, err)
	assert.Equal(t, []byte("abn"), alphabet)
}

func TestDecode__IndexOutOfRange(t *testing.T) {
	_, err := mtf.Decode([]byte{0, 3}, []byte("abc"))
	assert.ErrorIs(t, err, huffzip.ErrCorruptStream)
}

func TestEncodeWith__ByteNotInAlphabet(t *testing.T) {
	_, err := mtf.EncodeWith([]byte("abc"), []byte("ab"))
	assert.ErrorIs(t, err, huffzip.ErrInvalidArgument)
}

func TestEncodeWith__WiderAlphabet(t *testing.T) {
	indices, err := mtf.EncodeWith([]byte("cc"), []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0}, indices)
}

func TestAlphabet(t *testing.T) {
	assert.Equal(t, []byte{0, 7, 9, 200}, mtf.Alphabet([]byte{200, 9, 0, 7, 9, 0, 200}))
	assert.Empty(t, mtf.Alphabet(nil))
}

func TestList__MoveToFront(t *testing.T) {
	list := mtf.NewList([]byte("abcd"))
	assert.Equal(t, 2, list.IndexOf('c'))
	assert.Equal(t, -1, list.IndexOf('z'))

	assert.EqualValues(t, 'c', list.MoveToFront(2))
	assert.Equal(t, mtf.List("cabd"), list)

	assert.EqualValues(t, 'c', list.MoveToFront(0))
	assert.Equal(t, mtf.List("cabd"), list)

	assert.EqualValues(t, 'd', list.MoveToFront(3))
	assert.Equal(t, mtf.List("dcab"), list)
}
