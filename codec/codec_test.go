package codec_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/codec"
	"github.com/dargueta/huffzip/huffman"
	hztest "github.com/dargueta/huffzip/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip__AllMethods(t *testing.T) {
	samples := hztest.SampleBlocks(t)
	for _, method := range huffzip.Methods {
		t.Run(
			method.String(),
			func(t *testing.T) {
				for _, sample := range samples {
					t.Run(
						sample.Name,
						func(t *testing.T) {
							runRoundTripTest(t, sample.Data, method)
						},
					)
				}
			},
		)
	}
}

func TestCompress__EmptyBlock(t *testing.T) {
	for _, method := range huffzip.Methods {
		artifact, err := codec.Compress([]byte{}, method)
		require.NoError(t, err, "compressing empty block with %s failed", method)
		assert.Equal(t, method, artifact.Method)

		decompressed, err := codec.Decompress(artifact, method)
		require.NoError(t, err, "decompressing empty block with %s failed", method)
		assert.Empty(t, decompressed)
	}
}

func TestCompress__HuffmanSingleSymbol(t *testing.T) {
	artifact, err := codec.Compress([]byte("aaaa"), huffzip.Huffman)
	require.NoError(t, err)
	require.NotNil(t, artifact.Huffman)
	assert.Nil(t, artifact.Pipeline)

	codes := huffman.GenerateCodes(artifact.Huffman.Tree)
	assert.Equal(t, "0", codes[0x61].String())
	assert.EqualValues(t, 4, artifact.Huffman.BitLength)
}

func TestCompress__PipelineKeepsEveryComponent(t *testing.T) {
	artifact, err := codec.Compress([]byte("abcabc"), huffzip.BWTPipeline)
	require.NoError(t, err)
	require.NotNil(t, artifact.Pipeline)
	assert.Nil(t, artifact.Huffman)

	assert.Equal(t, 0, artifact.Pipeline.OriginalIndex)
	assert.Equal(t, []byte("abc"), artifact.Pipeline.Alphabet)
	assert.NotEmpty(t, artifact.Pipeline.Runs)
}

func TestCompress__UnsupportedMethod(t *testing.T) {
	_, err := codec.Compress([]byte("abc"), huffzip.Method(0))
	assert.ErrorIs(t, err, huffzip.ErrUnsupportedMethod)

	_, err = codec.Compress([]byte("abc"), huffzip.Method(9))
	assert.ErrorIs(t, err, huffzip.ErrUnsupportedMethod)
}

func TestDecompress__UnsupportedMethod(t *testing.T) {
	artifact, err := codec.Compress([]byte("abc"), huffzip.Huffman)
	require.NoError(t, err)

	_, err = codec.Decompress(artifact, huffzip.Method(42))
	assert.ErrorIs(t, err, huffzip.ErrUnsupportedMethod)
}

func TestDecompress__MissingComponent(t *testing.T) {
	_, err := codec.Decompress(codec.Artifact{}, huffzip.Huffman)
	assert.ErrorIs(t, err, huffzip.ErrFormat)

	_, err = codec.Decompress(codec.Artifact{}, huffzip.BWTPipeline)
	assert.ErrorIs(t, err, huffzip.ErrFormat)

	_, err = codec.Decompress(
		codec.Artifact{Huffman: &huffman.Artifact{}}, huffzip.BWTPipeline)
	assert.ErrorIs(t, err, huffzip.ErrFormat)
}

func TestDecompress__MethodMismatch(t *testing.T) {
	artifact, err := codec.Compress([]byte("abc"), huffzip.BWTPipeline)
	require.NoError(t, err)

	_, err = codec.Decompress(artifact, huffzip.Huffman)
	assert.ErrorIs(t, err, huffzip.ErrFormat)
}

func TestDecompress__MissingOriginalIndex(t *testing.T) {
	artifact, err := codec.Compress([]byte("abcabc"), huffzip.BWTPipeline)
	require.NoError(t, err)
	artifact.Pipeline.HasIndex = false

	_, err = codec.Decompress(artifact, huffzip.BWTPipeline)
	assert.ErrorIs(t, err, huffzip.ErrFormat)
}

func TestDecompressArtifact(t *testing.T) {
	data := []byte("Sphinx of black quartz, judge my vow.")
	for _, method := range huffzip.Methods {
		artifact, err := codec.Compress(data, method)
		require.NoError(t, err)

		decompressed, err := codec.DecompressArtifact(artifact)
		require.NoError(t, err)
		assert.Equal(t, data, decompressed)
	}

	_, err := codec.DecompressArtifact(codec.Artifact{})
	assert.ErrorIs(t, err, huffzip.ErrUnsupportedMethod)
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

func runRoundTripTest(t *testing.T, data []byte, method huffzip.Method) {
	artifact, err := codec.Compress(data, method)
	require.NoError(t, err, "unexpected error while compressing")

	decompressed, err := codec.Decompress(artifact, method)
	require.NoError(t, err, "unexpected error while decompressing")
	assert.True(t, bytes.Equal(data, decompressed), "decompressed data is wrong")

	// Same thing, but through the serialized form.
	serialized, err := artifact.MarshalBinary()
	require.NoError(t, err, "unexpected error while serializing")
	t.Logf("%s: %d -> %d bytes", method, len(data), len(serialized))

	restored, err := codec.UnmarshalArtifact(serialized)
	require.NoError(t, err, "unexpected error while deserializing")

	decompressed, err = codec.Decompress(restored, method)
	require.NoError(t, err, "unexpected error while decompressing deserialized artifact")
	assert.True(t, bytes.Equal(data, decompressed), "decompressed data is wrong")
}
