package container_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/container"
	hztest "github.com/dargueta/huffzip/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRoundTrip__AllMethods(t *testing.T) {
	for _, method := range huffzip.Methods {
		t.Run(method.String(), func(t *testing.T) {
			for _, sample := range hztest.SampleBlocks(t) {
				t.Run(sample.Name, func(t *testing.T) {
					runRoundTripTest(t, sample.Data, container.Options{Method: method})
				})
			}
		})
	}
}

func TestRoundTrip__MultipleBlocks(t *testing.T) {
	data := hztest.RandomBlock(t, 1000)
	data = append(data, bytes.Repeat([]byte("mississippi"), 200)...)

	for _, blockSize := range []int{1, 7, 128, 999, 1000, 1001, len(data), len(data) + 1} {
		for _, method := range huffzip.Methods {
			runRoundTripTest(t, data, container.Options{Method: method, BlockSize: blockSize})
		}
	}
}

func TestCompress__EmptyInput(t *testing.T) {
	output := new(bytes.Buffer)
	written, err := container.Compress(
		context.Background(),
		hztest.OpenStream(t, nil),
		output,
		container.Options{Method: huffzip.Huffman},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 5, written)
	assert.Equal(t, []byte{'H', 'Z', 'C', 1, 0}, output.Bytes())
}

func TestCompress__BadOptions(t *testing.T) {
	cases := []struct {
		Name     string
		Options  container.Options
		Expected error
	}{
		{"no method", container.Options{}, huffzip.ErrUnsupportedMethod},
		{"unknown method", container.Options{Method: 77}, huffzip.ErrUnsupportedMethod},
		{
			"negative block size",
			container.Options{Method: huffzip.Huffman, BlockSize: -1},
			huffzip.ErrInvalidArgument,
		},
		{
			"huge block size",
			container.Options{Method: huffzip.Huffman, BlockSize: container.MaxBlockSize + 1},
			huffzip.ErrInvalidArgument,
		},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			output := new(bytes.Buffer)
			_, err := container.Compress(
				context.Background(), bytes.NewReader([]byte("abc")), output, test.Options)
			assert.ErrorIs(t, err, test.Expected)
			assert.Zero(t, output.Len(), "nothing should be written on bad options")
		})
	}
}

func TestCompress__Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := container.Compress(
		ctx,
		bytes.NewReader([]byte("abc")),
		io.Discard,
		container.Options{Method: huffzip.BWTPipeline},
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompress__Canceled(t *testing.T) {
	compressed := compressBytes(
		t, []byte("abc"), container.Options{Method: huffzip.BWTPipeline})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := container.Decompress(ctx, bytes.NewReader(compressed), io.Discard, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompress__BadHeader(t *testing.T) {
	cases := map[string][]byte{
		"empty":       {},
		"short":       {'H', 'Z'},
		"bad magic":   {'H', 'Z', 'X', 1, 0},
		"bad version": {'H', 'Z', 'C', 9, 0},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := container.Decompress(
				context.Background(), bytes.NewReader(data), io.Discard, nil)
			assert.ErrorIs(t, err, huffzip.ErrFormat)
		})
	}
}

func TestDecompress__Truncated(t *testing.T) {
	compressed := compressBytes(
		t,
		bytes.Repeat([]byte("truncated "), 50),
		container.Options{Method: huffzip.Huffman, BlockSize: 100},
	)

	for size := 0; size < len(compressed); size++ {
		_, err := container.Decompress(
			context.Background(), bytes.NewReader(compressed[:size]), io.Discard, nil)
		assert.ErrorIs(t, err, huffzip.ErrFormat, "truncated to %d bytes", size)
	}
}

func TestDecompress__FrameTooLarge(t *testing.T) {
	// 0x80 0x80 0x80 0x80 0x10 is 2^32 as a uvarint.
	data := []byte{'H', 'Z', 'C', 1, 0x80, 0x80, 0x80, 0x80, 0x10}
	_, err := container.Decompress(
		context.Background(), bytes.NewReader(data), io.Discard, nil)
	assert.ErrorIs(t, err, huffzip.ErrFormat)
}

func TestDecompress__CorruptFrame(t *testing.T) {
	data := []byte{'H', 'Z', 'C', 1, 3, 'X', 'Y', 'Z', 0}
	_, err := container.Decompress(
		context.Background(), bytes.NewReader(data), io.Discard, nil)
	assert.ErrorIs(t, err, huffzip.ErrFormat)
}

func TestCompress__LogsEachBlock(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	options := container.Options{
		Method:    huffzip.BWTPipeline,
		BlockSize: 4,
		Logger:    zap.New(core),
	}

	compressBytes(t, []byte("abcdefghij"), options)

	blockEntries := logs.FilterMessage("compressed block").All()
	require.Len(t, blockEntries, 3)
	assert.EqualValues(t, 2, blockEntries[2].ContextMap()["size"])
	assert.Equal(t, "bwt", blockEntries[0].ContextMap()["method"])

	summary := logs.FilterMessage("compressed stream").All()
	require.Len(t, summary, 1)
	assert.EqualValues(t, 3, summary[0].ContextMap()["blocks"])
	assert.EqualValues(t, 10, summary[0].ContextMap()["bytesIn"])
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

func compressBytes(t *testing.T, data []byte, options container.Options) []byte {
	output := new(bytes.Buffer)
	written, err := container.Compress(
		context.Background(), hztest.OpenStream(t, data), output, options)
	require.NoError(t, err, "compression failed")
	require.EqualValues(t, output.Len(), written, "wrong byte count returned")
	return output.Bytes()
}

func runRoundTripTest(t *testing.T, data []byte, options container.Options) {
	compressed := compressBytes(t, data, options)

	// The output stream can't grow, so any extra byte written is an error.
	output := hztest.OpenStream(t, make([]byte, len(data)))
	written, err := container.Decompress(
		context.Background(), hztest.OpenStream(t, compressed), output, zap.NewNop())
	require.NoError(t, err, "decompression failed")
	assert.EqualValues(t, len(data), written)
	assert.True(
		t,
		bytes.Equal(data, hztest.ReadAllFrom(t, output)),
		"%s with block size %d didn't round-trip",
		options.Method,
		options.BlockSize)
}
