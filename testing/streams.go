package testing

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// OpenStream returns a seekable stream over a copy of `data`.
//
//   - Writes to the stream do not affect `data`.
//   - While the stream can be written to, its size is fixed to `len(data)`.
//     Attempting to write past the end of this buffer will trigger an error.
func OpenStream(t *testing.T, data []byte) io.ReadWriteSeeker {
	t.Helper()
	backing := make([]byte, len(data))
	require.Equal(t, len(data), copy(backing, data), "failed to copy stream data")
	return bytesextra.NewReadWriteSeeker(backing)
}

// ReadAllFrom seeks to the beginning of the stream and returns everything in
// it, failing the test on error.
func ReadAllFrom(t *testing.T, stream io.ReadSeeker) []byte {
	t.Helper()
	_, err := stream.Seek(0, io.SeekStart)
	require.NoError(t, err, "failed to rewind stream")

	data, err := io.ReadAll(stream)
	require.NoError(t, err, "failed to read stream")
	return data
}
