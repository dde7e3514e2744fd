// Package container splits a stream into fixed-size blocks, compresses each
// one on its own, and frames the resulting artifacts so that the whole thing
// can be read back sequentially.
//
// The layout is
//
//	"HZC" | version | (uvarint frame length | artifact)* | uvarint 0
//
// where each artifact is in the serialized form produced by
// [codec.Artifact.MarshalBinary]. Every frame says which method made it, so a
// reader needs nothing but the stream.
package container

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/codec"
	"go.uber.org/zap"
)

const Magic = "HZC"

const FormatVersion = 1

// DefaultBlockSize is used when [Options.BlockSize] is 0.
const DefaultBlockSize = 256 * 1024

// MaxBlockSize is the largest block size [Compress] accepts.
const MaxBlockSize = 64 * 1024 * 1024

// MaxFrameSize is the largest frame [Decompress] will read. A Huffman artifact
// can be bigger than the block it came from, so this leaves some headroom above
// MaxBlockSize.
const MaxFrameSize = 4 * MaxBlockSize

// Options controls how [Compress] splits and compresses its input.
type Options struct {
	// Method is the codec used for every block.
	Method huffzip.Method
	// BlockSize is the number of input bytes per block. 0 means
	// [DefaultBlockSize].
	BlockSize int
	// Logger gets one debug entry per block. nil disables logging.
	Logger *zap.Logger
}

func (o Options) normalize() (Options, error) {
	if err := huffzip.CheckMethod(o.Method); err != nil {
		return o, err
	}
	if o.BlockSize == 0 {
		o.BlockSize = DefaultBlockSize
	} else if o.BlockSize < 0 || o.BlockSize > MaxBlockSize {
		return o, huffzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("block size must be in [1, %d], got %d", MaxBlockSize, o.BlockSize))
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o, nil
}

// Compress reads `input` until EOF and writes the compressed container to
// `output`. It returns the number of bytes written.
//
// The context is checked before each block. If it's canceled, Compress stops
// and returns the context's error; whatever was written so far is not a valid
// container.
func Compress(
	ctx context.Context, input io.Reader, output io.Writer, options Options,
) (int64, error) {
	options, err := options.normalize()
	if err != nil {
		return 0, err
	}
	logger := options.Logger.With(zap.Stringer("method", options.Method))

	writer := bufio.NewWriter(output)
	totalWritten, err := writeHeader(writer)
	if err != nil {
		return totalWritten, err
	}

	block := make([]byte, options.BlockSize)
	var totalRead int64
	blockIndex := 0
	for {
		if err = ctx.Err(); err != nil {
			return totalWritten, err
		}

		bytesRead, readErr := io.ReadFull(input, block)
		if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
			return totalWritten, readErr
		}
		if bytesRead == 0 {
			break
		}
		totalRead += int64(bytesRead)

		artifact, err := codec.Compress(block[:bytesRead], options.Method)
		if err != nil {
			return totalWritten, err
		}
		frame, err := artifact.MarshalBinary()
		if err != nil {
			return totalWritten, err
		}

		frameWritten, err := writeFrame(writer, frame)
		totalWritten += frameWritten
		if err != nil {
			return totalWritten, err
		}

		logger.Debug(
			"compressed block",
			zap.Int("block", blockIndex),
			zap.Int("size", bytesRead),
			zap.Int("compressedSize", len(frame)),
		)
		blockIndex++

		// A short read means the input is exhausted.
		if readErr != nil {
			break
		}
	}

	terminatorWritten, err := writeUvarint(writer, 0)
	totalWritten += terminatorWritten
	if err != nil {
		return totalWritten, err
	}
	if err = writer.Flush(); err != nil {
		return totalWritten, err
	}

	logger.Info(
		"compressed stream",
		zap.Int("blocks", blockIndex),
		zap.Int64("bytesIn", totalRead),
		zap.Int64("bytesOut", totalWritten),
	)
	return totalWritten, nil
}

// Decompress reads a container from `input` and writes the original data to
// `output`. It returns the number of bytes written. Anything in `input` after
// the terminating frame is left unread, give or take buffering.
func Decompress(
	ctx context.Context, input io.Reader, output io.Writer, logger *zap.Logger,
) (int64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := bufio.NewReader(input)
	if err := readHeader(reader); err != nil {
		return 0, err
	}

	var totalWritten int64
	blockIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return totalWritten, err
		}

		frameSize, err := binary.ReadUvarint(reader)
		if err != nil {
			return totalWritten, truncationError(
				fmt.Sprintf("reading length of frame %d", blockIndex), err)
		}
		if frameSize == 0 {
			break
		}
		if frameSize > MaxFrameSize {
			return totalWritten, huffzip.ErrFormat.WithMessage(
				fmt.Sprintf(
					"frame %d is %d bytes, max is %d",
					blockIndex,
					frameSize,
					MaxFrameSize))
		}

		frame := make([]byte, frameSize)
		if _, err = io.ReadFull(reader, frame); err != nil {
			return totalWritten, truncationError(
				fmt.Sprintf("reading frame %d", blockIndex), err)
		}

		artifact, err := codec.UnmarshalArtifact(frame)
		if err != nil {
			return totalWritten, err
		}
		block, err := codec.DecompressArtifact(artifact)
		if err != nil {
			return totalWritten, err
		}

		written, err := output.Write(block)
		totalWritten += int64(written)
		if err != nil {
			return totalWritten, err
		}

		logger.Debug(
			"decompressed block",
			zap.Int("block", blockIndex),
			zap.Stringer("method", artifact.Method),
			zap.Uint64("compressedSize", frameSize),
			zap.Int("size", len(block)),
		)
		blockIndex++
	}

	logger.Info(
		"decompressed stream",
		zap.Int("blocks", blockIndex),
		zap.Int64("bytesOut", totalWritten),
	)
	return totalWritten, nil
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

func writeHeader(writer io.Writer) (int64, error) {
	header := append([]byte(Magic), FormatVersion)
	written, err := writer.Write(header)
	return int64(written), err
}

func readHeader(reader io.Reader) error {
	header := make([]byte, len(Magic)+1)
	if _, err := io.ReadFull(reader, header); err != nil {
		return truncationError("reading container header", err)
	}
	if string(header[:len(Magic)]) != Magic {
		return huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("bad container magic %q", header[:len(Magic)]))
	}
	if header[len(Magic)] != FormatVersion {
		return huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("unsupported container version %d", header[len(Magic)]))
	}
	return nil
}

func writeFrame(writer io.Writer, frame []byte) (int64, error) {
	written, err := writeUvarint(writer, uint64(len(frame)))
	if err != nil {
		return written, err
	}
	frameWritten, err := writer.Write(frame)
	return written + int64(frameWritten), err
}

func writeUvarint(writer io.Writer, value uint64) (int64, error) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], value)
	written, err := writer.Write(scratch[:n])
	return int64(written), err
}

// truncationError converts a premature EOF into [huffzip.ErrFormat]. Other I/O
// errors are passed through untouched.
func truncationError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return huffzip.ErrFormat.WithMessage(what).Wrap(io.ErrUnexpectedEOF)
	}
	return err
}
