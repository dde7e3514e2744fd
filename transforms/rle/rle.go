package rle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/huffzip"
)

// Encode collapses consecutive equal values into runs. An empty input gives no
// runs.
func Encode(indices []byte) []Run {
	// Reading from memory, so the only possible error is EOF, which ReadAll
	// swallows.
	runs, _ := NewGrouper(bytes.NewReader(indices)).ReadAll()
	return runs
}

// Decode expands every run back into `Count` copies of its value. Runs must
// be valid (see [Validate]); runs with a count below 1 contribute nothing.
func Decode(runs []Run) []byte {
	total := 0
	for _, run := range runs {
		if run.Count > 0 {
			total += run.Count
		}
	}

	output := make([]byte, 0, total)
	for _, run := range runs {
		for i := 0; i < run.Count; i++ {
			output = append(output, run.Value)
		}
	}
	return output
}

// Validate checks that every run has a positive count and that the expanded
// length fits in an int. It returns the expanded length.
func Validate(runs []Run) (int, error) {
	total := 0
	for i, run := range runs {
		if run.Count < 1 {
			return 0, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("run %d has invalid count %d", i, run.Count))
		}
		if total > math.MaxInt-run.Count {
			return 0, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("run %d overflows the expanded length", i))
		}
		total += run.Count
	}
	return total, nil
}

// WriteRuns serializes runs to the output as a value byte followed by the
// count in ULEB128. The return value is the number of bytes written, only valid
// if no error occurred.
func WriteRuns(output io.Writer, runs []Run) (int64, error) {
	totalBytesWritten := int64(0)
	var buffer [1 + 10]byte

	for _, run := range runs {
		if run.Count < 1 {
			return totalBytesWritten, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("can't write run with count %d", run.Count))
		}

		buffer[0] = run.Value
		size := 1 + binary.PutUvarint(buffer[1:], uint64(run.Count))
		n, err := output.Write(buffer[:size])
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
	return totalBytesWritten, nil
}

// EncodedSize returns the number of bytes [WriteRuns] will write for runs.
func EncodedSize(runs []Run) int {
	var scratch [10]byte
	size := 0
	for _, run := range runs {
		size += 1 + binary.PutUvarint(scratch[:], uint64(run.Count))
	}
	return size
}

// ReadRuns reads exactly `count` runs written by [WriteRuns].
func ReadRuns(input io.ByteReader, count int) ([]Run, error) {
	if count < 0 {
		return nil, huffzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("negative run count %d", count))
	}

	// Don't trust `count` for preallocation since it comes from the input.
	runs := make([]Run, 0, minInt(count, 4096))
	for i := 0; i < count; i++ {
		value, err := input.ReadByte()
		if err != nil {
			return nil, runReadError(i, err)
		}

		runLength, err := binary.ReadUvarint(input)
		if err != nil {
			return nil, runReadError(i, err)
		}
		if runLength < 1 || runLength > math.MaxInt32 {
			return nil, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("run %d has invalid count %d", i, runLength))
		}
		runs = append(runs, Run{Value: value, Count: int(runLength)})
	}
	return runs, nil
}

func runReadError(index int, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return huffzip.ErrFormat.WithMessage(fmt.Sprintf("reading run %d", index)).Wrap(err)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
