package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/huffman"
	"github.com/dargueta/huffzip/pipeline"
	"github.com/dargueta/huffzip/transforms/rle"
	"github.com/dargueta/huffzip/utilities/bitpack"
	"github.com/noxer/bytewriter"
)

// Serialized artifacts start with this magic, then FormatVersion, then the
// method tag.
//
//	"HZ" | version | method | body
//
// Huffman body:
//
//	uvarint bit length | uvarint tree length | tree | packed stream
//
// BWT pipeline body:
//
//	uvarint original index + 1 (0 = absent) | uvarint alphabet length | alphabet
//	| uvarint run count | runs, each a value byte and a ULEB128 count
const Magic = "HZ"

const FormatVersion = 1

const headerSize = len(Magic) + 2

// MarshalBinary serializes the artifact into a byte slice that
// [UnmarshalArtifact] can read back without any outside context.
func (a Artifact) MarshalBinary() ([]byte, error) {
	if err := huffzip.CheckMethod(a.Method); err != nil {
		return nil, err
	}

	var body bodyWriter
	var err error
	switch a.Method {
	case huffzip.Huffman:
		body, err = huffmanBody(a.Huffman)
	default:
		body, err = pipelineBody(a.Pipeline)
	}
	if err != nil {
		return nil, err
	}

	outputSlice := make([]byte, headerSize+body.size)
	writer := bytewriter.New(outputSlice)

	header := []byte{Magic[0], Magic[1], FormatVersion, byte(a.Method)}
	if _, err = writer.Write(header); err != nil {
		return nil, err
	}
	if err = body.write(writer); err != nil {
		return nil, err
	}
	return outputSlice, nil
}

// bodyWriter knows its size up front so we can allocate the output once.
type bodyWriter struct {
	size  int
	write func(w io.Writer) error
}

func huffmanBody(artifact *huffman.Artifact) (bodyWriter, error) {
	if artifact == nil {
		return bodyWriter{}, huffzip.ErrFormat.WithMessage("artifact has no Huffman component")
	}

	var treeBytes []byte
	if artifact.Tree != nil {
		var err error
		treeBytes, err = artifact.Tree.MarshalBinary()
		if err != nil {
			return bodyWriter{}, err
		}
	} else if artifact.BitLength != 0 {
		return bodyWriter{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("huffman artifact has %d bits but no tree", artifact.BitLength))
	}

	if artifact.BitLength > uint64(len(artifact.Payload))*8 {
		return bodyWriter{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf(
				"payload of %d bytes can't hold %d bits",
				len(artifact.Payload),
				artifact.BitLength))
	}
	payload := artifact.Payload[:bitpack.ByteLength(int(artifact.BitLength))]

	size := uvarintSize(artifact.BitLength) +
		uvarintSize(uint64(len(treeBytes))) +
		len(treeBytes) +
		len(payload)

	write := func(w io.Writer) error {
		if err := writeUvarint(w, artifact.BitLength); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(len(treeBytes))); err != nil {
			return err
		}
		if err := writeBytes(w, treeBytes); err != nil {
			return err
		}
		return writeBytes(w, payload)
	}
	return bodyWriter{size: size, write: write}, nil
}

func pipelineBody(artifact *pipeline.Artifact) (bodyWriter, error) {
	if artifact == nil {
		return bodyWriter{}, huffzip.ErrFormat.WithMessage(
			"artifact has no BWT pipeline component")
	}
	if _, err := artifact.Validate(); err != nil {
		return bodyWriter{}, err
	}

	storedIndex := uint64(0)
	if artifact.HasIndex && artifact.OriginalIndex >= 0 {
		storedIndex = uint64(artifact.OriginalIndex) + 1
	}

	size := uvarintSize(storedIndex) +
		uvarintSize(uint64(len(artifact.Alphabet))) +
		len(artifact.Alphabet) +
		uvarintSize(uint64(len(artifact.Runs))) +
		rle.EncodedSize(artifact.Runs)

	write := func(w io.Writer) error {
		if err := writeUvarint(w, storedIndex); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(len(artifact.Alphabet))); err != nil {
			return err
		}
		if err := writeBytes(w, artifact.Alphabet); err != nil {
			return err
		}
		if err := writeUvarint(w, uint64(len(artifact.Runs))); err != nil {
			return err
		}
		_, err := rle.WriteRuns(w, artifact.Runs)
		return err
	}
	return bodyWriter{size: size, write: write}, nil
}

// UnmarshalBinary replaces the contents of the artifact with the one
// serialized in data.
func (a *Artifact) UnmarshalBinary(data []byte) error {
	artifact, err := UnmarshalArtifact(data)
	if err != nil {
		return err
	}
	*a = artifact
	return nil
}

// UnmarshalArtifact is the inverse of [Artifact.MarshalBinary].
func UnmarshalArtifact(data []byte) (Artifact, error) {
	if len(data) < headerSize {
		return Artifact{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("artifact of %d bytes is too short for the header", len(data)))
	}
	if string(data[:len(Magic)]) != Magic {
		return Artifact{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("bad magic %q", data[:len(Magic)]))
	}
	if data[len(Magic)] != FormatVersion {
		return Artifact{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("unsupported format version %d", data[len(Magic)]))
	}

	method := huffzip.Method(data[len(Magic)+1])
	if err := huffzip.CheckMethod(method); err != nil {
		return Artifact{}, err
	}

	reader := bytes.NewReader(data[headerSize:])
	artifact := Artifact{Method: method}
	var err error
	switch method {
	case huffzip.Huffman:
		artifact.Huffman, err = readHuffmanBody(reader)
	default:
		artifact.Pipeline, err = readPipelineBody(reader)
	}
	if err != nil {
		return Artifact{}, err
	}

	if reader.Len() != 0 {
		return Artifact{}, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("%d bytes of trailing data", reader.Len()))
	}
	return artifact, nil
}

func readHuffmanBody(reader *bytes.Reader) (*huffman.Artifact, error) {
	bitLength, err := readUvarint(reader, "bit length")
	if err != nil {
		return nil, err
	}
	if bitLength > uint64(reader.Len())*8 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("%d bits don't fit in the remaining %d bytes", bitLength, reader.Len()))
	}

	treeSize, err := readUvarint(reader, "tree length")
	if err != nil {
		return nil, err
	}
	treeBytes, err := readExactly(reader, treeSize, "tree")
	if err != nil {
		return nil, err
	}

	artifact := &huffman.Artifact{BitLength: bitLength}
	if treeSize != 0 {
		artifact.Tree, err = huffman.UnmarshalTree(treeBytes)
		if err != nil {
			return nil, err
		}
	} else if bitLength != 0 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("huffman artifact has %d bits but no tree", bitLength))
	}

	artifact.Payload, err = readExactly(
		reader, uint64(bitpack.ByteLength(int(bitLength))), "payload")
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func readPipelineBody(reader *bytes.Reader) (*pipeline.Artifact, error) {
	storedIndex, err := readUvarint(reader, "original index")
	if err != nil {
		return nil, err
	}
	if storedIndex > math.MaxInt32 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("original index %d is too large", storedIndex-1))
	}

	alphabetSize, err := readUvarint(reader, "alphabet length")
	if err != nil {
		return nil, err
	}
	if alphabetSize > 256 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("alphabet has %d symbols, max 256", alphabetSize))
	}
	alphabet, err := readExactly(reader, alphabetSize, "alphabet")
	if err != nil {
		return nil, err
	}

	runCount, err := readUvarint(reader, "run count")
	if err != nil {
		return nil, err
	}
	// Every run takes at least two bytes.
	if runCount > uint64(reader.Len())/2 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("%d runs don't fit in the remaining %d bytes", runCount, reader.Len()))
	}
	runs, err := rle.ReadRuns(reader, int(runCount))
	if err != nil {
		return nil, err
	}

	artifact := &pipeline.Artifact{Runs: runs, Alphabet: alphabet}
	if storedIndex != 0 {
		artifact.OriginalIndex = int(storedIndex) - 1
		artifact.HasIndex = true
	}
	return artifact, nil
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

func uvarintSize(value uint64) int {
	var scratch [binary.MaxVarintLen64]byte
	return binary.PutUvarint(scratch[:], value)
}

func writeUvarint(w io.Writer, value uint64) error {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], value)
	_, err := w.Write(scratch[:n])
	return err
}

// writeBytes skips empty slices since a full bytewriter rejects every write,
// even one of zero bytes.
func writeBytes(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

func readUvarint(reader *bytes.Reader, what string) (uint64, error) {
	value, err := binary.ReadUvarint(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, huffzip.ErrFormat.WithMessage("reading " + what).Wrap(err)
	}
	return value, nil
}

func readExactly(reader *bytes.Reader, size uint64, what string) ([]byte, error) {
	if size > uint64(reader.Len()) {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf(
				"%s needs %d bytes but only %d remain",
				what,
				size,
				reader.Len())).Wrap(io.ErrUnexpectedEOF)
	}

	buffer := make([]byte, size)
	// Can't come up short since we checked the length above.
	_, _ = io.ReadFull(reader, buffer)
	return buffer, nil
}
