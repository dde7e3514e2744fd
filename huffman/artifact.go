package huffman

import (
	"errors"
	"fmt"
	"math"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/utilities/bitpack"
)

// Artifact is everything needed to reproduce a block compressed with Huffman
// coding: the tree, the packed bit stream, and the number of bits in the stream
// so we know where the padding in the last byte begins.
//
// The artifact of an empty block has a nil Tree, no payload and a BitLength of
// 0. That's the only case where Tree may be nil.
type Artifact struct {
	Tree      *Tree
	Payload   []byte
	BitLength uint64
}

// IsEmpty returns true if the artifact represents an empty block.
func (a Artifact) IsEmpty() bool {
	return a.Tree == nil && a.BitLength == 0
}

// Compress runs the whole Huffman pipeline on a block. An empty block isn't an
// error; it gives an empty artifact.
func Compress(block []byte) (Artifact, error) {
	tree, err := BuildTree(BuildFrequencyTable(block))
	if errors.Is(err, huffzip.ErrEmptyInput) {
		return Artifact{}, nil
	} else if err != nil {
		return Artifact{}, err
	}

	stream, err := Encode(block, GenerateCodes(tree))
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Tree:      tree,
		Payload:   stream.Bytes(),
		BitLength: uint64(stream.Len()),
	}, nil
}

// Decompress reverses [Compress].
func Decompress(artifact Artifact) ([]byte, error) {
	if artifact.IsEmpty() {
		return []byte{}, nil
	}
	if artifact.Tree == nil {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("huffman artifact has %d bits but no tree", artifact.BitLength))
	}
	if artifact.BitLength > math.MaxInt32*8 {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("bit length %d is too large", artifact.BitLength))
	}

	stream, err := bitpack.FromBytes(artifact.Payload, int(artifact.BitLength))
	if err != nil {
		return nil, err
	}
	return Decode(stream, artifact.Tree)
}
