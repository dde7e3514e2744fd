// Package pipeline composes the block transforms into the simplified bzip2
// codec: Burrows-Wheeler, then move-to-front, then run-length encoding.
//
// Decompression applies the inverses in reverse order. Every stage needs
// something the previous one produced besides its data stream (the original
// row index for the BWT, the initial alphabet for MTF), so all of it is kept in
// the [Artifact].
package pipeline

import (
	"bytes"
	"fmt"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/transforms/bwt"
	"github.com/dargueta/huffzip/transforms/mtf"
	"github.com/dargueta/huffzip/transforms/rle"
)

// Artifact holds the output of the pipeline.
type Artifact struct {
	// Runs is the run-length encoded MTF index stream.
	Runs []rle.Run
	// OriginalIndex is the row of the sorted rotation matrix holding the
	// original block. It's ignored unless HasIndex is set.
	OriginalIndex int
	// HasIndex is false only for the artifact of an empty block. An artifact
	// built by hand must set it, since a zero OriginalIndex is a valid row.
	HasIndex bool
	// Alphabet is the sorted set of distinct bytes in the block, i.e. the
	// initial MTF list.
	Alphabet []byte
}

// IsEmpty returns true if the artifact represents an empty block.
func (a Artifact) IsEmpty() bool {
	return len(a.Runs) == 0
}

// Compress runs BWT, MTF and RLE over block. It can't fail.
func Compress(block []byte) Artifact {
	lastColumn, index := bwt.Forward(block)
	indices, alphabet := mtf.Encode(lastColumn)
	artifact := Artifact{
		Runs:     rle.Encode(indices),
		Alphabet: alphabet,
	}
	if index >= 0 {
		artifact.OriginalIndex = index
		artifact.HasIndex = true
	}
	return artifact
}

// Validate checks that the artifact has every component decompression needs
// and returns the length of the block it decompresses to.
func (a Artifact) Validate() (int, error) {
	total, err := rle.Validate(a.Runs)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	if !a.HasIndex {
		return 0, huffzip.ErrFormat.WithMessage("artifact is missing the original row index")
	}
	if a.OriginalIndex < 0 || a.OriginalIndex >= total {
		return 0, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("original index %d not in [0, %d)", a.OriginalIndex, total))
	}
	if len(a.Alphabet) == 0 {
		return 0, huffzip.ErrFormat.WithMessage("artifact is missing the initial alphabet")
	}
	if len(a.Alphabet) > 256 {
		return 0, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("alphabet has %d symbols, max 256", len(a.Alphabet)))
	}
	for i := 1; i < len(a.Alphabet); i++ {
		if a.Alphabet[i-1] >= a.Alphabet[i] {
			return 0, huffzip.ErrFormat.WithMessage("alphabet isn't sorted and distinct")
		}
	}
	return total, nil
}

// Decompress reverses [Compress]: RLE, then MTF, then BWT.
func Decompress(artifact Artifact) ([]byte, error) {
	total, err := artifact.Validate()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []byte{}, nil
	}

	indices := rle.Decode(artifact.Runs)
	lastColumn, err := mtf.Decode(indices, artifact.Alphabet)
	if err != nil {
		return nil, err
	}

	// The alphabet is supposed to be exactly the set of bytes in the block.
	// Anything else means the artifact was tampered with.
	if !bytes.Equal(mtf.Alphabet(lastColumn), artifact.Alphabet) {
		return nil, huffzip.ErrCorruptStream.WithMessage(
			"decoded block doesn't use every symbol of its alphabet")
	}
	return bwt.Inverse(lastColumn, artifact.OriginalIndex)
}
