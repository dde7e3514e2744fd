// Package codec is the entry point to huffzip: it dispatches a block to the
// codec selected by a [huffzip.Method] and packages the result as a
// self-describing [Artifact].
package codec

import (
	"fmt"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/huffman"
	"github.com/dargueta/huffzip/pipeline"
)

// Artifact is the compressed form of one block. Exactly one of the
// method-specific fields is set, matching Method.
type Artifact struct {
	Method   huffzip.Method
	Huffman  *huffman.Artifact
	Pipeline *pipeline.Artifact
}

// Compress compresses a block with the given method. Empty blocks are valid
// for every method and give an artifact that decompresses to an empty block.
func Compress(block []byte, method huffzip.Method) (Artifact, error) {
	switch method {
	case huffzip.Huffman:
		compressed, err := huffman.Compress(block)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Method: method, Huffman: &compressed}, nil

	case huffzip.BWTPipeline:
		compressed := pipeline.Compress(block)
		return Artifact{Method: method, Pipeline: &compressed}, nil
	}
	return Artifact{}, huffzip.ErrUnsupportedMethod.WithMessage(method.String())
}

// Decompress reverses [Compress]. It fails with [huffzip.ErrFormat] if the
// artifact doesn't carry the component `method` needs, and with
// [huffzip.ErrUnsupportedMethod] if `method` isn't known.
func Decompress(artifact Artifact, method huffzip.Method) ([]byte, error) {
	if err := huffzip.CheckMethod(method); err != nil {
		return nil, err
	}
	if artifact.Method != 0 && artifact.Method != method {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf(
				"artifact was made with method %s, not %s",
				artifact.Method,
				method))
	}

	switch method {
	case huffzip.Huffman:
		if artifact.Huffman == nil {
			return nil, huffzip.ErrFormat.WithMessage("artifact has no Huffman component")
		}
		return huffman.Decompress(*artifact.Huffman)

	default:
		if artifact.Pipeline == nil {
			return nil, huffzip.ErrFormat.WithMessage("artifact has no BWT pipeline component")
		}
		return pipeline.Decompress(*artifact.Pipeline)
	}
}

// DecompressArtifact decompresses an artifact using the method recorded in it.
func DecompressArtifact(artifact Artifact) ([]byte, error) {
	return Decompress(artifact, artifact.Method)
}
