package huffman

import (
	"fmt"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/utilities/bitpack"
)

// Encode concatenates the codes of every byte in block, in order. An empty
// block gives an empty stream. Every byte in the block must have a code in the
// table, otherwise this fails with [huffzip.ErrInvalidArgument].
func Encode(block []byte, codes CodeTable) (*bitpack.Stream, error) {
	var lookup [256]Code
	var present [256]bool
	for symbol, code := range codes {
		if len(code) == 0 {
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("code for byte %#02x is empty", symbol))
		}
		lookup[symbol] = code
		present[symbol] = true
	}

	stream := bitpack.NewStream(len(block) * 4)
	for i, b := range block {
		if !present[b] {
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("no code for byte %#02x at offset %d", b, i))
		}
		stream.AppendBits(lookup[b])
	}
	return stream, nil
}

// Decode walks the tree from its root one bit at a time, emitting a byte every
// time it lands on a leaf.
//
// It fails with [huffzip.ErrCorruptStream] if a bit leads to a child that
// doesn't exist, or if the stream runs out in the middle of a code. Both mean
// the stream wasn't produced with this tree.
func Decode(stream *bitpack.Stream, tree *Tree) ([]byte, error) {
	if tree == nil || tree.Len() == 0 {
		return nil, huffzip.ErrCorruptStream.WithMessage("no tree to decode with")
	}

	root := tree.Node(tree.Root())
	if root.IsLeaf() {
		return decodeSingleSymbol(stream, root.Symbol)
	}

	output := make([]byte, 0, stream.Len()/2)
	current := tree.Root()
	for i := 0; i < stream.Len(); i++ {
		node := tree.Node(current)

		var next NodeID
		if stream.Get(i) {
			next = node.Right
		} else {
			next = node.Left
		}

		if next < 0 || int(next) >= tree.Len() {
			return nil, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("bit %d leads to a missing child of node %d", i, current))
		}

		nextNode := tree.Node(next)
		if nextNode.IsLeaf() {
			output = append(output, nextNode.Symbol)
			current = tree.Root()
		} else {
			current = next
		}
	}

	if current != tree.Root() {
		return nil, huffzip.ErrCorruptStream.WithMessage(
			fmt.Sprintf("stream of %d bits ends in the middle of a code", stream.Len()))
	}
	return output, nil
}

// decodeSingleSymbol handles trees with one leaf. Each symbol was encoded as a
// single 0 bit, so any 1 bit means the stream is corrupt.
func decodeSingleSymbol(stream *bitpack.Stream, symbol byte) ([]byte, error) {
	output := make([]byte, stream.Len())
	for i := range output {
		if stream.Get(i) {
			return nil, huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("bit %d is set but the tree only has one symbol", i))
		}
		output[i] = symbol
	}
	return output, nil
}
