package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/huffzip"
	"github.com/icza/bitio"
)

// maxTreeDepth is the deepest a valid tree over 256 symbols can be.
const maxTreeDepth = 255

// MarshalBinary serializes the shape of the tree and its leaf symbols.
//
// Nodes are written in pre-order. Each node starts with one bit: 1 for a leaf,
// followed by its 8-bit symbol, or 0 for an internal node, followed by its left
// and then its right subtree. The last byte is padded with zero bits. Weights
// aren't stored since decoding doesn't need them.
func (t *Tree) MarshalBinary() ([]byte, error) {
	if t == nil || t.Len() == 0 {
		return nil, huffzip.ErrInvalidArgument.WithMessage("can't serialize an empty tree")
	}

	buffer := new(bytes.Buffer)
	writer := bitio.NewWriter(buffer)
	if err := t.writeNode(writer, t.root); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (t *Tree) writeNode(writer *bitio.Writer, id NodeID) error {
	node := t.nodes[id]
	if node.IsLeaf() {
		if err := writer.WriteBool(true); err != nil {
			return err
		}
		return writer.WriteByte(node.Symbol)
	}

	if err := writer.WriteBool(false); err != nil {
		return err
	}
	if err := t.writeNode(writer, node.Left); err != nil {
		return err
	}
	return t.writeNode(writer, node.Right)
}

// UnmarshalTree is the inverse of [Tree.MarshalBinary].
//
// Truncated data, trees with more than 256 leaves or a repeated symbol, and
// bytes left over after the tree all fail with [huffzip.ErrCorruptStream].
func UnmarshalTree(data []byte) (*Tree, error) {
	reader := bitio.NewReader(bytes.NewReader(data))
	tree := &Tree{nodes: make([]Node, 0, 64)}

	root, err := tree.readNode(reader, 0)
	if err != nil {
		return nil, err
	}
	tree.root = root

	reader.Align()
	if _, err = reader.ReadByte(); err == nil {
		return nil, huffzip.ErrCorruptStream.WithMessage("trailing data after tree")
	} else if !errors.Is(err, io.EOF) {
		return nil, huffzip.ErrCorruptStream.Wrap(err)
	}

	if err = tree.validate(); err != nil {
		return nil, err
	}
	return tree, nil
}

func (t *Tree) readNode(reader *bitio.Reader, depth int) (NodeID, error) {
	if depth > maxTreeDepth {
		return NoNode, huffzip.ErrCorruptStream.WithMessage(
			fmt.Sprintf("tree is deeper than %d levels", maxTreeDepth))
	}
	if len(t.nodes) >= 511 {
		return NoNode, huffzip.ErrCorruptStream.WithMessage("tree has more than 511 nodes")
	}

	isLeaf, err := reader.ReadBool()
	if err != nil {
		return NoNode, truncatedTreeError(err)
	}

	if isLeaf {
		symbol, err := reader.ReadByte()
		if err != nil {
			return NoNode, truncatedTreeError(err)
		}
		return t.addNode(Node{Symbol: symbol, Left: NoNode, Right: NoNode}), nil
	}

	// Reserve the slot first so the parent precedes its children in the arena.
	id := t.addNode(Node{Left: NoNode, Right: NoNode})
	left, err := t.readNode(reader, depth+1)
	if err != nil {
		return NoNode, err
	}
	right, err := t.readNode(reader, depth+1)
	if err != nil {
		return NoNode, err
	}

	t.nodes[id].Left = left
	t.nodes[id].Right = right
	return id, nil
}

func truncatedTreeError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return huffzip.ErrCorruptStream.WithMessage("tree data is truncated").Wrap(err)
}
