package huffman

import (
	"fmt"
	"sort"

	"github.com/dargueta/huffzip"
)

// NodeID is the index of a node in its tree's arena.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = -1

// Node is a single node of a Huffman tree. Leaves have no children and carry a
// symbol; internal nodes always have exactly two children.
type Node struct {
	// Weight is the total frequency of every leaf under this node. Trees read
	// back with [UnmarshalTree] don't record weights, so it's 0 for those.
	Weight uint64
	// Symbol is the byte value of a leaf. It's meaningless for internal nodes.
	Symbol byte
	Left   NodeID
	Right  NodeID
}

// IsLeaf returns true if the node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// Tree is a Huffman tree stored as an arena of nodes addressed by index.
type Tree struct {
	nodes []Node
	root  NodeID
}

// Root returns the ID of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns a copy of the node with the given ID.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Leaves returns the number of leaf nodes in the tree.
func (t *Tree) Leaves() int {
	n := 0
	for _, node := range t.nodes {
		if node.IsLeaf() {
			n++
		}
	}
	return n
}

func (t *Tree) addNode(node Node) NodeID {
	t.nodes = append(t.nodes, node)
	return NodeID(len(t.nodes) - 1)
}

// BuildTree creates a Huffman tree from a frequency table.
//
// It uses the two-queue construction: leaves sorted by weight go in one queue,
// merged nodes go in the other as they're created, which keeps both queues
// sorted without a heap. On equal weights the node that was inserted first is
// taken first. Leaves are inserted in ascending byte order before any merged
// node exists, so the result is fully determined by the table. The first node
// taken becomes the left child of the merged node.
//
// An empty table fails with [huffzip.ErrEmptyInput]. A table with one distinct
// byte gives a tree with a single leaf as its root.
func BuildTree(table FrequencyTable) (*Tree, error) {
	distinct := table.Distinct()
	if distinct == 0 {
		return nil, huffzip.ErrEmptyInput.WithMessage("can't build a tree without symbols")
	}

	tree := &Tree{nodes: make([]Node, 0, 2*distinct-1)}
	leaves := make([]NodeID, 0, distinct)
	for _, symbol := range table.Symbols() {
		id := tree.addNode(
			Node{Weight: table[symbol], Symbol: symbol, Left: NoNode, Right: NoNode})
		leaves = append(leaves, id)
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		return tree.nodes[leaves[i]].Weight < tree.nodes[leaves[j]].Weight
	})

	merged := make([]NodeID, 0, distinct-1)
	nextLeaf := 0
	nextMerged := 0

	takeLightest := func() NodeID {
		if nextLeaf < len(leaves) {
			if nextMerged >= len(merged) ||
				tree.nodes[leaves[nextLeaf]].Weight <= tree.nodes[merged[nextMerged]].Weight {
				nextLeaf++
				return leaves[nextLeaf-1]
			}
		}
		nextMerged++
		return merged[nextMerged-1]
	}

	for (len(leaves)-nextLeaf)+(len(merged)-nextMerged) > 1 {
		left := takeLightest()
		right := takeLightest()
		id := tree.addNode(
			Node{
				Weight: tree.nodes[left].Weight + tree.nodes[right].Weight,
				Left:   left,
				Right:  right,
			})
		merged = append(merged, id)
	}

	if len(merged) == 0 {
		tree.root = leaves[0]
	} else {
		tree.root = merged[len(merged)-1]
	}
	return tree, nil
}

// validate checks that the tree is a strict binary tree reachable from its
// root, with no node visited twice and no symbol on more than one leaf.
func (t *Tree) validate() error {
	if len(t.nodes) == 0 {
		return huffzip.ErrCorruptStream.WithMessage("tree has no nodes")
	}
	if t.root < 0 || int(t.root) >= len(t.nodes) {
		return huffzip.ErrCorruptStream.WithMessage(
			fmt.Sprintf("root %d not in [0, %d)", t.root, len(t.nodes)))
	}

	visited := make([]bool, len(t.nodes))
	var seenSymbols [256]bool
	stack := []NodeID{t.root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			return huffzip.ErrCorruptStream.WithMessage(
				fmt.Sprintf("node %d is reachable more than once", id))
		}
		visited[id] = true

		node := t.nodes[id]
		if node.IsLeaf() {
			if seenSymbols[node.Symbol] {
				return huffzip.ErrCorruptStream.WithMessage(
					fmt.Sprintf("symbol %#02x appears on more than one leaf", node.Symbol))
			}
			seenSymbols[node.Symbol] = true
			continue
		}

		for _, child := range []NodeID{node.Left, node.Right} {
			if child < 0 || int(child) >= len(t.nodes) {
				return huffzip.ErrCorruptStream.WithMessage(
					fmt.Sprintf("node %d is missing a child", id))
			}
			stack = append(stack, child)
		}
	}
	return nil
}
