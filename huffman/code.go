package huffman

import (
	"fmt"
	"strings"

	"github.com/dargueta/huffzip"
)

// Code is the bit string assigned to a single byte value, first bit first.
// A 0 bit (false) means "go left" and a 1 bit (true) means "go right".
type Code []bool

// ParseCode converts a string of '0' and '1' characters to a [Code].
func ParseCode(s string) (Code, error) {
	code := make(Code, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			code[i] = true
		default:
			return nil, huffzip.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("invalid bit %q at position %d", c, i))
		}
	}
	return code, nil
}

// String returns the string representation of this Code.
func (c Code) String() string {
	var builder strings.Builder
	builder.Grow(len(c))
	for _, bit := range c {
		if bit {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// HasPrefix returns true if `prefix` is a prefix of c (or equal to it).
func (c Code) HasPrefix(prefix Code) bool {
	if len(prefix) > len(c) {
		return false
	}
	for i, bit := range prefix {
		if c[i] != bit {
			return false
		}
	}
	return true
}

var _ fmt.Stringer = Code{}

// CodeTable maps each byte value present in the input to its code.
type CodeTable map[byte]Code

// GenerateCodes derives the code table of a tree by recording the path from the
// root to every leaf.
//
// A tree with only one leaf would give that leaf an empty code, which can't be
// decoded, so it gets the code "0" instead.
func GenerateCodes(tree *Tree) CodeTable {
	root := tree.Node(tree.Root())
	if root.IsLeaf() {
		return CodeTable{root.Symbol: Code{false}}
	}

	type pending struct {
		id   NodeID
		path Code
	}

	codes := make(CodeTable, (tree.Len()+1)/2)
	stack := []pending{{id: tree.Root(), path: Code{}}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(current.id)
		if node.IsLeaf() {
			codes[node.Symbol] = current.path
			continue
		}

		// Push right first so the left subtree is visited first.
		stack = append(
			stack,
			pending{id: node.Right, path: extendPath(current.path, true)},
			pending{id: node.Left, path: extendPath(current.path, false)},
		)
	}
	return codes
}

func extendPath(path Code, bit bool) Code {
	extended := make(Code, len(path)+1)
	copy(extended, path)
	extended[len(path)] = bit
	return extended
}
