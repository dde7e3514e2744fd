package huffman_test

import (
	"testing"

	"github.com/dargueta/huffzip"
	"github.com/dargueta/huffzip/huffman"
	hztest "github.com/dargueta/huffzip/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodes__SingleSymbol(t *testing.T) {
	codes := huffman.GenerateCodes(mustBuildTree(t, []byte("aaaa")))
	require.Len(t, codes, 1)
	assert.Equal(t, "0", codes[0x61].String())
}

// Known distribution: with weights a=5, b=2, r=2, c=1, d=1 the lengths must be
// the optimal ones for this table.
func TestGenerateCodes__Lengths(t *testing.T) {
	block := []byte("abracadabra")
	codes := huffman.GenerateCodes(mustBuildTree(t, block))
	table := huffman.BuildFrequencyTable(block)

	totalBits := 0
	for symbol, code := range codes {
		totalBits += len(code) * int(table.Count(symbol))
	}
	assert.Equal(t, 23, totalBits)
	assert.Len(t, codes['a'], 1)
}

func TestGenerateCodes__PrefixFree(t *testing.T) {
	inputs := map[string][]byte{
		"two symbols": []byte("ab"),
		"skewed":      []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaabbbbbbbbbbbbbbbccccccdde"),
		"fibonacci":   fibonacciBlock(),
		"text":        []byte("It was the best of times, it was the worst of times."),
		"random":      hztest.RandomBlock(t, 4096),
	}

	for name, block := range inputs {
		t.Run(name, func(t *testing.T) {
			codes := huffman.GenerateCodes(mustBuildTree(t, block))
			assert.Equal(t, huffman.BuildFrequencyTable(block).Distinct(), len(codes))
			assertPrefixFree(t, codes)
		})
	}
}

func TestParseCode(t *testing.T) {
	code, err := huffman.ParseCode("0110")
	require.NoError(t, err)
	assert.Equal(t, huffman.Code{false, true, true, false}, code)
	assert.Equal(t, "0110", code.String())

	_, err = huffman.ParseCode("01x")
	assert.ErrorIs(t, err, huffzip.ErrInvalidArgument)
}

func TestCodeHasPrefix(t *testing.T) {
	code, _ := huffman.ParseCode("1101")
	short, _ := huffman.ParseCode("11")
	other, _ := huffman.ParseCode("10")
	long, _ := huffman.ParseCode("11010")

	assert.True(t, code.HasPrefix(short))
	assert.True(t, code.HasPrefix(code))
	assert.False(t, code.HasPrefix(other))
	assert.False(t, code.HasPrefix(long))
}

////////////////////////////////////////////////////////////////////////////////
// Helper functions

// assertPrefixFree checks every pair of codes.
func assertPrefixFree(t *testing.T, codes huffman.CodeTable) {
	for a, codeA := range codes {
		assert.NotEmpty(t, codeA, "code for %#02x is empty", a)
		for b, codeB := range codes {
			if a == b {
				continue
			}
			assert.False(
				t,
				codeA.HasPrefix(codeB),
				"code %s for %#02x starts with code %s for %#02x",
				codeA,
				a,
				codeB,
				b)
		}
	}
}

// fibonacciBlock produces frequencies that give the deepest possible tree for
// its alphabet size.
func fibonacciBlock() []byte {
	block := []byte{}
	a, b := 1, 1
	for symbol := 0; symbol < 16; symbol++ {
		for i := 0; i < a; i++ {
			block = append(block, byte(symbol))
		}
		a, b = b, a+b
	}
	return block
}
