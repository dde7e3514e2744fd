package huffzip_test

import (
	"testing"

	"github.com/dargueta/huffzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		Name     string
		Expected huffzip.Method
	}{
		{"huffman", huffzip.Huffman},
		{"Huffman", huffzip.Huffman},
		{" huff ", huffzip.Huffman},
		{"bwt", huffzip.BWTPipeline},
		{"bzip2", huffzip.BWTPipeline},
		{"BWT-Pipeline", huffzip.BWTPipeline},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			method, err := huffzip.ParseMethod(test.Name)
			require.NoError(t, err)
			assert.Equal(t, test.Expected, method)
		})
	}
}

func TestParseMethod__Unknown(t *testing.T) {
	_, err := huffzip.ParseMethod("brotli")
	assert.ErrorIs(t, err, huffzip.ErrUnsupportedMethod)
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "huffman", huffzip.Huffman.String())
	assert.Equal(t, "bwt", huffzip.BWTPipeline.String())
	assert.Equal(t, "method(0)", huffzip.Method(0).String())

	for _, method := range huffzip.Methods {
		parsed, err := huffzip.ParseMethod(method.String())
		require.NoError(t, err)
		assert.Equal(t, method, parsed)
	}
}

func TestCheckMethod(t *testing.T) {
	assert.NoError(t, huffzip.CheckMethod(huffzip.Huffman))
	assert.NoError(t, huffzip.CheckMethod(huffzip.BWTPipeline))
	assert.ErrorIs(t, huffzip.CheckMethod(0), huffzip.ErrUnsupportedMethod)
	assert.ErrorIs(t, huffzip.CheckMethod(77), huffzip.ErrUnsupportedMethod)
}
