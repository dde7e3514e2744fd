package huffzip

import (
	"fmt"
	"strings"
)

// Method selects one of the two codecs. The zero value is not a valid method.
type Method byte

const (
	Huffman Method = iota + 1
	BWTPipeline
)

// Methods lists every method the codecs understand, in tag order.
var Methods = []Method{Huffman, BWTPipeline}

var methodNames = map[Method]string{
	Huffman:     "huffman",
	BWTPipeline: "bwt",
}

// Valid returns true if m is one of the known methods.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

func (m Method) String() string {
	name, ok := methodNames[m]
	if ok {
		return name
	}
	return fmt.Sprintf("method(%d)", byte(m))
}

// ParseMethod converts a method name as given on the command line to a
// [Method]. A few aliases are accepted for the BWT pipeline since users tend to
// call it "bzip2".
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "huffman", "huff":
		return Huffman, nil
	case "bwt", "bwt-pipeline", "bzip2", "bz2":
		return BWTPipeline, nil
	}
	return 0, ErrUnsupportedMethod.WithMessage(fmt.Sprintf("%q", name))
}

// CheckMethod returns an error wrapping [ErrUnsupportedMethod] if m isn't a
// known method.
func CheckMethod(m Method) error {
	if m.Valid() {
		return nil
	}
	return ErrUnsupportedMethod.WithMessage(m.String())
}
