package huffzip

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is the error type returned throughout huffzip. Every one of them
// wraps one of the Err* sentinels below, so callers test for a kind of failure
// with [errors.Is].
type CodecError interface {
	error
	WithMessage(message string) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrEmptyInput is returned when a Huffman tree is requested for a block with
// no bytes in it. The codecs turn this into an empty artifact; callers of the
// lower-level engine see it directly.
var ErrEmptyInput = rootError.WithMessage("Input block is empty")

// ErrCorruptStream means the compressed data doesn't agree with itself, e.g. a
// bit stream that doesn't end on a leaf of its tree.
var ErrCorruptStream = rootError.WithMessage("Compressed stream is corrupt")

// ErrFormat means an artifact is missing a component the selected method
// needs, or its serialized form is malformed.
var ErrFormat = rootError.WithMessage("Malformed artifact")

// ErrUnsupportedMethod means a [Method] tag or name isn't one of [Methods].
var ErrUnsupportedMethod = rootError.WithMessage("Unsupported compression method")

// ErrInvalidArgument is caller misuse rather than bad data, like encoding a
// byte missing from the code table or asking for a negative block size.
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) RootCause() CodecError {
	return e
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return codecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) Wrap(err error) CodecError {
	return codecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type codecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e codecError) Error() string {
	return e.message
}

func (e codecError) WithMessage(message string) CodecError {
	return codecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e codecError) Wrap(err error) CodecError {
	return codecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e codecError) Unwrap() error {
	return e.originalError
}
