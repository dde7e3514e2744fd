package rle

import (
	"bufio"
	"io"
	"math"
)

// Run is a value and the number of consecutive times it occurs. A valid run has
// a Count of at least 1.
type Run struct {
	Value byte
	Count int
}

// InvalidRun is what [Grouper.NextRun] returns along with an error.
var InvalidRun = Run{}

// MaxRunLength is the longest run a [Grouper] emits. Longer stretches of one
// value are split into several runs, so every run survives [ReadRuns].
const MaxRunLength = math.MaxInt32

// Grouper splits a stream of values into runs.
type Grouper struct {
	input    io.ByteScanner
	maxCount int
	offset   int64
}

// NewGrouper creates a Grouper reading from `input`. Readers that can't unread
// a byte are wrapped in a [bufio.Reader].
func NewGrouper(input io.Reader) *Grouper {
	return newGrouper(input, MaxRunLength)
}

func newGrouper(input io.Reader, maxCount int) *Grouper {
	scanner, ok := input.(io.ByteScanner)
	if !ok {
		scanner = bufio.NewReader(input)
	}
	return &Grouper{input: scanner, maxCount: maxCount}
}

// Offset returns the number of values consumed so far.
func (g *Grouper) Offset() int64 {
	return g.offset
}

// NextRun returns the next run in the stream, or [InvalidRun] and [io.EOF] once
// it's exhausted. Any other error comes from the underlying reader.
func (g *Grouper) NextRun() (Run, error) {
	value, err := g.input.ReadByte()
	if err != nil {
		return InvalidRun, err
	}

	run := Run{Value: value, Count: 1}
	for run.Count < g.maxCount {
		next, err := g.input.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return InvalidRun, err
		}

		if next != value {
			if err = g.input.UnreadByte(); err != nil {
				return InvalidRun, err
			}
			break
		}
		run.Count++
	}

	g.offset += int64(run.Count)
	return run, nil
}

// ReadAll collects the remaining runs. Reaching EOF isn't an error.
func (g *Grouper) ReadAll() ([]Run, error) {
	runs := []Run{}
	for {
		run, err := g.NextRun()
		if err == io.EOF {
			return runs, nil
		} else if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
}
