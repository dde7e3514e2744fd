// Package rle provides the run-length stage of the BWT pipeline.
//
// After the Burrows-Wheeler and move-to-front transforms, the index stream is
// dominated by long runs of zeros. This stage collapses each run of equal values
// into a single (value, count) pair, a [Run]:
//
//	0 0 0 2 2 1
//	(0, 3) (2, 2) (1, 1)
//
// Runs are produced greedily, so no run has a count of zero and two adjacent
// runs only share a value if a stretch longer than [MaxRunLength] had to be
// split.
//
// There's no escape byte. When serialized with [WriteRuns] each run is the
// value byte followed by the count in ULEB128, so even a megabyte of zeros
// costs only a handful of bytes, and a run of one costs two.
package rle
