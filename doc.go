// Package huffzip is a small lossless compressor with two interchangeable
// codecs: a Huffman coder working on raw byte frequencies, and a simplified
// bzip2-style pipeline that runs a Burrows-Wheeler transform, then move-to-front,
// then run-length encoding.
//
// This package only holds what every other package shares: the [Method]
// selector and the error values. The entry points live in the codec package:
//
//	artifact, err := codec.Compress(data, huffzip.Huffman)
//	...
//	data, err = codec.Decompress(artifact, huffzip.Huffman)
//
// Larger inputs should go through the container package, which splits the
// input into fixed-size blocks and writes one artifact per block.
package huffzip
