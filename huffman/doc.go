// Package huffman implements the Huffman half of huffzip.
//
// Compression happens in four steps, each of which is exposed on its own:
//
//  1. [BuildFrequencyTable] counts how many times each byte value occurs.
//  2. [BuildTree] builds a prefix-free binary tree from those counts.
//  3. [GenerateCodes] walks the tree to derive one bit string per byte value.
//  4. [Encode] concatenates the bit strings for every byte of the input.
//
// [Decode] uses the tree itself as the decoding automaton: starting at the
// root, every 0 bit goes left and every 1 bit goes right, and reaching a leaf
// emits that leaf's byte and jumps back to the root. Decoding therefore needs
// the exact tree used for encoding, which is why [Artifact] carries it.
//
// Ties between equally weighted nodes are broken by insertion order, so the
// same input always produces the same tree, codes and output.
package huffman
