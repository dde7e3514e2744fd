// Package bwt implements the Burrows-Wheeler transform over whole blocks.
//
// The forward transform conceptually sorts every cyclic rotation of the block
// and keeps the last byte of each. The rotations are never materialized; they're
// ranked by prefix doubling, so memory stays linear in the block size.
package bwt

import (
	"fmt"
	"sort"

	"github.com/dargueta/huffzip"
)

// Forward returns the last column of the sorted rotation matrix of `block`, and
// the row at which the unrotated block appears in it. Rotations that compare
// equal (which only happens for periodic blocks) are ordered by their starting
// offset.
//
// The original index is required to invert the transform. It's -1 for an empty
// block.
func Forward(block []byte) (lastColumn []byte, originalIndex int) {
	n := len(block)
	if n == 0 {
		return []byte{}, -1
	}

	order := sortRotations(block)
	lastColumn = make([]byte, n)
	for row, start := range order {
		if start == 0 {
			originalIndex = row
			lastColumn[row] = block[n-1]
		} else {
			lastColumn[row] = block[start-1]
		}
	}
	return lastColumn, originalIndex
}

// sortRotations returns the starting offsets of every rotation of block, in
// sorted order.
//
// Each pass sorts by the pair (rank of the first k bytes, rank of the next k
// bytes), which yields the ranks of the first 2k bytes. After the pass where
// 2k >= n, ranks cover whole rotations; equal ranks then mean equal rotations,
// and those are left ordered by offset.
func sortRotations(block []byte) []int {
	n := len(block)
	order := make([]int, n)
	rank := make([]int, n)
	nextRank := make([]int, n)
	for i, b := range block {
		order[i] = i
		rank[i] = int(b)
	}

	for k := 1; ; k *= 2 {
		second := func(i int) int {
			return rank[(i+k)%n]
		}
		sort.Slice(order, func(a, b int) bool {
			x, y := order[a], order[b]
			if rank[x] != rank[y] {
				return rank[x] < rank[y]
			}
			if second(x) != second(y) {
				return second(x) < second(y)
			}
			return x < y
		})

		nextRank[order[0]] = 0
		for i := 1; i < n; i++ {
			previous, current := order[i-1], order[i]
			nextRank[current] = nextRank[previous]
			if rank[previous] != rank[current] || second(previous) != second(current) {
				nextRank[current]++
			}
		}
		rank, nextRank = nextRank, rank

		if rank[order[n-1]] == n-1 || 2*k >= n {
			break
		}
	}
	return order
}

// Inverse reconstructs the block from the output of [Forward].
//
// A stable counting sort of the last column gives the first column; linking
// each first-column byte to the same occurrence in the last column lets us walk
// the rotations one byte at a time, starting from the original row.
func Inverse(lastColumn []byte, originalIndex int) ([]byte, error) {
	n := len(lastColumn)
	if n == 0 {
		return []byte{}, nil
	}
	if originalIndex < 0 || originalIndex >= n {
		return nil, huffzip.ErrFormat.WithMessage(
			fmt.Sprintf("original index %d not in [0, %d)", originalIndex, n))
	}

	var starts [256]int
	for _, b := range lastColumn {
		starts[b]++
	}
	sum := 0
	for i, count := range starts {
		starts[i] = sum
		sum += count
	}

	next := make([]int, n)
	for i, b := range lastColumn {
		next[starts[b]] = i
		starts[b]++
	}

	block := make([]byte, n)
	position := next[originalIndex]
	for i := range block {
		block[i] = lastColumn[position]
		position = next[position]
	}
	return block, nil
}
