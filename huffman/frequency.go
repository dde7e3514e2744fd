package huffman

// FrequencyTable maps each byte value to the number of times it occurs in a
// block. It's a value type, so a table can't be modified once it's been handed
// off.
type FrequencyTable [256]uint64

// BuildFrequencyTable counts the occurrences of each byte value in block.
func BuildFrequencyTable(block []byte) FrequencyTable {
	var table FrequencyTable
	for _, b := range block {
		table[b]++
	}
	return table
}

// Count returns the number of times b occurred.
func (t FrequencyTable) Count(b byte) uint64 {
	return t[b]
}

// Total returns the sum of all counts, i.e. the length of the block the table
// was built from.
func (t FrequencyTable) Total() uint64 {
	total := uint64(0)
	for _, count := range t {
		total += count
	}
	return total
}

// Symbols returns the byte values with a non-zero count, in ascending order.
func (t FrequencyTable) Symbols() []byte {
	symbols := make([]byte, 0, 256)
	for i, count := range t {
		if count > 0 {
			symbols = append(symbols, byte(i))
		}
	}
	return symbols
}

// Distinct returns the number of byte values with a non-zero count.
func (t FrequencyTable) Distinct() int {
	n := 0
	for _, count := range t {
		if count > 0 {
			n++
		}
	}
	return n
}
