package elf_decoder

// This file contains utility functions which aren't associated with specific
// ELF structures.

import (
	"fmt"
)

// Returns a string starting at the offset in the data, or an error if the
// offset is invalid or the string isn't terminated. This can be used to
// extract strings from string table content. The errors wrap
// ErrInvalidStringTableIndex.
func ReadStringAtOffset(offset uint32, data []byte) ([]byte, error) {
	if uint64(offset) >= uint64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d in a %d-byte string table",
			ErrInvalidStringTableIndex, offset, len(data))
	}
	endIndex := offset
	for data[endIndex] != 0 {
		endIndex++
		if uint64(endIndex) >= uint64(len(data)) {
			return nil, fmt.Errorf("%w: unterminated string starting at "+
				"offset %d", ErrInvalidStringTableIndex, offset)
		}
	}
	return data[offset:endIndex], nil
}
