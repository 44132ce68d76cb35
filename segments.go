package elf_decoder

// This file contains the program header (segment) table decoder.

import (
	"fmt"
)

// A single program header. The order of the Flags field on disk differs
// between 32- and 64-bit files, but not here.
type ProgramHeader[A Address] struct {
	Type            ProgramHeaderType
	Flags           ProgramHeaderFlags
	FileOffset      A
	VirtualAddress  A
	PhysicalAddress A
	FileSize        A
	MemorySize      A
	Align           A
}

func (h *ProgramHeader[A]) String() string {
	return fmt.Sprintf("%s segment at address 0x%x (offset 0x%x in file). "+
		"%d bytes in memory, %d in the file, alignment 0x%x. %s", h.Type,
		h.VirtualAddress, h.FileOffset, h.MemorySize, h.FileSize, h.Align,
		h.Flags)
}

// Returns the part of raw covered by a table of count entries, each
// entrySize bytes, starting at offset. The whole range is checked here so
// that no entry needs its own check against the file size. An empty table
// always succeeds, regardless of its offset.
func tableData(raw []byte, what string, offset uint64, entrySize uint16,
	count uint64, recordSize int, truncated error) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	// A table that doesn't fit is reported as truncated even if its entry
	// size is also wrong.
	fileSize := uint64(len(raw))
	if (entrySize > 0) && ((offset > fileSize) ||
		(count > (fileSize-offset)/uint64(entrySize))) {
		return nil, fmt.Errorf("%w: %d entries of %d bytes at offset 0x%x, "+
			"file is %d bytes", truncated, count, entrySize, offset, fileSize)
	}
	if int(entrySize) < recordSize {
		return nil, fmt.Errorf("%w: %s entries are %d bytes, need at "+
			"least %d", ErrBadEntrySize, what, entrySize, recordSize)
	}
	return raw[offset : offset+count*uint64(entrySize)], nil
}

// Decodes the program header table described by h. Entries are returned in
// file order.
func decodeSegments[A Address](raw []byte, h *Header[A]) ([]ProgramHeader[A],
	error) {
	l := layoutOf[A]()
	count := int(h.ProgramHeaderEntries)
	table, e := tableData(raw, "program header",
		uint64(h.ProgramHeaderOffset), h.ProgramHeaderEntrySize,
		uint64(count), l.segmentSize, ErrTruncatedProgramHeaderTable)
	if e != nil {
		return nil, e
	}
	if count == 0 {
		return nil, nil
	}
	segments := make([]ProgramHeader[A], count)
	entrySize := int(h.ProgramHeaderEntrySize)
	for i := range segments {
		s := &(segments[i])
		c := newCursor(table, i*entrySize, h.Ident.Order,
			ErrTruncatedProgramHeaderTable)
		s.Type = ProgramHeaderType(c.uint32())
		if !s.Type.valid() {
			return nil, fmt.Errorf("%w: 0x%x in program header %d",
				ErrUnsupportedProgramHeaderType, uint32(s.Type), i)
		}
		// 64-bit entries store the flags right after the type, 32-bit
		// entries store them after the memory size.
		if l.width == Width64 {
			s.Flags = ProgramHeaderFlags(c.uint32())
		}
		s.FileOffset = readAddress[A](c)
		s.VirtualAddress = readAddress[A](c)
		s.PhysicalAddress = readAddress[A](c)
		s.FileSize = readAddress[A](c)
		s.MemorySize = readAddress[A](c)
		if l.width == Width32 {
			s.Flags = ProgramHeaderFlags(c.uint32())
		}
		s.Align = readAddress[A](c)
		if c.err != nil {
			return nil, c.err
		}
	}
	return segments, nil
}
