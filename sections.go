package elf_decoder

// This file contains the section header table decoder, including section
// name resolution.

import (
	"fmt"
)

// Special section indices.
const (
	SectionIndexUndefined = 0
	SectionIndexExtended  = 0xffff
)

// A single section header. Name is filled in from the section names table;
// NameOffset is the raw offset into that table.
type SectionHeader[A Address] struct {
	Name           string
	NameOffset     uint32
	Type           SectionHeaderType
	Flags          SectionHeaderFlags
	VirtualAddress A
	FileOffset     A
	Size           A
	LinkedIndex    uint32
	Info           uint32
	Align          A
	EntrySize      A
}

func (h *SectionHeader[A]) String() string {
	return fmt.Sprintf("%s section. %d bytes at address 0x%x (offset 0x%x in "+
		"file). Linked to section %d. %s", h.Type, h.Size, h.VirtualAddress,
		h.FileOffset, h.LinkedIndex, h.Flags)
}

// Returns the section's bytes, or an error if they aren't all in raw.
// Sections that occupy no file space return an empty slice.
func (h *SectionHeader[A]) content(raw []byte) ([]byte, error) {
	if !h.Type.HasFileData() {
		return []byte{}, nil
	}
	start := uint64(h.FileOffset)
	size := uint64(h.Size)
	fileSize := uint64(len(raw))
	if (start > fileSize) || (size > (fileSize - start)) {
		return nil, fmt.Errorf("%w: %d bytes at offset 0x%x, file is %d "+
			"bytes", ErrSectionOutOfBounds, size, start, fileSize)
	}
	return raw[start : start+size], nil
}

func decodeSectionEntry[A Address](c *cursor) SectionHeader[A] {
	var s SectionHeader[A]
	s.NameOffset = c.uint32()
	s.Type = SectionHeaderType(c.uint32())
	s.Flags = SectionHeaderFlags(readAddress[A](c))
	s.VirtualAddress = readAddress[A](c)
	s.FileOffset = readAddress[A](c)
	s.Size = readAddress[A](c)
	s.LinkedIndex = c.uint32()
	s.Info = c.uint32()
	s.Align = readAddress[A](c)
	s.EntrySize = readAddress[A](c)
	return s
}

// Reads the real section count from the first entry when the header's count
// is 0 but a table is present.
func extendedSectionCount[A Address](raw []byte, h *Header[A]) (uint64,
	error) {
	l := layoutOf[A]()
	table, e := tableData(raw, "section header",
		uint64(h.SectionHeaderOffset), h.SectionHeaderEntrySize, 1,
		l.sectionSize, ErrTruncatedSectionHeaderTable)
	if e != nil {
		return 0, e
	}
	c := newCursor(table, 0, h.Ident.Order, ErrTruncatedSectionHeaderTable)
	first := decodeSectionEntry[A](c)
	if c.err != nil {
		return 0, c.err
	}
	return uint64(first.Size), nil
}

// Decodes the section header table described by h and resolves the name of
// every section.
func decodeSections[A Address](raw []byte, h *Header[A]) ([]SectionHeader[A],
	error) {
	l := layoutOf[A]()
	count := uint64(h.SectionHeaderEntries)
	if (count == 0) && (h.SectionHeaderOffset != 0) {
		var e error
		count, e = extendedSectionCount(raw, h)
		if e != nil {
			return nil, e
		}
	}
	table, e := tableData(raw, "section header",
		uint64(h.SectionHeaderOffset), h.SectionHeaderEntrySize, count,
		l.sectionSize, ErrTruncatedSectionHeaderTable)
	if e != nil {
		return nil, e
	}
	sections := make([]SectionHeader[A], count)
	entrySize := int(h.SectionHeaderEntrySize)
	for i := range sections {
		c := newCursor(table, i*entrySize, h.Ident.Order,
			ErrTruncatedSectionHeaderTable)
		sections[i] = decodeSectionEntry[A](c)
		if c.err != nil {
			return nil, c.err
		}
	}
	for i := range sections {
		if _, e = sections[i].content(raw); e != nil {
			return nil, fmt.Errorf("section %d: %w", i, e)
		}
	}
	e = resolveSectionNames(raw, h, sections)
	if e != nil {
		return nil, e
	}
	return sections, nil
}

// Returns the index of the section names table, following the extended
// numbering convention where the header field is too small to hold it.
func sectionNamesIndex[A Address](h *Header[A],
	sections []SectionHeader[A]) (uint64, error) {
	index := uint64(h.SectionNamesTable)
	if index != SectionIndexExtended {
		return index, nil
	}
	if len(sections) == 0 {
		return 0, fmt.Errorf("%w: extended index used without a section "+
			"table", ErrInvalidStringTableIndex)
	}
	return uint64(sections[0].LinkedIndex), nil
}

// Fills in the Name field of every section. Does nothing if the header
// doesn't name a section names table.
func resolveSectionNames[A Address](raw []byte, h *Header[A],
	sections []SectionHeader[A]) error {
	index, e := sectionNamesIndex(h, sections)
	if e != nil {
		return e
	}
	if index == SectionIndexUndefined {
		return nil
	}
	if index >= uint64(len(sections)) {
		return fmt.Errorf("%w: section %d requested, file has %d sections",
			ErrInvalidStringTableIndex, index, len(sections))
	}
	names := &(sections[index])
	if names.Type != StringTableSection {
		return fmt.Errorf("%w: section %d is a %s, not a string table",
			ErrInvalidStringTableIndex, index, names.Type)
	}
	// Already range checked in decodeSections.
	stringContent, e := names.content(raw)
	if e != nil {
		return e
	}
	for i := range sections {
		name, e := ReadStringAtOffset(sections[i].NameOffset, stringContent)
		if e != nil {
			return fmt.Errorf("name of section %d: %w", i, e)
		}
		sections[i].Name = string(name)
	}
	return nil
}
