// This package decodes 32- and 64-bit ELF files into validated, read-only
// structures.
package elf_decoder

import (
	"fmt"
	"strings"
)

// Tracks parsed data for an ELF file. A File is only ever returned fully
// decoded, and is never modified afterwards, so it may be shared between
// goroutines.
type File[A Address] struct {
	header   Header[A]
	segments []ProgramHeader[A]
	sections []SectionHeader[A]
	raw      []byte
}

type ELF32File = File[uint32]

type ELF64File = File[uint64]

// Returns a copy of the file header.
func (f *File[A]) Header() Header[A] {
	return f.header
}

// Returns a copy of the program headers, in file order.
func (f *File[A]) Segments() []ProgramHeader[A] {
	return append([]ProgramHeader[A](nil), f.segments...)
}

// Returns a copy of the section headers, in file order.
func (f *File[A]) Sections() []SectionHeader[A] {
	return append([]SectionHeader[A](nil), f.sections...)
}

// Returns the buffer the file was decoded from. Callers must not modify it.
func (f *File[A]) Raw() []byte {
	return f.raw
}

// Returns the bytes of the section at the given index, or an error if one
// occurs.
func (f *File[A]) GetSectionContent(sectionIndex int) ([]byte, error) {
	if (sectionIndex < 0) || (sectionIndex >= len(f.sections)) {
		return nil, fmt.Errorf("Invalid section index: %d", sectionIndex)
	}
	return f.sections[sectionIndex].content(f.raw)
}

// Returns the bytes of the segment at the given index that are present in
// the file.
func (f *File[A]) GetSegmentContent(segmentIndex int) ([]byte, error) {
	if (segmentIndex < 0) || (segmentIndex >= len(f.segments)) {
		return nil, fmt.Errorf("Invalid segment index: %d", segmentIndex)
	}
	s := &(f.segments[segmentIndex])
	start := uint64(s.FileOffset)
	size := uint64(s.FileSize)
	if (start > uint64(len(f.raw))) || (size > uint64(len(f.raw))-start) {
		return nil, fmt.Errorf("Bad file offset or size for segment %d",
			segmentIndex)
	}
	return f.raw[start : start+size], nil
}

// Returns the name of the section at the given index in the section table.
// Returns an empty string for every section if the file has no section names
// table.
func (f *File[A]) GetSectionName(sectionIndex int) (string, error) {
	if (sectionIndex < 0) || (sectionIndex >= len(f.sections)) {
		return "", fmt.Errorf("Invalid section index: %d", sectionIndex)
	}
	return f.sections[sectionIndex].Name, nil
}

// Returns the index of the first section with the given name, or an error if
// no such section exists.
func (f *File[A]) SectionIndexByName(name string) (int, error) {
	for i := range f.sections {
		if f.sections[i].Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("No section named %q", name)
}

// Returns true if the section at the given index is a string table.
func (f *File[A]) IsStringTable(sectionIndex int) bool {
	if (sectionIndex < 0) || (sectionIndex >= len(f.sections)) {
		return false
	}
	return f.sections[sectionIndex].Type == StringTableSection
}

// Returns a slice of strings contained in the string table section at the
// given index. This *includes* the first zero-length string.
func (f *File[A]) GetStringTable(sectionIndex int) ([]string, error) {
	if !f.IsStringTable(sectionIndex) {
		return nil, fmt.Errorf("Section %d is not a string table",
			sectionIndex)
	}
	content, e := f.GetSectionContent(sectionIndex)
	if e != nil {
		return nil, fmt.Errorf("Failed reading string table: %w", e)
	}
	if len(content) == 0 {
		return nil, nil
	}
	if content[len(content)-1] != 0 {
		return nil, fmt.Errorf("The string table wasn't null-terminated")
	}
	// Trim the last null byte from the table to avoid having an extra empty
	// string at the end.
	return strings.Split(string(content[:len(content)-1]), "\x00"), nil
}

// Returns the program interpreter path named by the file's interpreter
// segment. The second return value is false for files without one.
func (f *File[A]) Interpreter() (string, bool, error) {
	for i := range f.segments {
		if f.segments[i].Type != InterpreterSegment {
			continue
		}
		content, e := f.GetSegmentContent(i)
		if e != nil {
			return "", true, e
		}
		return strings.TrimRight(string(content), "\x00"), true, nil
	}
	return "", false, nil
}

// Decodes every part of the file in order: header, program headers, then
// section headers. The first error aborts decoding.
func parseFile[A Address](raw []byte, ident Identification) (*File[A],
	error) {
	header, e := decodeHeader[A](raw, ident)
	if e != nil {
		return nil, e
	}
	segments, e := decodeSegments(raw, &header)
	if e != nil {
		return nil, e
	}
	sections, e := decodeSections(raw, &header)
	if e != nil {
		return nil, e
	}
	return &File[A]{
		header:   header,
		segments: segments,
		sections: sections,
		raw:      raw,
	}, nil
}

// Parses a 32-bit ELF file. Returns an error wrapping ErrUnsupportedBitWidth
// if raw holds a 64-bit file.
func ParseELF32File(raw []byte) (*ELF32File, error) {
	ident, e := ParseIdentification(raw)
	if e != nil {
		return nil, e
	}
	return parseFile[uint32](raw, ident)
}

// Parses a 64-bit ELF file. Returns an error wrapping ErrUnsupportedBitWidth
// if raw holds a 32-bit file.
func ParseELF64File(raw []byte) (*ELF64File, error) {
	ident, e := ParseIdentification(raw)
	if e != nil {
		return nil, e
	}
	return parseFile[uint64](raw, ident)
}
