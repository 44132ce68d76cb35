package elf_decoder

// This file contains the definition for an ELF file interface that can be used
// to read either 32- or 64-bit ELF files, along with its implementation.

import (
	"fmt"
)

// This is a 32- or 64-bit agnostic way of reading an ELF file. If needed, one
// can use type assertions to convert instances of this interface into either
// *ELF64File or *ELF32File.
type ELFFile interface {
	// Returns the decoded identification block.
	Identification() Identification
	// Returns the object file type from the file header.
	FileType() ELFFileType
	// Returns the target machine from the file header.
	Machine() MachineType
	// Returns the entry point address, widened to 64 bits.
	EntryPoint() uint64
	// Returns the number of sections defined in the ELF file.
	GetSectionCount() int
	// Returns the number of segments (program headers) defined in the ELF
	// file.
	GetSegmentCount() int
	// Returns the name of the section at the given index.
	GetSectionName(index int) (string, error)
	// Returns the content of the section at the given index.
	GetSectionContent(index int) ([]byte, error)
	// Returns the part of the segment at the given index that is stored in
	// the file.
	GetSegmentContent(index int) ([]byte, error)
	// Returns an interface that can be used to access the header metadata for
	// the section at the given index.
	GetSectionHeader(index int) (ELFSectionHeader, error)
	// Returns an interface that can be used to access the header metadata for
	// the program header (segment) at the given index.
	GetProgramHeader(index int) (ELFProgramHeader, error)
	// Returns the index of the first section with the given name.
	SectionIndexByName(name string) (int, error)
	// Returns true if the section at the given index is a string table.
	IsStringTable(index int) bool
	// Returns a slice of strings from the string table in the given section
	// index.
	GetStringTable(index int) ([]string, error)
	// Returns the path in the interpreter segment, if there is one.
	Interpreter() (string, bool, error)
}

func (f *File[A]) Identification() Identification {
	return f.header.Ident
}

func (f *File[A]) FileType() ELFFileType {
	return f.header.Type
}

func (f *File[A]) Machine() MachineType {
	return f.header.Machine
}

func (f *File[A]) EntryPoint() uint64 {
	return uint64(f.header.EntryPoint)
}

func (f *File[A]) GetSectionCount() int {
	return len(f.sections)
}

func (f *File[A]) GetSegmentCount() int {
	return len(f.segments)
}

// The returned header is a copy; changing it doesn't affect the file.
func (f *File[A]) GetSectionHeader(index int) (ELFSectionHeader, error) {
	if (index < 0) || (index >= len(f.sections)) {
		return nil, fmt.Errorf("Invalid section index: %d", index)
	}
	h := f.sections[index]
	return &h, nil
}

// The returned header is a copy; changing it doesn't affect the file.
func (f *File[A]) GetProgramHeader(index int) (ELFProgramHeader, error) {
	if (index < 0) || (index >= len(f.segments)) {
		return nil, fmt.Errorf("Invalid segment index: %d", index)
	}
	h := f.segments[index]
	return &h, nil
}

// This is a 32- or 64-bit agnostic way of accessing an ELF section header.
type ELFSectionHeader interface {
	GetName() string
	GetType() SectionHeaderType
	GetFlags() SectionHeaderFlags
	GetVirtualAddress() uint64
	GetFileOffset() uint64
	GetSize() uint64
	GetLinkedIndex() uint32
	GetInfo() uint32
	GetAlignment() uint64
	GetEntrySize() uint64
	String() string
}

func (h *SectionHeader[A]) GetName() string {
	return h.Name
}

func (h *SectionHeader[A]) GetType() SectionHeaderType {
	return h.Type
}

func (h *SectionHeader[A]) GetFlags() SectionHeaderFlags {
	return h.Flags
}

func (h *SectionHeader[A]) GetVirtualAddress() uint64 {
	return uint64(h.VirtualAddress)
}

func (h *SectionHeader[A]) GetFileOffset() uint64 {
	return uint64(h.FileOffset)
}

func (h *SectionHeader[A]) GetSize() uint64 {
	return uint64(h.Size)
}

func (h *SectionHeader[A]) GetLinkedIndex() uint32 {
	return h.LinkedIndex
}

func (h *SectionHeader[A]) GetInfo() uint32 {
	return h.Info
}

func (h *SectionHeader[A]) GetAlignment() uint64 {
	return uint64(h.Align)
}

func (h *SectionHeader[A]) GetEntrySize() uint64 {
	return uint64(h.EntrySize)
}

// This is a 32- or 64-bit agnostic way of accessing an ELF program header.
type ELFProgramHeader interface {
	GetType() ProgramHeaderType
	GetFlags() ProgramHeaderFlags
	GetFileOffset() uint64
	GetVirtualAddress() uint64
	GetPhysicalAddress() uint64
	GetFileSize() uint64
	GetMemorySize() uint64
	GetAlignment() uint64
	String() string
}

func (h *ProgramHeader[A]) GetType() ProgramHeaderType {
	return h.Type
}

func (h *ProgramHeader[A]) GetFlags() ProgramHeaderFlags {
	return h.Flags
}

func (h *ProgramHeader[A]) GetFileOffset() uint64 {
	return uint64(h.FileOffset)
}

func (h *ProgramHeader[A]) GetVirtualAddress() uint64 {
	return uint64(h.VirtualAddress)
}

func (h *ProgramHeader[A]) GetPhysicalAddress() uint64 {
	return uint64(h.PhysicalAddress)
}

func (h *ProgramHeader[A]) GetFileSize() uint64 {
	return uint64(h.FileSize)
}

func (h *ProgramHeader[A]) GetMemorySize() uint64 {
	return uint64(h.MemorySize)
}

func (h *ProgramHeader[A]) GetAlignment() uint64 {
	return uint64(h.Align)
}

// This function parses any ELF file and returns an instance of the ELFFile
// interface if no errors occur. The identification block is read once here
// and decides which of the 32- or 64-bit decoders handles the rest.
func ParseELFFile(raw []byte) (ELFFile, error) {
	ident, e := ParseIdentification(raw)
	if e != nil {
		return nil, e
	}
	// Check the error before converting to the interface, so a failed parse
	// returns a nil ELFFile rather than a typed nil pointer.
	if ident.Width == Width32 {
		f, e := parseFile[uint32](raw, ident)
		if e != nil {
			return nil, e
		}
		return f, nil
	}
	f, e := parseFile[uint64](raw, ident)
	if e != nil {
		return nil, e
	}
	return f, nil
}
