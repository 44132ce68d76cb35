package elf_decoder

// This file contains the file header decoder. The same code handles 32- and
// 64-bit headers; only the size of the address fields differs.

import (
	"fmt"
)

// The types usable as addresses and offsets. uint32 selects the 32-bit ELF
// layout and uint64 selects the 64-bit layout.
type Address interface {
	uint32 | uint64
}

// Fixed record sizes for one ELF class.
type layout struct {
	width       BitWidth
	headerSize  int
	segmentSize int
	sectionSize int
}

var (
	layout32 = layout{
		width:       Width32,
		headerSize:  52,
		segmentSize: 32,
		sectionSize: 40,
	}
	layout64 = layout{
		width:       Width64,
		headerSize:  64,
		segmentSize: 56,
		sectionSize: 64,
	}
)

func layoutOf[A Address]() *layout {
	var a A
	if _, ok := any(a).(uint32); ok {
		return &layout32
	}
	return &layout64
}

// The ELF file header. EntryPoint and the two table offsets are 4 bytes in
// 32-bit files and 8 bytes in 64-bit files.
type Header[A Address] struct {
	Ident                  Identification
	Type                   ELFFileType
	Machine                MachineType
	Version                FormatVersion
	EntryPoint             A
	ProgramHeaderOffset    A
	SectionHeaderOffset    A
	Flags                  uint32
	HeaderSize             uint16
	ProgramHeaderEntrySize uint16
	ProgramHeaderEntries   uint16
	SectionHeaderEntrySize uint16
	SectionHeaderEntries   uint16
	SectionNamesTable      uint16
}

func (h *Header[A]) String() string {
	return fmt.Sprintf("%s %s for %s, entry point 0x%x", h.Ident.Width,
		h.Type, h.Machine, h.EntryPoint)
}

// Decodes the file header at the start of raw, given the already parsed
// identification block. Fails if the file's class doesn't match A.
func decodeHeader[A Address](raw []byte, ident Identification) (Header[A],
	error) {
	var h Header[A]
	l := layoutOf[A]()
	if ident.Width != l.width {
		return Header[A]{}, fmt.Errorf("%w: expected a %s file, got %s",
			ErrUnsupportedBitWidth, l.width, ident.Width)
	}
	if len(raw) < l.headerSize {
		return Header[A]{}, fmt.Errorf("%w: %s header needs %d bytes, got %d",
			ErrTooSmallHeader, l.width, l.headerSize, len(raw))
	}
	c := newCursor(raw[:l.headerSize], identSize, ident.Order,
		ErrTooSmallHeader)
	h.Ident = ident
	h.Type = ELFFileType(c.uint16())
	if !h.Type.valid() {
		return Header[A]{}, fmt.Errorf("%w: %d", ErrUnsupportedFileType,
			uint16(h.Type))
	}
	h.Machine = MachineType(c.uint16())
	if !h.Machine.valid() {
		return Header[A]{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedMachineType,
			uint16(h.Machine))
	}
	h.Version = FormatVersion(c.uint32())
	if (h.Version != VersionNone) && (h.Version != VersionCurrent) {
		return Header[A]{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion,
			uint32(h.Version))
	}
	h.EntryPoint = readAddress[A](c)
	h.ProgramHeaderOffset = readAddress[A](c)
	h.SectionHeaderOffset = readAddress[A](c)
	h.Flags = c.uint32()
	h.HeaderSize = c.uint16()
	h.ProgramHeaderEntrySize = c.uint16()
	h.ProgramHeaderEntries = c.uint16()
	h.SectionHeaderEntrySize = c.uint16()
	h.SectionHeaderEntries = c.uint16()
	h.SectionNamesTable = c.uint16()
	// Only possible if the layout sizes are wrong.
	if c.err != nil {
		return Header[A]{}, c.err
	}
	return h, nil
}
