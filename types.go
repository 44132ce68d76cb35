package elf_decoder

// This file contains the enumerated field types shared by 32- and 64-bit ELF
// files, along with the sets of values this package accepts.

import (
	"fmt"
	"strings"
)

const (
	ELFTypeNone        = 0
	// Code 1 is ET_REL. Some older decoders report it as "none"; it is kept
	// distinct here.
	ELFTypeRelocatable = 1
	ELFTypeExecutable  = 2
	ELFTypeShared      = 3
	ELFTypeCore        = 4
)

type ELFFileType uint16

func (t ELFFileType) valid() bool {
	return t <= ELFTypeCore
}

func (t ELFFileType) String() string {
	switch t {
	case ELFTypeNone:
		return "no file type"
	case ELFTypeRelocatable:
		return "relocatable file"
	case ELFTypeExecutable:
		return "executable file"
	case ELFTypeShared:
		return "shared file"
	case ELFTypeCore:
		return "core file"
	}
	return fmt.Sprintf("unkown ELF type: %d", uint16(t))
}

const (
	MachineTypeNone      = 0x00
	MachineTypeSPARC     = 0x02
	MachineTypeX86       = 0x03
	MachineType68K       = 0x04
	MachineType88K       = 0x05
	MachineType860       = 0x07
	MachineTypeMIPS      = 0x08
	MachineType960       = 0x13
	MachineTypePowerPC   = 0x14
	MachineTypePowerPC64 = 0x15
	MachineTypeS390      = 0x16
	MachineTypeARM       = 0x28
	MachineTypeSuperH    = 0x2a
	MachineTypeSPARCV9   = 0x2b
	MachineTypeIA64      = 0x32
	MachineTypeAMD64     = 0x3e
	MachineTypeARM64     = 0xb7
	MachineTypeRISCV     = 0xf3
	MachineTypeBPF       = 0xf7
	MachineTypeLoongArch = 0x102
)

type MachineType uint16

var machineNames = map[MachineType]string{
	MachineTypeNone:      "unspecified machine type",
	MachineTypeSPARC:     "SPARC",
	MachineTypeX86:       "x86",
	MachineType68K:       "Motorola 68000",
	MachineType88K:       "Motorola 88000",
	MachineType860:       "Intel i860",
	MachineTypeMIPS:      "MIPS",
	MachineType960:       "Intel i960",
	MachineTypePowerPC:   "PowerPC",
	MachineTypePowerPC64: "PowerPC64",
	MachineTypeS390:      "IBM S/390",
	MachineTypeARM:       "ARM",
	MachineTypeSuperH:    "SuperH",
	MachineTypeSPARCV9:   "SPARC v9",
	MachineTypeIA64:      "IA-64",
	MachineTypeAMD64:     "AMD64",
	MachineTypeARM64:     "ARM64",
	MachineTypeRISCV:     "RISC-V",
	MachineTypeBPF:       "BPF",
	MachineTypeLoongArch: "LoongArch",
}

func (t MachineType) valid() bool {
	_, ok := machineNames[t]
	return ok
}

func (t MachineType) String() string {
	if s, ok := machineNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown machine type: 0x%02x", uint16(t))
}

// The e_version field of the file header.
type FormatVersion uint32

const (
	VersionNone    FormatVersion = 0
	VersionCurrent FormatVersion = 1
)

func (v FormatVersion) String() string {
	switch v {
	case VersionNone:
		return "invalid version"
	case VersionCurrent:
		return "current version"
	}
	return fmt.Sprintf("unknown version: %d", uint32(v))
}

const (
	NullSegment                  = 0
	LoadableSegment              = 1
	DynamicLinkingSegment        = 2
	InterpreterSegment           = 3
	NoteSegment                  = 4
	ReservedSegment              = 5
	ProgramHeaderSegment         = 6
	ThreadLocalStorageSegment    = 7
	GNUExceptionFrameSegment     = 0x6474e550
	GNUStackSegment              = 0x6474e551
	GNUReadOnlyAfterRelocSegment = 0x6474e552
	GNUPropertySegment           = 0x6474e553
	GNUStackFrameSegment         = 0x6474e554
)

type ProgramHeaderType uint32

var segmentTypeNames = map[ProgramHeaderType]string{
	NullSegment:                  "unused segment",
	LoadableSegment:              "loadable segment",
	DynamicLinkingSegment:        "dynamic linking tables",
	InterpreterSegment:           "interpreter path name segment",
	NoteSegment:                  "note segment",
	ReservedSegment:              "reserved segment type",
	ProgramHeaderSegment:         "program header table",
	ThreadLocalStorageSegment:    "thread-local storage template",
	GNUExceptionFrameSegment:     "GNU exception frame header",
	GNUStackSegment:              "GNU stack flags",
	GNUReadOnlyAfterRelocSegment: "GNU read-only after relocation",
	GNUPropertySegment:           "GNU property notes",
	GNUStackFrameSegment:         "GNU SFrame stack trace info",
}

func (ht ProgramHeaderType) valid() bool {
	_, ok := segmentTypeNames[ht]
	return ok
}

func (ht ProgramHeaderType) String() string {
	if s, ok := segmentTypeNames[ht]; ok {
		return s
	}
	// Avoid printf recursion by explicitly casting this to a uint32
	t := uint32(ht)
	if t >= 0x80000000 {
		return fmt.Sprintf("invalid segment type: 0x%x", t)
	}
	if t >= 0x70000000 {
		return fmt.Sprintf("processor-specific segment: 0x%x", t)
	}
	if t >= 0x60000000 {
		return fmt.Sprintf("OS-specific segment: 0x%x", t)
	}
	return fmt.Sprintf("invalid segment type 0x%x", t)
}

const (
	SegmentExecutable = 1
	SegmentWritable   = 2
	SegmentReadable   = 4
)

// A set of segment permission bits. Any combination may be present.
type ProgramHeaderFlags uint32

func (t ProgramHeaderFlags) Executable() bool {
	return (t & SegmentExecutable) != 0
}

func (t ProgramHeaderFlags) Writable() bool {
	return (t & SegmentWritable) != 0
}

func (t ProgramHeaderFlags) Readable() bool {
	return (t & SegmentReadable) != 0
}

func (t ProgramHeaderFlags) String() string {
	var readStatus, writeStatus, execStatus string
	if !t.Executable() {
		execStatus = "not "
	}
	if !t.Writable() {
		writeStatus = "not "
	}
	if !t.Readable() {
		readStatus = "not "
	}
	return fmt.Sprintf("%sreadable, %swritable, %sexecutable", readStatus,
		writeStatus, execStatus)
}

// Returns the flags in the short "RWE" form used by readelf.
func (t ProgramHeaderFlags) Short() string {
	var b strings.Builder
	for _, c := range []struct {
		set  bool
		mark byte
	}{
		{t.Readable(), 'R'},
		{t.Writable(), 'W'},
		{t.Executable(), 'E'},
	} {
		if c.set {
			b.WriteByte(c.mark)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

const (
	NullSection                = 0
	BitsSection                = 1
	SymbolTableSection         = 2
	StringTableSection         = 3
	RelaSection                = 4
	HashSection                = 5
	DynamicLinkingTableSection = 6
	NoteSection                = 7
	UninitializedSection       = 8
	RelSection                 = 9
	ReservedSection            = 10
	DynamicLoaderSymbolSection = 11
	InitArraySection           = 14
	FiniArraySection           = 15
	PreinitArraySection        = 16
	GroupSection               = 17
	ExtendedIndexSection       = 18
)

// Section types are not a closed set: unknown values are kept and reported by
// range.
type SectionHeaderType uint32

var sectionTypeNames = map[SectionHeaderType]string{
	NullSection:                "unused section",
	BitsSection:                "bits section",
	SymbolTableSection:         "symbol table",
	StringTableSection:         "string table",
	RelaSection:                "relocation entries with addends",
	HashSection:                "symbol hash table",
	DynamicLinkingTableSection: "dynamic linking table",
	NoteSection:                "note section",
	UninitializedSection:       "uninitialized memory",
	RelSection:                 "relocation entries",
	ReservedSection:            "reserved section",
	DynamicLoaderSymbolSection: "dynamic loader symbol table",
	InitArraySection:           "constructor array",
	FiniArraySection:           "destructor array",
	PreinitArraySection:        "pre-constructor array",
	GroupSection:               "section group",
	ExtendedIndexSection:       "extended section indices",
}

func (ht SectionHeaderType) String() string {
	if s, ok := sectionTypeNames[ht]; ok {
		return s
	}
	// Like ProgramHeaderType, prevent printf recursion.
	t := uint32(ht)
	if t >= 0x80000000 {
		return fmt.Sprintf("invalid section type: 0x%x", t)
	}
	if t >= 0x70000000 {
		return fmt.Sprintf("processor-specific section type: 0x%x", t)
	}
	if t >= 0x60000000 {
		return fmt.Sprintf("OS-specific section type: 0x%x", t)
	}
	return fmt.Sprintf("invalid section type: 0x%x", t)
}

// Returns false for section types that occupy no space in the file.
func (ht SectionHeaderType) HasFileData() bool {
	return (ht != NullSection) && (ht != UninitializedSection)
}

// Section flags. The field is 4 bytes in 32-bit files and 8 bytes in 64-bit
// files; both are widened to 64 bits here.
type SectionHeaderFlags uint64

func (f SectionHeaderFlags) Writable() bool {
	return (f & 1) != 0
}

func (f SectionHeaderFlags) Allocated() bool {
	return (f & 2) != 0
}

func (f SectionHeaderFlags) Executable() bool {
	return (f & 4) != 0
}

func (f SectionHeaderFlags) String() string {
	var writeStatus, allocStatus, execStatus string
	if !f.Writable() {
		writeStatus = "not "
	}
	if !f.Allocated() {
		allocStatus = "not "
	}
	if !f.Executable() {
		execStatus = "not "
	}
	return fmt.Sprintf("%swritable, %sallocated, %sexecutable", writeStatus,
		allocStatus, execStatus)
}
