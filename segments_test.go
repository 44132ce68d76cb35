package elf_decoder

import (
	"errors"
	"testing"
)

// Returns a builder for a dynamically-linked 64-bit executable with the 13
// program headers a typical linker emits.
func dynamicTestELF() *testELF {
	b := defaultTestELF()
	b.abi = uint8(ABISystemV)
	interp := []byte("/lib64/ld-linux-x86-64.so.2\x00")
	b.sections = append([]testSection{
		{
			name:  ".interp",
			typ:   BitsSection,
			flags: 2,
			addr:  0x318,
			data:  interp,
			align: 1,
		},
	}, b.sections...)
	b.sections = append(b.sections, testSection{
		name:  ".bss",
		typ:   UninitializedSection,
		flags: 3,
		addr:  0x4000,
		data:  make([]byte, 0x100),
		align: 32,
	})
	phdrSize := uint64(13 * 56)
	b.segments = []testSegment{
		{typ: ProgramHeaderSegment, flags: SegmentReadable, offset: 64,
			vaddr: 64, paddr: 64, filesz: phdrSize, memsz: phdrSize,
			align: 8},
		{typ: InterpreterSegment, flags: SegmentReadable,
			section: ".interp", vaddr: 0x318, paddr: 0x318,
			memsz: uint64(len(interp)), align: 1},
		{typ: LoadableSegment, flags: SegmentReadable, vaddr: 0,
			filesz: 0x600, memsz: 0x600, align: 0x1000},
		{typ: LoadableSegment, flags: SegmentReadable | SegmentExecutable,
			offset: 0x1000, vaddr: 0x1000, align: 0x1000},
		{typ: LoadableSegment, flags: SegmentReadable, offset: 0x2000,
			vaddr: 0x2000, align: 0x1000},
		{typ: LoadableSegment, flags: SegmentReadable | SegmentWritable,
			offset: 0x2df0, vaddr: 0x3df0, memsz: 0x300, align: 0x1000},
		{typ: DynamicLinkingSegment,
			flags: SegmentReadable | SegmentWritable, align: 8},
		{typ: NoteSegment, flags: SegmentReadable, align: 8},
		{typ: NoteSegment, flags: SegmentReadable, align: 4},
		{typ: GNUPropertySegment, flags: SegmentReadable, align: 8},
		{typ: GNUExceptionFrameSegment, flags: SegmentReadable, align: 4},
		{typ: GNUStackSegment, flags: SegmentReadable | SegmentWritable,
			align: 16},
		{typ: GNUReadOnlyAfterRelocSegment, flags: SegmentReadable,
			align: 1},
	}
	return b
}

func TestDynamicExecutable64(t *testing.T) {
	b := dynamicTestELF()
	raw := b.build()
	f, e := ParseELFFile(raw)
	if e != nil {
		t.Logf("Failed parsing dynamic executable: %s\n", e)
		t.FailNow()
	}
	if f.FileType() != ELFTypeShared {
		t.Logf("Expected a shared object, got %s\n", f.FileType())
		t.Fail()
	}
	if f.Machine() != MachineTypeAMD64 {
		t.Logf("Expected x86-64, got %s\n", f.Machine())
		t.Fail()
	}
	f64 := f.(*ELF64File)
	h := f64.Header()
	if (h.ProgramHeaderOffset != 64) || (h.ProgramHeaderEntrySize != 56) {
		t.Logf("Bad program header table fields: %+v\n", h)
		t.Fail()
	}
	segments := f64.Segments()
	if len(segments) != 13 {
		t.Logf("Expected 13 segments, got %d\n", len(segments))
		t.FailNow()
	}
	for i := range segments {
		t.Logf("Segment %d: %s\n", i, &(segments[i]))
		if segments[i].Type != ProgramHeaderType(b.segments[i].typ) {
			t.Logf("Segment %d out of order: got %s\n", i, segments[i].Type)
			t.Fail()
		}
		if segments[i].Flags != ProgramHeaderFlags(b.segments[i].flags) {
			t.Logf("Segment %d has flags %s\n", i, segments[i].Flags)
			t.Fail()
		}
	}
	text := segments[3]
	if !text.Flags.Executable() || text.Flags.Writable() ||
		!text.Flags.Readable() {
		t.Logf("Bad text segment flags: %s\n", text.Flags)
		t.Fail()
	}
	if text.Flags.Short() != "R E" {
		t.Logf("Bad short flags: %q\n", text.Flags.Short())
		t.Fail()
	}
	if (segments[5].VirtualAddress != 0x3df0) ||
		(segments[5].MemorySize != 0x300) ||
		(segments[5].Align != 0x1000) {
		t.Logf("Bad data segment: %s\n", &(segments[5]))
		t.Fail()
	}
	interp, found, e := f.Interpreter()
	if e != nil {
		t.Logf("Failed reading interpreter: %s\n", e)
		t.FailNow()
	}
	if !found || (interp != "/lib64/ld-linux-x86-64.so.2") {
		t.Logf("Bad interpreter: %q (found = %v)\n", interp, found)
		t.Fail()
	}
}

// 32-bit program headers store the flags after the memory size instead of
// after the type. Check the decoder reads them from the right place.
func TestSegmentFlagsPosition32(t *testing.T) {
	b := defaultTestELF()
	b.width = Width32
	b.machine = MachineTypeARM
	b.segments = []testSegment{
		{typ: LoadableSegment, flags: SegmentReadable | SegmentExecutable,
			offset: 0x11, vaddr: 0x22, paddr: 0x33, filesz: 0x44,
			memsz: 0x55, align: 0x66},
	}
	raw := b.build()
	// Type, offset, vaddr, paddr, filesz, memsz, flags, align.
	if v := LittleEndian.Uint32(raw[52+24:]); v != 5 {
		t.Logf("Test builder put flags in the wrong place: %d\n", v)
		t.FailNow()
	}
	f, e := ParseELF32File(raw)
	if e != nil {
		t.Logf("Failed parsing 32-bit file: %s\n", e)
		t.FailNow()
	}
	s := f.Segments()[0]
	if (s.Flags != 5) || (s.FileOffset != 0x11) ||
		(s.VirtualAddress != 0x22) || (s.PhysicalAddress != 0x33) ||
		(s.FileSize != 0x44) || (s.MemorySize != 0x55) || (s.Align != 0x66) {
		t.Logf("Bad 32-bit segment: %+v\n", s)
		t.Fail()
	}
}

func TestSegmentFlagsPosition64BigEndian(t *testing.T) {
	b := defaultTestELF()
	b.order = BigEndian
	b.machine = MachineTypePowerPC64
	b.segments = []testSegment{
		{typ: LoadableSegment, flags: SegmentReadable | SegmentWritable,
			offset: 0x11, vaddr: 0x22, paddr: 0x33, filesz: 0x44,
			memsz: 0x55, align: 0x10000},
	}
	raw := b.build()
	if v := BigEndian.Uint32(raw[64+4:]); v != 6 {
		t.Logf("Test builder put flags in the wrong place: %d\n", v)
		t.FailNow()
	}
	f, e := ParseELF64File(raw)
	if e != nil {
		t.Logf("Failed parsing 64-bit big-endian file: %s\n", e)
		t.FailNow()
	}
	s := f.Segments()[0]
	if (s.Flags != 6) || (s.FileOffset != 0x11) || (s.MemorySize != 0x55) ||
		(s.Align != 0x10000) {
		t.Logf("Bad 64-bit big-endian segment: %+v\n", s)
		t.Fail()
	}
}

func TestTruncatedProgramHeaderTable(t *testing.T) {
	for _, width := range []BitWidth{Width32, Width64} {
		b := dynamicTestELF()
		b.width = width
		raw := b.build()
		fields := fieldsFor(width)
		// Claim far more entries than the file can hold.
		patch16(raw, fields.phnum, LittleEndian, 0xfff0)
		_, e := ParseELFFile(raw)
		if !errors.Is(e, ErrTruncatedProgramHeaderTable) {
			t.Logf("%s: expected a truncated table error, got %v\n", width,
				e)
			t.Fail()
		}
		// An offset past the end of the file.
		raw = b.build()
		patchAddr(raw, fields.phoff, width, LittleEndian,
			uint64(len(raw))+8)
		_, e = ParseELFFile(raw)
		if !errors.Is(e, ErrTruncatedProgramHeaderTable) {
			t.Logf("%s: expected a truncated table error for a bad offset, "+
				"got %v\n", width, e)
			t.Fail()
		}
	}
	// An offset close to the top of the address space must not wrap around.
	raw := dynamicTestELF().build()
	patchAddr(raw, fieldsFor(Width64).phoff, Width64, LittleEndian,
		0xffffffffffffff00)
	_, e := ParseELFFile(raw)
	if !errors.Is(e, ErrTruncatedProgramHeaderTable) {
		t.Logf("Expected a truncated table error for a huge offset, got %v\n",
			e)
		t.Fail()
	}
}

func TestProgramHeaderTableEndsAtFileEnd(t *testing.T) {
	b := defaultTestELF()
	b.segments = []testSegment{{typ: NoteSegment, flags: SegmentReadable}}
	raw := b.build()
	// Move the single entry to the very end of the file.
	entry := append([]byte(nil), raw[64:64+56]...)
	raw = append(raw, entry...)
	patchAddr(raw, fieldsFor(Width64).phoff, Width64, LittleEndian,
		uint64(len(raw)-56))
	f, e := ParseELF64File(raw)
	if e != nil {
		t.Logf("Failed parsing table ending at the end of the file: %s\n", e)
		t.FailNow()
	}
	if f.Segments()[0].Type != NoteSegment {
		t.Logf("Bad segment: %+v\n", f.Segments()[0])
		t.Fail()
	}
	// One byte less and the table no longer fits.
	_, e = ParseELF64File(raw[:len(raw)-1])
	if !errors.Is(e, ErrTruncatedProgramHeaderTable) {
		t.Logf("Expected a truncated table error, got %v\n", e)
		t.Fail()
	}
}

func TestProgramHeaderEntrySize(t *testing.T) {
	raw := dynamicTestELF().build()
	patch16(raw, fieldsFor(Width64).phentsize, LittleEndian, 32)
	_, e := ParseELFFile(raw)
	if !errors.Is(e, ErrBadEntrySize) {
		t.Logf("Expected ErrBadEntrySize, got %v\n", e)
		t.Fail()
	}
}

func TestSmallEntrySizeHugeCount(t *testing.T) {
	for _, width := range []BitWidth{Width32, Width64} {
		b := dynamicTestELF()
		b.width = width
		raw := b.build()
		fields := fieldsFor(width)
		patch16(raw, fields.phentsize, LittleEndian, 8)
		patch16(raw, fields.phnum, LittleEndian, 0xffff)
		_, e := ParseELFFile(raw)
		if !errors.Is(e, ErrTruncatedProgramHeaderTable) {
			t.Logf("%s: expected a truncated table error, got %v\n", width, e)
			t.Fail()
			continue
		}
		if errors.Is(e, ErrBadEntrySize) {
			t.Logf("%s: got an entry size error as well: %s\n", width, e)
			t.Fail()
		}
	}
	// A zero entry size with entries can't describe a table.
	raw := dynamicTestELF().build()
	patch16(raw, fieldsFor(Width64).phentsize, LittleEndian, 0)
	_, e := ParseELFFile(raw)
	if !errors.Is(e, ErrBadEntrySize) {
		t.Logf("Expected ErrBadEntrySize for a zero entry size, got %v\n", e)
		t.Fail()
	}
}

func TestUnsupportedProgramHeaderType(t *testing.T) {
	for _, typ := range []uint32{8, 0x60000000, 0x6474e555, 0x70000001} {
		b := dynamicTestELF()
		b.segments[7].typ = typ
		_, e := ParseELFFile(b.build())
		if !errors.Is(e, ErrUnsupportedProgramHeaderType) {
			t.Logf("Type 0x%x: expected ErrUnsupportedProgramHeaderType, "+
				"got %v\n", typ, e)
			t.Fail()
			continue
		}
		t.Logf("Got expected error: %s\n", e)
	}
}

func TestNoProgramHeaders(t *testing.T) {
	raw := defaultTestELF().build()
	// With no entries, the offset and entry size aren't looked at.
	patchAddr(raw, fieldsFor(Width64).phoff, Width64, LittleEndian,
		0xffffffff)
	patch16(raw, fieldsFor(Width64).phentsize, LittleEndian, 0)
	f, e := ParseELF64File(raw)
	if e != nil {
		t.Logf("Failed parsing file without segments: %s\n", e)
		t.FailNow()
	}
	if f.GetSegmentCount() != 0 {
		t.Logf("Expected no segments, got %d\n", f.GetSegmentCount())
		t.Fail()
	}
	_, found, e := f.Interpreter()
	if found || (e != nil) {
		t.Logf("Unexpected interpreter result: %v, %v\n", found, e)
		t.Fail()
	}
}
