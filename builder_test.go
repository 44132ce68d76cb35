package elf_decoder

// This file contains a small ELF writer used to produce test inputs. It only
// lays out what the decoder reads: the header, program headers, section data,
// a section names table and section headers.

type testSegment struct {
	typ   uint32
	flags uint32
	// If set, offset and filesz are taken from the named section.
	section string
	offset  uint64
	vaddr   uint64
	paddr   uint64
	filesz  uint64
	memsz   uint64
	align   uint64
}

type testSection struct {
	name    string
	typ     uint32
	flags   uint64
	addr    uint64
	data    []byte
	link    uint32
	info    uint32
	align   uint64
	entsize uint64
}

type testELF struct {
	width    BitWidth
	order    ByteOrder
	abi      uint8
	fileType uint16
	machine  uint16
	entry    uint64
	flags    uint32
	segments []testSegment
	// The builder adds the null section first and ".shstrtab" last.
	sections []testSection
}

// Offsets of header fields that tests overwrite.
type headerFields struct {
	phoff     int
	shoff     int
	phentsize int
	phnum     int
	shentsize int
	shnum     int
	shstrndx  int
}

func fieldsFor(width BitWidth) headerFields {
	if width == Width32 {
		return headerFields{28, 32, 42, 44, 46, 48, 50}
	}
	return headerFields{32, 40, 54, 56, 58, 60, 62}
}

func layoutFor(width BitWidth) *layout {
	if width == Width32 {
		return &layout32
	}
	return &layout64
}

type byteWriter struct {
	data  []byte
	order ByteOrder
	width BitWidth
}

func (w *byteWriter) u8(v uint8) {
	w.data = append(w.data, v)
}

func (w *byteWriter) u16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.data = append(w.data, b[:]...)
}

func (w *byteWriter) u32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.data = append(w.data, b[:]...)
}

func (w *byteWriter) u64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.data = append(w.data, b[:]...)
}

func (w *byteWriter) addr(v uint64) {
	if w.width == Width32 {
		w.u32(uint32(v))
		return
	}
	w.u64(v)
}

func (w *byteWriter) alignTo(n int) {
	for (len(w.data) % n) != 0 {
		w.data = append(w.data, 0)
	}
}

// Returns a minimal valid 64-bit little-endian x86-64 shared object with one
// text section and no segments.
func defaultTestELF() *testELF {
	return &testELF{
		width:    Width64,
		order:    LittleEndian,
		fileType: ELFTypeShared,
		machine:  MachineTypeAMD64,
		entry:    0x1040,
		sections: []testSection{
			{
				name:  ".text",
				typ:   BitsSection,
				flags: 6,
				addr:  0x1000,
				data:  []byte{0x90, 0x90, 0xc3},
				align: 16,
			},
		},
	}
}

// Returns the index the builder gives the section names table.
func (b *testELF) namesIndex() int {
	return len(b.sections) + 1
}

func (b *testELF) build() []byte {
	l := layoutFor(b.width)
	w := &byteWriter{order: b.order, width: b.width}
	// Reserve space for the header and program headers, and fill them in
	// once the offsets are known.
	w.data = make([]byte, l.headerSize+len(b.segments)*l.segmentSize)

	type placed struct {
		testSection
		offset     uint64
		nameOffset uint32
	}
	names := []byte{0}
	all := make([]placed, 0, len(b.sections)+2)
	all = append(all, placed{})
	for _, s := range b.sections {
		w.alignTo(8)
		p := placed{testSection: s, offset: uint64(len(w.data))}
		if s.typ != UninitializedSection {
			w.data = append(w.data, s.data...)
		}
		p.nameOffset = uint32(len(names))
		names = append(append(names, s.name...), 0)
		all = append(all, p)
	}
	namesSection := placed{
		testSection: testSection{name: ".shstrtab", typ: StringTableSection,
			align: 1},
		nameOffset: uint32(len(names)),
	}
	names = append(append(names, ".shstrtab"...), 0)
	namesSection.offset = uint64(len(w.data))
	namesSection.data = names
	w.data = append(w.data, names...)
	all = append(all, namesSection)

	w.alignTo(8)
	shoff := uint64(len(w.data))
	for _, s := range all {
		w.u32(s.nameOffset)
		w.u32(s.typ)
		w.addr(s.flags)
		w.addr(s.addr)
		if s.typ == NullSection {
			w.addr(0)
		} else {
			w.addr(s.offset)
		}
		w.addr(uint64(len(s.data)))
		w.u32(s.link)
		w.u32(s.info)
		w.addr(s.align)
		w.addr(s.entsize)
	}

	hw := &byteWriter{order: b.order, width: b.width}
	hw.data = append(hw.data, 0x7f, 'E', 'L', 'F')
	if b.width == Width32 {
		hw.u8(1)
	} else {
		hw.u8(2)
	}
	hw.u8(uint8(b.order))
	hw.u8(1)
	hw.u8(b.abi)
	hw.data = append(hw.data, make([]byte, 8)...)
	hw.u16(b.fileType)
	hw.u16(b.machine)
	hw.u32(1)
	hw.addr(b.entry)
	if len(b.segments) > 0 {
		hw.addr(uint64(l.headerSize))
	} else {
		hw.addr(0)
	}
	hw.addr(shoff)
	hw.u32(b.flags)
	hw.u16(uint16(l.headerSize))
	hw.u16(uint16(l.segmentSize))
	hw.u16(uint16(len(b.segments)))
	hw.u16(uint16(l.sectionSize))
	hw.u16(uint16(len(all)))
	hw.u16(uint16(b.namesIndex()))
	for _, s := range b.segments {
		if s.section != "" {
			for _, p := range all {
				if p.name == s.section {
					s.offset = p.offset
					s.filesz = uint64(len(p.data))
				}
			}
		}
		hw.u32(s.typ)
		if b.width == Width64 {
			hw.u32(s.flags)
		}
		hw.addr(s.offset)
		hw.addr(s.vaddr)
		hw.addr(s.paddr)
		hw.addr(s.filesz)
		hw.addr(s.memsz)
		if b.width == Width32 {
			hw.u32(s.flags)
		}
		hw.addr(s.align)
	}
	copy(w.data, hw.data)
	return w.data
}

// Overwrites a 2-byte header field.
func patch16(raw []byte, offset int, order ByteOrder, v uint16) {
	order.PutUint16(raw[offset:], v)
}

// Overwrites an address-sized header field.
func patchAddr(raw []byte, offset int, width BitWidth, order ByteOrder,
	v uint64) {
	if width == Width32 {
		order.PutUint32(raw[offset:], uint32(v))
		return
	}
	order.PutUint64(raw[offset:], v)
}

// Returns the offset of the section header at the given index.
func sectionHeaderOffset(raw []byte, width BitWidth, order ByteOrder,
	index int) int {
	f := fieldsFor(width)
	var shoff uint64
	if width == Width32 {
		shoff = uint64(order.Uint32(raw[f.shoff:]))
	} else {
		shoff = order.Uint64(raw[f.shoff:])
	}
	return int(shoff) + index*layoutFor(width).sectionSize
}
