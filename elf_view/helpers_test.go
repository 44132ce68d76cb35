package main

import (
	"github.com/yalue/elf_decoder"
)

// Returns a small 64-bit little-endian x86-64 shared object with a .text
// section and a section names table, and no program headers.
func testELF() []byte {
	raw := make([]byte, 384)
	o := elf_decoder.LittleEndian
	copy(raw, []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	o.PutUint16(raw[16:], 3)
	o.PutUint16(raw[18:], 0x3e)
	o.PutUint32(raw[20:], 1)
	o.PutUint64(raw[24:], 0x1040)
	o.PutUint64(raw[40:], 96)
	o.PutUint16(raw[52:], 64)
	o.PutUint16(raw[54:], 56)
	o.PutUint16(raw[58:], 64)
	o.PutUint16(raw[60:], 3)
	o.PutUint16(raw[62:], 2)
	copy(raw[64:], []byte{0x90, 0x90, 0xc3})
	copy(raw[72:], "\x00.text\x00.shstrtab\x00")
	text := raw[96+64:]
	o.PutUint32(text[0:], 1)
	o.PutUint32(text[4:], 1)
	o.PutUint64(text[8:], 6)
	o.PutUint64(text[16:], 0x1000)
	o.PutUint64(text[24:], 64)
	o.PutUint64(text[32:], 3)
	o.PutUint64(text[48:], 16)
	names := raw[96+128:]
	o.PutUint32(names[0:], 7)
	o.PutUint32(names[4:], 3)
	o.PutUint64(names[24:], 72)
	o.PutUint64(names[32:], 17)
	o.PutUint64(names[48:], 1)
	return raw
}

func testConfig() *config {
	return &config{maxSize: defaultMaxSize}
}
