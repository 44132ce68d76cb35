package elf_decoder

// This file contains the byte order codec. Every multi-byte field in an ELF
// file is converted through one of these methods.

import (
	"encoding/binary"
	"fmt"
)

// The byte order of an ELF file, using the same values as the data encoding
// byte in the identification block.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = 1
	BigEndian    ByteOrder = 2
)

func (o ByteOrder) encoding() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Converts a 2-byte sequence to an integer. The caller must provide at least
// two bytes.
func (o ByteOrder) Uint16(b []byte) uint16 {
	return o.encoding().Uint16(b)
}

func (o ByteOrder) Uint32(b []byte) uint32 {
	return o.encoding().Uint32(b)
}

func (o ByteOrder) Uint64(b []byte) uint64 {
	return o.encoding().Uint64(b)
}

// The Put methods are the inverse of the corresponding reads.
func (o ByteOrder) PutUint16(b []byte, v uint16) {
	o.encoding().PutUint16(b, v)
}

func (o ByteOrder) PutUint32(b []byte, v uint32) {
	o.encoding().PutUint32(b, v)
}

func (o ByteOrder) PutUint64(b []byte, v uint64) {
	o.encoding().PutUint64(b, v)
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	}
	return fmt.Sprintf("unknown byte order: %d", uint8(o))
}
