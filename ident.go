package elf_decoder

// This file contains the parser for the 16-byte identification block at the
// start of every ELF file.

import (
	"bytes"
	"fmt"
)

const identSize = 16

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// The size of addresses and offsets in an ELF file.
type BitWidth uint8

const (
	Width32 BitWidth = 32
	Width64 BitWidth = 64
)

func (w BitWidth) String() string {
	switch w {
	case Width32:
		return "32-bit"
	case Width64:
		return "64-bit"
	}
	return fmt.Sprintf("unknown bit width: %d", uint8(w))
}

// The OS/ABI byte of the identification block. Only the values listed below
// are accepted.
type OSABI uint8

const (
	ABISystemV    OSABI = 0
	ABIHPUX       OSABI = 1
	ABINetBSD     OSABI = 2
	ABILinux      OSABI = 3
	ABISolaris    OSABI = 6
	ABIAIX        OSABI = 7
	ABIIRIX       OSABI = 8
	ABIFreeBSD    OSABI = 9
	ABITru64      OSABI = 10
	ABIModesto    OSABI = 11
	ABIOpenBSD    OSABI = 12
	ABIARMEABI    OSABI = 64
	ABIARM        OSABI = 97
	ABIStandalone OSABI = 255
)

var abiNames = map[OSABI]string{
	ABISystemV:    "UNIX System V",
	ABIHPUX:       "HP-UX",
	ABINetBSD:     "NetBSD",
	ABILinux:      "Linux",
	ABISolaris:    "Solaris",
	ABIAIX:        "AIX",
	ABIIRIX:       "IRIX",
	ABIFreeBSD:    "FreeBSD",
	ABITru64:      "Tru64 UNIX",
	ABIModesto:    "Novell Modesto",
	ABIOpenBSD:    "OpenBSD",
	ABIARMEABI:    "ARM EABI",
	ABIARM:        "ARM",
	ABIStandalone: "standalone (embedded) application",
}

func (a OSABI) String() string {
	if s, ok := abiNames[a]; ok {
		return s
	}
	return fmt.Sprintf("unknown OS ABI: %d", uint8(a))
}

// Holds the decoded identification block. The width and byte order here
// decide how the rest of the file is read.
type Identification struct {
	Width BitWidth
	Order ByteOrder
	// The EI_VERSION byte, stored as-is.
	FormatVersion uint8
	ABI           OSABI
	ABIVersion    uint8
}

func (n Identification) String() string {
	return fmt.Sprintf("%s %s ELF, %s ABI version %d", n.Width, n.Order,
		n.ABI, n.ABIVersion)
}

// Parses the identification block at the start of raw. Only the first 16
// bytes are examined.
func ParseIdentification(raw []byte) (Identification, error) {
	var ident Identification
	if len(raw) < identSize {
		return Identification{}, fmt.Errorf("%w: got %d bytes",
			ErrTooSmallIdent, len(raw))
	}
	if !bytes.Equal(raw[:4], elfMagic) {
		return Identification{}, fmt.Errorf("%w: bad signature % x",
			ErrNotELF, raw[:4])
	}
	switch raw[4] {
	case 1:
		ident.Width = Width32
	case 2:
		ident.Width = Width64
	default:
		return Identification{}, fmt.Errorf("%w: %d", ErrUnsupportedBitWidth,
			raw[4])
	}
	switch ByteOrder(raw[5]) {
	case LittleEndian, BigEndian:
		ident.Order = ByteOrder(raw[5])
	default:
		return Identification{}, fmt.Errorf("%w: %d",
			ErrUnsupportedEndianness, raw[5])
	}
	ident.FormatVersion = raw[6]
	abi := OSABI(raw[7])
	if _, ok := abiNames[abi]; !ok {
		return Identification{}, fmt.Errorf("%w: %d", ErrUnsupportedABI,
			raw[7])
	}
	ident.ABI = abi
	ident.ABIVersion = raw[8]
	return ident, nil
}
