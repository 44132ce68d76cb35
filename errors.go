package elf_decoder

import (
	"errors"
)

// Each of these identifies one reason for rejecting a file. Errors returned
// by this package wrap exactly one of them, so callers should compare using
// errors.Is.
var (
	ErrNotELF                       = errors.New("not an ELF file")
	ErrTooSmallIdent                = errors.New("too small for an ELF identification block")
	ErrTooSmallHeader               = errors.New("too small for an ELF header")
	ErrUnsupportedBitWidth          = errors.New("unsupported ELF class")
	ErrUnsupportedEndianness        = errors.New("unsupported data encoding")
	ErrUnsupportedABI               = errors.New("unsupported OS ABI")
	ErrUnsupportedFileType          = errors.New("unsupported ELF file type")
	ErrUnsupportedMachineType       = errors.New("unsupported machine type")
	ErrUnsupportedVersion           = errors.New("unsupported ELF version")
	ErrUnsupportedProgramHeaderType = errors.New("unsupported program header type")
	ErrTruncatedProgramHeaderTable  = errors.New("truncated program header table")
	ErrTruncatedSectionHeaderTable  = errors.New("truncated section header table")
	ErrInvalidStringTableIndex      = errors.New("invalid string table index")
	ErrBadEntrySize                 = errors.New("table entry size too small")
	ErrSectionOutOfBounds           = errors.New("section extends past the end of the file")
)
