package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/midbel/textwrap"
	"github.com/yalue/elf_decoder"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 8, 2, 2, ' ', 0)
}

// Formats one of the decoder's long descriptions for display.
func describe(s string, cfg *config) string {
	if !cfg.wrap {
		return s
	}
	return textwrap.Wrap(s)
}

func printHeader(w io.Writer, f elf_decoder.ELFFile, cfg *config) error {
	switch v := f.(type) {
	case *elf_decoder.ELF32File:
		h := v.Header()
		return writeHeader(w, f, &h, cfg)
	case *elf_decoder.ELF64File:
		h := v.Header()
		return writeHeader(w, f, &h, cfg)
	}
	return fmt.Errorf("Unsupported ELF file implementation: %T", f)
}

func writeHeader[A elf_decoder.Address](w io.Writer, f elf_decoder.ELFFile,
	h *elf_decoder.Header[A], cfg *config) error {
	interp, hasInterp, e := f.Interpreter()
	if e != nil {
		return fmt.Errorf("Failed reading the interpreter path: %w", e)
	}
	t := newTable(w)
	fmt.Fprintf(t, "Class:\t%s\n", h.Ident.Width)
	fmt.Fprintf(t, "Data:\t%s\n", h.Ident.Order)
	fmt.Fprintf(t, "Identification version:\t%d\n", h.Ident.FormatVersion)
	fmt.Fprintf(t, "OS/ABI:\t%s\n", h.Ident.ABI)
	fmt.Fprintf(t, "ABI version:\t%d\n", h.Ident.ABIVersion)
	fmt.Fprintf(t, "Type:\t%s\n", h.Type)
	fmt.Fprintf(t, "Machine:\t%s\n", h.Machine)
	fmt.Fprintf(t, "Version:\t%s\n", h.Version)
	fmt.Fprintf(t, "Entry point:\t0x%x\n", h.EntryPoint)
	fmt.Fprintf(t, "Flags:\t0x%x\n", h.Flags)
	fmt.Fprintf(t, "Header size:\t%d bytes\n", h.HeaderSize)
	fmt.Fprintf(t, "Program headers:\t%d of %d bytes at offset %d\n",
		f.GetSegmentCount(), h.ProgramHeaderEntrySize, h.ProgramHeaderOffset)
	fmt.Fprintf(t, "Section headers:\t%d of %d bytes at offset %d\n",
		f.GetSectionCount(), h.SectionHeaderEntrySize, h.SectionHeaderOffset)
	fmt.Fprintf(t, "Section names index:\t%d\n", h.SectionNamesTable)
	if hasInterp {
		fmt.Fprintf(t, "Interpreter:\t%s\n", interp)
	}
	if e = t.Flush(); e != nil {
		return e
	}
	if cfg.verbose {
		_, e = fmt.Fprintf(w, "\n%s\n", describe(fmt.Sprintf("%s. %s.",
			h.Ident, h), cfg))
	}
	return e
}

func printSegments(w io.Writer, f elf_decoder.ELFFile, cfg *config) error {
	count := f.GetSegmentCount()
	if count == 0 {
		_, e := fmt.Fprintf(w, "There are no program headers in this file.\n")
		return e
	}
	t := newTable(w)
	fmt.Fprintf(t, "Index\tType\tOffset\tVirtAddr\tPhysAddr\tFileSize\t"+
		"MemSize\tFlags\tAlign\n")
	for i := 0; i < count; i++ {
		p, e := f.GetProgramHeader(i)
		if e != nil {
			return e
		}
		fmt.Fprintf(t, "%d\t%s\t0x%x\t0x%x\t0x%x\t0x%x\t0x%x\t%s\t0x%x\n", i,
			p.GetType(), p.GetFileOffset(), p.GetVirtualAddress(),
			p.GetPhysicalAddress(), p.GetFileSize(), p.GetMemorySize(),
			p.GetFlags().Short(), p.GetAlignment())
	}
	if e := t.Flush(); e != nil {
		return e
	}
	interp, found, e := f.Interpreter()
	if e != nil {
		return fmt.Errorf("Failed reading the interpreter path: %w", e)
	}
	if found {
		fmt.Fprintf(w, "\nRequesting program interpreter: %s\n", interp)
	}
	if !cfg.verbose {
		return nil
	}
	for i := 0; i < count; i++ {
		p, _ := f.GetProgramHeader(i)
		fmt.Fprintf(w, "\n%d. %s\n", i, describe(p.String(), cfg))
	}
	return nil
}

func printSections(w io.Writer, f elf_decoder.ELFFile, cfg *config) error {
	count := f.GetSectionCount()
	if count == 0 {
		_, e := fmt.Fprintf(w, "There are no sections in this file.\n")
		return e
	}
	t := newTable(w)
	fmt.Fprintf(t, "Index\tName\tType\tAddress\tOffset\tSize\tEntSize\t"+
		"Flags\tLink\tInfo\tAlign\n")
	for i := 0; i < count; i++ {
		s, e := f.GetSectionHeader(i)
		if e != nil {
			return e
		}
		fmt.Fprintf(t, "%d\t%s\t%s\t0x%x\t0x%x\t0x%x\t0x%x\t%s\t%d\t%d\t%d\n",
			i, displayName(i, s.GetName()), s.GetType(),
			s.GetVirtualAddress(), s.GetFileOffset(), s.GetSize(),
			s.GetEntrySize(), shortSectionFlags(s.GetFlags()),
			s.GetLinkedIndex(), s.GetInfo(), s.GetAlignment())
	}
	if e := t.Flush(); e != nil {
		return e
	}
	if !cfg.verbose {
		return nil
	}
	for i := 0; i < count; i++ {
		s, _ := f.GetSectionHeader(i)
		fmt.Fprintf(w, "\n%d. %s: %s\n", i, displayName(i, s.GetName()),
			describe(s.String(), cfg))
	}
	return nil
}

func displayName(index int, name string) string {
	if name != "" {
		return name
	}
	if index == 0 {
		return "<null section>"
	}
	return "<unnamed>"
}

// Returns the flags in the "WAX" form used by readelf.
func shortSectionFlags(flags elf_decoder.SectionHeaderFlags) string {
	var s []byte
	if flags.Writable() {
		s = append(s, 'W')
	}
	if flags.Allocated() {
		s = append(s, 'A')
	}
	if flags.Executable() {
		s = append(s, 'X')
	}
	return string(s)
}

func dumpSection(w io.Writer, f elf_decoder.ELFFile, which string) error {
	index, e := findSection(f, which)
	if e != nil {
		return e
	}
	content, e := f.GetSectionContent(index)
	if e != nil {
		return fmt.Errorf("Failed dumping section contents: %w", e)
	}
	_, e = w.Write(content)
	return e
}
