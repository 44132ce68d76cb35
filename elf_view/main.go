// The elf_view executable is yet-another-ELF-viewer program joining the likes
// of objdump and readelf, but is probably less complete. It exists primarily
// to facilitate testing of the elf_decoder package.
//
// Example usage: ./elf_view sections <elf_file>
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/midbel/cli"
	"github.com/yalue/elf_decoder"
)

var commands = []*cli.Command{
	{
		Usage:   "header [-v] [-m <max-size>] <file>",
		Short:   "print the identification block and file header",
		Alias:   []string{"info"},
		Run:     runHeader,
		Default: true,
	},
	{
		Usage: "segments [-v] [-m <max-size>] <file>",
		Short: "list the program headers",
		Alias: []string{"program-headers"},
		Run:   runSegments,
	},
	{
		Usage: "sections [-v] [-m <max-size>] <file>",
		Short: "list the section headers with their names",
		Run:   runSections,
	},
	{
		Usage: "dump -s <name|index> [-m <max-size>] <file>",
		Short: "write the raw content of one section to stdout",
		Run:   runDump,
	},
	{
		Usage: "archive [-v] [-m <max-size>] <lib.a>",
		Short: "decode every member of a static archive",
		Alias: []string{"ar"},
		Run:   runArchive,
	},
}

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
	cli.RunAndExit(commands, func() {})
}

// Loads and decodes the file named by the command's first argument. The
// returned function releases the file's memory and must be called once the
// decoded file is no longer used.
func openELF(path string, cfg *config) (elf_decoder.ELFFile, func() error,
	error) {
	if path == "" {
		return nil, nil, fmt.Errorf("Missing input file")
	}
	raw, release, e := loadFile(path, cfg)
	if e != nil {
		return nil, nil, e
	}
	f, e := elf_decoder.ParseELFFile(raw)
	if e != nil {
		if e2 := release(); e2 != nil {
			log.Printf("Failed releasing %s: %s\n", path, e2)
		}
		return nil, nil, fmt.Errorf("Failed parsing %s: %w", path, e)
	}
	if cfg.verbose {
		log.Printf("Successfully parsed file %s (%d bytes)\n", path, len(raw))
	}
	return f, release, nil
}

func runHeader(cmd *cli.Command, args []string) (err error) {
	cfg := loadConfig()
	cmd.Flag.BoolVar(&cfg.verbose, "v", cfg.verbose, "verbose output")
	cmd.Flag.Int64Var(&cfg.maxSize, "m", cfg.maxSize, "maximum input size")
	if e := cmd.Flag.Parse(args); e != nil {
		return e
	}
	f, release, e := openELF(cmd.Flag.Arg(0), &cfg)
	if e != nil {
		return e
	}
	defer releaseFile(release, &err)
	return printHeader(os.Stdout, f, &cfg)
}

func runSegments(cmd *cli.Command, args []string) (err error) {
	cfg := loadConfig()
	cmd.Flag.BoolVar(&cfg.verbose, "v", cfg.verbose, "verbose output")
	cmd.Flag.Int64Var(&cfg.maxSize, "m", cfg.maxSize, "maximum input size")
	if e := cmd.Flag.Parse(args); e != nil {
		return e
	}
	f, release, e := openELF(cmd.Flag.Arg(0), &cfg)
	if e != nil {
		return e
	}
	defer releaseFile(release, &err)
	return printSegments(os.Stdout, f, &cfg)
}

func runSections(cmd *cli.Command, args []string) (err error) {
	cfg := loadConfig()
	cmd.Flag.BoolVar(&cfg.verbose, "v", cfg.verbose, "verbose output")
	cmd.Flag.Int64Var(&cfg.maxSize, "m", cfg.maxSize, "maximum input size")
	if e := cmd.Flag.Parse(args); e != nil {
		return e
	}
	f, release, e := openELF(cmd.Flag.Arg(0), &cfg)
	if e != nil {
		return e
	}
	defer releaseFile(release, &err)
	return printSections(os.Stdout, f, &cfg)
}

func runDump(cmd *cli.Command, args []string) (err error) {
	cfg := loadConfig()
	section := cmd.Flag.String("s", "", "section name or index")
	cmd.Flag.Int64Var(&cfg.maxSize, "m", cfg.maxSize, "maximum input size")
	if e := cmd.Flag.Parse(args); e != nil {
		return e
	}
	if *section == "" {
		return fmt.Errorf("A section name or index is required")
	}
	f, release, e := openELF(cmd.Flag.Arg(0), &cfg)
	if e != nil {
		return e
	}
	defer releaseFile(release, &err)
	return dumpSection(os.Stdout, f, *section)
}

func runArchive(cmd *cli.Command, args []string) error {
	cfg := loadConfig()
	cmd.Flag.BoolVar(&cfg.verbose, "v", cfg.verbose, "verbose output")
	cmd.Flag.Int64Var(&cfg.maxSize, "m", cfg.maxSize, "maximum member size")
	if e := cmd.Flag.Parse(args); e != nil {
		return e
	}
	path := cmd.Flag.Arg(0)
	if path == "" {
		return fmt.Errorf("Missing input archive")
	}
	r, e := os.Open(path)
	if e != nil {
		return e
	}
	defer r.Close()
	members, e := scanArchive(r, &cfg)
	if e != nil {
		return fmt.Errorf("Failed reading archive %s: %w", path, e)
	}
	return printArchive(os.Stdout, members)
}

// Releases a file loaded by openELF. A failure is returned through err
// unless an earlier error is already being returned.
func releaseFile(release func() error, err *error) {
	e := release()
	if e == nil {
		return
	}
	if *err == nil {
		*err = fmt.Errorf("Failed releasing the input file: %w", e)
		return
	}
	log.Printf("Failed releasing the input file: %s\n", e)
}

// Resolves a section given either its index or its name.
func findSection(f elf_decoder.ELFFile, which string) (int, error) {
	if index, e := strconv.Atoi(which); e == nil {
		if (index < 0) || (index >= f.GetSectionCount()) {
			return -1, fmt.Errorf("Invalid section index: %d", index)
		}
		return index, nil
	}
	return f.SectionIndexByName(which)
}
