package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/midbel/tape/ar"
	"github.com/yalue/elf_decoder"
)

// The result of decoding one archive member. Exactly one of file and err is
// set.
type member struct {
	name string
	size int64
	file elf_decoder.ELFFile
	err  error
}

// Strips the padding and any "/" terminator from a member name.
func memberName(filename string) string {
	return strings.TrimSuffix(strings.TrimRight(filename, " "), "/")
}

// Returns true for the symbol index and long name table members, which
// never hold object files. The ar reader trims trailing slashes, so the GNU
// "/" and "//" members both arrive with an empty name.
func isIndexMember(name string) bool {
	switch name {
	case "", "/", "//", "/SYM64", "__.SYMDEF", "__.SYMDEF SORTED":
		return true
	}
	return false
}

// Reads the rest of the current member. The ar reader only skips the pad
// byte after an odd-sized member once it has returned EOF, so the read must
// go one byte past the member's size.
func readMember(rs *ar.Reader, name string, size int64) ([]byte, error) {
	raw, e := io.ReadAll(io.LimitReader(rs, size+1))
	if e != nil {
		return nil, e
	}
	if int64(len(raw)) != size {
		return nil, fmt.Errorf("member %s: expected %d bytes, got %d", name,
			size, len(raw))
	}
	return raw, nil
}

func skipMember(rs *ar.Reader, size int64) error {
	_, e := io.Copy(io.Discard, io.LimitReader(rs, size+1))
	return e
}

// Decodes every object in a static archive. Members that fail to decode are
// reported through their err field; only errors reading the archive itself
// are returned.
func scanArchive(r io.Reader, cfg *config) ([]member, error) {
	rs, e := ar.NewReader(r)
	if e != nil {
		return nil, e
	}
	var members []member
	for {
		h, e := rs.Next()
		if errors.Is(e, io.EOF) {
			break
		}
		if e != nil {
			return nil, e
		}
		name := memberName(h.Filename)
		if isIndexMember(name) {
			if e = skipMember(rs, h.Size); e != nil {
				return nil, e
			}
			continue
		}
		if e = checkSize(name, h.Size, cfg.maxSize); e != nil {
			members = append(members, member{name: name, size: h.Size,
				err: e})
			if e = skipMember(rs, h.Size); e != nil {
				return nil, e
			}
			continue
		}
		raw, e := readMember(rs, name, h.Size)
		if e != nil {
			return nil, e
		}
		m := member{name: name, size: h.Size}
		m.file, m.err = elf_decoder.ParseELFFile(raw)
		if cfg.verbose {
			log.Printf("Decoded member %s (%d bytes): %v\n", name, h.Size,
				m.err)
		}
		members = append(members, m)
	}
	return members, nil
}

func printArchive(w io.Writer, members []member) error {
	t := newTable(w)
	fmt.Fprintf(t, "Member\tSize\tClass\tType\tMachine\n")
	failed := 0
	for _, m := range members {
		if m.err != nil {
			failed++
			fmt.Fprintf(t, "%s\t%d\t-\t-\t%s\n", m.name, m.size, m.err)
			continue
		}
		fmt.Fprintf(t, "%s\t%d\t%s\t%s\t%s\n", m.name, m.size,
			m.file.Identification().Width, m.file.FileType(),
			m.file.Machine())
	}
	if e := t.Flush(); e != nil {
		return e
	}
	_, e := fmt.Fprintf(w, "%d members, %d failed to decode\n", len(members),
		failed)
	return e
}
